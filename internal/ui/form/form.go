// Package form is a small focusable form made of text inputs, checkboxes,
// radio groups and a text area, followed by a submit button. Unlike a huh
// form it reports every edit as it happens, hides fields on the fly and
// keeps the submit button visible but disabled until the owner enables it.
package form

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-console/internal/keys"
	"github.com/nhle/mail-console/internal/theme"
)

// Kind selects the widget used for a field.
type Kind int

const (
	Text Kind = iota
	Password
	Checkbox
	Radio
	TextArea
)

// Option is one choice of a radio group.
type Option struct {
	Label string
	Value string
}

// Spec declares a field. Visible, when set, is evaluated against the form
// on every render and focus move; a hidden field keeps its value.
type Spec struct {
	Key         string
	Label       string
	Kind        Kind
	Placeholder string
	Section     string
	Options     []Option
	Visible     func(*Form) bool
}

type field struct {
	spec     Spec
	input    textinput.Model
	area     textarea.Model
	checked  bool
	selected int
	err      string
}

func newField(s Spec) *field {
	f := &field{spec: s, selected: -1}
	switch s.Kind {
	case Text, Password:
		ti := textinput.New()
		ti.Placeholder = s.Placeholder
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Cursor.SetMode(cursor.CursorStatic)
		if s.Kind == Password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.input = ti
	case TextArea:
		ta := textarea.New()
		ta.Placeholder = s.Placeholder
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetHeight(8)
		ta.Cursor.SetMode(cursor.CursorStatic)
		f.area = ta
	}
	return f
}

func (f *field) value() string {
	switch f.spec.Kind {
	case Text, Password:
		return f.input.Value()
	case TextArea:
		return f.area.Value()
	case Radio:
		if f.selected < 0 || f.selected >= len(f.spec.Options) {
			return ""
		}
		return f.spec.Options[f.selected].Value
	case Checkbox:
		if f.checked {
			return "true"
		}
		return "false"
	}
	return ""
}

func (f *field) setValue(v string) {
	switch f.spec.Kind {
	case Text, Password:
		f.input.SetValue(v)
	case TextArea:
		f.area.SetValue(v)
	case Radio:
		f.selected = -1
		for i, o := range f.spec.Options {
			if o.Value == v {
				f.selected = i
				break
			}
		}
	case Checkbox:
		f.checked = v == "true"
	}
}

// Result reports what a call to Update did.
type Result struct {
	// Changed is the key of the field whose value was edited, or "".
	Changed string
	// Submitted is true when the user activated an enabled submit button.
	Submitted bool
}

// Form is a vertical list of fields followed by a submit button.
type Form struct {
	keys          *keys.KeyMap
	fields        []*field
	index         map[string]*field
	focus         int
	submitLabel   string
	submitEnabled bool
	width         int
}

// New builds a form from specs. Focus starts on the first visible field.
func New(km *keys.KeyMap, submitLabel string, specs ...Spec) *Form {
	f := &Form{
		keys:        km,
		index:       make(map[string]*field, len(specs)),
		submitLabel: submitLabel,
		width:       60,
	}
	for _, s := range specs {
		fl := newField(s)
		f.fields = append(f.fields, fl)
		f.index[s.Key] = fl
	}
	f.focus = f.nextVisible(-1, 1)
	f.applyFocus()
	return f
}

// Value returns the current value of key. Checkboxes yield "true"/"false"
// and an unselected radio group yields "".
func (f *Form) Value(key string) string {
	if fl, ok := f.index[key]; ok {
		return fl.value()
	}
	return ""
}

// Checked reports whether the checkbox key is ticked.
func (f *Form) Checked(key string) bool {
	if fl, ok := f.index[key]; ok {
		return fl.checked
	}
	return false
}

// SetValue overwrites a field without reporting a change.
func (f *Form) SetValue(key, v string) {
	if fl, ok := f.index[key]; ok {
		fl.setValue(v)
	}
}

// SetChecked sets a checkbox without reporting a change.
func (f *Form) SetChecked(key string, v bool) {
	if fl, ok := f.index[key]; ok {
		fl.checked = v
	}
}

// Edit sets a field as if the user had typed v and returns the resulting
// change report.
func (f *Form) Edit(key, v string) Result {
	fl, ok := f.index[key]
	if !ok {
		return Result{}
	}
	fl.setValue(v)
	return Result{Changed: key}
}

// Visible reports whether key is currently shown.
func (f *Form) Visible(key string) bool {
	fl, ok := f.index[key]
	return ok && f.isVisible(fl)
}

func (f *Form) isVisible(fl *field) bool {
	return fl.spec.Visible == nil || fl.spec.Visible(f)
}

// SetError attaches a message shown under key. An empty message clears it.
func (f *Form) SetError(key, msg string) {
	if fl, ok := f.index[key]; ok {
		fl.err = msg
	}
}

// Error returns the message attached to key.
func (f *Form) Error(key string) string {
	if fl, ok := f.index[key]; ok {
		return fl.err
	}
	return ""
}

// ClearErrors removes every field message.
func (f *Form) ClearErrors() {
	for _, fl := range f.fields {
		fl.err = ""
	}
}

// SetSubmitEnabled toggles whether the submit button can be activated.
func (f *Form) SetSubmitEnabled(v bool) { f.submitEnabled = v }

// SubmitEnabled reports the submit button state.
func (f *Form) SubmitEnabled() bool { return f.submitEnabled }

// SetWidth sets the width of text inputs and the text area.
func (f *Form) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.width = w
	for _, fl := range f.fields {
		switch fl.spec.Kind {
		case Text, Password:
			fl.input.Width = w - 4
		case TextArea:
			fl.area.SetWidth(w - 2)
		}
	}
}

// FocusedKey returns the key of the focused field, or "" when the submit
// button has focus.
func (f *Form) FocusedKey() string {
	if f.focus < len(f.fields) {
		return f.fields[f.focus].spec.Key
	}
	return ""
}

// Focus moves focus to key when it is visible.
func (f *Form) Focus(key string) tea.Cmd {
	for i, fl := range f.fields {
		if fl.spec.Key == key && f.isVisible(fl) {
			f.focus = i
			return f.applyFocus()
		}
	}
	return nil
}

// Blur removes focus from every widget.
func (f *Form) Blur() {
	for _, fl := range f.fields {
		fl.input.Blur()
		fl.area.Blur()
	}
}

// Refocus re-applies focus, moving it off a field that has become hidden.
func (f *Form) Refocus() tea.Cmd {
	if f.focus < len(f.fields) && !f.isVisible(f.fields[f.focus]) {
		f.focus = f.nextVisible(f.focus, 1)
	}
	return f.applyFocus()
}

// nextVisible walks from i in direction dir and returns the next visible
// field index, or len(fields) for the submit button.
func (f *Form) nextVisible(i, dir int) int {
	n := len(f.fields) + 1
	for step := 0; step < n; step++ {
		i = ((i+dir)%n + n) % n
		if i == len(f.fields) || f.isVisible(f.fields[i]) {
			return i
		}
	}
	return len(f.fields)
}

func (f *Form) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	for i, fl := range f.fields {
		if i == f.focus {
			switch fl.spec.Kind {
			case Text, Password:
				cmd = fl.input.Focus()
			case TextArea:
				cmd = fl.area.Focus()
			}
			continue
		}
		fl.input.Blur()
		fl.area.Blur()
	}
	return cmd
}

func (f *Form) move(dir int) tea.Cmd {
	f.focus = f.nextVisible(f.focus, dir)
	return f.applyFocus()
}

// Update routes a message to the focused widget.
func (f *Form) Update(msg tea.Msg) (Result, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.forward(msg)
	}

	onSubmit := f.focus >= len(f.fields)
	var cur *field
	if !onSubmit {
		cur = f.fields[f.focus]
	}
	inArea := cur != nil && cur.spec.Kind == TextArea

	switch {
	case key.Matches(km, f.keys.Submit):
		return Result{Submitted: f.submitEnabled}, nil

	case km.String() == "tab":
		return Result{}, f.move(1)
	case km.String() == "shift+tab":
		return Result{}, f.move(-1)

	case !inArea && key.Matches(km, f.keys.Next):
		return Result{}, f.move(1)
	case !inArea && key.Matches(km, f.keys.Prev):
		return Result{}, f.move(-1)
	}

	if onSubmit {
		if km.String() == "enter" {
			return Result{Submitted: f.submitEnabled}, nil
		}
		return Result{}, nil
	}

	switch cur.spec.Kind {
	case Checkbox:
		if key.Matches(km, f.keys.Toggle) || km.String() == "enter" {
			cur.checked = !cur.checked
			return Result{Changed: cur.spec.Key}, nil
		}
		return Result{}, nil

	case Radio:
		n := len(cur.spec.Options)
		if n == 0 {
			return Result{}, nil
		}
		switch {
		case key.Matches(km, f.keys.Right), key.Matches(km, f.keys.Toggle):
			cur.selected = (cur.selected + 1) % n
		case key.Matches(km, f.keys.Left):
			if cur.selected <= 0 {
				cur.selected = n - 1
			} else {
				cur.selected--
			}
		case km.String() == "enter":
			return Result{}, f.move(1)
		default:
			return Result{}, nil
		}
		return Result{Changed: cur.spec.Key}, nil

	case Text, Password:
		if km.String() == "enter" {
			return Result{}, f.move(1)
		}
	}

	return f.forward(msg)
}

// forward passes msg to the focused text widget and reports an edit when its
// value changed.
func (f *Form) forward(msg tea.Msg) (Result, tea.Cmd) {
	if f.focus >= len(f.fields) {
		return Result{}, nil
	}
	cur := f.fields[f.focus]

	before := cur.value()
	var cmd tea.Cmd
	switch cur.spec.Kind {
	case Text, Password:
		cur.input, cmd = cur.input.Update(msg)
	case TextArea:
		cur.area, cmd = cur.area.Update(msg)
	default:
		return Result{}, nil
	}

	if cur.value() != before {
		return Result{Changed: cur.spec.Key}, cmd
	}
	return Result{}, cmd
}

// View renders the visible fields and the submit button.
func (f *Form) View() string {
	var b strings.Builder
	section := ""

	for i, fl := range f.fields {
		if !f.isVisible(fl) {
			continue
		}
		if fl.spec.Section != "" && fl.spec.Section != section {
			section = fl.spec.Section
			b.WriteString(theme.SectionStyle.Render(section))
			b.WriteString("\n")
		}

		focused := i == f.focus
		label := theme.LabelStyle.Render(fl.spec.Label)
		if focused {
			label = theme.FocusedLabelStyle.Render("> " + fl.spec.Label)
		}

		switch fl.spec.Kind {
		case Checkbox:
			box := "[ ]"
			if fl.checked {
				box = "[x]"
			}
			b.WriteString(label + " " + box)
		case Radio:
			b.WriteString(label + "\n")
			b.WriteString(renderOptions(fl))
		case TextArea:
			b.WriteString(label + "\n")
			b.WriteString(fl.area.View())
		default:
			b.WriteString(label + "\n")
			b.WriteString(fl.input.View())
		}
		b.WriteString("\n")

		if fl.err != "" {
			b.WriteString(theme.FieldErrorStyle.Render(fl.err))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(f.renderSubmit())
	return lipgloss.NewStyle().Width(f.width).Render(b.String())
}

func renderOptions(fl *field) string {
	parts := make([]string, 0, len(fl.spec.Options))
	for i, o := range fl.spec.Options {
		mark := "( )"
		if i == fl.selected {
			mark = "(•)"
		}
		parts = append(parts, mark+" "+o.Label)
	}
	return strings.Join(parts, "   ")
}

func (f *Form) renderSubmit() string {
	switch {
	case !f.submitEnabled:
		return theme.DisabledButtonStyle.Render(f.submitLabel)
	case f.focus >= len(f.fields):
		return theme.FocusedButtonStyle.Render(f.submitLabel)
	default:
		return theme.ButtonStyle.Render(f.submitLabel)
	}
}

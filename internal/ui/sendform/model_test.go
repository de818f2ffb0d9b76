package sendform

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-console/internal/keys"
	"github.com/nhle/mail-console/internal/model"
	"github.com/nhle/mail-console/internal/testutil"
	"github.com/nhle/mail-console/internal/ui/toast"
)

var ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}

func newModel(api *testutil.FakeAPI) Model {
	m := New(api, keys.DefaultKeyMap(), zerolog.Nop())
	m.SetSize(100, 40)
	m.SetConfigID("cfg-1")
	return m
}

func fill(m Model) Model {
	m, _ = m.SetFieldValue(keyTo, "x@y.com")
	m, _ = m.SetFieldValue(keySubject, "Hi")
	m, _ = m.SetFieldValue(keyBody, "<p>hello</p>")
	return m
}

func send(t *testing.T, m Model) (Model, []tea.Msg) {
	t.Helper()
	m, cmd := m.Update(ctrlS)
	require.True(t, m.Busy())
	assert.Contains(t, m.View(), "Sending email...")

	var out []tea.Msg
	for _, msg := range testutil.RunCmd(cmd) {
		if sent, ok := msg.(sentMsg); ok {
			var next tea.Cmd
			m, next = m.Update(sent)
			out = append(out, testutil.RunCmd(next)...)
			continue
		}
		out = append(out, msg)
	}
	assert.False(t, m.Busy())
	return m, out
}

func onlyToast(t *testing.T, msgs []tea.Msg) toast.ShowMsg {
	t.Helper()
	require.Len(t, msgs, 1)
	note, ok := msgs[0].(toast.ShowMsg)
	require.True(t, ok)
	return note
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(Values{To: "x@y.com", Subject: "Hi"}).OK())

	res := Validate(Values{To: "nope"})
	e, ok := res.For("To")
	require.True(t, ok)
	assert.Equal(t, "Please enter a valid email address!", e.Message)
	e, ok = res.For("Subject")
	require.True(t, ok)
	assert.Equal(t, "Please enter the subject!", e.Message)
}

func TestSubmitEnablement_BodyGuard(t *testing.T) {
	m := newModel(testutil.NewFakeAPI())
	assert.False(t, m.SubmitEnabled())

	m, _ = m.SetFieldValue(keyTo, "x@y.com")
	m, _ = m.SetFieldValue(keySubject, "Hi")
	assert.False(t, m.SubmitEnabled(), "body is empty")

	m, _ = m.SetFieldValue(keyBody, "   \n")
	assert.False(t, m.SubmitEnabled(), "whitespace-only body")

	m, _ = m.SetFieldValue(keyBody, "hello")
	assert.True(t, m.SubmitEnabled())

	m, _ = m.SetFieldValue(keyTo, "bad")
	assert.False(t, m.SubmitEnabled(), "fields invalid with a body present")
}

func TestSend_Success(t *testing.T) {
	api := testutil.NewFakeAPI()
	m := fill(newModel(api))

	m, msgs := send(t, m)

	require.Len(t, api.Sent, 1)
	assert.Equal(t, model.SendEmailRequest{
		To:            "x@y.com",
		Subject:       "Hi",
		Body:          "<p>hello</p>",
		EmailConfigID: "cfg-1",
	}, api.Sent[0])

	note := onlyToast(t, msgs)
	assert.Equal(t, toast.Success, note.Kind)
	assert.Equal(t, "sent", note.Text)

	assert.Empty(t, m.Value(keyTo))
	assert.Empty(t, m.Value(keySubject))
	assert.Empty(t, m.Value(keyBody))
	assert.False(t, m.SubmitEnabled())
}

func TestSend_MarkdownBodyRendered(t *testing.T) {
	api := testutil.NewFakeAPI()
	m := fill(newModel(api))
	m, _ = m.SetFieldValue(keyBody, "**hello**")

	send(t, m)

	require.Len(t, api.Sent, 1)
	assert.Equal(t, "<p><strong>hello</strong></p>", api.Sent[0].Body)
}

func TestSend_StatusFalseKeepsFields(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.SendResult = model.SendEmailResult{Status: false, Message: "daily limit reached"}
	m := fill(newModel(api))

	m, msgs := send(t, m)

	note := onlyToast(t, msgs)
	assert.Equal(t, toast.Error, note.Kind)
	assert.Equal(t, "daily limit reached", note.Text)
	assert.Equal(t, "x@y.com", m.Value(keyTo))
	assert.Equal(t, "<p>hello</p>", m.Value(keyBody))
}

func TestSend_ErrorKeepsFields(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.SendErr = errors.New("configuration not found")
	m := fill(newModel(api))

	m, msgs := send(t, m)

	note := onlyToast(t, msgs)
	assert.Equal(t, toast.Error, note.Kind)
	assert.Equal(t, "configuration not found", note.Text)
	assert.Equal(t, "Hi", m.Value(keySubject))
	assert.True(t, m.SubmitEnabled())
}

func TestSend_WithoutConfigID(t *testing.T) {
	api := testutil.NewFakeAPI()
	m := fill(newModel(api))
	m.SetConfigID("")

	m, cmd := m.Update(ctrlS)
	assert.False(t, m.Busy())
	note := onlyToast(t, testutil.RunCmd(cmd))
	assert.Equal(t, "Save an email configuration first", note.Text)
	assert.Empty(t, api.Sent)
}

func TestBusyIgnoresInput(t *testing.T) {
	api := testutil.NewFakeAPI()
	m := fill(newModel(api))
	m, _ = m.Update(ctrlS)
	require.True(t, m.Busy())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	assert.Nil(t, cmd)
	assert.Equal(t, "x@y.com", m.Value(keyTo))
}

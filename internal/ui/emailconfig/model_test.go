package emailconfig

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-console/internal/imapprobe"
	"github.com/nhle/mail-console/internal/keys"
	"github.com/nhle/mail-console/internal/model"
	"github.com/nhle/mail-console/internal/testutil"
	"github.com/nhle/mail-console/internal/ui/toast"
)

type fakeProber struct {
	err     error
	targets []imapprobe.Target
}

func (p *fakeProber) Probe(_ context.Context, t imapprobe.Target) error {
	p.targets = append(p.targets, t)
	return p.err
}

func newModel(api *testutil.FakeAPI, id string) (Model, *fakeProber) {
	p := &fakeProber{}
	m := New(api, p, keys.DefaultKeyMap(), zerolog.Nop(), id)
	m.SetSize(100, 40)
	return m, p
}

// settle runs cmd, feeds the form's own result messages back into m and
// returns the messages addressed to the parent.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	for _, msg := range testutil.RunCmd(cmd) {
		switch msg.(type) {
		case loadedMsg, savedMsg, probedMsg:
			var next tea.Cmd
			m, next = m.Update(msg)
			var more []tea.Msg
			m, more = settle(t, m, next)
			out = append(out, more...)
		default:
			out = append(out, msg)
		}
	}
	return m, out
}

func fill(m Model) Model {
	m, _ = m.SetFieldValue(keyFromName, "Alice")
	m, _ = m.SetFieldValue(keyFromEmail, "a@b.com")
	m, _ = m.SetFieldValue(keyUsername, "a@b.com")
	m, _ = m.SetFieldValue(keyPassword, "secret")
	m, _ = m.SetFieldValue(keySMTPHost, "smtp.zoho.com")
	return m
}

func findToast(msgs []tea.Msg) (toast.ShowMsg, bool) {
	for _, msg := range msgs {
		if t, ok := msg.(toast.ShowMsg); ok {
			return t, true
		}
	}
	return toast.ShowMsg{}, false
}

func findIDChange(msgs []tea.Msg) (ConfigIDChangedMsg, bool) {
	for _, msg := range msgs {
		if c, ok := msg.(ConfigIDChangedMsg); ok {
			return c, true
		}
	}
	return ConfigIDChangedMsg{}, false
}

var ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}

func TestNew_Defaults(t *testing.T) {
	m, _ := newModel(testutil.NewFakeAPI(), "")

	assert.Equal(t, PhaseEditing, m.Phase())
	assert.Nil(t, m.Init())
	assert.False(t, m.SubmitEnabled())
	assert.Equal(t, "465", m.Value(keySMTPPort))
	assert.Equal(t, "SSL", m.Value(keySMTPEncryption))
	assert.Equal(t, "200", m.Value(keyMessagePerDay))
	assert.Equal(t, "993", m.Value(keyIMAPPort))
	assert.Equal(t, "", m.Value(keyIMAPEncryption))
	assert.False(t, m.Visible(keyIMAPHost))
	assert.False(t, m.Visible(keyReplyToEmail))
}

func TestCoercion_OnlyEditedField(t *testing.T) {
	m, _ := newModel(testutil.NewFakeAPI(), "")
	m.form.SetValue(keyMessagePerDay, "12x")

	m, _ = m.SetFieldValue(keySMTPPort, "587abc")
	assert.Equal(t, "587", m.Value(keySMTPPort))
	assert.Equal(t, "12x", m.Value(keyMessagePerDay), "untouched numeric field is not re-coerced")

	m, _ = m.SetFieldValue(keySMTPPort, "465")
	cfg := Payload(m.Values(), "")
	assert.Equal(t, 465, cfg.SMTPPort)
}

func TestSubmitEnablement(t *testing.T) {
	m, _ := newModel(testutil.NewFakeAPI(), "")
	assert.False(t, m.SubmitEnabled())

	m = fill(m)
	assert.True(t, m.SubmitEnabled())

	m, _ = m.SetFieldValue(keyUseDifferent, "true")
	assert.True(t, m.Visible(keyIMAPHost))
	assert.False(t, m.SubmitEnabled(), "IMAP host and encryption are now required")

	m, _ = m.SetFieldValue(keyIMAPHost, "imap.zoho.com")
	m, _ = m.SetFieldValue(keyIMAPEncryption, "SSL")
	assert.True(t, m.SubmitEnabled())

	m, _ = m.SetFieldValue(keyIMAPHost, "")
	assert.False(t, m.SubmitEnabled())

	m, _ = m.SetFieldValue(keyUseDifferent, "false")
	assert.True(t, m.SubmitEnabled(), "hidden IMAP fields are not validated")
}

func TestFieldErrorsShownOnlyForTouchedFields(t *testing.T) {
	m, _ := newModel(testutil.NewFakeAPI(), "")
	assert.NotContains(t, m.View(), "Please enter from name")

	m, _ = m.SetFieldValue(keyFromEmail, "nope")
	assert.Contains(t, m.View(), "Please enter valid email")
	assert.NotContains(t, m.View(), "Please enter from name")
}

func TestSave_NewConfiguration(t *testing.T) {
	api := testutil.NewFakeAPI()
	m, _ := newModel(api, "")
	m = fill(m)

	m, cmd := m.Update(ctrlS)
	assert.Equal(t, PhaseSubmitting, m.Phase())
	assert.Contains(t, m.View(), "Saving configuration...")

	m, msgs := settle(t, m, cmd)
	assert.Equal(t, PhaseEditing, m.Phase())

	require.Len(t, api.Saved, 1)
	sent := api.Saved[0]
	assert.Empty(t, sent.ID)
	assert.Equal(t, "a@b.com", sent.FromEmail)
	assert.Equal(t, "smtp.zoho.com", sent.SMTPHost)
	assert.Equal(t, 465, sent.SMTPPort)
	assert.Equal(t, model.EncryptionSSL, sent.SMTPEncryption)
	assert.Equal(t, 200, sent.MessagePerDay)
	assert.False(t, sent.UseDifferentEmailForImap)
	assert.Empty(t, sent.IMAPHost)
	assert.Zero(t, sent.IMAPPort)
	assert.Empty(t, sent.IMAPEncryption)

	change, ok := findIDChange(msgs)
	require.True(t, ok)
	assert.Equal(t, "cfg-1", change.ID)

	note, ok := findToast(msgs)
	require.True(t, ok)
	assert.Equal(t, toast.Success, note.Kind)
	assert.Equal(t, "Email configuration saved successfully", note.Text)
}

func TestSave_UsesCachedID(t *testing.T) {
	api := testutil.NewFakeAPI()
	m, _ := newModel(api, "")
	m.SetConfigID("cfg-42")
	m = fill(m)

	m, cmd := m.Update(ctrlS)
	_, msgs := settle(t, m, cmd)

	require.Len(t, api.Saved, 1)
	assert.Equal(t, "cfg-42", api.Saved[0].ID)
	change, _ := findIDChange(msgs)
	assert.Equal(t, "cfg-42", change.ID)
}

func TestSave_DisabledDoesNothing(t *testing.T) {
	api := testutil.NewFakeAPI()
	m, _ := newModel(api, "")

	m, cmd := m.Update(ctrlS)
	assert.Equal(t, PhaseEditing, m.Phase())
	assert.Empty(t, testutil.RunCmd(cmd))
	assert.Empty(t, api.Saved)
}

func TestSave_FailureKeepsValues(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.SaveErr = errors.New("SMTP credentials rejected")
	m, _ := newModel(api, "")
	m = fill(m)

	m, cmd := m.Update(ctrlS)
	m, msgs := settle(t, m, cmd)

	assert.Equal(t, PhaseEditing, m.Phase())
	assert.Equal(t, "Alice", m.Value(keyFromName))
	_, changed := findIDChange(msgs)
	assert.False(t, changed)

	note, ok := findToast(msgs)
	require.True(t, ok)
	assert.Equal(t, toast.Error, note.Kind)
	assert.Equal(t, "SMTP credentials rejected", note.Text)
}

func TestLoad_PopulatesFields(t *testing.T) {
	api := testutil.NewFakeAPI()
	gap := 15
	api.Put(model.EmailConfiguration{
		ID:                       "cfg-9",
		FromName:                 "Bob",
		FromEmail:                "bob@example.com",
		Username:                 "bob",
		Password:                 "pw",
		SMTPHost:                 "smtp.example.com",
		SMTPPort:                 587,
		SMTPEncryption:           model.EncryptionTLS,
		MessagePerDay:            50,
		MinTimeGap:               &gap,
		ReplyToEmail:             "replies@example.com",
		UseDifferentEmailForImap: true,
		IMAPHost:                 "imap.example.com",
		IMAPPort:                 143,
		IMAPEncryption:           model.EncryptionNone,
	})

	m, _ := newModel(api, "cfg-9")
	require.Equal(t, PhaseLoading, m.Phase())
	assert.Contains(t, m.View(), "Loading configuration...")

	m, msgs := settle(t, m, m.Init())
	assert.Empty(t, msgs)
	assert.Equal(t, PhaseEditing, m.Phase())

	assert.Equal(t, "Bob", m.Value(keyFromName))
	assert.Equal(t, "587", m.Value(keySMTPPort))
	assert.Equal(t, "TLS", m.Value(keySMTPEncryption))
	assert.Equal(t, "15", m.Value(keyMinTimeGap))
	assert.True(t, m.Visible(keyReplyToEmail), "reply-to toggle forced on")
	assert.Equal(t, "replies@example.com", m.Value(keyReplyToEmail))
	assert.True(t, m.Visible(keyIMAPHost))
	assert.Equal(t, "143", m.Value(keyIMAPPort))
	assert.Equal(t, "NONE", m.Value(keyIMAPEncryption))
	assert.True(t, m.SubmitEnabled())
}

func TestLoad_FailureClearsID(t *testing.T) {
	api := testutil.NewFakeAPI()
	m, _ := newModel(api, "stale")

	m, msgs := settle(t, m, m.Init())
	assert.Equal(t, PhaseEditing, m.Phase())

	change, ok := findIDChange(msgs)
	require.True(t, ok)
	assert.Equal(t, "", change.ID)

	note, ok := findToast(msgs)
	require.True(t, ok)
	assert.Equal(t, toast.Error, note.Kind)
	assert.Equal(t, "email configuration not found", note.Text)
}

func TestBusyIgnoresInput(t *testing.T) {
	api := testutil.NewFakeAPI()
	m, _ := newModel(api, "cfg-1")
	require.True(t, m.Busy())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.Equal(t, "", m.Value(keyFromName))
}

func TestReload(t *testing.T) {
	api := testutil.NewFakeAPI()
	m, _ := newModel(api, "")

	msgs := testutil.RunCmd(m.Reload())
	note, ok := findToast(msgs)
	require.True(t, ok)
	assert.Equal(t, "No saved configuration to reload", note.Text)

	api.Put(model.EmailConfiguration{ID: "cfg-3", FromName: "Reloaded"})
	m.SetConfigID("cfg-3")
	cmd := m.Reload()
	assert.Equal(t, PhaseLoading, m.Phase())

	m, _ = settle(t, m, cmd)
	assert.Equal(t, "Reloaded", m.Value(keyFromName))
}

func TestProbe(t *testing.T) {
	m, prober := newModel(testutil.NewFakeAPI(), "")
	m = fill(m)
	probe := tea.KeyMsg{Type: tea.KeyCtrlT}

	m, cmd := m.Update(probe)
	note, _ := findToast(testutil.RunCmd(cmd))
	assert.Equal(t, toast.Error, note.Kind)
	assert.Contains(t, note.Text, "Use different email accounts")
	assert.Empty(t, prober.targets)

	m, _ = m.SetFieldValue(keyUseDifferent, "true")
	m, cmd = m.Update(probe)
	note, _ = findToast(testutil.RunCmd(cmd))
	assert.Equal(t, "Please enter IMAP host", note.Text)

	m, _ = m.SetFieldValue(keyIMAPHost, "imap.zoho.com")
	m, _ = m.SetFieldValue(keyIMAPEncryption, "SSL")
	m, cmd = m.Update(probe)
	assert.Equal(t, PhaseProbing, m.Phase())

	m, msgs := settle(t, m, cmd)
	assert.Equal(t, PhaseEditing, m.Phase())
	note, _ = findToast(msgs)
	assert.Equal(t, toast.Success, note.Kind)

	require.Len(t, prober.targets, 1)
	assert.Equal(t, imapprobe.Target{
		Host:       "imap.zoho.com",
		Port:       993,
		Encryption: model.EncryptionSSL,
		Username:   "a@b.com",
		Password:   "secret",
	}, prober.targets[0])

	prober.err = errors.New("authentication failed")
	m, cmd = m.Update(probe)
	_, msgs = settle(t, m, cmd)
	note, _ = findToast(msgs)
	assert.Equal(t, toast.Error, note.Kind)
	assert.Equal(t, "authentication failed", note.Text)
}

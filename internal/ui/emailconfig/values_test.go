package emailconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-console/internal/model"
)

func TestCoerce(t *testing.T) {
	cases := map[string]string{
		"465":    "465",
		"465abc": "465",
		"  25":   "25",
		"+587":   "587",
		"-5":     "-5",
		"0993":   "993",
		"abc":    "abc",
		"":       "",
		"4.5":    "4",
	}
	for in, want := range cases {
		assert.Equal(t, want, Coerce(in), "Coerce(%q)", in)
	}
}

func validValues() Values {
	return Values{
		FromName:       "Alice",
		FromEmail:      "a@b.com",
		Username:       "a@b.com",
		Password:       "secret",
		SMTPHost:       "smtp.zoho.com",
		SMTPPort:       "465",
		SMTPEncryption: "SSL",
		MessagePerDay:  "200",
	}
}

func TestValidate_OK(t *testing.T) {
	assert.True(t, Validate(validValues()).OK())
}

func TestValidate_IMAPRequiredOnlyWhenToggled(t *testing.T) {
	v := validValues()
	v.UseDifferentEmail = true

	res := Validate(v)
	require.False(t, res.OK())
	for _, field := range []string{"IMAPHost", "IMAPPort", "IMAPEncryption"} {
		_, ok := res.For(field)
		assert.True(t, ok, field)
	}
	e, _ := res.For("IMAPHost")
	assert.Equal(t, "Please enter IMAP host", e.Message)

	v.IMAPHost = "imap.zoho.com"
	v.IMAPPort = "993"
	v.IMAPEncryption = "TLS"
	assert.True(t, Validate(v).OK())
}

func TestValidate_Messages(t *testing.T) {
	v := validValues()
	v.FromEmail = "not-an-email"
	v.SMTPPort = "abc"
	v.MessagePerDay = ""
	v.MinTimeGap = "x"

	res := Validate(v)

	e, ok := res.For("FromEmail")
	require.True(t, ok)
	assert.Equal(t, "Please enter valid email", e.Message)

	e, ok = res.For("SMTPPort")
	require.True(t, ok)
	assert.Equal(t, "Please enter valid port", e.Message)

	e, ok = res.For("MessagePerDay")
	require.True(t, ok)
	assert.Equal(t, "Please enter message per day", e.Message)

	e, ok = res.For("MinTimeGap")
	require.True(t, ok)
	assert.Equal(t, "Please enter valid number", e.Message)
}

func TestValidate_ReplyTo(t *testing.T) {
	v := validValues()
	v.IsReplyToDifferentEmail = true

	e, ok := Validate(v).For("ReplyToEmail")
	require.True(t, ok)
	assert.Equal(t, "Please enter reply to email", e.Message)

	v.ReplyToEmail = "nope"
	e, _ = Validate(v).For("ReplyToEmail")
	assert.Equal(t, "Please enter valid email", e.Message)

	v.ReplyToEmail = "reply@b.com"
	assert.True(t, Validate(v).OK())
}

func TestPayload_OmitsHiddenFields(t *testing.T) {
	v := validValues()
	v.IMAPHost = "ignored"

	cfg := Payload(v, "")
	assert.Equal(t, model.EmailConfiguration{
		FromName:       "Alice",
		FromEmail:      "a@b.com",
		Username:       "a@b.com",
		Password:       "secret",
		SMTPHost:       "smtp.zoho.com",
		SMTPPort:       465,
		SMTPEncryption: model.EncryptionSSL,
		MessagePerDay:  200,
	}, cfg)
}

func TestPayload_WithIMAPAndReplyTo(t *testing.T) {
	v := validValues()
	v.MinTimeGap = "30"
	v.IsReplyToDifferentEmail = true
	v.ReplyToEmail = "reply@b.com"
	v.UseDifferentEmail = true
	v.IMAPHost = "imap.zoho.com"
	v.IMAPPort = "993"
	v.IMAPEncryption = "SSL"

	cfg := Payload(v, "cfg-7")
	assert.Equal(t, "cfg-7", cfg.ID)
	require.NotNil(t, cfg.MinTimeGap)
	assert.Equal(t, 30, *cfg.MinTimeGap)
	assert.Equal(t, "reply@b.com", cfg.ReplyToEmail)
	assert.True(t, cfg.UseDifferentEmailForImap)
	assert.Equal(t, "imap.zoho.com", cfg.IMAPHost)
	assert.Equal(t, 993, cfg.IMAPPort)
	assert.Equal(t, model.EncryptionSSL, cfg.IMAPEncryption)
}

package emailconfig

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/nhle/mail-console/internal/model"
	"github.com/nhle/mail-console/internal/ui/form"
	"github.com/nhle/mail-console/internal/validate"
)

// Form field keys.
const (
	keyFromName       = "fromName"
	keyFromEmail      = "fromEmail"
	keyUsername       = "username"
	keyPassword       = "password"
	keySMTPHost       = "smtpHost"
	keySMTPPort       = "smtpPort"
	keySMTPEncryption = "smtpEncryption"
	keyMessagePerDay  = "messagePerDay"
	keyMinTimeGap     = "minTimeGap"
	keyReplyToToggle  = "isReplyToDifferentEmail"
	keyReplyToEmail   = "replyToEmail"
	keyUseDifferent   = "useDifferentEmail"
	keyIMAPHost       = "imapHost"
	keyIMAPPort       = "imapPort"
	keyIMAPEncryption = "imapEncryption"
)

// numericKeys are re-parsed to an integer whenever they are edited.
var numericKeys = map[string]bool{
	keySMTPPort:      true,
	keyIMAPPort:      true,
	keyMessagePerDay: true,
	keyMinTimeGap:    true,
}

// Values is the visible state of the form as text. Hidden conditional
// fields are left empty so they are neither validated nor sent.
type Values struct {
	FromName       string `validate:"required"`
	FromEmail      string `validate:"required,mailbox"`
	Username       string `validate:"required"`
	Password       string `validate:"required"`
	SMTPHost       string `validate:"required"`
	SMTPPort       string `validate:"required,number"`
	SMTPEncryption string `validate:"required,oneof=NONE SSL TLS"`
	MessagePerDay  string `validate:"required,number"`
	MinTimeGap     string `validate:"omitempty,number"`

	IsReplyToDifferentEmail bool
	ReplyToEmail            string `validate:"required_if=IsReplyToDifferentEmail true,omitempty,mailbox"`

	UseDifferentEmail bool
	IMAPHost          string `validate:"required_if=UseDifferentEmail true"`
	IMAPPort          string `validate:"required_if=UseDifferentEmail true,omitempty,number"`
	IMAPEncryption    string `validate:"required_if=UseDifferentEmail true,omitempty,oneof=NONE SSL TLS"`
}

var messages = validate.Messages{
	"FromName":       {"*": "Please enter from name"},
	"FromEmail":      {"required": "Please enter from email", "mailbox": "Please enter valid email"},
	"Username":       {"*": "Please enter username"},
	"Password":       {"*": "Please enter password"},
	"SMTPHost":       {"*": "Please enter SMTP host"},
	"SMTPPort":       {"required": "Please enter SMTP port", "number": "Please enter valid port"},
	"SMTPEncryption": {"*": "Please select encryption type"},
	"MessagePerDay":  {"required": "Please enter message per day", "number": "Please enter valid number"},
	"MinTimeGap":     {"*": "Please enter valid number"},
	"ReplyToEmail":   {"required_if": "Please enter reply to email", "mailbox": "Please enter valid email"},
	"IMAPHost":       {"*": "Please enter IMAP host"},
	"IMAPPort":       {"required_if": "Please enter IMAP port", "number": "Please enter valid port"},
	"IMAPEncryption": {"*": "Please select encryption type"},
}

// fieldKeys maps Values field names to form keys.
var fieldKeys = map[string]string{
	"FromName":       keyFromName,
	"FromEmail":      keyFromEmail,
	"Username":       keyUsername,
	"Password":       keyPassword,
	"SMTPHost":       keySMTPHost,
	"SMTPPort":       keySMTPPort,
	"SMTPEncryption": keySMTPEncryption,
	"MessagePerDay":  keyMessagePerDay,
	"MinTimeGap":     keyMinTimeGap,
	"ReplyToEmail":   keyReplyToEmail,
	"IMAPHost":       keyIMAPHost,
	"IMAPPort":       keyIMAPPort,
	"IMAPEncryption": keyIMAPEncryption,
}

// Validate checks v. It has no side effects.
func Validate(v Values) validate.Result {
	return validate.Struct(v, messages)
}

// valuesFrom reads the form, skipping fields that are currently hidden.
func valuesFrom(f *form.Form) Values {
	v := Values{
		FromName:                strings.TrimSpace(f.Value(keyFromName)),
		FromEmail:               strings.TrimSpace(f.Value(keyFromEmail)),
		Username:                strings.TrimSpace(f.Value(keyUsername)),
		Password:                f.Value(keyPassword),
		SMTPHost:                strings.TrimSpace(f.Value(keySMTPHost)),
		SMTPPort:                f.Value(keySMTPPort),
		SMTPEncryption:          f.Value(keySMTPEncryption),
		MessagePerDay:           f.Value(keyMessagePerDay),
		MinTimeGap:              f.Value(keyMinTimeGap),
		IsReplyToDifferentEmail: f.Checked(keyReplyToToggle),
		UseDifferentEmail:       f.Checked(keyUseDifferent),
	}
	if v.IsReplyToDifferentEmail {
		v.ReplyToEmail = strings.TrimSpace(f.Value(keyReplyToEmail))
	}
	if v.UseDifferentEmail {
		v.IMAPHost = strings.TrimSpace(f.Value(keyIMAPHost))
		v.IMAPPort = f.Value(keyIMAPPort)
		v.IMAPEncryption = f.Value(keyIMAPEncryption)
	}
	return v
}

// Payload converts validated values into the wire record. The form toggle
// becomes UseDifferentEmailForImap and the reply-to toggle is dropped.
func Payload(v Values, id string) model.EmailConfiguration {
	cfg := model.EmailConfiguration{
		ID:                       id,
		FromName:                 v.FromName,
		FromEmail:                v.FromEmail,
		Username:                 v.Username,
		Password:                 v.Password,
		SMTPHost:                 v.SMTPHost,
		SMTPPort:                 atoi(v.SMTPPort),
		SMTPEncryption:           model.Encryption(v.SMTPEncryption),
		MessagePerDay:            atoi(v.MessagePerDay),
		UseDifferentEmailForImap: v.UseDifferentEmail,
	}
	if v.MinTimeGap != "" {
		gap := atoi(v.MinTimeGap)
		cfg.MinTimeGap = &gap
	}
	if v.IsReplyToDifferentEmail {
		cfg.ReplyToEmail = v.ReplyToEmail
	}
	if v.UseDifferentEmail {
		cfg.IMAPHost = v.IMAPHost
		cfg.IMAPPort = atoi(v.IMAPPort)
		cfg.IMAPEncryption = model.Encryption(v.IMAPEncryption)
	}
	return cfg
}

// populate writes a server record into the form. Zero ports keep the
// form's current value and an unset minTimeGap clears the field.
func populate(f *form.Form, cfg model.EmailConfiguration) {
	f.SetValue(keyFromName, cfg.FromName)
	f.SetValue(keyFromEmail, cfg.FromEmail)
	f.SetValue(keyUsername, cfg.Username)
	f.SetValue(keyPassword, cfg.Password)
	f.SetValue(keySMTPHost, cfg.SMTPHost)
	if cfg.SMTPPort != 0 {
		f.SetValue(keySMTPPort, strconv.Itoa(cfg.SMTPPort))
	}
	if cfg.SMTPEncryption != "" {
		f.SetValue(keySMTPEncryption, string(cfg.SMTPEncryption))
	}
	if cfg.MessagePerDay != 0 {
		f.SetValue(keyMessagePerDay, strconv.Itoa(cfg.MessagePerDay))
	}
	if cfg.MinTimeGap != nil {
		f.SetValue(keyMinTimeGap, strconv.Itoa(*cfg.MinTimeGap))
	} else {
		f.SetValue(keyMinTimeGap, "")
	}

	if cfg.ReplyToEmail != "" {
		f.SetChecked(keyReplyToToggle, true)
		f.SetValue(keyReplyToEmail, cfg.ReplyToEmail)
	}

	f.SetChecked(keyUseDifferent, cfg.UseDifferentEmailForImap)
	if cfg.IMAPHost != "" {
		f.SetValue(keyIMAPHost, cfg.IMAPHost)
	}
	if cfg.IMAPPort != 0 {
		f.SetValue(keyIMAPPort, strconv.Itoa(cfg.IMAPPort))
	}
	if cfg.IMAPEncryption != "" {
		f.SetValue(keyIMAPEncryption, string(cfg.IMAPEncryption))
	}
}

// Coerce parses the leading integer of raw the way a lenient number input
// does: leading spaces and a sign are accepted and trailing junk is
// dropped. Text with no leading digits, or empty text, is returned
// unchanged so validation can flag it.
func Coerce(raw string) string {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return raw
	}

	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return raw
	}
	return strconv.Itoa(n)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

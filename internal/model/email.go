package model

// Encryption is the transport security mode selected for an SMTP or IMAP
// connection. The client only records the choice; the API applies it.
type Encryption string

const (
	EncryptionNone Encryption = "NONE"
	EncryptionSSL  Encryption = "SSL"
	EncryptionTLS  Encryption = "TLS"
)

// Encryptions lists the selectable encryption modes in display order.
var Encryptions = []Encryption{EncryptionNone, EncryptionSSL, EncryptionTLS}

// Valid reports whether e is one of the known modes.
func (e Encryption) Valid() bool {
	for _, known := range Encryptions {
		if e == known {
			return true
		}
	}
	return false
}

// Defaults applied to a fresh configuration form.
const (
	DefaultSMTPPort       = 465
	DefaultIMAPPort       = 993
	DefaultSMTPEncryption = EncryptionSSL
	DefaultMessagePerDay  = 200
)

// ConfigIDKey is the durable key holding the last saved configuration ID.
const ConfigIDKey = "emailConfigId"

// EmailConfiguration is the outbound/inbound account record exchanged with
// the mail API. ID is assigned by the server on first save.
//
// The IMAP fields are only meaningful when UseDifferentEmailForImap is set;
// they are omitted from payloads otherwise.
type EmailConfiguration struct {
	ID             string     `json:"id,omitempty"`
	FromName       string     `json:"fromName"`
	FromEmail      string     `json:"fromEmail"`
	Username       string     `json:"username"`
	Password       string     `json:"password"`
	SMTPHost       string     `json:"smtpHost"`
	SMTPPort       int        `json:"smtpPort"`
	SMTPEncryption Encryption `json:"smtpEncryption"`
	MessagePerDay  int        `json:"messagePerDay"`
	MinTimeGap     *int       `json:"minTimeGap,omitempty"`
	ReplyToEmail   string     `json:"replyToEmail,omitempty"`

	UseDifferentEmailForImap bool       `json:"useDifferentEmailForImap"`
	IMAPHost                 string     `json:"imapHost,omitempty"`
	IMAPPort                 int        `json:"imapPort,omitempty"`
	IMAPEncryption           Encryption `json:"imapEncryption,omitempty"`
}

// SendEmailRequest is a single outgoing message. Body is an opaque HTML blob.
type SendEmailRequest struct {
	To            string `json:"to"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	EmailConfigID string `json:"emailConfigId"`
}

// SendEmailResult is the API's verdict on a send request.
type SendEmailResult struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

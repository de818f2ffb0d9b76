package mailapi

import "github.com/nhle/mail-console/internal/graphql"

const configFields = `
      id
      fromName
      fromEmail
      username
      password
      smtpHost
      smtpPort
      smtpEncryption
      messagePerDay
      minTimeGap
      replyToEmail
      useDifferentEmailForImap
      imapHost
      imapPort
      imapEncryption`

var (
	saveEmailConfigOp = graphql.Operation{
		Name: "SaveEmailConfig",
		Document: `mutation SaveEmailConfig($payload: EmailConfigurationInput!) {
    saveEmailConfig(payload: $payload) {` + configFields + `
    }
  }`,
	}

	getEmailConfigOp = graphql.Operation{
		Name: "GetEmailConfig",
		Document: `query GetEmailConfig($id: String!) {
    getEmailConfig(id: $id) {` + configFields + `
    }
  }`,
	}

	sendEmailOp = graphql.Operation{
		Name: "SendEmail",
		Document: `mutation SendEmail($payload: SendEmail!) {
    sendEmail(payload: $payload) {
      status
      message
    }
  }`,
	}
)

package domain

// EmailAttachment is one file attached to an email.
type EmailAttachment struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}

// OutgoingEmail is an email to be dispatched via SMTP.
type OutgoingEmail struct {
	To          string
	CC          string
	BCC         string
	Subject     string
	Body        string
	Attachments []EmailAttachment
}

// Email is a parsed inbox message returned by the mailbox fetch.
type Email struct {
	Subject     string            `json:"subject"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	CC          string            `json:"cc,omitempty"`
	BCC         string            `json:"bcc,omitempty"`
	TextBody    string            `json:"textBody"`
	HTMLBody    string            `json:"htmlBody,omitempty"`
	Attachments []EmailAttachment `json:"attachments"`
}

package domain

import "fmt"

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// DeliveryError means the provider rejected or failed an outbound send.
type DeliveryError struct {
	Provider string
	Detail   string
	Err      error
}

func (e *DeliveryError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s delivery failed: %s", e.Provider, e.Detail)
	}
	return fmt.Sprintf("%s delivery failed: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ProviderQueryError means a provider read operation failed.
type ProviderQueryError struct {
	Provider string
	Detail   string
	Err      error
}

func (e *ProviderQueryError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s query failed: %s", e.Provider, e.Detail)
	}
	return fmt.Sprintf("%s query failed: %v", e.Provider, e.Err)
}

func (e *ProviderQueryError) Unwrap() error { return e.Err }

// MailboxError means the mailbox connection or message parsing failed.
type MailboxError struct {
	Op  string
	Err error
}

func (e *MailboxError) Error() string {
	return fmt.Sprintf("mailbox %s: %v", e.Op, e.Err)
}

func (e *MailboxError) Unwrap() error { return e.Err }

// TokenIssuanceError means signing a voice capability token failed.
type TokenIssuanceError struct {
	Err error
}

func (e *TokenIssuanceError) Error() string {
	return fmt.Sprintf("token issuance failed: %v", e.Err)
}

func (e *TokenIssuanceError) Unwrap() error { return e.Err }

package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           3000,
			Bind:           "loopback",
			AllowedOrigins: []string{"*"},
		},
		SMS: SMSConfig{
			APIBaseURL: "https://api.twilio.com/2010-04-01",
		},
		Voice: VoiceConfig{
			ClientIdentity:  "web_user",
			TokenTTLMinutes: 60,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Mailbox: MailboxConfig{
			Host:   "imap.gmail.com",
			Port:   993,
			Folder: "INBOX",
		},
		Uploads: UploadsConfig{
			Dir: "uploads",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

package config

// Config is the root configuration for Switchboard.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	SMS     SMSConfig     `yaml:"sms,omitempty"`
	Voice   VoiceConfig   `yaml:"voice,omitempty"`
	SMTP    SMTPConfig    `yaml:"smtp,omitempty"`
	Mailbox MailboxConfig `yaml:"mailbox,omitempty"`
	Uploads UploadsConfig `yaml:"uploads,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP/WebSocket server.
type ServerConfig struct {
	Port           int       `yaml:"port,omitempty"`
	Bind           string    `yaml:"bind,omitempty"` // "loopback" | "lan" | "auto" | "custom"
	CustomBindHost string    `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string  `yaml:"allowedOrigins,omitempty"`
	TLS            ServerTLS `yaml:"tls,omitempty"`
}

// ServerTLS configures TLS for the server.
type ServerTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// SMSConfig holds the SMS provider account and the provisioned number
// all outbound traffic is sent from.
type SMSConfig struct {
	AccountSID string `yaml:"accountSid,omitempty"`
	AuthToken  string `yaml:"authToken,omitempty"`
	FromNumber string `yaml:"fromNumber,omitempty"`
	APIBaseURL string `yaml:"apiBaseUrl,omitempty"`
}

// VoiceConfig holds the signing credentials for voice capability tokens
// and the fixed client identity incoming calls are bridged to.
type VoiceConfig struct {
	AccountSID      string `yaml:"accountSid,omitempty"`
	APIKey          string `yaml:"apiKey,omitempty"`
	APISecret       string `yaml:"apiSecret,omitempty"`
	AppSID          string `yaml:"appSid,omitempty"`
	ClientIdentity  string `yaml:"clientIdentity,omitempty"`
	TokenTTLMinutes int    `yaml:"tokenTtlMinutes,omitempty"`
}

// SMTPConfig holds outbound mail credentials.
type SMTPConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	From     string `yaml:"from,omitempty"`
}

// MailboxConfig holds IMAP credentials for inbox reads.
type MailboxConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Folder   string `yaml:"folder,omitempty"`
}

// UploadsConfig controls where SMS media files are stored and the public
// URL they are served back under.
type UploadsConfig struct {
	Dir           string `yaml:"dir,omitempty"`
	PublicBaseURL string `yaml:"publicBaseUrl,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
}

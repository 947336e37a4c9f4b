package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so secrets can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.SMS.AccountSID = expandEnvVars(cfg.SMS.AccountSID)
	cfg.SMS.AuthToken = expandEnvVars(cfg.SMS.AuthToken)
	cfg.Voice.AccountSID = expandEnvVars(cfg.Voice.AccountSID)
	cfg.Voice.APIKey = expandEnvVars(cfg.Voice.APIKey)
	cfg.Voice.APISecret = expandEnvVars(cfg.Voice.APISecret)
	cfg.Voice.AppSID = expandEnvVars(cfg.Voice.AppSID)
	cfg.SMTP.Username = expandEnvVars(cfg.SMTP.Username)
	cfg.SMTP.Password = expandEnvVars(cfg.SMTP.Password)
	cfg.Mailbox.Username = expandEnvVars(cfg.Mailbox.Username)
	cfg.Mailbox.Password = expandEnvVars(cfg.Mailbox.Password)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = "loopback"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.SMS.APIBaseURL == "" {
		cfg.SMS.APIBaseURL = "https://api.twilio.com/2010-04-01"
	}
	if cfg.Voice.ClientIdentity == "" {
		cfg.Voice.ClientIdentity = "web_user"
	}
	if cfg.Voice.TokenTTLMinutes == 0 {
		cfg.Voice.TokenTTLMinutes = 60
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Mailbox.Host == "" {
		cfg.Mailbox.Host = "imap.gmail.com"
	}
	if cfg.Mailbox.Port == 0 {
		cfg.Mailbox.Port = 993
	}
	if cfg.Mailbox.Folder == "" {
		cfg.Mailbox.Folder = "INBOX"
	}
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = "uploads"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides reads SWITCHBOARD_* and provider environment variables
// and overrides config values. Provider variables only fill fields the
// config file left empty.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SWITCHBOARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SWITCHBOARD_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("SWITCHBOARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	fillFromEnv(&cfg.SMS.AccountSID, "ACCOUNT_SID")
	fillFromEnv(&cfg.SMS.AuthToken, "AUTH_TOKEN")
	fillFromEnv(&cfg.SMS.FromNumber, "TWILIO_PHONE_NUMBER")
	fillFromEnv(&cfg.Voice.AccountSID, "TWILIO_ACCOUNT_SID")
	fillFromEnv(&cfg.Voice.APIKey, "TWILIO_API_KEY")
	fillFromEnv(&cfg.Voice.APISecret, "TWILIO_API_SECRET")
	fillFromEnv(&cfg.Voice.AppSID, "TWILIO_VOICE_APP_SID")
	fillFromEnv(&cfg.SMTP.Username, "GMAIL_USER")
	fillFromEnv(&cfg.SMTP.Password, "GMAIL_PASS")
	fillFromEnv(&cfg.Mailbox.Username, "IMAP_USER")
	fillFromEnv(&cfg.Mailbox.Password, "IMAP_PASS")
}

func fillFromEnv(field *string, name string) {
	if *field == "" {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

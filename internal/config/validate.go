package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"auto", "lan", "loopback", "custom"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}

	if cfg.Server.TLS.Enabled {
		if cfg.Server.TLS.CertPath == "" || cfg.Server.TLS.KeyPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "server.tls",
				Message: "certPath and keyPath are required when TLS is enabled",
			})
		}
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	if cfg.SMS.FromNumber != "" && !strings.HasPrefix(cfg.SMS.FromNumber, "+") {
		issues = append(issues, ValidationIssue{
			Path:    "sms.fromNumber",
			Message: fmt.Sprintf("must be E.164 format starting with '+', got %q", cfg.SMS.FromNumber),
		})
	}

	if cfg.Voice.TokenTTLMinutes < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "voice.tokenTtlMinutes",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Voice.TokenTTLMinutes),
		})
	}

	if cfg.Mailbox.Port < 0 || cfg.Mailbox.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "mailbox.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Mailbox.Port),
		})
	}

	if cfg.SMTP.Port < 0 || cfg.SMTP.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "smtp.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.SMTP.Port),
		})
	}

	return issues
}

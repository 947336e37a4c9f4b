package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show Switchboard status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Switchboard %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Uploads: %s\n", paths.Uploads)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Config:  not found (using defaults)")
				} else {
					fmt.Printf("Config:  error loading: %v\n", err)
				}
				return nil
			}

			fmt.Printf("Server:  port=%d bind=%s tls=%v\n",
				cfg.Server.Port, cfg.Server.Bind, cfg.Server.TLS.Enabled)

			if cfg.SMS.AccountSID != "" {
				fmt.Printf("SMS:     from=%s account=%s\n", cfg.SMS.FromNumber, cfg.SMS.AccountSID)
			} else {
				fmt.Println("SMS:     (not configured)")
			}

			if cfg.SMTP.Username != "" {
				fmt.Printf("SMTP:    host=%s:%d user=%s\n", cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username)
			} else {
				fmt.Println("SMTP:    (not configured)")
			}

			if cfg.Mailbox.Username != "" {
				fmt.Printf("Mailbox: host=%s:%d folder=%s\n", cfg.Mailbox.Host, cfg.Mailbox.Port, cfg.Mailbox.Folder)
			} else {
				fmt.Println("Mailbox: (not configured)")
			}

			if cfg.Voice.APIKey != "" {
				fmt.Printf("Voice:   client=%s ttl=%dm\n", cfg.Voice.ClientIdentity, cfg.Voice.TokenTTLMinutes)
			} else {
				fmt.Println("Voice:   (not configured)")
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}

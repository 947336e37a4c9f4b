package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/gateway"
	"github.com/soyeahso/switchboard/internal/provider/mail"
	"github.com/soyeahso/switchboard/internal/provider/sms"
	"github.com/soyeahso/switchboard/internal/voice"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Switchboard relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			if cfg.Uploads.Dir == "" || cfg.Uploads.Dir == "uploads" {
				cfg.Uploads.Dir = paths.Uploads
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			opts := []gateway.ServerOption{}

			if cfg.SMS.AccountSID != "" && cfg.SMS.AuthToken != "" {
				opts = append(opts, gateway.WithSMS(sms.NewClient(cfg.SMS)))
				log.Info().Str("from", cfg.SMS.FromNumber).Msg("SMS provider configured")
			} else {
				log.Warn().Msg("SMS credentials missing — SMS endpoints will be unavailable")
			}

			if cfg.SMTP.Username != "" && cfg.SMTP.Password != "" {
				opts = append(opts, gateway.WithMailer(mail.NewSender(cfg.SMTP)))
			} else {
				log.Warn().Msg("SMTP credentials missing — outbound email will be unavailable")
			}

			if cfg.Mailbox.Username != "" && cfg.Mailbox.Password != "" {
				opts = append(opts, gateway.WithMailbox(mail.NewMailbox(cfg.Mailbox)))
			} else {
				log.Warn().Msg("mailbox credentials missing — inbox reads will be unavailable")
			}

			if cfg.Voice.APISecret != "" {
				opts = append(opts, gateway.WithTokenIssuer(voice.NewTokenIssuer(cfg.Voice)))
			} else {
				log.Warn().Msg("voice API secret missing — voice tokens will be unavailable")
			}

			srv := gateway.New(cfg, log, opts...)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (auto, lan, loopback, custom)")

	return cmd
}

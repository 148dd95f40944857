package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/config"
	"github.com/omriShneor/booking_assistant/internal/gcal"
)

func newAuthCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Calendar access with OAuth",
		Long: `Authorize the assistant to use your Google Calendar.

Reads the OAuth client from GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE,
prints the consent URL, exchanges the code you paste back and stores the token
in GOOGLE_TOKEN_FILE. Not needed when a service account is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadFromEnv()
			out := cmd.OutOrStdout()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			client, err := gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, gcal.Options{
				CalendarID: cfg.CalendarID,
				Logger:     zap.NewNop(),
			})
			if err != nil {
				return fmt.Errorf("loading OAuth credentials: %w", err)
			}

			if code == "" {
				fmt.Fprintln(out, "Open this URL in your browser and authorize access:")
				fmt.Fprintln(out)
				fmt.Fprintln(out, client.GetAuthURL())
				fmt.Fprintln(out)
				fmt.Fprint(out, "Paste the authorization code: ")

				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading authorization code: %w", err)
				}
				code = strings.TrimSpace(line)
			}
			if code == "" {
				return fmt.Errorf("authorization code is required")
			}

			if err := client.ExchangeCode(ctx, code); err != nil {
				return err
			}
			fmt.Fprintf(out, "Token saved to %s\n", cfg.GoogleTokenFile)

			calendars, err := client.ListCalendars(ctx)
			if err != nil {
				return fmt.Errorf("listing calendars: %w", err)
			}
			fmt.Fprintln(out, "Calendars available (set CALENDAR_ID to pick one):")
			for _, c := range calendars {
				marker := " "
				if c.Primary {
					marker = "*"
				}
				fmt.Fprintf(out, " %s %s (%s, %s)\n", marker, c.Summary, c.ID, c.AccessRole)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code (skips the prompt)")

	return cmd
}

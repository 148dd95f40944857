package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/assistant"
	"github.com/omriShneor/booking_assistant/internal/config"
	"github.com/omriShneor/booking_assistant/internal/logging"
)

func newChatCmd() *cobra.Command {
	var (
		offline   bool
		sessionID string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		Long: `Start an interactive conversation with the assistant. Each line is one
message; the conversation keeps its booking state until you exit with
"exit", "quit" or end of input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadFromEnv()

			logger := zap.NewNop()
			if verbose {
				l, err := logging.New(true)
				if err != nil {
					return fmt.Errorf("creating logger: %w", err)
				}
				logger = l
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := newApp(ctx, cfg, logger, appOptions{offline: offline})
			if err != nil {
				return err
			}
			defer a.Close()

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Calendar assistant (calendar: %s, session: %s). Type \"exit\" to quit.\n",
				a.calendarID, sessionID)

			return runChat(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), a.orchestrator, sessionID)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Use the in-memory calendar")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: a new one)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")

	return cmd
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, orch *assistant.Orchestrator, sessionID string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		resp := orch.ProcessMessage(ctx, line, sessionID)
		fmt.Fprintln(out, resp.Response)
		if len(resp.AvailableSlots) > 0 && !strings.Contains(resp.Response, resp.AvailableSlots[0]) {
			fmt.Fprintln(out, "Suggested times:")
			for _, slot := range resp.AvailableSlots {
				fmt.Fprintf(out, "  • %s\n", slot)
			}
		}
		fmt.Fprintln(out)
	}
}

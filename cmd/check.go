package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HYyydu/calendar-agent/internal/calendar"
)

func newCheckCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify calendar access for an account",
		Long: `List the calendars visible to the authorized account and the events of
the next 24 hours. Useful to verify that authorization worked before
pointing an assistant at the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := calendar.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create calendar client for account %s: %w", account, err)
			}

			calendars, err := client.ListCalendars(ctx)
			if err != nil {
				return fmt.Errorf("failed to list calendars: %w", err)
			}

			fmt.Printf("Calendars (%d):\n", len(calendars))
			for _, c := range calendars {
				primary := ""
				if c.Primary {
					primary = " (primary)"
				}
				fmt.Printf("  %s%s [%s]\n", c.Summary, primary, c.TimeZone)
			}

			now := time.Now()
			events, err := client.ListEvents(ctx, now, now.Add(24*time.Hour))
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			fmt.Printf("\nEvents in the next 24 hours (%d):\n", len(events))
			for _, e := range events {
				if e.AllDay {
					fmt.Printf("  %s  %s (all day)\n", e.Start.Date, e.Summary)
					continue
				}
				fmt.Printf("  %s  %s\n", e.StartsAt.Format("Mon 15:04"), e.Summary)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name to check")

	return cmd
}

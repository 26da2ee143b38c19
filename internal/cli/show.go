package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"envitrack/internal/app"
)

var (
	showLimit int
	showSince time.Duration
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the most recent sensor readings as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case showLimit <= 0:
			return errors.New("--limit must be greater than zero")
		case showSince < 0:
			return errors.New("--since cannot be negative")
		}

		return getApp().Show(cmd.Context(), app.ShowOptions{Limit: showLimit, Since: showSince})
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of readings to fetch")
	showCmd.Flags().DurationVar(&showSince, "since", 0, "Only show readings newer than this age (e.g. 2h)")
}

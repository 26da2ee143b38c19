package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"envitrack/internal/app"
)

var (
	fetchLimit   int
	fetchCSVPath string
	fetchHead    int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch sensor records, print statistics and save them as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if fetchLimit < 0 {
			return fmt.Errorf("--limit cannot be negative")
		}

		opts := app.FetchOptions{
			Limit:   fetchLimit,
			CSVPath: fetchCSVPath,
			Head:    fetchHead,
		}

		return getApp().Fetch(cmd.Context(), opts)
	},
}

func init() {
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "Fetch only the most recent N records (0 fetches all)")
	fetchCmd.Flags().StringVar(&fetchCSVPath, "csv", "", "Path to write CSV data (defaults to config)")
	fetchCmd.Flags().IntVar(&fetchHead, "head", 5, "Number of records to preview")
}

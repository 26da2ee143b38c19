package cli

import (
	"github.com/spf13/cobra"

	"envitrack/internal/app"
)

var (
	visualizeHours  int
	visualizeOutDir string
	visualizeOpen   bool
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render trend, correlation and daily summary charts as PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.VisualizeOptions{
			Hours:     visualizeHours,
			OutputDir: visualizeOutDir,
			Open:      visualizeOpen,
		}
		return getApp().Visualize(cmd.Context(), opts)
	},
}

func init() {
	visualizeCmd.Flags().IntVar(&visualizeHours, "hours", -1, "Trend window in hours (0 plots everything, negative uses config)")
	visualizeCmd.Flags().StringVar(&visualizeOutDir, "out", "", "Directory for chart files (defaults to config)")
	visualizeCmd.Flags().BoolVar(&visualizeOpen, "open", false, "Open each chart in the system image viewer")
}

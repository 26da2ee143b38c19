package cli

import (
	"github.com/spf13/cobra"

	"envitrack/internal/app"
)

var (
	simulateTemperature string
	simulateHumidity    string
	simulateAirQuality  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "Evaluate a hand-entered reading against the configured thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().SimulateAlert(cmd.Context(), app.SimulateOptions{
			Temperature: simulateTemperature,
			Humidity:    simulateHumidity,
			AirQuality:  simulateAirQuality,
		})
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateTemperature, "temperature", "25", "Temperature in °C")
	simulateCmd.Flags().StringVar(&simulateHumidity, "humidity", "50", "Relative humidity in %")
	simulateCmd.Flags().StringVar(&simulateAirQuality, "air-quality", "400", "Air quality in ppm")
}

package export

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"envitrack/internal/sensor"
)

// ErrNoData is returned when there is nothing to write.
var ErrNoData = errors.New("no data to save")

var header = []string{"timestamp", "temperature", "humidity", "air_quality", "source_key"}

// WriteCSVFile writes readings to path, creating parent directories.
func WriteCSVFile(path string, readings []sensor.Reading) error {
	if len(readings) == 0 {
		return ErrNoData
	}
	if err := EnsureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(file, readings); err != nil {
		return err
	}
	return file.Close()
}

// WriteCSV encodes readings with a header row.
func WriteCSV(w io.Writer, readings []sensor.Reading) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range readings {
		record := []string{
			r.Timestamp.Format(time.RFC3339),
			formatFloat(r.Temperature),
			formatFloat(r.Humidity),
			formatFloat(r.AirQuality),
			r.SourceKey,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatFloat leaves missing values as empty cells.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).String()
}

// EnsureDir creates the parent directory of path when needed.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

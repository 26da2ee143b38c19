package sensor

import (
	"math"
	"testing"
	"time"
)

func at(day, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
}

func TestSortByTimeAndLatest(t *testing.T) {
	readings := []Reading{
		{Timestamp: at(2, 10), SourceKey: "c"},
		{Timestamp: at(1, 9), SourceKey: "a"},
		{Timestamp: at(1, 12), SourceKey: "b"},
	}
	SortByTime(readings)

	for i, want := range []string{"a", "b", "c"} {
		if readings[i].SourceKey != want {
			t.Fatalf("position %d: want %s, got %s", i, want, readings[i].SourceKey)
		}
	}

	latest, ok := Latest(readings)
	if !ok || latest.SourceKey != "c" {
		t.Fatalf("unexpected latest %+v", latest)
	}
	if _, ok := Latest(nil); ok {
		t.Fatal("empty slice has no latest reading")
	}
}

func TestSummarize(t *testing.T) {
	readings := []Reading{
		{Timestamp: at(1, 1), Temperature: 20, Humidity: 40, AirQuality: 400},
		{Timestamp: at(1, 2), Temperature: 22, Humidity: 50, AirQuality: 500},
		{Timestamp: at(1, 3), Temperature: 24, Humidity: 60, AirQuality: 600},
	}

	stats, ok := Summarize(readings)
	if !ok {
		t.Fatal("expected stats")
	}
	temp := stats.Metrics[Temperature]
	if temp.Mean != 22 || temp.Min != 20 || temp.Max != 24 || temp.Std != 2 {
		t.Fatalf("unexpected temperature stats %+v", temp)
	}
	if stats.Count != 3 || !stats.From.Equal(at(1, 1)) || !stats.To.Equal(at(1, 3)) {
		t.Fatalf("unexpected range %+v", stats)
	}

	if _, ok := Summarize(nil); ok {
		t.Fatal("empty input must report false")
	}
}

func TestDailyMeans(t *testing.T) {
	readings := []Reading{
		{Timestamp: at(2, 8), Temperature: 30},
		{Timestamp: at(1, 8), Temperature: 10},
		{Timestamp: at(1, 20), Temperature: 20},
	}

	if DistinctDays(readings) != 2 {
		t.Fatalf("expected two days, got %d", DistinctDays(readings))
	}

	days := DailyMeans(readings)
	if len(days) != 2 {
		t.Fatalf("expected two buckets, got %d", len(days))
	}
	if !days[0].Day.Equal(at(1, 0)) || days[0].Means[Temperature] != 15 || days[0].Count != 2 {
		t.Fatalf("unexpected first day %+v", days[0])
	}
	if days[1].Means[Temperature] != 30 {
		t.Fatalf("unexpected second day %+v", days[1])
	}
}

func TestCorrelation(t *testing.T) {
	readings := []Reading{
		{Temperature: 1, Humidity: 10, AirQuality: 5},
		{Temperature: 2, Humidity: 8, AirQuality: 5},
		{Temperature: 3, Humidity: 6, AirQuality: 5},
	}

	m := Correlation(readings)
	if math.Abs(m[0][0]-1) > 1e-9 {
		t.Fatalf("self correlation should be 1, got %v", m[0][0])
	}
	if math.Abs(m[0][1]+1) > 1e-9 || math.Abs(m[1][0]+1) > 1e-9 {
		t.Fatalf("expected perfect negative correlation, got %v", m[0][1])
	}
	if !math.IsNaN(m[0][2]) {
		t.Fatalf("constant column should be NaN, got %v", m[0][2])
	}
}

func TestSince(t *testing.T) {
	readings := []Reading{{Timestamp: at(1, 1)}, {Timestamp: at(1, 5)}, {Timestamp: at(1, 9)}}
	got := Since(readings, at(1, 5))
	if len(got) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(got))
	}
}

func TestStatisticsSkipMissingValues(t *testing.T) {
	nan := math.NaN()
	readings := []Reading{
		{Timestamp: at(1, 1), Temperature: 20, Humidity: nan, AirQuality: 400},
		{Timestamp: at(1, 2), Temperature: nan, Humidity: nan, AirQuality: 500},
		{Timestamp: at(1, 3), Temperature: 24, Humidity: nan, AirQuality: 600},
	}

	stats, _ := Summarize(readings)
	if temp := stats.Metrics[Temperature]; temp.Mean != 22 || temp.Min != 20 || temp.Max != 24 {
		t.Fatalf("missing temperature should be ignored, got %+v", temp)
	}
	if hum := stats.Metrics[Humidity]; !math.IsNaN(hum.Mean) {
		t.Fatalf("all-missing humidity should be NaN, got %+v", hum)
	}

	days := DailyMeans(readings)
	if days[0].Means[Temperature] != 22 || !math.IsNaN(days[0].Means[Humidity]) {
		t.Fatalf("unexpected daily means %+v", days[0].Means)
	}

	m := Correlation(readings)
	if math.Abs(m[0][2]-1) > 1e-9 {
		t.Fatalf("expected correlation over shared rows, got %v", m[0][2])
	}
	if !math.IsNaN(m[1][2]) {
		t.Fatalf("humidity has no values, got %v", m[1][2])
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(21.46, 1); got != "21.5" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatValue(math.NaN(), 1); got != "n/a" {
		t.Fatalf("missing value should render n/a, got %q", got)
	}
	r := Reading{Temperature: math.NaN(), Humidity: 40}
	if r.Has(Temperature) || !r.Has(Humidity) {
		t.Fatalf("unexpected presence for %+v", r)
	}
}

func TestFormatBound(t *testing.T) {
	cases := map[float64]string{35: "35.0", 30.5: "30.5", 600: "600.0", -5: "-5.0"}
	for in, want := range cases {
		if got := FormatBound(in); got != want {
			t.Fatalf("FormatBound(%v) = %q, want %q", in, got, want)
		}
	}
}

package sensor

import (
	"math"
	"time"
)

// MetricStats summarises one metric column.
type MetricStats struct {
	Mean float64
	Min  float64
	Max  float64
	Std  float64
}

// Stats summarises a reading set per metric.
type Stats struct {
	Count   int
	From    time.Time
	To      time.Time
	Metrics map[Metric]MetricStats
}

// Summarize computes mean, min, max and sample standard deviation for every
// metric, ignoring missing values. A metric with no values at all is NaN
// throughout. It reports false for an empty input.
func Summarize(readings []Reading) (Stats, bool) {
	if len(readings) == 0 {
		return Stats{}, false
	}

	stats := Stats{
		Count:   len(readings),
		From:    readings[0].Timestamp,
		To:      readings[0].Timestamp,
		Metrics: make(map[Metric]MetricStats, len(Metrics)),
	}
	for _, r := range readings {
		if r.Timestamp.Before(stats.From) {
			stats.From = r.Timestamp
		}
		if r.Timestamp.After(stats.To) {
			stats.To = r.Timestamp
		}
	}

	for _, m := range Metrics {
		stats.Metrics[m] = describe(Values(readings, m))
	}
	return stats, true
}

func describe(values []float64) MetricStats {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		nan := math.NaN()
		return MetricStats{Mean: nan, Min: nan, Max: nan, Std: nan}
	}

	ms := MetricStats{Min: present[0], Max: present[0]}
	sum := 0.0
	for _, v := range present {
		sum += v
		ms.Min = math.Min(ms.Min, v)
		ms.Max = math.Max(ms.Max, v)
	}
	ms.Mean = sum / float64(len(present))

	if len(present) > 1 {
		var sq float64
		for _, v := range present {
			d := v - ms.Mean
			sq += d * d
		}
		ms.Std = math.Sqrt(sq / float64(len(present)-1))
	}
	return ms
}

// Day truncates t to the start of its calendar day in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DistinctDays counts the calendar days covered by the readings.
func DistinctDays(readings []Reading) int {
	seen := make(map[time.Time]struct{})
	for _, r := range readings {
		seen[Day(r.Timestamp)] = struct{}{}
	}
	return len(seen)
}

// DailyMean is the per-metric mean of one calendar day.
type DailyMean struct {
	Day   time.Time
	Count int
	Means map[Metric]float64
}

// DailyMeans groups readings by calendar day in chronological order. Means
// skip missing values; a day with none for a metric has a NaN mean.
func DailyMeans(readings []Reading) []DailyMean {
	type acc struct {
		sum map[Metric]float64
		n   map[Metric]int
	}

	index := make(map[time.Time]int)
	var (
		days []DailyMean
		accs []acc
	)

	sorted := append([]Reading(nil), readings...)
	SortByTime(sorted)

	for _, r := range sorted {
		day := Day(r.Timestamp)
		i, ok := index[day]
		if !ok {
			i = len(days)
			index[day] = i
			days = append(days, DailyMean{Day: day, Means: make(map[Metric]float64, len(Metrics))})
			accs = append(accs, acc{sum: make(map[Metric]float64), n: make(map[Metric]int)})
		}
		days[i].Count++
		for _, m := range Metrics {
			if r.Has(m) {
				accs[i].sum[m] += r.Value(m)
				accs[i].n[m]++
			}
		}
	}

	for i := range days {
		for _, m := range Metrics {
			if accs[i].n[m] == 0 {
				days[i].Means[m] = math.NaN()
				continue
			}
			days[i].Means[m] = accs[i].sum[m] / float64(accs[i].n[m])
		}
	}
	return days
}

// Correlation returns the pairwise Pearson coefficients between metrics,
// indexed in the order of Metrics. A pair with fewer than two shared values
// or a constant column is NaN.
func Correlation(readings []Reading) [][]float64 {
	columns := make([][]float64, len(Metrics))
	for i, m := range Metrics {
		columns[i] = Values(readings, m)
	}

	matrix := make([][]float64, len(Metrics))
	for i := range Metrics {
		matrix[i] = make([]float64, len(Metrics))
		for j := range Metrics {
			matrix[i][j] = pearson(columns[i], columns[j])
		}
	}
	return matrix
}

// pearson uses only the positions where both columns carry a value.
func pearson(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}

	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(vx*vy)
}

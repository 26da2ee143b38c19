package alerting

// KindCount is the number of alerts of one kind.
type KindCount struct {
	Kind  Kind
	Count int
}

// History is the ordered list of alerts raised during one monitoring run.
// It is owned by a single monitor and not safe for concurrent use.
type History struct {
	alerts []Alert
}

// Append records an alert.
func (h *History) Append(a Alert) {
	h.alerts = append(h.alerts, a)
}

// Len returns the number of recorded alerts.
func (h *History) Len() int {
	return len(h.alerts)
}

// Alerts returns a copy of the recorded alerts in insertion order.
func (h *History) Alerts() []Alert {
	return append([]Alert(nil), h.alerts...)
}

// CountByKind groups the history by kind, in order of first occurrence.
func (h *History) CountByKind() []KindCount {
	index := make(map[Kind]int)
	var counts []KindCount
	for _, a := range h.alerts {
		i, ok := index[a.Kind]
		if !ok {
			i = len(counts)
			index[a.Kind] = i
			counts = append(counts, KindCount{Kind: a.Kind})
		}
		counts[i].Count++
	}
	return counts
}

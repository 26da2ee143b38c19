package alerting

import "testing"

func TestHistoryCountByKind(t *testing.T) {
	var h History
	sequence := []Kind{HumidityLow, TemperatureHigh, HumidityLow, HumidityLow, TemperatureHigh}
	for _, k := range sequence {
		h.Append(Alert{Kind: k, Severity: k.Severity()})
	}

	counts := h.CountByKind()
	if len(counts) != 2 {
		t.Fatalf("expected two kinds, got %+v", counts)
	}
	if counts[0].Kind != HumidityLow || counts[0].Count != 3 {
		t.Fatalf("first kind should be HUMIDITY_LOW x3, got %+v", counts[0])
	}
	if counts[1].Kind != TemperatureHigh || counts[1].Count != 2 {
		t.Fatalf("second kind should be TEMPERATURE_HIGH x2, got %+v", counts[1])
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total != h.Len() || total != len(sequence) {
		t.Fatalf("counts sum to %d, history has %d", total, h.Len())
	}
}

func TestHistoryAlertsIsCopy(t *testing.T) {
	var h History
	h.Append(Alert{Kind: AirQualityPoor})

	alerts := h.Alerts()
	alerts[0].Kind = TemperatureLow
	if h.Alerts()[0].Kind != AirQualityPoor {
		t.Fatal("mutating the returned slice must not change the history")
	}
}

func TestEmptyHistory(t *testing.T) {
	var h History
	if h.Len() != 0 || len(h.CountByKind()) != 0 {
		t.Fatal("empty history should report nothing")
	}
}

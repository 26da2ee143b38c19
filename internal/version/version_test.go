package version

import (
	"runtime"
	"testing"
)

func TestGetKeepsInjectedValues(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = oldV, oldC, oldD })

	Version, Commit, BuildDate = "1.2.3", "abc123", "2024-05-01"

	info := Get()
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.BuildDate != "2024-05-01" {
		t.Fatalf("injected values overwritten: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Fatalf("unexpected go version %q", info.GoVersion)
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "0.4.0"
	if got := UserAgent(); got != "envitrack/0.4.0" {
		t.Fatalf("unexpected user agent %q", got)
	}
}

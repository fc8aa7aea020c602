package queue

import (
	"strings"
	"testing"
)

func TestFormatEventCreatedLine(t *testing.T) {
	msg := ActivityMessage{
		Kind:       KindEventCreated,
		OccurredAt: "2026-03-01T10:00:00Z",
		Event: &EventCreatedInfo{
			EventID: 7, Title: "Spring Fair", OrganizerName: "Boston Arts",
			LocationName: "Common Hall", RegionName: "Northeast",
			DivisionName: "New England", CityName: "Boston",
			StartsAt: "2026-04-01 18:00:00",
		},
	}
	line, err := formatActivityLine(msg)
	if err != nil {
		t.Fatalf("formatActivityLine: %v", err)
	}
	for _, want := range []string{"event_id=7", `"Spring Fair"`, "Northeast/New England/Boston"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line missing %q: %s", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatal("log line must end with a newline")
	}
}

func TestFormatImportCompletedLine(t *testing.T) {
	msg := ActivityMessage{
		Kind:       KindImportCompleted,
		OccurredAt: "2026-03-01T10:00:00Z",
		Import: &ImportCompletedInfo{
			Job: "wordpress-locations", Source: "export.xml",
			Scanned: 10, Imported: 8, Skipped: 1, Failed: 1, Duration: "1.2s",
		},
	}
	line, err := formatActivityLine(msg)
	if err != nil {
		t.Fatalf("formatActivityLine: %v", err)
	}
	for _, want := range []string{"job=wordpress-locations", "scanned=10", "failed=1"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line missing %q: %s", want, line)
		}
	}
}

func TestFormatRejectsMalformedMessages(t *testing.T) {
	if _, err := formatActivityLine(ActivityMessage{Kind: "bogus"}); err == nil {
		t.Fatal("unknown kind must error")
	}
	if _, err := formatActivityLine(ActivityMessage{Kind: KindEventCreated}); err == nil {
		t.Fatal("event.created without payload must error")
	}
	if _, err := formatActivityLine(ActivityMessage{Kind: KindImportCompleted}); err == nil {
		t.Fatal("import.completed without payload must error")
	}
}

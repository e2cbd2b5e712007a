package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
)

const icsBody = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\nUID:e1\r\nDTSTART:20250310T140000Z\r\nDTEND:20250310T150000Z\r\nSUMMARY:Sync\r\nEND:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSONFile(t *testing.T) {
	path := writeFile(t, "events.json", `{"events": [
		{"id": "standup", "start": "2025-03-10T09:00:00Z", "end": "2025-03-10T09:15:00Z"}
	]}`)

	events, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != "standup" {
		t.Errorf("Load() = %v, want one event standup", events)
	}
}

func TestLoadICSFile(t *testing.T) {
	path := writeFile(t, "cal.ics", icsBody)

	events, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("Load() = %v, want one event e1", events)
	}
	if got := events[0].Title(); got != "Sync" {
		t.Errorf("Title() = %q, want %q", got, "Sync")
	}
}

func TestLoadRemoteFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(icsBody))
	}))
	defer srv.Close()

	events, err := Load(context.Background(), srv.URL, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("Load() = %v, want one event e1", events)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "events.csv", "id,start,end\n")

	_, err := Load(context.Background(), path, Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Load() error = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestLoadMissingICSFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.ics"), Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadEmptyRef(t *testing.T) {
	if _, err := Load(context.Background(), "", Options{}); err == nil {
		t.Error("Load(\"\") should fail")
	}
}

func TestLoadBadZone(t *testing.T) {
	path := writeFile(t, "cal.ics", icsBody)
	_, err := Load(context.Background(), path, Options{Zone: "Mars/Olympus"})
	if !errors.Is(err, errors.ErrCodeInvalidZone) {
		t.Errorf("Load() error = %v, want INVALID_ZONE", err)
	}
}

package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flight-monitor/models"
)

func sampleOffers(n int) []models.Offer {
	offers := make([]models.Offer, n)
	for i := range offers {
		offers[i] = models.Offer{
			PriceTotal: float64(1000 + i),
			PricePP:    float64(500 + i),
			DepDate:    "2026-03-02",
			RetDate:    "2026-03-09",
			DepAirport: "Malpensa",
			Airline:    "ITA Airways",
			Nights:     7,
			Link:       "https://example.test/search",
		}
	}
	return offers
}

func TestHistoryAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	w := NewHistoryWriter(path)
	runAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := w.Append(runAt, sampleOffers(3)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Append(runAt.Add(time.Hour), sampleOffers(2)); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		var entry struct {
			Timestamp  string  `json:"timestamp"`
			PriceTotal float64 `json:"price_total"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		if entry.Timestamp == "" || entry.PriceTotal == 0 {
			t.Errorf("line %d missing fields: %s", lines, scanner.Text())
		}
	}
	if lines != 5 {
		t.Errorf("history has %d lines, want 5 (append-only across runs)", lines)
	}
}

func TestHistoryAppendCapsAtTen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := NewHistoryWriter(path).Append(time.Now(), sampleOffers(25)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if got := strings.Count(string(raw), "\n"); got != 10 {
		t.Errorf("history has %d lines, want 10", got)
	}
}

func TestAppendDeals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deals.txt")
	runAt := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	if err := AppendDeals(path, runAt, sampleOffers(1)); err != nil {
		t.Fatalf("AppendDeals: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read deals: %v", err)
	}
	text := string(raw)
	for _, want := range []string{"2026-03-01 12:30", "€500/pp", "Malpensa", "ITA Airways"} {
		if !strings.Contains(text, want) {
			t.Errorf("deals file missing %q:\n%s", want, text)
		}
	}
}

func TestAlertStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".last_alert")

	if s := LoadAlertState(path); !s.LastAlert.IsZero() {
		t.Errorf("missing state file should load as zero, got %v", s.LastAlert)
	}

	want := time.Date(2026, 3, 1, 21, 15, 0, 0, time.UTC)
	if err := SaveAlertState(path, AlertState{LastAlert: want}); err != nil {
		t.Fatalf("SaveAlertState: %v", err)
	}

	got := LoadAlertState(path)
	if !got.LastAlert.Equal(want) {
		t.Errorf("LastAlert = %v, want %v", got.LastAlert, want)
	}
}

func TestAlertStateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".last_alert")
	if err := os.WriteFile(path, []byte("not a timestamp"), 0644); err != nil {
		t.Fatal(err)
	}
	if s := LoadAlertState(path); !s.LastAlert.IsZero() {
		t.Errorf("corrupt state file should load as zero, got %v", s.LastAlert)
	}
}

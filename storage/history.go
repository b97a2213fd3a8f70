package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flight-monitor/models"
)

// historyLimit caps how many offers each run appends to the history log.
const historyLimit = 10

type historyEntry struct {
	Timestamp string `json:"timestamp"`
	models.Offer
}

// HistoryWriter appends the top offers of each run to a flat JSONL file,
// one record per line. Append-only; nothing here is ever read back by the
// monitor itself.
type HistoryWriter struct {
	path string
}

func NewHistoryWriter(path string) *HistoryWriter {
	return &HistoryWriter{path: path}
}

func (w *HistoryWriter) Append(runAt time.Time, offers []models.Offer) error {
	if len(offers) == 0 {
		return nil
	}
	if len(offers) > historyLimit {
		offers = offers[:historyLimit]
	}

	f, err := openAppend(w.path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	ts := runAt.Format(time.RFC3339)
	for _, o := range offers {
		if err := enc.Encode(historyEntry{Timestamp: ts, Offer: o}); err != nil {
			return fmt.Errorf("history write error: %w", err)
		}
	}
	return nil
}

// AppendDeals writes a human-readable block of below-threshold offers.
func AppendDeals(path string, runAt time.Time, deals []models.Offer) error {
	if len(deals) == 0 {
		return nil
	}
	if len(deals) > historyLimit {
		deals = deals[:historyLimit]
	}

	f, err := openAppend(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "\n--- %s ---\n", runAt.Format("2006-01-02 15:04"))
	for _, d := range deals {
		fmt.Fprintf(f, "€%.0f/pp | %s-%s (%dn) | %s | %s\n  → %s\n",
			d.PricePP, d.DepDate, d.RetDate, d.Nights, d.DepAirport, d.Airline, d.Link)
	}
	return nil
}

func openAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create output dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return f, nil
}

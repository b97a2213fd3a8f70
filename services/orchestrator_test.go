package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"flight-monitor/config"
	"flight-monitor/models"
)

type fakeSearcher struct {
	roundTrip []models.RawListing
	oneWay    []models.RawListing
	err       error
	calls     []models.FlightQuery
}

func (f *fakeSearcher) Search(ctx context.Context, q models.FlightQuery) ([]models.RawListing, error) {
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	if q.Trip == models.TripOneWay {
		return f.oneWay, nil
	}
	return f.roundTrip, nil
}

type missCache struct{}

func (missCache) Get(ctx context.Context, q models.FlightQuery) ([]models.RawListing, bool) {
	return nil, false
}

func (missCache) Set(ctx context.Context, q models.FlightQuery, listings []models.RawListing) error {
	return nil
}

func testConfig(today time.Time) *config.Config {
	return &config.Config{
		Origins:          []string{"MXP"},
		Destination:      "MLE",
		DateFrom:         today.AddDate(0, 0, 1).Format("2006-01-02"),
		DateTo:           today.AddDate(0, 0, 1).Format("2006-01-02"),
		NightsMin:        7,
		NightsMax:        7,
		SampleEveryNDays: 5,
		Adults:           2,
		MaxStops:         1,
		PriceThresholdPP: 600,
		Currency:         "EUR",
		Seat:             "economy",
	}
}

func newTestOrchestrator(cfg *config.Config, s Searcher, today time.Time) *Orchestrator {
	o := NewOrchestrator(cfg, s, missCache{})
	o.now = func() time.Time { return today }
	return o
}

func TestRunEndToEnd(t *testing.T) {
	today := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cfg := testConfig(today)

	searcher := &fakeSearcher{
		roundTrip: []models.RawListing{
			{Airline: "ITA Airways", Departure: "10:35 PM", Arrival: "7:45 AM", Duration: "12 hr 10 min", Stops: "Nonstop", Price: "€1.200"},
		},
		oneWay: []models.RawListing{
			{Airline: "Qatar Airways", Departure: "9:10 AM", Arrival: "6:30 PM", Duration: "11 hr 20 min", Stops: "1 stop", Price: "€480"},
		},
	}

	offers, stats, err := newTestOrchestrator(cfg, searcher, today).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}

	o := offers[0]
	if o.PriceTotal != 1200 {
		t.Errorf("PriceTotal = %v, want 1200", o.PriceTotal)
	}
	if o.PricePP != 600 {
		t.Errorf("PricePP = %v, want 600", o.PricePP)
	}
	if o.Stops != 0 {
		t.Errorf("Stops = %d, want 0", o.Stops)
	}
	if o.StopsDetail != "Nonstop" {
		t.Errorf("StopsDetail = %q, want Nonstop", o.StopsDetail)
	}
	if o.DepAirport != "Malpensa" || o.DestAirport != "Malé" {
		t.Errorf("airport labels = %q → %q", o.DepAirport, o.DestAirport)
	}
	if o.Link == "" {
		t.Error("offer is missing its deep link")
	}
	if o.RetAirline != "Qatar Airways" || o.RetStops != 1 {
		t.Errorf("return detail not merged: %+v", o)
	}
	if stats.UniqueOffers != 1 || stats.BestPricePP != 600 {
		t.Errorf("stats = %+v", stats)
	}

	// One outbound round-trip search plus one return-leg search.
	if stats.OutboundSearches != 1 || stats.ReturnSearches != 1 {
		t.Errorf("search counts = %d/%d, want 1/1", stats.OutboundSearches, stats.ReturnSearches)
	}
}

func TestRunOutsideHorizon(t *testing.T) {
	today := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cfg := testConfig(today)
	cfg.DateFrom = today.AddDate(0, 0, 400).Format("2006-01-02")
	cfg.DateTo = today.AddDate(0, 0, 450).Format("2006-01-02")

	searcher := &fakeSearcher{}
	_, _, err := newTestOrchestrator(cfg, searcher, today).Run(context.Background())
	if !errors.Is(err, ErrOutsideHorizon) {
		t.Fatalf("err = %v, want ErrOutsideHorizon", err)
	}
	if len(searcher.calls) != 0 {
		t.Errorf("no searches should run for an out-of-horizon window, got %d", len(searcher.calls))
	}
}

func TestRunMergeFallback(t *testing.T) {
	today := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cfg := testConfig(today)

	searcher := &fakeSearcher{
		roundTrip: []models.RawListing{
			{Airline: "Emirates", Duration: "14 hr", Stops: "1 stop", Price: "€980"},
		},
		oneWay: nil, // no return detail found
	}

	offers, _, err := newTestOrchestrator(cfg, searcher, today).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("offer with missing return detail must not be dropped, got %d offers", len(offers))
	}

	o := offers[0]
	if o.RetAirline != "Emirates" {
		t.Errorf("RetAirline = %q, want outbound airline fallback", o.RetAirline)
	}
	if o.RetDuration != "unknown" {
		t.Errorf("RetDuration = %q, want unknown", o.RetDuration)
	}
	if o.RetStops != o.Stops {
		t.Errorf("RetStops = %d, want outbound stops %d", o.RetStops, o.Stops)
	}
}

func TestRunFiltersStopsAndUnparseablePrices(t *testing.T) {
	today := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cfg := testConfig(today)
	cfg.MaxStops = 0

	searcher := &fakeSearcher{
		roundTrip: []models.RawListing{
			{Airline: "A", Stops: "Nonstop", Price: "€500"},
			{Airline: "B", Stops: "2 stops", Price: "€300"},
			{Airline: "C", Stops: "Nonstop", Price: "N/A"},
		},
	}

	offers, _, err := newTestOrchestrator(cfg, searcher, today).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(offers) != 1 || offers[0].Airline != "A" {
		t.Fatalf("expected only the nonstop parseable offer, got %+v", offers)
	}
}

func TestRunSearchErrorsAreCountedNotFatal(t *testing.T) {
	today := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cfg := testConfig(today)

	searcher := &fakeSearcher{err: errors.New("navigation timeout")}
	offers, stats, err := newTestOrchestrator(cfg, searcher, today).Run(context.Background())
	if err != nil {
		t.Fatalf("per-search failures must not fail the run: %v", err)
	}
	if len(offers) != 0 {
		t.Fatalf("got %d offers, want 0", len(offers))
	}
	if stats.Errors == 0 {
		t.Error("expected failed searches to be counted")
	}
}

func TestDeduplicate(t *testing.T) {
	base := models.Offer{
		PriceTotal: 1200, DepDate: "2026-03-02", RetDate: "2026-03-09",
		DepAirport: "Malpensa", Airline: "ITA Airways",
		Duration: "12 hr", StopsDetail: "Nonstop",
	}
	dup := base
	dup.Duration = "12 hr 05 min" // differs outside the key
	dup.StopsDetail = "Direct"
	other := base
	other.Airline = "Emirates"

	unique := Deduplicate([]models.Offer{base, dup, other})
	if len(unique) != 2 {
		t.Fatalf("got %d offers, want 2", len(unique))
	}
	if unique[0].Duration != "12 hr" {
		t.Error("deduplication must keep the first-seen offer of a group")
	}
}

func TestRankByPricePP(t *testing.T) {
	offers := []models.Offer{
		{PricePP: 220},
		{PricePP: 150},
		{PricePP: 300},
	}
	RankByPricePP(offers)

	want := []float64{150, 220, 300}
	for i, o := range offers {
		if o.PricePP != want[i] {
			t.Fatalf("order = %v, want %v", offers, want)
		}
	}
}

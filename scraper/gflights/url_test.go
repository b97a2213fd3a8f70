package gflights

import (
	"strings"
	"testing"

	"flight-monitor/models"
)

func sampleQuery() models.FlightQuery {
	return models.FlightQuery{
		Legs: []models.Leg{
			{Date: "2026-03-02", From: "MXP", To: "MLE"},
			{Date: "2026-03-09", From: "MLE", To: "MXP"},
		},
		Trip:     models.TripRoundTrip,
		Adults:   2,
		Currency: "EUR",
		Seat:     "economy",
		MaxStops: 1,
	}
}

func TestEncodeTokenDeterministic(t *testing.T) {
	a := EncodeToken(sampleQuery())
	b := EncodeToken(sampleQuery())
	if a == "" {
		t.Fatal("empty token")
	}
	if a != b {
		t.Fatalf("token not deterministic: %q vs %q", a, b)
	}
}

func TestEncodeTokenVariesWithQuery(t *testing.T) {
	base := EncodeToken(sampleQuery())

	q := sampleQuery()
	q.Legs[0].Date = "2026-03-03"
	if EncodeToken(q) == base {
		t.Error("token must change with the departure date")
	}

	q = sampleQuery()
	q.Adults = 3
	if EncodeToken(q) == base {
		t.Error("token must change with the passenger count")
	}

	q = sampleQuery()
	q.Trip = models.TripOneWay
	q.Legs = q.Legs[:1]
	if EncodeToken(q) == base {
		t.Error("token must change with the trip kind")
	}
}

func TestBuildURL(t *testing.T) {
	u := BuildURL(sampleQuery())

	if !strings.HasPrefix(u, "https://www.google.com/travel/flights?") {
		t.Fatalf("unexpected base: %s", u)
	}
	for _, part := range []string{"tfs=", "hl=en", "curr=EUR", "tfu="} {
		if !strings.Contains(u, part) {
			t.Errorf("URL missing %q: %s", part, u)
		}
	}

	if u != BuildURL(sampleQuery()) {
		t.Error("deep link must be deterministic")
	}
}

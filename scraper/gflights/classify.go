package gflights

import (
	"regexp"

	"flight-monitor/models"
)

// card is the raw shape handed over by the in-page extraction script: the
// admission-gating price token plus every short text fragment on the node.
type card struct {
	Price string   `json:"price"`
	Texts []string `json:"texts"`
}

// Fragment classes, tried in order. The first matching rule wins; fragments
// surviving every rule are free text and the first of those becomes the
// airline label. This is deliberately best-effort: layover codes and other
// labels can win the airline slot and that imprecision is accepted.
type fragmentKind int

const (
	kindTime fragmentKind = iota
	kindDuration
	kindStops
	kindPrice
	kindEmissions
	kindTripType
	kindFreeText
	kindNoise
)

var (
	timeRe      = regexp.MustCompile(`\d{1,2}:\d{2}(\s*[APap][Mm])?`)
	durationRe  = regexp.MustCompile(`(?i)\d+\s*(hr|h|ore)`)
	stopsRe     = regexp.MustCompile(`(?i)(nonstop|\d+\s*(stop|scal)s?)`)
	priceRe     = regexp.MustCompile(`[€$£][\d,.]+`)
	emissionsRe = regexp.MustCompile(`(?i)(kg|co2|emissions)`)
	tripTypeRe  = regexp.MustCompile(`(?i)(round trip|one way|andata)`)
)

type classifierRule struct {
	kind  fragmentKind
	match func(string) bool
}

var classifierPipeline = []classifierRule{
	{kindTime, timeRe.MatchString},
	{kindDuration, durationRe.MatchString},
	{kindStops, stopsRe.MatchString},
	{kindPrice, priceRe.MatchString},
	{kindEmissions, emissionsRe.MatchString},
	{kindTripType, tripTypeRe.MatchString},
}

func classifyFragment(s string) fragmentKind {
	for _, rule := range classifierPipeline {
		if rule.match(s) {
			return rule.kind
		}
	}
	if len(s) > 2 && len(s) < 50 {
		return kindFreeText
	}
	return kindNoise
}

// buildListing assembles a RawListing from a card. The first two time-like
// fragments become departure/arrival; the first duration, stops and
// free-text fragments take their slots. Missing fields stay empty and mean
// "unknown" downstream, never an error.
func buildListing(c card) models.RawListing {
	listing := models.RawListing{Price: c.Price}

	var times []string
	for _, frag := range c.Texts {
		switch classifyFragment(frag) {
		case kindTime:
			if len(times) < 2 && len(frag) < 20 {
				times = append(times, frag)
			}
		case kindDuration:
			if listing.Duration == "" {
				listing.Duration = frag
			}
		case kindStops:
			if listing.Stops == "" {
				listing.Stops = frag
			}
		case kindFreeText:
			if listing.Airline == "" {
				listing.Airline = frag
			}
		}
	}

	if len(times) > 0 {
		listing.Departure = times[0]
	}
	if len(times) > 1 {
		listing.Arrival = times[1]
	}
	return listing
}

func buildListings(cards []card) []models.RawListing {
	listings := make([]models.RawListing, 0, len(cards))
	for _, c := range cards {
		if c.Price == "" {
			continue
		}
		listings = append(listings, buildListing(c))
	}
	return listings
}

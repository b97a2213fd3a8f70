package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"flight-monitor/config"
	"flight-monitor/models"
	"flight-monitor/scraper/gflights"
	"flight-monitor/utils"
)

// ErrOutsideHorizon reports that the requested date window lies entirely
// beyond the fare source's forward availability. It is an expected
// retry-next-cycle condition, not a failure.
var ErrOutsideHorizon = errors.New("requested date window is beyond the fare source horizon")

// Searcher runs one query against the fare source. An empty slice with a nil
// error means the page held no usable listings.
type Searcher interface {
	Search(ctx context.Context, q models.FlightQuery) ([]models.RawListing, error)
}

// ListingCache short-circuits repeat queries within a run or across a quick
// restart. The no-op implementation always misses.
type ListingCache interface {
	Get(ctx context.Context, q models.FlightQuery) ([]models.RawListing, bool)
	Set(ctx context.Context, q models.FlightQuery, listings []models.RawListing) error
}

type retKey struct {
	RetDate string
	Origin  string
}

// Orchestrator sequences all searches of one monitoring run: outbound
// round-trips across origins × date pairs, then one-way return-leg detail
// searches, then merge, dedupe and rank. Strictly sequential; a rate limiter
// enforces the inter-search delay.
type Orchestrator struct {
	cfg      *config.Config
	searcher Searcher
	cache    ListingCache
	limiter  *rate.Limiter
	now      func() time.Time
}

func NewOrchestrator(cfg *config.Config, searcher Searcher, cache ListingCache) *Orchestrator {
	limit := rate.Inf
	if delay := cfg.SearchDelay(); delay > 0 {
		limit = rate.Every(delay)
	}
	return &Orchestrator{
		cfg:      cfg,
		searcher: searcher,
		cache:    cache,
		limiter:  rate.NewLimiter(limit, 1),
		now:      time.Now,
	}
}

// Run executes one full monitoring pass and returns the ranked offers.
// Individual search failures are counted and skipped; only caller
// cancellation or an out-of-horizon window ends the run early.
func (o *Orchestrator) Run(ctx context.Context) ([]models.Offer, models.RunStats, error) {
	var stats models.RunStats

	pairs, reqStart, maxDate := GenerateDatePairs(
		o.cfg.DateFrom, o.cfg.DateTo,
		o.cfg.NightsMin, o.cfg.NightsMax,
		o.cfg.SampleEveryNDays, HorizonDays,
		o.now(),
	)
	if len(pairs) == 0 {
		utils.Warn("Requested dates (from %s) are not available on the fare source yet", reqStart.Format(dateLayout))
		utils.Warn("The source lists fares up to ~%d days ahead (max: %s)", HorizonDays, maxDate.Format(dateLayout))
		return nil, stats, ErrOutsideHorizon
	}

	outboundTotal := len(pairs) * len(o.cfg.Origins)
	estSearches := outboundTotal * 2 // returns are at most one per (pair, origin)
	estMinutes := estSearches * (o.cfg.DelayBetweenSearches + 15) / 60
	utils.Info("Searches: %d outbound + up to %d returns", outboundTotal, outboundTotal)
	utils.Info("Estimated time: ~%d minutes", estMinutes)

	// Phase 1: outbound round-trip searches carry the full A/R price.
	utils.Section("Phase 1: outbound searches (round-trip prices)")
	var offers []models.Offer
	var retOrder []retKey
	retSeen := make(map[retKey]bool)

	for _, origin := range o.cfg.Origins {
		for _, pair := range pairs {
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			stats.OutboundSearches++
			utils.Info("  [%d/%d] %s %s (%dn)...",
				stats.OutboundSearches, outboundTotal, AirportName(origin), pair.DepDate, pair.Nights)

			listings, err := o.search(ctx, o.roundTripQuery(origin, pair))
			if err != nil {
				stats.Errors++
				utils.Error("    search failed: %v", err)
				continue
			}

			found := o.processListings(listings, origin, pair)
			utils.Info("    → %d valid offers (of %d listings)", len(found), len(listings))

			for _, offer := range found {
				key := retKey{RetDate: offer.RetDate, Origin: offer.OriginCode}
				if !retSeen[key] {
					retSeen[key] = true
					retOrder = append(retOrder, key)
				}
			}
			offers = append(offers, found...)
		}
	}

	// Phase 2: one-way searches fill in return-leg detail per
	// (return date, origin) referenced by phase-1 offers.
	utils.Section("Phase 2: return-leg detail searches")
	details := make(map[retKey]models.ReturnDetail)
	for i, key := range retOrder {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}
		stats.ReturnSearches++
		utils.Info("  [%d/%d] return %s %s→%s...",
			i+1, len(retOrder), key.RetDate, o.cfg.Destination, key.Origin)

		listings, err := o.search(ctx, o.oneWayQuery(key))
		if err != nil {
			stats.Errors++
			utils.Error("    search failed: %v", err)
			continue
		}

		if detail, ok := o.pickReturnDetail(listings); ok {
			details[key] = detail
			utils.Info("    → %s | %s | %s", detail.Airline, detail.Duration, detail.StopsDetail)
		} else {
			utils.Info("    → no suitable return found")
		}
	}

	merged := mergeReturnDetails(offers, details)
	unique := Deduplicate(merged)
	RankByPricePP(unique)

	stats.UniqueOffers = len(unique)
	if len(unique) > 0 {
		stats.BestPricePP = unique[0].PricePP
	}
	return unique, stats, nil
}

// search enforces the inter-search delay and consults the cache before
// hitting the browser.
func (o *Orchestrator) search(ctx context.Context, q models.FlightQuery) ([]models.RawListing, error) {
	if listings, ok := o.cache.Get(ctx, q); ok {
		return listings, nil
	}
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	listings, err := o.searcher.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := o.cache.Set(ctx, q, listings); err != nil {
		utils.Warn("cache set failed: %v", err)
	}
	return listings, nil
}

// processListings normalizes raw cards into offers: price parse, stops
// filter, per-person price and the rebuilt deep link.
func (o *Orchestrator) processListings(listings []models.RawListing, origin string, pair models.DatePair) []models.Offer {
	var offers []models.Offer
	for _, l := range listings {
		price, ok := ParsePrice(l.Price)
		if !ok {
			continue
		}

		stops := ParseStops(l.Stops)
		if stops > o.cfg.MaxStops {
			continue
		}

		offers = append(offers, models.Offer{
			PriceTotal:  price,
			PricePP:     round2(price / float64(o.cfg.Adults)),
			DepDate:     pair.DepDate,
			RetDate:     pair.RetDate,
			DepAirport:  AirportName(origin),
			DestAirport: AirportName(o.cfg.Destination),
			OriginCode:  origin,
			Airline:     l.Airline,
			Departure:   l.Departure,
			Arrival:     l.Arrival,
			Duration:    l.Duration,
			Stops:       stops,
			StopsDetail: stopsDetail(l.Stops),
			Nights:      pair.Nights,
			Link:        gflights.BuildURL(o.roundTripQuery(origin, pair)),
		})
	}
	return offers
}

// pickReturnDetail takes the first return listing satisfying the stops
// filter.
func (o *Orchestrator) pickReturnDetail(listings []models.RawListing) (models.ReturnDetail, bool) {
	for _, l := range listings {
		stops := ParseStops(l.Stops)
		if stops > o.cfg.MaxStops {
			continue
		}
		return models.ReturnDetail{
			Airline:     l.Airline,
			Departure:   l.Departure,
			Arrival:     l.Arrival,
			Duration:    l.Duration,
			Stops:       stops,
			StopsDetail: stopsDetail(l.Stops),
		}, true
	}
	return models.ReturnDetail{}, false
}

// mergeReturnDetails completes each offer with its return leg. Offers whose
// (return date, origin) found no detail fall back to the outbound airline
// and stop profile with an unknown duration — degraded, never dropped.
func mergeReturnDetails(offers []models.Offer, details map[retKey]models.ReturnDetail) []models.Offer {
	merged := make([]models.Offer, len(offers))
	for i, offer := range offers {
		if d, ok := details[retKey{RetDate: offer.RetDate, Origin: offer.OriginCode}]; ok {
			offer.RetAirline = d.Airline
			offer.RetDeparture = d.Departure
			offer.RetArrival = d.Arrival
			offer.RetDuration = d.Duration
			offer.RetStops = d.Stops
			offer.RetStopsDetail = d.StopsDetail
		} else {
			offer.RetAirline = offer.Airline
			offer.RetDeparture = ""
			offer.RetArrival = ""
			offer.RetDuration = "unknown"
			offer.RetStops = offer.Stops
			offer.RetStopsDetail = offer.StopsDetail
		}
		merged[i] = offer
	}
	return merged
}

type dedupeKey struct {
	PriceTotal float64
	DepDate    string
	RetDate    string
	DepAirport string
	Airline    string
}

// Deduplicate collapses offers sharing (total price, dates, origin label,
// airline), keeping the first seen of each group in order.
func Deduplicate(offers []models.Offer) []models.Offer {
	seen := make(map[dedupeKey]bool, len(offers))
	unique := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		key := dedupeKey{o.PriceTotal, o.DepDate, o.RetDate, o.DepAirport, o.Airline}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, o)
	}
	return unique
}

// RankByPricePP sorts offers by per-person price ascending, preserving
// first-seen order among equal prices.
func RankByPricePP(offers []models.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].PricePP < offers[j].PricePP
	})
}

func (o *Orchestrator) roundTripQuery(origin string, pair models.DatePair) models.FlightQuery {
	return models.FlightQuery{
		Legs: []models.Leg{
			{Date: pair.DepDate, From: origin, To: o.cfg.Destination},
			{Date: pair.RetDate, From: o.cfg.Destination, To: origin},
		},
		Trip:     models.TripRoundTrip,
		Adults:   o.cfg.Adults,
		Currency: o.cfg.Currency,
		Seat:     o.cfg.Seat,
		MaxStops: o.cfg.MaxStops,
	}
}

func (o *Orchestrator) oneWayQuery(key retKey) models.FlightQuery {
	return models.FlightQuery{
		Legs: []models.Leg{
			{Date: key.RetDate, From: o.cfg.Destination, To: key.Origin},
		},
		Trip:     models.TripOneWay,
		Adults:   o.cfg.Adults,
		Currency: o.cfg.Currency,
		Seat:     o.cfg.Seat,
		MaxStops: o.cfg.MaxStops,
	}
}

func stopsDetail(label string) string {
	if label == "" {
		return "Direct"
	}
	return label
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

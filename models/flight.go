package models

// TripKind selects between a one-way and a round-trip search.
type TripKind string

const (
	TripRoundTrip TripKind = "round-trip"
	TripOneWay    TripKind = "one-way"
)

// Leg is one directional flight segment: a single origin→destination on a date.
type Leg struct {
	Date string // YYYY-MM-DD
	From string // IATA code
	To   string // IATA code
}

// FlightQuery describes one search request against the fare source.
// Built per search, never mutated.
type FlightQuery struct {
	Legs     []Leg
	Trip     TripKind
	Adults   int
	Currency string
	Seat     string
	MaxStops int // -1 = no stop filter in the query itself
}

// RawListing is one parsed result card, all fields free text as shown on the
// page. Empty fields mean the classifier found nothing, not an error.
type RawListing struct {
	Airline   string `json:"airline"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Duration  string `json:"duration"`
	Stops     string `json:"stops"`
	Price     string `json:"price"`
}

// DatePair is one sampled (departure, return) candidate.
type DatePair struct {
	DepDate string // YYYY-MM-DD
	RetDate string // YYYY-MM-DD
	Nights  int
}

// ReturnDetail holds the return-leg fields found by the phase-2 one-way
// search, keyed by (return date, origin).
type ReturnDetail struct {
	Airline     string
	Departure   string
	Arrival     string
	Duration    string
	Stops       int
	StopsDetail string
}

// Offer is a complete round-trip itinerary with combined pricing.
// Dates are ISO (YYYY-MM-DD); display formatting happens at the notification
// boundary. Immutable once the return-leg fields are merged in.
type Offer struct {
	PriceTotal  float64 `json:"price_total"`
	PricePP     float64 `json:"price_pp"`
	DepDate     string  `json:"dep_date"`
	RetDate     string  `json:"ret_date"`
	DepAirport  string  `json:"dep_airport"`
	DestAirport string  `json:"dest_airport"`
	OriginCode  string  `json:"origin_code"`
	Airline     string  `json:"airline"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	Duration    string  `json:"duration"`
	Stops       int     `json:"stops"`
	StopsDetail string  `json:"stops_detail"`
	Nights      int     `json:"nights"`
	Link        string  `json:"link"`

	RetAirline     string `json:"ret_airline"`
	RetDeparture   string `json:"ret_departure"`
	RetArrival     string `json:"ret_arrival"`
	RetDuration    string `json:"ret_duration"`
	RetStops       int    `json:"ret_stops"`
	RetStopsDetail string `json:"ret_stops_detail"`
}

// RunStats summarizes one monitoring run for logging and the heartbeat email.
type RunStats struct {
	OutboundSearches int
	ReturnSearches   int
	Errors           int
	UniqueOffers     int
	BestPricePP      float64
}

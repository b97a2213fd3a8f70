package gflights

import (
	"encoding/base64"
	"net/url"

	"flight-monitor/models"
)

const baseURL = "https://www.google.com/travel/flights"

// BuildURL produces the deep link reproducing a search on the fare source.
// Deterministic: the same query always yields the same URL.
func BuildURL(q models.FlightQuery) string {
	params := url.Values{}
	params.Set("tfs", EncodeToken(q))
	params.Set("hl", "en")
	params.Set("tfu", "EgQIABABIgA")
	params.Set("curr", q.Currency)
	return baseURL + "?" + params.Encode()
}

// Field numbers and enum values of the site-defined search token. The token
// is a protobuf-encoded message carried base64url in the "tfs" parameter;
// only the encode direction is needed, there is no decode path.
const (
	fieldLegDate     = 2
	fieldLegMaxStops = 5
	fieldLegFrom     = 13
	fieldLegTo       = 14
	fieldAirportName = 2

	fieldLeg        = 3
	fieldPassengers = 8
	fieldSeat       = 9
	fieldTrip       = 19

	passengerAdult = 1
)

var seatCodes = map[string]uint64{
	"economy":         1,
	"premium-economy": 2,
	"business":        3,
	"first":           4,
}

var tripCodes = map[models.TripKind]uint64{
	models.TripRoundTrip: 1,
	models.TripOneWay:    2,
}

// EncodeToken serializes a query into the opaque token the results page
// expects. Round-trip insensitivity is fine: the site only ever reads it.
func EncodeToken(q models.FlightQuery) string {
	var msg []byte

	for _, leg := range q.Legs {
		var lm []byte
		lm = appendStringField(lm, fieldLegDate, leg.Date)
		if q.MaxStops >= 0 {
			lm = appendVarintField(lm, fieldLegMaxStops, uint64(q.MaxStops))
		}
		lm = appendBytesField(lm, fieldLegFrom, appendStringField(nil, fieldAirportName, leg.From))
		lm = appendBytesField(lm, fieldLegTo, appendStringField(nil, fieldAirportName, leg.To))
		msg = appendBytesField(msg, fieldLeg, lm)
	}

	for i := 0; i < q.Adults; i++ {
		msg = appendVarintField(msg, fieldPassengers, passengerAdult)
	}

	seat, ok := seatCodes[q.Seat]
	if !ok {
		seat = seatCodes["economy"]
	}
	msg = appendVarintField(msg, fieldSeat, seat)

	trip, ok := tripCodes[q.Trip]
	if !ok {
		trip = tripCodes[models.TripRoundTrip]
	}
	msg = appendVarintField(msg, fieldTrip, trip)

	return base64.RawURLEncoding.EncodeToString(msg)
}

// Minimal protobuf wire writers. Wire types: 0 = varint, 2 = length-delimited.

func appendVarint(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

func appendTag(b []byte, field int, wire uint64) []byte {
	return appendVarint(b, uint64(field)<<3|wire)
}

func appendVarintField(b []byte, field int, v uint64) []byte {
	b = appendTag(b, field, 0)
	return appendVarint(b, v)
}

func appendBytesField(b []byte, field int, payload []byte) []byte {
	b = appendTag(b, field, 2)
	b = appendVarint(b, uint64(len(payload)))
	return append(b, payload...)
}

func appendStringField(b []byte, field int, s string) []byte {
	return appendBytesField(b, field, []byte(s))
}

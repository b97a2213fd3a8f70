package services

import (
	"fmt"
	"sort"
	"strings"
)

// knownAirports maps IATA codes to display names. Extend as routes grow.
var knownAirports = map[string]string{
	"MXP": "Malpensa",
	"LIN": "Linate",
	"BGY": "Bergamo",
	"MLE": "Malé",
	"FCO": "Fiumicino",
	"VCE": "Venezia",
	"BLQ": "Bologna",
	"NAP": "Napoli",
	"PMO": "Palermo",
	"CTA": "Catania",
	"TRN": "Torino",
	"FLR": "Firenze",
	"PSA": "Pisa",
}

// AirportName returns the display name for an IATA code, or the code itself
// when unknown.
func AirportName(code string) string {
	if name, ok := knownAirports[code]; ok {
		return name
	}
	return code
}

// RouteLabel builds a human route label like "Linate, Malpensa - Malé".
// More than three distinct origins collapse into a count.
func RouteLabel(origins []string, destination string) string {
	seen := make(map[string]bool)
	var names []string
	for _, o := range origins {
		name := AirportName(o)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	originsStr := strings.Join(names, ", ")
	if len(names) > 3 {
		originsStr = fmt.Sprintf("%d airports", len(names))
	}
	return originsStr + " - " + AirportName(destination)
}

package notify

import (
	"fmt"
	"strings"
	"time"

	"flight-monitor/models"
	"flight-monitor/services"
)

// DisplayDate turns an ISO date into the DD/MM/YYYY form used everywhere a
// human reads it. Unparseable input passes through unchanged.
func DisplayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

func stopsLabel(stops int) string {
	if stops == 0 {
		return "Direct"
	}
	if stops == 1 {
		return "1 stop"
	}
	return fmt.Sprintf("%d stops", stops)
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// FormatOfferText renders one offer as the terminal block printed after a
// run.
func FormatOfferText(o models.Offer, index, adults int) string {
	rule := strings.Repeat("=", 55)
	return strings.Join([]string{
		rule,
		fmt.Sprintf("  FLIGHT #%d — €%.0f/pp A/R (€%.0f total for %d, %dn)",
			index, o.PricePP, o.PriceTotal, adults, o.Nights),
		rule,
		fmt.Sprintf("  OUTBOUND %s  %s → %s", DisplayDate(o.DepDate), o.DepAirport, o.DestAirport),
		fmt.Sprintf("           %s | %s | %s", orUnknown(o.Airline), orUnknown(o.Duration), stopsLabel(o.Stops)),
		fmt.Sprintf("  RETURN   %s  %s → %s", DisplayDate(o.RetDate), o.DestAirport, o.DepAirport),
		fmt.Sprintf("           %s | %s | %s", orUnknown(o.RetAirline), orUnknown(o.RetDuration), stopsLabel(o.RetStops)),
		fmt.Sprintf("  Link:    %s", o.Link),
	}, "\n")
}

func telegramMessage(deals []models.Offer, threshold float64, origins []string, destination string) string {
	route := services.RouteLabel(origins, destination)
	lines := []string{fmt.Sprintf("<b>Flights %s under €%.0f/pp!</b>\n", route, threshold)}
	for i, d := range deals {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf(
			"<b>#%d €%.0f/pp (€%.0f total)</b>\n%s-%s (%dn)\nFrom: %s | %s\n%s | %s\n",
			i+1, d.PricePP, d.PriceTotal,
			DisplayDate(d.DepDate), DisplayDate(d.RetDate), d.Nights,
			d.DepAirport, orUnknown(d.Airline),
			orUnknown(d.Duration), stopsLabel(d.Stops),
		))
	}
	return strings.Join(lines, "\n")
}

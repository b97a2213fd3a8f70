package services

import (
	"time"

	"flight-monitor/models"
)

// HorizonDays is how far ahead the fare source returns results.
const HorizonDays = 330

const dateLayout = "2006-01-02"

// GenerateDatePairs expands the requested window into a bounded sample of
// (departure, return, nights) candidates. The window is clipped to
// [today+1, today+horizonDays]; an inverted clip yields an empty slice,
// meaning the requested range is not available yet and the caller should
// retry on a later cycle. The requested start and the horizon max date are
// returned alongside for that log message.
//
// Nights candidates are {min, max}, plus the midpoint when the span exceeds
// 2 nights. Departures step by stepDays; a pair is emitted only when its
// return date stays inside the horizon. Output is ordered by departure date,
// then by the nights list order.
func GenerateDatePairs(dateFrom, dateTo string, nightsMin, nightsMax, stepDays, horizonDays int, today time.Time) ([]models.DatePair, time.Time, time.Time) {
	start, err := time.Parse(dateLayout, dateFrom)
	if err != nil {
		return nil, time.Time{}, time.Time{}
	}
	end, err := time.Parse(dateLayout, dateTo)
	if err != nil {
		return nil, start, time.Time{}
	}

	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	maxDate := today.AddDate(0, 0, horizonDays)

	effectiveStart := start
	if tomorrow := today.AddDate(0, 0, 1); effectiveStart.Before(tomorrow) {
		effectiveStart = tomorrow
	}
	effectiveEnd := end
	if effectiveEnd.After(maxDate) {
		effectiveEnd = maxDate
	}

	if effectiveStart.After(effectiveEnd) {
		return nil, start, maxDate
	}

	nightsOptions := []int{nightsMin, nightsMax}
	switch {
	case nightsMax == nightsMin:
		nightsOptions = []int{nightsMin}
	case nightsMax-nightsMin > 2:
		mid := (nightsMin + nightsMax) / 2
		nightsOptions = []int{nightsMin, mid, nightsMax}
	}

	var pairs []models.DatePair
	for current := effectiveStart; !current.After(effectiveEnd); current = current.AddDate(0, 0, stepDays) {
		for _, nights := range nightsOptions {
			ret := current.AddDate(0, 0, nights)
			if !ret.After(maxDate) {
				pairs = append(pairs, models.DatePair{
					DepDate: current.Format(dateLayout),
					RetDate: ret.Format(dateLayout),
					Nights:  nights,
				})
			}
		}
	}
	return pairs, start, maxDate
}

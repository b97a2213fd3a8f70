package services

import "testing"

func TestAirportName(t *testing.T) {
	if got := AirportName("MXP"); got != "Malpensa" {
		t.Errorf("AirportName(MXP) = %q", got)
	}
	if got := AirportName("XYZ"); got != "XYZ" {
		t.Errorf("unknown codes must pass through, got %q", got)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		origins []string
		dest    string
		want    string
	}{
		{[]string{"MXP"}, "MLE", "Malpensa - Malé"},
		{[]string{"MXP", "LIN"}, "MLE", "Linate, Malpensa - Malé"},
		{[]string{"MXP", "MXP", "LIN"}, "MLE", "Linate, Malpensa - Malé"},
		{[]string{"MXP", "LIN", "BGY", "FCO"}, "MLE", "4 airports - Malé"},
	}
	for _, tt := range tests {
		if got := RouteLabel(tt.origins, tt.dest); got != tt.want {
			t.Errorf("RouteLabel(%v, %s) = %q, want %q", tt.origins, tt.dest, got, tt.want)
		}
	}
}

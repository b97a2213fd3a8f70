package gflights

import "testing"

const fallbackHTML = `
<div jsname="IWWDBc">
  <ul>
    <li>
      <span>10:35 PM</span><span>7:45 AM</span>
      <span>12 hr 10 min</span>
      <span>Nonstop</span>
      <span>ITA Airways</span>
      <span>€1,200</span>
    </li>
    <li>
      <div>promoted content without a fare</div>
    </li>
  </ul>
</div>`

func TestFallbackCards(t *testing.T) {
	cards := fallbackCards(fallbackHTML)
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1 (no price token, no listing)", len(cards))
	}
	if cards[0].Price != "€1,200" {
		t.Errorf("price = %q", cards[0].Price)
	}

	l := buildListing(cards[0])
	if l.Airline != "ITA Airways" || l.Stops != "Nonstop" || l.Departure != "10:35 PM" {
		t.Errorf("unexpected listing from fallback markup: %+v", l)
	}
}

func TestFallbackCardsBroadensSelectors(t *testing.T) {
	// No known container markers: the bare list-item pass still finds the card.
	html := `<ul><li><span>Emirates</span><span>1 stop</span><span>€980</span></li></ul>`
	cards := fallbackCards(html)
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	if cards[0].Price != "€980" {
		t.Errorf("price = %q", cards[0].Price)
	}
}

func TestFallbackCardsEmptyMarkup(t *testing.T) {
	if cards := fallbackCards(""); len(cards) != 0 {
		t.Fatalf("got %d cards from empty markup", len(cards))
	}
	if cards := fallbackCards("<div><p>no flights here</p></div>"); len(cards) != 0 {
		t.Fatalf("got %d cards from markup without listings", len(cards))
	}
}

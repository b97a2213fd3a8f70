package gflights

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fallbackSelectors widen the net once the primary containers yielded
// nothing, from the known list-item markers down to any list item at all.
var fallbackSelectors = []string{
	`[jsname="IWWDBc"] li, [jsname="YdtKid"] li`,
	`li`,
}

// fallbackCards re-runs the per-node classification over captured markup.
// Same admission gate as the primary path: no price token, no listing.
func fallbackCards(html string) []card {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	for _, selector := range fallbackSelectors {
		var cards []card
		doc.Find(selector).Each(func(_ int, item *goquery.Selection) {
			allText := item.Text()
			if len(allText) < 10 {
				return
			}
			price := priceRe.FindString(allText)
			if price == "" {
				return
			}

			var texts []string
			item.Find("span, div").Each(func(_ int, frag *goquery.Selection) {
				t := strings.TrimSpace(frag.Text())
				if t != "" && len(t) < 100 {
					texts = append(texts, t)
				}
			})
			cards = append(cards, card{Price: price, Texts: texts})
		})
		if len(cards) > 0 {
			return cards
		}
	}
	return nil
}

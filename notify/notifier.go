// Package notify delivers run results to the user: desktop popup, Telegram
// message and email. Every channel is best-effort — a delivery failure is
// logged and never interrupts the monitoring loop.
package notify

import (
	"fmt"

	"flight-monitor/config"
	"flight-monitor/models"
	"flight-monitor/services"
)

type Notifier struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Notifier {
	return &Notifier{cfg: cfg}
}

// SendDeals fans the below-threshold offers out to every configured channel.
func (n *Notifier) SendDeals(deals []models.Offer) {
	if len(deals) == 0 {
		return
	}

	best := deals[0]
	route := services.RouteLabel(n.cfg.Origins, n.cfg.Destination)
	Desktop(
		fmt.Sprintf("Flight %s!", route),
		fmt.Sprintf("€%.0f/pp - %s from %s (%dn)",
			best.PricePP, DisplayDate(best.DepDate), best.DepAirport, best.Nights),
	)

	n.sendTelegram(telegramMessage(deals, n.cfg.PriceThresholdPP, n.cfg.Origins, n.cfg.Destination))
	n.sendAlertEmail(deals)
}

// SendHeartbeat sends the weekly still-alive email.
func (n *Notifier) SendHeartbeat(bestPricePP float64, totalOffers int) {
	n.sendHeartbeatEmail(bestPricePP, totalOffers)
}

package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"flight-monitor/models"
	"flight-monitor/services"
	"flight-monitor/utils"
)

const mimeBoundary = "flight-monitor-alt"

// sendAlertEmail delivers the below-threshold offers as a multipart
// text+HTML message. Missing credentials silently disable email.
func (n *Notifier) sendAlertEmail(deals []models.Offer) {
	e := n.cfg.Email
	if e.To == "" || e.AppPassword == "" || e.AppPassword == "YOUR_APP_PASSWORD" {
		return
	}

	if len(deals) > 10 {
		deals = deals[:10]
	}
	route := services.RouteLabel(n.cfg.Origins, n.cfg.Destination)
	subject := fmt.Sprintf("Flight %s from €%.0f/person!", route, deals[0].PricePP)

	msg := buildMessage(e.From, e.To, e.CC, subject,
		n.alertTextBody(deals, route),
		n.alertHTMLBody(deals, route),
	)

	if err := n.send(msg); err != nil {
		utils.Error("Email error: %v", err)
		return
	}
	if e.CC != "" {
		utils.Success("Email sent to %s (cc: %s)", e.To, e.CC)
	} else {
		utils.Success("Email sent to %s", e.To)
	}
}

// sendHeartbeatEmail confirms the monitor is alive when no offer has crossed
// the threshold for a while.
func (n *Notifier) sendHeartbeatEmail(bestPricePP float64, totalOffers int) {
	e := n.cfg.Email
	if e.To == "" || e.AppPassword == "" || e.AppPassword == "YOUR_APP_PASSWORD" {
		return
	}

	route := services.RouteLabel(n.cfg.Origins, n.cfg.Destination)
	subject := fmt.Sprintf("Flight monitor active — no offers under €%.0f/pp this week", n.cfg.PriceThresholdPP)

	text := fmt.Sprintf(
		"Hi,\n\n"+
			"The flight monitor for route %s is up and running.\n\n"+
			"No flights under €%.0f/person were found this week.\n"+
			"Best price in the last check: €%.0f/person (%d offers analyzed).\n\n"+
			"Still checking every %d hours.\n\n"+
			"-- Flight monitor %s",
		route, n.cfg.PriceThresholdPP, bestPricePP, totalOffers, n.cfg.CheckIntervalHours, route,
	)

	msg := buildMessage(e.From, e.To, e.CC, subject, text, "")
	if err := n.send(msg); err != nil {
		utils.Error("Heartbeat email error: %v", err)
		return
	}
	utils.Success("Weekly heartbeat email sent")
}

func (n *Notifier) send(msg []byte) error {
	e := n.cfg.Email
	addr := fmt.Sprintf("%s:%d", e.SMTPHost, e.SMTPPort)
	auth := smtp.PlainAuth("", e.From, e.AppPassword, e.SMTPHost)

	recipients := []string{e.To}
	if e.CC != "" {
		recipients = append(recipients, e.CC)
	}
	return smtp.SendMail(addr, auth, e.From, recipients, msg)
}

func buildMessage(from, to, cc, subject, textBody, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	if cc != "" {
		fmt.Fprintf(&b, "Cc: %s\r\n", cc)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if htmlBody == "" {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(textBody)
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n", mimeBoundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n", mimeBoundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}

func (n *Notifier) alertTextBody(deals []models.Offer, route string) string {
	lines := []string{
		fmt.Sprintf("Found %d round-trip flights under €%.0f/person!\n", len(deals), n.cfg.PriceThresholdPP),
		fmt.Sprintf("Prices are totals for %d adults, outbound and return.\n", n.cfg.Adults),
	}
	destName := services.AirportName(n.cfg.Destination)
	for i, d := range deals {
		lines = append(lines, fmt.Sprintf(
			"#%d €%.0f/pp A/R (€%.0f total for %d)\n"+
				"   OUTBOUND %s  %s → %s\n"+
				"            %s | %s | %s\n"+
				"   RETURN   %s  %s → %s\n"+
				"            %s | %s | %s\n"+
				"   %d nights\n"+
				"   %s\n",
			i+1, d.PricePP, d.PriceTotal, n.cfg.Adults,
			DisplayDate(d.DepDate), d.DepAirport, destName,
			orUnknown(d.Airline), orUnknown(d.Duration), stopsLabel(d.Stops),
			DisplayDate(d.RetDate), destName, d.DepAirport,
			orUnknown(d.RetAirline), orUnknown(d.RetDuration), stopsLabel(d.RetStops),
			d.Nights, d.Link,
		))
	}
	lines = append(lines, fmt.Sprintf("\n-- Flight monitor %s", route))
	return strings.Join(lines, "\n")
}

func (n *Notifier) alertHTMLBody(deals []models.Offer, route string) string {
	destName := services.AirportName(n.cfg.Destination)

	var rows strings.Builder
	for _, d := range deals {
		fmt.Fprintf(&rows, `
		<tr style="border-bottom:1px solid #eee;">
			<td style="padding:14px;text-align:center;vertical-align:top;">
				<div style="font-size:28px;font-weight:bold;color:#2e7d32;">€%.0f</div>
				<div style="font-size:11px;color:#888;">/person A/R</div>
				<div style="font-size:11px;color:#aaa;margin-top:2px;">€%.0f for %d</div>
			</td>
			<td style="padding:14px;">
				<div style="margin-bottom:8px;padding:8px;background:#f8f9fa;border-radius:6px;">
					<div style="color:#1a73e8;font-weight:bold;font-size:12px;margin-bottom:3px;">✈ OUTBOUND — %s</div>
					<div style="color:#333;font-weight:bold;">%s → %s</div>
					<div style="color:#666;font-size:13px;">%s | %s | %s</div>
				</div>
				<div style="margin-bottom:8px;padding:8px;background:#f8f9fa;border-radius:6px;">
					<div style="color:#1a73e8;font-weight:bold;font-size:12px;margin-bottom:3px;">✈ RETURN — %s</div>
					<div style="color:#333;font-weight:bold;">%s → %s</div>
					<div style="color:#666;font-size:13px;">%s | %s | %s</div>
				</div>
				<div style="font-size:12px;color:#888;margin-bottom:8px;">%d nights</div>
				<a href="%s" style="display:inline-block;background:#1a73e8;color:white;padding:6px 14px;border-radius:4px;text-decoration:none;font-size:13px;">View and book →</a>
			</td>
		</tr>`,
			d.PricePP, d.PriceTotal, n.cfg.Adults,
			DisplayDate(d.DepDate), d.DepAirport, destName,
			orUnknown(d.Airline), orUnknown(d.Duration), stopsLabel(d.Stops),
			DisplayDate(d.RetDate), destName, d.DepAirport,
			orUnknown(d.RetAirline), orUnknown(d.RetDuration), stopsLabel(d.RetStops),
			d.Nights, d.Link,
		)
	}

	return fmt.Sprintf(`
	<html><body style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
		<div style="background:#1a73e8;color:white;padding:20px;border-radius:8px 8px 0 0;">
			<h2 style="margin:0;">✈ Flights %s</h2>
			<p style="margin:5px 0 0;opacity:0.9;">%d round-trip flights under €%.0f/person</p>
			<p style="margin:3px 0 0;opacity:0.7;font-size:13px;">Total A/R prices for %d adults</p>
		</div>
		<table style="width:100%%;border-collapse:collapse;">%s</table>
		<div style="padding:15px;color:#888;font-size:12px;">
			Flight monitor %s
		</div>
	</body></html>`,
		route, len(deals), n.cfg.PriceThresholdPP, n.cfg.Adults, rows.String(), route,
	)
}

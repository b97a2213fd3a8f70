package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"flight-monitor/cache"
	"flight-monitor/config"
	"flight-monitor/models"
	"flight-monitor/notify"
	"flight-monitor/scraper/gflights"
	"flight-monitor/services"
	"flight-monitor/storage"
	"flight-monitor/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	once := flag.Bool("once", false, "run a single monitoring cycle and exit (for cron)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.Error("Could not load configuration: %v", err)
		os.Exit(1)
	}

	if err := utils.SetLogFile(cfg.LogPath); err != nil {
		utils.Warn("File logging disabled: %v", err)
	}

	route := services.RouteLabel(cfg.Origins, cfg.Destination)
	utils.Section("Flight monitor")
	utils.Info("Monitoring %s", route)
	utils.Info("Threshold: €%.0f/person | Adults: %d | Max stops: %d",
		cfg.PriceThresholdPP, cfg.Adults, cfg.MaxStops)
	utils.Info("Window: %s → %s | Nights: %d-%d",
		cfg.DateFrom, cfg.DateTo, cfg.NightsMin, cfg.NightsMax)

	for {
		runOnce(cfg)
		if *once {
			return
		}
		utils.Info("Next check in %d hours", cfg.CheckIntervalHours)
		time.Sleep(time.Duration(cfg.CheckIntervalHours) * time.Hour)
	}
}

func runOnce(cfg *config.Config) {
	ctx := context.Background()

	scraper, err := gflights.NewScraper(cfg)
	if err != nil {
		utils.Error("Could not start browser: %v", err)
		return
	}
	defer scraper.Close()

	var listingCache services.ListingCache = cache.NewNoOpCache()
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			utils.Warn("Redis cache unavailable, continuing without: %v", err)
		} else {
			listingCache = rc
			defer rc.Close()
		}
	}

	orch := services.NewOrchestrator(cfg, scraper, listingCache)
	offers, stats, err := orch.Run(ctx)
	if errors.Is(err, services.ErrOutsideHorizon) {
		utils.Info("Will retry automatically on the next check")
		return
	}
	if err != nil {
		utils.Error("Monitoring run failed: %v", err)
		return
	}

	utils.Info("Searches completed: %d (errors: %d)",
		stats.OutboundSearches+stats.ReturnSearches, stats.Errors)
	utils.Info("Unique offers found: %d", stats.UniqueOffers)

	if len(offers) == 0 {
		utils.Warn("No flights matched the configured criteria")
		return
	}

	now := time.Now()
	history := storage.NewHistoryWriter(cfg.HistoryPath)
	if err := history.Append(now, offers); err != nil {
		utils.Warn("Could not append price history: %v", err)
	}
	if cfg.Database.Host != "" {
		persistOffers(cfg, now, offers)
	}

	printTop(offers, cfg.Adults)

	var deals []models.Offer
	for _, o := range offers {
		if o.PricePP <= cfg.PriceThresholdPP {
			deals = append(deals, o)
		}
	}

	notifier := notify.New(cfg)
	state := storage.LoadAlertState(cfg.LastAlertPath)

	if len(deals) > 0 {
		utils.Success("%d flights below €%.0f/person!", len(deals), cfg.PriceThresholdPP)
		notifier.SendDeals(deals)
		if err := storage.AppendDeals(cfg.DealsPath, now, deals); err != nil {
			utils.Warn("Could not append deals file: %v", err)
		} else {
			utils.Info("Deals saved to %s", cfg.DealsPath)
		}
		state.LastAlert = now
		if err := storage.SaveAlertState(cfg.LastAlertPath, state); err != nil {
			utils.Warn("Could not save alert state: %v", err)
		}
		return
	}

	best := offers[0]
	utils.Info("Lowest price: €%.0f/person (threshold: €%.0f)", best.PricePP, cfg.PriceThresholdPP)
	utils.Info("Nothing below threshold, retrying next check")

	// Weekly heartbeat: Wednesday evening, only when no alert went out in
	// the last 7 days.
	if now.Weekday() == time.Wednesday && now.Hour() >= 21 &&
		now.Sub(state.LastAlert) >= 7*24*time.Hour {
		notifier.SendHeartbeat(best.PricePP, stats.UniqueOffers)
		state.LastAlert = now
		if err := storage.SaveAlertState(cfg.LastAlertPath, state); err != nil {
			utils.Warn("Could not save alert state: %v", err)
		}
	}
}

func persistOffers(cfg *config.Config, runAt time.Time, offers []models.Offer) {
	pg, err := storage.NewPostgresWriter(cfg.Database)
	if err != nil {
		utils.Warn("PostgreSQL sink unavailable: %v", err)
		return
	}
	defer pg.Close()

	if err := pg.EnsureSchema(); err != nil {
		utils.Warn("Could not ensure offers schema: %v", err)
		return
	}
	if err := pg.WriteBatch(runAt, offers); err != nil {
		utils.Warn("Could not persist offers: %v", err)
		return
	}
	utils.Success("Persisted %d offers to PostgreSQL", len(offers))
}

func printTop(offers []models.Offer, adults int) {
	utils.Section("Top 10 flights (by price per person)")
	for i, o := range offers {
		if i >= 10 {
			break
		}
		fmt.Println(notify.FormatOfferText(o, i+1, adults))
	}
	fmt.Println()
}

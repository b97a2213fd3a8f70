package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flight-monitor/config"
	"flight-monitor/models"
)

// PostgresWriter is the optional structured history sink. The flat JSONL log
// remains the primary record; this exists for ad-hoc querying of price
// trends when a database is around.
type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(cfg config.DatabaseConfig) (*PostgresWriter, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		cfg.SSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS offers (
		id BIGSERIAL PRIMARY KEY,
		run_at TIMESTAMPTZ NOT NULL,
		price_total NUMERIC(12,2),
		price_pp NUMERIC(12,2),
		dep_date DATE NOT NULL,
		ret_date DATE NOT NULL,
		dep_airport TEXT,
		dest_airport TEXT,
		origin_code TEXT NOT NULL,
		airline TEXT,
		duration TEXT,
		stops INT,
		ret_airline TEXT,
		ret_duration TEXT,
		ret_stops INT,
		nights INT,
		link TEXT,
		UNIQUE (run_at, dep_date, ret_date, origin_code, airline, price_total)
	);

	CREATE INDEX IF NOT EXISTS idx_offers_price_pp ON offers(price_pp);
	CREATE INDEX IF NOT EXISTS idx_offers_dep_date ON offers(dep_date);
	`

	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (w *PostgresWriter) WriteBatch(runAt time.Time, offers []models.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO offers (
		run_at, price_total, price_pp, dep_date, ret_date,
		dep_airport, dest_airport, origin_code, airline, duration, stops,
		ret_airline, ret_duration, ret_stops, nights, link
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT DO NOTHING;
	`

	for _, o := range offers {
		batch.Queue(
			insertSQL,
			runAt,
			o.PriceTotal,
			o.PricePP,
			o.DepDate,
			o.RetDate,
			o.DepAirport,
			o.DestAirport,
			o.OriginCode,
			o.Airline,
			o.Duration,
			o.Stops,
			o.RetAirline,
			o.RetDuration,
			o.RetStops,
			o.Nights,
			o.Link,
		)
	}

	results := w.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(offers); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}

	return nil
}

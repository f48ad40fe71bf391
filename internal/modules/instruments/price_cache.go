package instruments

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// PriceCache is a sqlite-backed quote cache with TTL semantics. It sits in
// front of the external feeds so repeated recommendations within the TTL do
// not hammer them.
type PriceCache struct {
	db  *sql.DB
	ttl time.Duration
	log zerolog.Logger
}

// NewPriceCache creates the cache and ensures its schema exists.
func NewPriceCache(db *sql.DB, ttl time.Duration, log zerolog.Logger) (*PriceCache, error) {
	c := &PriceCache{
		db:  db,
		ttl: ttl,
		log: log.With().Str("component", "price_cache").Logger(),
	}
	if err := c.createSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *PriceCache) createSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS prices (
			symbol TEXT PRIMARY KEY,
			price REAL NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create prices table: %w", err)
	}
	return nil
}

// Get returns a cached price if it exists and is fresher than the TTL.
func (c *PriceCache) Get(symbol string) (float64, bool) {
	var price float64
	var fetchedAt time.Time

	err := c.db.QueryRow(`SELECT price, fetched_at FROM prices WHERE symbol = ?`, symbol).
		Scan(&price, &fetchedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Price cache read failed")
		}
		return 0, false
	}

	if time.Since(fetchedAt) > c.ttl {
		return 0, false
	}
	return price, true
}

// Put stores a price with the current timestamp.
func (c *PriceCache) Put(symbol string, price float64) {
	_, err := c.db.Exec(`
		INSERT INTO prices (symbol, price, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET price = excluded.price, fetched_at = excluded.fetched_at
	`, symbol, price, time.Now().UTC())
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Price cache write failed")
	}
}

// Sweep deletes entries older than the TTL and returns the number removed.
func (c *PriceCache) Sweep() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM prices WHERE fetched_at < ?`, time.Now().UTC().Add(-c.ttl))
	if err != nil {
		return 0, fmt.Errorf("price cache sweep failed: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// SweepJob periodically clears expired cache rows.
type SweepJob struct {
	cache *PriceCache
	log   zerolog.Logger
}

// NewSweepJob creates the scheduled cache sweep job.
func NewSweepJob(cache *PriceCache, log zerolog.Logger) *SweepJob {
	return &SweepJob{
		cache: cache,
		log:   log.With().Str("job", "price-cache-sweep").Logger(),
	}
}

// Name returns the job name.
func (j *SweepJob) Name() string {
	return "price-cache-sweep"
}

// Run sweeps expired entries.
func (j *SweepJob) Run() error {
	n, err := j.cache.Sweep()
	if err != nil {
		return err
	}
	if n > 0 {
		j.log.Debug().Int64("removed", n).Msg("Swept expired prices")
	}
	return nil
}

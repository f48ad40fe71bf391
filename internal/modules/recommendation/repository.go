package recommendation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository persists generated recommendations for later review.
type Repository struct {
	db *sql.DB
}

// NewRepository creates the history repository and ensures its schema.
func NewRepository(db *sql.DB) (*Repository, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS recommendations (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			model_version TEXT NOT NULL,
			expected_return REAL NOT NULL,
			total_invested REAL NOT NULL,
			request TEXT NOT NULL,
			result TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_recommendations_created_at
			ON recommendations(created_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create recommendations schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// HistoryEntry is one stored recommendation with its original request.
type HistoryEntry struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	ModelVersion   string          `json:"model_version"`
	ExpectedReturn float64         `json:"expected_return"`
	TotalInvested  float64         `json:"total_invested"`
	Request        json.RawMessage `json:"request"`
	Result         json.RawMessage `json:"result"`
}

// Save stores a request/result pair as JSON blobs.
func (r *Repository) Save(req Request, res *Result) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO recommendations (id, created_at, model_version, expected_return, total_invested, request, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		time.Now().Unix(),
		res.ModelVersion,
		res.ExpectedReturn,
		res.TotalInvested,
		string(reqJSON),
		string(resJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (r *Repository) List(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(
		`SELECT id, created_at, model_version, expected_return, total_invested, request, result
		 FROM recommendations
		 ORDER BY created_at DESC, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var (
			entry     HistoryEntry
			createdAt int64
			reqJSON   string
			resJSON   string
		)
		if err := rows.Scan(&entry.ID, &createdAt, &entry.ModelVersion, &entry.ExpectedReturn, &entry.TotalInvested, &reqJSON, &resJSON); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation row: %w", err)
		}
		entry.CreatedAt = time.Unix(createdAt, 0).UTC()
		entry.Request = json.RawMessage(reqJSON)
		entry.Result = json.RawMessage(resJSON)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendation rows: %w", err)
	}

	return entries, nil
}

// Count returns the number of stored recommendations.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM recommendations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recommendations: %w", err)
	}
	return n, nil
}

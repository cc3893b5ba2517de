package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CombatResult is one finished simulated combat.
type CombatResult struct {
	ID        string
	Seed      int64
	Encounter string
	Turns     int
	Victory   bool
	PlayerHP  int
	CreatedAt time.Time
}

// ErrResultNotFound is returned when a result lookup yields no rows.
var ErrResultNotFound = errors.New("combat result not found")

// CombatResultRepository persists simulator outcomes.
type CombatResultRepository struct {
	db *pgxpool.Pool
}

// NewCombatResultRepository creates a repository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCombatResultRepository(db *pgxpool.Pool) *CombatResultRepository {
	return &CombatResultRepository{db: db}
}

// Create inserts a combat result.
//
// Postcondition: Returns the stored result with ID and CreatedAt set.
func (r *CombatResultRepository) Create(ctx context.Context, seed int64, encounter string, turns int, victory bool, playerHP int) (CombatResult, error) {
	var res CombatResult
	err := r.db.QueryRow(ctx,
		`INSERT INTO combat_results (seed, encounter, turns, victory, player_hp)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, seed, encounter, turns, victory, player_hp, created_at`,
		seed, encounter, turns, victory, playerHP,
	).Scan(&res.ID, &res.Seed, &res.Encounter, &res.Turns, &res.Victory, &res.PlayerHP, &res.CreatedAt)
	if err != nil {
		return CombatResult{}, fmt.Errorf("inserting combat result: %w", err)
	}
	return res, nil
}

// Get retrieves a combat result by id.
//
// Postcondition: Returns the result, or ErrResultNotFound when no row
// matches.
func (r *CombatResultRepository) Get(ctx context.Context, id string) (CombatResult, error) {
	var res CombatResult
	err := r.db.QueryRow(ctx,
		`SELECT id, seed, encounter, turns, victory, player_hp, created_at
		 FROM combat_results WHERE id = $1`,
		id,
	).Scan(&res.ID, &res.Seed, &res.Encounter, &res.Turns, &res.Victory, &res.PlayerHP, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CombatResult{}, ErrResultNotFound
		}
		return CombatResult{}, fmt.Errorf("querying combat result: %w", err)
	}
	return res, nil
}

// ListByEncounter returns the most recent results for an encounter, newest
// first, capped at limit.
func (r *CombatResultRepository) ListByEncounter(ctx context.Context, encounter string, limit int) ([]CombatResult, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, seed, encounter, turns, victory, player_hp, created_at
		 FROM combat_results
		 WHERE encounter = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		encounter, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying combat results: %w", err)
	}
	defer rows.Close()

	var out []CombatResult
	for rows.Next() {
		var res CombatResult
		if err := rows.Scan(&res.ID, &res.Seed, &res.Encounter, &res.Turns, &res.Victory, &res.PlayerHP, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning combat result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// WinRate returns the fraction of victories for an encounter, or (0, nil)
// when no results exist.
func (r *CombatResultRepository) WinRate(ctx context.Context, encounter string) (float64, error) {
	var total, wins int
	err := r.db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE victory)
		 FROM combat_results WHERE encounter = $1`,
		encounter,
	).Scan(&total, &wins)
	if err != nil {
		return 0, fmt.Errorf("querying win rate: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(wins) / float64(total), nil
}

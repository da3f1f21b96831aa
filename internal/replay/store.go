package replay

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lanefall/lanefall/internal/game"
	"github.com/lanefall/lanefall/internal/log"
)

// Store persists match journals in SQLite. It implements net.ActionJournal,
// so a hosting server can hang it off a match and every executed payload
// lands in the actions table in order. A journaled match plus its seed and
// squadron numbers is enough to rebuild the full game, event by event.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			squadron0 INTEGER NOT NULL,
			squadron1 INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS actions (
			match_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (match_id, seq),
			FOREIGN KEY (match_id) REFERENCES matches(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches(created_at DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Begin records match metadata. Implements net.ActionJournal.
func (s *Store) Begin(matchID string, seed int64, squadron0, squadron1 int) error {
	_, err := s.db.Exec(
		`INSERT INTO matches (id, seed, squadron0, squadron1) VALUES (?, ?, ?, ?)`,
		matchID, seed, squadron0, squadron1)
	if err != nil {
		return fmt.Errorf("record match %s: %w", matchID, err)
	}
	return nil
}

// Record appends one executed action to the journal. Implements
// net.ActionJournal.
func (s *Store) Record(matchID string, seq int, payload *game.ActionPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO actions (match_id, seq, payload) VALUES (?, ?, ?)`,
		matchID, seq, string(data))
	if err != nil {
		return fmt.Errorf("record action %d for match %s: %w", seq, matchID, err)
	}
	return nil
}

// MatchInfo summarizes one journaled match.
type MatchInfo struct {
	ID        string
	Seed      int64
	Squadron0 int
	Squadron1 int
	CreatedAt time.Time
	Actions   int
}

// Matches lists journaled matches, newest first.
func (s *Store) Matches(ctx context.Context) ([]MatchInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.seed, m.squadron0, m.squadron1, m.created_at,
		       (SELECT COUNT(*) FROM actions a WHERE a.match_id = m.id)
		FROM matches m
		ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchInfo
	for rows.Next() {
		var mi MatchInfo
		if err := rows.Scan(&mi.ID, &mi.Seed, &mi.Squadron0, &mi.Squadron1, &mi.CreatedAt, &mi.Actions); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		out = append(out, mi)
	}
	return out, rows.Err()
}

// Match looks up one journaled match by id.
func (s *Store) Match(ctx context.Context, matchID string) (*MatchInfo, error) {
	var mi MatchInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seed, squadron0, squadron1, created_at FROM matches WHERE id = ?`,
		matchID).Scan(&mi.ID, &mi.Seed, &mi.Squadron0, &mi.Squadron1, &mi.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s not found", matchID)
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", matchID, err)
	}
	return &mi, nil
}

// Actions loads a match's journaled payloads in execution order.
func (s *Store) Actions(ctx context.Context, matchID string) ([]*game.ActionPayload, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM actions WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, fmt.Errorf("load actions for %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []*game.ActionPayload
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}
		var p game.ActionPayload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("unmarshal action payload: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Replay rebuilds a journaled match from scratch: same squadrons, same seed,
// same payload stream through the same entry point the live match used. The
// returned logger holds the full regenerated event history.
func (s *Store) Replay(ctx context.Context, matchID, squadronFile string) (*game.MatchState, *log.MemoryLogger, error) {
	info, err := s.Match(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	payloads, err := s.Actions(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	_, cards0, err := game.SquadronByNumber(squadronFile, info.Squadron0)
	if err != nil {
		return nil, nil, fmt.Errorf("load squadron %d: %w", info.Squadron0, err)
	}
	_, cards1, err := game.SquadronByNumber(squadronFile, info.Squadron1)
	if err != nil {
		return nil, nil, fmt.Errorf("load squadron %d: %w", info.Squadron1, err)
	}

	logger := log.NewMemoryLogger()
	m := game.NewMatch(game.MatchConfig{
		Squadron0: cards0,
		Squadron1: cards1,
		Logger:    logger,
		Seed:      info.Seed,
	}, nullController{}, nullController{})
	if err := m.Setup(); err != nil {
		return nil, nil, fmt.Errorf("replay setup: %w", err)
	}
	for i, p := range payloads {
		if err := m.ExecuteAction(p); err != nil {
			return nil, nil, fmt.Errorf("replay action %d: %w", i+1, err)
		}
	}
	return m.State, logger, nil
}

// nullController satisfies game.PlayerController for replays, where every
// decision comes from the journal and nothing prompts.
type nullController struct{}

func (nullController) ChooseAction(ctx context.Context, m *game.Match, actions []game.ActionOption) (*game.ActionPayload, error) {
	return nil, fmt.Errorf("replay controller cannot choose actions")
}

func (nullController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

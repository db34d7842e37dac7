package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/lib/pq"
)

var ErrArchiveDuplicate = errors.New("record already archived")

// ResultArchiveRepository is an append-only log of finished matches, final
// group tables and champions. Nothing is ever read back into live state.
type ResultArchiveRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveMatchResult(ctx context.Context, exec SQLExecutor, rec *models.MatchRecord) error
	SaveStandings(ctx context.Context, tournamentID int, group string, table []models.StandingsEntry) error
	SaveChampion(ctx context.Context, exec SQLExecutor, tournamentID int, tournamentName string, champion models.Entrant) error
}

const runIDLength = 8 // байт, 16 символов в hex

// NewRunID returns a random id for one process lifetime. Tournament ids
// restart at 1 with every process, so archived rows are keyed by
// (run_id, tournament_id).
func NewRunID() (string, error) {
	b := make([]byte, runIDLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate archive run id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

type postgresResultArchiveRepository struct {
	db    *sql.DB
	runID string
}

func NewPostgresResultArchiveRepository(db *sql.DB, runID string) ResultArchiveRepository {
	return &postgresResultArchiveRepository{db: db, runID: runID}
}

func (r *postgresResultArchiveRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS archived_matches (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT        NOT NULL,
	tournament_id INTEGER     NOT NULL,
	stage         TEXT        NOT NULL,
	group_name    TEXT        NOT NULL DEFAULT '',
	round_index   INTEGER     NOT NULL DEFAULT 0,
	match_index   INTEGER     NOT NULL DEFAULT 0,
	side_a        TEXT        NOT NULL,
	side_b        TEXT        NOT NULL,
	points_a      INTEGER[]   NOT NULL,
	points_b      INTEGER[]   NOT NULL,
	winner        TEXT        NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL,
	UNIQUE (run_id, tournament_id, stage, group_name, round_index, match_index, side_a, side_b)
);
CREATE TABLE IF NOT EXISTS archived_standings (
	run_id        TEXT    NOT NULL,
	tournament_id INTEGER NOT NULL,
	group_name    TEXT    NOT NULL,
	rank          INTEGER NOT NULL,
	entrant       TEXT    NOT NULL,
	seed          INTEGER NOT NULL,
	points        INTEGER NOT NULL,
	wins          INTEGER NOT NULL,
	losses        INTEGER NOT NULL,
	PRIMARY KEY (run_id, tournament_id, group_name, rank)
);
CREATE TABLE IF NOT EXISTS archived_champions (
	run_id          TEXT        NOT NULL,
	tournament_id   INTEGER     NOT NULL,
	tournament_name TEXT        NOT NULL,
	champion        TEXT        NOT NULL,
	seed            INTEGER     NOT NULL,
	decided_at      TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, tournament_id)
);`

func (r *postgresResultArchiveRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, archiveSchema); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

func (r *postgresResultArchiveRepository) SaveMatchResult(ctx context.Context, exec SQLExecutor, rec *models.MatchRecord) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO archived_matches
			(run_id, tournament_id, stage, group_name, round_index, match_index,
			 side_a, side_b, points_a, points_b, winner, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	pointsA := make([]int64, len(rec.Outcome.Sets))
	pointsB := make([]int64, len(rec.Outcome.Sets))
	for i, s := range rec.Outcome.Sets {
		pointsA[i] = int64(s.A)
		pointsB[i] = int64(s.B)
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}

	_, err := executor.ExecContext(ctx, query,
		r.runID, rec.TournamentID, rec.Stage, rec.Group, rec.Round, rec.Index,
		rec.Outcome.SideA.Name, rec.Outcome.SideB.Name,
		pq.Array(pointsA), pq.Array(pointsB),
		rec.Outcome.Winner().Name, rec.RecordedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrArchiveDuplicate
		}
		return fmt.Errorf("failed to archive %s match for tournament %d: %w", rec.Stage, rec.TournamentID, err)
	}
	return nil
}

// SaveStandings writes a final group table in one transaction.
func (r *postgresResultArchiveRepository) SaveStandings(ctx context.Context, tournamentID int, group string, table []models.StandingsEntry) (err error) {
	if len(table) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SaveStandings failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	query := `
		INSERT INTO archived_standings
			(run_id, tournament_id, group_name, rank, entrant, seed, points, wins, losses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, row := range table {
		_, err = tx.ExecContext(ctx, query,
			r.runID, tournamentID, group, row.Rank, row.Entrant.Name, row.Entrant.Seed,
			row.Points, row.Wins, row.Losses,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrArchiveDuplicate
			}
			return fmt.Errorf("failed to archive standings of group %s: %w", group, err)
		}
	}
	return nil
}

func (r *postgresResultArchiveRepository) SaveChampion(ctx context.Context, exec SQLExecutor, tournamentID int, tournamentName string, champion models.Entrant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO archived_champions (run_id, tournament_id, tournament_name, champion, seed, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := executor.ExecContext(ctx, query, r.runID, tournamentID, tournamentName, champion.Name, champion.Seed, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrArchiveDuplicate
		}
		return fmt.Errorf("failed to archive champion of tournament %d: %w", tournamentID, err)
	}
	return nil
}

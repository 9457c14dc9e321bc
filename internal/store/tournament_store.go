package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/bracket-app/internal/bracket"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const (
	insertTournamentQuery = `
		INSERT INTO tournaments (id, creator_id, name, status, version, document, created_at, updated_at)
		VALUES (:id, :creator_id, :name, :status, :version, :document, :created_at, :updated_at)
	`
	getTournamentQuery    = "SELECT * FROM tournaments WHERE id = ?"
	updateTournamentQuery = `
		UPDATE tournaments SET
		name = ?,
		status = ?,
		version = version + 1,
		document = ?,
		updated_at = ?
		WHERE id = ? AND version = ?
	`
	tournamentExistsQuery = "SELECT COUNT(1) FROM tournaments WHERE id = ?"
	deleteTournamentQuery = "DELETE FROM tournaments WHERE id = ?"
	listByCreatorQuery    = `
		SELECT * FROM tournaments
		WHERE creator_id = ?
		ORDER BY created_at DESC, id ASC
		LIMIT ? OFFSET ?
	`
)

// tournamentRow is the stored shape: the aggregate is kept whole in document,
// the other columns exist for lookups and the version check.
type tournamentRow struct {
	ID        string    `db:"id"`
	CreatorID string    `db:"creator_id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	Version   int       `db:"version"`
	Document  string    `db:"document"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type SQLTournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *SQLTournamentStore {
	return &SQLTournamentStore{db: db}
}

func (s *SQLTournamentStore) Create(ctx context.Context, t *bracket.Tournament) error {
	now := time.Now().UTC()
	t.Version = 1
	t.CreatedAt = now
	t.UpdatedAt = now

	row, err := toRow(t)
	if err != nil {
		return err
	}

	if _, err := s.db.NamedExecContext(ctx, insertTournamentQuery, row); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("tournament %s: %w", t.ID, bracket.ErrAlreadyExists)
		}
		return unavailable(err)
	}
	return nil
}

func (s *SQLTournamentStore) Get(ctx context.Context, id string) (*bracket.Tournament, error) {
	var row tournamentRow
	if err := s.db.GetContext(ctx, &row, getTournamentQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bracket.ErrNotFound
		}
		return nil, unavailable(err)
	}
	return fromRow(&row)
}

// Save writes t if the stored version still equals t.Version, then bumps
// t.Version to match the stored one.
func (s *SQLTournamentStore) Save(ctx context.Context, t *bracket.Tournament) error {
	t.UpdatedAt = time.Now().UTC()
	doc, err := encodeDocument(t, t.Version+1)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, updateTournamentQuery,
		t.Name, string(t.Status), doc, t.UpdatedAt, t.ID, t.Version)
	if err != nil {
		return unavailable(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		var count int
		if err := s.db.GetContext(ctx, &count, tournamentExistsQuery, t.ID); err != nil {
			return unavailable(err)
		}
		if count == 0 {
			return bracket.ErrNotFound
		}
		return bracket.ErrVersionConflict
	}

	t.Version++
	return nil
}

func (s *SQLTournamentStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, deleteTournamentQuery, id)
	if err != nil {
		return unavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		return bracket.ErrNotFound
	}
	return nil
}

func (s *SQLTournamentStore) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]bracket.Tournament, error) {
	var rows []tournamentRow
	if err := s.db.SelectContext(ctx, &rows, listByCreatorQuery, creatorID, limit, offset); err != nil {
		return nil, unavailable(err)
	}

	tournaments := make([]bracket.Tournament, 0, len(rows))
	for i := range rows {
		t, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, nil
}

func toRow(t *bracket.Tournament) (*tournamentRow, error) {
	doc, err := encodeDocument(t, t.Version)
	if err != nil {
		return nil, err
	}
	return &tournamentRow{
		ID:        t.ID,
		CreatorID: t.CreatorID,
		Name:      t.Name,
		Status:    string(t.Status),
		Version:   t.Version,
		Document:  doc,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}, nil
}

func fromRow(row *tournamentRow) (*bracket.Tournament, error) {
	var t bracket.Tournament
	if err := json.Unmarshal([]byte(row.Document), &t); err != nil {
		return nil, fmt.Errorf("failed to decode tournament %s: %w", row.ID, err)
	}
	// The column is authoritative for the version
	t.Version = row.Version
	return &t, nil
}

func encodeDocument(t *bracket.Tournament, version int) (string, error) {
	doc := *t
	doc.Version = version
	data, err := json.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode tournament %s: %w", t.ID, err)
	}
	return string(data), nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", bracket.ErrStoreUnavailable, err)
}

package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentConflict = errors.New("tournament already exists")
	// ErrVersionConflict means another writer stored a newer bracket since
	// the caller read it.
	ErrVersionConflict = errors.New("bracket version conflict")
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	// UpdateBracket stores doc and status if the stored version still equals
	// expectedVersion, and returns the new version.
	UpdateBracket(ctx context.Context, id string, doc *models.BracketDocument, status models.TournamentStatus, expectedVersion int64) (int64, error)
}

type postgresTournamentRepository struct {
	db SQLExecutor
}

func NewPostgresTournamentRepository(db SQLExecutor) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, format, min_participants, settings, status, bracket, version, created_at, updated_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	settings, err := json.Marshal(t.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode tournament settings: %w", err)
	}
	bracket, err := encodeBracket(t.Bracket)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tournaments (id, name, format, min_participants, settings, status, bracket, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Format, t.MinParticipants, string(settings), t.Status, bracket, t.Version,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateBracket(ctx context.Context, id string, doc *models.BracketDocument, status models.TournamentStatus, expectedVersion int64) (int64, error) {
	bracket, err := encodeBracket(doc)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE tournaments
		SET bracket = $1, status = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5
		RETURNING version`

	var version int64
	err = r.db.QueryRowContext(ctx, query, bracket, status, time.Now().UTC(), id, expectedVersion).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, r.handleTournamentError(err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tournaments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check tournament %s: %w", id, err)
	}
	if !exists {
		return 0, ErrTournamentNotFound
	}
	return 0, ErrVersionConflict
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var (
		t        models.Tournament
		settings []byte
		bracket  []byte
	)
	if err := row.Scan(
		&t.ID, &t.Name, &t.Format, &t.MinParticipants, &settings, &t.Status,
		&bracket, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s, err := models.ParseFormatSettings(settings)
	if err != nil {
		return nil, err
	}
	t.Settings = s

	if len(bracket) > 0 {
		var doc models.BracketDocument
		if err := json.Unmarshal(bracket, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode bracket of tournament %s: %w", t.ID, err)
		}
		t.Bracket = &doc
	}
	return &t, nil
}

// encodeBracket returns an untyped nil for a missing document so the column
// is written as NULL.
func encodeBracket(doc *models.BracketDocument) (interface{}, error) {
	if doc == nil {
		return nil, nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket: %w", err)
	}
	return string(raw), nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrTournamentConflict
		case "23514":
			return fmt.Errorf("tournament rejected by constraint %s: %w", pqErr.Constraint, err)
		}
	}
	return err
}

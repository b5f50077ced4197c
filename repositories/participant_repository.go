package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantConflict = errors.New("participant already registered for this tournament")
)

// ParticipantRepository keeps tournament rosters. Registration order is the
// seed order handed to bracket generation.
type ParticipantRepository interface {
	Add(ctx context.Context, tournamentID string, p models.Participant, status models.ParticipantStatus) (*models.Registration, error)
	UpdateStatus(ctx context.Context, tournamentID, participantID string, status models.ParticipantStatus) error
	ListByTournament(ctx context.Context, tournamentID string, statusFilter *models.ParticipantStatus) ([]models.Registration, error)
}

type postgresParticipantRepository struct {
	db SQLExecutor
}

func NewPostgresParticipantRepository(db SQLExecutor) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Add(ctx context.Context, tournamentID string, p models.Participant, status models.ParticipantStatus) (*models.Registration, error) {
	query := `
		INSERT INTO tournament_participants (tournament_id, participant_id, display_name, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	reg := &models.Registration{
		TournamentID: tournamentID,
		Participant:  p,
		Status:       status,
	}
	err := r.db.QueryRowContext(ctx, query, tournamentID, p.ID, p.DisplayName, status).Scan(&reg.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				return nil, ErrParticipantConflict
			case "23503": // foreign_key_violation
				return nil, ErrTournamentNotFound
			}
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	return reg, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, tournamentID, participantID string, status models.ParticipantStatus) error {
	query := `UPDATE tournament_participants SET status = $1 WHERE tournament_id = $2 AND participant_id = $3`
	result, err := r.db.ExecContext(ctx, query, status, tournamentID, participantID)
	if err != nil {
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID string, statusFilter *models.ParticipantStatus) ([]models.Registration, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT tournament_id, participant_id, display_name, status, created_at
		FROM tournament_participants
		WHERE tournament_id = $1`)
	args := []interface{}{tournamentID}

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $2")
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(" ORDER BY position ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(
			&reg.TournamentID,
			&reg.Participant.ID,
			&reg.Participant.DisplayName,
			&reg.Status,
			&reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		registrations = append(registrations, reg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return registrations, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/metrics"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxWriteRetries = 3
	fanOutTimeout          = 15 * time.Second
)

// Publisher delivers bracket events to live watchers. *brackets.Hub
// implements it.
type Publisher interface {
	Publish(ctx context.Context, tournamentID, eventType string, payload interface{}) error
}

type Config struct {
	// AutoAdvanceByes resolves byes right after generation and after every
	// result instead of waiting for an explicit request.
	AutoAdvanceByes bool
	// MaxWriteRetries bounds how often a write is retried after losing the
	// version race.
	MaxWriteRetries int
}

type CreateTournamentInput struct {
	Name            string                 `json:"name"`
	Format          models.FormatKind      `json:"format"`
	MinParticipants int                    `json:"min_participants"`
	Settings        *models.FormatSettings `json:"settings,omitempty"`
}

// BracketUpdatePayload is what watchers receive after every bracket write.
type BracketUpdatePayload struct {
	TournamentID string                  `json:"tournament_id"`
	Version      int64                   `json:"version"`
	Bracket      *models.BracketDocument `json:"bracket"`
}

type BracketService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	ListTournaments(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]models.Tournament, error)
	GetTournament(ctx context.Context, tournamentID string) (*models.Tournament, error)

	RegisterParticipant(ctx context.Context, tournamentID string, participant models.Participant) (*models.Registration, error)
	SetParticipantStatus(ctx context.Context, tournamentID, participantID string, status models.ParticipantStatus) error
	ConfirmParticipant(ctx context.Context, tournamentID, participantID string) error

	GenerateBracket(ctx context.Context, tournamentID string) (*models.Tournament, error)
	GetBracket(ctx context.Context, tournamentID string) (*models.BracketDocument, error)
	ReportResult(ctx context.Context, tournamentID string, ref models.MatchRef, winnerID string) (*models.Tournament, error)
	AdvanceBye(ctx context.Context, tournamentID string, ref models.MatchRef) (*models.Tournament, error)
	CurrentMatches(ctx context.Context, tournamentID string) ([]brackets.PendingMatch, error)
	Standings(ctx context.Context, tournamentID string) ([]models.TournamentParticipant, error)
}

type bracketService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	publisher       Publisher
	archive         storage.BracketArchive
	metrics         *metrics.Metrics
	logger          *slog.Logger
	cfg             Config
	bracketOpts     []brackets.Option
	locks           *tournamentLocks
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	publisher Publisher,
	archive storage.BracketArchive,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
	bracketOpts ...brackets.Option,
) BracketService {
	if archive == nil {
		archive = storage.NopArchive{}
	}
	if cfg.MaxWriteRetries < 0 {
		cfg.MaxWriteRetries = 0
	}
	return &bracketService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		publisher:       publisher,
		archive:         archive,
		metrics:         m,
		logger:          logger,
		cfg:             cfg,
		bracketOpts:     bracketOpts,
		locks:           newTournamentLocks(),
	}
}

func (s *bracketService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if !input.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown tournament format %q", ErrValidationFailed, input.Format)
	}
	minParticipants := input.MinParticipants
	if minParticipants == 0 {
		minParticipants = 2
	}
	if minParticipants < 2 {
		return nil, fmt.Errorf("%w: min_participants must be at least 2", ErrValidationFailed)
	}
	settings := models.DefaultFormatSettings()
	if input.Settings != nil {
		settings = input.Settings.Normalize()
	}

	t := &models.Tournament{
		ID:              uuid.NewString(),
		Name:            name,
		Format:          input.Format,
		MinParticipants: minParticipants,
		Settings:        settings,
		Status:          models.StatusRegistration,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	s.logger.InfoContext(ctx, "tournament created",
		slog.String("tournament_id", t.ID),
		slog.String("format", string(t.Format)))
	return t, nil
}

func (s *bracketService) ListTournaments(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

// GetTournament loads the tournament and its roster in parallel.
func (s *bracketService) GetTournament(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	var (
		tournament    *models.Tournament
		registrations []models.Registration
	)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.load(gCtx, tournamentID)
		if err != nil {
			return err
		}
		tournament = t
		return nil
	})

	g.Go(func() error {
		regs, err := s.participantRepo.ListByTournament(gCtx, tournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to list participants of tournament %s: %w", tournamentID, err)
		}
		registrations = regs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	tournament.Registrations = registrations
	return tournament, nil
}

func (s *bracketService) RegisterParticipant(ctx context.Context, tournamentID string, participant models.Participant) (*models.Registration, error) {
	participant.ID = strings.TrimSpace(participant.ID)
	if participant.ID == "" {
		return nil, fmt.Errorf("%w: participant id is required", ErrValidationFailed)
	}
	if strings.TrimSpace(participant.DisplayName) == "" {
		participant.DisplayName = participant.ID
	}

	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != models.StatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	reg, err := s.participantRepo.Add(ctx, tournamentID, participant, models.ParticipantStatusPending)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to register participant: %w", err)
	}
	return reg, nil
}

// SetParticipantStatus records the confirmation (or withdrawal) signal for a
// registration. Only confirmed participants are seeded into the bracket.
func (s *bracketService) SetParticipantStatus(ctx context.Context, tournamentID, participantID string, status models.ParticipantStatus) error {
	switch status {
	case models.ParticipantStatusPending, models.ParticipantStatusConfirmed, models.ParticipantStatusWithdrawn:
	default:
		return fmt.Errorf("%w: unknown participant status %q", ErrValidationFailed, status)
	}

	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return err
	}
	if t.Status != models.StatusRegistration {
		return ErrRegistrationNotOpen
	}

	if err := s.participantRepo.UpdateStatus(ctx, tournamentID, participantID, status); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	return nil
}

func (s *bracketService) ConfirmParticipant(ctx context.Context, tournamentID, participantID string) error {
	return s.SetParticipantStatus(ctx, tournamentID, participantID, models.ParticipantStatusConfirmed)
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	var byes int
	t, err := s.mutate(ctx, tournamentID, func(t *models.Tournament) (*models.BracketDocument, error) {
		byes = 0
		if t.Bracket != nil || t.Status != models.StatusRegistration {
			return nil, ErrBracketAlreadyGenerated
		}

		confirmed := models.ParticipantStatusConfirmed
		regs, err := s.participantRepo.ListByTournament(ctx, t.ID, &confirmed)
		if err != nil {
			return nil, fmt.Errorf("failed to list confirmed participants of tournament %s: %w", t.ID, err)
		}
		participants := make([]models.Participant, len(regs))
		for i, reg := range regs {
			participants[i] = reg.Participant
		}

		doc, err := brackets.GenerateBracketData(t.Format, participants, t.MinParticipants, t.Settings, s.bracketOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to generate bracket for tournament %s: %w", t.ID, err)
		}
		if s.cfg.AutoAdvanceByes {
			doc, byes, err = brackets.ResolveByes(doc)
			if err != nil {
				return nil, fmt.Errorf("failed to advance byes for tournament %s: %w", t.ID, err)
			}
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BracketGenerated(string(t.Format))
	s.metrics.ByesAdvanced(string(t.Format), byes)
	s.logger.InfoContext(ctx, "bracket generated",
		slog.String("tournament_id", t.ID),
		slog.String("format", string(t.Format)),
		slog.Int("participants", len(t.Bracket.Participants)),
		slog.Int("total_rounds", t.Bracket.TotalRounds),
		slog.Int("byes_advanced", byes))
	s.afterWrite(ctx, t, brackets.EventBracketGenerated)
	return t, nil
}

func (s *bracketService) ReportResult(ctx context.Context, tournamentID string, ref models.MatchRef, winnerID string) (*models.Tournament, error) {
	var byes int
	t, err := s.mutate(ctx, tournamentID, func(t *models.Tournament) (*models.BracketDocument, error) {
		byes = 0
		if t.Bracket == nil {
			return nil, ErrBracketNotGenerated
		}
		doc, err := brackets.HandleMatchCompletion(t.Bracket, ref, winnerID, t.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to complete match %s: %w", ref.MatchID, err)
		}
		if s.cfg.AutoAdvanceByes {
			doc, byes, err = brackets.ResolveByes(doc)
			if err != nil {
				return nil, fmt.Errorf("failed to advance byes for tournament %s: %w", t.ID, err)
			}
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.MatchCompleted(string(t.Format))
	s.metrics.ByesAdvanced(string(t.Format), byes)
	s.logger.InfoContext(ctx, "match result recorded",
		slog.String("tournament_id", t.ID),
		slog.String("match_id", ref.MatchID),
		slog.String("winner_id", winnerID),
		slog.Int64("version", t.Version))
	s.afterWrite(ctx, t, brackets.EventBracketUpdated)
	return t, nil
}

func (s *bracketService) AdvanceBye(ctx context.Context, tournamentID string, ref models.MatchRef) (*models.Tournament, error) {
	t, err := s.mutate(ctx, tournamentID, func(t *models.Tournament) (*models.BracketDocument, error) {
		if t.Bracket == nil {
			return nil, ErrBracketNotGenerated
		}
		doc, err := brackets.AdvanceBye(t.Bracket, ref, t.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to advance bye %s: %w", ref.MatchID, err)
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ByesAdvanced(string(t.Format), 1)
	s.afterWrite(ctx, t, brackets.EventBracketUpdated)
	return t, nil
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID string) (*models.BracketDocument, error) {
	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Bracket == nil {
		return nil, ErrBracketNotGenerated
	}
	return t.Bracket, nil
}

func (s *bracketService) CurrentMatches(ctx context.Context, tournamentID string) ([]brackets.PendingMatch, error) {
	doc, err := s.GetBracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.CurrentMatches(doc)
}

func (s *bracketService) Standings(ctx context.Context, tournamentID string) ([]models.TournamentParticipant, error) {
	doc, err := s.GetBracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.Standings(doc), nil
}

func (s *bracketService) load(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}
	return t, nil
}

// mutate serializes writers of one tournament inside this process and retries
// the read-modify-write when another process wins the version check. apply
// gets a fresh copy of the tournament on every attempt and must not keep
// state across attempts.
func (s *bracketService) mutate(ctx context.Context, tournamentID string, apply func(t *models.Tournament) (*models.BracketDocument, error)) (*models.Tournament, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	for attempt := 0; attempt <= s.cfg.MaxWriteRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := s.load(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		doc, err := apply(t)
		if err != nil {
			return nil, err
		}

		status := models.StatusActive
		if doc.TournamentComplete {
			status = models.StatusCompleted
		}
		version, err := s.tournamentRepo.UpdateBracket(ctx, tournamentID, doc, status, t.Version)
		if errors.Is(err, repositories.ErrVersionConflict) {
			s.metrics.VersionConflict()
			s.logger.WarnContext(ctx, "bracket version conflict, retrying",
				slog.String("tournament_id", tournamentID),
				slog.Int64("expected_version", t.Version),
				slog.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil, ErrTournamentNotFound
			}
			return nil, fmt.Errorf("failed to save bracket of tournament %s: %w", tournamentID, err)
		}

		t.Bracket = doc
		t.Status = status
		t.Version = version
		return t, nil
	}
	return nil, ErrConcurrentUpdate
}

// afterWrite publishes the new state and, once a winner is known, archives
// the final document. Both run in parallel; failures are logged only because
// the write itself already succeeded.
func (s *bracketService) afterWrite(ctx context.Context, t *models.Tournament, event string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fanOutTimeout)
	defer cancel()

	completed := t.Bracket.TournamentComplete
	if completed {
		s.metrics.TournamentCompleted(string(t.Format))
		s.logger.InfoContext(ctx, "tournament completed",
			slog.String("tournament_id", t.ID),
			slog.String("winner_id", t.Bracket.Winner.ID))
	}

	var g errgroup.Group

	if s.publisher != nil {
		g.Go(func() error {
			payload := BracketUpdatePayload{TournamentID: t.ID, Version: t.Version, Bracket: t.Bracket}
			if err := s.publisher.Publish(ctx, t.ID, event, payload); err != nil {
				return fmt.Errorf("publish %s: %w", event, err)
			}
			if completed {
				if err := s.publisher.Publish(ctx, t.ID, brackets.EventTournamentComplete, payload); err != nil {
					return fmt.Errorf("publish %s: %w", brackets.EventTournamentComplete, err)
				}
			}
			return nil
		})
	}

	if completed {
		g.Go(func() error {
			res, err := s.archive.Archive(ctx, t.ID, t.Bracket)
			if err != nil {
				s.logger.ErrorContext(ctx, "failed to archive final bracket",
					slog.String("tournament_id", t.ID),
					slog.Any("error", err))
				return nil
			}
			s.logger.InfoContext(ctx, "final bracket archived",
				slog.String("tournament_id", t.ID),
				slog.String("key", res.Key))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "failed to publish bracket update",
			slog.String("tournament_id", t.ID),
			slog.Any("error", err))
	}
}

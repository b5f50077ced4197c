package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, eventType string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type recordingArchive struct {
	mu  sync.Mutex
	ids []string
}

func (a *recordingArchive) Archive(_ context.Context, tournamentID string, _ *models.BracketDocument) (*storage.ArchiveResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = append(a.ids, tournamentID)
	return &storage.ArchiveResult{Key: storage.ArchiveKey(tournamentID)}, nil
}

// conflictingRepo loses the version race a fixed number of times.
type conflictingRepo struct {
	repositories.TournamentRepository
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (r *conflictingRepo) UpdateBracket(ctx context.Context, id string, doc *models.BracketDocument, status models.TournamentStatus, expectedVersion int64) (int64, error) {
	r.mu.Lock()
	r.calls++
	if r.conflicts > 0 {
		r.conflicts--
		r.mu.Unlock()
		return 0, repositories.ErrVersionConflict
	}
	r.mu.Unlock()
	return r.TournamentRepository.UpdateBracket(ctx, id, doc, status, expectedVersion)
}

type fixture struct {
	svc       BracketService
	store     *repositories.MemoryStore
	publisher *recordingPublisher
	archive   *recordingArchive
}

func newFixture(t *testing.T, cfg Config, tournaments func(repositories.TournamentRepository) repositories.TournamentRepository) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	repo := store.Tournaments()
	if tournaments != nil {
		repo = tournaments(repo)
	}
	f := &fixture{
		store:     store,
		publisher: &recordingPublisher{},
		archive:   &recordingArchive{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewBracketService(repo, store.Participants(), f.publisher, f.archive, nil, logger, cfg)
	return f
}

// openTournament creates a tournament and confirms the given participants in
// order.
func (f *fixture) openTournament(t *testing.T, format models.FormatKind, ids ...string) *models.Tournament {
	t.Helper()
	ctx := context.Background()
	tournament, err := f.svc.CreateTournament(ctx, CreateTournamentInput{Name: "Spring Open", Format: format})
	require.NoError(t, err)
	for _, id := range ids {
		_, err := f.svc.RegisterParticipant(ctx, tournament.ID, models.Participant{ID: id})
		require.NoError(t, err)
		require.NoError(t, f.svc.ConfirmParticipant(ctx, tournament.ID, id))
	}
	return tournament
}

func TestBracketService_SingleEliminationLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{MaxWriteRetries: DefaultMaxWriteRetries}, nil)
	tournament := f.openTournament(t, models.FormatSingleElimination, "A", "B", "C", "D")

	_, err := f.svc.RegisterParticipant(ctx, tournament.ID, models.Participant{ID: "late", DisplayName: "Late Entry"})
	require.NoError(t, err)

	generated, err := f.svc.GenerateBracket(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, generated.Status)
	assert.Equal(t, int64(1), generated.Version)
	require.Len(t, generated.Bracket.Participants, 4, "unconfirmed registrations are not seeded")
	assert.Equal(t, "A", generated.Bracket.Participants[0].ID)
	assert.Equal(t, "A", generated.Bracket.Participants[0].DisplayName)

	_, err = f.svc.RegisterParticipant(ctx, tournament.ID, models.Participant{ID: "E"})
	require.ErrorIs(t, err, ErrRegistrationNotOpen)
	_, err = f.svc.GenerateBracket(ctx, tournament.ID)
	require.ErrorIs(t, err, ErrBracketAlreadyGenerated)

	_, err = f.svc.ReportResult(ctx, tournament.ID, models.MatchRef{MatchID: "R1M1", RoundNumber: 1}, "A")
	require.NoError(t, err)
	_, err = f.svc.ReportResult(ctx, tournament.ID, models.MatchRef{MatchID: "R1M2", RoundNumber: 1}, "D")
	require.NoError(t, err)

	pending, err := f.svc.CurrentMatches(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "R2M1", pending[0].Match.MatchID)

	final, err := f.svc.ReportResult(ctx, tournament.ID, models.MatchRef{MatchID: "R2M1"}, "D")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, final.Status)
	assert.Equal(t, int64(4), final.Version)
	require.NotNil(t, final.Bracket.Winner)
	assert.Equal(t, "D", final.Bracket.Winner.ID)

	standings, err := f.svc.Standings(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, "D", standings[0].ID)

	assert.Equal(t, []string{tournament.ID}, f.archive.ids)
	assert.Equal(t, []string{
		brackets.EventBracketGenerated,
		brackets.EventBracketUpdated,
		brackets.EventBracketUpdated,
		brackets.EventBracketUpdated,
		brackets.EventTournamentComplete,
	}, f.publisher.Events())

	_, err = f.svc.ReportResult(ctx, tournament.ID, models.MatchRef{MatchID: "R2M1"}, "D")
	require.ErrorIs(t, err, brackets.ErrTournamentComplete)

	full, err := f.svc.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, full.Registrations, 5)
	assert.Equal(t, models.StatusCompleted, full.Status)
}

func TestBracketService_AutoAdvanceByes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{AutoAdvanceByes: true, MaxWriteRetries: 1}, nil)
	tournament := f.openTournament(t, models.FormatSingleElimination, "P1", "P2", "P3")

	generated, err := f.svc.GenerateBracket(ctx, tournament.ID)
	require.NoError(t, err)

	bye := generated.Bracket.Rounds[0].Matches[1]
	assert.True(t, bye.Bye)
	final := generated.Bracket.Rounds[1].Matches[0]
	require.NotNil(t, final.Player1)
	assert.Equal(t, "P3", final.Player1.ID)

	_, err = f.svc.AdvanceBye(ctx, tournament.ID, models.MatchRef{MatchID: "R1M2"})
	require.ErrorIs(t, err, brackets.ErrMatchAlreadyCompleted)
}

func TestBracketService_ManualBye(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{}, nil)
	tournament := f.openTournament(t, models.FormatSingleElimination, "P1", "P2", "P3")

	_, err := f.svc.GenerateBracket(ctx, tournament.ID)
	require.NoError(t, err)

	pending, err := f.svc.CurrentMatches(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.True(t, pending[1].Bye)

	updated, err := f.svc.AdvanceBye(ctx, tournament.ID, models.MatchRef{MatchID: "R1M2"})
	require.NoError(t, err)
	assert.Equal(t, "P3", updated.Bracket.Rounds[1].Matches[0].Player1.ID)

	_, err = f.svc.AdvanceBye(ctx, tournament.ID, models.MatchRef{MatchID: "R1M1"})
	require.ErrorIs(t, err, brackets.ErrNotBye)
}

func TestBracketService_GenerateNeedsEnoughConfirmed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{}, nil)
	tournament := f.openTournament(t, models.FormatRoundRobin, "solo")

	_, err := f.svc.GenerateBracket(ctx, tournament.ID)
	require.ErrorIs(t, err, brackets.ErrValidation)

	stored, err := f.svc.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRegistration, stored.Status)
	assert.Nil(t, stored.Bracket)
}

func TestBracketService_RetriesVersionConflicts(t *testing.T) {
	ctx := context.Background()
	var repo *conflictingRepo
	f := newFixture(t, Config{MaxWriteRetries: 2}, func(inner repositories.TournamentRepository) repositories.TournamentRepository {
		repo = &conflictingRepo{TournamentRepository: inner, conflicts: 2}
		return repo
	})
	tournament := f.openTournament(t, models.FormatSwiss, "A", "B", "C", "D")

	generated, err := f.svc.GenerateBracket(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), generated.Version)
	assert.Equal(t, 3, repo.calls)

	repo.mu.Lock()
	repo.conflicts = 3
	repo.mu.Unlock()
	first := generated.Bracket.Rounds[0].Matches[0]
	_, err = f.svc.ReportResult(ctx, tournament.ID, models.MatchRef{MatchID: first.MatchID}, first.Player1.ID)
	require.ErrorIs(t, err, ErrConcurrentUpdate)

	doc, err := f.svc.GetBracket(ctx, tournament.ID)
	require.NoError(t, err)
	assert.False(t, doc.Rounds[0].Matches[0].IsCompleted(), "a lost write leaves the stored bracket alone")
}

func TestBracketService_ConcurrentResultsAreSerialized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{MaxWriteRetries: DefaultMaxWriteRetries}, nil)
	ids := []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8"}
	tournament := f.openTournament(t, models.FormatSingleElimination, ids...)
	_, err := f.svc.GenerateBracket(ctx, tournament.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref := models.MatchRef{MatchID: "R1M" + string(rune('1'+i)), RoundNumber: 1}
			_, errs[i] = f.svc.ReportResult(ctx, tournament.ID, ref, ids[2*i])
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	doc, err := f.svc.GetBracket(ctx, tournament.ID)
	require.NoError(t, err)
	assert.True(t, doc.Rounds[0].Completed())
	assert.Equal(t, 2, doc.CurrentRound)
	assert.Equal(t, 0, f.svc.(*bracketService).locks.size())

	stored, err := f.store.Tournaments().GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.Version)
}

func TestBracketService_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{}, nil)

	tests := []struct {
		name  string
		input CreateTournamentInput
	}{
		{name: "missing name", input: CreateTournamentInput{Name: " ", Format: models.FormatSwiss}},
		{name: "unknown format", input: CreateTournamentInput{Name: "x", Format: "ladder"}},
		{name: "minimum below two", input: CreateTournamentInput{Name: "x", Format: models.FormatSwiss, MinParticipants: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTournament(ctx, tt.input)
			require.ErrorIs(t, err, ErrValidationFailed)
		})
	}

	tournament := f.openTournament(t, models.FormatSwiss, "A")
	_, err := f.svc.RegisterParticipant(ctx, tournament.ID, models.Participant{ID: "A"})
	require.ErrorIs(t, err, ErrRegistrationConflict)
	_, err = f.svc.RegisterParticipant(ctx, tournament.ID, models.Participant{ID: ""})
	require.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.svc.RegisterParticipant(ctx, "missing", models.Participant{ID: "A"})
	require.ErrorIs(t, err, ErrTournamentNotFound)

	require.ErrorIs(t, f.svc.ConfirmParticipant(ctx, tournament.ID, "ghost"), ErrParticipantNotFound)
	require.ErrorIs(t, f.svc.SetParticipantStatus(ctx, tournament.ID, "A", "banned"), ErrValidationFailed)

	_, err = f.svc.ReportResult(ctx, tournament.ID, models.MatchRef{MatchID: "R1M1"}, "A")
	require.ErrorIs(t, err, ErrBracketNotGenerated)
	_, err = f.svc.Standings(ctx, tournament.ID)
	require.ErrorIs(t, err, ErrBracketNotGenerated)

	_, err = f.svc.GetTournament(ctx, "missing")
	require.True(t, errors.Is(err, ErrTournamentNotFound))
}

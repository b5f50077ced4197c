package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
)

// MemoryStore backs both repositories in one process. It is used by tests, by
// the offline simulator and by STORE_DRIVER=memory.
type MemoryStore struct {
	mu          sync.RWMutex
	tournaments map[string]*models.Tournament
	rosters     map[string][]models.Registration
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tournaments: make(map[string]*models.Tournament),
		rosters:     make(map[string][]models.Registration),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Tournaments() TournamentRepository {
	return &memoryTournamentRepository{store: s}
}

func (s *MemoryStore) Participants() ParticipantRepository {
	return &memoryParticipantRepository{store: s}
}

type memoryTournamentRepository struct {
	store *MemoryStore
}

func (r *memoryTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[t.ID]; ok {
		return ErrTournamentConflict
	}
	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	stored := t.Clone()
	stored.Registrations = nil
	s.tournaments[t.ID] = stored
	return nil
}

func (r *memoryTournamentRepository) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return t.Clone(), nil
}

func (r *memoryTournamentRepository) List(_ context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Tournament, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []models.Tournament{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memoryTournamentRepository) UpdateBracket(_ context.Context, id string, doc *models.BracketDocument, status models.TournamentStatus, expectedVersion int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tournaments[id]
	if !ok {
		return 0, ErrTournamentNotFound
	}
	if t.Version != expectedVersion {
		return 0, ErrVersionConflict
	}
	t.Bracket = doc.Clone()
	t.Status = status
	t.Version++
	t.UpdatedAt = s.now()
	return t.Version, nil
}

type memoryParticipantRepository struct {
	store *MemoryStore
}

func (r *memoryParticipantRepository) Add(_ context.Context, tournamentID string, p models.Participant, status models.ParticipantStatus) (*models.Registration, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[tournamentID]; !ok {
		return nil, ErrTournamentNotFound
	}
	for _, reg := range s.rosters[tournamentID] {
		if reg.Participant.ID == p.ID {
			return nil, ErrParticipantConflict
		}
	}
	reg := models.Registration{
		TournamentID: tournamentID,
		Participant:  p,
		Status:       status,
		CreatedAt:    s.now(),
	}
	s.rosters[tournamentID] = append(s.rosters[tournamentID], reg)
	return &reg, nil
}

func (r *memoryParticipantRepository) UpdateStatus(_ context.Context, tournamentID, participantID string, status models.ParticipantStatus) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	roster := s.rosters[tournamentID]
	for i := range roster {
		if roster[i].Participant.ID == participantID {
			roster[i].Status = status
			return nil
		}
	}
	return ErrParticipantNotFound
}

func (r *memoryParticipantRepository) ListByTournament(_ context.Context, tournamentID string, statusFilter *models.ParticipantStatus) ([]models.Registration, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Registration, 0, len(s.rosters[tournamentID]))
	for _, reg := range s.rosters[tournamentID] {
		if statusFilter != nil && reg.Status != *statusFilter {
			continue
		}
		out = append(out, reg)
	}
	return out, nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

type ArchiveResult struct {
	Key      string
	Location string
	ETag     string
}

// BracketArchive keeps a copy of finished brackets outside the database.
type BracketArchive interface {
	Archive(ctx context.Context, tournamentID string, doc *models.BracketDocument) (*ArchiveResult, error)
}

func ArchiveKey(tournamentID string) string {
	return fmt.Sprintf("brackets/%s/final.json", tournamentID)
}

// NopArchive discards documents. Used when object storage is not configured.
type NopArchive struct{}

func (NopArchive) Archive(_ context.Context, tournamentID string, _ *models.BracketDocument) (*ArchiveResult, error) {
	return &ArchiveResult{Key: ArchiveKey(tournamentID)}, nil
}

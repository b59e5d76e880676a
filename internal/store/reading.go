package store

import (
	"context"

	"github.com/roach88/folio/internal/library"
)

// ReadingOverview is the dashboard view: the daily activity log together
// with the goals it is measured against.
type ReadingOverview struct {
	Log      library.ReadingLog `json:"log"`
	Settings library.Settings   `json:"settings"`
}

// GetReadingOverview returns the normalized reading log and settings.
func (s *Store) GetReadingOverview(ctx context.Context) (ReadingOverview, error) {
	db, err := s.load(ctx)
	if err != nil {
		return ReadingOverview{}, err
	}
	return ReadingOverview{
		Log:      db.ReadingLog,
		Settings: applyManifestDefault(db.Settings),
	}, nil
}

package store

import (
	"context"
	"os"

	"github.com/roach88/folio/internal/library"
)

// ManifestURLEnv names the environment variable supplying the default
// update-manifest URL, used when settings do not specify one.
const ManifestURLEnv = "FOLIO_UPDATE_MANIFEST_URL"

// applyManifestDefault fills an empty manifest URL from the environment.
func applyManifestDefault(s library.Settings) library.Settings {
	if s.Updates.ManifestURL == "" {
		s.Updates.ManifestURL = library.NormalizeHTTPURL(os.Getenv(ManifestURLEnv))
	}
	return s
}

// GetSettings returns the normalized settings, with the environment-
// provided manifest URL filled in when the stored value is empty.
func (s *Store) GetSettings(ctx context.Context) (library.Settings, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Settings{}, err
	}
	return applyManifestDefault(db.Settings), nil
}

// GoalsPatch is a patch for the goals sub-object.
type GoalsPatch struct {
	PagesPerDay  *int
	PagesPerWeek *int
}

// UpdatesPatch is a patch for the updates sub-object.
type UpdatesPatch struct {
	ManifestURL *string
	AutoCheck   *bool
}

// SettingsPatch is a deep-merge settings update: nil fields keep stored
// values, and the goals/updates sub-objects merge field-by-field rather
// than replacing wholesale.
type SettingsPatch struct {
	Theme                 *library.Theme
	FocusMode             *bool
	Goals                 *GoalsPatch
	Updates               *UpdatesPatch
	SavedHighlightQueries *[]library.SavedQuery
}

// UpdateSettings deep-merges a patch into the stored settings and
// re-normalizes the result.
func (s *Store) UpdateSettings(ctx context.Context, patch SettingsPatch) (library.Settings, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Settings{}, err
	}

	next := db.Settings
	if patch.Theme != nil {
		next.Theme = *patch.Theme
	}
	if patch.FocusMode != nil {
		next.FocusMode = *patch.FocusMode
	}
	if patch.Goals != nil {
		if patch.Goals.PagesPerDay != nil {
			next.Goals.PagesPerDay = *patch.Goals.PagesPerDay
		}
		if patch.Goals.PagesPerWeek != nil {
			next.Goals.PagesPerWeek = *patch.Goals.PagesPerWeek
		}
	}
	if patch.Updates != nil {
		if patch.Updates.ManifestURL != nil {
			next.Updates.ManifestURL = *patch.Updates.ManifestURL
		}
		if patch.Updates.AutoCheck != nil {
			next.Updates.AutoCheck = *patch.Updates.AutoCheck
		}
	}
	if patch.SavedHighlightQueries != nil {
		next.SavedHighlightQueries = *patch.SavedHighlightQueries
	}

	db.Settings = library.NormalizeSettings(next)
	if err := s.save(ctx, db); err != nil {
		return library.Settings{}, err
	}
	return applyManifestDefault(db.Settings), nil
}

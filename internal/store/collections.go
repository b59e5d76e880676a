package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/folio/internal/library"
)

// ListCollections returns all collections.
func (s *Store) ListCollections(ctx context.Context) ([]library.Collection, error) {
	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]library.Collection, len(db.Collections))
	copy(out, db.Collections)
	return out, nil
}

// GetCollection returns one collection by id.
func (s *Store) GetCollection(ctx context.Context, id string) (library.Collection, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Collection{}, err
	}
	i := findCollection(&db, id)
	if i < 0 {
		return library.Collection{}, NewNotFoundError("collection", id)
	}
	return db.Collections[i], nil
}

// nameTaken reports whether another collection already uses the name,
// compared case-insensitively. exceptID excludes the record being renamed.
func nameTaken(db *library.Database, name, exceptID string) bool {
	folded := strings.ToLower(name)
	for _, c := range db.Collections {
		if c.ID != exceptID && strings.ToLower(c.Name) == folded {
			return true
		}
	}
	return false
}

// CreateCollection stores a new collection. The name, after trimming and
// length-capping, must be non-empty and unique case-insensitively.
func (s *Store) CreateCollection(ctx context.Context, name string) (library.Collection, error) {
	c := library.NormalizeCollection(library.Collection{
		ID:   uuid.NewString(),
		Name: name,
	})
	if c.Name == "" {
		return library.Collection{}, NewInvalidInputError("collection", "name is empty after normalization")
	}

	db, err := s.load(ctx)
	if err != nil {
		return library.Collection{}, err
	}
	if nameTaken(&db, c.Name, "") {
		return library.Collection{}, NewDuplicateNameError(c.Name)
	}

	db.Collections = append(db.Collections, c)
	if err := s.save(ctx, db); err != nil {
		return library.Collection{}, err
	}
	return c, nil
}

// RenameCollection changes a collection's name under the same validity and
// uniqueness rules as create.
func (s *Store) RenameCollection(ctx context.Context, id, name string) (library.Collection, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Collection{}, err
	}
	i := findCollection(&db, id)
	if i < 0 {
		return library.Collection{}, NewNotFoundError("collection", id)
	}

	c := db.Collections[i]
	c.Name = name
	c = library.NormalizeCollection(c)
	if c.Name == "" {
		return library.Collection{}, NewInvalidInputError("collection", "name is empty after normalization")
	}
	if nameTaken(&db, c.Name, id) {
		return library.Collection{}, NewDuplicateNameError(c.Name)
	}

	db.Collections[i] = c
	if err := s.save(ctx, db); err != nil {
		return library.Collection{}, err
	}
	return c, nil
}

// DeleteCollection removes a collection and clears collectionId on every
// document that referenced it. Documents themselves are never cascaded.
// An unknown id is not an error; deleted=false reports it.
func (s *Store) DeleteCollection(ctx context.Context, id string) (deleted bool, err error) {
	db, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	i := findCollection(&db, id)
	if i < 0 {
		return false, nil
	}
	db.Collections = append(db.Collections[:i], db.Collections[i+1:]...)

	for j := range db.Documents {
		if db.Documents[j].CollectionID == id {
			db.Documents[j].CollectionID = ""
		}
	}

	if err := s.save(ctx, db); err != nil {
		return false, err
	}
	return true, nil
}

package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/folio/internal/library"
)

// Hasher computes a content-addressed document id from file bytes.
// Identical content always maps to the same id, so the hash algorithm is
// the dedup strategy; it is an interface to keep the choice out of the
// import control flow.
type Hasher interface {
	Sum(data []byte) string
}

// SHA256Hasher is the default content-address strategy.
type SHA256Hasher struct{}

// Sum returns the hex sha-256 of data.
func (SHA256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ImportResult is the outcome of importing one file.
type ImportResult struct {
	Document      library.Document `json:"document"`
	AlreadyExists bool             `json:"alreadyExists"`
}

// ImportFile brings an external file under management. The document id is
// the content hash of the file bytes, so re-importing the same content
// (under any filename) is idempotent: the existing document is returned
// with AlreadyExists set and no second copy is made.
func (s *Store) ImportFile(ctx context.Context, sourcePath string) (ImportResult, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read source file: %w", err)
	}
	id := s.hasher.Sum(data)

	db, err := s.load(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	if i := findDocument(&db, id); i >= 0 {
		return ImportResult{Document: enrich(db.Documents[i], &db), AlreadyExists: true}, nil
	}

	managed := s.engine.Paths().DocumentFile(id)
	if _, err := os.Stat(managed); os.IsNotExist(err) {
		if err := copyFile(sourcePath, managed); err != nil {
			return ImportResult{}, fmt.Errorf("copy into managed storage: %w", err)
		}
	} else if err != nil {
		return ImportResult{}, fmt.Errorf("stat managed file: %w", err)
	}

	doc, err := s.UpsertDocument(ctx, library.Document{
		ID:       id,
		Title:    titleFromFilename(sourcePath),
		FilePath: managed,
	})
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Document: doc}, nil
}

// BatchImportError captures one failed path in a batch import.
type BatchImportError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// BatchImportResult partitions a batch import's outcomes. A failure on one
// path never aborts the remaining paths.
type BatchImportResult struct {
	Imported   []library.Document `json:"imported"`
	Duplicates []library.Document `json:"duplicates"`
	Errors     []BatchImportError `json:"errors"`
}

// ImportFiles imports a list of source paths, isolating per-item failures.
func (s *Store) ImportFiles(ctx context.Context, sourcePaths []string) (BatchImportResult, error) {
	res := BatchImportResult{
		Imported:   []library.Document{},
		Duplicates: []library.Document{},
		Errors:     []BatchImportError{},
	}
	for _, path := range sourcePaths {
		one, err := s.ImportFile(ctx, path)
		if err != nil {
			res.Errors = append(res.Errors, BatchImportError{Path: path, Message: err.Error()})
			continue
		}
		if one.AlreadyExists {
			res.Duplicates = append(res.Duplicates, one.Document)
		} else {
			res.Imported = append(res.Imported, one.Document)
		}
	}
	return res, nil
}

// titleFromFilename derives a document title from the source filename with
// the extension stripped.
func titleFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return library.NormalizeText(base)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

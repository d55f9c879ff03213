// Package filestore persists each entity as one pretty-printed JSON file
// under {root}/{collection}/{id}.json. A single corrupted file never makes
// the rest of its collection unreadable.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/medrec/records-api/internal/model"
	apperrors "github.com/medrec/records-api/pkg/errors"
	"github.com/medrec/records-api/pkg/logger"
	"github.com/medrec/records-api/pkg/metrics"
)

// Store is the generic key-value file layer the typed repositories build on.
type Store struct {
	fs      afero.Fs
	root    string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates a store rooted at root. The metrics handle may be nil.
func New(fs afero.Fs, root string, log *logger.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		fs:      fs,
		root:    root,
		logger:  log.WithComponent("filestore"),
		metrics: m,
	}
}

// Initialize creates the root directory and one subdirectory per known
// collection. Safe to call repeatedly.
func (s *Store) Initialize() error {
	for _, collection := range model.Collections() {
		dir := filepath.Join(s.root, string(collection))
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewInitialization(fmt.Errorf("create %s: %w", dir, err))
		}
	}
	return nil
}

func (s *Store) path(collection model.Collection, id string) string {
	return filepath.Join(s.root, string(collection), id+".json")
}

// Save serializes v and writes it to the entity's file, replacing any
// previous contents. The write goes through a temp file and rename so a
// crash mid-write cannot leave a half-written entity behind.
func (s *Store) Save(ctx context.Context, collection model.Collection, id string, v interface{}) error {
	defer s.observe("save", time.Now())

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.count("save", "error")
		return apperrors.NewStorage(fmt.Sprintf("failed to serialize %s %s", collection, id), err)
	}

	target := s.path(collection, id)
	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		s.count("save", "error")
		return apperrors.NewStorage(fmt.Sprintf("failed to write %s %s", collection, id), err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		s.count("save", "error")
		return apperrors.NewStorage(fmt.Sprintf("failed to write %s %s", collection, id), err)
	}

	s.count("save", "success")
	if s.metrics != nil {
		s.metrics.EntitiesPersisted.WithLabelValues(string(collection)).Inc()
	}
	return nil
}

// Load reads the entity's file into out. The second return value is false
// when the file does not exist; that is a normal outcome, not an error. A
// file that exists but does not parse yields a corruption error.
func (s *Store) Load(ctx context.Context, collection model.Collection, id string, out interface{}) (bool, error) {
	defer s.observe("load", time.Now())

	data, err := afero.ReadFile(s.fs, s.path(collection, id))
	if err != nil {
		if os.IsNotExist(err) {
			s.count("load", "miss")
			return false, nil
		}
		s.count("load", "error")
		return false, apperrors.NewStorage(fmt.Sprintf("failed to read %s %s", collection, id), err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.count("load", "corrupted")
		return false, apperrors.NewCorruption(string(collection), id, err)
	}

	s.count("load", "success")
	return true, nil
}

// LoadAll returns the raw JSON document of every parseable entity in the
// collection. Files that cannot be read or parsed are logged and skipped so
// partial corruption never blocks access to the remaining entities. A
// missing collection directory means no data yet.
func (s *Store) LoadAll(ctx context.Context, collection model.Collection) ([]json.RawMessage, error) {
	defer s.observe("load_all", time.Now())

	dir := filepath.Join(s.root, string(collection))
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.count("load_all", "success")
			return nil, nil
		}
		s.count("load_all", "error")
		return nil, apperrors.NewStorage(fmt.Sprintf("failed to list %s", collection), err)
	}

	docs := make([]json.RawMessage, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := afero.ReadFile(s.fs, filepath.Join(dir, entry.Name()))
		if err != nil {
			// A file deleted mid-scan surfaces here; skip it.
			s.logger.Warn(err, fmt.Sprintf("skipping unreadable file %s/%s", collection, entry.Name()))
			continue
		}

		var doc json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			s.logger.Warn(err, fmt.Sprintf("skipping corrupted file %s/%s", collection, entry.Name()))
			if s.metrics != nil {
				s.metrics.CorruptedSkipped.Inc()
			}
			continue
		}

		docs = append(docs, doc)
	}

	s.count("load_all", "success")
	return docs, nil
}

// Delete removes the entity's file. Deleting an already absent entity
// succeeds.
func (s *Store) Delete(ctx context.Context, collection model.Collection, id string) error {
	defer s.observe("delete", time.Now())

	if err := s.fs.Remove(s.path(collection, id)); err != nil && !os.IsNotExist(err) {
		s.count("delete", "error")
		return apperrors.NewStorage(fmt.Sprintf("failed to delete %s %s", collection, id), err)
	}

	s.count("delete", "success")
	return nil
}

// Exists probes for the entity's file without parsing it.
func (s *Store) Exists(ctx context.Context, collection model.Collection, id string) (bool, error) {
	defer s.observe("exists", time.Now())

	ok, err := afero.Exists(s.fs, s.path(collection, id))
	if err != nil {
		s.count("exists", "error")
		return false, apperrors.NewStorage(fmt.Sprintf("failed to probe %s %s", collection, id), err)
	}

	s.count("exists", "success")
	return ok, nil
}

func (s *Store) count(operation, status string) {
	if s.metrics != nil {
		s.metrics.StoreOperations.WithLabelValues(operation, status).Inc()
	}
}

func (s *Store) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.StoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

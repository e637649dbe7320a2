package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Store persists named collections as JSON files under a directory,
// one file per namespaced key. It is a snapshot for the next start, not
// a source of truth during a session: writes are last-write-wins and
// callers never observe persistence errors.
type Store struct {
	dir    string
	prefix string
}

// New creates a store rooted at dir with the given key prefix. The
// directory is created lazily on the first Save.
func New(dir, prefix string) *Store {
	return &Store{dir: dir, prefix: prefix}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, s.prefix+"_"+key+".json")
}

// Load reads the collection stored under key into out. On a missing
// key, unreadable file, or malformed JSON it leaves out untouched and
// returns false.
func (s *Store) Load(key string, out interface{}) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("key", key).Msg("Failed to read local snapshot")
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding malformed local snapshot")
		return false
	}
	return true
}

// Save serializes value and writes it under key. Failures are logged
// and swallowed.
func (s *Store) Save(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to serialize local snapshot")
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", s.dir).Msg("Failed to create local snapshot directory")
		return
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to write local snapshot")
	}
}

// Clear removes every key belonging to this store's namespace. Used
// only by the session-corruption recovery path.
func (s *Store) Clear() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), s.prefix+"_") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			log.Warn().Err(err).Str("file", e.Name()).Msg("Failed to remove local snapshot")
		}
	}
	log.Info().Str("dir", s.dir).Msg("Local snapshots cleared")
}

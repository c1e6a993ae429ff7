// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"

	"github.com/nimbuslauncher/nimbuslauncher/pkg/errutil"
)

// Store owns the persisted launcher document. It is created per
// process, loaded once at startup, and handed by reference into every
// component that reads or mutates the document. Mutating callers must
// call Save afterwards; the store never saves on its own.
//
// The store assumes single-threaded, non-overlapping invocation. It has
// no internal locking and writes are not transactional across
// processes.
type Store struct {
	path       string
	legacyPath string
	dataDir    string
	logger     *slog.Logger

	doc         *Document
	firstLaunch bool
}

// NewStore creates a store for the document at path. legacyPath, when
// non-empty, names the pre-XDG location checked once on load and moved
// forward. dataDir seeds the default document's data directory setting.
// A nil logger falls back to slog.Default.
func NewStore(path, legacyPath, dataDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:       path,
		legacyPath: legacyPath,
		dataDir:    dataDir,
		logger:     logger,
	}
}

// Load reads, migrates, and validates the document.
//
// A missing document is materialized from defaults and persisted; that
// is the only case that marks the launch as first. A document found at
// the legacy location is moved to the canonical one first. A document
// that fails to parse or fails schema validation is logged, discarded,
// and replaced with defaults; corruption is never fatal.
func (s *Store) Load() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		moved, merr := s.relocateLegacy()
		if merr != nil {
			return merr
		}
		if !moved {
			s.doc = DefaultDocument(s.dataDir)
			s.firstLaunch = true
			return s.Save()
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return oops.Code("CONFIG_READ_FAILED").
			With("path", s.path).
			Wrap(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		errutil.LogError(s.logger, "config document is corrupt, restoring defaults", err)
		return s.restoreDefaults()
	}

	defMap, err := documentMap(DefaultDocument(s.dataDir))
	if err != nil {
		return err
	}
	raw = Reconcile(defMap, raw)
	PatchAuthServerURL(raw)

	if err := ValidateDocument(raw); err != nil {
		errutil.LogError(s.logger, "config document failed schema validation, restoring defaults", err)
		return s.restoreDefaults()
	}

	doc, err := documentFromMap(raw)
	if err != nil {
		errutil.LogError(s.logger, "config document has invalid field types, restoring defaults", err)
		return s.restoreDefaults()
	}

	s.doc = doc
	return nil
}

// Save serializes the in-memory document to the canonical location.
// The write goes through a temp file and rename so a crash mid-write
// cannot leave a truncated document behind. I/O failures propagate.
func (s *Store) Save() error {
	if s.doc == nil {
		return oops.Code("CONFIG_NOT_LOADED").Errorf("document must be loaded before saving")
	}

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return oops.Code("CONFIG_SAVE_FAILED").Wrap(err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return oops.Code("CONFIG_SAVE_FAILED").
			With("path", s.path).
			Wrap(err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return oops.Code("CONFIG_SAVE_FAILED").
			With("path", tmp).
			Wrap(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return oops.Code("CONFIG_SAVE_FAILED").
			With("path", s.path).
			Wrap(err)
	}
	return nil
}

// Document returns the in-memory document. Nil until Load succeeds.
func (s *Store) Document() *Document {
	return s.doc
}

// IsFirstLaunch reports whether Load materialized the document from
// defaults because none existed. Stable for the process lifetime; a
// corrupt document that was self-healed does not count as first launch.
func (s *Store) IsFirstLaunch() bool {
	return s.firstLaunch
}

// Path returns the canonical document location.
func (s *Store) Path() string {
	return s.path
}

// relocateLegacy moves the legacy document to the canonical location,
// preserving content. Returns whether a legacy document was moved.
func (s *Store) relocateLegacy() (bool, error) {
	if s.legacyPath == "" {
		return false, nil
	}
	if _, err := os.Stat(s.legacyPath); err != nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return false, oops.Code("CONFIG_RELOCATE_FAILED").
			With("from", s.legacyPath).
			With("to", s.path).
			Wrap(err)
	}

	if err := os.Rename(s.legacyPath, s.path); err == nil {
		s.logger.Info("moved legacy config document",
			"from", s.legacyPath, "to", s.path)
		return true, nil
	}

	// Rename fails across filesystems; fall back to copy and remove.
	if err := copyFile(s.legacyPath, s.path); err != nil {
		return false, oops.Code("CONFIG_RELOCATE_FAILED").
			With("from", s.legacyPath).
			With("to", s.path).
			Wrap(err)
	}
	if err := os.Remove(s.legacyPath); err != nil {
		errutil.LogWarn(s.logger, "failed to remove legacy config document after copy", err)
	}
	s.logger.Info("copied legacy config document",
		"from", s.legacyPath, "to", s.path)
	return true, nil
}

func (s *Store) restoreDefaults() error {
	s.doc = DefaultDocument(s.dataDir)
	return s.Save()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// documentMap converts a typed document to the generic map form the
// migrator and validator operate on.
func documentMap(doc *Document) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
	}
	return m, nil
}

// documentFromMap converts the generic map form back into the typed
// document after migration and validation.
func documentFromMap(raw map[string]any) (*Document, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

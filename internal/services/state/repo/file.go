// Package repo provides the file and Postgres state stores
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/logger"
	"jakebot/internal/services/state/domain"
)

// File keeps the snapshot in a single JSON document on disk
type File struct {
	path string
	log  *logger.Logger
}

// NewFile returns a file store at path
func NewFile(path string) *File {
	return &File{path: path, log: logger.Named("state")}
}

// Name implements domain.Store
func (f *File) Name() string { return "file" }

// Path is the backing file
func (f *File) Path() string { return f.path }

// Load reads the file; a missing file, bad JSON or bad fields yield defaults for what is affected
func (f *File) Load(_ context.Context) domain.Snapshot {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.log.Warn().Err(err).Str("path", f.path).Msg("state file unreadable, using defaults")
		}
		return domain.Defaults()
	}
	s, problems := Decode(b)
	for _, p := range problems {
		f.log.Warn().Str("path", f.path).Str("problem", p).Msg("state field ignored")
	}
	return s
}

// Save overwrites the file with the snapshot
func (f *File) Save(_ context.Context, s domain.Snapshot) error {
	if s.SeenPostIDs == nil {
		s.SeenPostIDs = []string{}
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode state")
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "create state dir %s", dir)
		}
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "write state %s", f.path)
	}
	return nil
}

// Decode parses a state document one field at a time so a bad field only resets itself.
// problems lists what was ignored
func Decode(b []byte) (domain.Snapshot, []string) {
	s := domain.Defaults()

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return s, []string{"malformed json: " + err.Error()}
	}

	var problems []string
	if raw, ok := doc["seenPostIds"]; ok {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			problems = append(problems, "seenPostIds: "+err.Error())
		} else if ids != nil {
			s.SeenPostIDs = ids
		}
	}
	if raw, ok := doc["autoproxyEnabled"]; ok {
		var on *bool
		if err := json.Unmarshal(raw, &on); err != nil {
			problems = append(problems, "autoproxyEnabled: "+err.Error())
		} else if on != nil {
			s.AutoproxyEnabled = *on
		}
	}
	if raw, ok := doc["signalers"]; ok {
		var sig []string
		if err := json.Unmarshal(raw, &sig); err != nil {
			problems = append(problems, "signalers: "+err.Error())
		} else {
			s.Signalers = sig
		}
	}
	return s, problems
}

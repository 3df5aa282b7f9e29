// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	synerrors "github.com/kraklabs/synthia/internal/errors"
)

// Store persists sessions as one JSON file per session under a
// resolved sessions directory.
type Store struct {
	dir string
}

// NewStore resolves the sessions directory and returns a Store backed
// by it. XDG_DATA_HOME, when set, overrides the default so tests and
// unusual environments can redirect storage without touching the
// caller's real home directory.
func NewStore() (*Store, error) {
	dir, err := sessionsDir()
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func sessionsDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "synthia", "sessions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", synerrors.NewInternalError(
			"could not resolve a home directory for session storage",
			"os.UserHomeDir failed",
			err,
		)
	}
	return filepath.Join(home, ".local", "share", "synthia", "sessions"), nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save serializes sess and writes it atomically: a temp file in the
// same directory, then rename.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return synerrors.NewInternalError(
			fmt.Sprintf("could not create sessions directory %s", s.dir),
			"os.MkdirAll failed",
			err,
		)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return synerrors.NewInternalError(
			"could not serialize session",
			"json.Marshal failed",
			err,
		)
	}

	path := s.path(sess.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return synerrors.NewInternalError(
			fmt.Sprintf("could not write session file %s", tmp),
			"os.WriteFile failed",
			err,
		)
	}
	if err := os.Rename(tmp, path); err != nil {
		return synerrors.NewInternalError(
			fmt.Sprintf("could not finalize session file %s", path),
			"os.Rename failed",
			err,
		)
	}
	return nil
}

// Load reads and deserializes the session with the given id.
func (s *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, synerrors.NewNotFoundError(
			fmt.Sprintf("session %q not found", id),
			err.Error(),
			"Use `synthia session list` to see available sessions.",
		)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, synerrors.NewInternalError(
			fmt.Sprintf("session %q is corrupt", id),
			"json.Unmarshal failed",
			err,
		)
	}
	return &sess, nil
}

// Delete removes the session file for id.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		return synerrors.NewNotFoundError(
			fmt.Sprintf("session %q not found", id),
			err.Error(),
			"",
		)
	}
	return nil
}

// List enumerates every session file, deserializes its header, and
// returns them sorted by last-modified descending (most recent
// first). A session file that fails to deserialize is skipped rather
// than failing the whole listing.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, synerrors.NewInternalError(
			fmt.Sprintf("could not read sessions directory %s", s.dir),
			"os.ReadDir failed",
			err,
		)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		sess, err := s.Load(id)
		if err != nil {
			continue
		}
		infos = append(infos, InfoOf(sess))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastModified > infos[j].LastModified
	})
	return infos, nil
}

// MostRecent returns the most recently modified session, or nil if
// none exist.
func (s *Store) MostRecent() (*Session, error) {
	infos, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, nil
	}
	return s.Load(infos[0].ID)
}

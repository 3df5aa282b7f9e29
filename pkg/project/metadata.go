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

package project

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"time"

	"github.com/kraklabs/synthia/internal/ignore"
	"github.com/kraklabs/synthia/pkg/lang"
)

// Metadata is the staleness stamp saved alongside an index file: a
// hash of every source file's path and modification time, so a later
// run can tell whether the index still reflects the tree on disk.
type Metadata struct {
	CreatedAt time.Time `json:"created_at"`
	FilesHash uint64    `json:"files_hash"`
	FileCount int       `json:"file_count"`
	// IndexerVersion records the indexer binary's reported version, if
	// the caller has one to attach.
	IndexerVersion string `json:"indexer_version,omitempty"`
	// IndexerCommand records the argv used to produce the index.
	IndexerCommand []string `json:"indexer_command,omitempty"`
}

// GenerateMetadata walks root (honoring the canonical ignore list) and
// hashes every file's path and modification time.
func GenerateMetadata(root string) (*Metadata, error) {
	matcher, err := ignore.New(root)
	if err != nil {
		return nil, err
	}

	h := fnv.New64a()
	count := 0
	err = matcher.Walk(root, func(path string, info os.FileInfo) error {
		// The stamps themselves are not part of the tree being tracked.
		if strings.HasSuffix(path, ".scip.meta") {
			return nil
		}
		fmt.Fprintf(h, "%s\x00%v\x00", path, info.ModTime().UnixNano())
		count++
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Metadata{CreatedAt: time.Now(), FilesHash: h.Sum64(), FileCount: count}, nil
}

func metaPath(indexPath string) string {
	return indexPath + ".meta"
}

// Save writes m as the metadata stamp for indexPath.
func (m *Metadata) Save(indexPath string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(metaPath(indexPath), data, 0o644)
}

// LoadMetadata reads the metadata stamp for indexPath.
func LoadMetadata(indexPath string) (*Metadata, error) {
	data, err := os.ReadFile(metaPath(indexPath))
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MetadataExists reports whether a metadata stamp exists for indexPath.
func MetadataExists(indexPath string) bool {
	return fileExists(metaPath(indexPath))
}

// IsStale reports whether the project tree at root has changed since m
// was generated.
func (m *Metadata) IsStale(root string) (bool, error) {
	current, err := GenerateMetadata(root)
	if err != nil {
		return false, err
	}
	return current.FilesHash != m.FilesHash, nil
}

// CheckStaleness reports the first index among languages whose on-disk
// index is missing its metadata stamp or whose stamp no longer matches
// the tree. It returns ("", false, nil) if every present index is
// fresh, and skips languages with no index file on disk yet.
func CheckStaleness(root string, languages []lang.Language) (string, bool, error) {
	for _, l := range languages {
		indexPath := ResolveIndexPath(root, l)
		if !fileExists(indexPath) {
			continue
		}
		meta, err := LoadMetadata(indexPath)
		if err != nil {
			return indexPath, true, nil
		}
		stale, err := meta.IsStale(root)
		if err != nil {
			return "", false, err
		}
		if stale {
			return indexPath, true, nil
		}
	}
	return "", false, nil
}

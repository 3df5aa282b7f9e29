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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/synthia/pkg/lang"
)

// configRule is the YAML shape of one entry in a project's .synthia/config.yaml
// languages list: a set of marker files and the language they indicate.
type configRule struct {
	Requires []string      `yaml:"requires"`
	Language lang.Language `yaml:"language"`
}

// config is the YAML shape of .synthia/config.yaml. Every field has a
// safe zero value, so a project with no config file at all detects
// languages exactly as it would with an empty config.
type config struct {
	// Languages extends the built-in marker-rule table with project-
	// specific rules, checked after the built-ins. This is how
	// languages with no universal directory marker (Go, Java, C, C++,
	// Swift) get detected: the project declares its own marker, e.g.
	//
	//	languages:
	//	  - requires: ["go.mod"]
	//	    language: go
	Languages []configRule `yaml:"languages"`
}

// configFileName is the path of the optional project configuration
// file, relative to a project root.
const configFileName = ".synthia/config.yaml"

// loadConfig reads .synthia/config.yaml under root. A missing file is
// not an error: it returns a zero-value config so callers can treat
// "no config" and "empty config" identically.
func loadConfig(root string) (config, error) {
	path := filepath.Join(root, configFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config{}, nil
	}
	if err != nil {
		return config{}, err
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// extraMarkerRules converts the config's user-supplied language rules
// into markerRules, skipping any rule with no requires or a language
// outside the closed set lang.Language recognizes.
func (c config) extraMarkerRules() []markerRule {
	var rules []markerRule
	for _, r := range c.Languages {
		if !r.Language.IsKnown() || len(r.Requires) == 0 {
			continue
		}
		rules = append(rules, markerRule{requires: r.Requires, language: r.Language})
	}
	return rules
}

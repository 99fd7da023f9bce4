/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package stampdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"inkstamp/internal/domain"
)

// ErrInvalid is wrapped by every rejected document.
var ErrInvalid = errors.New("invalid stamp document")

// Format is the serialization of a stamp document.
type Format int

const (
	FormatAuto Format = iota
	FormatYAML
	FormatJSON
)

// FormatForPath picks the format from a file extension; unknown extensions
// are sniffed from the content.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

func sniff(data []byte) Format {
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a stamp document. Fields missing from the document keep the
// values of the named preset (key "preset") or of domain.DefaultStamp.
func Parse(data []byte, f Format) (domain.StampConfig, error) {
	if f == FormatAuto {
		f = sniff(data)
	}
	var doc map[string]any
	var err error
	if f == FormatJSON {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return domain.StampConfig{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return FromMap(doc)
}

// FromMap validates and decodes an already parsed document.
func FromMap(doc map[string]any) (domain.StampConfig, error) {
	if err := validateDoc(doc); err != nil {
		return domain.StampConfig{}, err
	}
	base := domain.DefaultStamp()
	if name, ok := doc["preset"].(string); ok {
		p, found := domain.Preset(domain.PresetName(name))
		if !found {
			return domain.StampConfig{}, fmt.Errorf("%w: unknown preset %q", ErrInvalid, name)
		}
		base = p
	}
	if v, ok := doc["centerImage"]; ok && v == nil {
		delete(doc, "centerImage")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return domain.StampConfig{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg := base
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.StampConfig{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if cfg.HasImage() {
		cfg.CenterText = ""
	}
	if err := cfg.Validate(); err != nil {
		return domain.StampConfig{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// Load reads and parses the document at path.
func Load(path string) (domain.StampConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.StampConfig{}, fmt.Errorf("read stamp document: %w", err)
	}
	cfg, err := Parse(data, FormatForPath(path))
	if err != nil {
		return domain.StampConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes cfg in the given format (YAML unless FormatJSON).
func Marshal(cfg domain.StampConfig, f Format) ([]byte, error) {
	if f == FormatJSON {
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal stamp: %w", err)
		}
		return append(b, '\n'), nil
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal stamp: %w", err)
	}
	return b, nil
}

// Save writes cfg to path. The file is replaced atomically: the document is
// written to a temp file in the same directory and renamed over the target.
func Save(path string, cfg domain.StampConfig) error {
	data, err := Marshal(cfg, FormatForPath(path))
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return fmt.Errorf("write temp stamp: %w", err)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace stamp: %w", err)
	}
	return nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

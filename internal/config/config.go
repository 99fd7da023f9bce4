/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type RenderConfig struct {
	CanvasSize int    `yaml:"canvas_size"`
	FontFile   string `yaml:"font_file"` // optional TTF/OTF replacing the embedded face
	GrungeSeed int64  `yaml:"grunge_seed"`
	// ArcClamp bounds the angular span of arc text in radians; 0 disables it.
	ArcClamp   float64 `yaml:"arc_clamp"`
	AllowFiles bool    `yaml:"allow_files"` // center images may be local paths
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadKB int    `yaml:"max_upload_kb"`
}

type ExportConfig struct {
	Dir        string  `yaml:"dir"`
	PageSize   string  `yaml:"page_size"`
	PDFStampMM float64 `yaml:"pdf_stamp_mm"`
	PDFCopies  int     `yaml:"pdf_copies"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Render        RenderConfig  `yaml:"render"`
	Server        ServerConfig  `yaml:"server"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Render:        RenderConfig{CanvasSize: 400},
		Server:        ServerConfig{Addr: "127.0.0.1:8080", MaxUploadKB: 2048},
		Export:        ExportConfig{Dir: ".", PageSize: "A4", PDFStampMM: 40, PDFCopies: 1},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvCanvasSize = "INK_CANVAS_SIZE"
	EnvFontFile   = "INK_FONT_FILE"
	EnvGrungeSeed = "INK_GRUNGE_SEED"
	EnvArcClamp   = "INK_ARC_CLAMP"
	EnvAllowFiles = "INK_ALLOW_FILES"
	EnvServerAddr = "INK_SERVER_ADDR"
	EnvMaxUpload  = "INK_MAX_UPLOAD_KB"
	EnvExportDir  = "INK_EXPORT_DIR"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "INK_LOG_LEVEL"
	EnvLogFormat = "INK_LOG_FORMAT"
	EnvLogSource = "INK_LOG_SOURCE"
	EnvLogFile   = "INK_LOG_FILE"
)

// Canvas size bounds accepted from file or environment.
const (
	MinCanvasSize = 64
	MaxCanvasSize = 4096
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "InkStamp")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "InkStamp")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "inkstamp")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "inkstamp")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults;
// a malformed one is reported but the defaults (plus env) are still returned.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	var ferr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		} else {
			ferr = fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, ferr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// render
	if validCanvas(src.Render.CanvasSize) {
		dst.Render.CanvasSize = src.Render.CanvasSize
	}
	if strings.TrimSpace(src.Render.FontFile) != "" {
		dst.Render.FontFile = strings.TrimSpace(src.Render.FontFile)
	}
	if src.Render.GrungeSeed != 0 {
		dst.Render.GrungeSeed = src.Render.GrungeSeed
	}
	if src.Render.ArcClamp > 0 {
		dst.Render.ArcClamp = src.Render.ArcClamp
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Render.AllowFiles = src.Render.AllowFiles
	// server
	if strings.TrimSpace(src.Server.Addr) != "" {
		dst.Server.Addr = strings.TrimSpace(src.Server.Addr)
	}
	if src.Server.MaxUploadKB > 0 {
		dst.Server.MaxUploadKB = src.Server.MaxUploadKB
	}
	// export
	if strings.TrimSpace(src.Export.Dir) != "" {
		dst.Export.Dir = strings.TrimSpace(src.Export.Dir)
	}
	if strings.TrimSpace(src.Export.PageSize) != "" {
		dst.Export.PageSize = strings.TrimSpace(src.Export.PageSize)
	}
	if src.Export.PDFStampMM > 0 {
		dst.Export.PDFStampMM = src.Export.PDFStampMM
	}
	if src.Export.PDFCopies > 0 {
		dst.Export.PDFCopies = src.Export.PDFCopies
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func validCanvas(n int) bool { return n >= MinCanvasSize && n <= MaxCanvasSize }

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvCanvasSize)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && validCanvas(n) {
			cfg.Render.CanvasSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontFile)); v != "" {
		cfg.Render.FontFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGrungeSeed)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Render.GrungeSeed = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvArcClamp)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Render.ArcClamp = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAllowFiles)); v != "" {
		cfg.Render.AllowFiles = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxUpload)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.MaxUploadKB = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.Dir = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"render.canvas_size":   EnvCanvasSize,
	"render.font_file":     EnvFontFile,
	"render.grunge_seed":   EnvGrungeSeed,
	"render.arc_clamp":     EnvArcClamp,
	"render.allow_files":   EnvAllowFiles,
	"server.addr":          EnvServerAddr,
	"server.max_upload_kb": EnvMaxUpload,
	"export.dir":           EnvExportDir,
	"logging.level":        EnvLogLevel,
	"logging.format":       EnvLogFormat,
	"logging.source":       EnvLogSource,
	"logging.file":         EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// MaxUploadBytes is the request body limit derived from MaxUploadKB.
func (s ServerConfig) MaxUploadBytes() int64 {
	if s.MaxUploadKB <= 0 {
		return int64(Defaults().Server.MaxUploadKB) << 10
	}
	return int64(s.MaxUploadKB) << 10
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report plus an autosaved copy of
// the stamp being edited.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"inkstamp/internal/domain"
	applog "inkstamp/internal/log"
	"inkstamp/internal/stampdoc"
	"inkstamp/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Session describes where crash artifacts go and how to fetch the stamp that
// was being edited. Both fields are optional.
type Session struct {
	Dir   string
	Stamp func() domain.StampConfig
}

// Recover captures a panic, logs an error with stacktrace,
// writes an error report file, and autosaves the current stamp document
// (if the session provides one).
//
// Usage: defer crash.Recover(s)
func Recover(s *Session) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(s, r, stack)
		if s != nil && s.Stamp != nil {
			if path, err := autosaveStamp(s); err != nil {
				l.Error("autosave stamp failed", slog.Any("err", err))
			} else {
				l.Info("autosave stamp written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

func reportDir(s *Session) string {
	if s != nil && s.Dir != "" {
		_ = os.MkdirAll(s.Dir, 0o755)
		return s.Dir
	}
	return os.TempDir()
}

func autosaveStamp(s *Session) (path string, err error) {
	defer func() {
		// the stamp accessor itself may be what panicked
		if r := recover(); r != nil {
			err = fmt.Errorf("read stamp: %v", r)
		}
	}()
	cfg := s.Stamp()
	path = filepath.Join(reportDir(s), fmt.Sprintf("crash-stamp-%s.yaml", time.Now().Format("20060102-150405")))
	return path, stampdoc.Save(path, cfg)
}

func writeReport(s *Session, panicVal any, stack []byte) (string, error) {
	dir := reportDir(s)
	stamp := time.Now().Format("20060102-150405")
	fname := fmt.Sprintf("crash-%s.log", stamp)
	path := filepath.Join(dir, fname)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Ink Stamp Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if s != nil && s.Dir != "" {
		_, _ = fmt.Fprintf(&buf, "SessionDir: %s\n", s.Dir)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePDF_ProducesDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleImage(), PDFOptions{Copies: 4, Guides: true}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("missing PDF header")
	}
	if buf.Len() < 500 {
		t.Fatalf("pdf suspiciously small: %d bytes", buf.Len())
	}
}

func TestWritePDF_RejectsOversizedStamp(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleImage(), PDFOptions{StampMM: 1000}); err == nil {
		t.Fatalf("expected error for a stamp larger than the page")
	}
}

func TestSheetSlots(t *testing.T) {
	// A4 with 15mm margins and 5mm gaps: (210-30+5)/45 = 4 cols, (297-30+5)/45 = 6 rows.
	cols, rows := SheetSlots(210, 297, PDFOptions{})
	if cols != 4 || rows != 6 {
		t.Fatalf("slots = %dx%d, want 4x6", cols, rows)
	}
}

func TestWritePDFFile_CreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "sheet.pdf")
	if err := WritePDFFile(out, sampleImage(), PDFOptions{}); err != nil {
		t.Fatalf("write pdf file: %v", err)
	}
	st, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() <= 0 {
		t.Fatalf("empty pdf")
	}
}

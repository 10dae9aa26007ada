// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer is a bytes.Buffer safe for the spinner goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_MachineMode(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, PersonalityMachine)

	spin := p.NewSpinner("Rendering graph")
	spin.Start()
	spin.Stop()

	if got := errOut.String(); got != "PROGRESS: Rendering graph\n" {
		t.Errorf("stderr = %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
}

func TestSpinner_MinimalMode(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{}, PersonalityMinimal)

	spin := p.NewSpinner("Rendering graph")
	spin.Start()
	spin.Stop()

	if got := out.String(); got != "Rendering graph...\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestSpinner_FullModeAnimatesAndClears(t *testing.T) {
	out := &lockedBuffer{}
	p := NewPrinter(out, &bytes.Buffer{}, PersonalityFull)

	spin := p.NewSpinner("Rendering graph")
	spin.Start()
	time.Sleep(3 * spinnerInterval)
	spin.UpdateMessage("Writing files")
	time.Sleep(3 * spinnerInterval)
	spin.Stop()

	got := out.String()
	if !strings.Contains(got, "Rendering graph") {
		t.Errorf("output missing first message: %q", got)
	}
	if !strings.Contains(got, "Writing files") {
		t.Errorf("output missing updated message: %q", got)
	}
	if !strings.HasSuffix(got, "\r\033[K") {
		t.Errorf("output should end with a line clear: %q", got)
	}
}

func TestSpinner_StopIdempotent(t *testing.T) {
	p := NewPrinter(&lockedBuffer{}, &bytes.Buffer{}, PersonalityFull)
	spin := p.NewSpinner("x")
	spin.Stop()
	spin.Start()
	spin.Start()
	spin.Stop()
	spin.Stop()
}

func TestPrinter_Spin(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, PersonalityMachine)

	var stages []string
	err := p.Spin("Building", func(s *Spinner) error {
		s.UpdateMessage("Rendering")
		stages = append(stages, s.message)
		return nil
	})
	if err != nil {
		t.Fatalf("Spin() = %v", err)
	}

	boom := errors.New("boom")
	if len(stages) != 1 || stages[0] != "Rendering" {
		t.Errorf("stages = %v, want [Rendering]", stages)
	}

	if err := p.Spin("Building", func(*Spinner) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Spin() = %v, want boom", err)
	}
	if got := errOut.String(); got != "PROGRESS: Building\nPROGRESS: Building\n" {
		t.Errorf("stderr = %q", got)
	}
}

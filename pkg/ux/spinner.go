// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"sync"
	"time"
)

// spinnerFrames is the dots animation.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the delay between frames.
const spinnerInterval = 80 * time.Millisecond

// Spinner is an animated progress line bound to a Printer.
//
// Only PersonalityFull animates. Minimal mode prints the message once and
// machine mode prints a PROGRESS line to the error stream.
type Spinner struct {
	printer *Printer
	message string

	stop chan struct{}
	done chan struct{}

	mu         sync.Mutex
	isRunning  bool
	frameIndex int
}

// NewSpinner creates a spinner with message on the printer's output.
func (p *Printer) NewSpinner(message string) *Spinner {
	return &Spinner{
		printer: p,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	message := s.message
	s.mu.Unlock()

	switch s.printer.Level {
	case PersonalityMachine:
		fmt.Fprintf(s.printer.Err, "PROGRESS: %s\n", message)
		return
	case PersonalityMinimal:
		fmt.Fprintf(s.printer.Out, "%s...\n", message)
		return
	}

	go func() {
		frames := spinnerFrames
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				// Clear the spinner line
				fmt.Fprint(s.printer.Out, "\r\033[K")
				close(s.done)
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := Styles.Title.Render(frames[s.frameIndex])
				fmt.Fprintf(s.printer.Out, "\r%s %s", frame, s.message)
				s.frameIndex = (s.frameIndex + 1) % len(frames)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop halts the spinner animation
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.printer.Level != PersonalityFull {
		return
	}

	close(s.stop)
	<-s.done
}

// UpdateMessage changes the spinner message while running. Only the
// animated line shows the change.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Spin runs fn behind a spinner and returns its error. fn may call
// UpdateMessage on the spinner to report its current stage.
func (p *Printer) Spin(message string, fn func(*Spinner) error) error {
	spin := p.NewSpinner(message)
	spin.Start()
	defer spin.Stop()
	return fn(spin)
}

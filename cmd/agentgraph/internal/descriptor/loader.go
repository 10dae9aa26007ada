// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package descriptor loads and validates agent definition files.
//
// An agents directory contains one YAML file per agent. Files that cannot be
// read, parsed or validated are skipped and reported; they never abort the
// batch.
package descriptor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions recognised as agent definitions.
var Extensions = []string{".yaml", ".yml"}

// LoadResult is the outcome of loading a directory.
type LoadResult struct {
	// Files are the candidate files found, sorted by name.
	Files []string

	// Descriptors from every file that loaded, in file order.
	Descriptors []Descriptor

	// Errors holds one entry per skipped file.
	Errors []*LoadError
}

// ListFiles returns the agent definition files in dir, sorted by name.
func ListFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsDescriptorFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// IsDescriptorFile reports whether name has a recognised extension.
func IsDescriptorFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// LoadDir loads every descriptor file in dir.
//
// # Description
//
// Lists the directory, then loads each file in name order. A file that fails
// is recorded in LoadResult.Errors and skipped. Only a missing or unreadable
// directory is returned as an error.
func LoadDir(dir string) (*LoadResult, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Files: files}
	for _, path := range files {
		descs, lerr := LoadFile(path)
		if lerr != nil {
			result.Errors = append(result.Errors, lerr)
			continue
		}
		result.Descriptors = append(result.Descriptors, descs...)
	}
	return result, nil
}

// LoadFile reads, parses and validates a single file.
func LoadFile(path string) ([]Descriptor, *LoadError) {
	data, err := readFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrRead, Err: err}
	}

	f, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrParse, Err: err}
	}
	if err := Validate(f); err != nil {
		return nil, &LoadError{Path: path, Kind: ErrSchema, Err: err}
	}

	for i := range f.CustomModes {
		f.CustomModes[i].Source = path
	}
	return f.CustomModes, nil
}

// Parse decodes YAML bytes into a File without validating it.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}
	return &f, nil
}

// readFile reads path and closes it before returning, on every path.
func readFile(path string) ([]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return io.ReadAll(fh)
}

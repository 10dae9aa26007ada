// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package descriptor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	fileValidate *validator.Validate
	slugRe       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func init() {
	fileValidate = validator.New()
	_ = fileValidate.RegisterValidation("slug", validateSlug)
}

// validateSlug requires lowercase kebab-case identifiers.
func validateSlug(fl validator.FieldLevel) bool {
	return slugRe.MatchString(fl.Field().String())
}

// Validate checks a decoded file against the descriptor schema.
//
// # Description
//
// Enforces the structural rules every descriptor must satisfy before it is
// handed to the graph builder: slug present and kebab-case, name and role
// present, at least one capability group. The behavior script is optional.
//
// # Outputs
//
//   - error: nil when valid. Otherwise wraps ErrSchema and lists each
//     failing field as "customModes[i].field: rule".
func Validate(f *File) error {
	err := fileValidate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "File.")
		msgs = append(msgs, fmt.Sprintf("%s: %s", yamlPath(field), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}

// yamlPath rewrites Go field names in a validator namespace to YAML keys.
func yamlPath(ns string) string {
	return strings.NewReplacer(
		"CustomModes", "customModes",
		"Slug", "slug",
		"Name", "name",
		"RoleDefinition", "roleDefinition",
		"Groups", "groups",
	).Replace(ns)
}

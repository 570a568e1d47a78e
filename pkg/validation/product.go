// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package validation checks identifiers typed by the user before they reach
// the data service.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidProductID is returned for anything that is not a positive
// decimal product id.
var ErrInvalidProductID = errors.New("invalid product id")

var productIDPattern = regexp.MustCompile(`^[1-9][0-9]{0,17}$`)

// ParseProductID converts a user-typed product id. Surrounding spaces and a
// leading "#" are accepted, so ids copied from the detail view parse.
func ParseProductID(raw string) (int64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if !productIDPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProductID, raw)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProductID, raw)
	}
	return id, nil
}

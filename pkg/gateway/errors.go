// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR VARIABLES
// =============================================================================

// ErrServiceUnavailable is returned by Health when the data service does not
// answer or answers with a non-2xx status.
var ErrServiceUnavailable = fmt.Errorf("API offline")

// ErrNotFound is returned by Product when the id does not exist.
var ErrNotFound = fmt.Errorf("product not found")

// ErrFetch matches every *FetchError via errors.Is.
var ErrFetch = fmt.Errorf("fetch failed")

// FetchError describes a failed stats, products or product call.
//
// # Description
//
// StatusCode is zero when the request never produced a response (transport
// failure, cancelled context, undecodable body).
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s error: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s error: HTTP %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Op, e.Err)
	default:
		return e.Op + " error"
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports a match against ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// IsNotFound reports whether err means the requested product does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package validation

import (
	"errors"
	"testing"
)

func TestParseProductID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{"simple", "42", 42, false},
		{"spaces", "  7 ", 7, false},
		{"hash prefix", "#118", 118, false},
		{"max digits", "999999999999999999", 999999999999999999, false},

		{"empty", "", 0, true},
		{"zero", "0", 0, true},
		{"leading zero", "007", 0, true},
		{"negative", "-3", 0, true},
		{"letters", "abc", 0, true},
		{"path injection", "1/../stats", 0, true},
		{"query injection", "1?page=2", 0, true},
		{"too long", "1234567890123456789", 0, true},
		{"double hash", "##5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProductID(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProductID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidProductID) {
				t.Errorf("ParseProductID(%q) error = %v, want ErrInvalidProductID", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseProductID(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

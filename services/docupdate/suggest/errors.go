// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suggest

import "errors"

// Sentinel errors for the suggest package.
var (
	// ErrEmptyQuery indicates a query that is empty or whitespace-only.
	// The HTTP layer maps this to a 400.
	ErrEmptyQuery = errors.New("query must not be empty")
)

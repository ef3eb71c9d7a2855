// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// RESET SCHEDULER
// =============================================================================

// DefaultTimezone is used when the configured timezone cannot be
// loaded. The fallback is reported through Metrics warnings, never as
// an error.
const DefaultTimezone = "Europe/Warsaw"

// defaultResetHours are the daily quota reset hours in the target
// timezone when no custom hour is configured.
var defaultResetHours = []int{4, 9, 14, 18, 23}

// LoadLocation resolves name to a timezone, falling back to
// DefaultTimezone on failure. The warning return is non-empty when the
// fallback was taken.
func LoadLocation(name string) (*time.Location, string) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc, _ = time.LoadLocation(DefaultTimezone)
		return loc, fmt.Sprintf("unknown timezone %q, using %s", name, DefaultTimezone)
	}
	return loc, ""
}

// NextReset returns the next quota reset instant after now. Reset hours
// are interpreted in loc; customHour, when >= 0, replaces the default
// schedule with a single daily hour. A reset exactly at the current
// hour counts only when the local minute is zero. The result is
// expressed in now's location.
func NextReset(now time.Time, loc *time.Location, customHour int) time.Time {
	hours := defaultResetHours
	if customHour >= 0 {
		hours = []int{customHour % 24}
	}

	local := now.In(loc)
	target := -1
	for _, h := range hours {
		if h > local.Hour() || (h == local.Hour() && local.Minute() == 0) {
			target = h
			break
		}
	}

	day := local
	if target < 0 {
		target = hours[0]
		day = day.AddDate(0, 0, 1)
	}

	reset := time.Date(day.Year(), day.Month(), day.Day(), target, 0, 0, 0, loc)
	return reset.In(now.Location())
}

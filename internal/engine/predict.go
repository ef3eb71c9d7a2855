// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import "time"

// =============================================================================
// DEPLETION PREDICTION
// =============================================================================

// PredictDepletion estimates when the remaining budget runs out at the
// current burn rate. With no measurable burn or nothing left to burn,
// the horizon is the next reset. The prediction never precedes now.
func PredictDepletion(now time.Time, remaining int, ratePerMin float64, nextReset time.Time) time.Time {
	if ratePerMin <= 0 || remaining <= 0 {
		return nextReset
	}
	minutes := float64(remaining) / ratePerMin
	predicted := now.Add(time.Duration(minutes * float64(time.Minute)))
	if predicted.Before(now) {
		return now
	}
	return predicted
}

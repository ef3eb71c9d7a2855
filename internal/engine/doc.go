// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine is the pure aggregation core of the monitor.
//
// It turns a slice of usage blocks plus an explicit evaluation context
// (clock, timezone, plan) into a Metrics record: burn rates over the
// trailing hour, cost accumulated today, the active token ceiling, the
// next scheduled reset, and a depletion prediction. The engine performs
// no I/O, never mutates its inputs, and keeps no state between calls.
package engine

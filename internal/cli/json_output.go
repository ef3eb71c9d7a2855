// json_output.go - JSON output support for scripting integration.
//
// Provides a standardized JSON output format for all CLI commands so
// status and history can feed dashboards and shell scripts.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
// Human-readable messages should go to stderr when JSON mode is enabled.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// StatusData represents the data returned by the status command.
type StatusData struct {
	Plan     string  `json:"plan"`
	Timezone string  `json:"timezone"`
	Blocks   int     `json:"blocks"`
	Project  string  `json:"project,omitempty"`
	Metrics  Metrics `json:"metrics"`
}

// Metrics mirrors engine.Metrics with stable JSON field names for
// external consumers.
type Metrics struct {
	TokenBurnRate          float64   `json:"token_burn_rate"`
	CostBurnRate           float64   `json:"cost_burn_rate"`
	DailyCost              float64   `json:"daily_cost"`
	TokensUsed             int       `json:"tokens_used"`
	TokenCeiling           int       `json:"token_ceiling"`
	UsagePercent           float64   `json:"usage_percent"`
	Upgraded               bool      `json:"upgraded"`
	NextReset              time.Time `json:"next_reset"`
	PredictedDepletion     time.Time `json:"predicted_depletion"`
	WillExhaustBeforeReset bool      `json:"will_exhaust_before_reset"`
	SessionActive          bool      `json:"session_active"`
	Model                  string    `json:"model,omitempty"`
	Warnings               []string  `json:"warnings,omitempty"`
}

// ConfigData represents the data returned by the config show command.
type ConfigData struct {
	Plan          string `json:"plan"`
	Timezone      string `json:"timezone"`
	ResetHour     int    `json:"reset_hour"`
	PollInterval  int    `json:"poll_interval_secs"`
	CcusageBinary string `json:"ccusage_binary"`
	PerProject    bool   `json:"per_project"`
	Project       string `json:"project,omitempty"`
	HistoryOn     bool   `json:"history_enabled"`
	RetentionDays int    `json:"history_retention_days"`
	Path          string `json:"config_path"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

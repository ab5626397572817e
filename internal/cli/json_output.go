// json_output.go - JSON output support for scripting and automation.
//
// Provides a standardized JSON output format for all CLI commands so
// chatlore can be driven from shell scripts and piped into jq.
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

// OutputJSON prints a successful JSON envelope for a command.
func OutputJSON(command string, data interface{}) {
	NewJSONResponse(command, data).Print()
}

// OutputJSONError prints an error JSON envelope for a command.
func OutputJSONError(command string, err error) {
	NewJSONErrorResponse(command, err).Print()
}

// StderrPrintln prints a line to stderr (for human-readable output in JSON mode).
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// ChatData represents a single chat in JSON command output.
type ChatData struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UploadDate   string `json:"upload_date"`
	MessageCount int    `json:"message_count"`
}

// UploadData represents the data returned by the upload command.
type UploadData struct {
	ChatID       string `json:"chat_id"`
	Name         string `json:"name"`
	MessageCount int    `json:"message_count"`
}

// AnalysisData represents the data returned by the analyze command.
type AnalysisData struct {
	ChatID          string              `json:"chat_id"`
	SecurityScore   int                 `json:"security_score"`
	Grade           string              `json:"grade"`
	Findings        int                 `json:"findings"`
	Recommendations int                 `json:"recommendations"`
	SensitiveData   map[string][]string `json:"sensitive_data,omitempty"`
}

// SearchResultData represents a single hit in search command output.
type SearchResultData struct {
	Sender      string   `json:"sender"`
	Content     string   `json:"content"`
	Timestamp   string   `json:"timestamp"`
	Similarity  float64  `json:"similarity,omitempty"`
	Before      []string `json:"context_before,omitempty"`
	After       []string `json:"context_after,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// ExportData represents the data returned by the export command.
type ExportData struct {
	ChatID string `json:"chat_id"`
	Format string `json:"format"`
	Path   string `json:"path"`
}

// Package export runs external exporter programs after each session. An
// exporter lives in its own directory with an exporter.json manifest; it
// receives the session report as JSON on stdin and writes a JSON response to
// stdout. Clinics use exporters to push session data into their own record
// systems without touching this codebase.
package export

import "encoding/json"

// Manifest describes an exporter's metadata.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
}

// Request is the document sent to an exporter on stdin.
type Request struct {
	SessionID string          `json:"session_id"`
	Metrics   json.RawMessage `json:"metrics"`
}

// Response is what an exporter writes to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Exporter is a discovered exporter with its manifest and location.
type Exporter struct {
	Manifest   Manifest
	Path       string
	Executable string
}

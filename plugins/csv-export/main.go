// Package main provides a CSV exporter. It appends one row per session to
// sessions.csv next to the executable, creating the file with a header row
// on first use.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Request is the input from the export executor.
type Request struct {
	SessionID string          `json:"session_id"`
	Metrics   json.RawMessage `json:"metrics"`
}

// Response is the output to the export executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// metrics mirrors the parts of the session report this exporter flattens.
type metrics struct {
	GameName string `json:"game_name"`
	Score    int    `json:"score"`
	Metadata struct {
		DurationSeconds   float64 `json:"duration_seconds"`
		HandDetectionRate float64 `json:"hand_detection_rate"`
	} `json:"session_metadata"`
	Movement struct {
		SmoothnessScore float64 `json:"movement_smoothness_score"`
	} `json:"hand_movement_analytics"`
	Pinch struct {
		Attempts    int     `json:"total_pinch_attempts"`
		SuccessRate float64 `json:"pinch_success_rate"`
	} `json:"pinch_analytics"`
}

const outputFile = "sessions.csv"

var header = []string{
	"session_id", "game", "score", "duration_seconds",
	"hand_detection_rate", "smoothness_score", "pinch_attempts", "pinch_success_rate",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var m metrics
	if err := json.Unmarshal(req.Metrics, &m); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to parse metrics: %v", err))
		return
	}

	if err := appendRow(req.SessionID, m); err != nil {
		writeErrorResponse(err.Error())
		return
	}

	writeResponse(Response{Success: true})
}

func appendRow(sessionID string, m metrics) error {
	_, statErr := os.Stat(outputFile)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", outputFile, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(header); err != nil {
			return err
		}
	}

	row := []string{
		sessionID,
		m.GameName,
		strconv.Itoa(m.Score),
		strconv.FormatFloat(m.Metadata.DurationSeconds, 'f', 2, 64),
		strconv.FormatFloat(m.Metadata.HandDetectionRate, 'f', 2, 64),
		strconv.FormatFloat(m.Movement.SmoothnessScore, 'f', 2, 64),
		strconv.Itoa(m.Pinch.Attempts),
		strconv.FormatFloat(m.Pinch.SuccessRate, 'f', 2, 64),
	}
	if err := w.Write(row); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}

func writeErrorResponse(msg string) {
	writeResponse(Response{Success: false, Error: msg})
}

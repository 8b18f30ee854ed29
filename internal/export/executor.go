package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Executor runs exporters with a timeout so a hung exporter cannot stall the
// session pipeline.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor with the given per-run timeout.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout}
}

// Execute runs one exporter: the request is marshalled to JSON and piped to
// stdin, stdout is parsed as a Response. The exporter runs with its own
// directory as working directory.
func (e *Executor) Execute(exporter *Exporter, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, exporter.Executable)
	cmd.Dir = exporter.Path

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("exporter timeout after %s", e.timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return nil, fmt.Errorf("exporter failed: %w, stderr: %s", err, s)
		}
		return nil, fmt.Errorf("exporter failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse exporter response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}

// RunAll executes every discovered exporter for one session and returns the
// per-exporter errors keyed by name. Exporters run sequentially; session
// saves already happened, so a failure here loses nothing.
func RunAll(m *Manager, e *Executor, sessionID string, metrics json.RawMessage) map[string]error {
	errs := make(map[string]error)
	req := &Request{SessionID: sessionID, Metrics: metrics}

	for _, exporter := range m.List() {
		resp, err := e.Execute(exporter, req)
		if err != nil {
			errs[exporter.Manifest.Name] = err
			continue
		}
		if !resp.Success {
			errs[exporter.Manifest.Name] = fmt.Errorf("exporter reported failure: %s", resp.Error)
		}
	}

	return errs
}

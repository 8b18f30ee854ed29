package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeExporter drops a shell script plus manifest into dir/name and returns
// the Exporter pointing at it.
func writeExporter(t *testing.T, dir, name, script string) *Exporter {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create exporter dir: %v", err)
	}

	scriptPath := filepath.Join(path, name+".sh")
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	manifest := Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: name + ".sh",
	}
	data, _ := json.Marshal(manifest)
	if err := os.WriteFile(filepath.Join(path, "exporter.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	return &Exporter{
		Manifest:   manifest,
		Path:       path,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "rehand-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	script := `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"rows_written":1}}
EOF
`
	exporter := writeExporter(t, tmpDir, "ok-exporter", script)

	request := &Request{
		SessionID: "sess-1",
		Metrics:   json.RawMessage(`{"game_name":"balloon_pop","score":120}`),
	}

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(exporter, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true, got false")
	}

	var data map[string]any
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["rows_written"] != float64(1) {
		t.Errorf("rows_written = %v, want 1", data["rows_written"])
	}
}

func TestExecutor_Execute_ReceivesMetricsOnStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "rehand-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Echo the stdin document back so the test can verify what arrived
	script := `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`
	exporter := writeExporter(t, tmpDir, "echo-exporter", script)

	request := &Request{
		SessionID: "sess-42",
		Metrics:   json.RawMessage(`{"score":77}`),
	}

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(exporter, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data.Received.SessionID != "sess-42" {
		t.Errorf("session_id = %q, want sess-42", data.Received.SessionID)
	}
	if !strings.Contains(string(data.Received.Metrics), "77") {
		t.Errorf("metrics did not round-trip: %s", data.Received.Metrics)
	}
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "rehand-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	script := `#!/bin/sh
sleep 10
echo '{"success":true}'
`
	exporter := writeExporter(t, tmpDir, "slow-exporter", script)

	executor := NewExecutor(100 * time.Millisecond)
	_, err = executor.Execute(exporter, &Request{SessionID: "s", Metrics: json.RawMessage(`{}`)})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("error = %v, want a timeout", err)
	}
}

func TestExecutor_Execute_FailureSurfacesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "rehand-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	script := `#!/bin/sh
echo "disk full" >&2
exit 1
`
	exporter := writeExporter(t, tmpDir, "broken-exporter", script)

	executor := NewExecutor(5 * time.Second)
	_, err = executor.Execute(exporter, &Request{SessionID: "s", Metrics: json.RawMessage(`{}`)})
	if err == nil {
		t.Fatal("expected error from failing exporter")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want stderr content included", err)
	}
}

func TestManager_Discover(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "rehand-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeExporter(t, tmpDir, "csv-export", "#!/bin/sh\necho '{\"success\":true}'\n")
	writeExporter(t, tmpDir, "fhir-export", "#!/bin/sh\necho '{\"success\":true}'\n")

	// A directory without a manifest is not an exporter
	os.MkdirAll(filepath.Join(tmpDir, "not-an-exporter"), 0755)

	m := NewManager(tmpDir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if len(m.List()) != 2 {
		t.Errorf("discovered %d exporters, want 2", len(m.List()))
	}

	e, err := m.Get("csv-export")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if e.Manifest.Executable != "csv-export.sh" {
		t.Errorf("executable = %q, want csv-export.sh", e.Manifest.Executable)
	}

	if _, err := m.Get("missing"); err != ErrExporterNotFound {
		t.Errorf("error = %v, want ErrExporterNotFound", err)
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	m := NewManager("/nonexistent/exporters")
	if err := m.Discover(); err != nil {
		t.Errorf("Discover() on missing dir should be a no-op, got %v", err)
	}
	if len(m.List()) != 0 {
		t.Errorf("exporters = %d, want 0", len(m.List()))
	}
}

func TestRunAll(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "rehand-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeExporter(t, tmpDir, "good", "#!/bin/sh\necho '{\"success\":true}'\n")
	writeExporter(t, tmpDir, "bad", "#!/bin/sh\necho '{\"success\":false,\"error\":\"upstream rejected\"}'\n")

	m := NewManager(tmpDir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	errs := RunAll(m, NewExecutor(5*time.Second), "sess-1", json.RawMessage(`{}`))
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}
	if _, ok := errs["bad"]; !ok {
		t.Error("the failing exporter should be reported by name")
	}
}

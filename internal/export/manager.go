package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrExporterNotFound is returned when a requested exporter cannot be found.
var ErrExporterNotFound = errors.New("exporter not found")

// Manager handles exporter discovery and access.
type Manager struct {
	dir       string
	exporters map[string]*Exporter
	mu        sync.RWMutex
}

// NewManager creates a Manager scanning the given directory.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:       dir,
		exporters: make(map[string]*Exporter),
	}
}

// Discover scans the exporter directory. Each subdirectory with an
// exporter.json manifest becomes an exporter; unreadable or malformed
// entries are skipped so one broken exporter never blocks the rest.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exporters = make(map[string]*Exporter)

	info, err := os.Stat(m.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(m.dir, entry.Name())
		manifestPath := filepath.Join(path, "exporter.json")

		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			continue
		}

		m.exporters[manifest.Name] = &Exporter{
			Manifest:   manifest,
			Path:       path,
			Executable: filepath.Join(path, manifest.Executable),
		}
	}

	return nil
}

// Get returns an exporter by name, or ErrExporterNotFound.
func (m *Manager) Get(name string) (*Exporter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exporter, ok := m.exporters[name]
	if !ok {
		return nil, ErrExporterNotFound
	}

	return exporter, nil
}

// List returns all discovered exporters.
func (m *Manager) List() []*Exporter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exporters := make([]*Exporter, 0, len(m.exporters))
	for _, e := range m.exporters {
		exporters = append(exporters, e)
	}

	return exporters
}

// Dir returns the exporter directory path.
func (m *Manager) Dir() string {
	return m.dir
}

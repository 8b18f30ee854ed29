// Package app wires the capture, detection, session and export pieces into
// the running application.
package app

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/rehand/internal/calibration"
	"github.com/ayusman/rehand/internal/capture"
	"github.com/ayusman/rehand/internal/detector"
	"github.com/ayusman/rehand/internal/export"
	"github.com/ayusman/rehand/internal/game"
	"github.com/ayusman/rehand/internal/server"
	"github.com/ayusman/rehand/internal/store"
)

// Pipeline timing constants.
const (
	// IdleTimeout is how long after the last motion the pipeline waits
	// before dropping back to the idle frame rate.
	IdleTimeout = 2 * time.Second

	// SessionLostTimeout ends a running session when no hand has been seen
	// for this long.
	SessionLostTimeout = 10 * time.Second

	// ExportTimeout bounds each exporter run after a session.
	ExportTimeout = 5 * time.Second
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	ExporterDir  string
	CameraID     int
	MotionThresh float64

	// GameName selects the exercise: balloon_pop, angle_master or
	// maze_navigation.
	GameName string

	// Recalibrate forces a fresh calibration window even when a saved
	// result exists.
	Recalibrate bool
}

// App orchestrates the exercise pipeline: idle until motion, calibrate,
// run a session, persist and export its metrics.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	exportMgr  *export.Manager
	exportExec *export.Executor
	live       *server.LiveHandler

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	lastSummary string
}

// New creates an App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}
	if config.GameName == "" {
		config.GameName = "balloon_pop"
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		exportMgr:  export.NewManager(config.ExporterDir),
		exportExec: export.NewExecutor(ExportTimeout),
		live:       server.NewLiveHandler(),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables the exercise pipeline.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the pipeline is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Live returns the WebSocket hub the pipeline publishes exercise state to.
func (a *App) Live() *server.LiveHandler {
	return a.live
}

// LastSessionSummary returns a short description of the most recently
// completed session, for the tray menu.
func (a *App) LastSessionSummary() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastSummary
}

func (a *App) setLastSummary(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastSummary = s
}

// DiscoverExporters scans the exporter directory.
func (a *App) DiscoverExporters() error {
	return a.exportMgr.Discover()
}

// newGame builds the configured exercise. The seed keeps balloon spawns
// reproducible within a session while varying between sessions.
func (a *App) newGame(seed int64) (game.Game, error) {
	switch a.config.GameName {
	case "balloon_pop":
		return game.NewBalloonPop(game.DefaultBalloonPopConfig(), seed), nil
	case "angle_master":
		return game.NewAngleMaster(game.DefaultAngleMasterConfig()), nil
	case "maze_navigation":
		return game.NewMaze(game.DefaultMazeConfig()), nil
	default:
		return nil, fmt.Errorf("unknown game %q", a.config.GameName)
	}
}

// loadCalibration returns the persisted calibration result, or ok=false when
// none is stored or a recalibration was requested.
func (a *App) loadCalibration() (calibration.Result, bool) {
	if a.config.Store == nil || a.config.Recalibrate {
		return calibration.Result{}, false
	}

	raw, err := a.config.Store.Settings().Get(store.CalibrationSettingKey)
	if err != nil {
		return calibration.Result{}, false
	}

	var result calibration.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Printf("Discarding unreadable calibration setting: %v", err)
		return calibration.Result{}, false
	}
	return result, true
}

// saveCalibration persists a calibration result for future sessions.
func (a *App) saveCalibration(result calibration.Result) {
	if a.config.Store == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := a.config.Store.Settings().Set(store.CalibrationSettingKey, string(raw)); err != nil {
		log.Printf("Failed to save calibration: %v", err)
	}
}

// Start begins the exercise pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Exercise pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Exercise pipeline stopped")
}

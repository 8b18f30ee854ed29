package app

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/rehand/internal/calibration"
	"github.com/ayusman/rehand/internal/capture"
	"github.com/ayusman/rehand/internal/detector"
	"github.com/ayusman/rehand/internal/export"
	"github.com/ayusman/rehand/internal/gesture"
	"github.com/ayusman/rehand/internal/server"
	"github.com/ayusman/rehand/internal/session"
	"github.com/ayusman/rehand/internal/store"
)

// pipelinePhase is the pipeline state.
type pipelinePhase int

const (
	// phaseIdle waits at the low frame rate for motion.
	phaseIdle pipelinePhase = iota
	// phaseCalibrating observes the hand for the calibration window.
	phaseCalibrating
	// phaseActive runs an exercise session.
	phaseActive
)

// runPipeline is the main capture loop.
//
// Phases:
//  1. Idle at IdleFPS until the motion gate fires.
//  2. Calibrate for the calibration window at ActiveFPS, unless a saved
//     calibration exists.
//  3. Run the session at ActiveFPS until the game finishes or the hand has
//     been gone for SessionLostTimeout.
//  4. Persist the metrics, run the exporters, drop back to idle.
func (a *App) runPipeline() {
	phase := phaseIdle
	lastMotionTime := time.Now()
	lastHandTime := time.Now()

	var calibrator *calibration.Calibrator
	var calibrationEnd time.Time
	var sess *session.Session
	var sessionStart time.Time

	frameInterval := time.Second / time.Duration(capture.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	setRate := func(fps int) {
		a.camera.SetFPS(fps)
		frameInterval = time.Second / time.Duration(fps)
		ticker.Reset(frameInterval)
	}

	toIdle := func() {
		phase = phaseIdle
		calibrator = nil
		sess = nil
		a.motion.Reset()
		setRate(capture.IdleFPS)
		log.Println("Switched to idle mode")
	}

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			now := time.Now()

			switch phase {
			case phaseIdle:
				motionDetected, _ := a.motion.Detect(frame)
				frame.Close()
				if !motionDetected {
					continue
				}
				lastMotionTime = now
				lastHandTime = now
				setRate(capture.ActiveFPS)

				if result, ok := a.loadCalibration(); ok {
					sess, sessionStart = a.startSession(result, now)
					if sess == nil {
						toIdle()
						continue
					}
					phase = phaseActive
				} else {
					calibrator = calibration.NewCalibrator()
					calibrationEnd = now.Add(calibration.DefaultWindow)
					phase = phaseCalibrating
					log.Println("Calibration started")
				}

			case phaseCalibrating:
				snap, detected := a.snapshot(frame)
				frame.Close()

				if detected {
					calibrator.Observe(snap)
					lastMotionTime = now
				} else if now.Sub(lastMotionTime) > IdleTimeout {
					// Hand never showed up, abandon calibration
					toIdle()
					continue
				}

				if now.After(calibrationEnd) {
					result := calibrator.Result()
					if calibrator.Samples() == 0 {
						log.Println("Calibration saw no hand, using defaults")
					} else {
						log.Printf("Calibrated: threshold %.1f px, sensitivity %.1f",
							result.PinchThreshold, result.Sensitivity)
					}
					a.saveCalibration(result)

					sess, sessionStart = a.startSession(result, now)
					if sess == nil {
						toIdle()
						continue
					}
					phase = phaseActive
					lastHandTime = now
				}

			case phaseActive:
				snap, detected := a.snapshot(frame)
				frame.Close()

				if detected {
					lastHandTime = now
				}

				state := sess.ProcessFrame(snap, now)
				a.live.Publish(server.LiveUpdate{
					Game:      sess.Game().Name(),
					Pinching:  state.Pinching,
					CursorX:   state.Cursor.X,
					CursorY:   state.Cursor.Y,
					HasCursor: state.HasCursor,
					Score:     state.Score,
					Timestamp: now.UnixMilli(),
				})

				if sess.Finished() || now.Sub(lastHandTime) > SessionLostTimeout {
					a.finishSession(sess, sessionStart, now)
					toIdle()
				}
			}
		}
	}
}

// snapshot runs hand detection on a frame and projects the first hand into
// pixel space.
func (a *App) snapshot(frame *gocv.Mat) (detector.Snapshot, bool) {
	d := a.Detector()
	if d == nil {
		return detector.Snapshot{}, false
	}

	hands, err := d.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return detector.Snapshot{}, false
	}
	if len(hands) == 0 {
		return detector.Snapshot{}, false
	}

	snap := hands[0].Snapshot(frame.Cols(), frame.Rows())
	return snap, !snap.Empty()
}

// startSession builds the configured game and a session around it.
func (a *App) startSession(cal calibration.Result, now time.Time) (*session.Session, time.Time) {
	g, err := a.newGame(rand.Int63())
	if err != nil {
		log.Printf("Cannot start session: %v", err)
		return nil, time.Time{}
	}

	log.Printf("Session started: %s (threshold %.1f px)", g.Name(), cal.PinchThreshold)
	return session.New(g, gesture.Config{Threshold: cal.PinchThreshold}), now
}

// finishSession closes the session, stores its metrics and runs the
// exporters. Export failures are logged only; the session is already saved.
func (a *App) finishSession(sess *session.Session, started, now time.Time) {
	metrics := sess.End(now)

	raw, err := json.Marshal(metrics)
	if err != nil {
		log.Printf("Failed to encode session metrics: %v", err)
		return
	}

	id := uuid.New().String()
	if a.config.Store != nil {
		err := a.config.Store.Sessions().Create(&store.SessionRecord{
			ID:              id,
			Game:            metrics.GameName,
			Score:           metrics.Score,
			StartedAt:       started,
			DurationSeconds: metrics.SessionMetadata.DurationSeconds,
			Metrics:         raw,
		})
		if err != nil {
			log.Printf("Failed to save session: %v", err)
		}
	}

	for name, err := range export.RunAll(a.exportMgr, a.exportExec, id, raw) {
		log.Printf("Exporter %s failed: %v", name, err)
	}

	a.setLastSummary(fmt.Sprintf("%s: score %d, %d pinches",
		metrics.GameName, metrics.Score, metrics.Pinch.TotalPinchAttempts))
	log.Printf("Session finished: %s score=%d duration=%.1fs",
		metrics.GameName, metrics.Score, metrics.SessionMetadata.DurationSeconds)
}

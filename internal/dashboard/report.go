// Package dashboard aggregates stored sessions into the progress report the
// web UI renders: per-day rollups plus an overall recovery score.
package dashboard

import (
	"encoding/json"
	"sort"

	"github.com/ayusman/rehand/internal/analytics"
	"github.com/ayusman/rehand/internal/store"
)

// DayReport is one calendar day of exercise activity.
type DayReport struct {
	Date                 string  `json:"date"`
	Sessions             int     `json:"sessions"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	AvgScore             float64 `json:"avg_score"`
	AvgDetectionRate     float64 `json:"avg_detection_rate"`
	AvgSmoothness        float64 `json:"avg_smoothness"`
	AvgPinchSuccessRate  float64 `json:"avg_pinch_success_rate"`
}

// Report is the full dashboard payload.
type Report struct {
	TotalSessions int         `json:"total_sessions"`
	Days          []DayReport `json:"days"`

	// OverallScore is the mean of the average detection rate, smoothness
	// and pinch success rate across all sessions, a single 0-100 trend
	// number for the UI headline.
	OverallScore float64 `json:"overall_score"`
}

type dayAccum struct {
	sessions  int
	duration  float64
	scores    []float64
	detection []float64
	smooth    []float64
	pinchRate []float64
}

// Build assembles the report from session records. Zero-valued rate metrics
// are excluded from the averages: a session with no recorded movement says
// nothing about smoothness, and averaging its zero in would read as the
// patient getting worse.
func Build(records []*store.SessionRecord) Report {
	days := make(map[string]*dayAccum)
	var allDetection, allSmooth, allPinch []float64

	for _, rec := range records {
		var m analytics.SessionMetrics
		if err := json.Unmarshal(rec.Metrics, &m); err != nil {
			continue
		}

		date := rec.StartedAt.Format("2006-01-02")
		acc, ok := days[date]
		if !ok {
			acc = &dayAccum{}
			days[date] = acc
		}

		acc.sessions++
		acc.duration += m.SessionMetadata.DurationSeconds
		acc.scores = append(acc.scores, float64(m.Score))

		if v := m.SessionMetadata.HandDetectionRate; v > 0 {
			acc.detection = append(acc.detection, v)
			allDetection = append(allDetection, v)
		}
		if v := m.HandMovement.MovementSmoothnessScore; v > 0 {
			acc.smooth = append(acc.smooth, v)
			allSmooth = append(allSmooth, v)
		}
		if v := m.Pinch.PinchSuccessRate; v > 0 {
			acc.pinchRate = append(acc.pinchRate, v)
			allPinch = append(allPinch, v)
		}
	}

	report := Report{}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		acc := days[date]
		report.TotalSessions += acc.sessions
		report.Days = append(report.Days, DayReport{
			Date:                 date,
			Sessions:             acc.sessions,
			TotalDurationSeconds: analytics.Round2(acc.duration),
			AvgScore:             analytics.Round2(avg(acc.scores)),
			AvgDetectionRate:     analytics.Round2(avg(acc.detection)),
			AvgSmoothness:        analytics.Round2(avg(acc.smooth)),
			AvgPinchSuccessRate:  analytics.Round2(avg(acc.pinchRate)),
		})
	}

	var components []float64
	for _, vals := range [][]float64{allDetection, allSmooth, allPinch} {
		if len(vals) > 0 {
			components = append(components, avg(vals))
		}
	}
	report.OverallScore = analytics.Round2(avg(components))

	return report
}

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

package analytics

// SessionMetrics is the full report produced at the end of a session. Its
// JSON shape is the storage and export format; exporters receive exactly this
// document on stdin, so field names are part of the external contract.
type SessionMetrics struct {
	GameName            string            `json:"game_name"`
	Score               int               `json:"score"`
	SessionMetadata     SessionMetadata   `json:"session_metadata"`
	HandMovement        MovementAnalytics `json:"hand_movement_analytics"`
	Pinch               PinchAnalytics    `json:"pinch_analytics"`
	GameSpecificMetrics map[string]any    `json:"game_specific_metrics"`
}

// SessionMetadata describes the session as a whole.
type SessionMetadata struct {
	DurationSeconds   float64 `json:"duration_seconds"`
	TotalFrames       int     `json:"total_frames"`
	HandDetectionRate float64 `json:"hand_detection_rate"`
}

// MovementAnalytics summarizes how the hand moved during the session.
// Speeds are pixels per second, distances pixels.
type MovementAnalytics struct {
	TotalMovements           int     `json:"total_movements"`
	SuccessfulInteractions   int     `json:"successful_interactions"`
	InteractionEffectiveness float64 `json:"interaction_effectiveness"`
	AvgMovementSpeed         float64 `json:"avg_movement_speed"`
	MaxMovementSpeed         float64 `json:"max_movement_speed"`
	TotalMovementDistance    float64 `json:"total_movement_distance"`
	MovementSmoothnessScore  float64 `json:"movement_smoothness_score"`
	TrackingLostCount        int     `json:"tracking_lost_count"`
}

// PinchAnalytics summarizes the pinch attempts of the session. Distances are
// pixels, durations and gaps seconds.
type PinchAnalytics struct {
	TotalPinchAttempts    int     `json:"total_pinch_attempts"`
	SuccessfulPinches     int     `json:"successful_pinches"`
	FailedPinches         int     `json:"failed_pinches"`
	PinchSuccessRate      float64 `json:"pinch_success_rate"`
	AvgPinchDistance      float64 `json:"avg_pinch_distance"`
	MinPinchDistance      float64 `json:"min_pinch_distance"`
	MaxPinchDistance      float64 `json:"max_pinch_distance"`
	AvgPinchDuration      float64 `json:"avg_pinch_duration"`
	AvgTimeBetweenPinches float64 `json:"avg_time_between_pinches"`
	PinchConsistency      float64 `json:"pinch_consistency"`
}

// BuildMovementAnalytics assembles the movement section from a finished
// tracker and the game's interaction counters. All derived values are rounded
// to two decimals.
func BuildMovementAnalytics(t *MotionTracker, interactions, successful int) MovementAnalytics {
	var effectiveness float64
	if interactions > 0 {
		effectiveness = 100 * float64(successful) / float64(interactions)
	}
	return MovementAnalytics{
		TotalMovements:           t.MovementCount(),
		SuccessfulInteractions:   successful,
		InteractionEffectiveness: Round2(effectiveness),
		AvgMovementSpeed:         Round2(t.AvgSpeed()),
		MaxMovementSpeed:         Round2(t.MaxSpeed()),
		TotalMovementDistance:    Round2(t.TotalDistance()),
		MovementSmoothnessScore:  Round2(t.SmoothnessScore()),
		TrackingLostCount:        t.TrackingLostCount(),
	}
}

// BuildPinchAnalytics assembles the pinch section from a finished tracker.
// All derived values are rounded to two decimals.
func BuildPinchAnalytics(t *PinchTracker) PinchAnalytics {
	return PinchAnalytics{
		TotalPinchAttempts:    t.Attempts(),
		SuccessfulPinches:     t.Successes(),
		FailedPinches:         t.Attempts() - t.Successes(),
		PinchSuccessRate:      Round2(t.SuccessRate()),
		AvgPinchDistance:      Round2(t.AvgDistance()),
		MinPinchDistance:      Round2(t.MinDistance()),
		MaxPinchDistance:      Round2(t.MaxDistance()),
		AvgPinchDuration:      Round2(t.AvgDuration()),
		AvgTimeBetweenPinches: Round2(t.AvgGap()),
		PinchConsistency:      Round2(t.Consistency()),
	}
}

package service

import (
	"clever_backend/internal/config"
	"clever_backend/internal/grading"
	"math"
	"sync/atomic"
)

// QuizSettings holds the quiz knobs that a config reload may change while
// requests are in flight.
type QuizSettings struct {
	threshold atomic.Uint64
	strict    atomic.Bool
}

func NewQuizSettings(cfg config.QuizConfig) *QuizSettings {
	s := &QuizSettings{}
	s.Apply(cfg)
	return s
}

// Apply swaps in new values. An out-of-range threshold falls back to the default.
func (s *QuizSettings) Apply(cfg config.QuizConfig) {
	t := cfg.PassThreshold
	if t < 0 || t > 100 || math.IsNaN(t) {
		t = grading.DefaultPassThreshold
	}
	s.threshold.Store(math.Float64bits(t))
	s.strict.Store(cfg.StrictAuthoring)
}

func (s *QuizSettings) PassThreshold() float64 {
	return math.Float64frombits(s.threshold.Load())
}

func (s *QuizSettings) StrictAuthoring() bool {
	return s.strict.Load()
}

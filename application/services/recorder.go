package services

import "time"

// Recorder receives session activity for metrics. The Prometheus collector
// satisfies it; tests use NopRecorder.
type Recorder interface {
	RecordGraphMutation(kind string)
	RecordPrompt(outcome string, d time.Duration)
	RecordGeneration(warnings int, d time.Duration)
	SetActiveSessions(n int)
}

// Prompt outcomes reported to the Recorder
const (
	PromptApplied   = "applied"
	PromptRejected  = "rejected"
	PromptCancelled = "cancelled"
	PromptFailed    = "failed"
)

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) RecordGraphMutation(string) {}
func (NopRecorder) RecordPrompt(string, time.Duration) {}
func (NopRecorder) RecordGeneration(int, time.Duration) {}
func (NopRecorder) SetActiveSessions(int) {}

package models

import "time"

type ConversionState string

const (
	ConversionSucceeded ConversionState = "Succeeded"
	ConversionFailed    ConversionState = "Failed"
)

// ConversionRecord is the history entry kept for every conversion.
type ConversionRecord struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	Target       string          `json:"target"`
	PipelineName string          `json:"pipelineName,omitempty"`
	State        ConversionState `json:"state"`
	Error        string          `json:"error,omitempty"`
	JobCount     int             `json:"jobCount"`
	InputBytes   int             `json:"inputBytes"`
	OutputBytes  int             `json:"outputBytes"`
	LatencyMs    int64           `json:"latencyMs"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

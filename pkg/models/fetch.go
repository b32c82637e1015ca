package models

import "time"

// Outcome classifies how a fetch ended.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeQuotaExceeded  Outcome = "quota_exceeded"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeDecodeError    Outcome = "decode_error"
)

// FetchRecord is one attempted resource fetch.
type FetchRecord struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	ResourceID string    `json:"resource_id"`
	Outcome    Outcome   `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	Bytes      int       `json:"bytes"`
	LatencyMs  int64     `json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// FetchSummary aggregates fetches by kind and outcome.
type FetchSummary struct {
	Kind         string  `json:"kind"`
	Outcome      Outcome `json:"outcome"`
	Count        int     `json:"count"`
	TotalBytes   int64   `json:"total_bytes"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

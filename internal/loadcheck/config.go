package loadcheck

import (
	"encoding/json"
	"time"
)

// Config holds configuration for a load check run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of requests to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	IncludeAI   bool          // Also send AI prompts (needs a configured key on the server)
	OutputFile  string        // Where to write failed cases; empty skips the report
	Verbose     bool          // Log every failed case
}

// Case is one request together with the response it must produce.
type Case struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Body       map[string]any `json:"body"`
	WantStatus int            `json:"want_status"`
	WantError  string         `json:"want_error,omitempty"`
	// WantData is the compact JSON of data; empty means only the shape is checked.
	WantData string `json:"want_data,omitempty"`
}

// Envelope mirrors the service response body.
type Envelope struct {
	IsSuccess     bool            `json:"is_success"`
	OfficialEmail string          `json:"official_email"`
	Data          json.RawMessage `json:"data,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Failure records a case whose response did not match.
type Failure struct {
	Case   Case   `json:"case"`
	Status int    `json:"status"`
	Body   string `json:"body"`
	Reason string `json:"reason"`
}

// Stats holds run statistics.
type Stats struct {
	CasesGenerated int
	Submitted      int
	Passed         int
	Failed         int
	ByKind         map[string]int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

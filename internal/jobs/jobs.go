package jobs

import (
	"encoding/json"
	"time"
)

// Job names carried in the envelope.
const (
	JobExportCSV = "export_csv"
)

// Envelope headers.
const (
	HeaderJobID     = "job-id"
	HeaderJobName   = "job-name"
	HeaderTimestamp = "timestamp"
)

// Envelope is the wire form of one unit of background work.
type Envelope struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExportCSVPayload asks the worker to email a user their booking history.
type ExportCSVPayload struct {
	UserID int64 `json:"user_id"`
}

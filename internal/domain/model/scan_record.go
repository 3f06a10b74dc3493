package model

import "time"

// ScanRecord is one entry in a user's scan history: which execution was
// triggered and when. The result itself is not stored here; it is re-resolved
// (or supplied from the client's cached copy) on demand.
type ScanRecord struct {
	ExecutionID string    `json:"executionId" db:"execution_id"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

package models

import "time"

// HistoryEntry is one submitted command line kept for recall.
type HistoryEntry struct {
	Seq       uint64    `json:"seq"`
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}

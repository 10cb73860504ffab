package models

import "time"

// SyncState is the record persisted between runs for change detection.
type SyncState struct {
	LastSync   time.Time `json:"lastSync"`
	SongsHash  string    `json:"songsHash"`
	RunID      string    `json:"runId"`
	TotalSongs int       `json:"totalSongs"`
	ForcedSync bool      `json:"forcedSync"`
}

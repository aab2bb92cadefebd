package domain

import "time"

// DriverRecord is the persisted ownership record of a spawned driver process.
// It survives a hard crash of the server so the next run can reclaim the process group.
type DriverRecord struct {
	PID       int       `json:"pid" yaml:"pid"`
	PGID      int       `json:"pgid" yaml:"pgid"`
	Port      int       `json:"port" yaml:"port"`
	Path      string    `json:"path" yaml:"path"`
	Owner     string    `json:"owner" yaml:"owner"` // host:pid of the server that spawned it
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}

// SessionRecord is the persisted metadata of an automation session.
type SessionRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Application string    `json:"application" yaml:"application"`
	DriverURL   string    `json:"driver_url" yaml:"driver_url"`
	Current     bool      `json:"current" yaml:"current"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

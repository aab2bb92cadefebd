package ports

import (
	"context"

	"github.com/aretw0/tauribridge/pkg/domain"
)

// RecordStore persists the ownership records of driver processes and sessions.
// Driver records outlive a crashed server so that the next run can reclaim the
// orphaned process group.
type RecordStore interface {
	// SaveDriver persists the record of the driver listening on rec.Port.
	SaveDriver(ctx context.Context, rec domain.DriverRecord) error

	// LoadDriver retrieves the driver record for a port.
	// Returns domain.ErrRecordNotFound if there is none.
	LoadDriver(ctx context.Context, port int) (domain.DriverRecord, error)

	// DeleteDriver removes the driver record for a port. Missing records are not an error.
	DeleteDriver(ctx context.Context, port int) error

	// ListDrivers returns every persisted driver record.
	ListDrivers(ctx context.Context) ([]domain.DriverRecord, error)

	// SaveSession persists a session record, replacing any record with the same ID.
	SaveSession(ctx context.Context, rec domain.SessionRecord) error

	// DeleteSession removes a session record. Missing records are not an error.
	DeleteSession(ctx context.Context, id string) error

	// ListSessions returns every persisted session record.
	ListSessions(ctx context.Context) ([]domain.SessionRecord, error)
}

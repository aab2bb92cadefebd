package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/tauribridge/pkg/domain"
)

// ReapStale kills drivers recorded by a previous server that is no longer running.
// Records owned by this process, by a live server on this host, or by another
// host are left alone. Dead or unrelated PIDs only have their record removed.
func (s *Supervisor) ReapStale(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}

	records, err := s.store.ListDrivers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list driver records: %w", err)
	}

	s.mu.Lock()
	tracked := s.handle
	s.mu.Unlock()

	var (
		reaped int
		errs   []error
	)
	for _, rec := range records {
		if tracked != nil && tracked.PID == rec.PID {
			continue
		}
		if rec.Owner == s.owner {
			continue
		}
		host, pid, ok := splitOwner(rec.Owner)
		if ok && host != localHost() {
			continue
		}
		if ok && processAlive(pid) {
			s.logger.Debug("driver owner still running; skipping", "owner", rec.Owner, "pid", rec.PID)
			continue
		}

		if processAlive(rec.PID) && s.isDriver(rec) {
			s.logger.Info("reaping stale tauri-driver", "pid", rec.PID, "pgid", rec.PGID, "port", rec.Port, "owner", rec.Owner)
			if err := killGroup(rec.PGID); err != nil {
				errs = append(errs, fmt.Errorf("failed to kill stale driver %d: %w", rec.PID, err))
				continue
			}
			reaped++
		}

		if err := s.store.DeleteDriver(ctx, rec.Port); err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			errs = append(errs, fmt.Errorf("failed to delete driver record %d: %w", rec.Port, err))
		}
	}

	return reaped, errors.Join(errs...)
}

// isDriver guards against PID reuse: the live process must carry the recorded binary name.
func (s *Supervisor) isDriver(rec domain.DriverRecord) bool {
	name, err := processName(rec.PID)
	if err != nil {
		s.logger.Warn("cannot verify stale driver identity; leaving it running", "pid", rec.PID, "err", err)
		return false
	}
	want := filepath.Base(rec.Path)
	// comm is truncated to 15 bytes on Linux.
	if len(want) > 15 {
		want = want[:15]
	}
	return name == want
}

func splitOwner(owner string) (string, int, bool) {
	i := strings.LastIndex(owner, ":")
	if i < 0 {
		return "", 0, false
	}
	pid, err := strconv.Atoi(owner[i+1:])
	if err != nil {
		return "", 0, false
	}
	return owner[:i], pid, true
}

func localHost() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

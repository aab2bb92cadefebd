package supervisor

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
)

// Handle is a running driver process.
type Handle struct {
	PID       int
	PGID      int
	Port      int
	Path      string
	StartedAt time.Time

	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

// Alive reports whether the driver process has not exited yet.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Done is closed once the process has been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err is the exit error of the process. Only meaningful after Done.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.waitErr
	default:
		return nil
	}
}

// URL is the WebDriver endpoint served by the driver.
func (h *Handle) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", h.Port)
}

// Record converts the handle into its persisted form.
func (h *Handle) Record(owner string) domain.DriverRecord {
	return domain.DriverRecord{
		PID:       h.PID,
		PGID:      h.PGID,
		Port:      h.Port,
		Path:      h.Path,
		Owner:     owner,
		StartedAt: h.StartedAt,
	}
}

func (h *Handle) wait() {
	h.waitErr = h.cmd.Wait()
	close(h.done)
}

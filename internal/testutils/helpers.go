package testutils

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// ProjectRoot walks up from the working directory to the directory holding go.mod.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	root, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatal("could not find project root (go.mod)")
		}
		root = parent
	}
}

// BuildDriverFixture compiles tests/fixtures/driver/<name> into a temp binary.
// The binary keeps the fixture's name so process-name checks can match it.
func BuildDriverFixture(t *testing.T, name string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("driver fixtures rely on process groups")
	}

	source := filepath.Join(ProjectRoot(t), "tests", "fixtures", "driver", name)
	dest := filepath.Join(t.TempDir(), name)

	cmd := exec.Command("go", "build", "-o", dest, source)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "Failed to build fixture %s: %s", name, string(out))

	return dest
}

// FreePort asks the kernel for an unused TCP port on the loopback interface.
func FreePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	return ln.Addr().(*net.TCPAddr).Port
}

package supervisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitOwner(t *testing.T) {
	host, pid, ok := splitOwner("build-box:4242")
	assert.True(t, ok)
	assert.Equal(t, "build-box", host)
	assert.Equal(t, 4242, pid)

	_, _, ok = splitOwner("legacy")
	assert.False(t, ok)

	_, _, ok = splitOwner("host:notapid")
	assert.False(t, ok)
}

func TestLineLogger_SplitsLines(t *testing.T) {
	var lines []string
	w := &lineLogger{stream: "stdout"}
	w.logger = newCaptureLogger(&lines)

	_, _ = w.Write([]byte("first\nsec"))
	_, _ = w.Write([]byte("ond\r\n\nthird"))

	assert.Equal(t, []string{"first", "second"}, lines)
}

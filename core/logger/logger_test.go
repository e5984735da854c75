package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetWriterForAll(&buf)
	t.Cleanup(func() {
		SetWriterForAll(os.Stdout)
		SetVerbose(false)
	})

	SetVerbose(false)
	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestPerLevelWriters(t *testing.T) {
	var info, errs bytes.Buffer
	SetWriterForAll(&info)
	SetWriter(ERROR, &errs)
	t.Cleanup(func() { SetWriterForAll(os.Stdout) })

	Info("route %s registered", "/product/:slug")
	Error("module %s failed", "root.go")

	assert.Contains(t, info.String(), "route /product/:slug registered")
	assert.NotContains(t, info.String(), "root.go")
	assert.Contains(t, errs.String(), "module root.go failed")
}

func TestAddWriterTees(t *testing.T) {
	var first, second bytes.Buffer
	SetWriterForAll(&first)
	AddWriter(WARN, &second)
	t.Cleanup(func() { SetWriterForAll(os.Stdout) })

	Warn("manifest %s stale", "v1")

	assert.Contains(t, first.String(), "manifest v1 stale")
	assert.Contains(t, second.String(), "manifest v1 stale")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

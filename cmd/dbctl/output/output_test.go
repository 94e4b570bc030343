package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	previous := Writer
	Writer = buf
	t.Cleanup(func() { Writer = previous })
	return buf
}

func TestPrinters(t *testing.T) {
	buf := capture(t)

	Success("created %d rows", 3)
	Warning("database %q is missing", "shop")
	Error("connect failed")
	Info("host %s", "localhost")
	Muted("done")

	out := buf.String()
	assert.Contains(t, out, "created 3 rows")
	assert.Contains(t, out, `database "shop" is missing`)
	assert.Contains(t, out, "connect failed")
	assert.Contains(t, out, "host localhost")
	assert.Contains(t, out, "done")
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestSectionUnderline(t *testing.T) {
	buf := capture(t)

	Section("Seed")

	assert.Contains(t, buf.String(), "Seed")
	assert.Contains(t, buf.String(), "════")
	assert.NotContains(t, buf.String(), "═════")
}

func TestKeyValue(t *testing.T) {
	buf := capture(t)

	KeyValue("port", 3306)

	assert.Contains(t, buf.String(), "port:")
	assert.Contains(t, buf.String(), "3306")
}

package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonrockz/moonspec/internal/emitter"
)

func TestSinkWritesOneLinePerEnvelope(t *testing.T) {
	var buf bytes.Buffer

	s := New(&buf)
	s.OnMessage(emitter.Envelope{Meta: &emitter.Meta{RunID: "run-1"}})
	s.OnMessage(emitter.Envelope{TestRunStarted: &emitter.TestRunStarted{}})

	scanner := bufio.NewScanner(&buf)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	require.Len(t, lines, 2)

	var env emitter.Envelope
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, "run-1", env.Meta.RunID)
}

func TestCreateWritesToFileAndCloseFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")

	s, closeFn, err := Create(path)
	require.NoError(t, err)

	s.OnMessage(emitter.Envelope{Meta: &emitter.Meta{RunID: "run-2"}})

	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run-2")
}

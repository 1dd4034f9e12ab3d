package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &out, &bytes.Buffer{}))
	assert.Equal(t, "ecgnet "+version+"\n", out.String())
}

func TestRun_InvalidConfig(t *testing.T) {
	err := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "load config")

	err = run([]string{"-optimizer", "lbfgs"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid config")
}

func TestRun_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("end-to-end training skipped in short mode")
	}
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
epochs: 1
batch_size: 8
log_level: warn
model:
  layers: [1, 1, 1, 1]
  classes: 2
data:
  samples: 60
  length: 64
  val_frac: 0.25
  test_frac: 0.25
`), 0o600))

	var out, logs bytes.Buffer
	require.NoError(t, run([]string{"-config", path, "-seed", "7"}, &out, &logs))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Training will take on cpu\nEpoch 1/1:\n"))
	assert.Contains(t, text, "Validation metrics:\n")
	assert.Contains(t, text, "Test metrics:\n")
	assert.Contains(t, text, "test Loss: ")
}

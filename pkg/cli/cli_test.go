package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "plan")
	assert.Contains(t, names, "serve")
}

func TestRunCmd_FailsWithoutConfig(t *testing.T) {
	t.Setenv("MASKSYNC_DSN", "")
	t.Setenv("MASKSYNC_ENV", "")
	t.Setenv("MASKSYNC_MASKING_CONFIG", "")
	t.Setenv("MASKSYNC_USER_DIRECTORY", "")

	root := newRootCmd()
	root.SetArgs([]string{"run"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MASKSYNC_DSN")
}

func TestRunCmd_RejectsPositionalArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run", "extra"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

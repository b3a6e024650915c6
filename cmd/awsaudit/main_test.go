package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"report", "cleanup-snapshots", "tag", "version"}, names)

	cleanup, _, err := root.Find([]string{"cleanup-snapshots"})
	require.NoError(t, err)
	dryRun, err := cleanup.Flags().GetBool("dry-run")
	require.NoError(t, err)
	assert.True(t, dryRun)

	tag, _, err := root.Find([]string{"tag"})
	require.NoError(t, err)
	batch, err := tag.Flags().GetInt("batch-size")
	require.NoError(t, err)
	assert.Equal(t, 20, batch)
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "awsaudit dev")
}

func TestInvalidLogLevel(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"version", "--log-level", "loud"})

	assert.Error(t, root.Execute())
}

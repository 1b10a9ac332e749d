package cmd

import (
	"testing"

	"bulkdozer/core/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	tests := []struct {
		path  []string
		flags []string
	}{
		{[]string{"serve"}, nil},
		{[]string{"load"}, nil},
		{[]string{"push"}, []string{"dry-run", "yes"}},
		{[]string{"hierarchy"}, []string{"export"}},
		{[]string{"hierarchy", "json"}, nil},
		{[]string{"idmap", "show"}, nil},
		{[]string{"idmap", "clear"}, []string{"yes"}},
		{[]string{"idmap", "backup"}, nil},
		{[]string{"idmap", "restore"}, nil},
		{[]string{"integrity"}, []string{"fix", "json"}},
		{[]string{"integrity", "workbook"}, []string{"fix"}},
		{[]string{"integrity", "store"}, []string{"fix"}},
		{[]string{"integrity", "database"}, []string{"fix"}},
		{[]string{"integrity", "structure"}, []string{"fix"}},
	}

	for _, tt := range tests {
		t.Run(tt.path[len(tt.path)-1], func(t *testing.T) {
			c, rest, err := RootCmd.Find(tt.path)
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, tt.path[len(tt.path)-1], c.Name())
			for _, f := range tt.flags {
				assert.NotNil(t, c.Flag(f), "flag %s", f)
			}
		})
	}
}

func TestRootFlags(t *testing.T) {
	f := RootCmd.PersistentFlags().Lookup("config-dir")
	require.NotNil(t, f)
	assert.Equal(t, ".", f.DefValue)
	assert.NotNil(t, RootCmd.PersistentFlags().Lookup("log-level"))

	c, _, err := RootCmd.Find([]string{"push"})
	require.NoError(t, err)
	assert.NotNil(t, c.InheritedFlags().Lookup("config-dir"))
}

func TestConfirmAction(t *testing.T) {
	yesConfirm = true
	t.Cleanup(func() { yesConfirm = false })
	assert.True(t, confirmAction("push"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Spring (42)", label(remote.Entity{"id": "42", "name": "Spring"}))
}

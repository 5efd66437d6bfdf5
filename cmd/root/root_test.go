package root_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jweber/bonscan/cmd/root"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bonscan", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "supermarket receipts")
	assert.Contains(t, root.Cmd.Long, "German supermarket receipts")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()

	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("input"))
	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("output"))
	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("ai"))
}

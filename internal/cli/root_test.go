package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-dev/storefront/internal/cli/commands"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd(commands.DefaultDeps())

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"version", "login", "logout", "guard", "routes", "token", "health"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	root := NewRootCmd(commands.DefaultDeps())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "storefront version dev\n", out.String())
}

package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/agentkit/loader"
)

func TestRegisterBuiltins(t *testing.T) {
	ns := loader.NewNamespace()
	require.NoError(t, Register(ns))
	assert.Equal(t, []string{"fsdisc", "netdisc", "sysinfo"}, ns.Names())
}

func TestRegisterTwiceFails(t *testing.T) {
	ns := loader.NewNamespace()
	require.NoError(t, Register(ns))
	require.Error(t, Register(ns))
}

package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/agentkit/errors"
)

func okHandler(_ *Request) (any, error) {
	return "ok", nil
}

func TestNewItemValid(t *testing.T) {
	item, err := NewItem(ItemConfig{Key: "agent.ping", Handler: okHandler})
	require.NoError(t, err)
	assert.Equal(t, "agent.ping", item.Key())
	assert.Equal(t, 0, item.Flags())
	assert.Equal(t, "", item.TestParam())
	assert.Equal(t, "agent.ping", item.String())
	assert.NotNil(t, item.Handler())
}

func TestNewItemMissingKey(t *testing.T) {
	_, err := NewItem(ItemConfig{Handler: okHandler})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidItem)
	assert.True(t, errors.IsInvalid(err))
}

func TestNewItemMissingHandler(t *testing.T) {
	_, err := NewItem(ItemConfig{Key: "agent.ping"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidItem)
	assert.True(t, errors.IsInvalid(err))
}

func TestNewItemFlags(t *testing.T) {
	item, err := NewItem(ItemConfig{Key: "agent.ping", Handler: okHandler, Flags: 0x40})
	require.NoError(t, err)
	assert.Equal(t, 0x40, item.Flags())
}

func TestNewItemTestParamShapes(t *testing.T) {
	tests := []struct {
		name      string
		testParam any
		want      string
	}{
		{"nil", nil, ""},
		{"string scalar", "eth0", "eth0"},
		{"int scalar", 5, "5"},
		{"string slice joined", []string{"/", "total"}, "/,total"},
		{"any slice joined", []any{1, "x", true}, "1,x,true"},
		{"int slice joined", []int{1, 2, 3}, "1,2,3"},
		{"single element slice", []string{"/"}, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewItem(ItemConfig{Key: "k", Handler: okHandler, TestParam: tt.testParam})
			require.NoError(t, err)
			assert.Equal(t, tt.want, item.TestParam())
		})
	}
}

package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckProcessors(t *testing.T) {
	allowed := []int{0, 1, 2, 3}

	assert.NoError(t, CheckProcessors([]int{0, 1, 2, 4}, allowed))
	assert.NoError(t, CheckProcessors([]int{-1, 0}, []int{0}))

	err := CheckProcessors([]int{5}, allowed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CPU 4")

	err = CheckProcessors([]int{1}, []int{0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CPU 1")

	assert.Error(t, CheckProcessors([]int{2}, []int{1, 2}), "core 0 is required")
}

func TestAllowedCPUs(t *testing.T) {
	ids, err := AllowedCPUs()
	require.NoError(t, err)
	assert.NotEmpty(t, ids)
}

func TestDescribe(t *testing.T) {
	info, err := Describe()
	require.NoError(t, err)
	assert.NotEmpty(t, info.Hostname)
}

package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstance(t *testing.T) {
	inst, err := NewInstance("git@github.com:octo/demo.git", "main", -5, nil)
	require.NoError(t, err)
	assert.True(t, IsValidInstanceId(inst.Id))
	assert.Equal(t, int64(0), inst.MaxFileSize)
	assert.NotZero(t, inst.CreateTime)

	_, err = NewInstance("not a repository", "", 0, nil)
	assert.Error(t, err)
}

func TestExcludePathsRoundTrip(t *testing.T) {
	assert.Nil(t, ParseExcludePaths(SerializeExcludePaths(nil)))
	assert.Equal(t, []string{}, ParseExcludePaths(SerializeExcludePaths([]string{})))
	assert.Equal(t, []string{ "a", "b,c" }, ParseExcludePaths(SerializeExcludePaths([]string{ "a", "b,c" })))
	assert.Nil(t, ParseExcludePaths("garbage"))
}

func TestIsValidInstanceId(t *testing.T) {
	assert.False(t, IsValidInstanceId("../etc/passwd"))
	assert.False(t, IsValidInstanceId(""))
}

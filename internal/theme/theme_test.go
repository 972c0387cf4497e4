package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListedThemesExist(t *testing.T) {
	names := List()
	require.Len(t, names, len(themes))
	for _, name := range names {
		th, ok := themes[name]
		require.True(t, ok, name)
		assert.Equal(t, name, th.Name)
		assert.NotEmpty(t, th.Header, name)
		assert.NotEmpty(t, th.RowFocus, name)
		assert.NotEmpty(t, th.Broken, name)
	}
}

func TestSunset(t *testing.T) {
	assert.Contains(t, List(), "sunset")
	assert.Equal(t, "sunset", Get("sunset").Name)
}

func TestGetFallsBack(t *testing.T) {
	assert.Equal(t, fallback, Get("no-such-theme").Name)

	t.Cleanup(func() { Set(fallback) })
	Set("ocean")
	assert.Equal(t, "ocean", Current().Name)
}

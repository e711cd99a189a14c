package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCycle_Empty(t *testing.T) {
	_, err := NewCycle()
	require.ErrorIs(t, err, ErrNoTemplates)
}

func TestCycle_Advance(t *testing.T) {
	c, err := NewCycle(Compile("%i"), Compile("%h"), Compile("%b"))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	assert.Equal(t, 0, c.Index())
	assert.Equal(t, "%i", c.Current().String())
	c.Advance()
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, "%h", c.Current().String())
	c.Advance()
	c.Advance()
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, "%i", c.Current().String())
}

func TestCycle_SingleTemplate(t *testing.T) {
	c, err := NewCycle(Compile("%a"))
	require.NoError(t, err)
	c.Advance()
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, "%a", c.Current().String())
}

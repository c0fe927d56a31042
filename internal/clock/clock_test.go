package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, c.Now().Location())

	c, err = New("Europe/Warsaw")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Warsaw", c.Now().Location().String())

	_, err = New("Nowhere/Atlantis")
	assert.Error(t, err)
}

func TestFixed(t *testing.T) {
	at := time.Date(2024, time.March, 25, 12, 0, 0, 0, time.UTC)
	c := Fixed{At: at}

	assert.True(t, c.Now().Equal(at))
	assert.True(t, c.Now().Equal(c.Now()))
}

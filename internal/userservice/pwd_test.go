package userservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	var p Password
	require.NoError(t, p.set("test123"))
	assert.NotEqual(t, []byte("test123"), p.hash)

	ok, err := p.compare("test123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.compare("test124")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = (&Password{hash: []byte("garbage")}).compare("test123")
	assert.Error(t, err)
}

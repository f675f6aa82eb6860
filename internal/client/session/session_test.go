package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosync/ecosync/internal/client/models"
)

func TestContext(t *testing.T) {
	c := New()
	assert.False(t, c.LoggedIn())
	assert.Nil(t, c.User())
	_, ok := c.UserID()
	assert.False(t, ok)

	c.Set(models.User{ID: 4, Name: "Demo Creator"})
	require.True(t, c.LoggedIn())
	id, ok := c.UserID()
	assert.True(t, ok)
	assert.EqualValues(t, 4, id)

	u := c.User()
	u.Name = "changed"
	assert.Equal(t, "Demo Creator", c.User().Name, "User must return a copy")

	c.Clear()
	assert.False(t, c.LoggedIn())
}

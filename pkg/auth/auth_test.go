package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	g := NewGate("hunter2")
	assert.True(t, g.Enabled())
	assert.True(t, g.Check("hunter2"))
	assert.False(t, g.Check("hunter"))
	assert.False(t, g.Check(""))

	open := NewGate("")
	assert.False(t, open.Enabled())
	assert.True(t, open.Check("anything"))

	var nilGate *Gate
	assert.False(t, nilGate.Enabled())
}

func TestSessionLogin(t *testing.T) {
	g := NewGate("secret")
	s := NewSession(g)
	assert.False(t, s.LoggedIn)

	err := s.Login(g, "wrong")
	require.ErrorIs(t, err, ErrIncorrectPassword)
	assert.False(t, s.LoggedIn)
	assert.Empty(t, s.TakeFlashes())

	require.NoError(t, s.Login(g, "secret"))
	assert.True(t, s.LoggedIn)
	assert.Equal(t, []string{FlashLoggedIn}, s.TakeFlashes())
	assert.Empty(t, s.TakeFlashes(), "flashes are delivered once")

	s.Flash(FlashTaskAdded)
	s.Logout()
	assert.False(t, s.LoggedIn)
	assert.Equal(t, []string{FlashLoggedOut}, s.TakeFlashes())
}

func TestSessionWithoutGate(t *testing.T) {
	g := NewGate("")
	s := NewSession(g)
	assert.True(t, s.LoggedIn)

	require.NoError(t, s.Login(g, ""))
	assert.Empty(t, s.TakeFlashes())
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoster(t *testing.T) {
	r, err := NewRoster([]Member{
		{Username: "Davi", Password: "jesuscura10", Admin: true},
		{Username: "Ana", Password: "robotica"},
		{Username: "Bia", Password: "lego", Admin: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana", "Bia", "Davi"}, r.Usernames())
	assert.Equal(t, []string{"Bia", "Davi"}, r.Admins())
	assert.True(t, r.Has("Ana"))
	assert.False(t, r.Has("ana"))
	assert.True(t, r.IsAdmin("Davi"))
	assert.False(t, r.IsAdmin("Ana"))
	assert.False(t, r.IsAdmin("Nobody"))
}

func TestNewRoster_Rejects(t *testing.T) {
	_, err := NewRoster([]Member{{Username: "", Password: "x"}})
	assert.Error(t, err)

	_, err = NewRoster([]Member{{Username: "Davi"}, {Username: "Davi"}})
	assert.Error(t, err)
}

func TestRoster_SetsAreCopies(t *testing.T) {
	r := DefaultRoster()
	names := r.Usernames()
	names[0] = "Mallory"
	assert.Equal(t, []string{"Davi"}, r.Usernames())

	admins := r.Admins()
	admins[0] = "Mallory"
	assert.False(t, r.IsAdmin("Mallory"))
}

func TestRoster_Verify(t *testing.T) {
	r := DefaultRoster()
	assert.True(t, r.Verify("Davi", "jesuscura10"))
	assert.False(t, r.Verify("Davi", "jesuscura1"))
	assert.False(t, r.Verify("Davi", "jesuscura10 "))
	assert.False(t, r.Verify("Ghost", ""))
}

package presence_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/presence"
)

func TestAddTrimsAndKeepsCase(t *testing.T) {
	reg := presence.NewRegistry()

	user, err := reg.Add("c1", "  Alice  ", "  General ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
	assert.Equal(t, "General", user.Room)
	assert.Equal(t, "c1", user.ConnID)
}

func TestAddRejectsEmptyFields(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("c1", "  ", "general")
	assert.ErrorIs(t, err, presence.ErrEmptyField)
	assert.ErrorContains(t, err, "username")

	_, err = reg.Add("c1", "alice", "")
	assert.ErrorIs(t, err, presence.ErrEmptyField)
	assert.ErrorContains(t, err, "room")

	// Failed adds must not leak registry entries.
	_, ok := reg.Get("c1")
	assert.False(t, ok)
}

func TestAddRejectsSecondJoinFromSameConnection(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("c1", "alice", "general")
	require.NoError(t, err)

	_, err = reg.Add("c1", "alice2", "sports")
	assert.ErrorIs(t, err, presence.ErrAlreadyJoined)

	// The original record is untouched and no phantom roster entry exists.
	user, ok := reg.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "general", user.Room)
	assert.Empty(t, reg.UsersInRoom("sports"))
	assert.Len(t, reg.UsersInRoom("general"), 1)

	// Remove still fully clears the connection.
	_, ok = reg.Remove("c1")
	require.True(t, ok)
	assert.Empty(t, reg.UsersInRoom("general"))
	assert.Empty(t, reg.Rooms())
}

func TestAddRejectsDuplicateUsernameInRoom(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("c1", "alice", "general")
	require.NoError(t, err)

	// Same normalized name, different case, different room case.
	_, err = reg.Add("c2", " Alice ", "General")
	assert.ErrorIs(t, err, presence.ErrUsernameTaken)

	// The rejected connection was never registered.
	_, ok := reg.Get("c2")
	assert.False(t, ok)
}

func TestSameUsernameDifferentRoom(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("c1", "alice", "general")
	require.NoError(t, err)

	_, err = reg.Add("c2", "alice", "sports")
	assert.NoError(t, err)
}

func TestUsersInRoomKeepsJoinOrder(t *testing.T) {
	reg := presence.NewRegistry()

	names := []string{"alice", "bob", "carol", "dave"}
	for i, name := range names {
		_, err := reg.Add(fmt.Sprintf("c%d", i), name, "general")
		require.NoError(t, err)
	}
	// Another room must not appear in the roster.
	_, err := reg.Add("c9", "eve", "sports")
	require.NoError(t, err)

	roster := reg.UsersInRoom("General")
	require.Len(t, roster, len(names))
	for i, name := range names {
		assert.Equal(t, name, roster[i].Username)
	}
}

func TestRemoveUnknownIsSilent(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("c1", "alice", "general")
	require.NoError(t, err)

	_, ok := reg.Remove("nope")
	assert.False(t, ok)
	assert.Len(t, reg.UsersInRoom("general"), 1)
}

func TestRemoveFreesUsername(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("c1", "alice", "general")
	require.NoError(t, err)

	user, ok := reg.Remove("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)

	// Removing twice stays a no-op.
	_, ok = reg.Remove("c1")
	assert.False(t, ok)

	// The name is free again.
	_, err = reg.Add("c2", "alice", "general")
	assert.NoError(t, err)
}

func TestGetDoesNotMutate(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("c1", "alice", "general")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		user, ok := reg.Get("c1")
		require.True(t, ok)
		assert.Equal(t, "alice", user.Username)
	}
	assert.Len(t, reg.UsersInRoom("general"), 1)
}

func TestRoomsCountsOccupants(t *testing.T) {
	reg := presence.NewRegistry()

	_, _ = reg.Add("c1", "alice", "general")
	_, _ = reg.Add("c2", "bob", "General") // same room, different case
	_, _ = reg.Add("c3", "carol", "sports")

	rooms := reg.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "general", rooms[0].Name)
	assert.Equal(t, 2, rooms[0].Users)
	assert.Equal(t, "sports", rooms[1].Name)
	assert.Equal(t, 1, rooms[1].Users)

	reg.Remove("c3")
	assert.Len(t, reg.Rooms(), 1)
}

func TestConcurrentAddRemove(t *testing.T) {
	reg := presence.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", n)
			_, err := reg.Add(id, fmt.Sprintf("user%d", n), "general")
			assert.NoError(t, err)
			reg.UsersInRoom("general")
			if n%2 == 0 {
				reg.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, reg.UsersInRoom("general"), 25)
}

package state

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_DialogLifecycle(t *testing.T) {
	sm := NewManager()
	const id int64 = 42

	assert.Equal(t, StateNone, sm.GetState(id))

	sm.Start(id, StateLoginName)
	sm.SetData(id, "name", "Mentor")
	sm.SetState(id, StateLoginRole)

	assert.Equal(t, StateLoginRole, sm.GetState(id))
	name, ok := Value[string](sm, id, "name")
	require.True(t, ok)
	assert.Equal(t, "Mentor", name)

	_, ok = Value[int](sm, id, "name")
	assert.False(t, ok, "wrong type")

	sm.Start(id, StateUploadTitle)
	_, ok = sm.GetData(id, "name")
	assert.False(t, ok, "Start drops previous data")

	sm.ClearState(id)
	assert.Equal(t, StateNone, sm.GetState(id))
}

func TestManager_Expiry(t *testing.T) {
	sm := NewManagerWithTTL(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	sm.Start(1, StateSetMeetLink)
	sm.Start(2, StateUploadTitle)

	now = now.Add(30 * time.Second)
	sm.SetData(2, "title", "Guide")

	now = now.Add(45 * time.Second)
	assert.Equal(t, StateNone, sm.GetState(1))
	assert.Equal(t, StateUploadTitle, sm.GetState(2))

	assert.Equal(t, 1, sm.Prune())

	sm.SetData(1, "k", "v")
	assert.Equal(t, StateNone, sm.GetState(1), "expired dialog is not resumed")
}

func TestUserState_IsLogin(t *testing.T) {
	assert.True(t, StateLoginPrompted.IsLogin())
	assert.True(t, StateLoginName.IsLogin())
	assert.True(t, StateLoginRole.IsLogin())
	assert.True(t, StateLoginPassword.IsLogin())
	assert.False(t, StateNone.IsLogin())
	assert.False(t, StateSetMeetLink.IsLogin())
}

func TestManager_StartUnless(t *testing.T) {
	sm := NewManager()
	const id int64 = 42

	sm.Start(id, StateSetMeetLink)
	assert.True(t, sm.StartUnless(id, StateLoginPrompted, UserState.IsLogin), "other dialog is replaced")
	assert.Equal(t, StateLoginPrompted, sm.GetState(id))

	assert.False(t, sm.StartUnless(id, StateLoginPrompted, UserState.IsLogin))

	sm.Start(id, StateLoginPassword)
	sm.SetData(id, "name", "Mentor")
	assert.False(t, sm.StartUnless(id, StateLoginPrompted, UserState.IsLogin))
	assert.Equal(t, StateLoginPassword, sm.GetState(id))
	_, ok := sm.GetData(id, "name")
	assert.True(t, ok, "login data kept")
}

func TestManager_StartUnlessConcurrent(t *testing.T) {
	sm := NewManager()
	const id int64 = 42

	var started atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sm.StartUnless(id, StateLoginPrompted, UserState.IsLogin) {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), started.Load())
}

package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/omriShneor/booking_assistant/internal/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore(MemoryStoreConfig{})

	_, ok := store.Get("missing")
	assert.False(t, ok)

	sess := New("abc", t0)
	store.Put(sess)

	got, ok := store.Get("abc")
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, StepInitial, got.Step)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_PutIgnoresEmptyID(t *testing.T) {
	store := NewMemoryStore(MemoryStoreConfig{})
	store.Put(nil)
	store.Put(New("", t0))

	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	store := NewMemoryStore(MemoryStoreConfig{MaxSessions: 2})

	store.Put(New("a", t0))
	store.Put(New("b", t0))
	require.True(t, store.Touch("a"))
	store.Put(New("c", t0))

	_, ok := store.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = store.Get("a")
	assert.True(t, ok)
	_, ok = store.Get("c")
	assert.True(t, ok)
}

func TestMemoryStore_Expires(t *testing.T) {
	store := NewMemoryStore(MemoryStoreConfig{IdleTTL: 20 * time.Millisecond})
	store.Put(New("a", t0))

	assert.Eventually(t, func() bool {
		_, ok := store.Get("a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryStore_TouchAndDelete(t *testing.T) {
	store := NewMemoryStore(MemoryStoreConfig{})

	assert.False(t, store.Touch("nope"))

	store.Put(New("a", t0))
	assert.True(t, store.Touch("a"))

	store.Delete("a")
	_, ok := store.Get("a")
	assert.False(t, ok)
}

func TestMemoryStore_Unbounded(t *testing.T) {
	store := NewMemoryStore(MemoryStoreConfig{MaxSessions: -1, IdleTTL: -1})
	for i := 0; i < 50; i++ {
		store.Put(New(fmt.Sprintf("s%d", i), t0))
	}
	assert.Equal(t, 50, store.Len())
}

func TestSession_AppendTurn(t *testing.T) {
	sess := New("a", t0)
	for i := 0; i < 5; i++ {
		sess.AppendTurn(Turn{Message: fmt.Sprintf("m%d", i), At: t0.Add(time.Duration(i) * time.Minute)}, 3)
	}

	require.Len(t, sess.History, 3)
	assert.Equal(t, "m2", sess.History[0].Message)
	assert.Equal(t, "m4", sess.History[2].Message)
	assert.Equal(t, t0.Add(4*time.Minute), sess.UpdatedAt)
}

func TestSession_ResetPending(t *testing.T) {
	sess := New("a", t0)
	sess.Pending.Merge(agent.BookingInfo{DateTime: &t0, DurationMinutes: 30, DurationExplicit: true})
	require.False(t, sess.Pending.IsEmpty())

	sess.ResetPending()
	assert.True(t, sess.Pending.IsEmpty())
}

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("same")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, km.size())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	unlockA := km.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := km.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
}

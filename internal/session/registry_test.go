package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/model"
	"github.com/iliyamo/wardrobe-designer/internal/store"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCreateAndGet(t *testing.T) {
	reg := NewRegistry(catalog.Default(), time.Hour)
	sess := reg.Create()

	got, err := reg.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 26780, sess.Snapshot().Price)
	assert.Equal(t, 1, reg.Len())

	_, err = reg.Get("unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPriceFollowsMutations(t *testing.T) {
	reg := NewRegistry(catalog.Default(), time.Hour)
	sess := reg.Create()

	err := sess.Do(func(st *store.Store) error {
		_, err := st.AddComponent(model.ComponentSpec{Type: model.ComponentShelf})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 26830, sess.Snapshot().Price)

	require.NoError(t, sess.Do(func(st *store.Store) error {
		st.Reset()
		return nil
	}))
	assert.Equal(t, 26780, sess.Snapshot().Price)
}

func TestDelete(t *testing.T) {
	reg := NewRegistry(catalog.Default(), time.Hour)
	sess := reg.Create()
	assert.True(t, reg.Delete(sess.ID))
	assert.False(t, reg.Delete(sess.ID))
	_, err := reg.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	clk := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	reg := NewRegistry(catalog.Default(), 10*time.Minute, WithClock(clk.Now))

	idle := reg.Create()
	active := reg.Create()

	clk.Advance(6 * time.Minute)
	_, err := reg.Get(active.ID)
	require.NoError(t, err)

	clk.Advance(6 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())

	_, err = reg.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = reg.Get(active.ID)
	assert.NoError(t, err)
}

func TestSweepDisabledWithoutTTL(t *testing.T) {
	clk := &clock{now: time.Unix(0, 0)}
	reg := NewRegistry(catalog.Default(), 0, WithClock(clk.Now))
	reg.Create()
	clk.Advance(24 * time.Hour)
	assert.Equal(t, 0, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
}

func TestConcurrentMutationsKeepIDsUnique(t *testing.T) {
	reg := NewRegistry(catalog.Default(), time.Hour)
	sess := reg.Create()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sess.Do(func(st *store.Store) error {
				_, err := st.AddComponent(model.ComponentSpec{Type: model.ComponentDrawer})
				return err
			})
		}()
	}
	wg.Wait()

	cfg := sess.Snapshot()
	require.Len(t, cfg.Components, 20)
	seen := map[string]bool{}
	for _, c := range cfg.Components {
		assert.False(t, seen[c.ID])
		seen[c.ID] = true
	}
	assert.Equal(t, 26780+20*50, cfg.Price)
}

func TestStoreOptionsArePassedThrough(t *testing.T) {
	reg := NewRegistry(catalog.Default(), time.Hour, WithStoreOptions(store.WithIDGenerator(func() func() string {
		n := 0
		return func() string {
			n++
			return "fixed-" + string(rune('a'+n))
		}
	}())))
	sess := reg.Create()
	assert.Equal(t, "fixed-b", sess.Snapshot().ID)
}

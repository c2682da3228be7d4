package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type job struct {
	kind string
	seq  int
}

func byKind(j job) string { return j.kind }

func TestLatestWinsPerKey(t *testing.T) {
	mb := New(byKind)
	mb.Put(job{"archive", 1})
	mb.Put(job{"archive", 2})

	require.True(t, mb.HasJob())
	assert.Equal(t, 1, mb.Len())
	got, ok := mb.Take(context.Background())
	require.True(t, ok)
	assert.Equal(t, job{"archive", 2}, got)
	assert.False(t, mb.HasJob())
	assert.Nil(t, mb.TryTake())
}

func TestKeysDoNotOverwriteEachOther(t *testing.T) {
	mb := New(byKind)
	mb.Put(job{"archive", 1})
	mb.Put(job{"prune", 2})
	mb.Put(job{"archive", 3})

	require.Equal(t, 2, mb.Len())

	first, ok := mb.Take(context.Background())
	require.True(t, ok)
	assert.Equal(t, job{"archive", 3}, first, "keys keep the order they first became pending")

	second, ok := mb.Take(context.Background())
	require.True(t, ok)
	assert.Equal(t, job{"prune", 2}, second)

	assert.False(t, mb.HasJob())
}

func TestTakeWaitsForPut(t *testing.T) {
	mb := New(byKind)

	done := make(chan job)
	go func() {
		j, _ := mb.Take(context.Background())
		done <- j
	}()

	time.Sleep(20 * time.Millisecond)
	mb.Put(job{"prune", 1})

	select {
	case j := <-done:
		assert.Equal(t, "prune", j.kind)
	case <-time.After(time.Second):
		t.Fatal("Take did not return after Put")
	}
}

func TestTakeCancelled(t *testing.T) {
	mb := New(byKind)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := mb.Take(ctx)
	assert.False(t, ok)
}

func TestTryTake(t *testing.T) {
	mb := New(byKind)
	mb.Put(job{"archive", 7})

	j := mb.TryTake()
	require.NotNil(t, j)
	assert.Equal(t, 7, j.seq)
	assert.Nil(t, mb.TryTake())
}

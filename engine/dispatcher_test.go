package engine_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/preview/engine"
)

// fakeEngine returns a canned result or error after an optional delay.
type fakeEngine struct {
	name  string
	delay time.Duration
	err   error
	calls atomic.Int32
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &engine.FetchResult{HTML: "<html>" + f.name + "</html>", EngineName: f.name}, nil
}

func TestDispatcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("first engine success skips escalation", func(t *testing.T) {
		t.Parallel()

		fast := &fakeEngine{name: "fast"}
		slow := &fakeEngine{name: "slow"}
		d := engine.NewDispatcher([]engine.Engine{fast, slow}, []time.Duration{0, time.Second}, nil)

		result, err := d.Fetch(context.Background(), &engine.FetchRequest{URL: "https://example.com/"})
		require.NoError(t, err)
		assert.Equal(t, "fast", result.EngineName)
		assert.Equal(t, int32(0), slow.calls.Load())
	})

	t.Run("escalates when first engine fails", func(t *testing.T) {
		t.Parallel()

		broken := &fakeEngine{name: "broken", err: errors.New("blocked")}
		backup := &fakeEngine{name: "backup"}
		d := engine.NewDispatcher([]engine.Engine{broken, backup}, []time.Duration{0, 10 * time.Millisecond}, nil)

		result, err := d.Fetch(context.Background(), &engine.FetchRequest{URL: "https://example.com/"})
		require.NoError(t, err)
		assert.Equal(t, "backup", result.EngineName)
	})

	t.Run("returns last error when all engines fail", func(t *testing.T) {
		t.Parallel()

		errA := &engine.FetchError{Engine: "a", Err: errors.New("a failed")}
		errB := &engine.FetchError{Engine: "b", Err: errors.New("b failed")}
		d := engine.NewDispatcher([]engine.Engine{
			&fakeEngine{name: "a", err: errA},
			&fakeEngine{name: "b", err: errB, delay: 10 * time.Millisecond},
		}, []time.Duration{0, 0}, nil)

		_, err := d.Fetch(context.Background(), &engine.FetchRequest{URL: "https://example.com/"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errB)
	})

	t.Run("remembers winning engine per domain", func(t *testing.T) {
		t.Parallel()

		memory := engine.NewDomainMemory(time.Hour)
		defer memory.Stop()

		first := &fakeEngine{name: "first", err: errors.New("nope")}
		second := &fakeEngine{name: "second"}
		d := engine.NewDispatcher([]engine.Engine{first, second}, []time.Duration{0, 0}, memory)

		_, err := d.Fetch(context.Background(), &engine.FetchRequest{URL: "https://example.com/a"})
		require.NoError(t, err)
		assert.Equal(t, "second", memory.Get("example.com"))

		calls := first.calls.Load()
		result, err := d.Fetch(context.Background(), &engine.FetchRequest{URL: "https://example.com/b"})
		require.NoError(t, err)
		assert.Equal(t, "second", result.EngineName)
		assert.Equal(t, calls, first.calls.Load(), "remembered engine is tried alone")
	})

	t.Run("forgets remembered engine that fails", func(t *testing.T) {
		t.Parallel()

		memory := engine.NewDomainMemory(time.Hour)
		defer memory.Stop()
		memory.Set("example.com", "flaky")

		flaky := &fakeEngine{name: "flaky", err: errors.New("down")}
		steady := &fakeEngine{name: "steady"}
		d := engine.NewDispatcher([]engine.Engine{flaky, steady}, nil, memory)

		result, err := d.Fetch(context.Background(), &engine.FetchRequest{URL: "https://example.com/"})
		require.NoError(t, err)
		assert.Equal(t, "steady", result.EngineName)
		assert.Equal(t, "steady", memory.Get("example.com"))
	})

	t.Run("fails without engines", func(t *testing.T) {
		t.Parallel()

		d := engine.NewDispatcher(nil, nil, nil)
		_, err := d.Fetch(context.Background(), &engine.FetchRequest{URL: "https://example.com/"})

		var fetchErr *engine.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "dispatcher", fetchErr.Engine)
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		t.Parallel()

		d := engine.NewDispatcher([]engine.Engine{
			&fakeEngine{name: "a", delay: time.Second},
		}, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := d.Fetch(ctx, &engine.FetchRequest{URL: "https://example.com/"})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDomainMemory(t *testing.T) {
	t.Parallel()

	t.Run("expires entries after ttl", func(t *testing.T) {
		t.Parallel()

		memory := engine.NewDomainMemory(10 * time.Millisecond)
		defer memory.Stop()

		memory.Set("example.com", "http")
		assert.Equal(t, "http", memory.Get("example.com"))

		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, "", memory.Get("example.com"))
		assert.Equal(t, 1, memory.Len())
		assert.Equal(t, 1, memory.Prune())
		assert.Equal(t, 0, memory.Len())
	})

	t.Run("delete removes entry", func(t *testing.T) {
		t.Parallel()

		memory := engine.NewDomainMemory(time.Hour)
		memory.Set("example.com", "http")
		memory.Delete("example.com")
		assert.Equal(t, "", memory.Get("example.com"))

		memory.Stop()
		memory.Stop()
	})
}

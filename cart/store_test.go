package cart

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	c, err := s.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	require.NoError(t, c.Add(item("p1", 40, "red", 10, 2)))
	require.NoError(t, s.Save(ctx, "sid-1", c))

	// edits after Save must not leak into the stored copy
	c.UpdateQuantity(KeyOf(c.Items[0]), 9)

	loaded, err := s.Load(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)

	other, err := s.Load(ctx, "sid-2")
	require.NoError(t, err)
	assert.True(t, other.Empty())

	require.NoError(t, s.Clear(ctx, "sid-1"))
	loaded, err = s.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, loaded.Empty())
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "cart:abc", redisKey("abc"))
}

// commandLog answers every command itself and keeps its arguments, so the
// client never dials.
type commandLog struct {
	mu    sync.Mutex
	args  [][]any
	reply func(cmd redis.Cmder)
}

func (l *commandLog) DialHook(next redis.DialHook) redis.DialHook { return next }

func (l *commandLog) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		l.record(cmd)
		return cmd.Err()
	}
}

func (l *commandLog) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			l.record(cmd)
		}
		return nil
	}
}

func (l *commandLog) record(cmd redis.Cmder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.args = append(l.args, cmd.Args())
	if l.reply != nil {
		l.reply(cmd)
	}
}

func TestRedisStoreLoadSlidesExpiry(t *testing.T) {
	ttl := 30 * 24 * time.Hour
	stored := New()
	require.NoError(t, stored.Add(item("p1", 40, "red", 10, 2)))
	raw, err := json.Marshal(stored)
	require.NoError(t, err)

	log := &commandLog{reply: func(cmd redis.Cmder) {
		if c, ok := cmd.(*redis.StringCmd); ok {
			c.SetVal(string(raw))
		}
	}}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	rdb.AddHook(log)

	c, err := NewRedisStore(rdb, ttl).Load(context.Background(), "sid")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)

	require.Len(t, log.args, 1)
	assert.Equal(t, []any{"getex", "cart:sid", "ex", int64(ttl / time.Second)}, log.args[0])
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.Set(ctx, "k1", payload{Name: "alice", Count: 3}, time.Minute))

	var got payload
	hit, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, payload{Name: "alice", Count: 3}, got)

	require.NoError(t, c.Delete(ctx, "k1", "missing-key"))

	hit, err = c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", "value", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var got string
	hit, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_GetMiss(t *testing.T) {
	c := NewMemory()

	var got string
	hit, err := c.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

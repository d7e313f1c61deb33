package contentcache

import (
	"testing"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPutAndGet(t *testing.T) {
	c := New()
	content := models.SessionContent{ID: "s1", Messages: []models.Message{{Role: models.RoleUser, Text: "hi"}}}
	c.Put("s1", content)

	got, ok := c.Get("s1")
	assert.True(t, ok)
	assert.Equal(t, content, got)
}

func TestGetMissing(t *testing.T) {
	c := New()
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestEvictionAtCapacity(t *testing.T) {
	c := NewWithLimits(2, time.Hour)
	c.Put("a", models.SessionContent{ID: "a"})
	c.Put("b", models.SessionContent{ID: "b"})
	c.Put("c", models.SessionContent{ID: "c"}) // evicts "a", the least recently used

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := New()
	c.Put("a", models.SessionContent{ID: "a"})
	c.Invalidate("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestIdleExpiry(t *testing.T) {
	c := NewWithLimits(10, 20*time.Millisecond)
	c.Put("a", models.SessionContent{ID: "a"})
	time.Sleep(50 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok, "entry should have expired after its TTL")
}

package cache

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/sales-assist-go/internal/config"
	"github.com/sirupsen/logrus"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(&config.CacheConfig{Enabled: true, TTL: time.Minute, MaxSize: 50}, discardLogger())

	key := Key("analyze-message", "body")
	if _, found := c.Get(key); found {
		t.Fatal("empty cache must miss")
	}

	c.Set(key, []byte(`{"sentiment":"positive"}`))
	body, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after set")
	}
	if !bytes.Equal(body, []byte(`{"sentiment":"positive"}`)) {
		t.Errorf("unexpected body: %s", body)
	}

	c.Clear()
	if _, found := c.Get(key); found {
		t.Fatal("cache must miss after clear")
	}
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache(&config.CacheConfig{Enabled: false}, discardLogger())
	c.Set("k", []byte("v"))
	if _, found := c.Get("k"); found {
		t.Fatal("disabled cache must never hit")
	}
}

func TestCacheStaysWithinSizeLimit(t *testing.T) {
	c := NewCache(&config.CacheConfig{Enabled: true, TTL: time.Hour, MaxSize: 2}, discardLogger()).(*Cache)

	// All entries stay live for an hour, so the limit holds only if the
	// oldest ones get evicted.
	c.Set("first", []byte("1"))
	time.Sleep(2 * time.Millisecond)
	c.Set("second", []byte("2"))
	time.Sleep(2 * time.Millisecond)
	c.Set("third", []byte("3"))

	if n := c.cache.ItemCount(); n > 2 {
		t.Fatalf("cache holds %d entries, max is 2", n)
	}
	if _, found := c.Get("first"); found {
		t.Error("oldest entry should have been evicted")
	}
	if _, found := c.Get("third"); !found {
		t.Error("newest entry must survive eviction")
	}
}

func TestKeyDistinguishesParts(t *testing.T) {
	if Key("a", "bc") == Key("ab", "c") {
		t.Fatal("key parts must be delimited")
	}
	if Key("a", "b") != Key("a", "b") {
		t.Fatal("key must be deterministic")
	}
}

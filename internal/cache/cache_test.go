package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestKeyForSeparatesParts(t *testing.T) {
	a := KeyFor("naga", "vert", "void main(){}")
	b := KeyFor("naga", "frag", "void main(){}")
	if a == b {
		t.Fatal("stage must change the key")
	}
	if KeyFor("ab", "c", "") == KeyFor("a", "bc", "") {
		t.Fatal("part boundaries must change the key")
	}
	if a != KeyFor("naga", "vert", "void main(){}") {
		t.Fatal("key must be deterministic")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := KeyFor("naga", "vert", "src")

	var got Payload
	ok, err := c.Get(key, &got)
	if err != nil || ok {
		t.Fatalf("Get on empty cache = %v, %v; want miss", ok, err)
	}

	if err := c.Put(key, &Payload{Translator: "naga", Stage: "vert", Output: "@vertex fn main() {}"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ok, err = c.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("Get after Put = %v, %v; want hit", ok, err)
	}
	if got.Output != "@vertex fn main() {}" || got.Schema != schemaVersion || got.Created == 0 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestGetIgnoresOtherSchema(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := KeyFor("naga", "frag", "src")
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(&Payload{Schema: schemaVersion + 1, Output: "stale"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}

	var got Payload
	ok, err := c.Get(key, &got)
	if err != nil || ok {
		t.Fatalf("Get = %v, %v; want miss for foreign schema", ok, err)
	}
}

func TestDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := KeyFor("naga", "vert", "src")
	if err := c.Put(key, &Payload{Output: "x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("cache dir still present: %v", err)
	}
	// повторный вызов на пустом месте не ошибка
	if err := c.DropAll(); err != nil {
		t.Fatalf("second DropAll: %v", err)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Key{}, &Payload{}); err != nil {
		t.Fatal(err)
	}
	var p Payload
	if ok, err := c.Get(Key{}, &p); ok || err != nil {
		t.Fatalf("nil Get = %v, %v", ok, err)
	}
}

func TestDefaultDirHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir("mojwgsl")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "mojwgsl") {
		t.Fatalf("DefaultDir = %q", dir)
	}
}

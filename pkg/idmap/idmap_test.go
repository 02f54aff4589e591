package idmap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/integrations/bridgedb"
)

var aldh = entity.Entity{ID: "8854", DataSource: entity.EntrezGene, Kind: entity.GeneProduct, Label: "ALDH1A2"}

func TestIdentity(t *testing.T) {
	id, ok, err := Identity{}.Resolve(context.Background(), aldh, entity.EntrezGene)
	if err != nil || !ok || id != "8854" {
		t.Errorf("Resolve(same) = %q, %v, %v", id, ok, err)
	}
	_, ok, _ = Identity{}.Resolve(context.Background(), aldh, entity.EnzymeCode)
	if ok {
		t.Error("Resolve(other namespace) should miss")
	}
	unassigned := aldh
	unassigned.ID = entity.Unassigned
	if _, ok, _ := (Identity{}).Resolve(context.Background(), unassigned, entity.EntrezGene); ok {
		t.Error("unassigned ids should not resolve")
	}
}

func TestStatic(t *testing.T) {
	s := NewStatic()
	s.Add("", entity.EntrezGene, "8854", entity.EnzymeCode, "1.2.1.36")
	s.Add("Mus musculus", entity.EntrezGene, "8854", entity.EnzymeCode, "9.9.9.9")

	id, ok, _ := s.Resolve(context.Background(), aldh, entity.EnzymeCode)
	if !ok || id != "1.2.1.36" {
		t.Errorf("Resolve() = %q, %v", id, ok)
	}

	mouse := aldh
	mouse.Organism = "mus musculus"
	id, _, _ = s.Resolve(context.Background(), mouse, entity.EnzymeCode)
	if id != "9.9.9.9" {
		t.Errorf("organism-specific entry should win, got %q", id)
	}

	if _, ok, _ := s.Resolve(context.Background(), aldh, entity.ChEBI); ok {
		t.Error("unmapped target should miss")
	}
}

func TestLoadStatic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xrefs.toml")
	content := `
[[xref]]
source = "EntrezGene"
id = "8854"
target = "E"
value = "1.2.1.36"

[[xref]]
source = "HMDB"
id = "HMDB01852"
target = "ChEBI"
value = "15367"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadStatic(path)
	if err != nil {
		t.Fatalf("LoadStatic: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	id, ok, _ := s.Resolve(context.Background(), aldh, entity.EnzymeCode)
	if !ok || id != "1.2.1.36" {
		t.Errorf("Resolve() = %q, %v", id, ok)
	}
}

func TestLoadStaticInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xrefs.toml")
	os.WriteFile(path, []byte("[[xref]]\nsource = \"Nope\"\nid = \"1\"\ntarget = \"ChEBI\"\nvalue = \"2\"\n"), 0o644)
	if _, err := LoadStatic(path); err == nil {
		t.Error("LoadStatic should reject unknown namespaces")
	}
}

func TestChain(t *testing.T) {
	s := NewStatic()
	s.Add("", entity.EntrezGene, "8854", entity.EnzymeCode, "1.2.1.36")
	c := Chain{Identity{}, s}

	id, ok, err := c.Resolve(context.Background(), aldh, entity.EntrezGene)
	if err != nil || !ok || id != "8854" {
		t.Errorf("identity hit = %q, %v, %v", id, ok, err)
	}
	id, ok, _ = c.Resolve(context.Background(), aldh, entity.EnzymeCode)
	if !ok || id != "1.2.1.36" {
		t.Errorf("static hit = %q, %v", id, ok)
	}

	boom := errors.New("mapping service down")
	failing := Chain{Func(func(context.Context, entity.Entity, entity.DataSource) (string, bool, error) {
		return "", false, boom
	}), s}
	if _, _, err := failing.Resolve(context.Background(), aldh, entity.EnzymeCode); !errors.Is(err, boom) {
		t.Errorf("Chain error = %v, want %v", err, boom)
	}
}

type fakeXrefs struct {
	calls int
	xrefs []bridgedb.Xref
	err   error
	args  []string
}

func (f *fakeXrefs) Xrefs(_ context.Context, organism, src, id, tgt string, _ bool) ([]bridgedb.Xref, error) {
	f.calls++
	f.args = []string{organism, src, id, tgt}
	return f.xrefs, f.err
}

func TestBridgeDb(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fake := &fakeXrefs{xrefs: []bridgedb.Xref{{ID: "1.2.1.36", DataSource: "Enzyme Nomenclature"}}}
	r := NewBridgeDb(fake, c, time.Hour)

	for range 2 {
		id, ok, err := r.Resolve(context.Background(), aldh, entity.EnzymeCode)
		if err != nil || !ok || id != "1.2.1.36" {
			t.Fatalf("Resolve() = %q, %v, %v", id, ok, err)
		}
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1 (second lookup cached)", fake.calls)
	}
	want := []string{"Homo sapiens", "L", "8854", "E"}
	for i := range want {
		if fake.args[i] != want[i] {
			t.Errorf("args = %v, want %v", fake.args, want)
			break
		}
	}
}

func TestBridgeDbMissCached(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	fake := &fakeXrefs{}
	r := NewBridgeDb(fake, c, time.Hour)

	for range 2 {
		if _, ok, err := r.Resolve(context.Background(), aldh, entity.ChEBI); ok || err != nil {
			t.Fatalf("Resolve() ok=%v err=%v, want miss", ok, err)
		}
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1", fake.calls)
	}
}

func TestBridgeDbScopedKeys(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	xrefs := []bridgedb.Xref{{ID: "1.2.1.36", DataSource: "Enzyme Nomenclature"}}
	plain := &fakeXrefs{xrefs: xrefs}
	scoped := &fakeXrefs{xrefs: xrefs}

	if _, _, err := NewBridgeDb(plain, c, time.Hour).Resolve(context.Background(), aldh, entity.EnzymeCode); err != nil {
		t.Fatal(err)
	}
	r := NewBridgeDb(scoped, c, time.Hour).WithKeyer(cache.NewScopedKeyer(nil, "server:"))
	if _, _, err := r.Resolve(context.Background(), aldh, entity.EnzymeCode); err != nil {
		t.Fatal(err)
	}
	if scoped.calls != 1 {
		t.Errorf("scoped calls = %d, want 1 (unscoped entry must not be shared)", scoped.calls)
	}
}

func TestBridgeDbUnknownNamespace(t *testing.T) {
	fake := &fakeXrefs{}
	r := NewBridgeDb(fake, nil, time.Hour)
	if _, ok, _ := r.Resolve(context.Background(), aldh, entity.Other); ok {
		t.Error("Other has no system code and should not resolve")
	}
	if fake.calls != 0 {
		t.Error("no upstream call expected")
	}
}

func TestBridgeDbError(t *testing.T) {
	boom := errors.New("503")
	r := NewBridgeDb(&fakeXrefs{err: boom}, nil, time.Hour)
	if _, _, err := r.Resolve(context.Background(), aldh, entity.EnzymeCode); !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v", err)
	}
}

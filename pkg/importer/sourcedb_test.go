package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// fakeAdapter implements Adapter for test seeding.
type fakeAdapter struct {
	id, desc, url, license string
}

func (f *fakeAdapter) ID() string          { return f.id }
func (f *fakeAdapter) Description() string { return f.desc }
func (f *fakeAdapter) DefaultURL() string  { return f.url }
func (f *fakeAdapter) License() string     { return f.license }
func (f *fakeAdapter) Import(context.Context, string, string) (int, error) {
	return 0, nil
}

func tempSourceDB(t *testing.T) *SourceDB {
	t.Helper()
	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	t.Cleanup(func() { sdb.Close() })
	return sdb
}

func TestOpenSourceDB_CreatesTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	sdb, err := OpenSourceDB(path)
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}

	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatalf("ListSources on empty db: %v", err)
	}
	if len(sources) != 0 {
		t.Fatalf("expected 0 sources, got %d", len(sources))
	}
}

func TestSeedAndGetURL(t *testing.T) {
	sdb := tempSourceDB(t)

	a := &fakeAdapter{id: "test-src", desc: "test source", url: "https://example.org/data.csv", license: "OGL"}
	if err := sdb.Seed([]Adapter{a}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	url, err := sdb.GetURL("test-src")
	if err != nil {
		t.Fatalf("GetURL: %v", err)
	}
	if url != a.url {
		t.Errorf("url = %q, want %q", url, a.url)
	}

	// Re-seeding must not clobber manual overrides.
	if err := sdb.SetURL("test-src", "https://mirror.example.org/data.csv"); err != nil {
		t.Fatalf("SetURL: %v", err)
	}
	if err := sdb.Seed([]Adapter{a}); err != nil {
		t.Fatalf("re-Seed: %v", err)
	}
	url, _ = sdb.GetURL("test-src")
	if url != "https://mirror.example.org/data.csv" {
		t.Errorf("override lost: url = %q", url)
	}
}

func TestSetURL_UnknownAdapter(t *testing.T) {
	sdb := tempSourceDB(t)
	if err := sdb.SetURL("missing", "https://example.org"); err == nil {
		t.Fatal("expected error for unknown adapter")
	}
}

func TestRecordImport(t *testing.T) {
	sdb := tempSourceDB(t)
	a := &fakeAdapter{id: "rec-src", desc: "d", url: "u", license: "l"}
	if err := sdb.Seed([]Adapter{a}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if err := sdb.RecordImport("rec-src", 0, 338, ""); err != nil {
		t.Fatalf("RecordImport: %v", err)
	}
	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	src := sources[0]
	if src.LastStatus == nil || *src.LastStatus != 0 {
		t.Errorf("LastStatus = %v", src.LastStatus)
	}
	if src.LastRidings == nil || *src.LastRidings != 338 {
		t.Errorf("LastRidings = %v", src.LastRidings)
	}
	if src.LastError != nil {
		t.Errorf("LastError = %v, want nil", *src.LastError)
	}

	if err := sdb.RecordImport("rec-src", 1, 0, "download failed"); err != nil {
		t.Fatalf("RecordImport failure: %v", err)
	}
	sources, _ = sdb.ListSources()
	if sources[0].LastError == nil || *sources[0].LastError != "download failed" {
		t.Errorf("LastError = %v", sources[0].LastError)
	}
}

func TestAdapterRegistry(t *testing.T) {
	// The EC adapter self-registers in init.
	a, err := Get("ec-2021-redistributed")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.License() == "" || a.DefaultURL() == "" {
		t.Error("adapter metadata incomplete")
	}

	if _, err := Get("nope"); err == nil {
		t.Error("expected error for unknown adapter")
	}

	all := All()
	if len(all) == 0 {
		t.Fatal("All returned no adapters")
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID() > all[i].ID() {
			t.Error("All not sorted by ID")
		}
	}
}

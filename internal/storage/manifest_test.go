package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManifest_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	mm := NewManifestManager(dir)

	older := &Manifest{CreatedUnix: 100, Name: "Consideration", Version: "rc.1", ChainID: "1", DomainSeparator: "0x01"}
	newer := &Manifest{CreatedUnix: 200, Name: "Consideration", Version: "rc.1", ChainID: "1", DomainSeparator: "0x02"}

	if _, err := mm.Save(older); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := mm.Save(newer); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := mm.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected manifest, got nil")
	}
	if loaded.DomainSeparator != "0x02" {
		t.Errorf("Expected newest manifest, got separator %s", loaded.DomainSeparator)
	}
}

func TestManifest_LoadLatestEmpty(t *testing.T) {
	mm := NewManifestManager(filepath.Join(t.TempDir(), "missing"))
	loaded, err := mm.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil, got %+v", loaded)
	}
}

func TestManifest_Cleanup(t *testing.T) {
	dir := t.TempDir()
	mm := NewManifestManager(dir)

	for i := int64(1); i <= 4; i++ {
		if _, err := mm.Save(&Manifest{CreatedUnix: i, ChainID: "5"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	// Unrelated files are left alone.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	if err := mm.Cleanup(2); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 3 {
		t.Fatalf("Expected 2 manifests + 1 other file, got %d entries", len(entries))
	}
	loaded, _ := mm.LoadLatest()
	if loaded == nil || loaded.CreatedUnix != 4 {
		t.Errorf("Expected newest manifest to survive, got %+v", loaded)
	}
}

func TestParseManifestName(t *testing.T) {
	tests := []struct {
		name    string
		created int64
		ok      bool
	}{
		{"manifest_1_1700000000.json", 1700000000, true},
		{"manifest_31337_5.json", 5, true},
		{"manifest_1.json", 0, false},
		{"snapshot_1_2.json", 0, false},
		{"manifest_1_x.json", 0, false},
	}
	for _, tt := range tests {
		created, ok := parseManifestName(tt.name)
		if ok != tt.ok || created != tt.created {
			t.Errorf("parseManifestName(%q) = %d, %v; want %d, %v", tt.name, created, ok, tt.created, tt.ok)
		}
	}
}

func TestManifest_SameSecondSavesKept(t *testing.T) {
	dir := t.TempDir()
	mm := NewManifestManager(dir)

	first := &Manifest{CreatedUnix: 1700000000, ChainID: "1", DomainSeparator: "0x01"}
	second := &Manifest{CreatedUnix: 1700000000, ChainID: "1", DomainSeparator: "0x02"}

	p1, err := mm.Save(first)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	p2, err := mm.Save(second)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("Expected distinct paths, both were %s", p1)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 manifests, got %d", len(entries))
	}
	loaded, _ := mm.LoadLatest()
	if loaded == nil || loaded.DomainSeparator != "0x02" {
		t.Errorf("Expected second save to be latest, got %+v", loaded)
	}
}

package storage

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/kepler/internal/kepler"
)

func testBinary(t *testing.T) *kepler.Binary {
	t.Helper()
	b, err := kepler.NewBinary([6]float64{0.3, 1.5, 20, 40, 60, 80}, 1.0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSaveAndLoad(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "runs"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	b := testBinary(t)
	id, err := store.Save("test", "ptype", b)
	if err != nil {
		t.Fatal(err)
	}

	settings, err := store.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if settings.ID != id {
		t.Errorf("expected id %s, got %s", id, settings.ID)
	}
	if settings.Physical.Binsys.Binary != *b {
		t.Errorf("binary mismatch: %+v", settings.Physical.Binsys.Binary)
	}
	if settings.Physical.M != 1.5 {
		t.Errorf("expected total mass 1.5, got %f", settings.Physical.M)
	}

	ic := filepath.Join(store.baseDir, id, settings.Filenames.ICFileName)
	if _, err := os.Stat(ic); err != nil {
		t.Errorf("ic file missing: %v", err)
	}
}

func TestLoadStarsRecoversElements(t *testing.T) {
	store := New(t.TempDir())
	b := testBinary(t)

	id, err := store.Save("roundtrip", "ptype", b)
	if err != nil {
		t.Fatal(err)
	}

	pair, err := store.LoadStars(id)
	if err != nil {
		t.Fatal(err)
	}
	if pair.M1[0] != 1.0 || pair.M2[0] != 0.5 {
		t.Errorf("masses lost: %v %v", pair.M1, pair.M2)
	}

	got, err := kepler.BinariesFromPair(pair)
	if err != nil {
		t.Fatal(err)
	}
	g := got[0]
	if math.Abs(g.E-b.E) > 1e-9 || math.Abs(g.A-b.A) > 1e-9 {
		t.Errorf("shape changed: e=%g a=%g", g.E, g.A)
	}
	for _, ang := range [][2]float64{{g.I, b.I}, {g.Omega, b.Omega}, {g.W, b.W}, {g.Nu, b.Nu}} {
		if math.Abs(ang[0]-ang[1]) > 1e-6 {
			t.Errorf("angle changed: got %f want %f", ang[0], ang[1])
		}
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty store, got %d runs", len(runs))
	}

	for _, name := range []string{"a", "b"} {
		if _, err := store.Save(name, "ptype", testBinary(t)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(store.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Save("bad", "ptype", &kepler.Binary{E: 1.5, A: 1, M1: 1, M2: 1}); err == nil {
		t.Error("expected error for unbound binary")
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if _, err := store.Save("json", "stype", testBinary(t)); err != nil {
		t.Fatal(err)
	}
	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "runs.json")
	if err := ExportJSON(path, runs); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Count int `json:"count"`
		Runs  []struct {
			Physical struct {
				StarMode string `json:"star_mode"`
				Binsys   struct {
					E float64 `json:"e"`
				} `json:"binsys"`
			} `json:"physical"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 1 || got.Runs[0].Physical.StarMode != "stype" {
		t.Errorf("unexpected export %s", data)
	}
	if got.Runs[0].Physical.Binsys.E != 0.3 {
		t.Errorf("embedded elements not flattened: %s", data)
	}
}

package combat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfilesFromDataDir(t *testing.T) {
	profiles, err := LoadProfiles(filepath.Join("..", "..", "data", "mobs"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defaults := DefaultProfiles()
	for _, kind := range []Kind{KindRat, KindWolf, KindScrapPile} {
		got, ok := profiles[kind]
		if !ok {
			t.Fatalf("%s missing", kind)
		}
		if got != defaults[kind] {
			t.Fatalf("%s from file differs from default:\n got %+v\nwant %+v", kind, got, defaults[kind])
		}
	}
}

func TestLoadProfilesDegradesOnBadFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"broken.json":  `{"kind": "rat", "max_hp": `,
		"rat.json":     `{"kind": "rat", "max_hp": 0}`,
		"mutant.json":  `{"name": "Mutant Rat", "max_hp": 35, "attack_power": 12, "attack_interval": 1.5, "melee_range": 2, "chase_speed": 5, "loot_min": 1, "loot_max": 1}`,
		"readme.txt":   `not a mob`,
		"barrels.json": `{"max_hp": 5, "stationary": true, "harmless": true, "loot_min": 2, "loot_max": 1}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	profiles, err := LoadProfiles(dir)
	if err == nil {
		t.Fatalf("expected an error for the broken files")
	}
	if profiles[KindRat] != DefaultProfiles()[KindRat] {
		t.Fatalf("invalid rat file replaced the default")
	}
	mutant, ok := profiles["mutant"]
	if !ok || mutant.Name != "Mutant Rat" || mutant.MaxHP != 35 {
		t.Fatalf("mutant=%+v ok=%v", mutant, ok)
	}
	if _, ok := profiles["barrels"]; ok {
		t.Fatalf("profile with inverted loot range accepted")
	}
}

func TestLoadProfilesMissingDir(t *testing.T) {
	profiles, err := LoadProfiles(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatalf("expected error for missing dir")
	}
	if len(profiles) != len(DefaultProfiles()) {
		t.Fatalf("defaults not returned: %d", len(profiles))
	}
}

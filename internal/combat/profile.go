package combat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind names a mob type. It doubles as the mob-description file name.
type Kind string

const (
	KindRat       Kind = "rat"
	KindWolf      Kind = "wolf"
	KindScrapPile Kind = "scrap_pile"
)

// Profile is the static description of one mob type. Intervals are in seconds, distances and
// speeds in world units.
type Profile struct {
	Kind           Kind    `json:"kind"`
	Name           string  `json:"name"`
	MaxHP          int     `json:"max_hp"`
	AttackPower    int     `json:"attack_power"`
	Defense        int     `json:"defense"`
	AttackInterval float64 `json:"attack_interval"`
	AggroRadius    float64 `json:"aggro_radius"`
	MeleeRange     float64 `json:"melee_range"`
	StopDistance   float64 `json:"stop_distance"`
	WanderSpeed    float64 `json:"wander_speed"`
	ChaseSpeed     float64 `json:"chase_speed"`
	ExpReward      int     `json:"exp_reward"`
	LootMin        int     `json:"loot_min"`
	LootMax        int     `json:"loot_max"`
	Stationary     bool    `json:"stationary"`
	Harmless       bool    `json:"harmless"`
	RespawnSeconds float64 `json:"respawn_seconds"`
}

// DefaultProfiles returns the built-in rat, wolf and scrap pile descriptions.
func DefaultProfiles() map[Kind]Profile {
	return map[Kind]Profile{
		KindRat: {
			Kind: KindRat, Name: "Apoc Rat",
			MaxHP: 20, AttackPower: 10, AttackInterval: 2,
			AggroRadius: 10, MeleeRange: 2.5, StopDistance: 1.8,
			WanderSpeed: 2.4, ChaseSpeed: 4.8,
			ExpReward: 10, LootMin: 0, LootMax: 1,
			RespawnSeconds: 30,
		},
		KindWolf: {
			Kind: KindWolf, Name: "Badlands Wolf",
			MaxHP: 50, AttackPower: 15, Defense: 2, AttackInterval: 2,
			AggroRadius: 12, MeleeRange: 3.0, StopDistance: 2.2,
			WanderSpeed: 2.4, ChaseSpeed: 5.4,
			ExpReward: 25, LootMin: 1, LootMax: 2,
			RespawnSeconds: 60,
		},
		KindScrapPile: {
			Kind: KindScrapPile, Name: "Scrap Pile",
			MaxHP: 10, LootMin: 1, LootMax: 3,
			Stationary: true, Harmless: true,
			RespawnSeconds: 45,
		},
	}
}

func (p Profile) validate() error {
	switch {
	case p.Kind == "":
		return errors.New("missing kind")
	case p.MaxHP <= 0:
		return fmt.Errorf("max_hp must be positive, got %d", p.MaxHP)
	case p.LootMin < 0 || p.LootMax < p.LootMin:
		return fmt.Errorf("invalid loot range %d-%d", p.LootMin, p.LootMax)
	case !p.Harmless && (p.AttackPower <= 0 || p.AttackInterval <= 0 || p.MeleeRange <= 0):
		return errors.New("hostile mob needs attack_power, attack_interval and melee_range")
	case !p.Stationary && p.ChaseSpeed <= 0 && !p.Harmless:
		return errors.New("mobile hostile mob needs chase_speed")
	}
	return nil
}

// LoadProfiles reads every *.json mob description in dir on top of the defaults. A file without a
// kind takes its name from the file. Files that fail to parse or validate are skipped and
// reported in the returned error; the defaults stay in place for them.
func LoadProfiles(dir string) (map[Kind]Profile, error) {
	profiles := DefaultProfiles()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return profiles, fmt.Errorf("read mob dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		var p Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if p.Kind == "" {
			p.Kind = Kind(strings.TrimSuffix(name, filepath.Ext(name)))
		}
		p.Kind = Kind(strings.ToLower(string(p.Kind)))
		if p.Name == "" {
			p.Name = string(p.Kind)
		}
		if err := p.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		profiles[p.Kind] = p
	}
	return profiles, errors.Join(errs...)
}

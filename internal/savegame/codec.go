package savegame

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
	"github.com/btrahan1/Scrapper3000/internal/player"
)

var errNotObject = errors.New("save document is not a JSON object")

// Report describes what Decode had to repair.
type Report struct {
	Malformed bool
	Version   int
	Migrated  []string
	Dropped   []string
	Defaulted []string
}

// Clean reports whether the document decoded without any repair or migration.
func (r Report) Clean() bool {
	return !r.Malformed && len(r.Migrated) == 0 && len(r.Dropped) == 0 && len(r.Defaulted) == 0
}

func (r *Report) drop(what string)    { r.Dropped = append(r.Dropped, what) }
func (r *Report) fill(what string)    { r.Defaulted = append(r.Defaulted, what) }
func (r *Report) migrate(what string) { r.Migrated = append(r.Migrated, what) }

type Codec struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewCodec(cat *catalog.Catalog, logger *slog.Logger) *Codec {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{catalog: cat, logger: logger}
}

// Encode writes s as a current-version document. The snapshot goes through the same
// reconciliation as Decode first, so Encode(Decode(Encode(s))) == Encode(s).
func (c *Codec) Encode(s player.Snapshot) ([]byte, error) {
	var r Report
	normalized := c.reconcile(documentFrom(s), &r)
	data, err := json.Marshal(documentFrom(normalized))
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return data, nil
}

// Decode never fails. Malformed input yields a fresh snapshot; missing or invalid fields are
// defaulted, legacy equipment fields are migrated, and all of it is recorded in the report and
// logged.
func (c *Codec) Decode(data []byte) (player.Snapshot, Report) {
	var r Report
	doc, err := parseDocument(data, &r)
	if err != nil {
		r.Malformed = true
		r.Version = CurrentVersion
		c.logger.Warn("malformed save document, starting from defaults", "error", err, "bytes", len(data))
		s := player.NewSnapshot()
		return s, r
	}
	s := c.reconcile(doc, &r)
	if !r.Clean() {
		c.logger.Warn("save document repaired",
			"version", r.Version,
			"migrated", r.Migrated,
			"dropped", r.Dropped,
			"defaulted", r.Defaulted,
		)
	}
	return s, r
}

// detectVersion trusts an explicit saveVersion and otherwise infers it from the fields present.
func detectVersion(d Document, r *Report) int {
	if d.SaveVersion != nil {
		v := *d.SaveVersion
		switch {
		case v < 1:
			r.drop("saveVersion")
		case v > CurrentVersion:
			r.fill("saveVersion")
			return CurrentVersion
		default:
			return v
		}
	}
	switch {
	case d.EquippedSlots != nil || d.OwnedGear != nil:
		return 3
	case d.EquippedWeapon != nil || d.EquippedArmor != nil:
		return 2
	default:
		return 1
	}
}

// reconcile applies the per-field default rules and legacy migrations in one pass.
func (c *Codec) reconcile(d Document, r *Report) player.Snapshot {
	s := player.NewSnapshot()
	r.Version = detectVersion(d, r)

	switch {
	case d.Level == nil || *d.Level < 1:
		r.fill("level")
	case *d.Level > player.MaxLevel:
		s.Level = player.MaxLevel
		r.fill("level")
	default:
		s.Level = *d.Level
	}

	s.MaxHP = player.MaxHPForLevel(s.Level)
	switch {
	case d.MaxHP == nil || *d.MaxHP <= 0:
		r.fill("maxHp")
	case *d.MaxHP > player.MaxHPForLevel(player.MaxLevel):
		s.MaxHP = player.MaxHPForLevel(player.MaxLevel)
		r.fill("maxHp")
	default:
		s.MaxHP = *d.MaxHP
	}

	// A zero or missing HP would resurrect a dead or broken save.
	switch {
	case d.HP == nil || *d.HP <= 0:
		s.HP = min(10, s.MaxHP)
		r.fill("hp")
	case *d.HP > s.MaxHP:
		s.HP = s.MaxHP
		r.fill("hp")
	default:
		s.HP = *d.HP
	}

	next := player.NextLevelExp(s.Level)
	switch {
	case d.CurrentExp == nil:
		r.fill("currentExp")
	case *d.CurrentExp < 0:
		r.fill("currentExp")
	case *d.CurrentExp >= next:
		s.CurrentExp = next - 1
		r.fill("currentExp")
	default:
		s.CurrentExp = *d.CurrentExp
	}

	switch {
	case d.Credits == nil:
		r.fill("credits")
	case *d.Credits < 0:
		r.fill("credits")
	default:
		s.Credits = *d.Credits
	}

	if d.IntroComplete != nil {
		s.IntroComplete = *d.IntroComplete
	}

	c.reconcileInventory(d, &s, r)
	c.reconcileCosmetics(d, &s, r)

	s.HasStick = d.HasStick != nil && *d.HasStick
	s.HasOveralls = d.HasOveralls != nil && *d.HasOveralls
	s.HasBackpack = d.HasBackpack != nil && *d.HasBackpack

	owned := c.reconcileOwned(d, r)
	c.reconcileSlots(d, &s, owned, r)
	if r.Version < 3 {
		c.migrateLegacy(d, &s, owned, r)
	}

	s.OwnedGear = make([]string, 0, len(owned))
	for name := range owned {
		s.OwnedGear = append(s.OwnedGear, name)
	}
	sort.Strings(s.OwnedGear)
	return s
}

func (c *Codec) reconcileInventory(d Document, s *player.Snapshot, r *Report) {
	if d.Inventory == nil {
		r.fill("inventory")
		return
	}
	chosen, rejected := canonicalKeys(d.Inventory, catalog.ParseMaterial, catalog.Material.String)
	for _, key := range rejected {
		r.drop("inventory." + key)
	}
	for _, m := range catalog.AllMaterials() {
		key, ok := chosen[m]
		if !ok {
			continue
		}
		count := d.Inventory[key]
		if count == nil || *count < 0 {
			r.fill("inventory." + m.String())
			continue
		}
		s.Inventory[m] = *count
	}
}

func (c *Codec) reconcileCosmetics(d Document, s *player.Snapshot, r *Report) {
	if d.Gender != nil {
		if g, ok := player.ParseGender(*d.Gender); ok {
			s.Gender = g
		} else {
			r.fill("gender")
		}
	} else {
		r.fill("gender")
	}

	if d.HairLength == nil || math.IsNaN(*d.HairLength) {
		r.fill("hairLength")
	} else {
		s.HairLength = *d.HairLength
		if s.HairLength < 0 || s.HairLength > 1 {
			s.HairLength = min(max(s.HairLength, 0), 1)
			r.fill("hairLength")
		}
	}

	if d.HairColor != nil && strings.TrimSpace(*d.HairColor) != "" {
		s.HairColor = strings.TrimSpace(*d.HairColor)
	} else {
		r.fill("hairColor")
	}
	if d.SkinColor != nil && strings.TrimSpace(*d.SkinColor) != "" {
		s.SkinColor = strings.TrimSpace(*d.SkinColor)
	} else {
		r.fill("skinColor")
	}

	if d.PlayerName != nil {
		if name := player.CleanName(*d.PlayerName); name != "" {
			s.PlayerName = name
			return
		}
	}
	r.fill("playerName")
}

func (c *Codec) reconcileOwned(d Document, r *Report) map[string]struct{} {
	owned := make(map[string]struct{}, len(d.OwnedGear))
	for _, name := range d.OwnedGear {
		item, ok := c.catalog.Lookup(name)
		if !ok {
			r.drop("ownedGear." + name)
			continue
		}
		owned[item.Name] = struct{}{}
	}
	return owned
}

func (c *Codec) reconcileSlots(d Document, s *player.Snapshot, owned map[string]struct{}, r *Report) {
	chosen, rejected := canonicalKeys(d.EquippedSlots, catalog.ParseSlot, catalog.Slot.String)
	for _, key := range rejected {
		r.drop("equippedSlots." + key)
	}
	for _, slot := range catalog.AllSlots() {
		key, ok := chosen[slot]
		if !ok {
			continue
		}
		value := d.EquippedSlots[key]
		if value == nil || *value == "" || *value == catalog.None {
			continue
		}
		item, ok := c.catalog.Lookup(*value)
		if !ok || item.Slot != slot {
			r.drop("equippedSlots." + slot.String())
			continue
		}
		c.place(s, owned, item, r)
	}
}

// migrateLegacy maps version 1 and 2 equipment into slots that are still empty.
func (c *Codec) migrateLegacy(d Document, s *player.Snapshot, owned map[string]struct{}, r *Report) {
	if d.EquippedWeapon != nil && *d.EquippedWeapon != "" && *d.EquippedWeapon != catalog.None {
		item, ok := c.catalog.Lookup(*d.EquippedWeapon)
		if ok && item.Slot == catalog.SlotWeapon {
			if c.placeIfEmpty(s, owned, item, r) {
				r.migrate("equippedWeapon")
			}
		} else {
			r.drop("equippedWeapon")
		}
	}
	if d.EquippedArmor != nil && *d.EquippedArmor != "" && *d.EquippedArmor != catalog.None {
		item, ok := c.catalog.Lookup(*d.EquippedArmor)
		if ok && item.Category == catalog.CategoryArmor {
			if c.placeIfEmpty(s, owned, item, r) {
				r.migrate("equippedArmor")
			}
		} else {
			r.drop("equippedArmor")
		}
	}

	starters := []struct {
		flag bool
		name string
		key  string
	}{
		{s.HasStick, catalog.StarterWeapon, "hasStick"},
		{s.HasOveralls, catalog.StarterArmor, "hasOveralls"},
	}
	for _, st := range starters {
		if !st.flag {
			continue
		}
		item, ok := c.catalog.Lookup(st.name)
		if !ok {
			continue
		}
		owned[item.Name] = struct{}{}
		if c.placeIfEmpty(s, owned, item, r) {
			r.migrate(st.key)
		}
	}
}

func (c *Codec) placeIfEmpty(s *player.Snapshot, owned map[string]struct{}, item catalog.ShopItem, r *Report) bool {
	if cur := s.Equipped[item.Slot]; cur != "" && cur != catalog.None {
		return false
	}
	c.place(s, owned, item, r)
	return true
}

// place equips item and makes sure it is owned.
func (c *Codec) place(s *player.Snapshot, owned map[string]struct{}, item catalog.ShopItem, r *Report) {
	s.Equipped[item.Slot] = item.Name
	if _, ok := owned[item.Name]; !ok {
		owned[item.Name] = struct{}{}
		r.fill("ownedGear." + item.Name)
	}
}

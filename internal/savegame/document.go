// Package savegame converts player snapshots to and from the versioned save document and keeps
// saves flowing to a storage.Store in the background.
package savegame

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
	"github.com/btrahan1/Scrapper3000/internal/player"
)

// CurrentVersion is written into every encoded document.
//
//	1: starter flags only (hasStick, hasOveralls, hasBackpack)
//	2: single equippedWeapon / equippedArmor fields
//	3: equippedSlots map and ownedGear list
const CurrentVersion = 3

// Document is the staging form of a save. Every field is optional on read; nil means absent.
type Document struct {
	SaveVersion   *int            `json:"saveVersion,omitempty"`
	Level         *int            `json:"level,omitempty"`
	CurrentExp    *int            `json:"currentExp,omitempty"`
	NextLevelExp  *int            `json:"nextLevelExp,omitempty"`
	Credits       *int            `json:"credits,omitempty"`
	HP            *int            `json:"hp,omitempty"`
	MaxHP         *int            `json:"maxHp,omitempty"`
	IntroComplete *bool           `json:"introComplete,omitempty"`
	Inventory     map[string]*int `json:"inventory,omitempty"`

	Gender     *string  `json:"gender,omitempty"`
	HairLength *float64 `json:"hairLength,omitempty"`
	HairColor  *string  `json:"hairColor,omitempty"`
	SkinColor  *string  `json:"skinColor,omitempty"`
	PlayerName *string  `json:"playerName,omitempty"`

	EquippedSlots map[string]*string `json:"equippedSlots,omitempty"`
	OwnedGear     []string           `json:"ownedGear"`

	HasBackpack    *bool   `json:"hasBackpack,omitempty"`
	HasOveralls    *bool   `json:"hasOveralls,omitempty"`
	HasStick       *bool   `json:"hasStick,omitempty"`
	EquippedWeapon *string `json:"equippedWeapon,omitempty"`
	EquippedArmor  *string `json:"equippedArmor,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// documentFrom builds a current-version document from a snapshot.
func documentFrom(s player.Snapshot) Document {
	inv := make(map[string]*int, catalog.MaterialCount)
	for _, m := range catalog.AllMaterials() {
		inv[m.String()] = ptr(s.Inventory[m])
	}
	slots := make(map[string]*string, catalog.SlotCount)
	for _, slot := range catalog.AllSlots() {
		name := s.Equipped[slot]
		if name == "" {
			name = catalog.None
		}
		slots[slot.String()] = ptr(name)
	}
	owned := append([]string{}, s.OwnedGear...)

	return Document{
		SaveVersion:   ptr(CurrentVersion),
		Level:         ptr(s.Level),
		CurrentExp:    ptr(s.CurrentExp),
		NextLevelExp:  ptr(player.NextLevelExp(s.Level)),
		Credits:       ptr(s.Credits),
		HP:            ptr(s.HP),
		MaxHP:         ptr(s.MaxHP),
		IntroComplete: ptr(s.IntroComplete),
		Inventory:     inv,
		Gender:        ptr(s.Gender.String()),
		HairLength:    ptr(s.HairLength),
		HairColor:     ptr(s.HairColor),
		SkinColor:     ptr(s.SkinColor),
		PlayerName:    ptr(s.PlayerName),
		EquippedSlots: slots,
		OwnedGear:     owned,
		HasBackpack:   ptr(s.HasBackpack),
		HasOveralls:   ptr(s.HasOveralls),
		HasStick:      ptr(s.HasStick),
	}
}

// parseDocument decodes field by field so one bad value only loses that field. Keys match
// case-insensitively, preferring the exact spelling. It fails only when data is not a JSON object.
func parseDocument(data []byte, r *Report) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, err
	}
	if raw == nil {
		return Document{}, errNotObject
	}
	fields := newDocFields(raw)

	var d Document
	take(fields, "saveVersion", &d.SaveVersion, r)
	take(fields, "level", &d.Level, r)
	take(fields, "currentExp", &d.CurrentExp, r)
	take(fields, "nextLevelExp", &d.NextLevelExp, r)
	take(fields, "credits", &d.Credits, r)
	take(fields, "hp", &d.HP, r)
	take(fields, "maxHp", &d.MaxHP, r)
	take(fields, "introComplete", &d.IntroComplete, r)
	take(fields, "gender", &d.Gender, r)
	take(fields, "hairLength", &d.HairLength, r)
	take(fields, "hairColor", &d.HairColor, r)
	take(fields, "skinColor", &d.SkinColor, r)
	take(fields, "playerName", &d.PlayerName, r)
	take(fields, "hasBackpack", &d.HasBackpack, r)
	take(fields, "hasOveralls", &d.HasOveralls, r)
	take(fields, "hasStick", &d.HasStick, r)
	take(fields, "equippedWeapon", &d.EquippedWeapon, r)
	take(fields, "equippedArmor", &d.EquippedArmor, r)

	var inv *map[string]*int
	take(fields, "inventory", &inv, r)
	if inv != nil {
		d.Inventory = *inv
	}
	var slots *map[string]*string
	take(fields, "equippedSlots", &slots, r)
	if slots != nil {
		d.EquippedSlots = *slots
	}
	var owned *[]string
	take(fields, "ownedGear", &owned, r)
	if owned != nil {
		d.OwnedGear = *owned
	}
	return d, nil
}

var jsonNull = []byte("null")

// docFields looks a key up by its exact spelling first, then case-insensitively. When several case
// variants exist the lexically smallest wins, so the result never depends on map order.
type docFields struct {
	exact  map[string]json.RawMessage
	folded map[string]json.RawMessage
}

func newDocFields(raw map[string]json.RawMessage) docFields {
	folded := make(map[string]json.RawMessage, len(raw))
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		lk := strings.ToLower(k)
		if _, seen := folded[lk]; !seen {
			folded[lk] = raw[k]
		}
	}
	return docFields{exact: raw, folded: folded}
}

func (f docFields) get(key string) (json.RawMessage, bool) {
	if v, ok := f.exact[key]; ok {
		return v, true
	}
	v, ok := f.folded[strings.ToLower(key)]
	return v, ok
}

// canonicalKeys returns the keys of m that parse to the same enum value once each: the canonical
// spelling wins, otherwise the lexically smallest variant. Keys that do not parse are returned in
// rejected.
func canonicalKeys[E comparable, V any](m map[string]V, parse func(string) (E, bool), name func(E) string) (chosen map[E]string, rejected []string) {
	chosen = make(map[E]string, len(m))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		e, ok := parse(key)
		if !ok {
			rejected = append(rejected, key)
			continue
		}
		if _, seen := chosen[e]; seen && key != name(e) {
			continue
		}
		chosen[e] = key
	}
	return chosen, rejected
}

func take[T any](fields docFields, key string, dst **T, r *Report) {
	v, ok := fields.get(key)
	if !ok || bytes.Equal(bytes.TrimSpace(v), jsonNull) {
		return
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		r.drop(key)
		return
	}
	*dst = &out
}

package savegame

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
	"github.com/btrahan1/Scrapper3000/internal/player"
)

func newCodec() *Codec {
	return NewCodec(catalog.Default(), slog.New(slog.DiscardHandler))
}

func TestDecodeLegacyWeaponField(t *testing.T) {
	c := newCodec()
	s, r := c.Decode([]byte(`{"equippedWeapon":"Metal Pipe"}`))

	if got := s.Equipped[catalog.SlotWeapon]; got != "Metal Pipe" {
		t.Fatalf("weapon=%q want Metal Pipe", got)
	}
	if !slices.Contains(s.OwnedGear, "Metal Pipe") {
		t.Fatalf("owned=%v missing Metal Pipe", s.OwnedGear)
	}
	if r.Version != 2 {
		t.Fatalf("version=%d want 2", r.Version)
	}
	if !slices.Contains(r.Migrated, "equippedWeapon") {
		t.Fatalf("migrated=%v", r.Migrated)
	}

	p := player.New(catalog.Default(), nil, slog.New(slog.DiscardHandler))
	p.Load(s)
	if got, want := p.AttackPower(), player.BaseAttack(1)+6; got != want {
		t.Fatalf("attack=%d want %d", got, want)
	}
}

func TestDecodeLegacyArmorField(t *testing.T) {
	s, _ := newCodec().Decode([]byte(`{"equippedArmor":"Tire Vest","equippedWeapon":"Tire Vest"}`))
	if got := s.Equipped[catalog.SlotChest]; got != "Tire Vest" {
		t.Fatalf("chest=%q want Tire Vest", got)
	}
	if got := s.Equipped[catalog.SlotWeapon]; got != catalog.None {
		t.Fatalf("weapon=%q want None", got)
	}
}

func TestDecodeDefaults(t *testing.T) {
	s, r := newCodec().Decode([]byte(`{}`))

	if s.Level != 1 || s.CurrentExp != 0 || s.Credits != 0 {
		t.Fatalf("level=%d exp=%d credits=%d", s.Level, s.CurrentExp, s.Credits)
	}
	if s.MaxHP != 100 {
		t.Fatalf("maxhp=%d want 100", s.MaxHP)
	}
	if s.HP != 10 {
		t.Fatalf("hp=%d want 10", s.HP)
	}
	if s.PlayerName != player.PlaceholderName || s.Gender != player.GenderMale {
		t.Fatalf("name=%q gender=%v", s.PlayerName, s.Gender)
	}
	if s.HairLength != player.DefaultHairLength || s.HairColor != player.DefaultHairColor || s.SkinColor != player.DefaultSkinColor {
		t.Fatalf("cosmetics=%v %q %q", s.HairLength, s.HairColor, s.SkinColor)
	}
	for _, slot := range catalog.AllSlots() {
		if s.Equipped[slot] != catalog.None {
			t.Fatalf("slot %s=%q want None", slot, s.Equipped[slot])
		}
	}
	if r.Malformed || r.Version != 1 || r.Clean() {
		t.Fatalf("report=%+v", r)
	}
}

func TestDecodeHPRules(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{name: "dead save", doc: `{"level":3,"hp":0,"maxHp":120}`, want: 10},
		{name: "negative", doc: `{"hp":-4}`, want: 10},
		{name: "tiny max", doc: `{"hp":0,"maxHp":6}`, want: 6},
		{name: "over max", doc: `{"hp":500,"maxHp":120}`, want: 120},
		{name: "normal", doc: `{"hp":37,"maxHp":120}`, want: 37},
		{name: "max from level", doc: `{"level":4,"hp":200}`, want: 130},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newCodec().Decode([]byte(tc.doc))
			if s.HP != tc.want {
				t.Fatalf("hp=%d want %d", s.HP, tc.want)
			}
			if s.HP <= 0 {
				t.Fatalf("decoded a dead player")
			}
		})
	}
}

func TestDecodeExperienceClamped(t *testing.T) {
	s, _ := newCodec().Decode([]byte(`{"level":2,"currentExp":999}`))
	if s.CurrentExp != 199 {
		t.Fatalf("exp=%d want 199", s.CurrentExp)
	}
}

func TestDecodeOutOfRangeLevel(t *testing.T) {
	docs := []string{
		`{"level":2000000000000000000,"currentExp":5}`,
		`{"level":2000000000000000000}`,
		`{"level":101,"maxHp":9000000000000000000,"hp":9000000000000000000,"currentExp":9000000000000000000}`,
	}
	for _, doc := range docs {
		s, r := newCodec().Decode([]byte(doc))
		if s.Level != player.MaxLevel {
			t.Fatalf("%s: level=%d want %d", doc, s.Level, player.MaxLevel)
		}
		if !slices.Contains(r.Defaulted, "level") {
			t.Fatalf("%s: defaulted=%v want level", doc, r.Defaulted)
		}
		if s.MaxHP <= 0 || s.MaxHP > player.MaxHPForLevel(player.MaxLevel) || s.HP <= 0 || s.HP > s.MaxHP {
			t.Fatalf("%s: hp=%d/%d", doc, s.HP, s.MaxHP)
		}
		if next := player.NextLevelExp(s.Level); s.CurrentExp < 0 || s.CurrentExp >= next {
			t.Fatalf("%s: exp=%d want in [0,%d)", doc, s.CurrentExp, next)
		}

		p := player.New(catalog.Default(), nil, slog.New(slog.DiscardHandler))
		p.Load(s)
		p.AddExperience(10)
		if p.CurrentExp() < 0 || p.CurrentExp() >= p.NextLevelExp() {
			t.Fatalf("%s: exp=%d after gain, next=%d", doc, p.CurrentExp(), p.NextLevelExp())
		}
	}
}

func TestDecodePrefersExactCaseKeys(t *testing.T) {
	doc := []byte(`{
		"HP": 5, "hp": 40, "Hp": 7, "maxHp": 100,
		"CREDITS": 3, "Credits": 9,
		"inventory": {"metal": 1, "Metal": 3, "METAL": 8},
		"ownedGear": ["Stick", "Metal Pipe"],
		"equippedSlots": {"weapon": "Stick", "Weapon": "Metal Pipe", "WEAPON": "Stick"}
	}`)
	// Map order varies between runs; every decode must agree.
	for range 20 {
		s, _ := newCodec().Decode(doc)
		if s.HP != 40 {
			t.Fatalf("hp=%d want exact key hp=40", s.HP)
		}
		if s.Credits != 3 {
			t.Fatalf("credits=%d want smallest variant CREDITS=3", s.Credits)
		}
		if got := s.Inventory[catalog.Metal]; got != 3 {
			t.Fatalf("metal=%d want canonical Metal=3", got)
		}
		if got := s.Equipped[catalog.SlotWeapon]; got != "Metal Pipe" {
			t.Fatalf("weapon=%q want canonical Weapon=Metal Pipe", got)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, doc := range []string{`not json`, `[1,2,3]`, `null`, `"save"`, ``} {
		s, r := newCodec().Decode([]byte(doc))
		if !r.Malformed {
			t.Fatalf("%q: report=%+v want malformed", doc, r)
		}
		if !s.Equal(player.NewSnapshot()) {
			t.Fatalf("%q: snapshot=%+v want defaults", doc, s)
		}
	}
}

func TestDecodeBadFieldLosesOnlyThatField(t *testing.T) {
	s, r := newCodec().Decode([]byte(`{"level":"seven","credits":30,"Inventory":{"metal":4,"Gold":2}}`))
	if s.Level != 1 || s.Credits != 30 {
		t.Fatalf("level=%d credits=%d", s.Level, s.Credits)
	}
	if s.Inventory[catalog.Metal] != 4 {
		t.Fatalf("metal=%d want 4", s.Inventory[catalog.Metal])
	}
	if !slices.Contains(r.Dropped, "level") || !slices.Contains(r.Dropped, "inventory.Gold") {
		t.Fatalf("dropped=%v", r.Dropped)
	}
}

func TestDecodeDropsUnknownAndMismatchedItems(t *testing.T) {
	doc := `{
		"saveVersion": 3,
		"ownedGear": ["Unobtainium", "Metal Pipe", "Scrap Helmet"],
		"equippedSlots": {"Head": "Metal Pipe", "Weapon": "Metal Pipe", "Tail": "Stick", "Chest": "Hubcap Helm"}
	}`
	s, r := newCodec().Decode([]byte(doc))

	if s.Equipped[catalog.SlotWeapon] != "Metal Pipe" {
		t.Fatalf("weapon=%q", s.Equipped[catalog.SlotWeapon])
	}
	if s.Equipped[catalog.SlotHead] != catalog.None || s.Equipped[catalog.SlotChest] != catalog.None {
		t.Fatalf("head=%q chest=%q", s.Equipped[catalog.SlotHead], s.Equipped[catalog.SlotChest])
	}
	if slices.Contains(s.OwnedGear, "Unobtainium") {
		t.Fatalf("owned=%v kept unknown item", s.OwnedGear)
	}
	for _, want := range []string{"ownedGear.Unobtainium", "equippedSlots.Head", "equippedSlots.Tail", "equippedSlots.Chest"} {
		if !slices.Contains(r.Dropped, want) {
			t.Fatalf("dropped=%v missing %s", r.Dropped, want)
		}
	}
}

func TestDecodeEquippedItemBecomesOwned(t *testing.T) {
	s, r := newCodec().Decode([]byte(`{"equippedSlots":{"Legs":"Work Pants"},"ownedGear":[]}`))
	if s.Equipped[catalog.SlotLegs] != "Work Pants" || !slices.Contains(s.OwnedGear, "Work Pants") {
		t.Fatalf("legs=%q owned=%v", s.Equipped[catalog.SlotLegs], s.OwnedGear)
	}
	if !slices.Contains(r.Defaulted, "ownedGear.Work Pants") {
		t.Fatalf("defaulted=%v", r.Defaulted)
	}
}

func TestDecodeStarterFlagsVersion1(t *testing.T) {
	s, r := newCodec().Decode([]byte(`{"hasStick":true,"hasOveralls":true,"hasBackpack":true}`))
	if r.Version != 1 {
		t.Fatalf("version=%d want 1", r.Version)
	}
	if s.Equipped[catalog.SlotWeapon] != catalog.StarterWeapon || s.Equipped[catalog.SlotChest] != catalog.StarterArmor {
		t.Fatalf("weapon=%q chest=%q", s.Equipped[catalog.SlotWeapon], s.Equipped[catalog.SlotChest])
	}
	if !s.HasStick || !s.HasOveralls || !s.HasBackpack {
		t.Fatalf("starter flags lost: %+v", s)
	}
	if !slices.Contains(r.Migrated, "hasStick") || !slices.Contains(r.Migrated, "hasOveralls") {
		t.Fatalf("migrated=%v", r.Migrated)
	}
}

func TestDecodeCurrentVersionKeepsUnequippedStarter(t *testing.T) {
	doc := `{"saveVersion":3,"hasStick":true,"equippedSlots":{"Weapon":"None"},"ownedGear":["Stick"]}`
	s, r := newCodec().Decode([]byte(doc))
	if s.Equipped[catalog.SlotWeapon] != catalog.None {
		t.Fatalf("weapon=%q want None", s.Equipped[catalog.SlotWeapon])
	}
	if len(r.Migrated) != 0 {
		t.Fatalf("migrated=%v want none", r.Migrated)
	}
}

func TestDecodeLegacyDoesNotOverrideSlots(t *testing.T) {
	doc := `{"saveVersion":2,"equippedWeapon":"Metal Pipe","equippedSlots":{"Weapon":"Rebar Club"},"ownedGear":["Rebar Club"]}`
	s, _ := newCodec().Decode([]byte(doc))
	if s.Equipped[catalog.SlotWeapon] != "Rebar Club" {
		t.Fatalf("weapon=%q want Rebar Club", s.Equipped[catalog.SlotWeapon])
	}
}

func TestDecodeVersionDetection(t *testing.T) {
	tests := []struct {
		doc  string
		want int
	}{
		{doc: `{"level":2}`, want: 1},
		{doc: `{"equippedArmor":"Overalls"}`, want: 2},
		{doc: `{"ownedGear":[]}`, want: 3},
		{doc: `{"saveVersion":2,"ownedGear":[]}`, want: 2},
		{doc: `{"saveVersion":99}`, want: CurrentVersion},
		{doc: `{"saveVersion":0,"equippedWeapon":"Stick"}`, want: 2},
	}
	for _, tc := range tests {
		_, r := newCodec().Decode([]byte(tc.doc))
		if r.Version != tc.want {
			t.Fatalf("%s: version=%d want %d", tc.doc, r.Version, tc.want)
		}
	}
}

func TestDecodeCosmetics(t *testing.T) {
	doc := `{"gender":"female","hairLength":3.5,"hairColor":"  #ff0000 ","skinColor":"","playerName":"   "}`
	s, r := newCodec().Decode([]byte(doc))
	if s.Gender != player.GenderFemale {
		t.Fatalf("gender=%v", s.Gender)
	}
	if s.HairLength != 1 {
		t.Fatalf("hair=%v want 1", s.HairLength)
	}
	if s.HairColor != "#ff0000" || s.SkinColor != player.DefaultSkinColor {
		t.Fatalf("hair=%q skin=%q", s.HairColor, s.SkinColor)
	}
	if s.PlayerName != player.PlaceholderName {
		t.Fatalf("name=%q", s.PlayerName)
	}
	for _, want := range []string{"hairLength", "skinColor", "playerName"} {
		if !slices.Contains(r.Defaulted, want) {
			t.Fatalf("defaulted=%v missing %s", r.Defaulted, want)
		}
	}
}

func TestEncodeWritesCurrentSchema(t *testing.T) {
	c := newCodec()
	s := player.NewSnapshot()
	s.Credits = 42
	s.Equipped[catalog.SlotWeapon] = catalog.StarterWeapon
	s.OwnedGear = []string{catalog.StarterWeapon}

	data, err := c.Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["saveVersion"] != float64(CurrentVersion) || doc["credits"] != float64(42) || doc["nextLevelExp"] != float64(100) {
		t.Fatalf("doc=%v", doc)
	}
	slots, ok := doc["equippedSlots"].(map[string]any)
	if !ok || slots["Weapon"] != "Stick" || slots["Bot"] != "None" {
		t.Fatalf("equippedSlots=%v", doc["equippedSlots"])
	}
	if _, ok := doc["equippedWeapon"]; ok {
		t.Fatalf("legacy equippedWeapon written")
	}

	back, r := c.Decode(data)
	if !r.Clean() {
		t.Fatalf("report=%+v want clean", r)
	}
	if !back.Equal(s) {
		t.Fatalf("decoded=%+v want %+v", back, s)
	}
}

func TestEncodeDeadPlayer(t *testing.T) {
	s := player.NewSnapshot()
	s.HP = 0
	data, err := newCodec().Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, _ := newCodec().Decode(data)
	if back.HP != 10 {
		t.Fatalf("hp=%d want 10", back.HP)
	}
}

func TestEncodeNaNHair(t *testing.T) {
	s := player.NewSnapshot()
	s.HairLength = math.NaN()
	if _, err := newCodec().Encode(s); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func snapshotGen() *rapid.Generator[player.Snapshot] {
	items := catalog.Default().Items()
	names := make([]string, 0, len(items)+2)
	for _, item := range items {
		names = append(names, item.Name)
	}
	names = append(names, catalog.None, "Unobtainium")

	return rapid.Custom(func(t *rapid.T) player.Snapshot {
		s := player.NewSnapshot()
		s.Level = rapid.IntRange(-2, 60).Draw(t, "level")
		s.CurrentExp = rapid.IntRange(-50, 8000).Draw(t, "exp")
		s.Credits = rapid.IntRange(-50, 100000).Draw(t, "credits")
		s.MaxHP = rapid.IntRange(-5, 800).Draw(t, "maxhp")
		s.HP = rapid.IntRange(-5, 900).Draw(t, "hp")
		s.IntroComplete = rapid.Bool().Draw(t, "intro")
		for i := range s.Inventory {
			s.Inventory[i] = rapid.IntRange(-3, 500).Draw(t, "inv")
		}
		for i := range s.Equipped {
			s.Equipped[i] = rapid.SampledFrom(names).Draw(t, "equipped")
		}
		s.OwnedGear = rapid.SliceOfN(rapid.SampledFrom(names), 0, 8).Draw(t, "owned")
		s.HasStick = rapid.Bool().Draw(t, "stick")
		s.HasOveralls = rapid.Bool().Draw(t, "overalls")
		s.HasBackpack = rapid.Bool().Draw(t, "backpack")
		s.Gender = player.Gender(rapid.IntRange(0, 3).Draw(t, "gender"))
		s.HairLength = rapid.Float64Range(-1, 2).Draw(t, "hairLength")
		s.HairColor = rapid.String().Draw(t, "hairColor")
		s.SkinColor = rapid.SampledFrom([]string{"", "#e0ac69", " #8d5524 "}).Draw(t, "skinColor")
		s.PlayerName = rapid.String().Draw(t, "name")
		return s
	})
}

func TestPropertyRoundTrip(t *testing.T) {
	c := newCodec()
	rapid.Check(t, func(t *rapid.T) {
		s := snapshotGen().Draw(t, "snapshot")

		first, err := c.Encode(s)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		decoded, r := c.Decode(first)
		if r.Malformed {
			t.Fatalf("own output reported malformed: %s", first)
		}
		if decoded.HP <= 0 || decoded.HP > decoded.MaxHP {
			t.Fatalf("hp=%d maxhp=%d", decoded.HP, decoded.MaxHP)
		}
		second, err := c.Encode(decoded)
		if err != nil {
			t.Fatalf("re-encode: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("round trip changed document:\n%s\n%s", first, second)
		}
	})
}

func TestPropertyDecodeNeverPanics(t *testing.T) {
	c := newCodec()
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		s, _ := c.Decode(data)
		if s.Level < 1 || s.HP <= 0 {
			t.Fatalf("decoded level=%d hp=%d", s.Level, s.HP)
		}
	})
}

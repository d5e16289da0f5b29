package catalog

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in   string
		want Slot
		ok   bool
	}{
		{in: "Weapon", want: SlotWeapon, ok: true},
		{in: " gloves ", want: SlotGloves, ok: true},
		{in: "BOT", want: SlotBot, ok: true},
		{in: "Back", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseSlot(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("ParseSlot(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMaterialPrices(t *testing.T) {
	prices := MaterialPrices()
	if len(prices) != MaterialCount {
		t.Fatalf("prices=%d want %d", len(prices), MaterialCount)
	}
	for _, m := range AllMaterials() {
		if m.Price() <= 0 {
			t.Fatalf("%s price=%d, want positive", m, m.Price())
		}
		if prices[m.String()] != m.Price() {
			t.Fatalf("%s price mismatch", m)
		}
	}
	if _, ok := ParseMaterial("iron"); ok {
		t.Fatalf("iron is not a junkyard material")
	}
}

func TestSlotKeyedMapJSON(t *testing.T) {
	raw, err := json.Marshal(map[Slot]string{SlotWeapon: "Stick", SlotChest: "Overalls"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"Chest":"Overalls","Weapon":"Stick"}` {
		t.Fatalf("unexpected json %s", raw)
	}

	var back map[Slot]string
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[SlotWeapon] != "Stick" {
		t.Fatalf("weapon=%q", back[SlotWeapon])
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	stick, ok := c.Lookup("Spiked Stick")
	if !ok {
		t.Fatalf("Spiked Stick missing")
	}
	if stick.Attack != 3 || stick.Slot != SlotWeapon || stick.Category != CategoryWeapon {
		t.Fatalf("unexpected Spiked Stick definition: %+v", stick)
	}
	if _, ok := c.Lookup(StarterArmor); !ok {
		t.Fatalf("starter armor missing")
	}

	starter := c.Starter()
	if len(starter) != 2 || starter[0].Slot != SlotWeapon || starter[1].Slot != SlotChest {
		t.Fatalf("unexpected starter gear: %+v", starter)
	}

	items := c.Items()
	for i := 1; i < len(items); i++ {
		if items[i-1].Price > items[i].Price {
			t.Fatalf("items not ordered by price at %d", i)
		}
	}
	for _, item := range c.ForSlot(SlotHead) {
		if item.Slot != SlotHead {
			t.Fatalf("ForSlot(Head) returned %s", item.Name)
		}
	}
}

func TestNewRejectsBadItems(t *testing.T) {
	cases := [][]ShopItem{
		{{Name: "", Slot: SlotHead}},
		{{Name: None, Slot: SlotHead}},
		{{Name: "Ghost", Slot: Slot(99)}},
		{{Name: "Dup", Slot: SlotHead}, {Name: "Dup", Slot: SlotLegs}},
		{{Name: "Cheap", Slot: SlotHead, Price: -1}},
	}
	for i, items := range cases {
		if _, err := New(items); !errors.Is(err, ErrInvalidItem) {
			t.Fatalf("case %d: err=%v want ErrInvalidItem", i, err)
		}
	}
}

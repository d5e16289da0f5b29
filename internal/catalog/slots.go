package catalog

import (
	"fmt"
	"strings"
)

// None is the item name stored in an empty equipment slot.
const None = "None"

// Slot is an equipment attachment point on the scrapper.
type Slot uint8

const (
	SlotWeapon Slot = iota
	SlotHead
	SlotChest
	SlotLegs
	SlotFeet
	SlotArms
	SlotGloves
	SlotBot

	slotCount
)

// SlotCount is the number of equipment slots. Arrays indexed by Slot use it as their length.
const SlotCount = int(slotCount)

var slotNames = [SlotCount]string{
	SlotWeapon: "Weapon",
	SlotHead:   "Head",
	SlotChest:  "Chest",
	SlotLegs:   "Legs",
	SlotFeet:   "Feet",
	SlotArms:   "Arms",
	SlotGloves: "Gloves",
	SlotBot:    "Bot",
}

func (s Slot) Valid() bool {
	return s < slotCount
}

func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Slot(%d)", uint8(s))
	}
	return slotNames[s]
}

func (s Slot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("catalog: invalid slot %d", uint8(s))
	}
	return []byte(slotNames[s]), nil
}

func (s *Slot) UnmarshalText(text []byte) error {
	parsed, ok := ParseSlot(string(text))
	if !ok {
		return fmt.Errorf("catalog: unknown slot %q", string(text))
	}
	*s = parsed
	return nil
}

// ParseSlot resolves a slot name case-insensitively.
func ParseSlot(raw string) (Slot, bool) {
	raw = strings.TrimSpace(raw)
	for i, name := range slotNames {
		if strings.EqualFold(name, raw) {
			return Slot(i), true
		}
	}
	return 0, false
}

// AllSlots lists every slot in declaration order.
func AllSlots() []Slot {
	out := make([]Slot, 0, SlotCount)
	for i := 0; i < SlotCount; i++ {
		out = append(out, Slot(i))
	}
	return out
}

package player

import (
	"strings"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
)

// Starter pickups in the shed.
const (
	StarterStick    = "stick"
	StarterOveralls = "overalls"
	StarterBackpack = "backpack"
)

const (
	DialogueWelcome      = "Welcome scrapper, I see you could use a few things..."
	DialogueFirstStarter = "Good. Now grab the others."
	DialogueTwoStarters  = "Almost there. One more thing left."
	DialogueAllStarters  = "So, let's have a look at you! Use that mirror and fix yourself up."
)

// EquipItem puts an owned item into slot. Unknown items, items not owned and items whose catalog
// slot differs from slot are ignored. Equipping what is already there is a no-op.
func (p *Player) EquipItem(name string, slot catalog.Slot) Change {
	item, ok := p.catalog.Lookup(name)
	if !ok || !slot.Valid() || item.Slot != slot || !p.Owns(item.Name) {
		return 0
	}
	if !p.equip(item) {
		return 0
	}
	return p.notify(ChangeState | ChangeEquipment)
}

// equip reports whether the slot changed.
func (p *Player) equip(item catalog.ShopItem) bool {
	if p.equipped[item.Slot] == item.Name {
		return false
	}
	p.equipped[item.Slot] = item.Name
	p.recomputeStats()
	return true
}

func (p *Player) UnequipSlot(slot catalog.Slot) Change {
	if !slot.Valid() || p.equipped[slot] == catalog.None {
		return 0
	}
	p.equipped[slot] = catalog.None
	p.recomputeStats()
	return p.notify(ChangeState | ChangeEquipment)
}

// EquipStarterItem records one of the three intro pickups. The stick and overalls are granted
// and equipped; the backpack has no slot and only sets its flag. Once all three are collected
// the intro moves on to customization.
func (p *Player) EquipStarterItem(name string) Change {
	var (
		flag     *bool
		itemName string
	)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StarterStick:
		flag, itemName = &p.hasStick, catalog.StarterWeapon
	case StarterOveralls:
		flag, itemName = &p.hasOveralls, catalog.StarterArmor
	case StarterBackpack:
		flag = &p.hasBackpack
	default:
		return 0
	}
	if *flag {
		return 0
	}
	*flag = true

	change := ChangeState | ChangeVisual
	if itemName != "" {
		if item, ok := p.catalog.Lookup(itemName); ok {
			p.owned[item.Name] = struct{}{}
			if p.equip(item) {
				change |= ChangeEquipment
			}
		}
	}

	switch p.StarterCount() {
	case 1:
		p.dialogue = DialogueFirstStarter
	case 2:
		p.dialogue = DialogueTwoStarters
	case 3:
		p.dialogue = DialogueAllStarters
		if !p.flow.introComplete {
			p.flow.customizing = true
		}
	}
	return p.notify(change)
}

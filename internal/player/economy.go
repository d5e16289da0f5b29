package player

import (
	"strings"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
)

func (p *Player) AddCredits(amount int) Change {
	if amount <= 0 {
		return 0
	}
	p.credits += amount
	return p.notify(ChangeState)
}

// AddInventory adds loot or pickups. Unknown materials and non-positive amounts are ignored.
func (p *Player) AddInventory(m catalog.Material, amount int) Change {
	if !m.Valid() || amount <= 0 {
		return 0
	}
	p.inventory[m] += amount
	return p.notify(ChangeState)
}

// PickUpItem handles an item-picked-up event from the scene: a material adds one unit and a
// starter item goes through EquipStarterItem.
func (p *Player) PickUpItem(name string) Change {
	if m, ok := catalog.ParseMaterial(name); ok {
		return p.AddInventory(m, 1)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StarterStick, StarterOveralls, StarterBackpack:
		return p.EquipStarterItem(name)
	}
	p.logger.Debug("ignoring unknown pickup", "item", name)
	return 0
}

// SellItem sells one unit of m.
func (p *Player) SellItem(m catalog.Material) Change {
	if !m.Valid() || p.inventory[m] <= 0 {
		return 0
	}
	p.inventory[m]--
	p.credits += m.Price()
	return p.notify(ChangeState)
}

// SellAll sells every unit of m in one step.
func (p *Player) SellAll(m catalog.Material) Change {
	if !m.Valid() || p.inventory[m] <= 0 {
		return 0
	}
	count := p.inventory[m]
	p.inventory[m] = 0
	p.credits += count * m.Price()
	return p.notify(ChangeState)
}

// BuyItem debits the price and adds the item to owned gear. The item is equipped right away when
// its slot is empty or it is a weapon.
func (p *Player) BuyItem(name string) Change {
	item, ok := p.catalog.Lookup(name)
	if !ok || p.Owns(item.Name) || p.credits < item.Price {
		return 0
	}
	p.credits -= item.Price
	p.owned[item.Name] = struct{}{}
	change := ChangeState
	if p.equipped[item.Slot] == catalog.None || item.Category == catalog.CategoryWeapon {
		if p.equip(item) {
			change |= ChangeEquipment
		}
	}
	p.logger.Debug("item bought", "item", item.Name, "price", item.Price, "credits", p.credits)
	return p.notify(change)
}

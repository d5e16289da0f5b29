package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Category string

const (
	CategoryWeapon Category = "weapon"
	CategoryArmor  Category = "armor"
	CategoryBot    Category = "bot"
)

// Starter gear handed out in the shed during the intro.
const (
	StarterWeapon = "Stick"
	StarterArmor  = "Overalls"
)

var ErrInvalidItem = errors.New("catalog: invalid item")

// ShopItem is a vendor item definition. Definitions are reference data and never change at runtime.
type ShopItem struct {
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Category Category `json:"category"`
	Slot     Slot     `json:"slot"`
	Attack   int      `json:"attack"`
	Defense  int      `json:"defense"`
	Color    string   `json:"color,omitempty"`
	Model    string   `json:"model,omitempty"`
}

// Catalog is the immutable vendor item list indexed by name.
type Catalog struct {
	items  []ShopItem
	byName map[string]ShopItem
}

var defaultItems = []ShopItem{
	{Name: StarterWeapon, Price: 0, Category: CategoryWeapon, Slot: SlotWeapon, Attack: 1, Color: "#8b5a2b", Model: "Stick"},
	{Name: "Spiked Stick", Price: 50, Category: CategoryWeapon, Slot: SlotWeapon, Attack: 3, Color: "#6e4b2a", Model: "SpikedStick"},
	{Name: "Metal Pipe", Price: 150, Category: CategoryWeapon, Slot: SlotWeapon, Attack: 6, Color: "#9aa0a6", Model: "MetalPipe"},
	{Name: "Rebar Club", Price: 320, Category: CategoryWeapon, Slot: SlotWeapon, Attack: 10, Color: "#5f6368", Model: "RebarClub"},

	{Name: StarterArmor, Price: 0, Category: CategoryArmor, Slot: SlotChest, Defense: 1, Color: "#3b5b92", Model: "Overalls"},
	{Name: "Tire Vest", Price: 120, Category: CategoryArmor, Slot: SlotChest, Defense: 4, Color: "#222222", Model: "TireVest"},
	{Name: "Scrap Helmet", Price: 60, Category: CategoryArmor, Slot: SlotHead, Defense: 2, Color: "#a0522d", Model: "Helmet"},
	{Name: "Hubcap Helm", Price: 140, Category: CategoryArmor, Slot: SlotHead, Defense: 4, Color: "#c0c0c0", Model: "HubcapHelm"},
	{Name: "Work Pants", Price: 50, Category: CategoryArmor, Slot: SlotLegs, Defense: 2, Color: "#4a4a3a", Model: "WorkPants"},
	{Name: "Steel Toes", Price: 70, Category: CategoryArmor, Slot: SlotFeet, Defense: 2, Color: "#3a2a1a", Model: "Boots"},
	{Name: "Pipe Bracers", Price: 90, Category: CategoryArmor, Slot: SlotArms, Attack: 1, Defense: 2, Color: "#7a7a7a", Model: "Bracers"},
	{Name: "Welding Gloves", Price: 45, Category: CategoryArmor, Slot: SlotGloves, Defense: 1, Color: "#b5651d", Model: "Gloves"},

	{Name: "Scrap Bot MK1", Price: 200, Category: CategoryBot, Slot: SlotBot, Color: "#00ccff", Model: "ScrapBotMK1"},
	{Name: "Scrap Bot MK4", Price: 600, Category: CategoryBot, Slot: SlotBot, Defense: 1, Color: "#00ffcc", Model: "ScrapBotMK4"},
}

// New validates items and builds the name index.
func New(items []ShopItem) (*Catalog, error) {
	c := &Catalog{
		items:  make([]ShopItem, 0, len(items)),
		byName: make(map[string]ShopItem, len(items)),
	}
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		switch {
		case name == "" || name == None:
			return nil, fmt.Errorf("%w: empty or reserved name %q", ErrInvalidItem, item.Name)
		case !item.Slot.Valid():
			return nil, fmt.Errorf("%w: %s has invalid slot", ErrInvalidItem, name)
		case item.Price < 0:
			return nil, fmt.Errorf("%w: %s has negative price", ErrInvalidItem, name)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidItem, name)
		}
		item.Name = name
		c.items = append(c.items, item)
		c.byName[name] = item
	}
	return c, nil
}

// Default returns the built-in junkyard vendor catalog.
func Default() *Catalog {
	c, err := New(defaultItems)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Lookup(name string) (ShopItem, bool) {
	item, ok := c.byName[strings.TrimSpace(name)]
	return item, ok
}

// Items returns a copy of the catalog ordered by price then name.
func (c *Catalog) Items() []ShopItem {
	out := append([]ShopItem(nil), c.items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Starter returns the weapon and chest armor handed out during the intro.
func (c *Catalog) Starter() []ShopItem {
	out := make([]ShopItem, 0, 2)
	for _, name := range []string{StarterWeapon, StarterArmor} {
		if item, ok := c.byName[name]; ok {
			out = append(out, item)
		}
	}
	return out
}

// ForSlot lists the items that fit the slot.
func (c *Catalog) ForSlot(slot Slot) []ShopItem {
	out := make([]ShopItem, 0)
	for _, item := range c.Items() {
		if item.Slot == slot {
			out = append(out, item)
		}
	}
	return out
}

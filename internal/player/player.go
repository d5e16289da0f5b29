// Package player holds the authoritative state of one scrapper: progression, equipment, inventory,
// credits, cosmetics and the UI flow flags. All mutation goes through the methods on Player; each
// returns the Change it made and notifies the injected Observer.
//
// A Player is owned by a single goroutine and is not safe for concurrent use.
package player

import (
	"log/slog"
	"sort"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
)

type Player struct {
	catalog  *catalog.Catalog
	observer Observer
	logger   *slog.Logger

	level      int
	currentExp int
	hp         int
	maxHP      int
	credits    int
	dead       bool

	attackPower int
	defense     int

	inventory [catalog.MaterialCount]int
	equipped  [catalog.SlotCount]string
	owned     map[string]struct{}

	hasStick    bool
	hasOveralls bool
	hasBackpack bool

	gender     Gender
	hairLength float64
	hairColor  string
	skinColor  string
	name       string

	flow      flowState
	dialogue  string
	restoring bool
}

// New returns a player in the Loading mode with fresh progression. A nil observer discards
// notifications and a nil logger falls back to slog.Default.
func New(cat *catalog.Catalog, observer Observer, logger *slog.Logger) *Player {
	if cat == nil {
		cat = catalog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{
		catalog:  cat,
		observer: observer,
		logger:   logger,
	}
	p.resetCosmetics()
	p.resetProgress()
	p.flow.loading = true
	return p
}

func (p *Player) resetProgress() {
	p.level = 1
	p.currentExp = 0
	p.maxHP = MaxHPForLevel(1)
	p.hp = p.maxHP
	p.dead = false
	p.credits = 0
	p.inventory = [catalog.MaterialCount]int{}
	for i := range p.equipped {
		p.equipped[i] = catalog.None
	}
	p.owned = make(map[string]struct{})
	p.hasStick, p.hasOveralls, p.hasBackpack = false, false, false
	p.name = PlaceholderName
	p.flow.resetIntro()
	p.dialogue = DialogueWelcome
	p.recomputeStats()
}

func (p *Player) resetCosmetics() {
	p.gender = GenderMale
	p.hairLength = DefaultHairLength
	p.hairColor = DefaultHairColor
	p.skinColor = DefaultSkinColor
}

// recomputeStats derives AttackPower and Defense from level and equipment.
func (p *Player) recomputeStats() {
	atk, def := BaseAttack(p.level), BaseDefense(p.level)
	for _, name := range p.equipped {
		if name == catalog.None {
			continue
		}
		if item, ok := p.catalog.Lookup(name); ok {
			atk += item.Attack
			def += item.Defense
		}
	}
	p.attackPower, p.defense = atk, def
}

func (p *Player) persistSuppressed() bool {
	return p.restoring || p.flow.loading
}

// notify dispatches c to the observer and returns it unchanged.
func (p *Player) notify(c Change) Change {
	if c == 0 {
		return 0
	}
	p.observer.Redraw()
	if c.Has(ChangeState) && !p.persistSuppressed() {
		p.observer.Persist()
	}
	for _, ev := range c.Events() {
		p.observer.Event(ev)
	}
	return c
}

func (p *Player) Catalog() *catalog.Catalog { return p.catalog }

func (p *Player) Level() int        { return p.level }
func (p *Player) CurrentExp() int   { return p.currentExp }
func (p *Player) NextLevelExp() int { return NextLevelExp(p.level) }
func (p *Player) HP() int           { return p.hp }
func (p *Player) MaxHP() int        { return p.maxHP }
func (p *Player) Credits() int      { return p.credits }
func (p *Player) IsDead() bool      { return p.dead }
func (p *Player) AttackPower() int  { return p.attackPower }
func (p *Player) Defense() int      { return p.defense }

func (p *Player) Inventory(m catalog.Material) int {
	if !m.Valid() {
		return 0
	}
	return p.inventory[m]
}

func (p *Player) InventoryCounts() [catalog.MaterialCount]int {
	return p.inventory
}

// Equipped returns the item in slot or catalog.None.
func (p *Player) Equipped(slot catalog.Slot) string {
	if !slot.Valid() {
		return catalog.None
	}
	return p.equipped[slot]
}

func (p *Player) EquippedSlots() [catalog.SlotCount]string {
	return p.equipped
}

func (p *Player) Owns(name string) bool {
	_, ok := p.owned[name]
	return ok
}

// OwnedGear lists owned item names in sorted order.
func (p *Player) OwnedGear() []string {
	out := make([]string, 0, len(p.owned))
	for name := range p.owned {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (p *Player) StarterCount() int {
	n := 0
	for _, has := range []bool{p.hasStick, p.hasOveralls, p.hasBackpack} {
		if has {
			n++
		}
	}
	return n
}

func (p *Player) Name() string        { return p.name }
func (p *Player) Gender() Gender      { return p.gender }
func (p *Player) HairLength() float64 { return p.hairLength }
func (p *Player) HairColor() string   { return p.hairColor }
func (p *Player) SkinColor() string   { return p.skinColor }
func (p *Player) Dialogue() string    { return p.dialogue }

// SetDialogue replaces the vendor/intro dialogue line.
func (p *Player) SetDialogue(text string) Change {
	if text == p.dialogue {
		return 0
	}
	p.dialogue = text
	return p.notify(ChangeVisual)
}

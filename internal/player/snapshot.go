package player

import (
	"sort"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
)

// Snapshot is a value copy of every persisted field. Derived combat stats are not part of it.
type Snapshot struct {
	Level         int
	CurrentExp    int
	Credits       int
	HP            int
	MaxHP         int
	IntroComplete bool

	Inventory [catalog.MaterialCount]int
	Equipped  [catalog.SlotCount]string
	OwnedGear []string

	HasStick    bool
	HasOveralls bool
	HasBackpack bool

	Gender     Gender
	HairLength float64
	HairColor  string
	SkinColor  string
	PlayerName string
}

// NewSnapshot returns the persisted fields of a brand new scrapper.
func NewSnapshot() Snapshot {
	s := Snapshot{
		Level:      1,
		HP:         MaxHPForLevel(1),
		MaxHP:      MaxHPForLevel(1),
		OwnedGear:  []string{},
		Gender:     GenderMale,
		HairLength: DefaultHairLength,
		HairColor:  DefaultHairColor,
		SkinColor:  DefaultSkinColor,
		PlayerName: PlaceholderName,
	}
	for i := range s.Equipped {
		s.Equipped[i] = catalog.None
	}
	return s
}

func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		Level:         p.level,
		CurrentExp:    p.currentExp,
		Credits:       p.credits,
		HP:            p.hp,
		MaxHP:         p.maxHP,
		IntroComplete: p.flow.introComplete,
		Inventory:     p.inventory,
		Equipped:      p.equipped,
		OwnedGear:     p.OwnedGear(),
		HasStick:      p.hasStick,
		HasOveralls:   p.hasOveralls,
		HasBackpack:   p.hasBackpack,
		Gender:        p.gender,
		HairLength:    p.hairLength,
		HairColor:     p.hairColor,
		SkinColor:     p.skinColor,
		PlayerName:    p.name,
	}
}

// Load restores s with persistence suppressed and recomputes the combat stats.
// Flow flags are left alone; see FinishLoading for the load-time flow.
func (p *Player) Load(s Snapshot) Change {
	p.restoring = true
	defer func() { p.restoring = false }()
	p.restore(s)
	p.flow.introComplete = s.IntroComplete
	return p.notify(ChangeState | ChangeVisual)
}

// restore copies s in, clamping anything that would break an invariant.
func (p *Player) restore(s Snapshot) {
	p.level = clamp(s.Level, 1, MaxLevel)
	p.maxHP = min(s.MaxHP, MaxHPForLevel(MaxLevel))
	if p.maxHP <= 0 {
		p.maxHP = MaxHPForLevel(p.level)
	}
	p.hp = clamp(s.HP, 0, p.maxHP)
	p.dead = p.hp == 0
	p.currentExp = clamp(s.CurrentExp, 0, NextLevelExp(p.level)-1)
	p.credits = max(0, s.Credits)

	for i, n := range s.Inventory {
		p.inventory[i] = max(0, n)
	}

	p.owned = make(map[string]struct{}, len(s.OwnedGear))
	for _, name := range s.OwnedGear {
		if item, ok := p.catalog.Lookup(name); ok {
			p.owned[item.Name] = struct{}{}
		} else {
			p.logger.Debug("dropping unknown owned item", "item", name)
		}
	}
	for i, name := range s.Equipped {
		p.equipped[i] = catalog.None
		if name == "" || name == catalog.None {
			continue
		}
		item, ok := p.catalog.Lookup(name)
		if !ok || item.Slot != catalog.Slot(i) || !p.Owns(item.Name) {
			p.logger.Debug("dropping invalid equipped item", "slot", catalog.Slot(i).String(), "item", name)
			continue
		}
		p.equipped[i] = item.Name
	}

	p.hasStick, p.hasOveralls, p.hasBackpack = s.HasStick, s.HasOveralls, s.HasBackpack

	p.gender = s.Gender
	if !p.gender.Valid() {
		p.gender = GenderMale
	}
	p.hairLength = clampHair(s.HairLength)
	p.hairColor = orDefault(s.HairColor, DefaultHairColor)
	p.skinColor = orDefault(s.SkinColor, DefaultSkinColor)
	p.name = orDefault(CleanName(s.PlayerName), PlaceholderName)

	p.recomputeStats()
}

// Equal reports whether two snapshots hold the same persisted state.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Level != o.Level || s.CurrentExp != o.CurrentExp || s.Credits != o.Credits ||
		s.HP != o.HP || s.MaxHP != o.MaxHP || s.IntroComplete != o.IntroComplete ||
		s.Inventory != o.Inventory || s.Equipped != o.Equipped ||
		s.HasStick != o.HasStick || s.HasOveralls != o.HasOveralls || s.HasBackpack != o.HasBackpack ||
		s.Gender != o.Gender || s.HairLength != o.HairLength || s.HairColor != o.HairColor ||
		s.SkinColor != o.SkinColor || s.PlayerName != o.PlayerName {
		return false
	}
	a := append([]string(nil), s.OwnedGear...)
	b := append([]string(nil), o.OwnedGear...)
	if len(a) != len(b) {
		return false
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

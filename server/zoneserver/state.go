package main

import (
	"github.com/btrahan1/Scrapper3000/internal/catalog"
)

func (s *session) state() StatePayload {
	p := s.player
	inv := make(map[string]int, catalog.MaterialCount)
	for _, m := range catalog.AllMaterials() {
		inv[m.String()] = p.Inventory(m)
	}
	equipped := make(map[string]string, catalog.SlotCount)
	for _, slot := range catalog.AllSlots() {
		equipped[slot.String()] = p.Equipped(slot)
	}
	snap := p.Snapshot()

	return StatePayload{
		Mode:          p.Mode().String(),
		Slot:          p.SelectedSlot(),
		Name:          p.Name(),
		Level:         p.Level(),
		CurrentExp:    p.CurrentExp(),
		NextLevelExp:  p.NextLevelExp(),
		HP:            p.HP(),
		MaxHP:         p.MaxHP(),
		Credits:       p.Credits(),
		AttackPower:   p.AttackPower(),
		Defense:       p.Defense(),
		Dead:          p.IsDead(),
		ShopOpen:      p.IsShopOpen(),
		FirstPerson:   p.IsFirstPerson(),
		HasSave:       p.HasExistingSave(),
		Dialogue:      p.Dialogue(),
		Position:      s.pos,
		Inventory:     inv,
		EquippedSlots: equipped,
		OwnedGear:     p.OwnedGear(),
		Starters: map[string]bool{
			"stick":    snap.HasStick,
			"overalls": snap.HasOveralls,
			"backpack": snap.HasBackpack,
		},
		Gender:     p.Gender().String(),
		HairLength: p.HairLength(),
		HairColor:  p.HairColor(),
		SkinColor:  p.SkinColor(),
		Events:     eventNames(s.events),
	}
}

package player

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
)

func TestPropertyDamageNeverBelowZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p, obs := newPlayer()
		s := NewSnapshot()
		s.HP = rapid.IntRange(1, 100).Draw(t, "hp")
		s.IntroComplete = true
		p.Load(s)
		*obs = recordingObserver{}

		hits := rapid.SliceOfN(rapid.IntRange(-5, 120), 1, 40).Draw(t, "hits")
		reachedZero := false
		for _, hit := range hits {
			p.TakeDamage(hit)
			if p.HP() < 0 {
				t.Fatalf("hp=%d below zero", p.HP())
			}
			if p.IsDead() != (p.HP() == 0) {
				t.Fatalf("dead=%v with hp=%d", p.IsDead(), p.HP())
			}
			if p.HP() == 0 {
				reachedZero = true
			}
		}
		want := 0
		if reachedZero {
			want = 1
		}
		if got := obs.count(EventDied); got != want {
			t.Fatalf("death events=%d want %d", got, want)
		}
	})
}

func TestPropertyExperienceBelowThreshold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p, _ := newPlayer()
		amounts := rapid.SliceOfN(rapid.IntRange(0, 5000), 1, 30).Draw(t, "amounts")
		lastLevel := p.Level()
		for _, amount := range amounts {
			p.AddExperience(amount)
			if p.CurrentExp() < 0 || p.CurrentExp() >= p.NextLevelExp() {
				t.Fatalf("exp=%d next=%d", p.CurrentExp(), p.NextLevelExp())
			}
			if p.Level() < lastLevel {
				t.Fatalf("level dropped %d -> %d", lastLevel, p.Level())
			}
			if p.MaxHP() != MaxHPForLevel(p.Level()) {
				t.Fatalf("maxhp=%d level=%d", p.MaxHP(), p.Level())
			}
			lastLevel = p.Level()
		}
	})
}

func TestPropertyEconomyNeverNegative(t *testing.T) {
	items := catalog.Default().Items()
	itemNames := make([]string, 0, len(items)+1)
	for _, item := range items {
		itemNames = append(itemNames, item.Name)
	}
	itemNames = append(itemNames, "Unobtainium")

	rapid.Check(t, func(t *rapid.T) {
		p, _ := newPlayer()
		p.AddCredits(rapid.IntRange(0, 800).Draw(t, "credits"))

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			m := catalog.Material(rapid.IntRange(0, catalog.MaterialCount).Draw(t, "material"))
			before := p.Credits()
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				p.AddInventory(m, rapid.IntRange(-3, 10).Draw(t, "amount"))
			case 1:
				had := p.Inventory(m)
				p.SellItem(m)
				if had > 0 && p.Credits() != before+m.Price() {
					t.Fatalf("sell one: credits %d -> %d price %d", before, p.Credits(), m.Price())
				}
			case 2:
				had := p.Inventory(m)
				p.SellAll(m)
				if p.Credits() != before+had*m.Price() {
					t.Fatalf("sell all: credits %d -> %d for %d units", before, p.Credits(), had)
				}
			case 3:
				p.BuyItem(rapid.SampledFrom(itemNames).Draw(t, "item"))
			}
			if p.Credits() < 0 {
				t.Fatalf("credits=%d", p.Credits())
			}
			for _, n := range p.InventoryCounts() {
				if n < 0 {
					t.Fatalf("inventory=%v", p.InventoryCounts())
				}
			}
		}
	})
}

func TestPropertyEquipIdempotent(t *testing.T) {
	items := catalog.Default().Items()
	owned := make([]string, 0, len(items))
	for _, item := range items {
		owned = append(owned, item.Name)
	}

	rapid.Check(t, func(t *rapid.T) {
		once, _ := newPlayer()
		twice, _ := newPlayer()
		s := NewSnapshot()
		s.OwnedGear = owned
		s.IntroComplete = true
		once.Load(s)
		twice.Load(s)

		picks := rapid.SliceOfN(rapid.SampledFrom(items), 1, 12).Draw(t, "picks")
		for _, item := range picks {
			once.EquipItem(item.Name, item.Slot)
			twice.EquipItem(item.Name, item.Slot)
			twice.EquipItem(item.Name, item.Slot)
		}
		if once.EquippedSlots() != twice.EquippedSlots() {
			t.Fatalf("slots differ: %v vs %v", once.EquippedSlots(), twice.EquippedSlots())
		}
		if once.AttackPower() != twice.AttackPower() || once.Defense() != twice.Defense() {
			t.Fatalf("stats differ: %d/%d vs %d/%d",
				once.AttackPower(), once.Defense(), twice.AttackPower(), twice.Defense())
		}
	})
}

package combat

import "github.com/btrahan1/Scrapper3000/internal/catalog"

// rollLoot draws a count uniformly in [LootMin, LootMax] and a uniform material per unit.
func (f *Field) rollLoot(p Profile) []catalog.Material {
	n := f.rolledQty(p.LootMin, p.LootMax)
	loot := make([]catalog.Material, 0, n)
	for i := 0; i < n; i++ {
		loot = append(loot, catalog.Material(f.rng.IntN(catalog.MaterialCount)))
	}
	return loot
}

func (f *Field) rolledQty(minQty, maxQty int) int {
	minQty = max(minQty, 0)
	if maxQty < minQty {
		maxQty = minQty
	}
	if minQty == maxQty {
		return minQty
	}
	return minQty + f.rng.IntN(maxQty-minQty+1)
}

func grantLoot(target Target, loot []catalog.Material) {
	var counts [catalog.MaterialCount]int
	for _, m := range loot {
		counts[m]++
	}
	for i, n := range counts {
		if n > 0 {
			target.AddInventory(catalog.Material(i), n)
		}
	}
}

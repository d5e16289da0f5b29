package catalog

import (
	"fmt"
	"strings"
)

// Material is a junkyard crafting material held in the inventory.
type Material uint8

const (
	Rubber Material = iota
	Plastic
	Wood
	Cloth
	Metal

	materialCount
)

// MaterialCount is the number of materials. Inventories are arrays of this length.
const MaterialCount = int(materialCount)

type MaterialDefinition struct {
	Material Material
	Name     string
	Price    int
}

var materialCatalog = [MaterialCount]MaterialDefinition{
	Rubber:  {Material: Rubber, Name: "Rubber", Price: 2},
	Plastic: {Material: Plastic, Name: "Plastic", Price: 3},
	Wood:    {Material: Wood, Name: "Wood", Price: 4},
	Cloth:   {Material: Cloth, Name: "Cloth", Price: 5},
	Metal:   {Material: Metal, Name: "Metal", Price: 8},
}

func (m Material) Valid() bool {
	return m < materialCount
}

func (m Material) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Material(%d)", uint8(m))
	}
	return materialCatalog[m].Name
}

// Price is the vendor buy-back price of one unit.
func (m Material) Price() int {
	if !m.Valid() {
		return 0
	}
	return materialCatalog[m].Price
}

func (m Material) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("catalog: invalid material %d", uint8(m))
	}
	return []byte(materialCatalog[m].Name), nil
}

func (m *Material) UnmarshalText(text []byte) error {
	parsed, ok := ParseMaterial(string(text))
	if !ok {
		return fmt.Errorf("catalog: unknown material %q", string(text))
	}
	*m = parsed
	return nil
}

// ParseMaterial resolves a material name case-insensitively.
func ParseMaterial(raw string) (Material, bool) {
	raw = strings.TrimSpace(raw)
	for _, def := range materialCatalog {
		if strings.EqualFold(def.Name, raw) {
			return def.Material, true
		}
	}
	return 0, false
}

func AllMaterials() []Material {
	out := make([]Material, 0, MaterialCount)
	for i := 0; i < MaterialCount; i++ {
		out = append(out, Material(i))
	}
	return out
}

// MaterialPrices returns the price table keyed by material name.
func MaterialPrices() map[string]int {
	prices := make(map[string]int, MaterialCount)
	for _, def := range materialCatalog {
		prices[def.Name] = def.Price
	}
	return prices
}

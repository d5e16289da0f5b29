package player

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

type Gender uint8

const (
	GenderMale Gender = iota
	GenderFemale
)

const (
	PlaceholderName   = "Scrapper"
	DefaultHairLength = 0.5
	DefaultHairColor  = "#4b301a"
	DefaultSkinColor  = "#e0ac69"

	maxNameRunes = 24
)

func (g Gender) Valid() bool {
	return g <= GenderFemale
}

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return fmt.Sprintf("Gender(%d)", uint8(g))
	}
}

func (g Gender) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("player: invalid gender %d", uint8(g))
	}
	return []byte(g.String()), nil
}

func (g *Gender) UnmarshalText(text []byte) error {
	parsed, ok := ParseGender(string(text))
	if !ok {
		return fmt.Errorf("player: unknown gender %q", string(text))
	}
	*g = parsed
	return nil
}

func ParseGender(raw string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	}
	return GenderMale, false
}

// CleanName trims the input and caps its length. An empty result means the name is rejected.
func CleanName(raw string) string {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) > maxNameRunes {
		name = strings.TrimSpace(string([]rune(name)[:maxNameRunes]))
	}
	return name
}

func clampHair(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

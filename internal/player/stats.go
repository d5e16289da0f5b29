package player

const (
	// RevivalFee is debited on respawn, capped at the credits on hand.
	RevivalFee = 50
	// HealCostPerHP is what the medic charges per missing hit point.
	HealCostPerHP = 1
	// MaxLevel caps progression. Experience past the last threshold is discarded.
	MaxLevel = 100

	hpPerLevel = 10
)

func BaseAttack(level int) int {
	return 10 + (max(level, 1)-1)*2
}

func BaseDefense(level int) int {
	return 5 + (max(level, 1) - 1)
}

func MaxHPForLevel(level int) int {
	return 100 + (max(level, 1)-1)*hpPerLevel
}

func NextLevelExp(level int) int {
	return max(level, 1) * 100
}

// Mitigate applies defense to raw damage: max(1, raw - defense/2).
// The same rule is used for hits on the scrapper and on mobs.
func Mitigate(raw, defense int) int {
	return max(1, raw-max(defense, 0)/2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

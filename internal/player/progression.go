package player

import "math"

const (
	DialogueCantAffordHeal = "You can't afford a patch-up. Come back with some credits."
	DialogueDied           = "You got scrapped. The medic can get you back on your feet."
)

// AddExperience adds exp and levels up once per threshold crossed, carrying the excess over.
// Each level-up raises MaxHP, heals fully and recomputes stats. At MaxLevel exp stops one short of
// the next threshold.
func (p *Player) AddExperience(amount int) Change {
	if amount <= 0 {
		return 0
	}
	p.currentExp += min(amount, math.MaxInt-p.currentExp)
	change := ChangeState
	for p.currentExp >= NextLevelExp(p.level) {
		if p.level >= MaxLevel {
			p.currentExp = NextLevelExp(p.level) - 1
			break
		}
		p.currentExp -= NextLevelExp(p.level)
		p.levelUp()
		change |= ChangeLevelUp
	}
	if change.Has(ChangeLevelUp) {
		p.logger.Debug("player leveled up", "level", p.level, "max_hp", p.maxHP)
	}
	return p.notify(change)
}

func (p *Player) levelUp() {
	p.level++
	p.maxHP += hpPerLevel
	// A dead scrapper stays dead until Respawn.
	if !p.dead {
		p.hp = p.maxHP
	}
	p.recomputeStats()
}

// TakeDamage applies raw damage mitigated by the current Defense. Non-positive damage is ignored.
func (p *Player) TakeDamage(raw int) Change {
	if p.dead || p.hp <= 0 || raw <= 0 {
		return 0
	}
	p.hp = max(0, p.hp-Mitigate(raw, p.defense))
	change := ChangeState
	if p.hp == 0 {
		p.dead = true
		p.flow.shopOpen = false
		p.flow.paused = false
		p.dialogue = DialogueDied
		change |= ChangeDied | ChangeVisual
	}
	return p.notify(change)
}

// Respawn revives a dead scrapper at full HP for the revival fee, capped at the credits on hand.
func (p *Player) Respawn() Change {
	if !p.dead {
		return 0
	}
	fee := min(p.credits, RevivalFee)
	p.credits -= fee
	p.hp = p.maxHP
	p.dead = false
	p.logger.Debug("player respawned", "fee", fee, "credits", p.credits)
	return p.notify(ChangeState | ChangeRespawned)
}

// HealPlayer buys back missing HP at HealCostPerHP. Without enough credits it heals as far as
// the credits go; with none it only sets the "can't afford" dialogue.
func (p *Player) HealPlayer() Change {
	if p.dead {
		return 0
	}
	missing := p.maxHP - p.hp
	if missing <= 0 {
		return 0
	}
	cost := missing * HealCostPerHP
	switch {
	case p.credits >= cost:
		p.credits -= cost
		p.hp = p.maxHP
	case p.credits >= HealCostPerHP:
		healed := p.credits / HealCostPerHP
		p.credits -= healed * HealCostPerHP
		p.hp += healed
	default:
		return p.SetDialogue(DialogueCantAffordHeal)
	}
	return p.notify(ChangeState)
}

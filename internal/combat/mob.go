package combat

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// AIState is the mob behaviour state. Idle and Wander together form the passive half.
type AIState uint8

const (
	StateIdle AIState = iota
	StateWander
	StateChase
	StateAttack
)

const (
	// calmWait is how long mobs stand still after the scrapper dies.
	calmWait = 2.0
	// wanderArrive is how close a wandering mob has to get to its target.
	wanderArrive = 1.0
	wanderSpan   = 10.0
)

var aiStateNames = [...]string{"Idle", "Wander", "Chase", "Attack"}

func (s AIState) String() string {
	if int(s) < len(aiStateNames) {
		return aiStateNames[s]
	}
	return fmt.Sprintf("AIState(%d)", uint8(s))
}

func (s AIState) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(s.String())), nil
}

// Mob is one live mob. Exported fields are safe to hand to the renderer.
type Mob struct {
	ID       uuid.UUID `json:"id"`
	Kind     Kind      `json:"kind"`
	Name     string    `json:"name"`
	Position Position  `json:"position"`
	HP       int       `json:"hp"`
	MaxHP    int       `json:"max_hp"`
	State    AIState   `json:"state"`

	profile  Profile
	cooldown float64
	wait     float64
	wanderTo Position
}

func newMob(p Profile, pos Position, rng *rand.Rand) *Mob {
	return &Mob{
		ID:       uuid.New(),
		Kind:     p.Kind,
		Name:     p.Name,
		Position: pos,
		HP:       p.MaxHP,
		MaxHP:    p.MaxHP,
		State:    StateIdle,
		profile:  p,
		wait:     idleWait(rng),
	}
}

func idleWait(rng *rand.Rand) float64 {
	return 2.0 + rng.Float64()*3.0
}

func (m *Mob) calm() {
	m.State = StateIdle
	m.wait = calmWait
}

// update advances the mob by dt seconds. hunting is false while the scrapper is dead.
// It reports whether the mob just noticed the scrapper and whether a bite landed.
func (m *Mob) update(dt float64, playerPos Position, hunting bool, rng *rand.Rand) (aggro, bite bool) {
	p := m.profile
	dist := distance(m.Position, playerPos)

	if hunting && !p.Harmless && (m.State == StateIdle || m.State == StateWander) && dist < p.AggroRadius {
		m.State = StateChase
		aggro = true
	}

	switch m.State {
	case StateIdle:
		if p.Stationary {
			return aggro, false
		}
		m.wait -= dt
		if m.wait <= 0 {
			m.State = StateWander
			m.wanderTo = Position{
				X: m.Position.X + (rng.Float64()-0.5)*wanderSpan,
				Y: m.Position.Y,
				Z: m.Position.Z + (rng.Float64()-0.5)*wanderSpan,
			}
		}
	case StateWander:
		m.Position = moveToward(m.Position, m.wanderTo, p.WanderSpeed*dt)
		if distance(m.Position, m.wanderTo) < wanderArrive {
			m.State = StateIdle
			m.wait = idleWait(rng)
		}
	case StateChase:
		m.approach(playerPos, dist, dt)
		if distance(m.Position, playerPos) <= p.MeleeRange {
			m.State = StateAttack
		}
	case StateAttack:
		if dist > p.MeleeRange {
			m.State = StateChase
			m.approach(playerPos, dist, dt)
			return aggro, false
		}
		m.approach(playerPos, dist, dt)
		m.cooldown -= dt
		if m.cooldown <= 0 {
			m.cooldown = p.AttackInterval
			bite = true
		}
	}
	return aggro, bite
}

// approach closes in on the scrapper but stops at StopDistance.
func (m *Mob) approach(playerPos Position, dist, dt float64) {
	if m.profile.Stationary || dist <= m.profile.StopDistance {
		return
	}
	step := min(m.profile.ChaseSpeed*dt, dist-m.profile.StopDistance)
	m.Position = moveToward(m.Position, playerPos, step)
}

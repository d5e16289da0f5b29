// Package combat runs the junkyard mobs: spawning, the wander/chase/attack loop, the scrapper's
// whack and loot drops. A Field is driven from the goroutine that owns the scrapper.
package combat

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
	"github.com/btrahan1/Scrapper3000/internal/player"
)

const (
	// WhackCooldown is the minimum time between two whacks, in seconds.
	WhackCooldown = 0.5
	// WhackReach is how far from the scrapper a whack can land.
	WhackReach = 4.5
	// Knockback is how far a surviving mob is pushed back by a whack.
	Knockback = 0.5
)

// Whack result codes.
const (
	WhackOK          = "OK"
	WhackCoolingDown = "WHACK_COOLDOWN"
	WhackMobNotFound = "MOB_NOT_FOUND"
	WhackOutOfRange  = "MOB_OUT_OF_RANGE"
	WhackPlayerDead  = "PLAYER_DEAD"
)

// Target is the scrapper as the mob loop sees it.
type Target interface {
	AttackPower() int
	HP() int
	IsDead() bool
	TakeDamage(raw int) player.Change
	AddExperience(amount int) player.Change
	AddInventory(m catalog.Material, amount int) player.Change
}

type EventKind string

const (
	EventMobHit     EventKind = "MOB_HIT"
	EventMobKilled  EventKind = "MOB_KILLED"
	EventMobAggro   EventKind = "MOB_AGGRO"
	EventMobSpawned EventKind = "MOB_SPAWNED"
	EventPlayerHit  EventKind = "PLAYER_HIT"
	EventPlayerDied EventKind = "PLAYER_DIED"
)

// Event is one combat outcome for the renderer (floating damage, XP popups, death screen).
type Event struct {
	Kind     EventKind          `json:"kind"`
	MobID    uuid.UUID          `json:"mob_id"`
	MobKind  Kind               `json:"mob_kind"`
	Damage   int                `json:"damage,omitempty"`
	MobHP    int                `json:"mob_hp"`
	PlayerHP int                `json:"player_hp,omitempty"`
	Exp      int                `json:"exp,omitempty"`
	Loot     []catalog.Material `json:"loot,omitempty"`
	Position Position           `json:"position"`
}

// Layout describes where SpawnJunkyard places mobs: a ring around Center that keeps SafeRadius
// clear for the scrapper's spawn point.
type Layout struct {
	Center     Position
	Radius     float64
	SafeRadius float64
	Counts     map[Kind]int
}

func DefaultLayout() Layout {
	return Layout{
		Radius:     60,
		SafeRadius: 12,
		Counts: map[Kind]int{
			KindRat:       6,
			KindWolf:      3,
			KindScrapPile: 8,
		},
	}
}

type pendingSpawn struct {
	kind      Kind
	remaining float64
}

type Field struct {
	profiles map[Kind]Profile
	rng      *rand.Rand
	logger   *slog.Logger

	mobs    []*Mob
	byID    map[uuid.UUID]*Mob
	pending []pendingSpawn
	layout  Layout

	whackCooldown float64
	hunting       bool
}

// NewField creates an empty field. A nil rng is seeded randomly.
func NewField(profiles map[Kind]Profile, rng *rand.Rand, logger *slog.Logger) *Field {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Field{
		profiles: profiles,
		rng:      rng,
		logger:   logger,
		byID:     make(map[uuid.UUID]*Mob),
		layout:   DefaultLayout(),
		hunting:  true,
	}
}

// Spawn places a mob of kind at pos. Unknown kinds are skipped.
func (f *Field) Spawn(kind Kind, pos Position) (uuid.UUID, bool) {
	p, ok := f.profiles[kind]
	if !ok {
		f.logger.Warn("skipping spawn of unknown mob kind", "kind", kind)
		return uuid.Nil, false
	}
	m := newMob(p, pos, f.rng)
	f.mobs = append(f.mobs, m)
	f.byID[m.ID] = m
	return m.ID, true
}

// SpawnJunkyard populates the field from layout and remembers it for respawns.
func (f *Field) SpawnJunkyard(layout Layout) []uuid.UUID {
	f.layout = layout
	kinds := make([]Kind, 0, len(layout.Counts))
	for kind := range layout.Counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	ids := make([]uuid.UUID, 0)
	for _, kind := range kinds {
		for i := 0; i < layout.Counts[kind]; i++ {
			if id, ok := f.Spawn(kind, f.randomSpot()); ok {
				ids = append(ids, id)
			}
		}
	}
	f.logger.Debug("junkyard spawned", "mobs", len(ids))
	return ids
}

func (f *Field) randomSpot() Position {
	l := f.layout
	inner := max(0, min(l.SafeRadius, l.Radius))
	angle := f.rng.Float64() * 2 * math.Pi
	r := inner + f.rng.Float64()*(l.Radius-inner)
	return Position{
		X: l.Center.X + math.Cos(angle)*r,
		Y: l.Center.Y,
		Z: l.Center.Z + math.Sin(angle)*r,
	}
}

// Mobs returns copies of the live mobs in spawn order.
func (f *Field) Mobs() []Mob {
	out := make([]Mob, 0, len(f.mobs))
	for _, m := range f.mobs {
		out = append(out, *m)
	}
	return out
}

func (f *Field) Mob(id uuid.UUID) (Mob, bool) {
	m, ok := f.byID[id]
	if !ok {
		return Mob{}, false
	}
	return *m, true
}

func (f *Field) Len() int { return len(f.mobs) }

// WhackReady reports whether the whack cooldown has run out.
func (f *Field) WhackReady() bool { return f.whackCooldown <= 0 }

// Whack resolves the scrapper hitting mob id from position from. Damage is the scrapper's
// AttackPower mitigated by the mob's defense. A surviving mob is knocked back and turns on the
// scrapper; a killed mob is removed and pays out experience and loot.
func (f *Field) Whack(id uuid.UUID, from Position, target Target) (Event, bool, string) {
	if target.IsDead() {
		return Event{}, false, WhackPlayerDead
	}
	if f.whackCooldown > 0 {
		return Event{}, false, WhackCoolingDown
	}
	m, ok := f.byID[id]
	if !ok {
		return Event{}, false, WhackMobNotFound
	}
	if distance(from, m.Position) > WhackReach {
		return Event{}, false, WhackOutOfRange
	}
	f.whackCooldown = WhackCooldown

	damage := player.Mitigate(target.AttackPower(), m.profile.Defense)
	m.HP = max(0, m.HP-damage)
	ev := Event{
		Kind:     EventMobHit,
		MobID:    m.ID,
		MobKind:  m.Kind,
		Damage:   damage,
		MobHP:    m.HP,
		Position: m.Position,
	}

	if m.HP > 0 {
		if !m.profile.Stationary {
			m.Position = pushAway(m.Position, from, Knockback)
			ev.Position = m.Position
		}
		if !m.profile.Harmless {
			m.State = StateChase
		}
		return ev, true, WhackOK
	}

	f.remove(m)
	ev.Kind = EventMobKilled
	ev.Exp = m.profile.ExpReward
	ev.Loot = f.rollLoot(m.profile)
	if ev.Exp > 0 {
		target.AddExperience(ev.Exp)
	}
	grantLoot(target, ev.Loot)
	if m.profile.RespawnSeconds > 0 {
		f.pending = append(f.pending, pendingSpawn{kind: m.Kind, remaining: m.profile.RespawnSeconds})
	}
	f.logger.Debug("mob killed", "mob", m.Kind, "exp", ev.Exp, "loot", len(ev.Loot))
	return ev, true, WhackOK
}

func (f *Field) remove(dead *Mob) {
	delete(f.byID, dead.ID)
	kept := f.mobs[:0]
	for _, m := range f.mobs {
		if m != dead {
			kept = append(kept, m)
		}
	}
	clear(f.mobs[len(kept):])
	f.mobs = kept
}

// Tick advances every mob by dt seconds against the scrapper at playerPos. Bites land on target.
// When the scrapper dies every mob calms down to Idle until the scrapper is back.
func (f *Field) Tick(dt float64, playerPos Position, target Target) []Event {
	if dt <= 0 {
		return nil
	}
	f.whackCooldown = max(0, f.whackCooldown-dt)
	events := f.respawnDue(dt)

	alive := target != nil && !target.IsDead()
	if !alive && f.hunting {
		f.calmAll()
	}
	f.hunting = alive

	for _, m := range f.mobs {
		aggro, bite := m.update(dt, playerPos, f.hunting, f.rng)
		if aggro {
			events = append(events, Event{Kind: EventMobAggro, MobID: m.ID, MobKind: m.Kind, MobHP: m.HP, Position: m.Position})
		}
		if !bite || !f.hunting {
			continue
		}
		before := target.HP()
		change := target.TakeDamage(m.profile.AttackPower)
		events = append(events, Event{
			Kind:     EventPlayerHit,
			MobID:    m.ID,
			MobKind:  m.Kind,
			Damage:   before - target.HP(),
			MobHP:    m.HP,
			PlayerHP: target.HP(),
			Position: m.Position,
		})
		if change.Has(player.ChangeDied) {
			events = append(events, Event{Kind: EventPlayerDied, MobID: m.ID, MobKind: m.Kind, MobHP: m.HP, Position: m.Position})
			f.calmAll()
			f.hunting = false
		}
	}
	return events
}

func (f *Field) calmAll() {
	for _, m := range f.mobs {
		m.calm()
	}
}

func (f *Field) respawnDue(dt float64) []Event {
	var events []Event
	kept := f.pending[:0]
	for _, p := range f.pending {
		p.remaining -= dt
		if p.remaining > 0 {
			kept = append(kept, p)
			continue
		}
		if id, ok := f.Spawn(p.kind, f.randomSpot()); ok {
			m := f.byID[id]
			events = append(events, Event{Kind: EventMobSpawned, MobID: id, MobKind: m.Kind, MobHP: m.HP, Position: m.Position})
		}
	}
	f.pending = kept
	return events
}

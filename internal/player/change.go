package player

import "strings"

// Change reports what a mutation touched. Zero means the call was a no-op.
type Change uint16

const (
	// ChangeVisual affects presentation only and never triggers a save.
	ChangeVisual Change = 1 << iota
	// ChangeState affects persisted fields.
	ChangeState
	ChangeDied
	ChangeRespawned
	ChangeEquipment
	ChangeLevelUp
)

func (c Change) Has(flag Change) bool {
	return c&flag == flag
}

func (c Change) String() string {
	if c == 0 {
		return "None"
	}
	names := make([]string, 0, 6)
	for _, f := range []struct {
		bit  Change
		name string
	}{
		{ChangeVisual, "Visual"},
		{ChangeState, "State"},
		{ChangeDied, "Died"},
		{ChangeRespawned, "Respawned"},
		{ChangeEquipment, "Equipment"},
		{ChangeLevelUp, "LevelUp"},
	} {
		if c.Has(f.bit) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// Event is a special notification delivered in addition to redraw/persist.
type Event uint8

const (
	EventDied Event = iota + 1
	EventRespawned
	EventEquipmentChanged
	EventLevelUp
)

func (e Event) String() string {
	switch e {
	case EventDied:
		return "Died"
	case EventRespawned:
		return "Respawned"
	case EventEquipmentChanged:
		return "EquipmentChanged"
	case EventLevelUp:
		return "LevelUp"
	default:
		return "Unknown"
	}
}

// eventBits is ordered the way events are dispatched.
var eventBits = [...]struct {
	bit   Change
	event Event
}{
	{ChangeDied, EventDied},
	{ChangeRespawned, EventRespawned},
	{ChangeEquipment, EventEquipmentChanged},
	{ChangeLevelUp, EventLevelUp},
}

// Events expands the special bits of c in dispatch order.
func (c Change) Events() []Event {
	var out []Event
	for _, eb := range eventBits {
		if c.Has(eb.bit) {
			out = append(out, eb.event)
		}
	}
	return out
}

package player

//go:generate go tool mockgen -destination=./mocks/observer_mock.go -package=mocks . Observer

// Observer receives notifications after every mutation that changed something.
// Calls happen on the goroutine that owns the Player.
type Observer interface {
	// Redraw is called for every non-zero change.
	Redraw()
	// Persist is called for state changes while no load is in progress.
	Persist()
	// Event is called once per special change bit.
	Event(Event)
}

type nopObserver struct{}

func (nopObserver) Redraw()     {}
func (nopObserver) Persist()    {}
func (nopObserver) Event(Event) {}

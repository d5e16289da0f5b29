package player

import "strings"

// Mode is the primary UI flow mode. Dead and ShopOpen are overlays on top of Playing.
type Mode uint8

const (
	ModeLoading Mode = iota
	ModeLandingPage
	ModeSlotSelection
	ModeIntro
	ModeCustomizing
	ModeNaming
	ModePlaying
	ModePaused
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "Loading"
	case ModeLandingPage:
		return "LandingPage"
	case ModeSlotSelection:
		return "SlotSelection"
	case ModeIntro:
		return "Intro"
	case ModeCustomizing:
		return "Customizing"
	case ModeNaming:
		return "Naming"
	case ModePlaying:
		return "Playing"
	case ModePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

type flowState struct {
	loading         bool
	landingPage     bool
	slotSelection   bool
	hasExistingSave bool
	slotID          string

	introComplete bool
	customizing   bool
	naming        bool
	shopOpen      bool
	paused        bool
	firstPerson   bool
}

func (f *flowState) resetIntro() {
	f.introComplete = false
	f.customizing = false
	f.naming = false
	f.shopOpen = false
	f.paused = false
	f.firstPerson = true
}

// menu reports whether a full-screen flow step owns the input.
func (f *flowState) menu() bool {
	return f.loading || f.landingPage || f.slotSelection || f.customizing || f.naming
}

func (p *Player) Mode() Mode {
	f := &p.flow
	switch {
	case f.loading:
		return ModeLoading
	case f.slotSelection:
		return ModeSlotSelection
	case f.landingPage:
		return ModeLandingPage
	case f.customizing:
		return ModeCustomizing
	case f.naming:
		return ModeNaming
	case !f.introComplete:
		return ModeIntro
	case f.paused:
		return ModePaused
	default:
		return ModePlaying
	}
}

func (p *Player) IsFirstPerson() bool   { return p.flow.firstPerson }
func (p *Player) IntroComplete() bool   { return p.flow.introComplete }
func (p *Player) IsCustomizing() bool   { return p.flow.customizing }
func (p *Player) IsNaming() bool        { return p.flow.naming }
func (p *Player) IsShopOpen() bool      { return p.flow.shopOpen }
func (p *Player) IsPaused() bool        { return p.flow.paused }
func (p *Player) IsLoading() bool       { return p.flow.loading }
func (p *Player) IsLandingPage() bool   { return p.flow.landingPage }
func (p *Player) IsSlotSelection() bool { return p.flow.slotSelection }
func (p *Player) HasExistingSave() bool { return p.flow.hasExistingSave }
func (p *Player) SelectedSlot() string  { return p.flow.slotID }

// BeginLoading enters Loading for slotID. Persistence stays suppressed until FinishLoading.
func (p *Player) BeginLoading(slotID string) Change {
	p.flow.loading = true
	p.flow.landingPage = false
	p.flow.slotSelection = false
	p.flow.paused = false
	p.flow.shopOpen = false
	p.flow.slotID = strings.TrimSpace(slotID)
	return p.notify(ChangeVisual)
}

// FinishLoading ends Loading with the restored save, or starts the intro when s is nil.
// A save that finished the intro but still carries the placeholder name re-enters Naming.
func (p *Player) FinishLoading(s *Snapshot) Change {
	if !p.flow.loading {
		return 0
	}
	if s == nil {
		p.resetCosmetics()
		p.resetProgress()
		p.flow.hasExistingSave = false
		p.flow.landingPage = false
	} else {
		p.restore(*s)
		p.flow.resetIntro()
		p.flow.introComplete = s.IntroComplete
		p.flow.firstPerson = !s.IntroComplete
		p.flow.naming = s.IntroComplete && p.name == PlaceholderName
		p.flow.customizing = !s.IntroComplete && p.StarterCount() == 3
		p.flow.hasExistingSave = true
		p.flow.landingPage = true
	}
	p.flow.loading = false
	p.logger.Debug("load finished", "slot", p.flow.slotID, "existing_save", p.flow.hasExistingSave)
	return p.notify(ChangeVisual)
}

// ContinueGame leaves the landing page into whatever step the save was in.
func (p *Player) ContinueGame() Change {
	if p.flow.loading || !p.flow.landingPage {
		return 0
	}
	p.flow.landingPage = false
	return p.notify(ChangeVisual)
}

func (p *Player) OpenSlotSelection() Change {
	if p.flow.loading || !p.flow.landingPage {
		return 0
	}
	p.flow.landingPage = false
	p.flow.slotSelection = true
	return p.notify(ChangeVisual)
}

func (p *Player) CloseSlotSelection() Change {
	if !p.flow.slotSelection {
		return 0
	}
	p.flow.slotSelection = false
	p.flow.landingPage = true
	return p.notify(ChangeVisual)
}

// SelectSlot picks a save slot and re-enters Loading; the caller fetches the slot and calls
// FinishLoading.
func (p *Player) SelectSlot(id string) Change {
	id = strings.TrimSpace(id)
	if !p.flow.slotSelection || id == "" {
		return 0
	}
	return p.BeginLoading(id)
}

// TogglePause is blocked while loading, on the landing page or slot list, during customization
// and during naming.
func (p *Player) TogglePause() Change {
	if p.flow.menu() {
		return 0
	}
	p.flow.paused = !p.flow.paused
	if p.flow.paused {
		p.flow.shopOpen = false
	}
	return p.notify(ChangeVisual)
}

func (p *Player) ToggleView() Change {
	if p.flow.loading {
		return 0
	}
	p.flow.firstPerson = !p.flow.firstPerson
	return p.notify(ChangeVisual)
}

func (p *Player) OpenShop() Change {
	if p.dead || p.flow.shopOpen || p.flow.paused || p.flow.menu() {
		return 0
	}
	p.flow.shopOpen = true
	return p.notify(ChangeVisual)
}

func (p *Player) CloseShop() Change {
	if !p.flow.shopOpen {
		return 0
	}
	p.flow.shopOpen = false
	return p.notify(ChangeVisual)
}

// UpdateCustomization sets the persisted cosmetic fields. Empty colors keep the current value.
func (p *Player) UpdateCustomization(gender Gender, hairLength float64, hairColor, skinColor string) Change {
	if p.flow.loading {
		return 0
	}
	next := struct {
		gender     Gender
		hairLength float64
		hairColor  string
		skinColor  string
	}{p.gender, clampHair(hairLength), p.hairColor, p.skinColor}
	if gender.Valid() {
		next.gender = gender
	}
	if c := strings.TrimSpace(hairColor); c != "" {
		next.hairColor = c
	}
	if c := strings.TrimSpace(skinColor); c != "" {
		next.skinColor = c
	}
	if next.gender == p.gender && next.hairLength == p.hairLength &&
		next.hairColor == p.hairColor && next.skinColor == p.skinColor {
		return 0
	}
	p.gender, p.hairLength, p.hairColor, p.skinColor = next.gender, next.hairLength, next.hairColor, next.skinColor
	return p.notify(ChangeState)
}

// CompleteCustomization leaves the shed: the intro is done, the camera goes third person and
// the name prompt opens.
func (p *Player) CompleteCustomization() Change {
	if !p.flow.customizing {
		return 0
	}
	p.flow.customizing = false
	p.flow.introComplete = true
	p.flow.firstPerson = false
	p.flow.naming = true
	return p.notify(ChangeState | ChangeVisual)
}

// SetPlayerName rejects blank input.
func (p *Player) SetPlayerName(name string) Change {
	name = CleanName(name)
	if name == "" {
		return 0
	}
	p.name = name
	p.flow.naming = false
	return p.notify(ChangeState | ChangeVisual)
}

// StartNewGame resets progression, inventory, equipment, starter flags and the intro.
// Cosmetic customization is kept; the name goes back to the placeholder.
func (p *Player) StartNewGame() Change {
	if p.flow.loading {
		return 0
	}
	p.resetProgress()
	p.flow.landingPage = false
	p.flow.slotSelection = false
	p.logger.Debug("new game started", "slot", p.flow.slotID)
	return p.notify(ChangeState | ChangeVisual | ChangeEquipment)
}

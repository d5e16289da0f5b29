package player

import (
	"log/slog"
	"testing"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
)

func TestNewPlayerStartsLoading(t *testing.T) {
	obs := &recordingObserver{}
	p := New(nil, obs, slog.New(slog.DiscardHandler))
	if p.Mode() != ModeLoading {
		t.Fatalf("mode=%s want Loading", p.Mode())
	}
	p.AddCredits(10)
	if obs.persists != 0 {
		t.Fatalf("persisted while loading: %d", obs.persists)
	}
	if change := p.TogglePause(); change != 0 {
		t.Fatalf("pause while loading change=%s", change)
	}
	if change := p.StartNewGame(); change != 0 {
		t.Fatalf("new game while loading change=%s", change)
	}
}

func TestFinishLoadingWithoutSaveStartsIntro(t *testing.T) {
	p := New(nil, nil, slog.New(slog.DiscardHandler))
	p.BeginLoading("slot-1")
	p.FinishLoading(nil)

	if p.Mode() != ModeIntro || p.HasExistingSave() || p.IsLandingPage() {
		t.Fatalf("mode=%s existing=%v landing=%v", p.Mode(), p.HasExistingSave(), p.IsLandingPage())
	}
	if !p.IsFirstPerson() || p.Dialogue() != DialogueWelcome {
		t.Fatalf("first person=%v dialogue=%q", p.IsFirstPerson(), p.Dialogue())
	}
	if p.SelectedSlot() != "slot-1" {
		t.Fatalf("slot=%q", p.SelectedSlot())
	}
	if change := p.FinishLoading(nil); change != 0 {
		t.Fatalf("second FinishLoading change=%s", change)
	}
}

func TestFinishLoadingWithSaveShowsLandingPage(t *testing.T) {
	p := New(nil, nil, slog.New(slog.DiscardHandler))
	s := NewSnapshot()
	s.IntroComplete = true
	s.PlayerName = "Rusty"
	s.Credits = 77
	p.FinishLoading(&s)

	if p.Mode() != ModeLandingPage || !p.HasExistingSave() {
		t.Fatalf("mode=%s existing=%v", p.Mode(), p.HasExistingSave())
	}
	if change := p.TogglePause(); change != 0 {
		t.Fatalf("pause on landing page change=%s", change)
	}
	p.ContinueGame()
	if p.Mode() != ModePlaying || p.Credits() != 77 || p.IsFirstPerson() {
		t.Fatalf("mode=%s credits=%d first person=%v", p.Mode(), p.Credits(), p.IsFirstPerson())
	}
	p.TogglePause()
	if p.Mode() != ModePaused {
		t.Fatalf("mode=%s want Paused", p.Mode())
	}
	if change := p.OpenShop(); change != 0 {
		t.Fatalf("shop opened while paused")
	}
	p.TogglePause()
	if p.Mode() != ModePlaying {
		t.Fatalf("mode=%s want Playing", p.Mode())
	}
}

func TestLoadReentersNamingForPlaceholderName(t *testing.T) {
	p := New(nil, nil, slog.New(slog.DiscardHandler))
	s := NewSnapshot()
	s.IntroComplete = true
	p.FinishLoading(&s)
	p.ContinueGame()

	if p.Mode() != ModeNaming {
		t.Fatalf("mode=%s want Naming", p.Mode())
	}
	if change := p.TogglePause(); change != 0 {
		t.Fatalf("pause while naming change=%s", change)
	}
	if change := p.SetPlayerName(" \t "); change != 0 {
		t.Fatalf("blank name change=%s", change)
	}
	p.SetPlayerName("  Rusty  ")
	if p.Name() != "Rusty" || p.Mode() != ModePlaying {
		t.Fatalf("name=%q mode=%s", p.Name(), p.Mode())
	}
}

func TestSlotSelection(t *testing.T) {
	p := New(nil, nil, slog.New(slog.DiscardHandler))
	s := NewSnapshot()
	s.IntroComplete = true
	s.PlayerName = "Rusty"
	p.FinishLoading(&s)

	if change := p.SelectSlot("2"); change != 0 {
		t.Fatalf("select slot outside selection change=%s", change)
	}
	p.OpenSlotSelection()
	if p.Mode() != ModeSlotSelection {
		t.Fatalf("mode=%s want SlotSelection", p.Mode())
	}
	if change := p.SelectSlot("  "); change != 0 {
		t.Fatalf("blank slot change=%s", change)
	}
	p.CloseSlotSelection()
	if p.Mode() != ModeLandingPage {
		t.Fatalf("mode=%s want LandingPage", p.Mode())
	}
	p.OpenSlotSelection()
	p.SelectSlot("2")
	if p.Mode() != ModeLoading || p.SelectedSlot() != "2" {
		t.Fatalf("mode=%s slot=%q", p.Mode(), p.SelectedSlot())
	}
}

func TestCustomizationFlow(t *testing.T) {
	p, obs := newPlayer()
	if change := p.CompleteCustomization(); change != 0 {
		t.Fatalf("complete outside customization change=%s", change)
	}
	for _, item := range []string{StarterStick, StarterOveralls, StarterBackpack} {
		p.EquipStarterItem(item)
	}
	if p.Mode() != ModeCustomizing {
		t.Fatalf("mode=%s want Customizing", p.Mode())
	}
	if change := p.OpenShop(); change != 0 {
		t.Fatalf("shop opened while customizing")
	}

	p.UpdateCustomization(GenderFemale, 1.7, "#ff0000", "")
	if p.Gender() != GenderFemale || p.HairLength() != 1 || p.HairColor() != "#ff0000" || p.SkinColor() != DefaultSkinColor {
		t.Fatalf("gender=%s hair=%v/%s skin=%s", p.Gender(), p.HairLength(), p.HairColor(), p.SkinColor())
	}
	if change := p.UpdateCustomization(GenderFemale, 1, "#ff0000", ""); change != 0 {
		t.Fatalf("unchanged customization change=%s", change)
	}

	before := obs.persists
	p.CompleteCustomization()
	if p.Mode() != ModeNaming || !p.IntroComplete() || p.IsFirstPerson() {
		t.Fatalf("mode=%s intro=%v first person=%v", p.Mode(), p.IntroComplete(), p.IsFirstPerson())
	}
	if obs.persists != before+1 {
		t.Fatalf("customization completion not persisted")
	}
}

func TestVisualChangesNeverPersist(t *testing.T) {
	p, obs := newLoadedPlayer(t, nil)

	p.ToggleView()
	p.SetDialogue("Hey there.")
	p.OpenShop()
	p.CloseShop()
	p.TogglePause()
	p.TogglePause()

	if obs.persists != 0 {
		t.Fatalf("persists=%d want 0", obs.persists)
	}
	if obs.redraws != 6 {
		t.Fatalf("redraws=%d want 6", obs.redraws)
	}
}

func TestShopBlockedWhileDead(t *testing.T) {
	p, _ := newLoadedPlayer(t, func(s *Snapshot) { s.HP = 1 })
	p.OpenShop()
	p.TakeDamage(99)
	if p.IsShopOpen() {
		t.Fatalf("shop left open after death")
	}
	if change := p.OpenShop(); change != 0 {
		t.Fatalf("shop opened while dead")
	}
}

func TestStartNewGameKeepsCosmetics(t *testing.T) {
	p, _ := newLoadedPlayer(t, func(s *Snapshot) {
		s.Level = 5
		s.MaxHP = 140
		s.HP = 140
		s.Credits = 900
		s.Inventory[catalog.Cloth] = 4
		s.OwnedGear = []string{"Metal Pipe"}
		s.Equipped[catalog.SlotWeapon] = "Metal Pipe"
		s.HasStick, s.HasOveralls, s.HasBackpack = true, true, true
		s.Gender = GenderFemale
		s.HairColor = "#00ff00"
		s.HairLength = 0.9
	})

	p.StartNewGame()

	if p.Level() != 1 || p.Credits() != 0 || p.Inventory(catalog.Cloth) != 0 || len(p.OwnedGear()) != 0 {
		t.Fatalf("progress not reset: level=%d credits=%d cloth=%d owned=%v",
			p.Level(), p.Credits(), p.Inventory(catalog.Cloth), p.OwnedGear())
	}
	if p.Equipped(catalog.SlotWeapon) != catalog.None || p.StarterCount() != 0 {
		t.Fatalf("weapon=%q starters=%d", p.Equipped(catalog.SlotWeapon), p.StarterCount())
	}
	if p.Gender() != GenderFemale || p.HairColor() != "#00ff00" || p.HairLength() != 0.9 {
		t.Fatalf("cosmetics reset: gender=%s hair=%s/%v", p.Gender(), p.HairColor(), p.HairLength())
	}
	if p.Name() != PlaceholderName || p.Mode() != ModeIntro {
		t.Fatalf("name=%q mode=%s", p.Name(), p.Mode())
	}
}

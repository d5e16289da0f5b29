package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/btrahan1/Scrapper3000/internal/catalog"
	"github.com/btrahan1/Scrapper3000/internal/combat"
	"github.com/btrahan1/Scrapper3000/internal/player"
	"github.com/btrahan1/Scrapper3000/internal/storage"
)

// maxMoveStep is the farthest a single MOVE may go.
const maxMoveStep = 10.0

func (s *session) handleAuth(ctx context.Context, raw json.RawMessage) {
	if ok, wait := s.z.limiter.Allow(s.peer); !ok {
		s.send(ServerMessage{Command: RespError, Payload: ErrorPayload{
			Command: ReqAuth,
			Reason:  MsgAuthLocked,
			Retry:   int(wait.Seconds()),
		}})
		s.closing = true
		return
	}

	var req AuthRequest
	if !decodePayload(raw, &req) || strings.TrimSpace(req.Token) == "" {
		s.rejectAuth(MsgTokenRequired)
		return
	}
	claims, err := s.z.tokens.Parse(req.Token)
	if err != nil {
		s.logger.InfoContext(ctx, "auth token rejected", "error", err)
		s.rejectAuth(MsgTokenInvalid)
		return
	}

	user := strings.ToLower(strings.TrimSpace(claims.Username))
	slot := strings.TrimSpace(req.Slot)
	if slot == "" {
		slot = defaultSaveSlot
	}
	if _, err := storage.CleanSlot(user + "/" + slot); err != nil || strings.Contains(slot, "/") {
		s.rejectAuth(MsgInvalidSaveSlot)
		return
	}

	s.z.limiter.Reset(s.peer)
	s.user = user
	s.logger = s.logger.With("user", user)
	s.authed.Store(true)
	s.authFailures = 0

	if prev := s.z.sessions.bind(user, s); prev != nil {
		s.logger.InfoContext(ctx, "replacing existing session")
		prev.kick(MsgReplaced)
		select {
		case <-prev.done:
		case <-time.After(replaceTimeout):
			s.logger.WarnContext(ctx, "previous session did not stop in time")
		}
	}

	s.player = player.New(s.z.catalog, s, s.logger)
	s.field = combat.NewField(s.z.profiles, s.z.newRand(), s.logger)
	s.field.SpawnJunkyard(s.z.layout)

	s.send(ServerMessage{Command: RespAuthOK, Payload: map[string]any{"user": user, "slot": slot}})
	s.loadSlot(ctx, slot)
}

func (s *session) rejectAuth(reason string) {
	s.authFailures++
	s.sendError(ReqAuth, reason)
	if s.authFailures >= maxAuthFailures {
		s.closing = true
	}
}

// loadSlot switches the scrapper to slot, writing out any unsaved progress of the current slot
// first.
func (s *session) loadSlot(ctx context.Context, slot string) {
	s.savePending()
	s.player.BeginLoading(slot)
	snap, report := s.z.saves.Restore(ctx, s.slotKey())
	if snap != nil && !report.Clean() {
		s.logger.InfoContext(ctx, "save repaired on load", "slot", slot, "version", report.Version)
	}
	s.player.FinishLoading(snap)
	s.pos = s.z.layout.Center
}

// handleCommand runs one authenticated command. It reports false for unknown commands.
func (s *session) handleCommand(ctx context.Context, cmd string, raw json.RawMessage) bool {
	p := s.player
	switch cmd {
	case ReqGetState:
		s.redraw = true
		return true

	case ReqMove:
		var req MoveRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		if mode := p.Mode(); (mode != player.ModePlaying && mode != player.ModeIntro) || p.IsDead() {
			s.sendError(cmd, MsgNotAllowed)
			return true
		}
		next := combat.Position{X: req.X, Y: req.Y, Z: req.Z}
		if s.pos.DistanceTo(next) > maxMoveStep {
			s.sendError(cmd, MsgInvalidMove)
			return true
		}
		s.pos = next
		return true

	case ReqWhack:
		var req WhackRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		id, err := uuid.Parse(req.MobID)
		if err != nil {
			s.sendError(cmd, combat.WhackMobNotFound)
			return true
		}
		if p.Mode() != player.ModePlaying || p.IsShopOpen() {
			s.sendError(cmd, MsgNotAllowed)
			return true
		}
		ev, ok, code := s.field.Whack(id, s.pos, p)
		if !ok {
			s.sendError(cmd, code)
			return true
		}
		s.send(ServerMessage{Command: RespCombat, Payload: CombatPayload{Events: []combat.Event{ev}}})
		return true

	case ReqPickup:
		var req ItemRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		s.expectChange(cmd, p.PickUpItem(req.Item))
		return true

	case ReqEquip:
		var req ItemRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		slot, ok := s.itemSlot(req)
		if !ok {
			s.sendError(cmd, MsgUnknownSlot)
			return true
		}
		s.expectChange(cmd, p.EquipItem(req.Item, slot))
		return true

	case ReqUnequip:
		var req SlotRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		slot, ok := catalog.ParseSlot(req.Slot)
		if !ok {
			s.sendError(cmd, MsgUnknownSlot)
			return true
		}
		s.expectChange(cmd, p.UnequipSlot(slot))
		return true

	case ReqEquipStarter:
		var req ItemRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		s.expectChange(cmd, p.EquipStarterItem(req.Item))
		return true

	case ReqBuy:
		var req ItemRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		s.expectChange(cmd, p.BuyItem(req.Item))
		return true

	case ReqSell, ReqSellAll:
		var req MaterialRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		m, ok := catalog.ParseMaterial(req.Material)
		if !ok {
			s.sendError(cmd, MsgUnknownMaterial)
			return true
		}
		if cmd == ReqSell {
			s.expectChange(cmd, p.SellItem(m))
		} else {
			s.expectChange(cmd, p.SellAll(m))
		}
		return true

	case ReqHeal:
		s.expectChange(cmd, p.HealPlayer())
		return true
	case ReqRespawn:
		s.expectChange(cmd, p.Respawn())
		return true
	case ReqPause:
		s.expectChange(cmd, p.TogglePause())
		return true
	case ReqToggleView:
		s.expectChange(cmd, p.ToggleView())
		return true
	case ReqOpenShop:
		s.expectChange(cmd, p.OpenShop())
		return true
	case ReqCloseShop:
		s.expectChange(cmd, p.CloseShop())
		return true

	case ReqCustomize:
		var req CustomizeRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		gender, ok := player.ParseGender(req.Gender)
		if !ok {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		s.expectChange(cmd, p.UpdateCustomization(gender, req.HairLength, req.HairColor, req.SkinColor))
		return true
	case ReqCompleteCustomization:
		s.expectChange(cmd, p.CompleteCustomization())
		return true
	case ReqSetName:
		var req NameRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		s.expectChange(cmd, p.SetPlayerName(req.Name))
		return true

	case ReqNewGame:
		if c := p.StartNewGame(); c != 0 {
			s.pos = s.z.layout.Center
			return true
		}
		s.sendError(cmd, MsgNoChange)
		return true
	case ReqContinue:
		s.expectChange(cmd, p.ContinueGame())
		return true
	case ReqOpenSlots:
		s.expectChange(cmd, p.OpenSlotSelection())
		return true
	case ReqSelectSlot:
		var req SlotRequest
		if !decodePayload(raw, &req) {
			s.sendError(cmd, MsgBadPayload)
			return true
		}
		id := strings.TrimSpace(req.Slot)
		if _, err := storage.CleanSlot(s.user + "/" + id); err != nil || id == "" || strings.Contains(id, "/") {
			s.sendError(cmd, MsgInvalidSaveSlot)
			return true
		}
		if !p.IsSlotSelection() {
			s.sendError(cmd, MsgNotAllowed)
			return true
		}
		s.loadSlot(ctx, id)
		return true
	case ReqListSlots:
		s.sendSlots(ctx)
		return true
	case ReqShop:
		s.send(ServerMessage{Command: RespShop, Payload: s.z.catalog.Items()})
		return true
	}
	return false
}

// itemSlot resolves the slot of an EQUIP request; an omitted slot means the item's own slot.
func (s *session) itemSlot(req ItemRequest) (catalog.Slot, bool) {
	if strings.TrimSpace(req.Slot) != "" {
		return catalog.ParseSlot(req.Slot)
	}
	item, ok := s.z.catalog.Lookup(req.Item)
	if !ok {
		return catalog.SlotWeapon, true
	}
	return item.Slot, true
}

func (s *session) expectChange(cmd string, c player.Change) {
	if c == 0 {
		s.sendError(cmd, MsgNoChange)
	}
}

func (s *session) sendSlots(ctx context.Context) {
	infos, err := s.z.saves.Slots(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "listing save slots failed", "error", err)
		infos = nil
	}
	prefix := s.user + "/"
	own := make([]storage.SlotInfo, 0, len(infos))
	for _, info := range infos {
		if id, ok := strings.CutPrefix(info.Slot, prefix); ok {
			info.Slot = id
			own = append(own, info)
		}
	}
	s.send(ServerMessage{Command: RespSlots, Payload: SlotsPayload{Slots: own}})
}

package main

import (
	"encoding/json"
	"strings"

	"github.com/btrahan1/Scrapper3000/internal/combat"
	"github.com/btrahan1/Scrapper3000/internal/player"
	"github.com/btrahan1/Scrapper3000/internal/storage"
)

// ClientMessage is one websocket text frame from the client.
type ClientMessage struct {
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage is one websocket text frame to the client.
type ServerMessage struct {
	Command string `json:"command"`
	Payload any    `json:"payload,omitempty"`
}

const (
	ReqAuth                  = "AUTH"
	ReqGetState              = "GET_STATE"
	ReqMove                  = "MOVE"
	ReqWhack                 = "WHACK"
	ReqPickup                = "PICKUP"
	ReqEquip                 = "EQUIP"
	ReqUnequip               = "UNEQUIP"
	ReqEquipStarter          = "EQUIP_STARTER"
	ReqBuy                   = "BUY"
	ReqSell                  = "SELL"
	ReqSellAll               = "SELL_ALL"
	ReqHeal                  = "HEAL"
	ReqRespawn               = "RESPAWN"
	ReqPause                 = "PAUSE"
	ReqToggleView            = "TOGGLE_VIEW"
	ReqOpenShop              = "OPEN_SHOP"
	ReqCloseShop             = "CLOSE_SHOP"
	ReqCustomize             = "CUSTOMIZE"
	ReqCompleteCustomization = "COMPLETE_CUSTOMIZATION"
	ReqSetName               = "SET_NAME"
	ReqNewGame               = "NEW_GAME"
	ReqContinue              = "CONTINUE"
	ReqOpenSlots             = "OPEN_SLOTS"
	ReqSelectSlot            = "SELECT_SLOT"
	ReqListSlots             = "LIST_SLOTS"
	ReqShop                  = "SHOP"
)

const (
	RespAuthRequired = "AUTH_REQUIRED"
	RespAuthOK       = "AUTH_OK"
	RespState        = "STATE"
	RespCombat       = "COMBAT"
	RespMobs         = "MOBS"
	RespSlots        = "SLOTS"
	RespShop         = "SHOP"
	RespError        = "ERROR"
)

// Error reasons carried in ERROR payloads.
const (
	MsgLoginRequired   = "LOGIN_REQUIRED"
	MsgTokenRequired   = "TOKEN_REQUIRED"
	MsgTokenInvalid    = "TOKEN_INVALID"
	MsgAuthLocked      = "TOO_MANY_ATTEMPTS"
	MsgAuthTimeout     = "AUTH_TIMEOUT"
	MsgAlreadyAuthed   = "ALREADY_AUTHENTICATED"
	MsgTooManyRequests = "RATE_LIMITED"
	MsgUnknownCommand  = "UNKNOWN_COMMAND"
	MsgBadPayload      = "BAD_PAYLOAD"
	MsgInvalidMove     = "INVALID_MOVE"
	MsgNotAllowed      = "NOT_ALLOWED_NOW"
	MsgNoChange        = "NO_CHANGE"
	MsgUnknownSlot     = "UNKNOWN_SLOT"
	MsgUnknownMaterial = "UNKNOWN_MATERIAL"
	MsgInvalidSaveSlot = "INVALID_SAVE_SLOT"
	MsgReplaced        = "SESSION_REPLACED"
	MsgShuttingDown    = "SERVER_SHUTTING_DOWN"
)

type ErrorPayload struct {
	Command string `json:"command,omitempty"`
	Reason  string `json:"reason"`
	Retry   int    `json:"retry_after_sec,omitempty"`
}

type AuthRequest struct {
	Token string `json:"token"`
	Slot  string `json:"slot"`
}

type MoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type WhackRequest struct {
	MobID string `json:"mob_id"`
}

type ItemRequest struct {
	Item string `json:"item"`
	Slot string `json:"slot"`
}

type MaterialRequest struct {
	Material string `json:"material"`
}

type CustomizeRequest struct {
	Gender     string  `json:"gender"`
	HairLength float64 `json:"hair_length"`
	HairColor  string  `json:"hair_color"`
	SkinColor  string  `json:"skin_color"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type SlotRequest struct {
	Slot string `json:"slot"`
}

// StatePayload is the full view of the scrapper the client renders from.
type StatePayload struct {
	Mode          string            `json:"mode"`
	Slot          string            `json:"slot"`
	Name          string            `json:"name"`
	Level         int               `json:"level"`
	CurrentExp    int               `json:"current_exp"`
	NextLevelExp  int               `json:"next_level_exp"`
	HP            int               `json:"hp"`
	MaxHP         int               `json:"max_hp"`
	Credits       int               `json:"credits"`
	AttackPower   int               `json:"attack_power"`
	Defense       int               `json:"defense"`
	Dead          bool              `json:"dead"`
	ShopOpen      bool              `json:"shop_open"`
	FirstPerson   bool              `json:"first_person"`
	HasSave       bool              `json:"has_save"`
	Dialogue      string            `json:"dialogue,omitempty"`
	Position      combat.Position   `json:"position"`
	Inventory     map[string]int    `json:"inventory"`
	EquippedSlots map[string]string `json:"equipped_slots"`
	OwnedGear     []string          `json:"owned_gear"`
	Starters      map[string]bool   `json:"starters"`
	Gender        string            `json:"gender"`
	HairLength    float64           `json:"hair_length"`
	HairColor     string            `json:"hair_color"`
	SkinColor     string            `json:"skin_color"`
	Events        []string          `json:"events,omitempty"`
}

type CombatPayload struct {
	Events []combat.Event `json:"events"`
	Mobs   []combat.Mob   `json:"mobs,omitempty"`
}

type SlotsPayload struct {
	Slots []storage.SlotInfo `json:"slots"`
}

// decodePayload unmarshals raw into dst. An empty payload leaves dst zeroed.
func decodePayload(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

func eventNames(events []player.Event) []string {
	if len(events) == 0 {
		return nil
	}
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.String())
	}
	return out
}

// Package gateway exposes the simulation over a websocket endpoint. Clients
// send JSON request envelopes and receive matched responses plus, once
// subscribed, a full world snapshot followed by the live event stream.
package gateway

import (
	"encoding/json"
	"fmt"

	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// Message types pushed from the daemon
const (
	MessageTypeResponse = "response"
	MessageTypeEvent    = "event"
	MessageTypeSnapshot = "snapshot"
)

// Actions accepted from clients
const (
	ActionPlaceBuilding      = "placeBuilding"
	ActionDamageBuilding     = "damageBuilding"
	ActionDemolishBuilding   = "demolishBuilding"
	ActionSetBuildingActive  = "setBuildingActive"
	ActionSelectBuilding     = "selectBuilding"
	ActionDeselectBuilding   = "deselectBuilding"
	ActionGetBuilding        = "getBuilding"
	ActionListBuildings      = "listBuildings"
	ActionListBuildingEvents = "listBuildingEvents"
	ActionCanPlaceBuilding   = "canPlaceBuilding"
	ActionGetTeamEconomy     = "getTeamEconomy"
	ActionListTeamEconomies  = "listTeamEconomies"
	ActionSubscribe          = "subscribe"
	ActionUnsubscribe        = "unsubscribe"
)

// Request is one client command envelope. ID is an opaque echo token the
// client uses to match the response to its request.
type Request struct {
	ID     string          `json:"id,omitempty"`
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers exactly one Request.
type Response struct {
	Type   string      `json:"type"`
	ID     string      `json:"id,omitempty"`
	Action string      `json:"action"`
	OK     bool        `json:"ok"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// EventMessage wraps one lifecycle notification for subscribers. The data
// field holds the typed event, so consumers get extras like newHealth or the
// full snapshot without a follow-up query.
type EventMessage struct {
	Type       string      `json:"type"`
	Event      string      `json:"event"`
	BuildingID string      `json:"buildingId"`
	TeamID     int         `json:"teamId"`
	Data       interface{} `json:"data"`
}

// SnapshotMessage carries the full world state sent when a client subscribes.
// The snapshot is authoritative: an event delivered just before it may
// already be folded into it.
type SnapshotMessage struct {
	Type      string                           `json:"type"`
	Buildings []building.Snapshot              `json:"buildings"`
	Teams     []appEconomy.TeamEconomySnapshot `json:"teams"`
}

// Request parameter payloads, one per action where required.

type PlaceBuildingParams struct {
	BuildingID    string     `json:"buildingId,omitempty"`
	BuildingType  string     `json:"buildingType"`
	TeamID        int        `json:"teamId"`
	OwnerPlayerID string     `json:"ownerPlayerId,omitempty"`
	Position      [3]float64 `json:"position"`
	RotationY     float64    `json:"rotationY,omitempty"`
}

type DamageBuildingParams struct {
	BuildingID string  `json:"buildingId"`
	Amount     float64 `json:"amount"`
}

type SetBuildingActiveParams struct {
	BuildingID string `json:"buildingId"`
	Active     bool   `json:"active"`
}

// BuildingIDParams serves every action addressing one structure.
type BuildingIDParams struct {
	BuildingID string `json:"buildingId"`
}

type ListBuildingsParams struct {
	TeamID *int `json:"teamId,omitempty"`
}

// ListBuildingEventsParams scopes a history read to one structure or one team.
type ListBuildingEventsParams struct {
	BuildingID string `json:"buildingId,omitempty"`
	TeamID     int    `json:"teamId,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type CanPlaceBuildingParams struct {
	BuildingType string     `json:"buildingType"`
	Position     [3]float64 `json:"position"`
}

type TeamParams struct {
	TeamID int `json:"teamId"`
}

// Result payloads mirrored back inside Response.Result.

type BuildingResult struct {
	Building building.Snapshot `json:"building"`
}

type DamageBuildingResult struct {
	Building  building.Snapshot `json:"building"`
	Destroyed bool              `json:"destroyed"`
}

type BuildingListResult struct {
	Buildings []building.Snapshot `json:"buildings"`
}

type CanPlaceBuildingResult struct {
	CanPlace bool `json:"canPlace"`
}

type BuildingEventsResult struct {
	Events []building.EventLogEntry `json:"events"`
}

type TeamEconomyResult struct {
	Economy appEconomy.TeamEconomySnapshot `json:"economy"`
}

type TeamEconomiesResult struct {
	Teams []appEconomy.TeamEconomySnapshot `json:"teams"`
}

type SubscriptionResult struct {
	Subscribed bool `json:"subscribed"`
}

// unmarshalParams decodes an action payload, tolerating a missing one so
// handlers can report the precise validation failure themselves.
func unmarshalParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

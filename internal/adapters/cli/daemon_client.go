package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/gateway"
	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// DaemonClient provides a client interface to communicate with the daemon
// over its websocket gateway. One client holds one connection; commands are
// matched to responses by request ID, so event frames arriving in between
// are skipped (or handed to Watch).
type DaemonClient struct {
	conn    *websocket.Conn
	address string
	nextID  int
}

// NewDaemonClient dials the daemon gateway
func NewDaemonClient(address, path string) (*DaemonClient, error) {
	u := url.URL{Scheme: "ws", Host: address, Path: path}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w", u.String(), err)
	}

	return &DaemonClient{
		conn:    conn,
		address: address,
	}, nil
}

// Close closes the client connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// call sends one request and blocks until its matched response arrives.
// result may be nil when the caller only cares about success.
func (c *DaemonClient) call(ctx context.Context, action string, params interface{}, result interface{}) error {
	c.nextID++
	id := fmt.Sprintf("cli-%d", c.nextID)

	req := gateway.Request{ID: id, Action: action}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		req.Params = raw
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
		if err := c.conn.SetReadDeadline(deadline); err != nil {
			return err
		}
	}
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	for {
		var resp struct {
			Type   string          `json:"type"`
			ID     string          `json:"id"`
			OK     bool            `json:"ok"`
			Result json.RawMessage `json:"result"`
			Error  string          `json:"error"`
		}
		if err := c.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		if resp.Type != gateway.MessageTypeResponse || resp.ID != id {
			continue
		}
		if !resp.OK {
			return fmt.Errorf("daemon rejected %s: %s", action, resp.Error)
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("failed to decode %s result: %w", action, err)
			}
		}
		return nil
	}
}

// PlaceBuilding places a new structure on the grid
func (c *DaemonClient) PlaceBuilding(ctx context.Context, params gateway.PlaceBuildingParams) (building.Snapshot, error) {
	var result gateway.BuildingResult
	err := c.call(ctx, gateway.ActionPlaceBuilding, params, &result)
	return result.Building, err
}

// DamageBuilding applies damage to a structure
func (c *DaemonClient) DamageBuilding(ctx context.Context, buildingID string, amount float64) (gateway.DamageBuildingResult, error) {
	var result gateway.DamageBuildingResult
	err := c.call(ctx, gateway.ActionDamageBuilding, gateway.DamageBuildingParams{
		BuildingID: buildingID,
		Amount:     amount,
	}, &result)
	return result, err
}

// DemolishBuilding destroys a structure on player request
func (c *DaemonClient) DemolishBuilding(ctx context.Context, buildingID string) (building.Snapshot, error) {
	var result gateway.BuildingResult
	err := c.call(ctx, gateway.ActionDemolishBuilding, gateway.BuildingIDParams{BuildingID: buildingID}, &result)
	return result.Building, err
}

// SetBuildingActive toggles a constructed structure on or off
func (c *DaemonClient) SetBuildingActive(ctx context.Context, buildingID string, active bool) (building.Snapshot, error) {
	var result gateway.BuildingResult
	err := c.call(ctx, gateway.ActionSetBuildingActive, gateway.SetBuildingActiveParams{
		BuildingID: buildingID,
		Active:     active,
	}, &result)
	return result.Building, err
}

// SelectBuilding marks a structure selected
func (c *DaemonClient) SelectBuilding(ctx context.Context, buildingID string) (building.Snapshot, error) {
	var result gateway.BuildingResult
	err := c.call(ctx, gateway.ActionSelectBuilding, gateway.BuildingIDParams{BuildingID: buildingID}, &result)
	return result.Building, err
}

// DeselectBuilding clears a structure's selection
func (c *DaemonClient) DeselectBuilding(ctx context.Context, buildingID string) (building.Snapshot, error) {
	var result gateway.BuildingResult
	err := c.call(ctx, gateway.ActionDeselectBuilding, gateway.BuildingIDParams{BuildingID: buildingID}, &result)
	return result.Building, err
}

// GetBuilding fetches one structure's snapshot
func (c *DaemonClient) GetBuilding(ctx context.Context, buildingID string) (building.Snapshot, error) {
	var result gateway.BuildingResult
	err := c.call(ctx, gateway.ActionGetBuilding, gateway.BuildingIDParams{BuildingID: buildingID}, &result)
	return result.Building, err
}

// ListBuildings lists structures, optionally filtered to one team
func (c *DaemonClient) ListBuildings(ctx context.Context, teamID *int) ([]building.Snapshot, error) {
	var result gateway.BuildingListResult
	err := c.call(ctx, gateway.ActionListBuildings, gateway.ListBuildingsParams{TeamID: teamID}, &result)
	return result.Buildings, err
}

// BuildingEvents fetches the persisted lifecycle history for one building
// or one team, newest first
func (c *DaemonClient) BuildingEvents(ctx context.Context, buildingID string, teamID, limit int) ([]building.EventLogEntry, error) {
	var result gateway.BuildingEventsResult
	err := c.call(ctx, gateway.ActionListBuildingEvents, gateway.ListBuildingEventsParams{
		BuildingID: buildingID,
		TeamID:     teamID,
		Limit:      limit,
	}, &result)
	return result.Events, err
}

// CanPlaceBuilding previews whether a position is free for a type
func (c *DaemonClient) CanPlaceBuilding(ctx context.Context, buildingType string, position [3]float64) (bool, error) {
	var result gateway.CanPlaceBuildingResult
	err := c.call(ctx, gateway.ActionCanPlaceBuilding, gateway.CanPlaceBuildingParams{
		BuildingType: buildingType,
		Position:     position,
	}, &result)
	return result.CanPlace, err
}

// TeamEconomy fetches one team's stock and rate report
func (c *DaemonClient) TeamEconomy(ctx context.Context, teamID int) (appEconomy.TeamEconomySnapshot, error) {
	var result gateway.TeamEconomyResult
	err := c.call(ctx, gateway.ActionGetTeamEconomy, gateway.TeamParams{TeamID: teamID}, &result)
	return result.Economy, err
}

// ListTeamEconomies fetches every team's report
func (c *DaemonClient) ListTeamEconomies(ctx context.Context) ([]appEconomy.TeamEconomySnapshot, error) {
	var result gateway.TeamEconomiesResult
	err := c.call(ctx, gateway.ActionListTeamEconomies, nil, &result)
	return result.Teams, err
}

// WatchFrame is one decoded frame from a subscribed connection.
type WatchFrame struct {
	Snapshot *gateway.SnapshotMessage
	Event    *EventFrame
}

// EventFrame is a decoded lifecycle event as pushed by the daemon.
type EventFrame struct {
	Event      string          `json:"event"`
	BuildingID string          `json:"buildingId"`
	TeamID     int             `json:"teamId"`
	Data       json.RawMessage `json:"data"`
}

// Subscribe turns on the event stream for this connection. The daemon
// answers with the full world snapshot before any events.
func (c *DaemonClient) Subscribe(ctx context.Context) error {
	return c.call(ctx, gateway.ActionSubscribe, nil, nil)
}

// NextFrame blocks for the next snapshot or event frame. Call after
// Subscribe. Response frames for in-flight requests are skipped.
func (c *DaemonClient) NextFrame() (*WatchFrame, error) {
	for {
		var probe struct {
			Type string `json:"type"`
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read frame: %w", err)
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, fmt.Errorf("failed to decode frame: %w", err)
		}

		switch probe.Type {
		case gateway.MessageTypeSnapshot:
			var snap gateway.SnapshotMessage
			if err := json.Unmarshal(data, &snap); err != nil {
				return nil, fmt.Errorf("failed to decode snapshot: %w", err)
			}
			return &WatchFrame{Snapshot: &snap}, nil
		case gateway.MessageTypeEvent:
			var event EventFrame
			if err := json.Unmarshal(data, &event); err != nil {
				return nil, fmt.Errorf("failed to decode event: %w", err)
			}
			return &WatchFrame{Event: &event}, nil
		default:
			continue
		}
	}
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	buildingCommands "github.com/alanli-ML/ai-rts-sub008/internal/application/building/commands"
	buildingQueries "github.com/alanli-ML/ai-rts-sub008/internal/application/building/queries"
	economyQueries "github.com/alanli-ML/ai-rts-sub008/internal/application/economy/queries"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
)

// dispatchTimeout bounds one request's trip through the mediator, which
// includes waiting for a slot on the simulation goroutine.
const dispatchTimeout = 10 * time.Second

// handleFrame decodes and executes one inbound request. Runs on the client's
// read pump goroutine, so one client's requests execute in order.
func (s *Server) handleFrame(c *Client, frame []byte) {
	var req Request
	if err := json.Unmarshal(frame, &req); err != nil {
		s.respond(c, req, nil, fmt.Errorf("malformed request: %w", err))
		return
	}

	if s.metrics != nil {
		s.metrics.CommandReceived()
	}

	if c.limiter != nil && !c.limiter.Allow() {
		if s.metrics != nil {
			s.metrics.RateLimited()
		}
		s.respond(c, req, nil, errors.New("rate limit exceeded"))
		return
	}

	switch req.Action {
	case ActionSubscribe:
		s.handleSubscribe(c, req)
		return
	case ActionUnsubscribe:
		c.subscribed.Store(false)
		s.respond(c, req, SubscriptionResult{Subscribed: false}, nil)
		return
	}

	request, err := decodeRequest(req)
	if err != nil {
		s.respond(c, req, nil, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	response, err := s.mediator.Send(ctx, request)
	if err != nil {
		s.respond(c, req, nil, err)
		return
	}
	s.respond(c, req, encodeResult(response), nil)
}

// handleSubscribe flips on the event stream and pushes the current world
// state. The subscribed flag goes up first so no event can slip between the
// snapshot and the stream.
func (s *Server) handleSubscribe(c *Client, req Request) {
	c.subscribed.Store(true)

	snapshot, err := s.worldSnapshot()
	if err != nil {
		c.subscribed.Store(false)
		s.respond(c, req, nil, err)
		return
	}

	s.respond(c, req, SubscriptionResult{Subscribed: true}, nil)

	frame, err := json.Marshal(snapshot)
	if err != nil {
		s.log("ERROR", "Failed to encode snapshot", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if !c.enqueue(frame) {
		s.removeClient(c)
	}
}

// worldSnapshot assembles the full state push for a new subscriber.
func (s *Server) worldSnapshot() (SnapshotMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	buildingsResponse, err := s.mediator.Send(ctx, &buildingQueries.ListBuildingsQuery{})
	if err != nil {
		return SnapshotMessage{}, fmt.Errorf("failed to list buildings: %w", err)
	}
	teamsResponse, err := s.mediator.Send(ctx, &economyQueries.ListTeamEconomiesQuery{})
	if err != nil {
		return SnapshotMessage{}, fmt.Errorf("failed to list team economies: %w", err)
	}

	snapshot := SnapshotMessage{Type: MessageTypeSnapshot}
	if r, ok := buildingsResponse.(*buildingQueries.ListBuildingsResponse); ok {
		snapshot.Buildings = r.Buildings
	}
	if r, ok := teamsResponse.(*economyQueries.ListTeamEconomiesResponse); ok {
		snapshot.Teams = r.Teams
	}
	return snapshot, nil
}

// respond sends one Response frame back to the requesting client.
func (s *Server) respond(c *Client, req Request, result interface{}, err error) {
	response := Response{
		Type:   MessageTypeResponse,
		ID:     req.ID,
		Action: req.Action,
		OK:     err == nil,
		Result: result,
	}
	if err != nil {
		response.Error = err.Error()
	}

	frame, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		s.log("ERROR", "Failed to encode response", map[string]interface{}{
			"action": req.Action,
			"error":  marshalErr.Error(),
		})
		return
	}
	if !c.enqueue(frame) {
		s.removeClient(c)
	}
}

// decodeRequest maps a protocol action onto its mediator request.
func decodeRequest(req Request) (mediator.Request, error) {
	switch req.Action {
	case ActionPlaceBuilding:
		var p PlaceBuildingParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingCommands.PlaceBuildingCommand{
			BuildingID:    p.BuildingID,
			BuildingType:  p.BuildingType,
			TeamID:        p.TeamID,
			OwnerPlayerID: p.OwnerPlayerID,
			Position:      p.Position,
			RotationY:     p.RotationY,
		}, nil

	case ActionDamageBuilding:
		var p DamageBuildingParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingCommands.DamageBuildingCommand{
			BuildingID: p.BuildingID,
			Amount:     p.Amount,
		}, nil

	case ActionDemolishBuilding:
		var p BuildingIDParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingCommands.DemolishBuildingCommand{BuildingID: p.BuildingID}, nil

	case ActionSetBuildingActive:
		var p SetBuildingActiveParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingCommands.SetBuildingActiveCommand{
			BuildingID: p.BuildingID,
			Active:     p.Active,
		}, nil

	case ActionSelectBuilding:
		var p BuildingIDParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingCommands.SelectBuildingCommand{BuildingID: p.BuildingID}, nil

	case ActionDeselectBuilding:
		var p BuildingIDParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingCommands.DeselectBuildingCommand{BuildingID: p.BuildingID}, nil

	case ActionGetBuilding:
		var p BuildingIDParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingQueries.GetBuildingQuery{BuildingID: p.BuildingID}, nil

	case ActionListBuildings:
		var p ListBuildingsParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingQueries.ListBuildingsQuery{TeamID: p.TeamID}, nil

	case ActionListBuildingEvents:
		var p ListBuildingEventsParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingQueries.ListBuildingEventsQuery{
			BuildingID: p.BuildingID,
			TeamID:     p.TeamID,
			Limit:      p.Limit,
		}, nil

	case ActionCanPlaceBuilding:
		var p CanPlaceBuildingParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &buildingQueries.CanPlaceBuildingQuery{
			BuildingType: p.BuildingType,
			Position:     p.Position,
		}, nil

	case ActionGetTeamEconomy:
		var p TeamParams
		if err := unmarshalParams(req.Params, &p); err != nil {
			return nil, err
		}
		return &economyQueries.GetTeamEconomyQuery{TeamID: p.TeamID}, nil

	case ActionListTeamEconomies:
		return &economyQueries.ListTeamEconomiesQuery{}, nil

	default:
		return nil, fmt.Errorf("unknown action: %q", req.Action)
	}
}

// encodeResult converts a handler response into its wire payload.
func encodeResult(response mediator.Response) interface{} {
	switch r := response.(type) {
	case *buildingCommands.PlaceBuildingResponse:
		return BuildingResult{Building: r.Building}
	case *buildingCommands.DamageBuildingResponse:
		return DamageBuildingResult{Building: r.Building, Destroyed: r.Destroyed}
	case *buildingCommands.DemolishBuildingResponse:
		return BuildingResult{Building: r.Building}
	case *buildingCommands.SetBuildingActiveResponse:
		return BuildingResult{Building: r.Building}
	case *buildingCommands.SelectBuildingResponse:
		return BuildingResult{Building: r.Building}
	case *buildingCommands.DeselectBuildingResponse:
		return BuildingResult{Building: r.Building}
	case *buildingQueries.GetBuildingResponse:
		return BuildingResult{Building: r.Building}
	case *buildingQueries.ListBuildingsResponse:
		return BuildingListResult{Buildings: r.Buildings}
	case *buildingQueries.ListBuildingEventsResponse:
		return BuildingEventsResult{Events: r.Events}
	case *buildingQueries.CanPlaceBuildingResponse:
		return CanPlaceBuildingResult{CanPlace: r.CanPlace}
	case *economyQueries.GetTeamEconomyResponse:
		return TeamEconomyResult{Economy: r.Economy}
	case *economyQueries.ListTeamEconomiesResponse:
		return TeamEconomiesResult{Teams: r.Teams}
	default:
		return response
	}
}

// Package server exposes the engine to browsers: a WebSocket endpoint
// pushing every event and snapshot, plus a small JSON action surface.
// The server is a caller of the engine, not part of it; everything here
// goes through State and Dispatch like any other caller.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/mwynn/realmforge/contract"
	"github.com/mwynn/realmforge/engine"
	"github.com/mwynn/realmforge/types"
)

// Server binds an engine and a contract bridge to HTTP.
type Server struct {
	engine *engine.Engine
	bridge *contract.Bridge
	hub    *Hub
}

// New wires the server to the engine. Every engine event is pushed to the
// hub, followed by the snapshot it produced, so clients can render from
// either stream.
func New(e *engine.Engine, bridge *contract.Bridge) *Server {
	s := &Server{
		engine: e,
		bridge: bridge,
		hub:    NewHub(),
	}

	e.Subscribe(func(ev types.Event) {
		s.push("event", ev)
	})

	return s
}

// Run starts the hub loop and serves HTTP on addr until the listener fails.
func (s *Server) Run(addr string) error {
	go s.hub.Run()
	defer s.hub.Close()

	log.Printf("serving on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler returns the route table. Split out from Run for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.hub, w, r)
	})
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/action", s.handleAction)
	mux.HandleFunc("POST /api/contract/quest", s.handleSeekQuest)
	mux.HandleFunc("POST /api/contract/claim", s.handleClaimRewards)
	mux.HandleFunc("POST /api/contract/dungeon", s.handleExploreDungeon)
	return mux
}

func (s *Server) push(msgType string, payload any) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("marshaling %s push: %v", msgType, err)
		return
	}
	s.hub.Broadcast(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.State())
}

// actionRequest is the JSON shape for POST /api/action. Type selects the
// action; the other fields are read as that action needs them.
type actionRequest struct {
	Type       string        `json:"type"`
	Position   *types.Vec3   `json:"position,omitempty"`
	Amount     int           `json:"amount,omitempty"`
	ItemID     string        `json:"item_id,omitempty"`
	Slot       string        `json:"slot,omitempty"`
	QuestID    string        `json:"quest_id,omitempty"`
	RecipeID   string        `json:"recipe_id,omitempty"`
	RegionID   string        `json:"region_id,omitempty"`
	MonsterID  string        `json:"monster_id,omitempty"`
	ResourceID string        `json:"resource_id,omitempty"`
	Stat       string        `json:"stat,omitempty"`
	Name       string        `json:"name,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Item       *types.Item   `json:"item,omitempty"`
	Quest      *types.Quest  `json:"quest,omitempty"`
	Guild      *types.Guild  `json:"guild,omitempty"`
	Region     *types.Region `json:"region,omitempty"`
}

// toAction maps a request to the engine action it names.
func (req actionRequest) toAction() (types.Action, error) {
	switch req.Type {
	case "move_player":
		if req.Position == nil {
			return nil, fmt.Errorf("move_player requires position")
		}
		return types.MovePlayer{Position: *req.Position}, nil
	case "gain_experience":
		return types.GainExperience{Amount: req.Amount}, nil
	case "add_item":
		if req.Item == nil {
			return nil, fmt.Errorf("add_item requires item")
		}
		return types.AddItem{Item: *req.Item}, nil
	case "remove_item":
		return types.RemoveItem{ItemID: req.ItemID}, nil
	case "equip_item":
		return types.EquipItem{ItemID: req.ItemID, Slot: req.Slot}, nil
	case "complete_quest":
		return types.CompleteQuest{QuestID: req.QuestID}, nil
	case "join_guild":
		if req.Guild == nil {
			return nil, fmt.Errorf("join_guild requires guild")
		}
		return types.JoinGuild{Guild: *req.Guild}, nil
	case "craft_item":
		return types.CraftItem{RecipeID: req.RecipeID}, nil
	case "purchase_item":
		return types.PurchaseItem{ItemID: req.ItemID}, nil
	case "contribute_treasury":
		return types.ContributeTreasury{Amount: req.Amount}, nil
	case "travel_to_region":
		return types.TravelToRegion{RegionID: req.RegionID}, nil
	case "defeat_monster":
		return types.DefeatMonster{RegionID: req.RegionID, MonsterID: req.MonsterID}, nil
	case "harvest_resource":
		return types.HarvestResource{RegionID: req.RegionID, ResourceID: req.ResourceID}, nil
	case "add_quest":
		if req.Quest == nil {
			return nil, fmt.Errorf("add_quest requires quest")
		}
		return types.AddQuest{Quest: *req.Quest}, nil
	case "discover_region":
		if req.Region == nil {
			return nil, fmt.Errorf("discover_region requires region")
		}
		return types.DiscoverRegion{Region: *req.Region}, nil
	case "advance_quest":
		return types.AdvanceQuest{QuestID: req.QuestID}, nil
	case "consume_item":
		return types.ConsumeItem{ItemID: req.ItemID}, nil
	case "allocate_skill_point":
		return types.AllocateSkillPoint{Stat: req.Stat}, nil
	case "create_guild":
		return types.CreateGuild{Name: req.Name}, nil
	case "stake_tokens":
		return types.StakeTokens{Amount: req.Amount}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", req.Type)
	}
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	action, err := req.toAction()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	events := s.engine.Dispatch(action)
	if events == nil {
		events = []types.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleSeekQuest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	st := s.engine.State()
	quest, err := s.bridge.SeekQuest(ctx, st.Player.ID, st.Player.Level)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, quest)
}

// dungeonRequest is the JSON shape for POST /api/contract/dungeon. A zero
// seed asks for a fresh one; difficulty defaults to the player's level.
type dungeonRequest struct {
	Seed       int64 `json:"seed,omitempty"`
	Difficulty int   `json:"difficulty,omitempty"`
}

func (s *Server) handleExploreDungeon(w http.ResponseWriter, r *http.Request) {
	var req dungeonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	if req.Difficulty <= 0 {
		req.Difficulty = s.engine.State().Player.Level
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	region, err := s.bridge.ExploreDungeon(ctx, req.Seed, req.Difficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (s *Server) handleClaimRewards(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	amount, err := s.bridge.ClaimStakingRewards(ctx, s.engine.State().Player.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"amount": amount})
}

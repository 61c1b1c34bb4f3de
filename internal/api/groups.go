package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ferndale-labs/lumengroup-core/internal/control"
	"github.com/ferndale-labs/lumengroup-core/internal/grouplight"
)

// groupResponse is the JSON shape for one group.
// Colour and colour temperature are always null: the group is a proxy
// with no colour state of its own.
type groupResponse struct {
	Key              string   `json:"key"`
	Name             string   `json:"name"`
	MemberIDs        []string `json:"member_ids"`
	Available        bool     `json:"available"`
	Capabilities     []string `json:"capabilities"`
	Color            any      `json:"color"`
	ColorTemperature any      `json:"color_temperature"`
}

func toGroupResponse(g *grouplight.Group) groupResponse {
	return groupResponse{
		Key:              g.Key(),
		Name:             g.Name(),
		MemberIDs:        g.MemberIDs(),
		Available:        g.Available(),
		Capabilities:     g.Capabilities(),
		Color:            g.Color(),
		ColorTemperature: g.ColorTemperature(),
	}
}

// turnOnRequest is the request body for POST /groups/{key}/turn-on.
type turnOnRequest struct {
	Brightness *int     `json:"brightness,omitempty"`
	Transition *float64 `json:"transition,omitempty"`
}

// turnOffRequest is the request body for POST /groups/{key}/turn-off.
type turnOffRequest struct {
	Transition *float64 `json:"transition,omitempty"`
}

// setColorRequest is the request body for POST /groups/{key}/color.
// Exactly one of the hue/saturation pair or the RGB triple must be
// supplied; mixing the two forms is rejected.
type setColorRequest struct {
	Hue        *float64 `json:"hue,omitempty"`
	Saturation *float64 `json:"saturation,omitempty"`
	R          *int     `json:"r,omitempty"`
	G          *int     `json:"g,omitempty"`
	B          *int     `json:"b,omitempty"`
}

// setColorTemperatureRequest is the request body for
// POST /groups/{key}/color-temperature.
type setColorTemperatureRequest struct {
	Mireds int `json:"mireds"`
}

// handleListGroups returns all registered groups.
//
// GET /api/v1/groups
func (s *Server) handleListGroups(w http.ResponseWriter, _ *http.Request) {
	groups := s.groups.List()

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"groups": out,
		"count":  len(out),
	})
}

// handleGetGroup returns one group by key.
//
// GET /api/v1/groups/{key}
func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGroup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(g))
}

// handleGroupTurnOn switches every member of the group on.
//
// POST /api/v1/groups/{key}/turn-on
//
// The call blocks until every member has acknowledged; a dispatch
// failure aborts the remaining members and surfaces as 502.
func (s *Server) handleGroupTurnOn(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGroup(w, r)
	if !ok {
		return
	}

	var req turnOnRequest
	if err := decodeBodyAllowEmpty(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Brightness != nil && (*req.Brightness < 0 || *req.Brightness > 255) {
		writeBadRequest(w, "brightness must be between 0 and 255")
		return
	}
	if req.Transition != nil && *req.Transition < 0 {
		writeBadRequest(w, "transition must not be negative")
		return
	}

	started := time.Now()
	err := g.TurnOn(r.Context(), grouplight.TurnOnParams{
		Brightness: req.Brightness,
		Transition: req.Transition,
	})
	s.finishGroupCommand(w, g, "turn_on", started, err)
}

// handleGroupTurnOff switches every member of the group off.
//
// POST /api/v1/groups/{key}/turn-off
func (s *Server) handleGroupTurnOff(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGroup(w, r)
	if !ok {
		return
	}

	var req turnOffRequest
	if err := decodeBodyAllowEmpty(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Transition != nil && *req.Transition < 0 {
		writeBadRequest(w, "transition must not be negative")
		return
	}

	started := time.Now()
	err := g.TurnOff(r.Context(), grouplight.TurnOffParams{Transition: req.Transition})
	s.finishGroupCommand(w, g, "turn_off", started, err)
}

// handleGroupSetColor applies one colour to every member of the group.
//
// POST /api/v1/groups/{key}/color
func (s *Server) handleGroupSetColor(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGroup(w, r)
	if !ok {
		return
	}

	var req setColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	color, err := colorFromRequest(req)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	started := time.Now()
	s.finishGroupCommand(w, g, "set_color", started, g.SetColor(r.Context(), color))
}

// handleGroupSetColorTemperature applies a colour temperature to every
// member of the group.
//
// POST /api/v1/groups/{key}/color-temperature
func (s *Server) handleGroupSetColorTemperature(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGroup(w, r)
	if !ok {
		return
	}

	var req setColorTemperatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Mireds <= 0 {
		writeBadRequest(w, "mireds must be positive")
		return
	}

	started := time.Now()
	s.finishGroupCommand(w, g, "set_color_temperature", started,
		g.SetColorTemperature(r.Context(), req.Mireds))
}

// lookupGroup resolves the {key} path parameter, writing 404 on a miss.
func (s *Server) lookupGroup(w http.ResponseWriter, r *http.Request) (*grouplight.Group, bool) {
	key := chi.URLParam(r, "key")

	g, err := s.groups.Get(key)
	if err != nil {
		if errors.Is(err, grouplight.ErrGroupNotFound) {
			writeNotFound(w, "group not found: "+key)
			return nil, false
		}
		writeInternalError(w, "group lookup failed")
		return nil, false
	}
	return g, true
}

// finishGroupCommand writes the command outcome: 502 for a dispatch
// failure, otherwise the group's fresh state. Commands that reached the
// fanout are recorded for telemetry; colour validation rejections are
// not, since nothing was dispatched.
func (s *Server) finishGroupCommand(w http.ResponseWriter, g *grouplight.Group, command string, started time.Time, err error) {
	if err != nil && errors.Is(err, grouplight.ErrInvalidColor) {
		writeBadRequest(w, err.Error())
		return
	}

	if s.recorder != nil {
		s.recorder.WriteGroupCommand(g.Key(), command, len(g.MemberIDs()), err == nil, time.Since(started))
	}

	if err != nil {
		s.logger.Warn("group command failed",
			"group", g.Key(), "command", command, "error", err)
		if errors.Is(err, control.ErrDispatchFailed) {
			writeDispatchFailure(w, err.Error())
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"group":   toGroupResponse(g),
		"command": command,
		"status":  "completed",
	})
}

// colorFromRequest maps the request body onto one colour form.
func colorFromRequest(req setColorRequest) (grouplight.Color, error) {
	hasHS := req.Hue != nil || req.Saturation != nil
	hasRGB := req.R != nil || req.G != nil || req.B != nil

	switch {
	case hasHS && hasRGB:
		return grouplight.Color{}, errors.New("hue/saturation and r/g/b must not be mixed")
	case hasHS:
		if req.Hue == nil || req.Saturation == nil {
			return grouplight.Color{}, errors.New("hue and saturation are both required")
		}
		if *req.Hue < 0 || *req.Hue >= 360 {
			return grouplight.Color{}, errors.New("hue must be in [0, 360)")
		}
		if *req.Saturation < 0 || *req.Saturation > 100 {
			return grouplight.Color{}, errors.New("saturation must be in [0, 100]")
		}
		return grouplight.HSColor(*req.Hue, *req.Saturation), nil
	case hasRGB:
		if req.R == nil || req.G == nil || req.B == nil {
			return grouplight.Color{}, errors.New("r, g and b are all required")
		}
		for _, c := range []int{*req.R, *req.G, *req.B} {
			if c < 0 || c > 255 {
				return grouplight.Color{}, errors.New("rgb components must be in [0, 255]")
			}
		}
		return grouplight.RGBColor(*req.R, *req.G, *req.B), nil
	default:
		return grouplight.Color{}, errors.New("either hue/saturation or r/g/b is required")
	}
}

// decodeBodyAllowEmpty decodes an optional JSON body. An empty body
// leaves the target at its zero value.
func decodeBodyAllowEmpty(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

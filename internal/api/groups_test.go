package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/ferndale-labs/lumengroup-core/internal/control"
	"github.com/ferndale-labs/lumengroup-core/internal/device"
	"github.com/ferndale-labs/lumengroup-core/internal/grouplight"
)

// apiLookup is a status lookup returning canned member statuses.
type apiLookup struct {
	statuses map[string]device.Status
}

func (m *apiLookup) Lookup(_ context.Context, id string) (device.Status, error) {
	if st, ok := m.statuses[id]; ok {
		return st, nil
	}
	return device.Status{ID: id}, nil
}

// apiSender records dispatched commands and can fail on a chosen device.
type apiSender struct {
	calls  []apiSentCall
	failOn string
}

type apiSentCall struct {
	deviceID string
	command  string
	params   map[string]any
}

func (m *apiSender) Send(_ context.Context, deviceID, command string, params map[string]any) error {
	if m.failOn != "" && deviceID == m.failOn {
		return fmt.Errorf("sending to %s: %w", deviceID, control.ErrDispatchFailed)
	}
	m.calls = append(m.calls, apiSentCall{deviceID: deviceID, command: command, params: params})
	return nil
}

// addTestGroup builds a two-member group and registers it on the server.
func addTestGroup(t *testing.T, srv *Server, key string, sender *apiSender) *grouplight.Group {
	t.Helper()

	lookup := &apiLookup{statuses: map[string]device.Status{
		"light-a": {ID: "light-a", Exists: true, IsLight: true, PowerState: device.PowerOn},
		"light-b": {ID: "light-b", Exists: true, IsLight: true, PowerState: device.PowerOff},
	}}

	g, err := grouplight.NewGroup(context.Background(), key, grouplight.GroupConfig{
		Name:      "Back Hall",
		MemberIDs: []string{"light-a", "light-b"},
		ColorList: []any{"red", []any{0.5, 0.7}},
	}, lookup, sender, nil)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}

	if err := srv.groups.Add(g); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return g
}

func TestListGroups(t *testing.T) {
	srv, _ := testServer(t)
	addTestGroup(t, srv, "back-hall", &apiSender{})
	router := srv.buildRouter()

	req := authedRequest(t, router, http.MethodGet, "/api/v1/groups", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if int(resp["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", resp["count"])
	}
}

func TestGetGroup(t *testing.T) {
	srv, _ := testServer(t)
	addTestGroup(t, srv, "back-hall", &apiSender{})
	router := srv.buildRouter()

	req := authedRequest(t, router, http.MethodGet, "/api/v1/groups/back-hall", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp groupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Key != "back-hall" {
		t.Errorf("key = %q, want %q", resp.Key, "back-hall")
	}
	if resp.Name != "Back Hall" {
		t.Errorf("name = %q, want %q", resp.Name, "Back Hall")
	}
	if !reflect.DeepEqual(resp.MemberIDs, []string{"light-a", "light-b"}) {
		t.Errorf("member_ids = %v, want [light-a light-b]", resp.MemberIDs)
	}
	if !reflect.DeepEqual(resp.Capabilities, []string{"color"}) {
		t.Errorf("capabilities = %v, want [color]", resp.Capabilities)
	}
	if resp.Color != nil {
		t.Errorf("color = %v, want null", resp.Color)
	}
	if resp.ColorTemperature != nil {
		t.Errorf("color_temperature = %v, want null", resp.ColorTemperature)
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authedRequest(t, router, http.MethodGet, "/api/v1/groups/no-such-group", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGroupTurnOn(t *testing.T) {
	srv, _ := testServer(t)
	sender := &apiSender{}
	addTestGroup(t, srv, "back-hall", sender)
	router := srv.buildRouter()

	body := `{"brightness": 128, "transition": 2.5}`
	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/turn-on", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	if len(sender.calls) != 2 {
		t.Fatalf("sent %d commands, want 2", len(sender.calls))
	}
	if sender.calls[0].deviceID != "light-a" || sender.calls[1].deviceID != "light-b" {
		t.Errorf("dispatch order = [%s %s], want [light-a light-b]",
			sender.calls[0].deviceID, sender.calls[1].deviceID)
	}
	if sender.calls[0].command != "turn_on" {
		t.Errorf("command = %q, want turn_on", sender.calls[0].command)
	}
	if sender.calls[0].params["brightness"] != 128 {
		t.Errorf("brightness = %v, want 128", sender.calls[0].params["brightness"])
	}
}

func TestGroupTurnOn_EmptyBody(t *testing.T) {
	srv, _ := testServer(t)
	sender := &apiSender{}
	addTestGroup(t, srv, "back-hall", sender)
	router := srv.buildRouter()

	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/turn-on", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	if len(sender.calls) != 2 {
		t.Fatalf("sent %d commands, want 2", len(sender.calls))
	}
	if sender.calls[0].params != nil {
		t.Errorf("params = %v, want nil for bare turn-on", sender.calls[0].params)
	}
}

func TestGroupTurnOn_InvalidBrightness(t *testing.T) {
	srv, _ := testServer(t)
	addTestGroup(t, srv, "back-hall", &apiSender{})
	router := srv.buildRouter()

	body := `{"brightness": 300}`
	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/turn-on", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGroupTurnOn_DispatchFailure(t *testing.T) {
	srv, _ := testServer(t)
	sender := &apiSender{failOn: "light-a"}
	addTestGroup(t, srv, "back-hall", sender)
	router := srv.buildRouter()

	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/turn-on", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadGateway, w.Body.String())
	}

	// The failing member aborts the fanout before the second member.
	if len(sender.calls) != 0 {
		t.Errorf("sent %d commands after failure, want 0", len(sender.calls))
	}
}

func TestGroupTurnOff(t *testing.T) {
	srv, _ := testServer(t)
	sender := &apiSender{}
	addTestGroup(t, srv, "back-hall", sender)
	router := srv.buildRouter()

	body := `{"transition": 1.5}`
	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/turn-off", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	if len(sender.calls) != 2 {
		t.Fatalf("sent %d commands, want 2", len(sender.calls))
	}
	if sender.calls[0].command != "turn_off" {
		t.Errorf("command = %q, want turn_off", sender.calls[0].command)
	}
	if sender.calls[0].params["transition"] != 1.5 {
		t.Errorf("transition = %v, want 1.5", sender.calls[0].params["transition"])
	}
}

func TestGroupSetColor(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantParam  string // param key expected on the dispatched command
	}{
		{
			name:       "hue and saturation",
			body:       `{"hue": 120, "saturation": 80}`,
			wantStatus: http.StatusOK,
			wantParam:  "hs_color",
		},
		{
			name:       "rgb triple",
			body:       `{"r": 255, "g": 160, "b": 0}`,
			wantStatus: http.StatusOK,
			wantParam:  "rgb_color",
		},
		{
			name:       "mixed forms rejected",
			body:       `{"hue": 120, "saturation": 80, "r": 255, "g": 160, "b": 0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "neither form rejected",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "partial hs rejected",
			body:       `{"hue": 120}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "partial rgb rejected",
			body:       `{"r": 255, "g": 160}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "hue out of range",
			body:       `{"hue": 400, "saturation": 50}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rgb component out of range",
			body:       `{"r": 300, "g": 0, "b": 0}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := testServer(t)
			sender := &apiSender{}
			addTestGroup(t, srv, "back-hall", sender)
			router := srv.buildRouter()

			req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/color", tt.body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus != http.StatusOK {
				if len(sender.calls) != 0 {
					t.Errorf("sent %d commands for rejected request, want 0", len(sender.calls))
				}
				return
			}

			if len(sender.calls) != 2 {
				t.Fatalf("sent %d commands, want 2", len(sender.calls))
			}
			call := sender.calls[0]
			if call.command != "turn_on" {
				t.Errorf("command = %q, want turn_on", call.command)
			}
			if _, ok := call.params[tt.wantParam]; !ok {
				t.Errorf("params = %v, want key %q", call.params, tt.wantParam)
			}
			// The two colour forms are mutually exclusive on the wire.
			if _, ok := call.params["hs_color"]; ok {
				if _, both := call.params["rgb_color"]; both {
					t.Error("command carries both hs_color and rgb_color")
				}
			}
		})
	}
}

func TestGroupSetColorTemperature(t *testing.T) {
	srv, _ := testServer(t)
	sender := &apiSender{}
	addTestGroup(t, srv, "back-hall", sender)
	router := srv.buildRouter()

	body := `{"mireds": 370}`
	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/color-temperature", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	if len(sender.calls) != 2 {
		t.Fatalf("sent %d commands, want 2", len(sender.calls))
	}
	call := sender.calls[0]
	if call.command != "turn_on" {
		t.Errorf("command = %q, want turn_on", call.command)
	}
	if call.params["color_temp"] != 370 {
		t.Errorf("color_temp = %v, want 370", call.params["color_temp"])
	}
}

func TestGroupSetColorTemperature_Invalid(t *testing.T) {
	srv, _ := testServer(t)
	addTestGroup(t, srv, "back-hall", &apiSender{})
	router := srv.buildRouter()

	body := `{"mireds": 0}`
	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/color-temperature", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// apiRecorder captures group command telemetry writes.
type apiRecorder struct {
	records []apiRecordedCommand
}

type apiRecordedCommand struct {
	group    string
	command  string
	members  int
	success  bool
	duration time.Duration
}

func (r *apiRecorder) WriteGroupCommand(groupKey, command string, memberCount int, success bool, duration time.Duration) {
	r.records = append(r.records, apiRecordedCommand{
		group: groupKey, command: command, members: memberCount,
		success: success, duration: duration,
	})
}

func TestGroupCommand_TelemetryRecorded(t *testing.T) {
	srv, _ := testServer(t)
	rec := &apiRecorder{}
	srv.recorder = rec
	addTestGroup(t, srv, "back-hall", &apiSender{})
	router := srv.buildRouter()

	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/turn-on", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	if len(rec.records) != 1 {
		t.Fatalf("recorded %d commands, want 1", len(rec.records))
	}
	got := rec.records[0]
	if got.group != "back-hall" || got.command != "turn_on" {
		t.Errorf("recorded %s/%s, want back-hall/turn_on", got.group, got.command)
	}
	if got.members != 2 {
		t.Errorf("members = %d, want 2", got.members)
	}
	if !got.success {
		t.Error("success = false, want true")
	}
	if got.duration < 0 {
		t.Errorf("duration = %v, want >= 0", got.duration)
	}
}

func TestGroupCommand_TelemetryRecordsDispatchFailure(t *testing.T) {
	srv, _ := testServer(t)
	rec := &apiRecorder{}
	srv.recorder = rec
	addTestGroup(t, srv, "back-hall", &apiSender{failOn: "light-a"})
	router := srv.buildRouter()

	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/turn-off", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}

	if len(rec.records) != 1 {
		t.Fatalf("recorded %d commands, want 1", len(rec.records))
	}
	if rec.records[0].success {
		t.Error("success = true, want false for a dispatch failure")
	}
}

func TestGroupCommand_TelemetrySkipsValidationRejections(t *testing.T) {
	srv, _ := testServer(t)
	rec := &apiRecorder{}
	srv.recorder = rec
	addTestGroup(t, srv, "back-hall", &apiSender{})
	router := srv.buildRouter()

	body := `{"brightness": 300}`
	req := authedRequest(t, router, http.MethodPost, "/api/v1/groups/back-hall/turn-on", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(rec.records) != 0 {
		t.Errorf("recorded %d commands, want 0 for a rejected request", len(rec.records))
	}
}

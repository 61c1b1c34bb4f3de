package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferndale-labs/lumengroup-core/internal/device"
)

// createDeviceRequest is the request body for POST /devices.
// ID and slug are generated when omitted.
type createDeviceRequest struct {
	ID   string      `json:"id,omitempty"`
	Name string      `json:"name"`
	Kind device.Kind `json:"kind"`
}

// handleListDevices returns the full device catalogue.
//
// GET /api/v1/devices
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.registry.ListDevices(r.Context())
	if err != nil {
		s.logger.Error("device list failed", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDevice returns one device by ID.
//
// GET /api/v1/devices/{id}
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.registry.GetDevice(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		s.logger.Error("device lookup failed", "device", id, "error", err)
		writeInternalError(w, "device lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// handleCreateDevice adds a device to the catalogue.
//
// POST /api/v1/devices
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d := &device.Device{
		ID:   req.ID,
		Name: req.Name,
		Kind: req.Kind,
	}

	if err := s.registry.CreateDevice(r.Context(), d); err != nil {
		switch {
		case errors.Is(err, device.ErrDeviceExists):
			writeConflict(w, "device already exists")
		case errors.Is(err, device.ErrInvalidDevice),
			errors.Is(err, device.ErrInvalidName),
			errors.Is(err, device.ErrInvalidSlug),
			errors.Is(err, device.ErrInvalidKind):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("device create failed", "error", err)
			writeInternalError(w, "failed to create device")
		}
		return
	}

	s.logger.Info("device created", "device", d.ID, "kind", d.Kind)
	writeJSON(w, http.StatusCreated, d)
}

// handleDeleteDevice removes a device from the catalogue.
//
// DELETE /api/v1/devices/{id}
//
// Groups referencing the device keep running; the member is simply
// skipped at the next service restart.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.registry.DeleteDevice(r.Context(), id); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		s.logger.Error("device delete failed", "device", id, "error", err)
		writeInternalError(w, "failed to delete device")
		return
	}

	s.logger.Info("device deleted", "device", id)
	w.WriteHeader(http.StatusNoContent)
}

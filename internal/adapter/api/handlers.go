package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang-ethernetd/internal/adapter/agent"
	"golang-ethernetd/internal/ethernet"
	"golang-ethernetd/internal/pkg/looper"
	"golang-ethernetd/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

type linkStateRequest struct {
	Up *bool `json:"up"`
}

type updateInterfaceRequest struct {
	IPConfiguration types.IPConfiguration      `json:"ip_configuration"`
	Capabilities    *types.NetworkCapabilities `json:"capabilities,omitempty"`
}

type completionResponse struct {
	Network *types.Network `json:"network,omitempty"`
}

type addRequestResponse struct {
	ID uint64 `json:"id"`
}

func (s *Server) listInterfaces(w http.ResponseWriter, r *http.Request) {
	infos, err := s.svc.Interfaces(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) setLinkState(w http.ResponseWriter, r *http.Request) {
	var req linkStateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Up == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("missing field \"up\""))
		return
	}

	listener := ethernet.NewFutureListener()
	s.svc.UpdateInterfaceLinkState(r.PathValue("name"), *req.Up, listener)
	s.waitAndRespond(w, r, listener)
}

func (s *Server) updateInterface(w http.ResponseWriter, r *http.Request) {
	var req updateInterfaceRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.IPConfiguration.Assignment == "" {
		req.IPConfiguration.Assignment = types.IPAssignmentDHCP
	}
	if err := req.IPConfiguration.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	caps := types.DefaultEthernetCapabilities()
	if req.Capabilities != nil {
		if len(req.Capabilities.Transports) == 0 {
			s.writeError(w, http.StatusBadRequest, errors.New("capabilities must declare at least one transport"))
			return
		}
		caps = *req.Capabilities
	}

	listener := ethernet.NewFutureListener()
	s.svc.UpdateInterface(r.PathValue("name"), req.IPConfiguration, caps, listener)
	s.waitAndRespond(w, r, listener)
}

func (s *Server) waitAndRespond(w http.ResponseWriter, r *http.Request, listener *ethernet.FutureListener) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	network, err := listener.Wait(ctx)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, completionResponse{Network: network})
}

func (s *Server) listNetworks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Networks())
}

func (s *Server) listRequests(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Requests())
}

func (s *Server) addRequest(w http.ResponseWriter, r *http.Request) {
	var req types.NetworkRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, addRequestResponse{ID: s.registry.AddRequest(req)})
}

func (s *Server) removeRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request id %q", r.PathValue("id")))
		return
	}
	if err := s.registry.RemoveRequest(id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ethernet.ErrNotConfigured), errors.Is(err, agent.ErrUnknownRequest):
		return http.StatusNotFound
	case errors.Is(err, ethernet.ErrNoChanges), errors.Is(err, ethernet.ErrAborted):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, looper.ErrQuit):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("Request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

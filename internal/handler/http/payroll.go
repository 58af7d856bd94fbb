package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

type PayrunHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Compute(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListLines(w http.ResponseWriter, r *http.Request)

	// SSE
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
}

// EventSubscriber is the subscribe side of the progress hub.
type EventSubscriber interface {
	Subscribe(topic string) (<-chan sse.Event, func())
}

type payrunHandlerImpl struct {
	payrunService payroll.PayrunService
	jwtService    jwt.Service
	events        EventSubscriber
	keepalive     time.Duration
}

func NewPayrunHandler(payrunService payroll.PayrunService, jwtService jwt.Service, events EventSubscriber) PayrunHandler {
	return &payrunHandlerImpl{
		payrunService: payrunService,
		jwtService:    jwtService,
		events:        events,
		keepalive:     30 * time.Second,
	}
}

// Create implements PayrunHandler.
func (h *payrunHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var req payroll.CreatePayrunRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	run, err := h.payrunService.CreatePayrun(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payrun created", payroll.NewPayrunResponse(run))
}

// Compute implements PayrunHandler.
func (h *payrunHandlerImpl) Compute(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.payrunService.ComputeAll(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("Computed %d lines, %d failed", result.Computed, result.Failed), result)
}

// UpdateStatus implements PayrunHandler.
func (h *payrunHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var req payroll.UpdatePayrunStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	run, err := h.payrunService.UpdateStatus(r.Context(), id, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayrunResponse(run))
}

// Get implements PayrunHandler.
func (h *payrunHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	run, err := h.payrunService.GetPayrun(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayrunResponse(run))
}

// List implements PayrunHandler.
func (h *payrunHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var filter payroll.PayrunFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := payroll.PayrunStatus(s)
		filter.Status = &status
	}

	var err error
	if filter.Page, err = getIntQueryParam(r, "page", 1); err != nil {
		response.HandleError(w, err)
		return
	}
	if filter.Limit, err = getIntQueryParam(r, "limit", 20); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	runs, total, err := h.payrunService.ListPayruns(r.Context(), id, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, payroll.NewPayrunResponses(runs), response.PageMeta(filter.Page, filter.Limit, total))
}

// ListLines implements PayrunHandler.
func (h *payrunHandlerImpl) ListLines(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	lines, err := h.payrunService.ListLines(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, payroll.NewLineResponses(lines), &response.Meta{TotalItems: int64(len(lines))})
}

type sseTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// GetSSEToken generates a short-lived token for the progress stream
func (h *payrunHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(id)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, sseTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Events streams compute progress of one payrun. The stream ends after the
// run finishes or aborts.
func (h *payrunHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	id, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}
	if err := id.Require(identity.PermissionPayrunView); err != nil {
		response.HandleError(w, err)
		return
	}

	payrunID := chi.URLParam(r, "id")
	if _, err := h.payrunService.GetPayrun(r.Context(), id, payrunID); err != nil {
		response.HandleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	events, cleanup := h.events.Subscribe(payrunID)
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: connected\ndata: {\"payrun_id\":%q}\n\n", payrunID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()
			if event.Final {
				return
			}

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

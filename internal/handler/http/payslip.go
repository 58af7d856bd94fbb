package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayslipHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	Publish(w http.ResponseWriter, r *http.Request)
}

type payslipHandlerImpl struct {
	payslipService payslip.PayslipService
	contentType    string
}

func NewPayslipHandler(payslipService payslip.PayslipService, contentType string) PayslipHandler {
	return &payslipHandlerImpl{
		payslipService: payslipService,
		contentType:    contentType,
	}
}

// Get implements PayslipHandler.
func (h *payslipHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	doc, err := h.payslipService.Get(r.Context(), id, chi.URLParam(r, "id"), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip.NewDocumentResponse(doc))
}

// Download implements PayslipHandler.
func (h *payslipHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	// Render fully before writing so a failure still gets a JSON error.
	var buf bytes.Buffer
	filename, err := h.payslipService.Render(r.Context(), id, chi.URLParam(r, "id"), chi.URLParam(r, "employeeID"), &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", h.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Publish implements PayslipHandler.
func (h *payslipHandlerImpl) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.payslipService.Publish(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("Published %d payslips", result.Published), result)
}

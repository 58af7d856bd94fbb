package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/report"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	ExportRegister(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// Register implements ReportHandler.
func (h *reportHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	register, err := h.reportService.PayrollRegister(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, register)
}

// ExportRegister implements ReportHandler.
func (h *reportHandlerImpl) ExportRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := h.reportService.ExportPayrollRegister(r.Context(), id, chi.URLParam(r, "id"), &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListEmployee(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	MarkStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, now func() time.Time) AttendanceHandler {
	if now == nil {
		now = time.Now
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		now:               now,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckIn(r.Context(), id, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", attendance.NewRecordResponse(record))
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckOut(r.Context(), id, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", attendance.NewRecordResponse(record))
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	status, err := h.attendanceService.TodayStatus(r.Context(), id, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// ListMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}
	if id.EmployeeID == "" {
		response.HandleError(w, identity.ErrNoEmployee)
		return
	}
	h.listRange(w, r, id, id.EmployeeID)
}

// ListEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}
	h.listRange(w, r, id, chi.URLParam(r, "employeeID"))
}

func (h *attendanceHandlerImpl) listRange(w http.ResponseWriter, r *http.Request, id identity.Identity, employeeID string) {
	start, end, errs := validator.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), h.now())
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	records, err := h.attendanceService.GetRange(r.Context(), id, employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, attendance.NewRecordResponses(records), &response.Meta{TotalItems: int64(len(records))})
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	start, end, errs := validator.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), h.now())
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	summary, err := h.attendanceService.Summary(r.Context(), id, chi.URLParam(r, "employeeID"), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// MarkStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var req attendance.MarkStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.attendanceService.MarkStatus(r.Context(), id, chi.URLParam(r, "employeeID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance status recorded", attendance.NewRecordResponse(record))
}

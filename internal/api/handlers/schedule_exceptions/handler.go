// Package schedule_exceptions обрабатывает датированные исключения из расписаний:
// список за период, создание/обновление и удаление.
package schedule_exceptions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeutil"
)

const (
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateRange   = "некорректный диапазон дат, ожидается from и to в формате YYYY-MM-DD"
	msgInvalidException   = "некорректное исключение из расписания"
	msgExceptionNotFound  = "исключение не найдено"
)

type Handler struct {
	service  ScheduleService
	location *time.Location
	logger   Logger
}

func NewHandler(service ScheduleService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// HandleList GET /api/v1/staff/{staffId}/exceptions?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.staffID(w, r, "GET")
	if !ok {
		return
	}

	from, err := timeutil.ParseDate(r.URL.Query().Get("from"), h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}
	to, err := timeutil.ParseDate(r.URL.Query().Get("to"), h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	result, err := h.service.GetExceptions(r.Context(), staffID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/exceptions - Invalid range: staff_id=%d", staffID)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("GET /staff/{id}/exceptions - Failed: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/exceptions - Returned %d exceptions: staff_id=%d",
		len(result.Exceptions), staffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpsert PUT /api/v1/staff/{staffId}/exceptions
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.staffID(w, r, "PUT")
	if !ok {
		return
	}

	var req models.UpsertExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /staff/{id}/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertException(r.Context(), staffID, &req, h.location)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /staff/{id}/exceptions - Invalid exception: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidException)

		default:
			h.logger.Error("PUT /staff/{id}/exceptions - Failed: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /staff/{id}/exceptions - Exception saved: staff_id=%d, date=%s", staffID, result.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/staff/{staffId}/exceptions/{date}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.staffID(w, r, "DELETE")
	if !ok {
		return
	}

	dateStr := mux.Vars(r)["date"]

	err := h.service.DeleteException(r.Context(), staffID, dateStr, h.location)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrExceptionNotFound):
			h.logger.Warn("DELETE /staff/{id}/exceptions/{date} - Not found: staff_id=%d, date=%s", staffID, dateStr)
			handlers.RespondNotFound(w, msgExceptionNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /staff/{id}/exceptions/{date} - Invalid date %q: staff_id=%d", dateStr, staffID)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("DELETE /staff/{id}/exceptions/{date} - Failed: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /staff/{id}/exceptions/{date} - Exception deleted: staff_id=%d, date=%s", staffID, dateStr)
	handlers.RespondNoContent(w)
}

func (h *Handler) staffID(w http.ResponseWriter, r *http.Request, method string) (int64, bool) {
	staffID, err := strconv.ParseInt(mux.Vars(r)["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s /staff/{id}/exceptions - Invalid staff ID: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return 0, false
	}
	return staffID, true
}

package get_resource_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getResourceAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_resource_availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeutil"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime      = "некорректный формат времени, ожидается HH:MM"
	msgMissingParams    = "отсутствуют обязательные параметры date и startTime"
	msgServiceNotFound  = "услуга не найдена"
	msgInvalidInput     = "некорректные данные запроса"
)

type Handler struct {
	useCase  GetResourceAvailabilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetResourceAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/resource-availability?date=YYYY-MM-DD&startTime=HH:MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/resource-availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	timeStr := r.URL.Query().Get("startTime")
	if dateStr == "" || timeStr == "" {
		h.logger.Warn("GET /services/{id}/resource-availability - Missing parameters: service_id=%d", serviceID)
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	date, err := timeutil.ParseDate(dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /services/{id}/resource-availability - Invalid date %q: service_id=%d", dateStr, serviceID)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	startTime, err := types.NewTimeStringFromString(timeStr)
	if err != nil {
		h.logger.Warn("GET /services/{id}/resource-availability - Invalid time %q: service_id=%d", timeStr, serviceID)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getResourceAvailability.Request{
		ServiceID: serviceID,
		Date:      date,
		StartTime: startTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, getResourceAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/resource-availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getResourceAvailability.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/resource-availability - Invalid input: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /services/{id}/resource-availability - Failed: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/resource-availability - Returned %d resources: service_id=%d",
		len(result.Resources), serviceID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

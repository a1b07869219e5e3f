package models

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при дне недели вне диапазона 0..6
	ErrInvalidWeekday = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")

	// ErrInvalidTimeRange возвращается при некорректном интервале start/end
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// Request модели

// WeeklyScheduleDay строка недельного расписания в запросе/ответе
type WeeklyScheduleDay struct {
	Weekday   int    `json:"weekday"` // 0=воскресенье .. 6=суббота
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}

// SaveWeeklyScheduleRequest запрос на полную замену недельного расписания
type SaveWeeklyScheduleRequest struct {
	Days []WeeklyScheduleDay `json:"days"`
}

// ToDomainSchedules конвертирует запрос в domain модели с валидацией
func (r *SaveWeeklyScheduleRequest) ToDomainSchedules(staffID int64) ([]*domain.StaffSchedule, error) {
	seen := make(map[int]struct{}, len(r.Days))
	schedules := make([]*domain.StaffSchedule, 0, len(r.Days))

	for _, day := range r.Days {
		if day.Weekday < 0 || day.Weekday >= domain.WeekdaysCount {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidWeekday, day.Weekday)
		}
		if _, dup := seen[day.Weekday]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %d", ErrInvalidWeekday, day.Weekday)
		}
		seen[day.Weekday] = struct{}{}

		start, err := types.NewTimeStringFromString(day.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: startTime %q", ErrInvalidTimeRange, day.StartTime)
		}
		end, err := types.NewTimeStringFromString(day.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: endTime %q", ErrInvalidTimeRange, day.EndTime)
		}
		if !start.IsBefore(end) {
			return nil, fmt.Errorf("%w: %s >= %s", ErrInvalidTimeRange, start, end)
		}

		schedules = append(schedules, &domain.StaffSchedule{
			StaffID:   staffID,
			Weekday:   day.Weekday,
			StartTime: start,
			EndTime:   end,
			IsActive:  day.IsActive,
		})
	}

	return schedules, nil
}

// UpsertExceptionRequest запрос на создание/обновление исключения на дату
type UpsertExceptionRequest struct {
	Date      string  `json:"date"` // "2026-09-15"
	IsDayOff  bool    `json:"isDayOff"`
	StartTime *string `json:"startTime,omitempty"` // Обязательно, если не выходной
	EndTime   *string `json:"endTime,omitempty"`
}

// Response модели

// WeeklyScheduleResponse ответ с недельным расписанием сотрудника
type WeeklyScheduleResponse struct {
	StaffID int64               `json:"staffId"`
	Days    []WeeklyScheduleDay `json:"days"`
}

// FromDomainSchedules конвертирует domain модели в DTO
func FromDomainSchedules(staffID int64, schedules []*domain.StaffSchedule) *WeeklyScheduleResponse {
	resp := &WeeklyScheduleResponse{
		StaffID: staffID,
		Days:    make([]WeeklyScheduleDay, 0, len(schedules)),
	}

	for _, s := range schedules {
		resp.Days = append(resp.Days, WeeklyScheduleDay{
			Weekday:   s.Weekday,
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			IsActive:  s.IsActive,
		})
	}

	return resp
}

// ExceptionResponse ответ с исключением из расписания
type ExceptionResponse struct {
	ID        int64   `json:"id"`
	StaffID   int64   `json:"staffId"`
	Date      string  `json:"date"`
	IsDayOff  bool    `json:"isDayOff"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

// ExceptionListResponse ответ со списком исключений
type ExceptionListResponse struct {
	StaffID    int64               `json:"staffId"`
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// FromDomainException конвертирует domain модель в DTO
func FromDomainException(exc *domain.ScheduleException) *ExceptionResponse {
	if exc == nil {
		return nil
	}

	resp := &ExceptionResponse{
		ID:       exc.ID,
		StaffID:  exc.StaffID,
		Date:     exc.Date.Format(domain.DateFormat),
		IsDayOff: exc.IsDayOff,
	}

	if exc.StartTime != nil {
		s := exc.StartTime.String()
		resp.StartTime = &s
	}
	if exc.EndTime != nil {
		e := exc.EndTime.String()
		resp.EndTime = &e
	}

	return resp
}

// FromDomainExceptionList конвертирует список domain моделей в DTO
func FromDomainExceptionList(staffID int64, exceptions []*domain.ScheduleException) *ExceptionListResponse {
	resp := &ExceptionListResponse{
		StaffID:    staffID,
		Exceptions: make([]ExceptionResponse, 0, len(exceptions)),
	}

	for _, exc := range exceptions {
		if excResp := FromDomainException(exc); excResp != nil {
			resp.Exceptions = append(resp.Exceptions, *excResp)
		}
	}

	return resp
}

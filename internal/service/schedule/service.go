package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeutil"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис управления расписаниями сотрудников
// Изменения расписания влияют только на будущие расчёты доступности,
// уже созданные записи не пересматриваются
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetWeekly получает недельное расписание сотрудника
func (s *Service) GetWeekly(ctx context.Context, staffID int64) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("GetWeekly: fetching schedule for staff=%d", staffID)

	schedules, err := s.scheduleRepo.GetWeekly(ctx, staffID)
	if err != nil {
		s.logger.Error("GetWeekly: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetWeekly - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedules(staffID, schedules), nil
}

// SaveWeekly атомарно заменяет недельное расписание сотрудника
func (s *Service) SaveWeekly(ctx context.Context, staffID int64, req *models.SaveWeeklyScheduleRequest) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("SaveWeekly: saving schedule for staff=%d, days=%d", staffID, len(req.Days))

	schedules, err := req.ToDomainSchedules(staffID)
	if err != nil {
		s.logger.Warn("SaveWeekly: invalid schedule for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// delete+insert под одной транзакцией, иначе сбой оставит частичное расписание
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.SaveWeekly(txCtx, staffID, schedules)
	})
	if err != nil {
		s.logger.Error("SaveWeekly: failed to save schedule for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: SaveWeekly - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("SaveWeekly: successfully saved schedule for staff=%d", staffID)
	return s.GetWeekly(ctx, staffID)
}

// GetExceptions получает исключения сотрудника в диапазоне дат
func (s *Service) GetExceptions(ctx context.Context, staffID int64, from, to time.Time) (*models.ExceptionListResponse, error) {
	s.logger.Info("GetExceptions: fetching exceptions for staff=%d, from=%s, to=%s",
		staffID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	if to.Before(from) {
		s.logger.Warn("GetExceptions: invalid range for staff=%d", staffID)
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}

	exceptions, err := s.scheduleRepo.GetExceptions(ctx, staffID, from, to)
	if err != nil {
		s.logger.Error("GetExceptions: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetExceptions - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainExceptionList(staffID, exceptions), nil
}

// UpsertException создает или обновляет исключение сотрудника на дату
// Выходной хранится без часов; особые часы требуют валидного интервала
func (s *Service) UpsertException(ctx context.Context, staffID int64, req *models.UpsertExceptionRequest, loc *time.Location) (*models.ExceptionResponse, error) {
	s.logger.Info("UpsertException: staff=%d, date=%s, dayOff=%v", staffID, req.Date, req.IsDayOff)

	date, err := timeutil.ParseDate(req.Date, loc)
	if err != nil {
		s.logger.Warn("UpsertException: invalid date %q for staff=%d", req.Date, staffID)
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	exc := &domain.ScheduleException{
		StaffID:  staffID,
		Date:     date,
		IsDayOff: req.IsDayOff,
	}

	if !req.IsDayOff {
		if req.StartTime == nil || req.EndTime == nil {
			s.logger.Warn("UpsertException: missing hours for staff=%d on %s", staffID, req.Date)
			return nil, fmt.Errorf("%w: startTime and endTime are required unless isDayOff", ErrInvalidInput)
		}

		start, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid startTime", ErrInvalidInput)
		}
		end, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid endTime", ErrInvalidInput)
		}
		if !start.IsBefore(end) {
			return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}

		exc.StartTime = &start
		exc.EndTime = &end
	}

	saved, err := s.scheduleRepo.UpsertException(ctx, exc)
	if err != nil {
		s.logger.Error("UpsertException: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: UpsertException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertException: saved exception id=%d for staff=%d", saved.ID, staffID)
	return models.FromDomainException(saved), nil
}

// DeleteException удаляет исключение сотрудника на дату
func (s *Service) DeleteException(ctx context.Context, staffID int64, dateStr string, loc *time.Location) error {
	s.logger.Info("DeleteException: staff=%d, date=%s", staffID, dateStr)

	date, err := timeutil.ParseDate(dateStr, loc)
	if err != nil {
		s.logger.Warn("DeleteException: invalid date %q for staff=%d", dateStr, staffID)
		return fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	if err := s.scheduleRepo.DeleteException(ctx, staffID, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteException: exception not found for staff=%d on %s", staffID, dateStr)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteException: repository error for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteException: deleted exception for staff=%d on %s", staffID, dateStr)
	return nil
}

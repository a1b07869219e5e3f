package get_resource_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeutil"
)

// UseCase use case просмотра занятости ресурсов услуги на конкретный слот
// Операторский эндпоинт: показывает, куда именно легла бы запись
// и на каких ресурсах ёмкость уже исчерпана
type UseCase struct {
	serviceRepo  ServiceRepository
	resourceRepo ResourceRepository
	scheduleRepo ScheduleRepository
	policy       Policy
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	resourceRepo ResourceRepository,
	scheduleRepo ScheduleRepository,
	policy Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		resourceRepo: resourceRepo,
		scheduleRepo: scheduleRepo,
		policy:       policy,
		logger:       logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetResourceAvailability: validation failed: %v", err)
		return nil, err
	}

	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetResourceAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetResourceAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !svc.IsActive {
		uc.logger.Warn("GetResourceAvailability: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	end, err := req.StartTime.AddMinutes(svc.OccupiedSpanMinutes())
	if err != nil {
		return nil, fmt.Errorf("%w: slot crosses midnight", ErrInvalidInput)
	}

	resources, err := uc.resourceRepo.GetEligibleByService(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetResourceAvailability: failed to get eligible resources: %v", err)
		return nil, fmt.Errorf("%w: failed to get eligible resources: %v", ErrInternal, err)
	}

	blocked, err := uc.resourceRepo.GetBlockedResources(ctx, req.Date, req.StartTime, end,
		domain.BlockingStatuses(uc.policy.CountPendingHolds))
	if err != nil {
		uc.logger.Error("GetResourceAvailability: failed to get blocked resources: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked resources: %v", ErrInternal, err)
	}

	weekday := timeutil.WeekdayIndex(req.Date)

	type staffWindow struct {
		window domain.WorkingWindow
		ok     bool
	}
	cache := make(map[int64]staffWindow)

	loads := make([]ResourceLoad, 0, len(resources))

	for _, res := range resources {
		sw, found := cache[res.StaffID]
		if !found {
			weekly, err := uc.scheduleRepo.GetWeekly(ctx, res.StaffID)
			if err != nil {
				uc.logger.Error("GetResourceAvailability: failed to get weekly schedule for staff id=%d: %v", res.StaffID, err)
				return nil, fmt.Errorf("%w: failed to get weekly schedule: %v", ErrInternal, err)
			}

			var weekdayRow *domain.StaffSchedule
			for _, row := range weekly {
				if row.Weekday == weekday {
					weekdayRow = row
					break
				}
			}

			exception, err := uc.scheduleRepo.GetExceptionByDate(ctx, res.StaffID, req.Date)
			if err != nil {
				uc.logger.Error("GetResourceAvailability: failed to get exception for staff id=%d: %v", res.StaffID, err)
				return nil, fmt.Errorf("%w: failed to get schedule exception: %v", ErrInternal, err)
			}

			window, ok := domain.ResolveWindow(weekdayRow, exception)
			sw = staffWindow{window: window, ok: ok}
			cache[res.StaffID] = sw
		}

		inWindow := sw.ok &&
			!req.StartTime.IsBefore(sw.window.Start) &&
			!end.IsAfter(sw.window.End)

		used := blocked[res.ID]
		free := res.Capacity - used
		if free < 0 {
			free = 0
		}

		loads = append(loads, ResourceLoad{
			ResourceID: res.ID,
			Name:       res.Name,
			Capacity:   res.Capacity,
			Used:       used,
			Free:       free,
			InWindow:   inWindow,
		})
	}

	return &Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   end,
		Resources: loads,
	}, nil
}

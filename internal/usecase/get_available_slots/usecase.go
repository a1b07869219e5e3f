package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeutil"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case получения доступных слотов для записи
//
// Расчёт выполняется по неблокирующему снапшоту хранилища: к моменту коммита
// данные могут устареть, поэтому create_booking повторяет проверку занятости
type UseCase struct {
	serviceRepo  ServiceRepository
	resourceRepo ResourceRepository
	scheduleRepo ScheduleRepository
	policy       Policy
	timeProvider TimeProvider
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
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	emptyResponse := &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Slots:     []Slot{},
	}

	// 2. Дата в прошлом - слотов нет (не ошибка)
	now := uc.timeProvider.Now().In(uc.policy.Location)
	if timeutil.IsDateInPast(req.Date, now) {
		return emptyResponse, nil
	}

	// 3. Получаем услугу
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !svc.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем подходящие ресурсы
	// Услуга без активных подходящих ресурсов даёт пустой список, не ошибку
	resources, err := uc.resourceRepo.GetEligibleByService(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get eligible resources for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get eligible resources: %v", ErrInternal, err)
	}

	if len(resources) == 0 {
		uc.logger.Info("GetAvailableSlots: no eligible resources for service id=%d", req.ServiceID)
		return emptyResponse, nil
	}

	// 5. Вычисляем эффективные рабочие окна сотрудников ресурсов
	windows, err := uc.resolveWindows(ctx, resources, req)
	if err != nil {
		return nil, err
	}

	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: no working windows for service id=%d on %s",
			req.ServiceID, req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 6. Получаем занятость ресурсов на дату одним снапшотом
	occupancy, err := uc.resourceRepo.GetDayOccupancy(ctx, req.Date,
		domain.BlockingStatuses(uc.policy.CountPendingHolds))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get day occupancy: %v", err)
		return nil, fmt.Errorf("%w: failed to get day occupancy: %v", ErrInternal, err)
	}

	// 7. Минимальное допустимое время начала при запросе на сегодня
	minStart, tooLate := uc.minStartForDate(req.Date, now)
	if tooLate {
		return emptyResponse, nil
	}

	// 8. Генерируем и фильтруем слоты
	slots := computeSlots(
		windows,
		occupancy,
		uc.policy.SlotStepMinutes,
		svc.OccupiedSpanMinutes(),
		svc.DurationMinutes,
		minStart,
	)

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Slots:     slots,
	}, nil
}

// resolveWindows вычисляет эффективное рабочее окно для каждого ресурса:
// датированное исключение сотрудника перекрывает его недельное расписание
// Ресурсы без окна (выходной, нет строки расписания) отбрасываются
func (uc *UseCase) resolveWindows(ctx context.Context, resources []*domain.Resource, req *Request) ([]resourceWindow, error) {
	weekday := timeutil.WeekdayIndex(req.Date)

	type staffWindow struct {
		window domain.WorkingWindow
		ok     bool
	}
	cache := make(map[int64]staffWindow)

	windows := make([]resourceWindow, 0, len(resources))

	for _, res := range resources {
		sw, found := cache[res.StaffID]
		if !found {
			weekly, err := uc.scheduleRepo.GetWeekly(ctx, res.StaffID)
			if err != nil {
				uc.logger.Error("GetAvailableSlots: failed to get weekly schedule for staff id=%d: %v", res.StaffID, err)
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
				uc.logger.Error("GetAvailableSlots: failed to get exception for staff id=%d: %v", res.StaffID, err)
				return nil, fmt.Errorf("%w: failed to get schedule exception: %v", ErrInternal, err)
			}

			window, ok := domain.ResolveWindow(weekdayRow, exception)
			sw = staffWindow{window: window, ok: ok}
			cache[res.StaffID] = sw
		}

		if sw.ok {
			windows = append(windows, resourceWindow{resource: res, window: sw.window})
		}
	}

	return windows, nil
}

// minStartForDate возвращает минимальное допустимое время начала слота
// Для будущих дат ограничения нет; для сегодняшней даты слоты раньше
// "сейчас + минимальный запас" отсекаются. Второй результат true означает,
// что допустимое время вышло за пределы суток и слотов на сегодня уже нет
func (uc *UseCase) minStartForDate(date, now time.Time) (types.TimeString, bool) {
	if !timeutil.IsSameDay(date, now) {
		return "", false
	}

	minStart, err := types.NewTimeString(now).AddMinutes(uc.policy.MinLeadTimeMinutes)
	if err != nil {
		// Сейчас + запас пересекает полночь - на сегодня слотов не осталось
		return "", true
	}

	return minStart, false
}

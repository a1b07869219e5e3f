package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeutil"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Таймаут фоновой отправки уведомления о созданной записи
const notifyTimeout = 5 * time.Second

// UseCase use case создания записи на услугу
//
// Коммит сериализуется в два уровня: advisory-блокировка по ключу
// "booking:{serviceID}:{date}" отсекает конкурентные попытки до начала
// транзакции, serializable-транзакция с FOR UPDATE закрывает гонку
// проверка-вставка на уровне БД
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	resourceRepo    ResourceRepository
	scheduleRepo    ScheduleRepository
	customerRepo    CustomerRepository
	notifier        NotifierClient
	txManager       TransactionManager
	locker          Locker
	policy          Policy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	resourceRepo ResourceRepository,
	scheduleRepo ScheduleRepository,
	customerRepo CustomerRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	locker Locker,
	policy Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		resourceRepo:    resourceRepo,
		scheduleRepo:    scheduleRepo,
		customerRepo:    customerRepo,
		notifier:        notifierClient,
		txManager:       txManager,
		locker:          locker,
		policy:          policy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%d, date=%s, start=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.policy.Location)

	// 2. Дата в прошлом
	if timeutil.IsDateInPast(req.Date, now) {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем услугу
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !svc.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Вычисляем занятый интервал [start, end) с буферами
	// Рабочие часы не пересекают полночь, поэтому выход за сутки = вне рабочих часов
	span := svc.OccupiedSpanMinutes()
	end, err := req.StartTime.AddMinutes(span)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot %s+%dmin crosses midnight", req.StartTime, span)
		return nil, ErrOutsideWorkingHours
	}

	// 5. Минимальное время до начала при записи на сегодня
	if tooLate := uc.isTooLate(req.Date, req.StartTime, now); tooLate {
		uc.logger.Warn("CreateBooking: slot %s %s violates min lead time",
			req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, ErrTooLateToBook
	}

	// 6. Подходящие ресурсы и их рабочие окна; интервал должен целиком
	// лежать в окне хотя бы одного ресурса
	windows, err := uc.resolveCoveringWindows(ctx, req, end)
	if err != nil {
		return nil, err
	}

	if len(windows) == 0 {
		uc.logger.Warn("CreateBooking: slot %s-%s is outside working hours for service id=%d",
			req.StartTime, end, req.ServiceID)
		return nil, ErrOutsideWorkingHours
	}

	// 7. Advisory-блокировка по услуге и дате
	lockKey := fmt.Sprintf("booking:%d:%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	acquired, err := uc.locker.TryAcquire(ctx, lockKey, uc.policy.LockWait)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to acquire lock %s: %v", lockKey, err)
		return nil, fmt.Errorf("%w: failed to acquire booking lock: %v", ErrInternal, err)
	}
	if !acquired {
		uc.logger.Warn("CreateBooking: lock %s unavailable after %s", lockKey, uc.policy.LockWait)
		return nil, ErrLockUnavailable
	}
	defer func() {
		if err := uc.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			uc.logger.Error("CreateBooking: failed to release lock %s: %v", lockKey, err)
		}
	}()

	// 8. Транзакция коммита: проверка конфликта, upsert клиента, вставка записи,
	// назначение ресурса по свежему пересчёту занятости
	var (
		created    *domain.Appointment
		customer   *domain.Customer
		assignment domain.ResourceAssignment
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Проверка конфликта по услуге: чтение с FOR UPDATE держит строки дня
		// до конца транзакции
		existing, err := uc.appointmentRepo.GetActiveByServiceAndDate(txCtx, req.ServiceID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get active appointments: %v", ErrInternal, err)
		}

		// Порог конфликта - сервисная конкурентность: число подходящих ресурсов,
		// чьё окно покрывает интервал. Пока пересечений меньше порога, бронирование
		// может уйти на другой ресурс и отклонять его нельзя
		overlapping := 0
		for _, appt := range existing {
			apptEnd, err := appt.EndTime()
			if err != nil {
				continue
			}
			if appt.StartTime.IsBefore(end) && apptEnd.IsAfter(req.StartTime) {
				overlapping++
			}
		}
		if overlapping >= len(windows) {
			return ErrSlotConflict
		}

		customer, err = uc.customerRepo.UpsertByEmail(txCtx,
			strings.TrimSpace(req.CustomerEmail), strings.TrimSpace(req.CustomerName), req.CustomerPhone)
		if err != nil {
			return fmt.Errorf("%w: failed to upsert customer: %v", ErrInternal, err)
		}

		appt := &domain.Appointment{
			ServiceID:       req.ServiceID,
			CustomerID:      customer.ID,
			Date:            timeutil.DateOnly(req.Date),
			StartTime:       req.StartTime,
			DurationMinutes: span,
			Status:          domain.AppointmentStatus(uc.policy.DefaultStatus),
			Timezone:        uc.policy.Location.String(),
			ServiceName:     svc.Name,
			ServicePrice:    svc.Price,
			Notes:           req.Notes,
		}

		created, err = uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		assignment, err = uc.assignResource(txCtx, req, windows, created.ID, end)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.logger.Warn("CreateBooking: slot %s %s is already taken for service id=%d",
				req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceID)
			return nil, ErrSlotConflict
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	warning := ""
	if !assignment.IsAssigned() {
		// Ёмкость исчерпана, но запись сохранена: назначение ресурса
		// рекомендательное, оператор маршрутизирует вручную
		warning = WarningCapacityExhausted
		uc.logger.Warn("CreateBooking: appointment id=%d created without resource (capacity exhausted)", created.ID)
	}

	uc.logger.Info("CreateBooking: created appointment id=%d, service=%d, customer=%d",
		created.ID, created.ServiceID, created.CustomerID)

	// 9. Уведомление отправляется асинхронно: его сбой не влияет на результат
	uc.notifyCreated(created, customer, end)

	var resourceID *int64
	if id, ok := assignment.ResourceID(); ok {
		resourceID = &id
	}

	return &Response{
		AppointmentID:   created.ID,
		ServiceID:       created.ServiceID,
		CustomerID:      created.CustomerID,
		Date:            created.Date,
		StartTime:       created.StartTime,
		EndTime:         end,
		DurationMinutes: created.DurationMinutes,
		Status:          string(created.Status),
		ResourceID:      resourceID,
		Warning:         warning,
		ServiceName:     created.ServiceName,
		ServicePrice:    created.ServicePrice,
		Notes:           created.Notes,
		CreatedAt:       created.CreatedAt,
		UpdatedAt:       created.UpdatedAt,
	}, nil
}

// isTooLate проверяет минимальный запас до начала слота при записи на сегодня
func (uc *UseCase) isTooLate(date time.Time, start types.TimeString, now time.Time) bool {
	if !timeutil.IsSameDay(date, now) {
		return false
	}

	minStart, err := types.NewTimeString(now).AddMinutes(uc.policy.MinLeadTimeMinutes)
	if err != nil {
		// Сейчас + запас пересекает полночь - на сегодня записаться уже нельзя
		return true
	}

	return start.IsBefore(minStart)
}

// resolveCoveringWindows возвращает подходящие ресурсы, чьё эффективное рабочее
// окно на дату целиком покрывает занятый интервал [req.StartTime, end)
func (uc *UseCase) resolveCoveringWindows(ctx context.Context, req *Request, end types.TimeString) ([]resourceWindow, error) {
	resources, err := uc.resourceRepo.GetEligibleByService(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get eligible resources for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get eligible resources: %v", ErrInternal, err)
	}

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
				uc.logger.Error("CreateBooking: failed to get weekly schedule for staff id=%d: %v", res.StaffID, err)
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
				uc.logger.Error("CreateBooking: failed to get exception for staff id=%d: %v", res.StaffID, err)
				return nil, fmt.Errorf("%w: failed to get schedule exception: %v", ErrInternal, err)
			}

			window, ok := domain.ResolveWindow(weekdayRow, exception)
			sw = staffWindow{window: window, ok: ok}
			cache[res.StaffID] = sw
		}

		if !sw.ok {
			continue
		}

		if !req.StartTime.IsBefore(sw.window.Start) && !end.IsAfter(sw.window.End) {
			windows = append(windows, resourceWindow{resource: res, window: sw.window})
		}
	}

	return windows, nil
}

// assignResource выбирает ресурс для созданной записи по свежему пересчёту
// занятости внутри транзакции
//
// Предпочитаемый ресурс берётся, если он подходит и имеет свободную ёмкость;
// иначе первый свободный в порядке возрастания ID. Отсутствие свободного
// ресурса не откатывает бронирование - запись остаётся без назначения
func (uc *UseCase) assignResource(
	ctx context.Context,
	req *Request,
	windows []resourceWindow,
	appointmentID int64,
	end types.TimeString,
) (domain.ResourceAssignment, error) {
	blocked, err := uc.resourceRepo.GetBlockedResources(ctx, req.Date, req.StartTime, end,
		domain.BlockingStatuses(uc.policy.CountPendingHolds))
	if err != nil {
		return domain.Unassigned(), fmt.Errorf("%w: failed to get blocked resources: %v", ErrInternal, err)
	}

	free := make([]*domain.Resource, 0, len(windows))
	for _, rw := range windows {
		if rw.resource.Capacity-blocked[rw.resource.ID] > 0 {
			free = append(free, rw.resource)
		}
	}

	if len(free) == 0 {
		return domain.Unassigned(), nil
	}

	sort.Slice(free, func(i, j int) bool { return free[i].ID < free[j].ID })

	chosen := free[0]
	if req.PreferredResourceID != nil {
		for _, res := range free {
			if res.ID == *req.PreferredResourceID {
				chosen = res
				break
			}
		}
	}

	if err := uc.resourceRepo.Assign(ctx, appointmentID, chosen.ID); err != nil {
		return domain.Unassigned(), fmt.Errorf("%w: failed to assign resource: %v", ErrInternal, err)
	}

	return domain.Assigned(chosen.ID), nil
}

// notifyCreated отправляет уведомление о созданной записи в фоне
func (uc *UseCase) notifyCreated(appt *domain.Appointment, customer *domain.Customer, end types.TimeString) {
	notification := &notifier.AppointmentNotification{
		AppointmentID: appt.ID,
		ServiceName:   appt.ServiceName,
		ServicePrice:  appt.ServicePrice,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
		EndTime:       end.String(),
		Status:        string(appt.Status),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifier.SendAppointmentCreated(ctx, notification); err != nil {
			uc.logger.Error("CreateBooking: failed to send notification for appointment id=%d: %v", appt.ID, err)
		}
	}()
}

package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Стабы зависимостей

type stubAppointmentRepo struct {
	existing    []*domain.Appointment
	createCalls int
}

func (s *stubAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s.createCalls++
	created := *appt
	created.ID = 100
	created.CreatedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	return &created, nil
}

func (s *stubAppointmentRepo) GetActiveByServiceAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return s.existing, nil
}

type stubServiceRepo struct {
	service *domain.Service
}

func (s *stubServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return s.service, nil
}

type stubResourceRepo struct {
	resources  []*domain.Resource
	blocked    map[int64]int
	assignedTo *int64
}

func (s *stubResourceRepo) GetEligibleByService(_ context.Context, _ int64) ([]*domain.Resource, error) {
	return s.resources, nil
}

func (s *stubResourceRepo) GetBlockedResources(_ context.Context, _ time.Time, _, _ types.TimeString, _ []domain.AppointmentStatus) (map[int64]int, error) {
	return s.blocked, nil
}

func (s *stubResourceRepo) Assign(_ context.Context, _, resourceID int64) error {
	s.assignedTo = &resourceID
	return nil
}

type stubScheduleRepo struct {
	weekly     map[int64][]*domain.StaffSchedule
	exceptions map[int64]*domain.ScheduleException
}

func (s *stubScheduleRepo) GetWeekly(_ context.Context, staffID int64) ([]*domain.StaffSchedule, error) {
	return s.weekly[staffID], nil
}

func (s *stubScheduleRepo) GetExceptionByDate(_ context.Context, staffID int64, _ time.Time) (*domain.ScheduleException, error) {
	return s.exceptions[staffID], nil
}

type stubCustomerRepo struct{}

func (stubCustomerRepo) UpsertByEmail(_ context.Context, email, name string, phone *string) (*domain.Customer, error) {
	return &domain.Customer{ID: 7, Email: email, Name: name, Phone: phone}, nil
}

type stubNotifier struct {
	sent chan *notifier.AppointmentNotification
}

func (s *stubNotifier) SendAppointmentCreated(_ context.Context, n *notifier.AppointmentNotification) error {
	if s.sent != nil {
		s.sent <- n
	}
	return nil
}

// fakeTxManager выполняет функцию напрямую, без транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeLocker struct {
	acquired bool
	acquires []string
	released []string
}

func (f *fakeLocker) TryAcquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.acquires = append(f.acquires, key)
	return f.acquired, nil
}

func (f *fakeLocker) Release(_ context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

type stubTimeProvider struct {
	now time.Time
}

func (s *stubTimeProvider) Now() time.Time {
	return s.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Фикстуры: понедельник 2026-09-14, площадка работает 09:00-17:00

var (
	testMonday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	testNow    = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	appointments *stubAppointmentRepo
	services     *stubServiceRepo
	resources    *stubResourceRepo
	schedules    *stubScheduleRepo
	notifier     *stubNotifier
	txManager    *fakeTxManager
	locker       *fakeLocker
}

func newFixture() *fixture {
	weekly := make([]*domain.StaffSchedule, 0, 5)
	for weekday := 1; weekday <= 5; weekday++ {
		weekly = append(weekly, &domain.StaffSchedule{
			StaffID: 10, Weekday: weekday, StartTime: "09:00", EndTime: "17:00", IsActive: true,
		})
	}

	return &fixture{
		appointments: &stubAppointmentRepo{},
		services: &stubServiceRepo{
			service: &domain.Service{ID: 1, Name: "Стрижка", DurationMinutes: 60, Price: 1500, IsActive: true},
		},
		resources: &stubResourceRepo{
			resources: []*domain.Resource{
				{ID: 1, Name: "Кресло 1", StaffID: 10, Capacity: 1, IsActive: true},
			},
			blocked: map[int64]int{},
		},
		schedules: &stubScheduleRepo{
			weekly:     map[int64][]*domain.StaffSchedule{10: weekly},
			exceptions: map[int64]*domain.ScheduleException{},
		},
		notifier:  &stubNotifier{},
		txManager: &fakeTxManager{},
		locker:    &fakeLocker{acquired: true},
	}
}

func (f *fixture) useCase() *UseCase {
	uc := NewUseCase(
		f.appointments, f.services, f.resources, f.schedules,
		stubCustomerRepo{}, f.notifier, f.txManager, f.locker,
		Policy{
			Location:           time.UTC,
			MinLeadTimeMinutes: 60,
			CountPendingHolds:  false,
			DefaultStatus:      string(domain.StatusConfirmed),
			LockWait:           time.Second,
		},
		noopLogger{},
	)
	uc.timeProvider = &stubTimeProvider{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		ServiceID:     1,
		Date:          testMonday,
		StartTime:     "10:00",
		CustomerName:  "Иван Петров",
		CustomerEmail: "ivan@example.com",
	}
}

func TestExecute_CreatesBookingAndAssignsResource(t *testing.T) {
	f := newFixture()
	f.notifier.sent = make(chan *notifier.AppointmentNotification, 1)
	uc := f.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.AppointmentID)
	assert.Equal(t, int64(7), resp.CustomerID)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.EndTime)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Empty(t, resp.Warning)
	require.NotNil(t, resp.ResourceID)
	assert.Equal(t, int64(1), *resp.ResourceID)

	assert.Equal(t, 1, f.txManager.calls)
	assert.Equal(t, []string{"booking:1:2026-09-14"}, f.locker.acquires)
	assert.Equal(t, []string{"booking:1:2026-09-14"}, f.locker.released)

	select {
	case n := <-f.notifier.sent:
		assert.Equal(t, int64(100), n.AppointmentID)
		assert.Equal(t, "Стрижка", n.ServiceName)
		assert.Equal(t, "10:00", n.StartTime)
		assert.Equal(t, "11:00", n.EndTime)
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
	}
}

func TestExecute_BuffersWidenOccupiedSpan(t *testing.T) {
	f := newFixture()
	f.services.service.BufferBeforeMinutes = 10
	f.services.service.BufferAfterMinutes = 20
	uc := f.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Запись занимает интервал с буферами: 10:00 + 90 минут
	assert.Equal(t, types.TimeString("11:30"), resp.EndTime)
	assert.Equal(t, 90, resp.DurationMinutes)
}

func TestExecute_SlotConflictOnOverlap(t *testing.T) {
	// Единственный ресурс: одна пересекающаяся запись исчерпывает конкурентность услуги
	f := newFixture()
	f.appointments.existing = []*domain.Appointment{
		{ID: 50, ServiceID: 1, StartTime: "10:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	f.resources.blocked = map[int64]int{1: 1}
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Zero(t, f.appointments.createCalls)

	// Блокировка освобождается и при конфликте
	assert.Equal(t, []string{"booking:1:2026-09-14"}, f.locker.released)
}

func TestExecute_OverlapBelowConcurrencyUsesAlternativeResource(t *testing.T) {
	// Два подходящих ресурса: одна пересекающаяся запись занимает первый,
	// второе бронирование на то же время уходит на свободный второй
	f := newFixture()
	f.resources.resources = []*domain.Resource{
		{ID: 1, Name: "Кресло 1", StaffID: 10, Capacity: 1, IsActive: true},
		{ID: 2, Name: "Кресло 2", StaffID: 10, Capacity: 1, IsActive: true},
	}
	f.appointments.existing = []*domain.Appointment{
		{ID: 50, ServiceID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	f.resources.blocked = map[int64]int{1: 1}
	uc := f.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, f.appointments.createCalls)
	assert.Empty(t, resp.Warning)
	require.NotNil(t, resp.ResourceID)
	assert.Equal(t, int64(2), *resp.ResourceID)
}

func TestExecute_OverlapAtConcurrencyThresholdConflicts(t *testing.T) {
	// Пересечений столько же, сколько подходящих ресурсов - свободных вариантов
	// заведомо нет, запрос отклоняется до вставки
	f := newFixture()
	f.resources.resources = []*domain.Resource{
		{ID: 1, Name: "Кресло 1", StaffID: 10, Capacity: 1, IsActive: true},
		{ID: 2, Name: "Кресло 2", StaffID: 10, Capacity: 1, IsActive: true},
	}
	f.appointments.existing = []*domain.Appointment{
		{ID: 50, ServiceID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		{ID: 51, ServiceID: 1, StartTime: "10:30", DurationMinutes: 60, Status: domain.StatusPending},
	}
	f.resources.blocked = map[int64]int{1: 1, 2: 1}
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Zero(t, f.appointments.createCalls)
}

func TestExecute_TouchingIntervalsDoNotConflict(t *testing.T) {
	f := newFixture()
	// Запись 09:00-10:00 заканчивается ровно в момент начала новой
	f.appointments.existing = []*domain.Appointment{
		{ID: 50, ServiceID: 1, StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	uc := f.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.AppointmentID)
}

func TestExecute_CapacityExhaustedKeepsBooking(t *testing.T) {
	f := newFixture()
	// Ресурс занят записью другой услуги: сервисная проверка конфликтов её
	// не видит, но подсчёт занятости учитывает записи всех услуг
	f.resources.blocked = map[int64]int{1: 1}
	uc := f.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Свободных ресурсов нет, но запись создана и возвращается с предупреждением
	assert.Equal(t, WarningCapacityExhausted, resp.Warning)
	assert.Nil(t, resp.ResourceID)
	assert.Nil(t, f.resources.assignedTo)
	assert.Equal(t, 1, f.appointments.createCalls)
}

func TestExecute_PreferredResourceChosen(t *testing.T) {
	f := newFixture()
	f.resources.resources = []*domain.Resource{
		{ID: 1, Name: "Кресло 1", StaffID: 10, Capacity: 1, IsActive: true},
		{ID: 2, Name: "Кресло 2", StaffID: 10, Capacity: 1, IsActive: true},
	}
	uc := f.useCase()

	req := validRequest()
	req.PreferredResourceID = ptr.Ptr(int64(2))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.ResourceID)
	assert.Equal(t, int64(2), *resp.ResourceID)
}

func TestExecute_BusyPreferredFallsBackToLowestID(t *testing.T) {
	f := newFixture()
	f.resources.resources = []*domain.Resource{
		{ID: 1, Name: "Кресло 1", StaffID: 10, Capacity: 1, IsActive: true},
		{ID: 2, Name: "Кресло 2", StaffID: 10, Capacity: 1, IsActive: true},
	}
	f.resources.blocked = map[int64]int{2: 1}
	uc := f.useCase()

	req := validRequest()
	req.PreferredResourceID = ptr.Ptr(int64(2))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.ResourceID)
	assert.Equal(t, int64(1), *resp.ResourceID)
}

func TestExecute_LockUnavailable(t *testing.T) {
	f := newFixture()
	f.locker.acquired = false
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrLockUnavailable)

	// До транзакции дело не дошло
	assert.Zero(t, f.txManager.calls)
	assert.Empty(t, f.locker.released)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	t.Run("before window start", func(t *testing.T) {
		req := validRequest()
		req.StartTime = "08:00"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})

	t.Run("ends past window end", func(t *testing.T) {
		req := validRequest()
		req.StartTime = "16:30"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})

	t.Run("crosses midnight", func(t *testing.T) {
		req := validRequest()
		req.StartTime = "23:30"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})

	t.Run("day off exception", func(t *testing.T) {
		f.schedules.exceptions[10] = &domain.ScheduleException{StaffID: 10, Date: testMonday, IsDayOff: true}
		defer delete(f.schedules.exceptions, 10)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	f := newFixture()
	uc := f.useCase()
	// Сегодня понедельник 09:30; с запасом 60 минут слот 10:00 уже недоступен
	uc.timeProvider = &stubTimeProvider{now: time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC)}

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InactiveService(t *testing.T) {
	f := newFixture()
	f.services.service.IsActive = false
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero service id", func(r *Request) { r.ServiceID = 0 }},
		{"empty customer name", func(r *Request) { r.CustomerName = "  " }},
		{"empty customer email", func(r *Request) { r.CustomerEmail = "" }},
		{"email without at sign", func(r *Request) { r.CustomerEmail = "ivan.example.com" }},
		{"malformed start time", func(r *Request) { r.StartTime = "9:00" }},
		{"non-positive preferred resource", func(r *Request) { r.PreferredResourceID = ptr.Ptr(int64(0)) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

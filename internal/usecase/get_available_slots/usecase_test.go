package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/resource"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Стабы зависимостей

type stubServiceRepo struct {
	service *domain.Service
	err     error
}

func (s *stubServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return s.service, s.err
}

type stubResourceRepo struct {
	resources []*domain.Resource
	occupancy []resourceRepo.Occupancy
}

func (s *stubResourceRepo) GetEligibleByService(_ context.Context, _ int64) ([]*domain.Resource, error) {
	return s.resources, nil
}

func (s *stubResourceRepo) GetDayOccupancy(_ context.Context, _ time.Time, _ []domain.AppointmentStatus) ([]resourceRepo.Occupancy, error) {
	return s.occupancy, nil
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
	testLocation = time.UTC
	testMonday   = time.Date(2026, 9, 14, 0, 0, 0, 0, testLocation)
	testNow      = time.Date(2026, 9, 1, 12, 0, 0, 0, testLocation)
)

func fullWeekSchedule(staffID int64) []*domain.StaffSchedule {
	schedules := make([]*domain.StaffSchedule, 0, 5)
	for weekday := 1; weekday <= 5; weekday++ {
		schedules = append(schedules, &domain.StaffSchedule{
			StaffID:   staffID,
			Weekday:   weekday,
			StartTime: "09:00",
			EndTime:   "17:00",
			IsActive:  true,
		})
	}
	return schedules
}

func newTestUseCase(services *stubServiceRepo, resources *stubResourceRepo, schedules *stubScheduleRepo) *UseCase {
	uc := NewUseCase(services, resources, schedules, Policy{
		Location:           testLocation,
		SlotStepMinutes:    30,
		MinLeadTimeMinutes: 60,
		CountPendingHolds:  false,
	}, noopLogger{})
	uc.timeProvider = &stubTimeProvider{now: testNow}
	return uc
}

func defaultFixture() (*stubServiceRepo, *stubResourceRepo, *stubScheduleRepo) {
	services := &stubServiceRepo{
		service: &domain.Service{ID: 1, Name: "Стрижка", DurationMinutes: 60, IsActive: true},
	}
	resources := &stubResourceRepo{
		resources: []*domain.Resource{
			{ID: 1, Name: "Кресло 1", StaffID: 10, Capacity: 1, IsActive: true},
		},
	}
	schedules := &stubScheduleRepo{
		weekly:     map[int64][]*domain.StaffSchedule{10: fullWeekSchedule(10)},
		exceptions: map[int64]*domain.ScheduleException{},
	}
	return services, resources, schedules
}

func TestExecute_GeneratesSlotsAcrossWorkingWindow(t *testing.T) {
	uc := newTestUseCase(defaultFixture())

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	require.NoError(t, err)

	// 09:00 .. 16:00 с шагом 30 минут: последний старт, после которого
	// услуга помещается в окно до 17:00
	require.Len(t, resp.Slots, 15)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("16:00"), resp.Slots[len(resp.Slots)-1].StartTime)

	for i := 1; i < len(resp.Slots); i++ {
		assert.True(t, resp.Slots[i-1].StartTime.IsBefore(resp.Slots[i].StartTime), "slots must be chronological")
	}

	for _, slot := range resp.Slots {
		assert.Equal(t, 60, slot.DurationMinutes)
		assert.Equal(t, 1, slot.FreeResources)
	}
}

func TestExecute_IsIdempotent(t *testing.T) {
	uc := newTestUseCase(defaultFixture())
	req := &Request{ServiceID: 1, Date: testMonday}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_OccupiedIntervalRemovesOverlappingSlots(t *testing.T) {
	services, resources, schedules := defaultFixture()
	// Запись 10:00-11:00 на единственном ресурсе ёмкости 1
	resources.occupancy = []resourceRepo.Occupancy{
		{ResourceID: 1, StartTime: "10:00", DurationMinutes: 60},
	}
	uc := newTestUseCase(services, resources, schedules)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	require.NoError(t, err)

	starts := make(map[types.TimeString]bool)
	for _, slot := range resp.Slots {
		starts[slot.StartTime] = true
	}

	// Пересекающиеся кандидаты выпали
	assert.False(t, starts["09:30"])
	assert.False(t, starts["10:00"])
	assert.False(t, starts["10:30"])

	// Полуоткрытые интервалы: слот, заканчивающийся ровно в 10:00,
	// и слот, начинающийся ровно в 11:00, не конфликтуют
	assert.True(t, starts["09:00"])
	assert.True(t, starts["11:00"])
}

func TestExecute_SecondResourceKeepsSlotAlive(t *testing.T) {
	services, resources, schedules := defaultFixture()
	resources.resources = append(resources.resources,
		&domain.Resource{ID: 2, Name: "Кресло 2", StaffID: 10, Capacity: 1, IsActive: true})
	resources.occupancy = []resourceRepo.Occupancy{
		{ResourceID: 1, StartTime: "10:00", DurationMinutes: 60},
	}
	uc := newTestUseCase(services, resources, schedules)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	require.NoError(t, err)

	bySlot := make(map[types.TimeString]int)
	for _, slot := range resp.Slots {
		bySlot[slot.StartTime] = slot.FreeResources
	}

	// Слот остаётся доступным за счёт второго ресурса
	assert.Equal(t, 1, bySlot["10:00"])
	assert.Equal(t, 2, bySlot["09:00"])
}

func TestExecute_DayOffExceptionYieldsNoSlots(t *testing.T) {
	services, resources, schedules := defaultFixture()
	schedules.exceptions[10] = &domain.ScheduleException{StaffID: 10, Date: testMonday, IsDayOff: true}
	uc := newTestUseCase(services, resources, schedules)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_SpecialHoursExceptionNarrowsWindow(t *testing.T) {
	services, resources, schedules := defaultFixture()
	start := types.TimeString("12:00")
	end := types.TimeString("14:00")
	schedules.exceptions[10] = &domain.ScheduleException{
		StaffID: 10, Date: testMonday, StartTime: &start, EndTime: &end,
	}
	uc := newTestUseCase(services, resources, schedules)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	require.NoError(t, err)

	// 12:00, 12:30, 13:00 - последние старты, укладывающиеся до 14:00
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("12:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("13:00"), resp.Slots[2].StartTime)
}

func TestExecute_PastDateYieldsNoSlots(t *testing.T) {
	uc := newTestUseCase(defaultFixture())

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      testNow.AddDate(0, 0, -1),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_SameDayLeadTimeFiltersEarlySlots(t *testing.T) {
	services, resources, schedules := defaultFixture()
	uc := newTestUseCase(services, resources, schedules)
	// Сегодня понедельник 10:15; с запасом 60 минут первый допустимый старт 11:15
	uc.timeProvider = &stubTimeProvider{now: time.Date(2026, 9, 14, 10, 15, 0, 0, testLocation)}

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[0].StartTime)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	services, resources, schedules := defaultFixture()
	services.service = nil
	services.err = serviceRepo.ErrServiceNotFound
	uc := newTestUseCase(services, resources, schedules)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 99, Date: testMonday})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveServiceTreatedAsNotFound(t *testing.T) {
	services, resources, schedules := defaultFixture()
	services.service.IsActive = false
	uc := newTestUseCase(services, resources, schedules)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_NoEligibleResourcesYieldsNoSlots(t *testing.T) {
	services, resources, schedules := defaultFixture()
	resources.resources = nil
	uc := newTestUseCase(services, resources, schedules)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_BuffersExtendOccupiedSpan(t *testing.T) {
	services, resources, schedules := defaultFixture()
	services.service.BufferBeforeMinutes = 15
	services.service.BufferAfterMinutes = 15
	uc := newTestUseCase(services, resources, schedules)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testMonday})
	require.NoError(t, err)

	// Полный интервал 90 минут: последний старт 15:30
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("15:30"), resp.Slots[len(resp.Slots)-1].StartTime)
	// Клиенту показывается длительность услуги без буферов
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(defaultFixture())

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 0, Date: testMonday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

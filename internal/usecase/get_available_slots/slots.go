package get_available_slots

import (
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// resourceWindow подходящий ресурс вместе с эффективным рабочим окном
// его сотрудника на запрошенную дату
type resourceWindow struct {
	resource *domain.Resource
	window   domain.WorkingWindow
}

// computeSlots вычисляет доступные слоты по всем подходящим ресурсам
//
// Кандидатные времена начала генерируются с фиксированным шагом по рабочему окну
// каждого ресурса так, чтобы начало + полный занятый интервал (с буферами)
// не выходило за конец окна. Кандидат попадает в результат, если хотя бы у одного
// ресурса в его окне остаётся свободная ёмкость. Результат дедуплицирован по
// времени начала и отсортирован хронологически
//
// minStart отсекает слоты раньше "сейчас + минимальный запас" при запросе
// на сегодня; пустое значение = без ограничения
func computeSlots(
	windows []resourceWindow,
	occupancy []resourceRepo.Occupancy,
	stepMinutes int,
	spanMinutes int,
	serviceDurationMinutes int,
	minStart types.TimeString,
) []Slot {
	candidates := make(map[types.TimeString]struct{})

	for _, rw := range windows {
		current := rw.window.Start
		for {
			end, err := current.AddMinutes(spanMinutes)
			if err != nil || end.IsAfter(rw.window.End) {
				break
			}

			candidates[current] = struct{}{}

			next, err := current.AddMinutes(stepMinutes)
			if err != nil {
				break
			}
			current = next
		}
	}

	starts := make([]types.TimeString, 0, len(candidates))
	for start := range candidates {
		starts = append(starts, start)
	}
	// "HH:MM" с ведущими нулями сортируется лексикографически == хронологически
	sort.Slice(starts, func(i, j int) bool { return starts[i].IsBefore(starts[j]) })

	slots := make([]Slot, 0, len(starts))

	for _, start := range starts {
		if !minStart.IsZero() && start.IsBefore(minStart) {
			continue
		}

		end, err := start.AddMinutes(spanMinutes)
		if err != nil {
			continue
		}

		free := 0
		for _, rw := range windows {
			if !windowCovers(rw.window, start, end) {
				continue
			}

			blocked := countOverlapping(occupancy, rw.resource.ID, start, end)
			if rw.resource.Capacity-blocked > 0 {
				free++
			}
		}

		if free > 0 {
			slots = append(slots, Slot{
				StartTime:       start,
				DurationMinutes: serviceDurationMinutes,
				FreeResources:   free,
			})
		}
	}

	return slots
}

// windowCovers проверяет, что интервал [start, end) целиком лежит в рабочем окне
func windowCovers(window domain.WorkingWindow, start, end types.TimeString) bool {
	return !start.IsBefore(window.Start) && !end.IsAfter(window.End)
}

// countOverlapping подсчитывает записи на ресурсе, пересекающие окно [start, end)
//
// Пересечение полуоткрытое: запись, заканчивающаяся ровно в start
// (или начинающаяся ровно в end), не конфликтует
func countOverlapping(occupancy []resourceRepo.Occupancy, resourceID int64, start, end types.TimeString) int {
	count := 0

	for _, occ := range occupancy {
		if occ.ResourceID != resourceID {
			continue
		}

		occEnd, err := occ.StartTime.AddMinutes(occ.DurationMinutes)
		if err != nil {
			// Некорректный интервал; запись пропускается
			continue
		}

		if occ.StartTime.IsBefore(end) && occEnd.IsAfter(start) {
			count++
		}
	}

	return count
}

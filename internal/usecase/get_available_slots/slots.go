package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/schedule"
)

// markAvailability снимает доступность со слотов, которые пересекаются хотя бы с одним бронированием
// Пересечение есть только если интервалы действительно накладываются друг на друга
// Если бронирование заканчивается ровно там, где начинается слот (или наоборот) - это НЕ пересечение
//
// Примеры:
// - Слот 10:00-11:00, бронирование 09:00-11:00 → ЕСТЬ пересечение
// - Слот 10:00-11:00, бронирование 10:30-11:30 → ЕСТЬ пересечение (10:30-11:00)
// - Слот 11:00-12:00, бронирование 09:00-11:00 → НЕТ пересечения (граничат)
func markAvailability(
	hours schedule.BusinessHours,
	date time.Time,
	slots []domain.TimeSlot,
	bookings []*domain.Booking,
) []domain.TimeSlot {
	result := make([]domain.TimeSlot, len(slots))

	for i, slot := range slots {
		slotStart, slotEnd := hours.Interval(date, slot.StartTime, slot.EndTime)
		slot.IsAvailable = !hasOverlap(slotStart, slotEnd, bookings)
		result[i] = slot
	}

	return result
}

// hasOverlap проверяет, пересекается ли [start, end) хотя бы с одним активным бронированием
func hasOverlap(start, end time.Time, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		// Пропускаем неактивные бронирования
		if !booking.Status.IsActive() {
			continue
		}
		if booking.Overlaps(start, end) {
			return true
		}
	}
	return false
}

package booking

import (
	"fmt"

	"agendei/models"
)

// HourLabel formats an hour as a two-digit 24-hour clock label,
// e.g. 9 -> "09:00". Locale-independent.
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Partition splits a day-availability feed into the morning (hour < 12)
// and afternoon (hour >= 12) sections, enriching each record with its
// display label. Input order is preserved within each section; no record
// is dropped or duplicated. Empty input yields two empty sections.
func Partition(records []models.HourAvailability) models.DaySchedule {
	schedule := models.DaySchedule{
		Morning:   []models.SlotView{},
		Afternoon: []models.SlotView{},
	}
	for _, rec := range records {
		view := models.SlotView{
			Hour:      rec.Hour,
			Available: rec.Available,
			Label:     HourLabel(rec.Hour),
		}
		if rec.Hour < 12 {
			schedule.Morning = append(schedule.Morning, view)
		} else {
			schedule.Afternoon = append(schedule.Afternoon, view)
		}
	}
	return schedule
}

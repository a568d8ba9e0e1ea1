package models

// HourAvailability is one record of the upstream day-availability feed:
// whether a given hour of the selected day is still free.
type HourAvailability struct {
	Hour      int  `json:"hour"` // 0–23
	Available bool `json:"available"`
}

// SlotView is an HourAvailability enriched with its display label
// (e.g. "09:00"). Derived on demand, never persisted.
type SlotView struct {
	Hour      int    `json:"hour"`
	Available bool   `json:"available"`
	Label     string `json:"label"`
}

// DaySchedule is the availability snapshot split into the two half-day
// sections the client renders.
type DaySchedule struct {
	Morning   []SlotView `json:"morning"`
	Afternoon []SlotView `json:"afternoon"`
}

package schedule

import (
	"sort"
	"time"

	"github.com/zatekoja/homeflow/internal/domain/entities"
)

// NextAvailableHorizonDays bounds the next-available scan
const NextAvailableHorizonDays = 14

// Slot is a concrete, dated interval derived from a recurring time window
type Slot struct {
	Start  time.Time
	End    time.Time
	Window entities.TimeWindow
}

// Label renders the window, e.g. "09:00–11:00"
func (s Slot) Label() string {
	return s.Window.Start + "–" + s.Window.End
}

// ExpandSlots turns windows into slots for every date in [start, end]. Weekdays
// are not filtered here. Slots whose end is not after now are dropped.
func (c BusinessClock) ExpandSlots(windows []entities.TimeWindow, start, end, now time.Time) []Slot {
	var slots []Slot
	for _, day := range EnumerateDates(start, end) {
		for _, window := range windows {
			slot := c.slotFor(day, window)
			if !slot.End.After(now) {
				continue
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

// NextAvailable finds the first open slot on a working day within the horizon,
// starting from the calendar day of from.
func (c BusinessClock) NextAvailable(workingDays []int, windows []entities.TimeWindow, from, now time.Time) (Slot, bool) {
	if len(windows) == 0 {
		return Slot{}, false
	}

	ordered := make([]entities.TimeWindow, len(windows))
	copy(ordered, windows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	days := make(map[int]struct{}, len(workingDays))
	for _, d := range workingDays {
		days[d] = struct{}{}
	}

	start := TruncateDate(from)
	for i := 0; i < NextAvailableHorizonDays; i++ {
		day := start.AddDate(0, 0, i)
		if _, ok := days[int(day.Weekday())]; !ok {
			continue
		}
		for _, window := range ordered {
			slot := c.slotFor(day, window)
			if slot.End.After(now) {
				return slot, true
			}
		}
	}
	return Slot{}, false
}

func (c BusinessClock) slotFor(day time.Time, window entities.TimeWindow) Slot {
	return Slot{
		Start:  c.LocalClockToInstant(day, window.Start),
		End:    c.LocalClockToInstant(day, window.End),
		Window: window,
	}
}

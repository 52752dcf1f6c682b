package flow

import "github.com/ivmel/reflecta/internal/models"

const (
	// skipThreshold is the skip count at which the second focus sphere is
	// activated and "skip all questions today" is offered.
	skipThreshold = 2
	// notUnderstoodLimit caps "didn't understand" actions per day.
	notUnderstoodLimit = 2
)

// freshDayState returns a zeroed record for the given day.
func freshDayState(date string) models.DayState {
	return models.DayState{Date: date}
}

// normalizeDayState discards a record that belongs to a different calendar
// day. Stale records are superseded in place, never garbage-collected.
func normalizeDayState(state *models.DayState, today string) models.DayState {
	if state == nil || state.Date != today {
		return freshDayState(today)
	}
	return *state
}

// advanceSphere applies the two-sphere advancement rule: once the
// triggering counter reaches the threshold while the primary sphere is
// active, the flow moves to sphere index 1 and stays there for the rest of
// the day.
func advanceSphere(state *models.DayState, counter int, focusLen int) {
	if focusLen == 2 && counter >= skipThreshold && state.ActiveSphereIndex == 0 {
		state.ActiveSphereIndex = 1
	}
}

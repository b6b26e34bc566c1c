package resource

import (
	"time"
)

const minutesPerDay = 24 * 60

// Window is an opening period in minutes from local midnight.
// A window whose close is not after its open runs past midnight into the next day.
type Window struct {
	openMinute  int
	closeMinute int
}

func NewWindow(openMinute, closeMinute int) (Window, error) {
	if openMinute < 0 || openMinute >= minutesPerDay || closeMinute < 0 || closeMinute > minutesPerDay {
		return Window{}, ErrInvalidWindow
	}
	return Window{openMinute: openMinute, closeMinute: closeMinute}, nil
}

func (w Window) OpenMinute() int  { return w.openMinute }
func (w Window) CloseMinute() int { return w.closeMinute }

func (w Window) wraps() bool {
	return w.closeMinute <= w.openMinute
}

// WeeklySchedule with no windows at all means the resource never closes.
type WeeklySchedule struct {
	days map[time.Weekday][]Window
}

func NewWeeklySchedule(days map[time.Weekday][]Window) WeeklySchedule {
	copied := make(map[time.Weekday][]Window, len(days))
	for d, ws := range days {
		if len(ws) == 0 {
			continue
		}
		copied[d] = append([]Window(nil), ws...)
	}
	return WeeklySchedule{days: copied}
}

func (s WeeklySchedule) Days() map[time.Weekday][]Window {
	return s.days
}

func (s WeeklySchedule) IsEmpty() bool {
	return len(s.days) == 0
}

// IsOpenAt evaluates t in loc against today's windows and yesterday's overnight windows.
func (s WeeklySchedule) IsOpenAt(t time.Time, loc *time.Location) bool {
	if s.IsEmpty() {
		return true
	}
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	minute := local.Hour()*60 + local.Minute()

	for _, w := range s.days[local.Weekday()] {
		if w.wraps() {
			if minute >= w.openMinute {
				return true
			}
			continue
		}
		if minute >= w.openMinute && minute < w.closeMinute {
			return true
		}
	}

	yesterday := (local.Weekday() + 6) % 7
	for _, w := range s.days[yesterday] {
		if w.wraps() && minute < w.closeMinute {
			return true
		}
	}
	return false
}

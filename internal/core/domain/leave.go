package domain

import "time"

// LeaveType identifies the kind of absence being announced.
type LeaveType string

const (
	// LeaveBusinessTrip is a business trip away from the office.
	LeaveBusinessTrip LeaveType = "business-trip"
	// LeaveFullDayOff is a full day of leave.
	LeaveFullDayOff LeaveType = "full-day-off"
	// LeaveAmHalfDayOff is leave for the morning only.
	LeaveAmHalfDayOff LeaveType = "am-half-day-off"
	// LeavePmHalfDayOff is leave for the afternoon only.
	LeavePmHalfDayOff LeaveType = "pm-half-day-off"
)

// LeaveTypes lists all supported leave types in display order.
var LeaveTypes = []LeaveType{
	LeaveBusinessTrip,
	LeaveFullDayOff,
	LeaveAmHalfDayOff,
	LeavePmHalfDayOff,
}

// Valid reports whether the value is one of the supported leave types.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveBusinessTrip, LeaveFullDayOff, LeaveAmHalfDayOff, LeavePmHalfDayOff:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable label for the leave type.
func (t LeaveType) DisplayName() string {
	switch t {
	case LeaveBusinessTrip:
		return "Business Trip"
	case LeaveFullDayOff:
		return "Full Day Off"
	case LeaveAmHalfDayOff:
		return "AM Half Day Off"
	case LeavePmHalfDayOff:
		return "PM Half Day Off"
	default:
		return string(t)
	}
}

// Subject builds the meeting subject for a leave type, e.g. "Yamada BT".
// Unrecognised types fall back to the full-day-off form.
func Subject(familyName string, leaveType LeaveType) string {
	switch leaveType {
	case LeaveBusinessTrip:
		return familyName + " BT"
	case LeaveAmHalfDayOff:
		return familyName + " AM OFF"
	case LeavePmHalfDayOff:
		return familyName + " PM OFF"
	case LeaveFullDayOff:
		return familyName + " OFF"
	default:
		return familyName + " OFF"
	}
}

// DefaultLocation returns the default meeting location for a leave type.
// Business trips have no default; all off variants default to "Home".
func DefaultLocation(leaveType LeaveType) string {
	if leaveType == LeaveBusinessTrip {
		return ""
	}
	return "Home"
}

// DateOnly strips the time-of-day component, keeping the calendar date in the
// value's own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ExpandDateRange enumerates every calendar date from start to end inclusive.
// The caller guarantees end >= start; a reversed range yields a single date.
func ExpandDateRange(start, end time.Time) []time.Time {
	first := DateOnly(start)
	last := DateOnly(end)

	dates := []time.Time{first}
	for d := first.AddDate(0, 0, 1); !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// IsMultiDay reports whether an expanded date range spans more than one day.
// Multi-day business trips additionally fill the overnight allowance sheet.
func IsMultiDay(dates []time.Time) bool {
	return len(dates) > 1
}

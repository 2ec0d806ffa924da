package reminders

import (
	"time"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
)

const notifyWindow = 30 * time.Minute

// ShouldNotifyNow decides whether a scheduled check may run at all: push
// must be on, the day must still be unchecked, and the clock has to sit
// within half an hour of the configured notify time. Manual triggers bypass
// this gate, never CanDeliverNow.
func ShouldNotifyNow(settings models.ReminderSettings, state models.ReminderCheckState, now time.Time) bool {
	if !settings.PushEnabled {
		return false
	}
	if state.LastCheckDate == now.Format(models.CheckDateLayout) {
		return false
	}
	target := time.Date(now.Year(), now.Month(), now.Day(),
		settings.NotifyHour, settings.NotifyMinute, 0, 0, now.Location())
	diff := now.Sub(target)
	if diff < 0 {
		diff = -diff
	}
	return diff <= notifyWindow
}

// CanDeliverNow is the delivery gate: notification permission, quiet hours
// and the weekend pause. It applies to manual and scheduled checks alike.
func CanDeliverNow(settings models.ReminderSettings, permissionGranted bool, now time.Time) bool {
	if !permissionGranted {
		return false
	}
	if settings.WeekendPause {
		switch now.Weekday() {
		case time.Saturday, time.Sunday:
			return false
		}
	}
	if settings.QuietHoursEnabled && inQuietHours(settings, now) {
		return false
	}
	return true
}

// inQuietHours handles windows that wrap past midnight: 22:00-08:00 means
// "from 22:00 today until 08:00 tomorrow".
func inQuietHours(settings models.ReminderSettings, now time.Time) bool {
	minuteOfDay := now.Hour()*60 + now.Minute()
	start := settings.QuietStartHour*60 + settings.QuietStartMinute
	end := settings.QuietEndHour*60 + settings.QuietEndMinute

	if start == end {
		return false
	}
	if start < end {
		return minuteOfDay >= start && minuteOfDay < end
	}
	return minuteOfDay >= start || minuteOfDay < end
}

package models

import (
	"time"

	"github.com/homestockhq/homestock-backend/pkg/enums"
)

// CheckDateLayout is the calendar-date format persisted in LastCheckDate.
// Comparing this string to "today" is what resets the per-day state machine
// at the local-midnight boundary.
const CheckDateLayout = "2006-01-02"

// ReminderCheckState is the singleton row persisting the per-day reminder
// check state machine. An in-flight check abandoned at process shutdown is
// simply re-run on the next trigger from this persisted state.
type ReminderCheckState struct {
	ID            int               `gorm:"column:id;primaryKey"`
	LastCheckDate string            `gorm:"column:last_check_date;type:text;not null;default:''"`
	LastStatus    enums.CheckStatus `gorm:"column:last_status;type:text;not null;default:'NOT_CHECKED'"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import "time"

// SettingsRowID is the fixed primary key of the singleton configuration rows.
const SettingsRowID = 1

// ReminderSettings is the singleton reminder configuration row.
type ReminderSettings struct {
	ID                   int       `gorm:"column:id;primaryKey"`
	AdvanceDays          int       `gorm:"column:advance_days;not null;default:7"`
	IncludeWarranty      bool      `gorm:"column:include_warranty;not null;default:false"`
	StockReminderEnabled bool      `gorm:"column:stock_reminder_enabled;not null;default:true"`
	NotifyHour           int       `gorm:"column:notify_hour;not null;default:9"`
	NotifyMinute         int       `gorm:"column:notify_minute;not null;default:0"`
	QuietHoursEnabled    bool      `gorm:"column:quiet_hours_enabled;not null;default:true"`
	QuietStartHour       int       `gorm:"column:quiet_start_hour;not null;default:22"`
	QuietStartMinute     int       `gorm:"column:quiet_start_minute;not null;default:0"`
	QuietEndHour         int       `gorm:"column:quiet_end_hour;not null;default:8"`
	QuietEndMinute       int       `gorm:"column:quiet_end_minute;not null;default:0"`
	WeekendPause         bool      `gorm:"column:weekend_pause;not null;default:false"`
	PushEnabled          bool      `gorm:"column:push_enabled;not null;default:true"`
	InAppEnabled         bool      `gorm:"column:in_app_enabled;not null;default:true"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DefaultReminderSettings returns the settings row used when none has been
// persisted yet.
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		ID:                   SettingsRowID,
		AdvanceDays:          7,
		StockReminderEnabled: true,
		NotifyHour:           9,
		QuietHoursEnabled:    true,
		QuietStartHour:       22,
		QuietEndHour:         8,
		PushEnabled:          true,
		InAppEnabled:         true,
	}
}

package reminders

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homestockhq/homestock-backend/internal/rules"
	"github.com/homestockhq/homestock-backend/pkg/enums"
)

// BuildReminders flattens an evaluation result into one deterministic,
// priority-ordered list. Same input, same output; ordering is
// (priority, days-until ascending, date-less findings last).
func BuildReminders(result rules.Result) []Reminder {
	reminders := make([]Reminder, 0,
		len(result.Expired)+len(result.Expiring)+len(result.LowStock)+
			len(result.WarrantyExpiring)+len(result.CustomMatches))

	for _, item := range result.Expired {
		overdue := item.DaysOverdue
		reminders = append(reminders, Reminder{
			Kind:      enums.ReminderKindExpired,
			Priority:  enums.ReminderPriorityUrgent,
			ItemID:    item.ItemID,
			ItemName:  item.ItemName,
			DaysUntil: intPtr(-overdue),
			Quantity:  decimalPtr(item.Quantity),
		})
	}
	for _, item := range result.Expiring {
		days := item.DaysLeft
		reminders = append(reminders, Reminder{
			Kind:      enums.ReminderKindExpiring,
			Priority:  datePriority(days),
			ItemID:    item.ItemID,
			ItemName:  item.ItemName,
			DaysUntil: intPtr(days),
			Quantity:  decimalPtr(item.Quantity),
		})
	}
	for _, item := range result.LowStock {
		priority := enums.ReminderPriorityImportant
		if item.Severity == enums.StockSeverityUrgent {
			priority = enums.ReminderPriorityUrgent
		}
		reminders = append(reminders, Reminder{
			Kind:     enums.ReminderKindLowStock,
			Priority: priority,
			ItemID:   item.ItemID,
			ItemName: item.ItemName,
			Quantity: decimalPtr(item.Quantity),
		})
	}
	for _, alert := range result.WarrantyExpiring {
		days := alert.DaysLeft
		reminders = append(reminders, Reminder{
			Kind:      enums.ReminderKindWarrantyExpiring,
			Priority:  datePriority(days),
			ItemID:    alert.ItemID,
			ItemName:  alert.ItemName,
			DaysUntil: intPtr(days),
		})
	}
	for _, match := range result.CustomMatches {
		ruleID := match.RuleID
		reminder := Reminder{
			Kind:     enums.ReminderKindCustomRule,
			Priority: enums.ReminderPriorityNormal,
			ItemID:   match.ItemID,
			ItemName: match.ItemName,
			RuleID:   &ruleID,
			Reason:   match.Reason,
		}
		if match.RuleType != enums.RuleTypeStock {
			days := int(match.Value.IntPart())
			reminder.DaysUntil = intPtr(days)
			reminder.Priority = datePriority(days)
		} else {
			value := match.Value
			reminder.Quantity = &value
			if value.IsZero() {
				reminder.Priority = enums.ReminderPriorityUrgent
			}
		}
		reminders = append(reminders, reminder)
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		left, right := reminders[i], reminders[j]
		if left.Priority.Ordinal() != right.Priority.Ordinal() {
			return left.Priority.Ordinal() < right.Priority.Ordinal()
		}
		switch {
		case left.DaysUntil == nil && right.DaysUntil == nil:
			return false
		case left.DaysUntil == nil:
			return false
		case right.DaysUntil == nil:
			return true
		default:
			return *left.DaysUntil < *right.DaysUntil
		}
	})
	return reminders
}

// BuildSummary wraps the reminders with channel routing: urgent findings get
// the urgent channel, date or stock findings the important one.
func BuildSummary(result rules.Result, reminders []Reminder, generatedAt time.Time) Summary {
	channel := enums.NotificationChannelNormal
	for _, reminder := range reminders {
		switch reminder.Priority {
		case enums.ReminderPriorityUrgent:
			channel = enums.NotificationChannelUrgent
		case enums.ReminderPriorityImportant:
			if channel == enums.NotificationChannelNormal {
				channel = enums.NotificationChannelImportant
			}
		}
	}
	return Summary{
		GeneratedAt: generatedAt,
		Reminders:   reminders,
		UrgentCount: result.UrgentCount(),
		Channel:     channel,
		Buckets:     result,
	}
}

// datePriority grades a days-to-event figure: a day or less is urgent.
func datePriority(days int) enums.ReminderPriority {
	if days <= 1 {
		return enums.ReminderPriorityUrgent
	}
	return enums.ReminderPriorityImportant
}

func intPtr(v int) *int { return &v }

func decimalPtr(v decimal.Decimal) *decimal.Decimal { return &v }

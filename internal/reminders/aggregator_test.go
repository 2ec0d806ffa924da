package reminders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homestockhq/homestock-backend/internal/rules"
	"github.com/homestockhq/homestock-backend/pkg/enums"
)

func TestBuildRemindersOrdering(t *testing.T) {
	result := rules.Result{
		Expiring: []rules.ExpiringItem{
			{ItemID: uuid.New(), ItemName: "Yogurt", DaysLeft: 5, Quantity: decimal.NewFromInt(1)},
			{ItemID: uuid.New(), ItemName: "Milk", DaysLeft: 1, Quantity: decimal.NewFromInt(1)},
		},
		Expired: []rules.ExpiredItem{
			{ItemID: uuid.New(), ItemName: "Cheese", DaysOverdue: 2, Quantity: decimal.NewFromInt(1)},
		},
		LowStock: []rules.LowStockItem{
			{ItemID: uuid.New(), ItemName: "Rice", Quantity: decimal.NewFromInt(3),
				MinQuantity: decimal.NewFromInt(10), Severity: enums.StockSeverityImportant},
		},
	}

	reminders := BuildReminders(result)
	if len(reminders) != 4 {
		t.Fatalf("want 4 reminders, got %d", len(reminders))
	}

	// Urgent first (expired + one-day expiring), then important by days,
	// date-less low stock at the back of its priority band.
	if reminders[0].Priority != enums.ReminderPriorityUrgent || reminders[1].Priority != enums.ReminderPriorityUrgent {
		t.Fatalf("first two must be urgent, got %s/%s", reminders[0].Priority, reminders[1].Priority)
	}
	if reminders[2].ItemName != "Yogurt" {
		t.Fatalf("important date-bearing reminder should precede date-less, got %s", reminders[2].ItemName)
	}
	if reminders[3].ItemName != "Rice" {
		t.Fatalf("date-less reminder sorts last in its band, got %s", reminders[3].ItemName)
	}
}

func TestBuildRemindersDeterministic(t *testing.T) {
	result := rules.Result{
		Expiring: []rules.ExpiringItem{
			{ItemID: uuid.New(), ItemName: "A", DaysLeft: 3, Quantity: decimal.NewFromInt(1)},
			{ItemID: uuid.New(), ItemName: "B", DaysLeft: 3, Quantity: decimal.NewFromInt(1)},
		},
	}
	first := BuildReminders(result)
	second := BuildReminders(result)
	for i := range first {
		if first[i].ItemName != second[i].ItemName {
			t.Fatal("same input must produce the same order")
		}
	}
}

func TestBuildRemindersCustomRuleCarriesReason(t *testing.T) {
	ruleID := uuid.New()
	result := rules.Result{
		CustomMatches: []rules.CustomMatch{{
			RuleID:   ruleID,
			RuleName: "food stock",
			RuleType: enums.RuleTypeStock,
			ItemID:   uuid.New(),
			ItemName: "Miso",
			Reason:   "Miso stock is down to 2",
			Value:    decimal.NewFromInt(2),
		}},
	}
	reminders := BuildReminders(result)
	if len(reminders) != 1 {
		t.Fatalf("want 1 reminder, got %d", len(reminders))
	}
	reminder := reminders[0]
	if reminder.Kind != enums.ReminderKindCustomRule {
		t.Fatalf("kind = %s", reminder.Kind)
	}
	if reminder.RuleID == nil || *reminder.RuleID != ruleID {
		t.Fatal("reminder must reference its rule")
	}
	if reminder.Reason == "" {
		t.Fatal("custom-rule reason string must pass through")
	}
}

func TestBuildSummaryChannelRouting(t *testing.T) {
	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

	urgent := rules.Result{Expired: []rules.ExpiredItem{{ItemName: "Cheese"}}}
	summary := BuildSummary(urgent, BuildReminders(urgent), now)
	if summary.Channel != enums.NotificationChannelUrgent {
		t.Fatalf("channel = %s, want urgent", summary.Channel)
	}
	if summary.UrgentCount != 1 {
		t.Fatalf("urgent count = %d, want 1", summary.UrgentCount)
	}

	important := rules.Result{Expiring: []rules.ExpiringItem{{ItemName: "Milk", DaysLeft: 5}}}
	summary = BuildSummary(important, BuildReminders(important), now)
	if summary.Channel != enums.NotificationChannelImportant {
		t.Fatalf("channel = %s, want important", summary.Channel)
	}
}

package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
)

const hoursPerDay = 24

// Evaluate is a pure function of the clock and the snapshot. It never touches
// the store, which keeps the window and threshold semantics trivially testable.
func Evaluate(now time.Time, snapshot Snapshot) Result {
	window := time.Duration(snapshot.Settings.AdvanceDays) * hoursPerDay * time.Hour
	var result Result

	evaluateExpiration(now, window, snapshot, &result)
	if snapshot.Settings.StockReminderEnabled {
		result.LowStock = evaluateLowStock(snapshot)
	}
	result.WarrantyExpiring = evaluateWarranties(now, window, snapshot.Warranties)
	result.CustomMatches = evaluateCustomRules(now, snapshot)
	return result
}

// relevantDates picks the dates the expiration buckets watch for one detail:
// the expiration date, or the detail-level warranty end when warranty
// tracking is folded in.
func relevantDates(detail models.InventoryDetail, includeWarranty bool) []time.Time {
	var dates []time.Time
	if detail.ExpirationDate != nil {
		dates = append(dates, *detail.ExpirationDate)
	}
	if includeWarranty && detail.WarrantyEndDate != nil {
		dates = append(dates, *detail.WarrantyEndDate)
	}
	return dates
}

func evaluateExpiration(now time.Time, window time.Duration, snapshot Snapshot, result *Result) {
	for _, stock := range snapshot.Inventory {
		for _, date := range relevantDates(stock.Detail, snapshot.Settings.IncludeWarranty) {
			switch {
			case date.Before(now):
				result.Expired = append(result.Expired, ExpiredItem{
					ItemID:      stock.Item.ID,
					DetailID:    stock.Detail.ID,
					ItemName:    stock.Item.Name,
					Category:    stock.Item.Category,
					ExpiredAt:   date,
					DaysOverdue: wholeDays(date, now),
					Quantity:    stock.Detail.Quantity,
				})
			// A date equal to now is neither expired nor expiring; the
			// next evaluation will catch it as expired.
			case date.After(now) && date.Before(now.Add(window)):
				result.Expiring = append(result.Expiring, ExpiringItem{
					ItemID:    stock.Item.ID,
					DetailID:  stock.Detail.ID,
					ItemName:  stock.Item.Name,
					Category:  stock.Item.Category,
					ExpiresAt: date,
					DaysLeft:  wholeDays(now, date),
					Quantity:  stock.Detail.Quantity,
				})
			}
		}
	}
}

// evaluateLowStock sums active quantities per item and compares with strict
// less-than against the category threshold. No enabled threshold, no check.
func evaluateLowStock(snapshot Snapshot) []LowStockItem {
	thresholds := make(map[string]models.CategoryThreshold, len(snapshot.Thresholds))
	for _, threshold := range snapshot.Thresholds {
		if threshold.Enabled {
			thresholds[threshold.Category] = threshold
		}
	}

	type itemStock struct {
		item  models.Item
		total decimal.Decimal
	}
	totals := map[string]*itemStock{}
	var order []string
	for _, stock := range snapshot.Inventory {
		key := stock.Item.ID.String()
		if existing, ok := totals[key]; ok {
			existing.total = existing.total.Add(stock.Detail.Quantity)
			continue
		}
		totals[key] = &itemStock{item: stock.Item, total: stock.Detail.Quantity}
		order = append(order, key)
	}

	var flagged []LowStockItem
	for _, key := range order {
		entry := totals[key]
		threshold, ok := thresholds[entry.item.Category]
		if !ok {
			continue
		}
		if !entry.total.LessThan(threshold.MinQuantity) {
			continue
		}
		severity := enums.StockSeverityImportant
		if entry.total.IsZero() {
			severity = enums.StockSeverityUrgent
		}
		flagged = append(flagged, LowStockItem{
			ItemID:      entry.item.ID,
			ItemName:    entry.item.Name,
			Category:    entry.item.Category,
			Quantity:    entry.total,
			MinQuantity: threshold.MinQuantity,
			Unit:        threshold.Unit,
			Severity:    severity,
		})
	}
	return flagged
}

func evaluateWarranties(now time.Time, window time.Duration, warranties []WarrantyItem) []WarrantyAlert {
	var alerts []WarrantyAlert
	for _, entry := range warranties {
		ends := entry.Warranty.EndsAt
		if !(ends.After(now) && ends.Before(now.Add(window))) {
			continue
		}
		alerts = append(alerts, WarrantyAlert{
			WarrantyID: entry.Warranty.ID,
			ItemID:     entry.Warranty.ItemID,
			ItemName:   entry.ItemName,
			Provider:   entry.Warranty.Provider,
			Contact:    entry.Warranty.Contact,
			EndsAt:     ends,
			DaysLeft:   wholeDays(now, ends),
		})
	}
	return alerts
}

func evaluateCustomRules(now time.Time, snapshot Snapshot) []CustomMatch {
	var matches []CustomMatch
	for _, rule := range snapshot.Rules {
		if !rule.Enabled {
			continue
		}
		for _, stock := range snapshot.Inventory {
			if !ruleInScope(rule, stock.Item) {
				continue
			}
			if match, ok := applyRule(now, rule, stock); ok {
				matches = append(matches, match)
			}
		}
	}
	return matches
}

// ruleInScope applies the rule's scope filters: exact category, then
// case-insensitive substring on the item name.
func ruleInScope(rule models.CustomRule, item models.Item) bool {
	if rule.TargetCategory != nil && *rule.TargetCategory != item.Category {
		return false
	}
	if rule.TargetItemName != nil {
		if !strings.Contains(strings.ToLower(item.Name), strings.ToLower(*rule.TargetItemName)) {
			return false
		}
	}
	return true
}

func applyRule(now time.Time, rule models.CustomRule, stock StockItem) (CustomMatch, bool) {
	match := CustomMatch{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		RuleType: rule.RuleType,
		ItemID:   stock.Item.ID,
		ItemName: stock.Item.Name,
	}
	window := time.Duration(rule.AdvanceDays) * hoursPerDay * time.Hour

	switch rule.RuleType {
	case enums.RuleTypeExpiration:
		date := stock.Detail.ExpirationDate
		if date == nil || !(date.After(now) && date.Before(now.Add(window))) {
			return CustomMatch{}, false
		}
		days := wholeDays(now, *date)
		match.Reason = fmt.Sprintf("%s expires in %d days", stock.Item.Name, days)
		match.Value = decimal.NewFromInt(int64(days))
		return match, true

	case enums.RuleTypeWarranty:
		date := stock.Detail.WarrantyEndDate
		if date == nil || !(date.After(now) && date.Before(now.Add(window))) {
			return CustomMatch{}, false
		}
		days := wholeDays(now, *date)
		match.Reason = fmt.Sprintf("warranty for %s ends in %d days", stock.Item.Name, days)
		match.Value = decimal.NewFromInt(int64(days))
		return match, true

	case enums.RuleTypeStock:
		if rule.MinQuantity == nil || !stock.Detail.Quantity.LessThan(*rule.MinQuantity) {
			return CustomMatch{}, false
		}
		match.Reason = fmt.Sprintf("%s stock is down to %s", stock.Item.Name, stock.Detail.Quantity.String())
		match.Value = stock.Detail.Quantity
		return match, true
	}
	return CustomMatch{}, false
}

// wholeDays counts full 24h periods between two instants.
func wholeDays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / (hoursPerDay * time.Hour))
}

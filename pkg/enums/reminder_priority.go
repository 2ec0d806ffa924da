package enums

// ReminderPriority orders flattened reminders for delivery. Ordinal() drives
// sorting: lower ordinal sorts first.
type ReminderPriority string

const (
	ReminderPriorityUrgent    ReminderPriority = "URGENT"
	ReminderPriorityImportant ReminderPriority = "IMPORTANT"
	ReminderPriorityNormal    ReminderPriority = "NORMAL"
)

var validReminderPriorities = []ReminderPriority{
	ReminderPriorityUrgent,
	ReminderPriorityImportant,
	ReminderPriorityNormal,
}

// IsValid checks whether the given priority matches the canonical enum.
func (p ReminderPriority) IsValid() bool {
	for _, candidate := range validReminderPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// Ordinal maps the priority to its sort position.
func (p ReminderPriority) Ordinal() int {
	switch p {
	case ReminderPriorityUrgent:
		return 0
	case ReminderPriorityImportant:
		return 1
	default:
		return 2
	}
}

package enums

// NotificationChannel hints which delivery channel the notification boundary
// should pick for a summary. Channel creation itself is owned by the boundary.
type NotificationChannel string

const (
	NotificationChannelUrgent    NotificationChannel = "urgent"
	NotificationChannelImportant NotificationChannel = "important"
	NotificationChannelNormal    NotificationChannel = "normal"
)

// IsValid checks whether the given channel matches the canonical enum.
func (c NotificationChannel) IsValid() bool {
	switch c {
	case NotificationChannelUrgent, NotificationChannelImportant, NotificationChannelNormal:
		return true
	}
	return false
}

package enums

import "fmt"

// NotificationType maps to the type column of the notifications table.
type NotificationType string

const (
	NotificationTypeNewGames      NotificationType = "new_games"
	NotificationTypeExpiringGames NotificationType = "expiring_games"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeNewGames,
	NotificationTypeExpiringGames,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

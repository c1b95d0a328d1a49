package enums

import "fmt"

// GameStatus maps to the status column of the games table.
type GameStatus string

const (
	GameStatusActive  GameStatus = "active"
	GameStatusClaimed GameStatus = "claimed"
	GameStatusExpired GameStatus = "expired"
	GameStatusOwned   GameStatus = "owned"
)

var validGameStatuses = []GameStatus{
	GameStatusActive,
	GameStatusClaimed,
	GameStatusExpired,
	GameStatusOwned,
}

// String implements fmt.Stringer.
func (s GameStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical status enum.
func (s GameStatus) IsValid() bool {
	for _, candidate := range validGameStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseGameStatus converts raw input into GameStatus.
func ParseGameStatus(value string) (GameStatus, error) {
	for _, candidate := range validGameStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid game status %q", value)
}

// GameStatuses returns every status in listing order.
func GameStatuses() []GameStatus {
	statuses := make([]GameStatus, len(validGameStatuses))
	copy(statuses, validGameStatuses)
	return statuses
}

// Platform identifies the storefront a promotion was scraped from.
type Platform string

const (
	PlatformEpic         Platform = "Epic"
	PlatformAmazonPrime  Platform = "Amazon Prime"
	PlatformGOG          Platform = "GOG"
	PlatformSteam        Platform = "Steam"
	PlatformUbisoft      Platform = "Ubisoft"
	PlatformItchIO       Platform = "Itch.io"
	PlatformIndieGala    Platform = "IndieGala"
	PlatformHumbleBundle Platform = "Humble Bundle"
)

var validPlatforms = []Platform{
	PlatformEpic,
	PlatformAmazonPrime,
	PlatformGOG,
	PlatformSteam,
	PlatformUbisoft,
	PlatformItchIO,
	PlatformIndieGala,
	PlatformHumbleBundle,
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}

// IsValid reports whether the value matches a known storefront.
func (p Platform) IsValid() bool {
	for _, candidate := range validPlatforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlatform converts raw input into Platform.
func ParsePlatform(value string) (Platform, error) {
	for _, candidate := range validPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid platform %q", value)
}

// Platforms returns every known storefront in listing order.
func Platforms() []Platform {
	platforms := make([]Platform, len(validPlatforms))
	copy(platforms, validPlatforms)
	return platforms
}

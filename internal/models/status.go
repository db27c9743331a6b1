package models

import "strings"

const (
	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusPending     = "pending"
	StatusBlacklisted = "blacklisted"
)

// NormalizeStatus lower-cases and trims a raw upstream status.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsActive compares case-insensitively against StatusActive.
func IsActive(status string) bool {
	return NormalizeStatus(status) == StatusActive
}

// StatusClass maps a status to its badge class. Unknown statuses share the
// inactive badge.
func StatusClass(status string) string {
	switch NormalizeStatus(status) {
	case StatusActive:
		return "status-active"
	case StatusPending:
		return "status-pending"
	case StatusBlacklisted:
		return "status-blacklisted"
	default:
		return "status-inactive"
	}
}

// StatusLabel returns the raw status or "Unknown" when it is absent.
func StatusLabel(status string) string {
	if strings.TrimSpace(status) == "" {
		return "Unknown"
	}
	return status
}

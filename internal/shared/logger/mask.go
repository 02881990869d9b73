package logger

import "strings"

// Example: john.doe@gmail.com -> j***@gmail.com
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}

	username := parts[0]
	domain := parts[1]

	if len(username) == 0 {
		return "***@" + domain
	}

	return username[:1] + "***@" + domain
}

// Example: 12345678 -> ****5678
func MaskDNI(dni string) string {
	if len(dni) <= 4 {
		return strings.Repeat("*", len(dni))
	}
	return strings.Repeat("*", len(dni)-4) + dni[len(dni)-4:]
}

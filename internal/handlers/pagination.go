package handlers

import "strconv"

const (
	defaultConversationPageSize = 20
	defaultMessagePageSize      = 10
	defaultFastMessagePageSize  = 20
	maxPageSize                 = 100
)

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parsePageSize(value string, fallback int) int {
	size := parsePositiveInt(value, fallback)
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func parseID(value string) (int64, bool) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

package service

import "strconv"

// formatUserID renders a numeric user id for event payloads and cache keys.
func formatUserID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

// ValidateRoomNumber checks a resort room number: 1-5 digits with an
// optional single building letter prefix (e.g. "214", "B12").
func ValidateRoomNumber(room string) bool {
	cleaned := strings.TrimSpace(room)
	regex := `^[A-Za-z]?\d{1,5}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

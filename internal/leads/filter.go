package leads

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidPhoneFormat rejects phone numbers that are not plausible
	// international numbers.
	ErrInvalidPhoneFormat = errors.New("phone number is not a valid international number")
	// ErrRateLimited rejects a submission when the phone number already
	// sent too many lead requests in the trailing window.
	ErrRateLimited = errors.New("too many lead requests from this phone number")
	// ErrInvalidArgument covers the remaining malformed-input cases.
	ErrInvalidArgument = errors.New("invalid lead request")
)

// Optional leading +, first digit 1-9, 8 to 15 digits total.
var phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{7,14}$`)

// ValidatePhone checks the international-number shape of a phone number.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhoneFormat
	}
	return nil
}

// Classifier flags lead notes as spam on a configured keyword list.
// A match is a soft classification: the lead is still stored, only the
// notification is suppressed.
type Classifier struct {
	keywords []string
}

func NewClassifier(keywords []string) *Classifier {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &Classifier{keywords: lowered}
}

// IsSpam reports whether the notes contain any configured keyword,
// case-insensitively.
func (c *Classifier) IsSpam(notes string) bool {
	if notes == "" {
		return false
	}
	lowered := strings.ToLower(notes)
	for _, kw := range c.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

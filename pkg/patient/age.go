package patient

import (
	"fmt"
	"time"
)

// BirthDateLayout is the reference layout for birth dates (YYYYMMDD).
const BirthDateLayout = "20060102"

// AgeAt returns the age in whole years at now. The birthday counts as reached
// on its calendar day. Malformed dates, and dates after now, return 0 with
// ErrDateParse.
func AgeAt(birthDate string, now time.Time) (int, error) {
	birth, err := ParseBirthDate(birthDate)
	if err != nil {
		return 0, err
	}

	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0, fmt.Errorf("%w: %q is after %s", ErrDateParse, birthDate, now.Format(time.DateOnly))
	}
	return age, nil
}

// ParseBirthDate validates and parses a YYYYMMDD birth date.
func ParseBirthDate(value string) (time.Time, error) {
	if len(value) != len(BirthDateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q has %d characters", ErrDateParse, value, len(value))
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return time.Time{}, fmt.Errorf("%w: %q is not numeric", ErrDateParse, value)
		}
	}
	birth, err := time.Parse(BirthDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrDateParse, err)
	}
	return birth, nil
}

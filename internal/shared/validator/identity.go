package validator

import (
	"regexp"

	"github.com/lavictoria/club-api/internal/shared/clock"

	"github.com/go-playground/validator/v10"
)

// dniRegex matches Argentine national identity numbers without separators
var dniRegex = regexp.MustCompile(`^[0-9]{7,8}$`)

// ValidateDNI validates a document number (7 or 8 digits)
func ValidateDNI(fl validator.FieldLevel) bool {
	return dniRegex.MatchString(fl.Field().String())
}

// ValidateCivilDate validates a YYYY-MM-DD calendar date
func ValidateCivilDate(fl validator.FieldLevel) bool {
	_, err := clock.ParseCivilDate(fl.Field().String())
	return err == nil
}

// IsDNI is the non-binding form of the dni rule, used for path parameters.
func IsDNI(s string) bool {
	return dniRegex.MatchString(s)
}

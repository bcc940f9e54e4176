package services

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const phoneMessage = "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// requireText records a "required" error when value is blank and a length
// error when it exceeds max runes.
func requireText(v *ValidationError, field, value string, max int) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field, "This field is required.")
		return
	}
	checkLength(v, field, value, max)
}

func checkLength(v *ValidationError, field, value string, max int) {
	if max > 0 && len([]rune(value)) > max {
		v.add(field, "Ensure this field has no more than "+strconv.Itoa(max)+" characters.")
	}
}

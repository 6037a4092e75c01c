// Package validation checks user input at the HTTP boundary and the quality
// of loaded knowledge tables.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/giygas/drug-interactions-api/interfaces"
)

var (
	// Drug names: letters, digits, spaces and the punctuation found in drug and brand names
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'/(),àâäéèêëïîôöùûüÿçñ]+$`)

	// Substring checks are enough for these, no regex needed
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal
		"../", "..\\", "%2e%2e", "file://",
		// LDAP injection
		"*)(", "*|(", "*)%",
		// NoSQL injection
		"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:",
	}
)

const (
	minInputLength = 2
	maxInputLength = 100
	maxInputWords  = 6
)

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct {
	validate *validator.Validate
}

// NewDataValidator creates a validator with the drugname struct tag registered
func NewDataValidator() *DataValidatorImpl {
	v := &DataValidatorImpl{validate: validator.New(validator.WithRequiredStructEnabled())}

	// Report JSON field names in errors
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.validate.RegisterValidation("drugname", func(fl validator.FieldLevel) bool {
		return v.ValidateInput(fl.Field().String()) == nil
	})

	return v
}

// ValidateInput validates a drug name, alias or search query
func (v *DataValidatorImpl) ValidateInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(trimmed) < minInputLength {
		return fmt.Errorf("input too short: minimum %d characters", minInputLength)
	}

	if len(input) > maxInputLength {
		return fmt.Errorf("input too long: maximum %d characters", maxInputLength)
	}

	if len(strings.Fields(input)) > maxInputWords {
		return fmt.Errorf("input too complex: maximum %d words allowed", maxInputWords)
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces and - . + ' / ( ) , are allowed")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateStruct runs the validate tags of a decoded request body and
// returns one error listing every failed field
func (v *DataValidatorImpl) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, describeFieldError(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

// describeFieldError renders one failure using the JSON path of the field,
// e.g. "patient.age" or "drugs[1]"
func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "drugname":
		return fmt.Sprintf("%s is not a valid drug name: %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// hasExcessiveRepetition checks for the same character repeated more than 10 times
func hasExcessiveRepetition(input string) bool {
	run := 1
	for i := 1; i < len(input); i++ {
		if input[i] != input[i-1] {
			run = 1
			continue
		}
		run++
		if run > 10 {
			return true
		}
	}
	return false
}

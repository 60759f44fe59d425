// file: internal/server/validators.go
// version: 2.0.0
// guid: 9b0c1d2e-3f4a-5b6c-7d8e-9f0a1b2c3d4e

package server

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
)

const (
	maxSearchLength = 200
	maxExportIDs    = 1000
)

// ValidationError represents a validation error with code
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateID validates that an ID is non-empty and has reasonable format
func ValidateID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ValidationError{
			Field:   "id",
			Message: "id is required",
			Code:    "ID_REQUIRED",
		}
	}
	if len(id) > 256 {
		return ValidationError{
			Field:   "id",
			Message: "id is too long",
			Code:    "ID_TOO_LONG",
		}
	}
	return nil
}

// ValidateExportIDs checks the record ids of an export request.
func ValidateExportIDs(ids []string) error {
	if len(ids) == 0 {
		return ValidationError{
			Field:   "ids",
			Message: "at least one record id is required",
			Code:    "IDS_REQUIRED",
		}
	}
	if len(ids) > maxExportIDs {
		return ValidationError{
			Field:   "ids",
			Message: fmt.Sprintf("ids must not have more than %d items", maxExportIDs),
			Code:    "IDS_TOO_LONG",
		}
	}
	for i, id := range ids {
		if err := ValidateID(id); err != nil {
			return ValidationError{
				Field:   fmt.Sprintf("ids[%d]", i),
				Message: err.(ValidationError).Message,
				Code:    err.(ValidationError).Code,
			}
		}
	}
	return nil
}

// ValidateSearch bounds the free-text search term.
func ValidateSearch(term string) error {
	if utf8.RuneCountInString(term) > maxSearchLength {
		return ValidationError{
			Field:   "search",
			Message: fmt.Sprintf("search must not exceed %d characters", maxSearchLength),
			Code:    "SEARCH_TOO_LONG",
		}
	}
	return nil
}

// ValidateInteger validates that an integer is within acceptable range
func ValidateInteger(value int, fieldName string, minValue int, maxValue int) error {
	if minValue >= 0 && value < minValue {
		return ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be at least %d", fieldName, minValue),
			Code:    fmt.Sprintf("%s_TOO_SMALL", strings.ToUpper(fieldName)),
		}
	}
	if maxValue >= 0 && value > maxValue {
		return ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not exceed %d", fieldName, maxValue),
			Code:    fmt.Sprintf("%s_TOO_LARGE", strings.ToUpper(fieldName)),
		}
	}
	return nil
}

// ValidateDimension resolves a dimension name.
func ValidateDimension(name string) (filter.Dimension, error) {
	d, ok := filter.ParseDimension(strings.TrimSpace(name))
	if !ok {
		return "", ValidationError{
			Field:   "dimension",
			Message: fmt.Sprintf("unknown dimension %q", name),
			Code:    "DIMENSION_INVALID_VALUE",
		}
	}
	return d, nil
}

// ValidateDimensions resolves a comma-separated dimension list. An empty
// list means every dimension and yields nil.
func ValidateDimensions(raw string) ([]filter.Dimension, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var dims []filter.Dimension
	seen := make(map[filter.Dimension]bool)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ValidateDimension(part)
		if err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			dims = append(dims, d)
		}
	}
	return dims, nil
}

// ValidateStringInList validates that a string is one of the allowed values
func ValidateStringInList(value string, fieldName string, allowed []string) error {
	value = strings.TrimSpace(value)
	for _, allowed := range allowed {
		if value == allowed {
			return nil
		}
	}
	return ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("%s must be one of: %v", fieldName, allowed),
		Code:    fmt.Sprintf("%s_INVALID_VALUE", strings.ToUpper(fieldName)),
	}
}

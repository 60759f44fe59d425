// file: internal/server/validators_test.go
// version: 2.0.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f

package server

import (
	"strings"
	"testing"

	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
)

func TestValidateID_Valid(t *testing.T) {
	err := ValidateID("cv-42")
	if err != nil {
		t.Errorf("expected no error for valid id, got %v", err)
	}
}

func TestValidateID_Empty(t *testing.T) {
	err := ValidateID("   ")
	if err == nil {
		t.Fatal("expected error for empty id")
	}
	ve := err.(ValidationError)
	if ve.Code != "ID_REQUIRED" {
		t.Errorf("expected ID_REQUIRED code, got %q", ve.Code)
	}
}

func TestValidateID_TooLong(t *testing.T) {
	err := ValidateID(strings.Repeat("x", 257))
	if err == nil {
		t.Fatal("expected error for long id")
	}
	if err.(ValidationError).Code != "ID_TOO_LONG" {
		t.Errorf("expected ID_TOO_LONG, got %v", err)
	}
}

func TestValidateExportIDs(t *testing.T) {
	if err := ValidateExportIDs([]string{"1", "2"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	err := ValidateExportIDs(nil)
	if err == nil || err.(ValidationError).Code != "IDS_REQUIRED" {
		t.Errorf("expected IDS_REQUIRED, got %v", err)
	}

	err = ValidateExportIDs([]string{"1", ""})
	if err == nil {
		t.Fatal("expected error for blank id")
	}
	ve := err.(ValidationError)
	if ve.Field != "ids[1]" {
		t.Errorf("expected field ids[1], got %q", ve.Field)
	}

	tooMany := make([]string, maxExportIDs+1)
	for i := range tooMany {
		tooMany[i] = "id"
	}
	err = ValidateExportIDs(tooMany)
	if err == nil || err.(ValidationError).Code != "IDS_TOO_LONG" {
		t.Errorf("expected IDS_TOO_LONG, got %v", err)
	}
}

func TestValidateSearch(t *testing.T) {
	if err := ValidateSearch("ماريا"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	// Counted in runes, not bytes.
	if err := ValidateSearch(strings.Repeat("م", maxSearchLength)); err != nil {
		t.Errorf("expected no error at the limit, got %v", err)
	}
	if err := ValidateSearch(strings.Repeat("a", maxSearchLength+1)); err == nil {
		t.Error("expected error past the limit")
	}
}

func TestValidateInteger_Valid(t *testing.T) {
	err := ValidateInteger(50, "count", 0, 100)
	if err != nil {
		t.Errorf("expected no error for valid integer, got %v", err)
	}
}

func TestValidateInteger_BelowMin(t *testing.T) {
	err := ValidateInteger(5, "count", 10, 100)
	if err == nil {
		t.Error("expected error for integer below min")
	}
}

func TestValidateInteger_AboveMax(t *testing.T) {
	err := ValidateInteger(150, "count", 0, 100)
	if err == nil {
		t.Error("expected error for integer above max")
	}
}

func TestValidateDimension(t *testing.T) {
	d, err := ValidateDimension(" nationality ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d != filter.DimNationality {
		t.Errorf("expected nationality, got %q", d)
	}

	if _, err := ValidateDimension("shoeSize"); err == nil {
		t.Error("expected error for unknown dimension")
	}
}

func TestValidateDimensions(t *testing.T) {
	dims, err := ValidateDimensions("")
	if err != nil || dims != nil {
		t.Errorf("expected nil dims for empty list, got %v, %v", dims, err)
	}

	dims, err = ValidateDimensions("age, religion,age,")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dims) != 2 || dims[0] != filter.DimAge || dims[1] != filter.DimReligion {
		t.Errorf("expected [age religion], got %v", dims)
	}

	if _, err := ValidateDimensions("age,bogus"); err == nil {
		t.Error("expected error for unknown dimension in list")
	}
}

func TestValidateStringInList_Valid(t *testing.T) {
	err := ValidateStringInList("running", "status", []string{"queued", "running"})
	if err != nil {
		t.Errorf("expected no error for valid string, got %v", err)
	}
}

func TestValidateStringInList_Invalid(t *testing.T) {
	err := ValidateStringInList("paused", "status", []string{"queued", "running"})
	if err == nil {
		t.Fatal("expected error for invalid string")
	}
	if err.(ValidationError).Code != "STATUS_INVALID_VALUE" {
		t.Errorf("unexpected code %q", err.(ValidationError).Code)
	}
}

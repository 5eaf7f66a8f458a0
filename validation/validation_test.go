package validation

import (
	"testing"

	"github.com/kbukum/datakit/errors"
)

type ckptOptions struct {
	Dir      string `mapstructure:"dir" validate:"required"`
	Prefix   string `mapstructure:"prefix" validate:"required"`
	Interval int    `mapstructure:"interval" validate:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	opts := ckptOptions{Dir: "/tmp", Prefix: "run", Interval: 10}
	if err := Validate(opts); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	opts := ckptOptions{Prefix: "run"}
	err := Validate(opts)
	if err == nil {
		t.Fatal("missing dir should fail")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
	appErr := err.(*errors.AppError)
	if appErr.Details["fields"] == nil {
		t.Error("field details should be attached")
	}
}

func TestValidate_RangeTag(t *testing.T) {
	opts := ckptOptions{Dir: "/tmp", Prefix: "run", Interval: -1}
	if err := Validate(opts); err == nil {
		t.Error("negative interval should fail gte=0")
	}
}

func TestValidator_Fluent(t *testing.T) {
	v := New().
		Required("dir", "").
		Min("shards", 0, 1).
		OneOf("mode", "weird", []string{"strict", "lenient"})
	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(v.Errors()) != 3 {
		t.Errorf("got %d errors, want 3", len(v.Errors()))
	}
	err := v.Validate()
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}

func TestValidator_NoErrors(t *testing.T) {
	v := New().Required("dir", "/tmp").Range("index", 1, 0, 4)
	if v.HasErrors() {
		t.Errorf("unexpected errors: %v", v.Errors())
	}
	if v.Validate() != nil {
		t.Error("Validate should return nil without errors")
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("MaxElements"); got != "max_elements" {
		t.Errorf("toSnakeCase = %q", got)
	}
}

// Package validation validates configuration and option structs, either
// through struct tags (Validate, backed by go-playground/validator) or a
// fluent Validator for hand-rolled checks. Failures surface as coded
// INVALID_INPUT errors with per-field details.
package validation

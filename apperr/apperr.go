// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindBusinessRule Kind = "BUSINESS_RULE"
	KindValidation   Kind = "VALIDATION"
)

// Business rule codes.
const (
	CodeMaxRankReached         = "MAX_RANK_REACHED"
	CodeRequirementsInactive   = "REQUIREMENTS_INACTIVE"
	CodeRequirementsNotMet     = "REQUIREMENTS_NOT_MET"
	CodeDuplicateRequirements  = "DUPLICATE_REQUIREMENTS"
	CodeUnknownRankLevel       = "UNKNOWN_RANK_LEVEL"
	CodeRankChangedConcurrent  = "RANK_CHANGED_CONCURRENTLY"
	CodeInsufficientMana       = "INSUFFICIENT_MANA"
	CodeOutOfStock             = "OUT_OF_STOCK"
	CodeItemInactive           = "ITEM_INACTIVE"
	CodeMissionInactive        = "MISSION_INACTIVE"
	CodeMissionAlreadyComplete = "MISSION_ALREADY_COMPLETED"
	CodeDuplicateName          = "DUPLICATE_NAME"
	CodeStorageDisabled        = "STORAGE_DISABLED"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Details []string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// NotFound names the resource type and the identifier that was looked up.
func NotFound(resource string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

func BusinessRule(code, message string, details ...string) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, Message: message, Details: details}
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: "validation failed", Fields: fields}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

func IsCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

package models

import (
	"errors"
	"fmt"
)

var ErrInvalidRecord = errors.New("invalid record")

type WarningCode string

const (
	WarningNegativeAmount       WarningCode = "negative_amount"
	WarningPaidExceedsTotal     WarningCode = "paid_exceeds_total"
	WarningDueMismatch          WarningCode = "due_mismatch"
	WarningUnknownPaymentMethod WarningCode = "unknown_payment_method"
	WarningInvalidRecord        WarningCode = "invalid_record"
)

// DataIntegrityWarning is surfaced alongside results, never returned as an error.
type DataIntegrityWarning struct {
	RecordKind string      `json:"recordKind"`
	RecordID   string      `json:"recordId"`
	Code       WarningCode `json:"code"`
	Field      string      `json:"field,omitempty"`
	Message    string      `json:"message"`
}

func (w DataIntegrityWarning) String() string {
	return fmt.Sprintf("%s %s: %s (%s)", w.RecordKind, w.RecordID, w.Message, w.Code)
}

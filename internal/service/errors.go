package service

import (
	"fmt"

	"bizdesk/internal/model"
)

// Workflow step names carried by WorkflowError.
const (
	StepCreateOrder = "create_order"
	StepCreateLine  = "create_line"
)

// ValidationError is a pre-flight failure: raised before any write reaches
// the data store and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// WorkflowError is a mid-flight failure of the purchase-order workflow.
// It carries the step that failed and, for line creation, the 0-based line
// index plus the partial state already committed — the order, if created,
// is NOT rolled back.
type WorkflowError struct {
	Step         string
	Index        int // 0-based line index; -1 when not line-scoped
	Order        *model.PurchaseOrder
	LinesCreated int
	Err          error
}

func (e *WorkflowError) Error() string {
	if e.Step == StepCreateLine {
		return fmt.Sprintf("workflow step %s failed for line %d (%d lines already created): %v",
			e.Step, e.Index, e.LinesCreated, e.Err)
	}
	return fmt.Sprintf("workflow step %s failed: %v", e.Step, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// Partial reports whether the workflow left partially created state behind
// (order created but not all lines). Callers use this to distinguish
// "nothing was created" from "partially created, contact support".
func (e *WorkflowError) Partial() bool { return e.Order != nil }

// DerivationError is a post-flight failure of vendor-bill auto-generation.
// It never fails the workflow that triggered it: logged and swallowed.
type DerivationError struct {
	Err error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("vendor bill derivation failed: %v", e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

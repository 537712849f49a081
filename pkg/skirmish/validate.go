package skirmish

import (
	"fmt"
	"strings"
)

// ValidationCode classifies why an action was rejected.
type ValidationCode string

const (
	CodeUnknownUnit     ValidationCode = "UNKNOWN_UNIT"
	CodeForeignUnit     ValidationCode = "FOREIGN_UNIT"
	CodeBadDirection    ValidationCode = "BAD_DIRECTION"
	CodeDuplicateAction ValidationCode = "DUPLICATE_ACTION"
	CodeNullAction      ValidationCode = "NULL_ACTION"
)

// ValidationError describes why a single action is invalid.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// BatchError aggregates every diagnostic for a rejected action batch. A batch
// fails atomically: one bad action rejects the whole submission.
type BatchError struct {
	Diagnostics []*ValidationError
}

func (e *BatchError) Error() string {
	reasons := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		reasons[i] = d.Error()
	}
	return strings.Join(reasons, "; ")
}

// ValidateActions checks an action batch against the current state without
// mutating anything. It returns every diagnostic found, or nil if the batch
// is acceptable. Validation is pure: the same inputs always yield the same
// diagnostics.
func ValidateActions(gs *GameState, playerID string, actions []*Action) []*ValidationError {
	var diags []*ValidationError
	seen := make(map[int]bool, len(actions))
	for i, a := range actions {
		if a == nil {
			diags = append(diags, &ValidationError{CodeNullAction, fmt.Sprintf("action %d is null", i)})
			continue
		}
		if seen[a.UnitID] {
			diags = append(diags, &ValidationError{CodeDuplicateAction, fmt.Sprintf("unit %d ordered more than once", a.UnitID)})
			continue
		}
		seen[a.UnitID] = true

		unit := gs.UnitByID(a.UnitID)
		switch {
		case unit == nil:
			diags = append(diags, &ValidationError{CodeUnknownUnit, fmt.Sprintf("no unit with id %d", a.UnitID)})
		case unit.Kind != UnitPawn:
			diags = append(diags, &ValidationError{CodeUnknownUnit, fmt.Sprintf("unit %d is a %s and cannot move", a.UnitID, unit.Kind)})
		case unit.Owner != playerID:
			diags = append(diags, &ValidationError{CodeForeignUnit, fmt.Sprintf("unit %d is owned by %s, not %s", a.UnitID, unit.Owner, playerID)})
		}

		if !a.Direction.Valid() {
			diags = append(diags, &ValidationError{CodeBadDirection, fmt.Sprintf("unknown direction %q for unit %d", string(a.Direction), a.UnitID)})
		}
	}
	return diags
}

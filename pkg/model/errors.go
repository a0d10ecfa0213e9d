package model

import "fmt"

// InvalidProposalError rejects a proposal that violates trade invariants:
// a player or asset on both sides, or a side giving up nothing.
type InvalidProposalError struct {
	Reason string
}

func (e *InvalidProposalError) Error() string {
	return "invalid proposal: " + e.Reason
}

// IncompleteEvaluationError reports that the classifier or regressor output
// was missing when the evaluation was merged. Results missing either must
// never be forwarded downstream.
type IncompleteEvaluationError struct {
	Missing string
}

func (e *IncompleteEvaluationError) Error() string {
	return fmt.Sprintf("incomplete evaluation: missing %s", e.Missing)
}

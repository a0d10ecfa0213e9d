package service

import (
	"fmt"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"

	dm "github.com/hooplytics/traderadar/pkg/model"
)

func TestMapEngineError_InvalidProposal(t *testing.T) {
	err := mapEngineError(&dm.InvalidProposalError{Reason: "side BOS has zero assets"})

	ke := errors.FromError(err)
	assert.Equal(t, int32(400), ke.Code)
	assert.Equal(t, "INVALID_PROPOSAL", ke.Reason)
}

func TestMapEngineError_IncompleteEvaluation(t *testing.T) {
	err := mapEngineError(&dm.IncompleteEvaluationError{Missing: "win impact"})

	ke := errors.FromError(err)
	assert.Equal(t, int32(422), ke.Code)
	assert.Equal(t, "INCOMPLETE_EVALUATION", ke.Reason)
}

func TestMapEngineError_WrappedInvalidProposal(t *testing.T) {
	wrapped := fmt.Errorf("evaluate: %w", &dm.InvalidProposalError{Reason: "duplicate player"})
	err := mapEngineError(wrapped)

	ke := errors.FromError(err)
	assert.Equal(t, int32(400), ke.Code)
}

func TestMapEngineError_PassThrough(t *testing.T) {
	cause := fmt.Errorf("db offline")
	assert.Equal(t, cause, mapEngineError(cause))
}

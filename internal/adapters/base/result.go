package base

import (
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// OpResultFromError folds a validation rejection into the operation's
// result object; anything else (a transport failure) stays an error so
// it cannot masquerade as a business rejection.
func OpResultFromError(err error) (*model.OpResult, error) {
	if ilserr.IsValidationError(err) {
		return &model.OpResult{Success: false, Status: "error", SysMessage: ilserr.ValidationCode(err)}, nil
	}
	return nil, err
}

// HoldResultFromError does the same for hold placement.
func HoldResultFromError(err error) (*model.HoldResult, error) {
	if ilserr.IsValidationError(err) {
		return &model.HoldResult{Success: false, SysMessage: ilserr.ValidationCode(err)}, nil
	}
	return nil, err
}

// Package settlement derives the ledger posting for a completed task.
package settlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
)

// EntryFor builds the single ledger entry for t. The amount is the frozen
// award amount, never recomputed from bids.
func EntryFor(t *model.Task, at time.Time) (*model.LedgerEntry, error) {
	if t.AwardedTo == nil || t.AwardedAmount == nil {
		return nil, fmt.Errorf("%w: task %s has no award to settle", apperrors.ErrInvalidTransition, t.ID)
	}

	entry := &model.LedgerEntry{
		ID:     uuid.NewString(),
		TaskID: t.ID,
		Payee:  *t.AwardedTo,
		Amount: *t.AwardedAmount,
		At:     at,
	}

	if t.Scope == constants.ScopeShared {
		entry.Type = constants.LedgerChargeCredit
	} else {
		payer := t.CreatedBy
		entry.Type = constants.LedgerApartmentPayment
		entry.Payer = &payer
	}

	return entry, nil
}

// Package auction implements the reverse auction run on an open task: each
// accepted bid must undercut every bid before it and the lowest bid wins.
package auction

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
)

// CurrentBestPrice is the starting price until a bid exists, then the lowest
// recorded amount. It is always recomputed from the bid set.
func CurrentBestPrice(t *model.Task) int64 {
	if lowest, ok := Lowest(t.Bids); ok {
		return lowest.Amount
	}
	return t.StartingPrice
}

// Lowest returns the winning bid: minimum amount, earliest submission on ties.
func Lowest(bids []model.Bid) (model.Bid, bool) {
	if len(bids) == 0 {
		return model.Bid{}, false
	}
	best := bids[0]
	for _, b := range bids[1:] {
		if better(b, best) {
			best = b
		}
	}
	return best, true
}

func better(a, b model.Bid) bool {
	if a.Amount != b.Amount {
		return a.Amount < b.Amount
	}
	if !a.At.Equal(b.At) {
		return a.At.Before(b.At)
	}
	return a.Seq < b.Seq
}

// Place validates a bid against the task and appends it. The first bid
// starts the award clock.
func Place(t *model.Task, bidderID string, amount int64, note string, at time.Time) (*model.Bid, error) {
	if t.Status != constants.StatusOpen {
		return nil, fmt.Errorf("%w: bidding requires an open task, task is %s", apperrors.ErrInvalidTransition, t.Status)
	}
	if bidderID == t.CreatedBy {
		return nil, apperrors.ErrOwnTaskBid
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidBidAmount
	}
	if best := CurrentBestPrice(t); amount >= best {
		return nil, fmt.Errorf("%w: %d >= %d", apperrors.ErrBidNotCompetitive, amount, best)
	}

	bid := model.Bid{
		ID:       uuid.NewString(),
		TaskID:   t.ID,
		Seq:      nextSeq(t.Bids),
		BidderID: bidderID,
		Amount:   amount,
		Note:     note,
		At:       at,
	}
	t.Bids = append(t.Bids, bid)

	if t.BiddingStartedAt == nil {
		started := at
		t.BiddingStartedAt = &started
	}

	return &bid, nil
}

// Award freezes the lowest bid into the task's award fields.
func Award(t *model.Task) (model.Bid, error) {
	if t.AwardedTo != nil {
		return model.Bid{}, fmt.Errorf("%w: task already awarded", apperrors.ErrInvalidTransition)
	}
	winner, ok := Lowest(t.Bids)
	if !ok {
		return model.Bid{}, fmt.Errorf("%w: no bids recorded", apperrors.ErrInvalidTransition)
	}

	bidder := winner.BidderID
	amount := winner.Amount
	t.AwardedTo = &bidder
	t.AwardedAmount = &amount

	return winner, nil
}

// WindowElapsed reports whether the bidding window measured from the first
// bid has passed at now.
func WindowElapsed(t *model.Task, window time.Duration, now time.Time) bool {
	if t.BiddingStartedAt == nil || len(t.Bids) == 0 {
		return false
	}
	return now.Sub(*t.BiddingStartedAt) >= window
}

func nextSeq(bids []model.Bid) int {
	seq := 0
	for _, b := range bids {
		if b.Seq > seq {
			seq = b.Seq
		}
	}
	return seq + 1
}

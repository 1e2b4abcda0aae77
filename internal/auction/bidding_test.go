package auction

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func openTask(startingPrice int64) *model.Task {
	return &model.Task{
		ID:            "task-1",
		Status:        constants.StatusOpen,
		StartingPrice: startingPrice,
		CreatedBy:     "proposer",
	}
}

func TestPlace_ReverseAuction(t *testing.T) {
	task := openTask(15)

	if _, err := Place(task, "alice", 12, "", base); err != nil {
		t.Fatalf("bid of 12 should be accepted: %v", err)
	}
	if task.BiddingStartedAt == nil || !task.BiddingStartedAt.Equal(base) {
		t.Fatalf("first bid should start the clock, got %v", task.BiddingStartedAt)
	}

	_, err := Place(task, "bob", 13, "", base.Add(time.Minute))
	if !errors.Is(err, apperrors.ErrBidNotCompetitive) {
		t.Fatalf("bid of 13 should be rejected as not competitive, got %v", err)
	}

	_, err = Place(task, "bob", 12, "", base.Add(time.Minute))
	if !errors.Is(err, apperrors.ErrBidNotCompetitive) {
		t.Fatalf("equal bid should be rejected, got %v", err)
	}

	if _, err := Place(task, "bob", 10, "can start monday", base.Add(2*time.Minute)); err != nil {
		t.Fatalf("bid of 10 should be accepted: %v", err)
	}

	if got := CurrentBestPrice(task); got != 10 {
		t.Errorf("current best price = %d, want 10", got)
	}
	if !task.BiddingStartedAt.Equal(base) {
		t.Error("bidding start must not move after the first bid")
	}
	if len(task.Bids) != 2 || task.Bids[1].Seq != 2 {
		t.Errorf("unexpected bids: %+v", task.Bids)
	}
}

func TestPlace_Guards(t *testing.T) {
	task := openTask(15)

	if _, err := Place(task, "proposer", 5, "", base); !errors.Is(err, apperrors.ErrOwnTaskBid) {
		t.Errorf("expected ErrOwnTaskBid, got %v", err)
	}
	if _, err := Place(task, "alice", 0, "", base); !errors.Is(err, apperrors.ErrInvalidBidAmount) {
		t.Errorf("expected ErrInvalidBidAmount, got %v", err)
	}
	if _, err := Place(task, "alice", 15, "", base); !errors.Is(err, apperrors.ErrBidNotCompetitive) {
		t.Errorf("bid equal to starting price must be rejected, got %v", err)
	}

	task.Status = constants.StatusPending
	if _, err := Place(task, "alice", 5, "", base); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on pending task, got %v", err)
	}
	if len(task.Bids) != 0 {
		t.Error("rejected bids must not be recorded")
	}
}

func TestPlace_StoredMinimumIsGlobalMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	task := openTask(1000)

	var accepted []int64
	for i := 0; i < 200; i++ {
		amount := int64(rng.Intn(1100))
		before := CurrentBestPrice(task)
		_, err := Place(task, "bidder", amount, "", base.Add(time.Duration(i)*time.Second))
		if err != nil {
			continue
		}
		if amount >= before {
			t.Fatalf("accepted %d although best was %d", amount, before)
		}
		accepted = append(accepted, amount)
	}

	if len(accepted) == 0 {
		t.Fatal("expected some accepted bids")
	}
	best := accepted[0]
	for _, a := range accepted {
		if a < best {
			best = a
		}
	}
	lowest, _ := Lowest(task.Bids)
	if lowest.Amount != best {
		t.Errorf("lowest = %d, want %d", lowest.Amount, best)
	}
}

func TestLowest_TieBreaksOnEarliestSubmission(t *testing.T) {
	bids := []model.Bid{
		{ID: "late", Seq: 3, Amount: 8, At: base.Add(time.Hour)},
		{ID: "early", Seq: 2, Amount: 8, At: base},
		{ID: "high", Seq: 1, Amount: 9, At: base.Add(-time.Hour)},
	}
	got, ok := Lowest(bids)
	if !ok || got.ID != "early" {
		t.Errorf("expected earliest minimum bid, got %+v", got)
	}

	sameInstant := []model.Bid{
		{ID: "second", Seq: 2, Amount: 8, At: base},
		{ID: "first", Seq: 1, Amount: 8, At: base},
	}
	got, _ = Lowest(sameInstant)
	if got.ID != "first" {
		t.Errorf("expected sequence tie-break, got %s", got.ID)
	}
}

func TestAward(t *testing.T) {
	task := openTask(15)
	if _, err := Award(task); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("award without bids must fail, got %v", err)
	}

	_, _ = Place(task, "alice", 12, "", base)
	_, _ = Place(task, "bob", 10, "", base.Add(time.Minute))

	winner, err := Award(task)
	if err != nil {
		t.Fatalf("award failed: %v", err)
	}
	if winner.BidderID != "bob" || *task.AwardedTo != "bob" || *task.AwardedAmount != 10 {
		t.Errorf("unexpected award: %+v", winner)
	}
	if _, err := Award(task); err == nil {
		t.Error("second award must fail")
	}
}

func TestWindowElapsed(t *testing.T) {
	task := openTask(15)
	window := 24 * time.Hour
	if WindowElapsed(task, window, base.Add(48*time.Hour)) {
		t.Error("no bids means no window")
	}

	_, _ = Place(task, "alice", 12, "", base)
	if WindowElapsed(task, window, base.Add(23*time.Hour)) {
		t.Error("window not elapsed yet")
	}
	if !WindowElapsed(task, window, base.Add(24*time.Hour)) {
		t.Error("window elapsed exactly at 24h")
	}
}

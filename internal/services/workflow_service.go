package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"repair-pool.com/repair-pool/internal/access"
	"repair-pool.com/repair-pool/internal/auction"
	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	"repair-pool.com/repair-pool/internal/lifecycle"
	"repair-pool.com/repair-pool/internal/metrics"
	model "repair-pool.com/repair-pool/internal/models"
	"repair-pool.com/repair-pool/internal/notify"
	"repair-pool.com/repair-pool/internal/quorum"
	"repair-pool.com/repair-pool/internal/settlement"
)

const (
	AwardTriggerManual    = "manual"
	AwardTriggerScheduler = "scheduler"
)

type Options struct {
	MinApprovals     int
	MaxStartingPrice int64
	MaxAttempts      int
	BiddingWindow    time.Duration
	Now              func() time.Time
}

// WorkflowService is the only writer of task state. Every operation loads
// the task, checks its guards, mutates it in memory and saves it against the
// version it was loaded at.
type WorkflowService struct {
	store            Store
	directory        Directory
	notifier         notify.Notifier
	policy           quorum.Policy
	maxStartingPrice int64
	maxAttempts      int
	window           time.Duration
	now              func() time.Time
}

type ProposeTaskInput struct {
	Title         string
	Category      constants.Category
	Scope         constants.Scope
	Location      string
	Details       string
	PhotoRef      *string
	StartingPrice int64
	WarrantyDays  int
}

// change is what a successful apply step hands back for commit.
type change struct {
	from     constants.TaskStatus
	to       constants.TaskStatus
	ledger   *model.LedgerEntry
	intents  []intent
	onCommit func()
}

type intent struct {
	recipients []string
	roles      []constants.Role
	subject    string
	body       string
}

func NewWorkflowService(store Store, directory Directory, notifier notify.Notifier, opts Options) *WorkflowService {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BiddingWindow <= 0 {
		opts.BiddingWindow = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &WorkflowService{
		store:            store,
		directory:        directory,
		notifier:         notifier,
		policy:           quorum.NewPolicy(opts.MinApprovals),
		maxStartingPrice: opts.MaxStartingPrice,
		maxAttempts:      opts.MaxAttempts,
		window:           opts.BiddingWindow,
		now:              opts.Now,
	}
}

func (s *WorkflowService) ProposeTask(ctx context.Context, actorID string, in ProposeTaskInput) (*model.Task, error) {
	actor, err := s.actor(ctx, actorID, access.ProposeTask)
	if err != nil {
		return nil, err
	}
	if err := s.validateProposal(in); err != nil {
		return nil, err
	}

	now := s.clock()
	task := &model.Task{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Category:      in.Category,
		Scope:         in.Scope,
		Location:      in.Location,
		Details:       in.Details,
		PhotoRef:      in.PhotoRef,
		StartingPrice: in.StartingPrice,
		WarrantyDays:  in.WarrantyDays,
		Status:        constants.StatusPending,
		Version:       1,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
	}

	if access.Elevated(actor) {
		if _, err := quorum.RecordApproval(task, actor, now); err != nil {
			return nil, err
		}
		if s.policy.Reached(task) {
			task.Status = constants.StatusOpen
		}
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	log.Printf("workflow: task %s proposed by %s (%s)", task.ID, actor.ID, task.Status)

	ch := &change{from: constants.StatusPending, to: task.Status}
	if task.Status == constants.StatusOpen {
		ch.intents = append(ch.intents, openedIntent(task))
	} else {
		ch.intents = append(ch.intents, intent{
			roles:   access.ElevatedRoles(),
			subject: fmt.Sprintf("New proposal: %s", task.Title),
			body:    fmt.Sprintf("%s proposed %q (%s, %s) starting at %d and awaits approval.", actor.ID, task.Title, task.Category, task.Location, task.StartingPrice),
		})
	}
	s.committed(ctx, task, ch)

	return task, nil
}

// Approve records an approval and opens the task once quorum is reached.
func (s *WorkflowService) Approve(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	actor, err := s.actor(ctx, actorID, access.ApproveTask)
	if err != nil {
		return nil, err
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		if ok, err := lifecycle.Check(task.Status, lifecycle.Approval); !ok {
			return nil, err
		}
		if task.CreatedBy == actor.ID && !access.Elevated(actor) {
			return nil, fmt.Errorf("%w: proposers cannot approve their own task", apperrors.ErrNotPermitted)
		}
		if _, err := quorum.RecordApproval(task, actor, now); err != nil {
			return nil, err
		}

		ch := &change{from: task.Status, to: task.Status}
		if s.policy.Reached(task) {
			task.Status = constants.StatusOpen
			ch.to = constants.StatusOpen
			ch.intents = append(ch.intents, openedIntent(task))
		}
		return ch, nil
	})
	return task, err
}

// Reject records a rejection, which ends the task immediately.
func (s *WorkflowService) Reject(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	actor, err := s.actor(ctx, actorID, access.RejectTask)
	if err != nil {
		return nil, err
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		if ok, err := lifecycle.Check(task.Status, lifecycle.Rejection); !ok {
			return nil, err
		}
		if _, err := quorum.RecordRejection(task, actor, now); err != nil {
			return nil, err
		}

		task.Status = constants.StatusRejected
		return &change{
			from: constants.StatusPending,
			to:   constants.StatusRejected,
			intents: []intent{{
				recipients: []string{task.CreatedBy},
				subject:    fmt.Sprintf("Proposal rejected: %s", task.Title),
				body:       fmt.Sprintf("%s rejected your proposal %q.", actor.ID, task.Title),
			}},
		}, nil
	})
	return task, err
}

func (s *WorkflowService) PlaceBid(ctx context.Context, taskID, actorID string, amount int64, note string) (*model.Task, error) {
	actor, err := s.actor(ctx, actorID, access.PlaceBid)
	if err != nil {
		return nil, err
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		bid, err := auction.Place(task, actor.ID, amount, note, now)
		if err != nil {
			return nil, err
		}
		log.Printf("workflow: task %s bid %d by %s", task.ID, bid.Amount, bid.BidderID)
		return &change{from: task.Status, to: task.Status}, nil
	})

	metrics.Bids.WithLabelValues(bidResult(err)).Inc()
	return task, err
}

// AwardLowest lets the proposer close bidding early on the lowest bid.
func (s *WorkflowService) AwardLowest(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	actor, err := s.lookup(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		if task.CreatedBy != actor.ID {
			return nil, fmt.Errorf("%w: only the proposer can award", apperrors.ErrNotPermitted)
		}
		if ok, err := lifecycle.Check(task.Status, lifecycle.Award); !ok {
			return nil, err
		}
		return s.award(task, AwardTriggerManual)
	})
	return task, err
}

// AutoAward awards a task whose bidding window has elapsed. It reports
// whether this call made the award; losing a race to another award is not
// an error.
func (s *WorkflowService) AutoAward(ctx context.Context, taskID string) (*model.Task, bool, error) {
	return s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		if ok, err := lifecycle.Check(task.Status, lifecycle.Award); !ok {
			return nil, err
		}
		if !auction.WindowElapsed(task, s.window, now) {
			return nil, fmt.Errorf("%w: bidding window still open", apperrors.ErrInvalidTransition)
		}
		return s.award(task, AwardTriggerScheduler)
	})
}

// DueForAward lists open tasks whose bidding window has elapsed.
func (s *WorkflowService) DueForAward(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.store.ListTasksByStatus(ctx, constants.StatusOpen)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	due := tasks[:0]
	for _, t := range tasks {
		if auction.WindowElapsed(&t, s.window, now) {
			due = append(due, t)
		}
	}
	return due, nil
}

func (s *WorkflowService) award(task *model.Task, trigger string) (*change, error) {
	winner, err := auction.Award(task)
	if err != nil {
		return nil, err
	}
	task.Status = constants.StatusAwarded

	return &change{
		from: constants.StatusOpen,
		to:   constants.StatusAwarded,
		intents: []intent{
			{
				recipients: []string{winner.BidderID},
				subject:    fmt.Sprintf("You won: %s", task.Title),
				body:       fmt.Sprintf("Your bid of %d won %q. Please carry out the work and request verification when done.", winner.Amount, task.Title),
			},
			{
				roles:   access.ElevatedRoles(),
				subject: fmt.Sprintf("Task awarded: %s", task.Title),
				body:    fmt.Sprintf("%q was awarded to %s for %d (%s award).", task.Title, winner.BidderID, winner.Amount, trigger),
			},
		},
		onCommit: func() {
			metrics.Awards.WithLabelValues(trigger).Inc()
			log.Printf("workflow: task %s awarded to %s for %d (%s)", task.ID, winner.BidderID, winner.Amount, trigger)
		},
	}, nil
}

func (s *WorkflowService) RequestVerification(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	actor, err := s.lookup(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		if !task.IsAssignee(actor.ID) {
			return nil, fmt.Errorf("%w: only the assigned worker can request verification", apperrors.ErrNotPermitted)
		}
		if ok, err := lifecycle.Check(task.Status, lifecycle.Submission); !ok {
			return nil, err
		}

		task.Status = constants.StatusVerification
		return &change{
			from: constants.StatusAwarded,
			to:   constants.StatusVerification,
			intents: []intent{{
				roles:   access.ElevatedRoles(),
				subject: fmt.Sprintf("Ready for verification: %s", task.Title),
				body:    fmt.Sprintf("%s finished %q at %s and asks for verification.", actor.ID, task.Title, task.Location),
			}},
		}, nil
	})
	return task, err
}

// RejectWork sends a task under verification back to its worker.
func (s *WorkflowService) RejectWork(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	actor, err := s.actor(ctx, actorID, access.VerifyWork)
	if err != nil {
		return nil, err
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		if ok, err := lifecycle.Check(task.Status, lifecycle.Rework); !ok {
			return nil, err
		}

		task.Status = constants.StatusAwarded
		return &change{
			from: constants.StatusVerification,
			to:   constants.StatusAwarded,
			intents: []intent{{
				recipients: []string{*task.AwardedTo},
				subject:    fmt.Sprintf("Rework needed: %s", task.Title),
				body:       fmt.Sprintf("%s did not accept the work on %q. Please fix it and request verification again.", actor.ID, task.Title),
			}},
		}, nil
	})
	return task, err
}

// AcceptWork completes the task and posts its ledger entry in the same
// storage transaction.
func (s *WorkflowService) AcceptWork(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	actor, err := s.actor(ctx, actorID, access.VerifyWork)
	if err != nil {
		return nil, err
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		if task.IsAssignee(actor.ID) {
			return nil, fmt.Errorf("%w: workers cannot verify their own work", apperrors.ErrNotPermitted)
		}
		if ok, err := lifecycle.Check(task.Status, lifecycle.Verification); !ok {
			return nil, err
		}

		entry, err := settlement.EntryFor(task, now)
		if err != nil {
			return nil, err
		}

		completedAt := now
		validatedBy := actor.ID
		task.Status = constants.StatusCompleted
		task.CompletionAt = &completedAt
		task.ValidatedBy = &validatedBy

		return &change{
			from:   constants.StatusVerification,
			to:     constants.StatusCompleted,
			ledger: entry,
			intents: []intent{{
				recipients: []string{entry.Payee, task.CreatedBy},
				subject:    fmt.Sprintf("Completed: %s", task.Title),
				body:       fmt.Sprintf("%q was verified by %s. %d is posted as %s.", task.Title, actor.ID, entry.Amount, entry.Type),
			}},
			onCommit: func() {
				metrics.LedgerPostings.WithLabelValues(string(entry.Type)).Inc()
			},
		}, nil
	})
	return task, err
}

func (s *WorkflowService) RateTask(ctx context.Context, taskID, actorID string, stars int, comment string) (*model.Task, error) {
	actor, err := s.actor(ctx, actorID, access.RateTask)
	if err != nil {
		return nil, err
	}
	if stars < 1 || stars > 5 {
		return nil, fmt.Errorf("%w: stars must be between 1 and 5", apperrors.ErrInvalidRating)
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		if task.Status != constants.StatusCompleted {
			return nil, fmt.Errorf("%w: only completed tasks can be rated", apperrors.ErrInvalidTransition)
		}
		if task.IsAssignee(actor.ID) {
			return nil, fmt.Errorf("%w: workers cannot rate their own work", apperrors.ErrNotPermitted)
		}

		task.Ratings = append(task.Ratings, model.Rating{
			ID:       uuid.NewString(),
			TaskID:   task.ID,
			AuthorID: actor.ID,
			Stars:    stars,
			Comment:  comment,
			At:       now,
		})
		return &change{from: task.Status, to: task.Status}, nil
	})
	return task, err
}

// DeleteRating archives a rating. Authors may remove their own; admins any.
func (s *WorkflowService) DeleteRating(ctx context.Context, taskID, ratingID, actorID string) (*model.Task, error) {
	actor, err := s.lookup(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, _, err := s.mutate(ctx, taskID, func(task *model.Task, now time.Time) (*change, error) {
		idx := -1
		for i, r := range task.Ratings {
			if r.ID == ratingID {
				idx = i
				break
			}
		}
		if idx < 0 {
			for _, d := range task.DeletedRatings {
				if d.ID == ratingID {
					return nil, nil
				}
			}
			return nil, fmt.Errorf("%w: %s", apperrors.ErrRatingNotFound, ratingID)
		}

		rating := task.Ratings[idx]
		if rating.AuthorID != actor.ID && !access.Allows(actor, access.Administer) {
			return nil, fmt.Errorf("%w: only the author or an admin can delete a rating", apperrors.ErrNotPermitted)
		}

		task.Ratings = append(task.Ratings[:idx], task.Ratings[idx+1:]...)
		task.DeletedRatings = append(task.DeletedRatings, model.DeletedRating{
			ID:        rating.ID,
			TaskID:    rating.TaskID,
			AuthorID:  rating.AuthorID,
			Stars:     rating.Stars,
			Comment:   rating.Comment,
			At:        rating.At,
			DeletedBy: actor.ID,
			DeletedAt: now,
		})
		return &change{from: task.Status, to: task.Status}, nil
	})
	return task, err
}

// DeleteTask is the administrative override; it bypasses the status graph
// and leaves ledger entries in place.
func (s *WorkflowService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	actor, err := s.actor(ctx, actorID, access.Administer)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	log.Printf("workflow: task %s deleted by %s", taskID, actor.ID)
	return nil
}

func (s *WorkflowService) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	if taskID == "" {
		return nil, apperrors.ErrTaskIDRequired
	}
	return s.store.GetTask(ctx, taskID)
}

// ListTasks returns every task, or only those in status when it is set.
func (s *WorkflowService) ListTasks(ctx context.Context, status constants.TaskStatus) ([]model.Task, error) {
	if status == "" {
		return s.store.ListTasks(ctx)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidTask, status)
	}
	return s.store.ListTasksByStatus(ctx, status)
}

func (s *WorkflowService) ListLedger(ctx context.Context) ([]model.LedgerEntry, error) {
	return s.store.ListLedger(ctx)
}

func (s *WorkflowService) DeleteLedgerEntry(ctx context.Context, entryID, actorID string) error {
	actor, err := s.actor(ctx, actorID, access.Administer)
	if err != nil {
		return err
	}
	if err := s.store.DeleteLedgerEntry(ctx, entryID); err != nil {
		return err
	}
	log.Printf("workflow: ledger entry %s deleted by %s", entryID, actor.ID)
	return nil
}

// mutate is the per-task write gate. apply returns a nil change when the
// requested effect is already in place; nothing is written in that case.
func (s *WorkflowService) mutate(
	ctx context.Context,
	taskID string,
	apply func(task *model.Task, now time.Time) (*change, error),
) (*model.Task, bool, error) {
	if taskID == "" {
		return nil, false, apperrors.ErrTaskIDRequired
	}

	for attempt := 1; ; attempt++ {
		task, err := s.store.GetTask(ctx, taskID)
		if err != nil {
			return nil, false, err
		}

		ch, err := apply(task, s.clock())
		if err != nil {
			return nil, false, err
		}
		if ch == nil {
			return task, false, nil
		}

		expected := task.Version
		err = s.store.Transaction(ctx, func(tx Store) error {
			if err := tx.SaveTask(ctx, task, expected); err != nil {
				return err
			}
			if ch.ledger != nil {
				return tx.AppendLedgerEntry(ctx, ch.ledger)
			}
			return nil
		})
		if err == nil {
			s.committed(ctx, task, ch)
			return task, true, nil
		}
		if !errors.Is(err, apperrors.ErrConcurrentModification) {
			return nil, false, err
		}

		metrics.Conflicts.Inc()
		if attempt >= s.maxAttempts {
			return nil, false, err
		}
		log.Printf("workflow: task %s changed underneath us, retrying (%d/%d)", taskID, attempt, s.maxAttempts)
	}
}

func (s *WorkflowService) committed(ctx context.Context, task *model.Task, ch *change) {
	if ch.from != ch.to {
		metrics.Transitions.WithLabelValues(string(ch.from), string(ch.to)).Inc()
		log.Printf("workflow: task %s %s -> %s", task.ID, ch.from, ch.to)
	}
	if ch.onCommit != nil {
		ch.onCommit()
	}

	ctx = context.WithoutCancel(ctx)
	for _, in := range ch.intents {
		s.dispatch(ctx, task, in)
	}
}

func (s *WorkflowService) dispatch(ctx context.Context, task *model.Task, in intent) {
	seen := make(map[string]bool)
	var recipients []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			recipients = append(recipients, id)
		}
	}

	for _, id := range in.recipients {
		add(id)
	}
	if len(in.roles) > 0 {
		residents, err := s.directory.ListByRoles(ctx, in.roles...)
		if err != nil {
			log.Printf("workflow: resolving recipients for task %s: %v", task.ID, err)
		}
		for _, r := range residents {
			add(r.ID)
		}
	}
	if len(recipients) == 0 {
		return
	}

	err := s.notifier.Notify(ctx, notify.Notification{
		TaskID:     task.ID,
		Recipients: recipients,
		Subject:    in.subject,
		Body:       in.body,
		At:         s.clock(),
	})
	if err != nil {
		metrics.NotificationFailures.Inc()
		log.Printf("workflow: notification for task %s failed: %v", task.ID, err)
	}
}

// Authorize checks that actorID is an active resident holding capability.
// Entry points outside the workflow, such as a manual sweep, use it.
func (s *WorkflowService) Authorize(ctx context.Context, actorID string, capability access.Capability) error {
	_, err := s.actor(ctx, actorID, capability)
	return err
}

func (s *WorkflowService) actor(ctx context.Context, actorID string, capability access.Capability) (*model.Resident, error) {
	actor, err := s.lookup(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(actor, capability); err != nil {
		return nil, err
	}
	return actor, nil
}

// lookup resolves an active resident without checking any capability.
func (s *WorkflowService) lookup(ctx context.Context, actorID string) (*model.Resident, error) {
	if actorID == "" {
		return nil, apperrors.ErrResidentIDRequired
	}
	actor, err := s.directory.Lookup(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Active {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrResidentInactive, actor.ID)
	}
	return actor, nil
}

func (s *WorkflowService) validateProposal(in ProposeTaskInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidTask)
	case !in.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrInvalidTask, in.Category)
	case !in.Scope.Valid():
		return fmt.Errorf("%w: unknown scope %q", apperrors.ErrInvalidTask, in.Scope)
	case in.StartingPrice <= 0:
		return fmt.Errorf("%w: starting price must be positive", apperrors.ErrInvalidTask)
	case s.maxStartingPrice > 0 && in.StartingPrice > s.maxStartingPrice:
		return fmt.Errorf("%w: starting price exceeds %d", apperrors.ErrInvalidTask, s.maxStartingPrice)
	case in.WarrantyDays < 0:
		return fmt.Errorf("%w: warranty days cannot be negative", apperrors.ErrInvalidTask)
	}
	return nil
}

func (s *WorkflowService) clock() time.Time {
	return s.now().UTC()
}

func openedIntent(task *model.Task) intent {
	return intent{
		recipients: []string{task.CreatedBy},
		subject:    fmt.Sprintf("Open for bids: %s", task.Title),
		body:       fmt.Sprintf("%q was approved and residents can now bid below %d.", task.Title, task.StartingPrice),
	}
}

func bidResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, apperrors.ErrBidNotCompetitive):
		return "not_competitive"
	default:
		return "rejected"
	}
}

package services_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "repair-pool.com/repair-pool/internal/configs"
	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
	"repair-pool.com/repair-pool/internal/notify"
	repository "repair-pool.com/repair-pool/internal/repositories"
	"repair-pool.com/repair-pool/internal/services"
)

var start = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

// fakeClock is shared by the workflow and the test so the bidding window can
// be crossed without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) withSubject(prefix string) []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Notification
	for _, n := range r.sent {
		if strings.HasPrefix(n.Subject, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// failingLedgerStore refuses every ledger append, inside transactions too.
type failingLedgerStore struct {
	services.Store
}

func (f *failingLedgerStore) AppendLedgerEntry(context.Context, *model.LedgerEntry) error {
	return fmt.Errorf("%w: ledger offline", apperrors.ErrStorage)
}

func (f *failingLedgerStore) Transaction(ctx context.Context, fn func(tx services.Store) error) error {
	return f.Store.Transaction(ctx, func(tx services.Store) error {
		return fn(&failingLedgerStore{Store: tx})
	})
}

type fixture struct {
	repo      *repository.TaskRepository
	residents *repository.ResidentRepository
	notifier  *recordingNotifier
	clock     *fakeClock
	workflow  *services.WorkflowService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func newFixture(t *testing.T, opts services.Options) *fixture {
	t.Helper()

	db := setupTestDB(t)
	f := &fixture{
		repo:      repository.NewTaskRepository(db),
		residents: repository.NewResidentRepository(db),
		notifier:  &recordingNotifier{},
		clock:     &fakeClock{now: start},
	}

	seed := []model.Resident{
		{ID: "olga", Role: constants.RoleOwner, Active: true},
		{ID: "omar", Role: constants.RoleOwner, Active: true},
		{ID: "wally", Role: constants.RoleOwner, Active: true},
		{ID: "walt", Role: constants.RoleOwner, Active: true},
		{ID: "carla", Role: constants.RoleCouncil, Active: true},
		{ID: "cyrus", Role: constants.RoleCouncil, Active: true},
		{ID: "ada", Role: constants.RoleAdmin, Active: true},
		{ID: "banned", Role: constants.RoleCouncil, Active: false},
	}
	for i := range seed {
		if err := f.residents.Upsert(context.Background(), &seed[i]); err != nil {
			t.Fatalf("seeding residents: %v", err)
		}
	}

	if opts.MinApprovals == 0 {
		opts.MinApprovals = 2
	}
	if opts.MaxStartingPrice == 0 {
		opts.MaxStartingPrice = 500
	}
	opts.Now = f.clock.Now
	f.workflow = services.NewWorkflowService(f.repo, f.residents, f.notifier, opts)

	return f
}

func proposal(price int64, scope constants.Scope) services.ProposeTaskInput {
	return services.ProposeTaskInput{
		Title:         "Fix hallway light",
		Category:      constants.CategoryElectrical,
		Scope:         scope,
		Location:      "3rd floor hallway",
		Details:       "Flickers at night",
		StartingPrice: price,
		WarrantyDays:  30,
	}
}

// openTask proposes a task as olga and opens it with two council approvals.
func (f *fixture) openTask(t *testing.T, price int64, scope constants.Scope) *model.Task {
	t.Helper()
	ctx := context.Background()

	task, err := f.workflow.ProposeTask(ctx, "olga", proposal(price, scope))
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	for _, approver := range []string{"carla", "cyrus"} {
		if task, err = f.workflow.Approve(ctx, task.ID, approver); err != nil {
			t.Fatalf("approve by %s: %v", approver, err)
		}
	}
	if task.Status != constants.StatusOpen {
		t.Fatalf("expected open task, got %s", task.Status)
	}
	return task
}

// awardedTask opens a task, takes one bid from walt and awards it manually.
func (f *fixture) awardedTask(t *testing.T, scope constants.Scope) *model.Task {
	t.Helper()
	ctx := context.Background()

	task := f.openTask(t, 15, scope)
	if _, err := f.workflow.PlaceBid(ctx, task.ID, "walt", 10, ""); err != nil {
		t.Fatalf("bid: %v", err)
	}
	task, err := f.workflow.AwardLowest(ctx, task.ID, "olga")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	return task
}

func (f *fixture) reload(t *testing.T, id string) *model.Task {
	t.Helper()
	task, err := f.repo.GetTask(context.Background(), id)
	if err != nil {
		t.Fatalf("reload %s: %v", id, err)
	}
	return task
}

func (f *fixture) ledger(t *testing.T) []model.LedgerEntry {
	t.Helper()
	entries, err := f.repo.ListLedger(context.Background())
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	return entries
}

package services

import (
	"context"

	"repair-pool.com/repair-pool/internal/constants"
	model "repair-pool.com/repair-pool/internal/models"
)

// Store is the task and ledger storage the workflow writes through.
// SaveTask fails with ErrConcurrentModification when the stored version is
// not expectedVersion.
type Store interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListTasksByStatus(ctx context.Context, status constants.TaskStatus) ([]model.Task, error)
	SaveTask(ctx context.Context, task *model.Task, expectedVersion uint) error
	DeleteTask(ctx context.Context, id string) error

	AppendLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error
	ListLedger(ctx context.Context) ([]model.LedgerEntry, error)
	DeleteLedgerEntry(ctx context.Context, id string) error

	// Transaction runs fn against a Store bound to one storage transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// Directory resolves resident identity to role and standing.
type Directory interface {
	Lookup(ctx context.Context, id string) (*model.Resident, error)
	ListByRoles(ctx context.Context, roles ...constants.Role) ([]model.Resident, error)
}

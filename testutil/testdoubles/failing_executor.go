package testdoubles

import (
	"context"
	"fmt"
	"sync"

	"github.com/eroberer/bookcatalog/catalog"
)

// FailingExecutor wraps a catalog.StatementExecutor and fails chosen statements.
// A statement fails on its Nth execution (1-based) when configured with FailOn.
type FailingExecutor struct {
	next     catalog.StatementExecutor
	failures map[catalog.StatementName]map[int]error
	calls    map[catalog.StatementName]int
	mu       sync.Mutex
}

// NewFailingExecutor creates a FailingExecutor that delegates to next until told otherwise.
func NewFailingExecutor(next catalog.StatementExecutor) *FailingExecutor {
	return &FailingExecutor{
		next:     next,
		failures: make(map[catalog.StatementName]map[int]error),
		calls:    make(map[catalog.StatementName]int),
	}
}

// FailOn makes the given execution of the statement fail with err wrapped in catalog.ErrStatementExecutionFailed.
// Call 0 means every execution fails.
func (f *FailingExecutor) FailOn(name catalog.StatementName, call int, err error) *FailingExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures[name] == nil {
		f.failures[name] = make(map[int]error)
	}

	f.failures[name][call] = fmt.Errorf("%w: %w", catalog.ErrStatementExecutionFailed, err)

	return f
}

// Calls returns how often the statement was executed.
func (f *FailingExecutor) Calls(name catalog.StatementName) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[name]
}

// Exec implements catalog.StatementExecutor.
func (f *FailingExecutor) Exec(ctx context.Context, name catalog.StatementName, params catalog.Params) (int64, error) {
	if err := f.count(name); err != nil {
		return 0, err
	}

	return f.next.Exec(ctx, name, params)
}

// Query implements catalog.StatementExecutor.
func (f *FailingExecutor) Query(ctx context.Context, name catalog.StatementName, params catalog.Params) (catalog.RowStream, error) {
	if err := f.count(name); err != nil {
		return nil, err
	}

	return f.next.Query(ctx, name, params)
}

// Get implements catalog.StatementExecutor.
func (f *FailingExecutor) Get(ctx context.Context, name catalog.StatementName, params catalog.Params) (catalog.Row, bool, error) {
	if err := f.count(name); err != nil {
		return nil, false, err
	}

	return f.next.Get(ctx, name, params)
}

func (f *FailingExecutor) count(name catalog.StatementName) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[name]++

	if err, ok := f.failures[name][0]; ok {
		return err
	}

	return f.failures[name][f.calls[name]]
}

package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Cascade sequences run
// under ExecTx so a multi-step delete either commits whole or rolls back;
// the individual deletes stay idempotent regardless, so replaying a
// cascade after a mid-flight failure is safe even without the wrapper.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}

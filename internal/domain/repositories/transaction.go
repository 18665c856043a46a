package repositories

import "context"

// TxFn is the unit of work passed to ExecTx. Repositories called with its
// ctx join the surrounding transaction.
type TxFn func(ctx context.Context) error

// TransactionManager groups repository calls into one atomic unit.
// Document updates and their notification fan-out commit or roll back together.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

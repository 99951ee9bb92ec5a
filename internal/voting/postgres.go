package voting

import (
	"context"
	"database/sql"
	"fmt"

	ledgerstore "securevote/internal/ledger/store"
	rollstore "securevote/internal/roll/store"
)

// PostgresRunner wraps each vote in a database transaction. Row locks do the
// serialization: FOR UPDATE on the voter's roll row and on the single
// ledger_tail row.
type PostgresRunner struct {
	db *sql.DB
}

func NewPostgresRunner(db *sql.DB) *PostgresRunner {
	return &PostgresRunner{db: db}
}

func (r *PostgresRunner) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin vote transaction: %w", err)
	}

	if err := fn(&postgresTx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback vote transaction: %w (after: %w)", rbErr, err)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit vote transaction: %w", err)
	}
	return nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) Roll() rollstore.TxView {
	return rollstore.NewPostgresTxView(t.tx)
}

func (t *postgresTx) Ledger() ledgerstore.TxView {
	return ledgerstore.NewPostgresTxView(t.tx)
}

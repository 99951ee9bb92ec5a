// Package voting orchestrates vote casting: the synchronous election status
// check, the roll's exactly-once guard and the ledger append, with the last
// two inside one atomic transaction.
package voting

import (
	"context"

	ledgerstore "securevote/internal/ledger/store"
	rollstore "securevote/internal/roll/store"
)

// Tx is the atomic view a single cast gets over the roll and the ledger.
type Tx interface {
	Roll() rollstore.TxView
	Ledger() ledgerstore.TxView
}

// Runner executes fn inside one vote transaction. If fn returns an error,
// nothing fn did through the Tx survives: the has_voted flip and the ballot
// append commit together or not at all.
type Runner interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

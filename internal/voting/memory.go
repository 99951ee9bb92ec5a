package voting

import (
	"context"
	"sync"

	ledgerstore "securevote/internal/ledger/store"
	rollmodels "securevote/internal/roll/models"
	rollstore "securevote/internal/roll/store"
	id "securevote/pkg/domain"
)

// MemoryRunner serializes vote transactions with one mutex over the
// in-memory stores. Coarse but correct: a duplicate concurrent cast blocks
// until the first commits, then fails the has_voted check.
type MemoryRunner struct {
	mu     sync.Mutex
	roll   *rollstore.InMemoryStore
	ledger *ledgerstore.InMemoryStore
}

func NewMemoryRunner(roll *rollstore.InMemoryStore, ledger *ledgerstore.InMemoryStore) *MemoryRunner {
	return &MemoryRunner{roll: roll, ledger: ledger}
}

func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryTx{roll: &trackedRoll{store: r.roll}, ledger: r.ledger}
	if err := fn(tx); err != nil {
		tx.roll.rollback(ctx)
		return err
	}
	return nil
}

type memoryTx struct {
	roll   *trackedRoll
	ledger *ledgerstore.InMemoryStore
}

func (t *memoryTx) Roll() rollstore.TxView     { return t.roll }
func (t *memoryTx) Ledger() ledgerstore.TxView { return t.ledger }

type mark struct {
	electionID id.ElectionID
	handle     id.VoterHandle
}

// trackedRoll remembers flips so a failed transaction can revert them.
type trackedRoll struct {
	store *rollstore.InMemoryStore
	marks []mark
}

func (t *trackedRoll) CheckAndMarkVoted(ctx context.Context, electionID id.ElectionID, handle id.VoterHandle) (rollmodels.Ticket, error) {
	ticket, err := t.store.CheckAndMarkVoted(ctx, electionID, handle)
	if err != nil {
		return rollmodels.Ticket{}, err
	}
	t.marks = append(t.marks, mark{electionID: electionID, handle: handle})
	return ticket, nil
}

func (t *trackedRoll) rollback(ctx context.Context) {
	for _, m := range t.marks {
		t.store.Unmark(ctx, m.electionID, m.handle)
	}
}

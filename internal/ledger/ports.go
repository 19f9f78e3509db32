// Package ledger defines the outbound port for mirroring transactions to an
// external ledger, plus a factory over the available backends.
package ledger

import (
	"context"

	"xpense/internal/core"
)

// Writer mirrors transaction state to an external ledger. Upsert is keyed by
// transaction ID, so replaying a sync message overwrites rather than
// duplicates. Delete of an unknown ID is a no-op.
type Writer interface {
	Upsert(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	Delete(ctx context.Context, transactionID string) error
}

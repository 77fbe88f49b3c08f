// Package history keeps a local ledger of write actions (fee claims, burns
// and post submissions) so users can find past transaction hashes.
//
// Three stores are provided:
//   - [FileStore]: JSON lines in the user's data directory (default)
//   - [MongoStore]: a MongoDB collection, for agents sharing a ledger
//   - [NullStore]: discards everything
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind names the action a [Record] describes.
type Kind string

const (
	KindClaimWeth  Kind = "claim-weth"
	KindClaimToken Kind = "claim-token"
	KindBurn       Kind = "burn"
	KindSubmit     Kind = "submit"
)

// Record is one ledger entry.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Kind      Kind      `json:"kind" bson:"kind"`
	Token     string    `json:"token,omitempty" bson:"token,omitempty"`
	Amount    string    `json:"amount,omitempty" bson:"amount,omitempty"`
	TxHash    string    `json:"txHash,omitempty" bson:"txHash,omitempty"`
	Platform  string    `json:"platform,omitempty" bson:"platform,omitempty"`
	PostID    string    `json:"postId,omitempty" bson:"postId,omitempty"`
	Success   bool      `json:"success" bson:"success"`
	Error     string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// NewRecord returns a record of kind with a fresh ID stamped now.
func NewRecord(kind Kind) Record {
	return Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists records.
type Store interface {
	// Append adds r to the ledger.
	Append(ctx context.Context, r Record) error

	// List returns up to limit records, newest first. A limit <= 0 returns
	// every record.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases resources held by the store.
	Close() error
}

// NullStore discards every record.
type NullStore struct{}

// NewNullStore returns a store that keeps nothing.
func NewNullStore() NullStore { return NullStore{} }

func (NullStore) Append(context.Context, Record) error        { return nil }
func (NullStore) List(context.Context, int) ([]Record, error) { return nil, nil }
func (NullStore) Close() error                                { return nil }

var _ Store = NullStore{}

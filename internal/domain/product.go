package domain

import (
	"context"
	"time"
)

// ProductState is the condition tag of a donated item.
type ProductState string

const (
	StateGood ProductState = "good"
	StateFair ProductState = "fair"
	StateBad  ProductState = "bad"
)

// Valid reports whether s is one of the known condition tags.
func (s ProductState) Valid() bool {
	switch s {
	case StateGood, StateFair, StateBad:
		return true
	}
	return false
}

// Product is a donatable item. It moves through three phases: listed
// (available, no receiver), scheduled (available, receiver set) and donated
// (unavailable, donated_at set).
//
// Images holds the ordered storage keys of the item's pictures. Owner and
// Receiver are populated on read paths that join the users table; OwnerID and
// ReceiverID are always set from the row itself.
type Product struct {
	ID          int64
	Name        string
	Description string
	Images      []string
	Available   bool
	State       ProductState
	OwnerID     int64
	ReceiverID  *int64
	PurchasedAt *time.Time
	DonatedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner    *User
	Receiver *User
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	// List returns products ordered by creation time descending, with owner
	// and receiver populated.
	List(ctx context.Context, limit, offset int) ([]Product, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Product, error)
	ListByReceiver(ctx context.Context, receiverID int64) ([]Product, error)
	// Update rewrites every mutable field, including the image set.
	Update(ctx context.Context, product *Product) error
	// Delete removes the product row. Deleting an id that does not exist is
	// not an error.
	Delete(ctx context.Context, id int64) error
}

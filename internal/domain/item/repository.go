package item

import "context"

// ItemRepository is the boundary to the external catalog collaborator.
type ItemRepository interface {
	Create(ctx context.Context, item Item) (Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
	ListActive(ctx context.Context) ([]Item, error)
}

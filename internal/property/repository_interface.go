package property

import "context"

type Repository interface {
	Create(ctx context.Context, ownerID int, req PostRequest) (*Property, error)
	GetByID(ctx context.Context, id int) (*Property, error)
	GetOwnerContact(ctx context.Context, propertyID int) (*OwnerContact, error)
}

// Package ports declares the collaborators the metering point service needs
// from the outside world. Adapters live in store and outbox.
package ports

import (
	"context"

	id "datahub/pkg/domain"

	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/shared"
)

// Repository loads and saves whole metering point aggregates.
//
// Find methods return sentinel.ErrNotFound when nothing matches. Add returns
// sentinel.ErrConflict when the GSRN is taken; Update returns it when the
// aggregate's version is stale.
type Repository interface {
	FindByGSRN(ctx context.Context, gsrn shared.GsrnNumber) (*meteringpoint.MeteringPoint, error)
	FindByID(ctx context.Context, mpID id.MeteringPointID) (*meteringpoint.MeteringPoint, error)
	Add(ctx context.Context, mp *meteringpoint.MeteringPoint) error
	Update(ctx context.Context, mp *meteringpoint.MeteringPoint) error
}

// Outbox records raised events in the same transaction as the aggregate.
type Outbox interface {
	Append(ctx context.Context, events []meteringpoint.Event) error
}

// GridArea is one entry of the grid-area directory.
type GridArea struct {
	LinkID id.GridAreaLinkID
	Code   string
	Name   string
}

// GridAreas resolves 3-digit grid-area codes. Unknown codes yield
// sentinel.ErrNotFound.
type GridAreas interface {
	FindByCode(ctx context.Context, code string) (GridArea, error)
}

// Store bundles the collaborators that share one transaction.
type Store interface {
	MeteringPoints() Repository
	Outbox() Outbox
	GridAreas() GridAreas
}

// TxRunner runs fn inside one transaction; fn's error rolls it back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	id "datahub/pkg/domain"
	dErrors "datahub/pkg/domain-errors"
	"datahub/pkg/platform/sentinel"

	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/shared"
	"datahub/internal/meteringpoint/ports"
)

const defaultTxTimeout = 5 * time.Second

// InMemoryStore keeps metering points as snapshots in maps. Transactions are
// serialised by one lock; writes are staged and applied on commit, so a
// failed transaction leaves nothing behind, events included.
type InMemoryStore struct {
	mu        sync.Mutex
	byID      map[id.MeteringPointID]meteringpoint.Snapshot
	byGsrn    map[string]id.MeteringPointID
	gridAreas ports.GridAreas
	outbox    ports.Outbox
	timeout   time.Duration
}

// NewInMemory constructs an in-memory store. Committed events are appended
// to outbox.
func NewInMemory(gridAreas ports.GridAreas, outbox ports.Outbox) *InMemoryStore {
	return &InMemoryStore{
		byID:      make(map[id.MeteringPointID]meteringpoint.Snapshot),
		byGsrn:    make(map[string]id.MeteringPointID),
		gridAreas: gridAreas,
		outbox:    outbox,
		timeout:   defaultTxTimeout,
	}
}

// RunInTx implements ports.TxRunner.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(store ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	tx := &memoryTx{parent: s, staged: make(map[id.MeteringPointID]meteringpoint.Snapshot)}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit(ctx)
}

// Count returns the number of committed metering points.
func (s *InMemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type memoryTx struct {
	parent *InMemoryStore
	staged map[id.MeteringPointID]meteringpoint.Snapshot
	order  []id.MeteringPointID
	events []meteringpoint.Event
}

func (t *memoryTx) MeteringPoints() ports.Repository { return (*memoryRepository)(t) }
func (t *memoryTx) Outbox() ports.Outbox             { return (*memoryOutbox)(t) }
func (t *memoryTx) GridAreas() ports.GridAreas       { return t.parent.gridAreas }

func (t *memoryTx) commit(ctx context.Context) error {
	if len(t.events) > 0 {
		if err := t.parent.outbox.Append(ctx, t.events); err != nil {
			return fmt.Errorf("append outbox: %w", err)
		}
	}
	for _, mpID := range t.order {
		snap := t.staged[mpID]
		t.parent.byID[mpID] = snap
		t.parent.byGsrn[snap.GsrnNumber] = mpID
	}
	return nil
}

func (t *memoryTx) lookup(mpID id.MeteringPointID) (meteringpoint.Snapshot, bool) {
	if snap, ok := t.staged[mpID]; ok {
		return snap, true
	}
	snap, ok := t.parent.byID[mpID]
	return snap, ok
}

func (t *memoryTx) stage(snap meteringpoint.Snapshot) {
	if _, seen := t.staged[snap.ID]; !seen {
		t.order = append(t.order, snap.ID)
	}
	t.staged[snap.ID] = snap
}

type memoryRepository memoryTx

func (r *memoryRepository) tx() *memoryTx { return (*memoryTx)(r) }

func (r *memoryRepository) FindByGSRN(_ context.Context, gsrn shared.GsrnNumber) (*meteringpoint.MeteringPoint, error) {
	t := r.tx()
	for _, snap := range t.staged {
		if snap.GsrnNumber == gsrn.String() {
			return meteringpoint.Restore(snap)
		}
	}
	mpID, ok := t.parent.byGsrn[gsrn.String()]
	if !ok {
		return nil, fmt.Errorf("metering point %s: %w", gsrn, sentinel.ErrNotFound)
	}
	return meteringpoint.Restore(t.parent.byID[mpID])
}

func (r *memoryRepository) FindByID(_ context.Context, mpID id.MeteringPointID) (*meteringpoint.MeteringPoint, error) {
	snap, ok := r.tx().lookup(mpID)
	if !ok {
		return nil, fmt.Errorf("metering point %s: %w", mpID, sentinel.ErrNotFound)
	}
	return meteringpoint.Restore(snap)
}

func (r *memoryRepository) Add(_ context.Context, mp *meteringpoint.MeteringPoint) error {
	t := r.tx()
	if _, ok := t.lookup(mp.ID()); ok {
		return fmt.Errorf("metering point %s exists: %w", mp.ID(), sentinel.ErrConflict)
	}
	if _, ok := t.parent.byGsrn[mp.Gsrn().String()]; ok {
		return fmt.Errorf("gsrn %s taken: %w", mp.Gsrn(), sentinel.ErrConflict)
	}
	for _, snap := range t.staged {
		if snap.GsrnNumber == mp.Gsrn().String() {
			return fmt.Errorf("gsrn %s taken: %w", mp.Gsrn(), sentinel.ErrConflict)
		}
	}
	mp.MarkPersisted(1)
	t.stage(mp.Snapshot())
	return nil
}

func (r *memoryRepository) Update(_ context.Context, mp *meteringpoint.MeteringPoint) error {
	t := r.tx()
	current, ok := t.lookup(mp.ID())
	if !ok {
		return fmt.Errorf("metering point %s: %w", mp.ID(), sentinel.ErrNotFound)
	}
	if current.Version != mp.Version() {
		return fmt.Errorf("metering point %s at version %d, have %d: %w",
			mp.ID(), current.Version, mp.Version(), sentinel.ErrConflict)
	}
	mp.MarkPersisted(current.Version + 1)
	t.stage(mp.Snapshot())
	return nil
}

type memoryOutbox memoryTx

func (o *memoryOutbox) Append(_ context.Context, events []meteringpoint.Event) error {
	o.events = append(o.events, events...)
	return nil
}

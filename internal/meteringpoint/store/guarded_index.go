package store

import (
	"context"
	"log/slog"

	id "datahub/pkg/domain"
	"datahub/pkg/platform/circuit"

	"datahub/internal/meteringpoint/domain/shared"
)

// GuardedIndex puts a circuit breaker in front of a GsrnIndex. While the
// breaker is open every call is a silent miss and reads go straight to the
// database.
type GuardedIndex struct {
	index   GsrnIndex
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuardedIndex(index GsrnIndex, breaker *circuit.Breaker, logger *slog.Logger) *GuardedIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardedIndex{index: index, breaker: breaker, logger: logger}
}

func (g *GuardedIndex) Lookup(ctx context.Context, gsrn shared.GsrnNumber) (id.MeteringPointID, bool, error) {
	if !g.breaker.Allow() {
		return id.MeteringPointID{}, false, nil
	}
	mpID, ok, err := g.index.Lookup(ctx, gsrn)
	g.record(ctx, err)
	if err != nil {
		return id.MeteringPointID{}, false, nil
	}
	return mpID, ok, nil
}

func (g *GuardedIndex) Remember(ctx context.Context, gsrn shared.GsrnNumber, mpID id.MeteringPointID) error {
	if !g.breaker.Allow() {
		return nil
	}
	g.record(ctx, g.index.Remember(ctx, gsrn, mpID))
	return nil
}

func (g *GuardedIndex) Forget(ctx context.Context, gsrn shared.GsrnNumber) error {
	if !g.breaker.Allow() {
		return nil
	}
	err := g.index.Forget(ctx, gsrn)
	g.record(ctx, err)
	return err
}

func (g *GuardedIndex) record(ctx context.Context, err error) {
	if err == nil {
		if _, change := g.breaker.RecordSuccess(); change.Closed {
			g.logger.InfoContext(ctx, "gsrn index recovered", "breaker", g.breaker.Name())
		}
		return
	}
	if _, change := g.breaker.RecordFailure(); change.Opened {
		g.logger.WarnContext(ctx, "gsrn index disabled after repeated failures",
			"breaker", g.breaker.Name(),
			"error", err,
		)
	}
}

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "datahub/pkg/domain"
	dErrors "datahub/pkg/domain-errors"
	"datahub/pkg/platform/sentinel"
	txcontext "datahub/pkg/platform/tx"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/shared"
	"datahub/internal/meteringpoint/ports"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Migrate creates the registry tables when they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists metering points in PostgreSQL. RunInTx places the
// transaction in the context so the outbox writes through it.
type PostgresStore struct {
	db      *sql.DB
	outbox  ports.Outbox
	index   GsrnIndex
	timeout time.Duration
}

// GsrnIndex caches the immutable GSRN to id mapping.
type GsrnIndex interface {
	Lookup(ctx context.Context, gsrn shared.GsrnNumber) (id.MeteringPointID, bool, error)
	Remember(ctx context.Context, gsrn shared.GsrnNumber, mpID id.MeteringPointID) error
	Forget(ctx context.Context, gsrn shared.GsrnNumber) error
}

type PostgresOption func(*PostgresStore)

// WithGsrnIndex puts a lookup cache in front of FindByGSRN.
func WithGsrnIndex(index GsrnIndex) PostgresOption {
	return func(s *PostgresStore) {
		s.index = index
	}
}

func WithTxTimeout(d time.Duration) PostgresOption {
	return func(s *PostgresStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed store. outbox must write through
// the transaction found in the context.
func NewPostgres(db *sql.DB, outbox ports.Outbox, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, outbox: outbox, timeout: defaultTxTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RunInTx implements ports.TxRunner.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(store ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	scoped := &postgresTx{
		repo:      &postgresRepository{q: tx, index: s.index},
		outbox:    &txOutbox{tx: tx, outbox: s.outbox},
		gridAreas: &PostgresGridAreas{q: tx},
	}
	if err := fn(scoped); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repository returns a repository outside any transaction, for reads.
func (s *PostgresStore) Repository() ports.Repository {
	return &postgresRepository{q: s.db, index: s.index}
}

type postgresTx struct {
	repo      *postgresRepository
	outbox    *txOutbox
	gridAreas *PostgresGridAreas
}

func (t *postgresTx) MeteringPoints() ports.Repository { return t.repo }
func (t *postgresTx) Outbox() ports.Outbox             { return t.outbox }
func (t *postgresTx) GridAreas() ports.GridAreas       { return t.gridAreas }

// txOutbox hands the open transaction to the outbox through the context.
type txOutbox struct {
	tx     *sql.Tx
	outbox ports.Outbox
}

func (o *txOutbox) Append(ctx context.Context, events []meteringpoint.Event) error {
	return o.outbox.Append(txcontext.WithTx(ctx, o.tx), events)
}

type postgresRepository struct {
	q     queryer
	index GsrnIndex
}

const selectMeteringPoint = `
	SELECT id, gsrn_number, type_code, grid_area_link_id, exchange_from, exchange_to,
		master_data, physical_state, state_effective_at, start_of_supply, version
	FROM metering_points`

func (r *postgresRepository) FindByGSRN(ctx context.Context, gsrn shared.GsrnNumber) (*meteringpoint.MeteringPoint, error) {
	if r.index != nil {
		if mpID, ok, err := r.index.Lookup(ctx, gsrn); err == nil && ok {
			mp, err := r.FindByID(ctx, mpID)
			if err == nil {
				return mp, nil
			}
			if !errors.Is(err, sentinel.ErrNotFound) {
				return nil, err
			}
			_ = r.index.Forget(ctx, gsrn)
		}
	}
	mp, err := r.scanOne(ctx, selectMeteringPoint+` WHERE gsrn_number = $1`, gsrn.String())
	if err != nil {
		return nil, err
	}
	if r.index != nil {
		_ = r.index.Remember(ctx, gsrn, mp.ID())
	}
	return mp, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, mpID id.MeteringPointID) (*meteringpoint.MeteringPoint, error) {
	return r.scanOne(ctx, selectMeteringPoint+` WHERE id = $1`, uuid.UUID(mpID))
}

func (r *postgresRepository) scanOne(ctx context.Context, query string, arg any) (*meteringpoint.MeteringPoint, error) {
	var (
		row             meteringPointRow
		exFrom, exTo    uuid.NullUUID
		startOfSupply   sql.NullTime
		masterDataBytes []byte
	)
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&row.id, &row.gsrn, &row.typeCode, &row.gridAreaLinkID, &exFrom, &exTo,
		&masterDataBytes, &row.physicalState, &row.stateEffectiveAt, &startOfSupply, &row.version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("metering point: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find metering point: %w", err)
	}
	if exFrom.Valid && exTo.Valid {
		from, to := id.GridAreaLinkID(exFrom.UUID), id.GridAreaLinkID(exTo.UUID)
		row.exchangeFrom, row.exchangeTo = &from, &to
	}
	if startOfSupply.Valid {
		t := startOfSupply.Time.UTC()
		row.startOfSupply = &t
	}
	if err := json.Unmarshal(masterDataBytes, &row.masterData); err != nil {
		return nil, fmt.Errorf("decode master data: %w", err)
	}
	snap, err := row.snapshot()
	if err != nil {
		return nil, err
	}
	return meteringpoint.Restore(snap)
}

func (r *postgresRepository) Add(ctx context.Context, mp *meteringpoint.MeteringPoint) error {
	snap := mp.Snapshot()
	masterData, err := json.Marshal(snap.MasterData)
	if err != nil {
		return fmt.Errorf("encode master data: %w", err)
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO metering_points (
			id, gsrn_number, type_code, grid_area_link_id, exchange_from, exchange_to,
			master_data, physical_state, state_effective_at, start_of_supply, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1)
	`,
		uuid.UUID(snap.ID), snap.GsrnNumber, snap.Type.Code(), uuid.UUID(snap.GridAreaLinkID),
		nullableLink(snap.ExchangeFrom), nullableLink(snap.ExchangeTo),
		masterData, snap.PhysicalState.Code(), snap.StateEffectiveAt, nullableTime(snap.StartOfSupply),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("gsrn %s taken: %w", snap.GsrnNumber, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert metering point: %w", err)
	}
	mp.MarkPersisted(1)
	return nil
}

// Update saves mp if nobody saved it since it was loaded.
func (r *postgresRepository) Update(ctx context.Context, mp *meteringpoint.MeteringPoint) error {
	snap := mp.Snapshot()
	masterData, err := json.Marshal(snap.MasterData)
	if err != nil {
		return fmt.Errorf("encode master data: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE metering_points SET
			master_data = $2,
			physical_state = $3,
			state_effective_at = $4,
			start_of_supply = $5,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $6
	`,
		uuid.UUID(snap.ID), masterData, snap.PhysicalState.Code(), snap.StateEffectiveAt,
		nullableTime(snap.StartOfSupply), snap.Version,
	)
	if err != nil {
		return fmt.Errorf("update metering point: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update metering point: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("metering point %s at version %d: %w", snap.ID, snap.Version, sentinel.ErrConflict)
	}
	mp.MarkPersisted(snap.Version + 1)
	return nil
}

type meteringPointRow struct {
	id               uuid.UUID
	gsrn             string
	typeCode         string
	gridAreaLinkID   uuid.UUID
	exchangeFrom     *id.GridAreaLinkID
	exchangeTo       *id.GridAreaLinkID
	masterData       masterdata.Input
	physicalState    string
	stateEffectiveAt time.Time
	startOfSupply    *time.Time
	version          int
}

func (r meteringPointRow) snapshot() (meteringpoint.Snapshot, error) {
	typ, err := catalog.ParseMeteringPointType(r.typeCode)
	if err != nil {
		return meteringpoint.Snapshot{}, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "stored metering point type")
	}
	state, err := catalog.ParsePhysicalState(r.physicalState)
	if err != nil {
		return meteringpoint.Snapshot{}, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "stored physical state")
	}
	return meteringpoint.Snapshot{
		ID:               id.MeteringPointID(r.id),
		GsrnNumber:       r.gsrn,
		Type:             typ,
		GridAreaLinkID:   id.GridAreaLinkID(r.gridAreaLinkID),
		ExchangeFrom:     r.exchangeFrom,
		ExchangeTo:       r.exchangeTo,
		MasterData:       r.masterData,
		PhysicalState:    state,
		StateEffectiveAt: r.stateEffectiveAt.UTC(),
		StartOfSupply:    r.startOfSupply,
		Version:          r.version,
	}, nil
}

func nullableLink(l *id.GridAreaLinkID) uuid.NullUUID {
	if l == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*l), Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

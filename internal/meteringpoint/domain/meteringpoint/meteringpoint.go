// Package meteringpoint holds the metering point aggregate and its
// connection state machine.
//
// Every mutating operation comes as a pair: an <Op>Acceptable method that
// returns the rules.Result of all guards, and <Op> itself which runs the same
// guards, mutates only on success and returns the events it raised. A broken
// guard yields *rules.RulesBrokenError; misuse that no input can cause (a nil
// id, an energy supplier on a non-accounting type) yields a domain error with
// CodeInvariantViolation.
//
// Domain Purity: no I/O, no context.Context, no time.Now().
package meteringpoint

import (
	id "datahub/pkg/domain"
	dErrors "datahub/pkg/domain-errors"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/domain/shared"
)

// MeteringPoint is the aggregate root of the registry.
//
// Invariants:
//   - id, GSRN, type and grid area links never change after creation
//   - master data always conforms to the field policy of the type
//   - an energy supplier is only ever set on accounting point types
//   - the connection state only moves forward; ClosedDown is terminal
//   - every state change returns exactly one event
type MeteringPoint struct {
	id             id.MeteringPointID
	gsrn           shared.GsrnNumber
	typ            catalog.MeteringPointType
	gridAreaLinkID id.GridAreaLinkID
	exchange       *ExchangeGridAreas
	masterData     masterdata.MasterData
	connection     ConnectionState
	energySupplier *EnergySupplierDetails
	version        int
}

// ExchangeGridAreas are the source and target grid areas of an exchange point.
type ExchangeGridAreas struct {
	From id.GridAreaLinkID
	To   id.GridAreaLinkID
}

// CreateParams are the inputs of Create. MasterData must come from a
// masterdata.Builder for Type.
type CreateParams struct {
	ID             id.MeteringPointID
	GSRN           shared.GsrnNumber
	Type           catalog.MeteringPointType
	GridAreaLinkID id.GridAreaLinkID
	EffectiveDate  shared.EffectiveDate
	MasterData     masterdata.MasterData
}

// ExchangeParams are the inputs of CreateExchange. The point itself belongs
// to GridAreaLinkID and measures the flow From → To.
type ExchangeParams struct {
	CreateParams
	From id.GridAreaLinkID
	To   id.GridAreaLinkID
}

func (p CreateParams) invariant() error {
	switch {
	case p.ID.IsNil():
		return dErrors.New(dErrors.CodeInvariantViolation, "metering point id is required")
	case p.GSRN.IsZero():
		return dErrors.New(dErrors.CodeInvariantViolation, "gsrn number is required")
	case p.GridAreaLinkID.IsNil():
		return dErrors.New(dErrors.CodeInvariantViolation, "grid area link is required")
	case p.EffectiveDate.IsZero():
		return dErrors.New(dErrors.CodeInvariantViolation, "effective date is required")
	}
	return nil
}

// CanCreate runs the validator for the type. Exchange points must go through
// CanCreateExchange.
func CanCreate(v masterdata.Validator, p CreateParams) rules.Result {
	if r := typeRules(p.Type); !r.Success() {
		return r
	}
	return rules.Evaluate(rules.Check(p.Type == catalog.TypeExchange, rules.Violation{
		Code:    CodeExchangeNeedsGridAreas,
		Message: "exchange metering points need a source and a target grid area",
	})).Merge(v.Validate(p.Type, p.MasterData))
}

// Create builds a new point in state New. On broken rules nothing is built.
func Create(v masterdata.Validator, p CreateParams) (*MeteringPoint, []Event, error) {
	if err := p.invariant(); err != nil {
		return nil, nil, err
	}
	if r := CanCreate(v, p); !r.Success() {
		return nil, nil, rules.Broken(ErrCannotCreate, r)
	}
	return newPoint(p, nil)
}

func CanCreateExchange(v masterdata.Validator, p ExchangeParams) rules.Result {
	if r := typeRules(p.Type); !r.Success() {
		return r
	}
	return rules.Evaluate(
		rules.Check(p.Type != catalog.TypeExchange, rules.Violation{
			Code:    CodeUnknownType,
			Message: "only exchange metering points have source and target grid areas",
		}),
		rules.Check(p.From.IsNil() || p.To.IsNil(), rules.Violation{
			Code:    CodeExchangeNeedsGridAreas,
			Message: "exchange metering points need a source and a target grid area",
		}),
		rules.Check(!p.From.IsNil() && p.From == p.To, rules.Violation{
			Code:    CodeExchangeSameGridArea,
			Message: "source and target grid area must differ",
		}),
	).Merge(v.Validate(p.Type, p.MasterData))
}

func CreateExchange(v masterdata.Validator, p ExchangeParams) (*MeteringPoint, []Event, error) {
	if err := p.invariant(); err != nil {
		return nil, nil, err
	}
	if r := CanCreateExchange(v, p); !r.Success() {
		return nil, nil, rules.Broken(ErrCannotCreate, r)
	}
	return newPoint(p.CreateParams, &ExchangeGridAreas{From: p.From, To: p.To})
}

func typeRules(t catalog.MeteringPointType) rules.Result {
	return rules.Evaluate(rules.Check(!t.IsValid(), rules.Violation{
		Code:    CodeUnknownType,
		Message: "unknown metering point type",
	}))
}

func newPoint(p CreateParams, exchange *ExchangeGridAreas) (*MeteringPoint, []Event, error) {
	mp := &MeteringPoint{
		id:             p.ID,
		gsrn:           p.GSRN,
		typ:            p.Type,
		gridAreaLinkID: p.GridAreaLinkID,
		exchange:       exchange,
		masterData:     p.MasterData,
		connection:     ConnectionState{PhysicalState: catalog.StateNew, EffectiveAt: p.EffectiveDate},
	}
	created := MeteringPointCreated{
		Header:         mp.header(),
		Type:           p.Type,
		GridAreaLinkID: p.GridAreaLinkID,
		EffectiveDate:  p.EffectiveDate,
		MasterData:     p.MasterData,
	}
	if exchange != nil {
		ex := *exchange
		created.Exchange = &ex
	}
	return mp, []Event{created}, nil
}

func (mp *MeteringPoint) header() Header {
	return Header{MeteringPointID: mp.id, GsrnNumber: mp.gsrn}
}

func (mp *MeteringPoint) ID() id.MeteringPointID               { return mp.id }
func (mp *MeteringPoint) Gsrn() shared.GsrnNumber              { return mp.gsrn }
func (mp *MeteringPoint) Type() catalog.MeteringPointType      { return mp.typ }
func (mp *MeteringPoint) GridAreaLinkID() id.GridAreaLinkID    { return mp.gridAreaLinkID }
func (mp *MeteringPoint) MasterData() masterdata.MasterData    { return mp.masterData }
func (mp *MeteringPoint) Connection() ConnectionState          { return mp.connection }
func (mp *MeteringPoint) PhysicalState() catalog.PhysicalState { return mp.connection.PhysicalState }
func (mp *MeteringPoint) IsClosedDown() bool                   { return mp.connection.IsClosedDown() }
func (mp *MeteringPoint) Version() int                         { return mp.version }

// Exchange returns the grid areas of an exchange point.
func (mp *MeteringPoint) Exchange() (ExchangeGridAreas, bool) {
	if mp.exchange == nil {
		return ExchangeGridAreas{}, false
	}
	return *mp.exchange, true
}

// EnergySupplier returns the current supply association, if any.
func (mp *MeteringPoint) EnergySupplier() (EnergySupplierDetails, bool) {
	if mp.energySupplier == nil {
		return EnergySupplierDetails{}, false
	}
	return *mp.energySupplier, true
}

// MarkPersisted records the version a store assigned after saving.
func (mp *MeteringPoint) MarkPersisted(version int) { mp.version = version }

// ConnectAcceptable: not closed down, state New, effective date not before
// the last transition, plus the per-type rules.
func (mp *MeteringPoint) ConnectAcceptable(d ConnectionDetails) rules.Result {
	return mp.transitionAcceptable(catalog.StateNew, CodeMustBeNew, d)
}

func (mp *MeteringPoint) Connect(d ConnectionDetails) ([]Event, error) {
	if r := mp.ConnectAcceptable(d); !r.Success() {
		return nil, rules.Broken(ErrCannotConnect, r)
	}
	mp.connection = mp.connection.moveTo(catalog.StateConnected, d.EffectiveDate)
	return []Event{MeteringPointConnected{Header: mp.header(), EffectiveDate: d.EffectiveDate}}, nil
}

func (mp *MeteringPoint) DisconnectAcceptable(d ConnectionDetails) rules.Result {
	return mp.transitionAcceptable(catalog.StateConnected, CodeMustBeConnected, d)
}

func (mp *MeteringPoint) Disconnect(d ConnectionDetails) ([]Event, error) {
	if r := mp.DisconnectAcceptable(d); !r.Success() {
		return nil, rules.Broken(ErrCannotDisconnect, r)
	}
	mp.connection = mp.connection.moveTo(catalog.StateDisconnected, d.EffectiveDate)
	return []Event{MeteringPointDisconnected{Header: mp.header(), EffectiveDate: d.EffectiveDate}}, nil
}

func (mp *MeteringPoint) ReconnectAcceptable(d ConnectionDetails) rules.Result {
	return mp.transitionAcceptable(catalog.StateDisconnected, CodeMustBeDisconnected, d)
}

func (mp *MeteringPoint) Reconnect(d ConnectionDetails) ([]Event, error) {
	if r := mp.ReconnectAcceptable(d); !r.Success() {
		return nil, rules.Broken(ErrCannotReconnect, r)
	}
	mp.connection = mp.connection.moveTo(catalog.StateConnected, d.EffectiveDate)
	return []Event{MeteringPointReconnected{Header: mp.header(), EffectiveDate: d.EffectiveDate}}, nil
}

// CloseDownAcceptable fails on a point that is already closed down, or when
// the effective date predates the last state transition.
func (mp *MeteringPoint) CloseDownAcceptable(effective shared.EffectiveDate) rules.Result {
	if mp.connection.IsClosedDown() {
		return rules.Of(closedDown)
	}
	return rules.Evaluate(
		rules.Check(effective.Before(mp.connection.EffectiveAt), rules.Violation{
			Code:    CodeBeforeLastTransition,
			Field:   shared.FieldEffectiveDate,
			Message: "effective date is before the last state transition " + mp.connection.EffectiveAt.String(),
		}),
	)
}

func (mp *MeteringPoint) CloseDown(effective shared.EffectiveDate) ([]Event, error) {
	if r := mp.CloseDownAcceptable(effective); !r.Success() {
		return nil, rules.Broken(ErrCannotChange, r)
	}
	mp.connection = mp.connection.moveTo(catalog.StateClosedDown, effective)
	return []Event{MeteringPointClosedDown{Header: mp.header(), EffectiveDate: effective}}, nil
}

// SetEnergySupplierDetails replaces the supply association. A closed down
// point reports a business violation; a non-accounting type is an invariant
// violation. The start of supply is kept in UTC at microsecond resolution,
// and the same start of supply is a no-op.
func (mp *MeteringPoint) SetEnergySupplierDetails(d EnergySupplierDetails) ([]Event, error) {
	if mp.connection.IsClosedDown() {
		return nil, rules.Broken(ErrCannotChange, rules.Of(closedDown))
	}
	if !mp.typ.IsAccountingPoint() {
		return nil, dErrors.Wrap(ErrCannotAssignEnergySupplier, dErrors.CodeInvariantViolation,
			"cannot assign energy supplier to "+mp.typ.Name()+" metering point")
	}
	if d.StartOfSupply.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "start of supply is required")
	}
	next := d.normalized()
	if mp.energySupplier != nil && mp.energySupplier.sameAs(next) {
		return nil, nil
	}
	mp.energySupplier = &next
	return []Event{EnergySupplierDetailsChanged{Header: mp.header(), StartOfSupply: next.StartOfSupply}}, nil
}

package meteringpoint_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "datahub/pkg/domain"
	dErrors "datahub/pkg/domain-errors"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/domain/shared"
)

const (
	createdOn  = "2024-01-01T23:00:00Z"
	connectOn  = "2024-01-15T23:00:00Z"
	laterOn    = "2024-02-01T23:00:00Z"
	validGsrn  = "571234567891234568"
	otherGsrn  = "571313131313131313"
	summerDate = "2024-06-30T22:00:00Z"
)

func consumptionInput() masterdata.Input {
	return masterdata.Input{
		StreetName:         masterdata.Str("Vestergade"),
		PostCode:           masterdata.Str("8000"),
		City:               masterdata.Str("Aarhus C"),
		CountryCode:        masterdata.Str("DK"),
		Capacity:           masterdata.Str("10.5"),
		DisconnectionType:  masterdata.Str("Manual"),
		SettlementMethod:   masterdata.Str("Flex"),
		NetSettlementGroup: masterdata.Str("Zero"),
		MeteringMethod:     masterdata.Str("Physical"),
		MeterID:            masterdata.Str("M1"),
		ProductType:        masterdata.Str("EnergyActive"),
		UnitType:           masterdata.Str("KWh"),
		ReadingOccurrence:  masterdata.Str("Hourly"),
		EffectiveDate:      masterdata.Str(createdOn),
	}
}

func exchangeInput() masterdata.Input {
	return masterdata.Input{
		MeteringMethod:    masterdata.Str("Virtual"),
		ProductType:       masterdata.Str("EnergyActive"),
		UnitType:          masterdata.Str("KWh"),
		ReadingOccurrence: masterdata.Str("Quarterly"),
		EffectiveDate:     masterdata.Str(createdOn),
	}
}

type MeteringPointSuite struct {
	suite.Suite
	validator masterdata.Validator
}

func TestMeteringPointSuite(t *testing.T) {
	suite.Run(t, new(MeteringPointSuite))
}

func (s *MeteringPointSuite) SetupTest() {
	s.validator = masterdata.NewValidator()
}

func (s *MeteringPointSuite) build(t catalog.MeteringPointType, in masterdata.Input) masterdata.MasterData {
	md, r := masterdata.NewBuilder(t).Build(in)
	s.Require().True(r.Success(), r.String())
	return md
}

func (s *MeteringPointSuite) params(t catalog.MeteringPointType, in masterdata.Input) meteringpoint.CreateParams {
	return meteringpoint.CreateParams{
		ID:             id.NewMeteringPointID(),
		GSRN:           shared.MustGsrnNumber(validGsrn),
		Type:           t,
		GridAreaLinkID: id.GridAreaLinkID(uuid.New()),
		EffectiveDate:  shared.MustEffectiveDate(createdOn),
		MasterData:     s.build(t, in),
	}
}

func (s *MeteringPointSuite) newConsumption() *meteringpoint.MeteringPoint {
	mp, events, err := meteringpoint.Create(s.validator, s.params(catalog.TypeConsumption, consumptionInput()))
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	return mp
}

func (s *MeteringPointSuite) newExchange() *meteringpoint.MeteringPoint {
	mp, _, err := meteringpoint.CreateExchange(s.validator, meteringpoint.ExchangeParams{
		CreateParams: s.params(catalog.TypeExchange, exchangeInput()),
		From:         id.GridAreaLinkID(uuid.New()),
		To:           id.GridAreaLinkID(uuid.New()),
	})
	s.Require().NoError(err)
	return mp
}

func (s *MeteringPointSuite) connected() *meteringpoint.MeteringPoint {
	mp := s.newConsumption()
	_, err := mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{
		StartOfSupply: shared.MustEffectiveDate(createdOn).Time(),
	})
	s.Require().NoError(err)
	_, err = mp.Connect(details(connectOn))
	s.Require().NoError(err)
	return mp
}

func details(raw string) meteringpoint.ConnectionDetails {
	return meteringpoint.ConnectionDetails{EffectiveDate: shared.MustEffectiveDate(raw)}
}

func violations(err error) rules.Result {
	r, _ := rules.ResultOf(err)
	return r
}

func (s *MeteringPointSuite) TestCreate() {
	s.Run("consumption without net settlement starts in New", func() {
		p := s.params(catalog.TypeConsumption, consumptionInput())
		mp, events, err := meteringpoint.Create(s.validator, p)
		s.Require().NoError(err)
		s.Equal(catalog.StateNew, mp.PhysicalState())
		s.Equal(p.ID, mp.ID())
		s.Require().Len(events, 1)
		created, ok := events[0].(meteringpoint.MeteringPointCreated)
		s.Require().True(ok)
		s.Equal(validGsrn, created.Gsrn().String())
		s.True(created.MasterData.Equal(p.MasterData))
	})

	s.Run("validator failure builds nothing", func() {
		in := consumptionInput()
		in.NetSettlementGroup = masterdata.Str("One")
		in.ConnectionType = masterdata.Str("Installation")
		in.MeteringMethod = masterdata.Str("Virtual")
		in.MeterID = nil

		mp, events, err := meteringpoint.Create(s.validator, s.params(catalog.TypeConsumption, in))
		s.Nil(mp)
		s.Nil(events)
		s.ErrorIs(err, meteringpoint.ErrCannotCreate)
		s.True(violations(err).Has(masterdata.CodePowerPlantRequired))
	})

	s.Run("exchange must use CreateExchange", func() {
		r := meteringpoint.CanCreate(s.validator, s.params(catalog.TypeExchange, exchangeInput()))
		s.True(r.Has(meteringpoint.CodeExchangeNeedsGridAreas))
	})

	s.Run("missing identity is an invariant violation", func() {
		p := s.params(catalog.TypeConsumption, consumptionInput())
		p.ID = id.MeteringPointID{}
		_, _, err := meteringpoint.Create(s.validator, p)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("exchange needs distinct grid areas", func() {
		area := id.GridAreaLinkID(uuid.New())
		_, _, err := meteringpoint.CreateExchange(s.validator, meteringpoint.ExchangeParams{
			CreateParams: s.params(catalog.TypeExchange, exchangeInput()),
			From:         area,
			To:           area,
		})
		s.ErrorIs(err, meteringpoint.ErrCannotCreate)
		s.True(violations(err).Has(meteringpoint.CodeExchangeSameGridArea))
	})

	s.Run("exchange keeps its grid areas", func() {
		mp := s.newExchange()
		ex, ok := mp.Exchange()
		s.True(ok)
		s.NotEqual(ex.From, ex.To)
	})
}

func (s *MeteringPointSuite) TestConnectRequiresEnergySupplier() {
	mp := s.newConsumption()

	r := mp.ConnectAcceptable(details(connectOn))
	s.False(r.Success())
	s.True(r.Has(meteringpoint.CodeEnergySupplierRequired))

	events, err := mp.Connect(details(connectOn))
	s.Nil(events)
	s.ErrorIs(err, meteringpoint.ErrCannotConnect)
	s.Equal(catalog.StateNew, mp.PhysicalState())
}

func (s *MeteringPointSuite) TestConnectWithEnergySupplier() {
	mp := s.newConsumption()
	effective := shared.MustEffectiveDate(connectOn)

	_, err := mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{
		StartOfSupply: effective.Time().AddDate(0, 0, -1),
	})
	s.Require().NoError(err)

	events, err := mp.Connect(meteringpoint.ConnectionDetails{EffectiveDate: effective})
	s.Require().NoError(err)
	s.Equal(catalog.StateConnected, mp.PhysicalState())
	s.Require().Len(events, 1)

	connected, ok := events[0].(meteringpoint.MeteringPointConnected)
	s.Require().True(ok)
	s.Equal(validGsrn, connected.Gsrn().String())
	s.True(connected.EffectiveDate.Equal(effective))
	s.Equal(mp.ID(), connected.AggregateID())
}

func (s *MeteringPointSuite) TestSupplyMustStartBeforeConnection() {
	mp := s.newConsumption()
	_, err := mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{
		StartOfSupply: shared.MustEffectiveDate(laterOn).Time(),
	})
	s.Require().NoError(err)

	r := mp.ConnectAcceptable(details(connectOn))
	s.True(r.Has(meteringpoint.CodeSupplyStartsAfterEffective))
}

func (s *MeteringPointSuite) TestNonAccountingPointConnectsWithoutSupplier() {
	mp := s.newExchange()
	s.True(mp.ConnectAcceptable(details(connectOn)).Success())
	_, err := mp.Connect(details(connectOn))
	s.NoError(err)
}

// ConnectAcceptable and Connect must agree for every reachable state.
func (s *MeteringPointSuite) TestConnectAcceptableAgreesWithConnect() {
	type setup struct {
		name string
		mp   func() *meteringpoint.MeteringPoint
		d    meteringpoint.ConnectionDetails
	}
	closed := func() *meteringpoint.MeteringPoint {
		mp := s.connected()
		_, err := mp.CloseDown(shared.MustEffectiveDate(laterOn))
		s.Require().NoError(err)
		return mp
	}
	cases := []setup{
		{"new without supplier", s.newConsumption, details(connectOn)},
		{"new with supplier", func() *meteringpoint.MeteringPoint {
			mp := s.newConsumption()
			_, _ = mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: shared.MustEffectiveDate(createdOn).Time()})
			return mp
		}, details(connectOn)},
		{"connect before creation", func() *meteringpoint.MeteringPoint {
			mp := s.newConsumption()
			_, _ = mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})
			return mp
		}, details("2023-12-01T23:00:00Z")},
		{"already connected", s.connected, details(laterOn)},
		{"closed down", closed, details(laterOn)},
		{"exchange", s.newExchange, details(connectOn)},
		{"zero details", s.newExchange, meteringpoint.ConnectionDetails{}},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			acceptable := tc.mp().ConnectAcceptable(tc.d).Success()
			_, err := tc.mp().Connect(tc.d)
			s.Equal(acceptable, err == nil)
		})
	}
}

func (s *MeteringPointSuite) TestDisconnectAndReconnect() {
	mp := s.connected()

	s.True(mp.ReconnectAcceptable(details(laterOn)).Has(meteringpoint.CodeMustBeDisconnected))

	events, err := mp.Disconnect(details(laterOn))
	s.Require().NoError(err)
	s.Equal(meteringpoint.EventMeteringPointDisconnected, events[0].EventName())
	s.Equal(catalog.StateDisconnected, mp.PhysicalState())

	_, err = mp.Disconnect(details(laterOn))
	s.ErrorIs(err, meteringpoint.ErrCannotDisconnect)

	_, err = mp.Reconnect(details(connectOn))
	s.ErrorIs(err, meteringpoint.ErrCannotReconnect)
	s.True(mp.ReconnectAcceptable(details(connectOn)).Has(meteringpoint.CodeBeforeLastTransition))

	events, err = mp.Reconnect(details(summerDate))
	s.Require().NoError(err)
	s.Equal(meteringpoint.EventMeteringPointReconnected, events[0].EventName())
	s.Equal(catalog.StateConnected, mp.PhysicalState())
}

func (s *MeteringPointSuite) TestClosedDownRejectsEveryChange() {
	mp := s.connected()
	events, err := mp.CloseDown(shared.MustEffectiveDate(laterOn))
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.True(mp.IsClosedDown())
	before := mp.MasterData()

	change := masterdata.Input{City: masterdata.Str("Odense C")}
	_, err = mp.ChangeMasterData(s.validator, change)
	s.ErrorIs(err, meteringpoint.ErrCannotChange)
	s.True(violations(err).Has(meteringpoint.CodeClosedDown))
	s.True(mp.MasterData().Equal(before))

	_, err = mp.Connect(details(summerDate))
	s.True(violations(err).Has(meteringpoint.CodeClosedDown))

	_, err = mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: time.Now()})
	s.ErrorIs(err, meteringpoint.ErrCannotChange)
	s.False(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = mp.ChangeAddress(s.validator, masterdata.AddressInput{City: masterdata.Str("Odense C")}, shared.MustEffectiveDate(summerDate))
	s.True(violations(err).Has(meteringpoint.CodeClosedDown))

	_, err = mp.CloseDown(shared.MustEffectiveDate(summerDate))
	s.ErrorIs(err, meteringpoint.ErrCannotChange)
}

func (s *MeteringPointSuite) TestCloseDownBeforeLastTransition() {
	mp := s.connected()
	at := mp.Connection().EffectiveAt

	s.True(mp.CloseDownAcceptable(shared.MustEffectiveDate(createdOn)).HasField(meteringpoint.CodeBeforeLastTransition, shared.FieldEffectiveDate))
	events, err := mp.CloseDown(shared.MustEffectiveDate(createdOn))
	s.Nil(events)
	s.ErrorIs(err, meteringpoint.ErrCannotChange)
	s.True(violations(err).Has(meteringpoint.CodeBeforeLastTransition))
	s.Equal(catalog.StateConnected, mp.PhysicalState())
	s.True(mp.Connection().EffectiveAt.Equal(at))

	s.True(mp.CloseDownAcceptable(at).Success())
	_, err = mp.CloseDown(at)
	s.Require().NoError(err)
	s.True(mp.IsClosedDown())
}

func (s *MeteringPointSuite) TestEnergySupplierKeepsMicrosecondsInUTC() {
	mp := s.newConsumption()
	precise := time.Date(2024, 1, 1, 23, 0, 0, 123456789, time.UTC)

	events, err := mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: precise.In(time.FixedZone("CET", 3600))})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	stored := events[0].(meteringpoint.EnergySupplierDetailsChanged).StartOfSupply
	s.Equal(time.UTC, stored.Location())
	s.Equal(123456000, stored.Nanosecond())

	snap := mp.Snapshot()
	truncated := snap.StartOfSupply.Truncate(time.Microsecond)
	snap.StartOfSupply = &truncated
	restored, err := meteringpoint.Restore(snap)
	s.Require().NoError(err)

	events, err = restored.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: precise})
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *MeteringPointSuite) TestClosedDownCheckPrecedesAccountingInvariant() {
	mp := s.newExchange()
	_, err := mp.CloseDown(shared.MustEffectiveDate(laterOn))
	s.Require().NoError(err)

	_, err = mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: time.Now()})
	s.ErrorIs(err, meteringpoint.ErrCannotChange)
}

func (s *MeteringPointSuite) TestEnergySupplierOnNonAccountingPoint() {
	mp := s.newExchange()
	events, err := mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{
		StartOfSupply: shared.MustEffectiveDate(connectOn).Time(),
	})
	s.Nil(events)
	s.ErrorIs(err, meteringpoint.ErrCannotAssignEnergySupplier)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	_, ok := rules.ResultOf(err)
	s.False(ok)
}

func (s *MeteringPointSuite) TestEnergySupplierChangeIsIdempotent() {
	mp := s.newConsumption()
	first := shared.MustEffectiveDate(connectOn).Time()
	second := shared.MustEffectiveDate(laterOn).Time()

	events, err := mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: first})
	s.Require().NoError(err)
	s.Len(events, 1)

	events, err = mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: first.In(time.FixedZone("CET", 3600))})
	s.Require().NoError(err)
	s.Empty(events)

	events, err = mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{StartOfSupply: second})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	changed := events[0].(meteringpoint.EnergySupplierDetailsChanged)
	s.True(changed.StartOfSupply.Equal(second))

	supplier, ok := mp.EnergySupplier()
	s.True(ok)
	s.True(supplier.StartOfSupply.Equal(second))
}

func (s *MeteringPointSuite) TestChangeMasterData() {
	mp := s.newConsumption()

	s.Run("invalid change is rejected and leaves state alone", func() {
		before := mp.MasterData()
		r := mp.ChangeMasterDataAcceptable(s.validator, masterdata.Input{Capacity: masterdata.Str("-5")})
		s.True(r.Has(shared.CodeCapacityNegative))
		_, err := mp.ChangeMasterData(s.validator, masterdata.Input{Capacity: masterdata.Str("-5")})
		s.ErrorIs(err, meteringpoint.ErrCannotChange)
		s.True(mp.MasterData().Equal(before))
	})

	s.Run("cross-field rules apply to the merged data", func() {
		_, err := mp.ChangeMasterData(s.validator, masterdata.Input{NetSettlementGroup: masterdata.Str("Six")})
		r := violations(err)
		s.True(r.Has(masterdata.CodePowerPlantRequired))
		s.True(r.Has(masterdata.CodeScheduledReadingDateRequired))
	})

	s.Run("equal data is a no-op", func() {
		events, err := mp.ChangeMasterData(s.validator, masterdata.Input{Capacity: masterdata.Str("10.50")})
		s.Require().NoError(err)
		s.Empty(events)
	})

	s.Run("a change emits the new snapshot", func() {
		events, err := mp.ChangeMasterData(s.validator, masterdata.Input{Capacity: masterdata.Str("12")})
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		changed := events[0].(meteringpoint.MasterDataChanged)
		s.Equal("12.0", changed.MasterData.Capacity().String())
		s.Equal("12.0", mp.MasterData().Capacity().String())
	})
}

func (s *MeteringPointSuite) TestChangeAddressOnlyChangesAddressAndDate() {
	mp := s.newConsumption()
	before := mp.MasterData()
	moved := shared.MustEffectiveDate(laterOn)
	s.Require().False(moved.Equal(before.EffectiveDate()))

	events, err := mp.ChangeAddress(s.validator, masterdata.AddressInput{
		City:     masterdata.Str("Odense C"),
		PostCode: masterdata.Str("5000"),
	}, moved)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(meteringpoint.EventAddressChanged, events[0].EventName())
	s.True(events[0].(meteringpoint.AddressChanged).EffectiveDate.Equal(moved))

	after := mp.MasterData()
	s.Equal("Odense C", after.Address().City())
	s.False(after.Address().Equal(before.Address()))
	s.True(after.EffectiveDate().Equal(moved))

	restored := masterdata.InputFrom(after)
	restored.City = masterdata.Str(before.Address().City())
	restored.PostCode = masterdata.Str(before.Address().PostCode())
	rebuilt, r := masterdata.NewBuilder(catalog.TypeConsumption).Build(restored)
	s.Require().True(r.Success())
	s.False(rebuilt.Equal(before))

	restored.EffectiveDate = masterdata.Str(before.EffectiveDate().String())
	rebuilt, r = masterdata.NewBuilder(catalog.TypeConsumption).Build(restored)
	s.Require().True(r.Success())
	s.True(rebuilt.Equal(before))

	events, err = mp.ChangeAddress(s.validator, masterdata.AddressInput{City: masterdata.Str("Odense C")}, shared.MustEffectiveDate(summerDate))
	s.Require().NoError(err)
	s.Empty(events)
	s.True(mp.MasterData().EffectiveDate().Equal(moved))
}

func (s *MeteringPointSuite) TestChangeMeteringConfiguration() {
	mp := s.newConsumption()
	before := mp.MasterData()
	effective := before.EffectiveDate()

	s.Run("virtual without meter clears the meter", func() {
		events, err := mp.ChangeMeteringConfiguration(s.validator, catalog.MeteringVirtual, "", effective)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		changed := events[0].(meteringpoint.MeteringConfigurationChanged)
		s.Equal(catalog.MeteringVirtual, changed.Configuration.Method())
		s.True(changed.Configuration.Meter().IsZero())

		after := mp.MasterData()
		s.True(before.Address().Equal(after.Address()))
		s.True(before.Capacity().Equal(after.Capacity()))
	})

	s.Run("the effective date moves with the configuration", func() {
		moved := shared.MustEffectiveDate(laterOn)
		events, err := mp.ChangeMeteringConfiguration(s.validator, catalog.MeteringCalculated, "", moved)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.True(events[0].(meteringpoint.MeteringConfigurationChanged).EffectiveDate.Equal(moved))

		after := mp.MasterData()
		s.True(after.EffectiveDate().Equal(moved))
		s.True(before.Address().Equal(after.Address()))
		s.True(before.Capacity().Equal(after.Capacity()))

		_, err = mp.ChangeMeteringConfiguration(s.validator, catalog.MeteringVirtual, "", effective)
		s.Require().NoError(err)
	})

	s.Run("physical without meter is rejected", func() {
		r := mp.ChangeMeteringConfigurationAcceptable(s.validator, catalog.MeteringPhysical, "", effective)
		s.True(r.Has(shared.CodeMeterRequired))
	})

	s.Run("same configuration is a no-op", func() {
		events, err := mp.ChangeMeteringConfiguration(s.validator, catalog.MeteringVirtual, "", effective)
		s.Require().NoError(err)
		s.Empty(events)
	})
}

func (s *MeteringPointSuite) TestSnapshotRestore() {
	mp := s.connected()
	mp.MarkPersisted(3)

	restored, err := meteringpoint.Restore(mp.Snapshot())
	s.Require().NoError(err)
	s.Equal(mp.ID(), restored.ID())
	s.Equal(mp.Gsrn(), restored.Gsrn())
	s.Equal(catalog.StateConnected, restored.PhysicalState())
	s.True(mp.MasterData().Equal(restored.MasterData()))
	s.Equal(3, restored.Version())
	_, ok := restored.EnergySupplier()
	s.True(ok)

	ex := s.newExchange()
	restoredEx, err := meteringpoint.Restore(ex.Snapshot())
	s.Require().NoError(err)
	got, ok := restoredEx.Exchange()
	s.True(ok)
	want, _ := ex.Exchange()
	s.Equal(want, got)

	snap := mp.Snapshot()
	snap.GsrnNumber = otherGsrn[:10]
	_, err = meteringpoint.Restore(snap)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

package store_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	id "datahub/pkg/domain"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/shared"
)

const (
	createdOn = "2024-01-01T23:00:00Z"
	gsrnA     = "571234567891234568"
	gsrnB     = "571313131313131313"
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

// newPoint creates an unsaved consumption point and its creation event.
func newPoint(t *testing.T, gsrn string) (*meteringpoint.MeteringPoint, []meteringpoint.Event) {
	t.Helper()
	md, r := masterdata.NewBuilder(catalog.TypeConsumption).Build(consumptionInput())
	require.True(t, r.Success(), r.String())
	mp, events, err := meteringpoint.Create(masterdata.NewValidator(), meteringpoint.CreateParams{
		ID:             id.NewMeteringPointID(),
		GSRN:           shared.MustGsrnNumber(gsrn),
		Type:           catalog.TypeConsumption,
		GridAreaLinkID: id.GridAreaLinkID(uuid.New()),
		EffectiveDate:  shared.MustEffectiveDate(createdOn),
		MasterData:     md,
	})
	require.NoError(t, err)
	return mp, events
}

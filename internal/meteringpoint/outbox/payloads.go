package outbox

import (
	"fmt"
	"strings"
	"time"

	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/shared"
)

type createdPayload struct {
	Type               string           `json:"type"`
	TypeCode           string           `json:"type_code"`
	GridAreaLinkID     string           `json:"grid_area_link_id"`
	FromGridAreaLinkID string           `json:"from_grid_area_link_id,omitempty"`
	ToGridAreaLinkID   string           `json:"to_grid_area_link_id,omitempty"`
	EffectiveDate      string           `json:"effective_date"`
	MasterData         masterdata.Input `json:"master_data"`
}

type effectivePayload struct {
	EffectiveDate string `json:"effective_date"`
}

type energySupplierPayload struct {
	StartOfSupply time.Time `json:"start_of_supply"`
}

type addressPayload struct {
	EffectiveDate string                  `json:"effective_date"`
	Address       masterdata.AddressInput `json:"address"`
}

type configurationPayload struct {
	EffectiveDate  string `json:"effective_date"`
	MeteringMethod string `json:"metering_method"`
	MeterID        string `json:"meter_id,omitempty"`
}

type masterDataPayload struct {
	MasterData masterdata.Input `json:"master_data"`
}

func payloadOf(e meteringpoint.Event) (any, error) {
	switch ev := e.(type) {
	case meteringpoint.MeteringPointCreated:
		p := createdPayload{
			Type:           ev.Type.Name(),
			TypeCode:       ev.Type.Code(),
			GridAreaLinkID: ev.GridAreaLinkID.String(),
			EffectiveDate:  ev.EffectiveDate.String(),
			MasterData:     masterdata.InputFrom(ev.MasterData),
		}
		if ev.Exchange != nil {
			p.FromGridAreaLinkID = ev.Exchange.From.String()
			p.ToGridAreaLinkID = ev.Exchange.To.String()
		}
		return p, nil
	case meteringpoint.MeteringPointConnected:
		return effectivePayload{EffectiveDate: ev.EffectiveDate.String()}, nil
	case meteringpoint.MeteringPointDisconnected:
		return effectivePayload{EffectiveDate: ev.EffectiveDate.String()}, nil
	case meteringpoint.MeteringPointReconnected:
		return effectivePayload{EffectiveDate: ev.EffectiveDate.String()}, nil
	case meteringpoint.MeteringPointClosedDown:
		return effectivePayload{EffectiveDate: ev.EffectiveDate.String()}, nil
	case meteringpoint.EnergySupplierDetailsChanged:
		return energySupplierPayload{StartOfSupply: ev.StartOfSupply.UTC()}, nil
	case meteringpoint.AddressChanged:
		return addressPayload{
			EffectiveDate: ev.EffectiveDate.String(),
			Address:       addressInputOf(ev.Address),
		}, nil
	case meteringpoint.MeteringConfigurationChanged:
		return configurationPayload{
			EffectiveDate:  ev.EffectiveDate.String(),
			MeteringMethod: ev.Configuration.Method().Name(),
			MeterID:        ev.Configuration.Meter().String(),
		}, nil
	case meteringpoint.MasterDataChanged:
		return masterDataPayload{MasterData: masterdata.InputFrom(ev.MasterData)}, nil
	}
	return nil, fmt.Errorf("outbox: no payload for event %s", e.EventName())
}

func addressInputOf(a shared.Address) masterdata.AddressInput {
	p := a.Parts()
	return masterdata.AddressInput{
		StreetName:          optional(p.StreetName),
		StreetCode:          optional(p.StreetCode),
		BuildingNumber:      optional(p.BuildingNumber),
		PostCode:            optional(p.PostCode),
		City:                optional(p.City),
		CitySubDivision:     optional(p.CitySubDivision),
		CountryCode:         optional(p.CountryCode),
		Floor:               optional(p.Floor),
		Room:                optional(p.Room),
		MunicipalityCode:    optional(p.MunicipalityCode),
		LocationDescription: optional(p.LocationDescription),
		GeoInfoReference:    optional(p.GeoInfoReference),
		IsActualAddress:     p.IsActualAddress,
	}
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

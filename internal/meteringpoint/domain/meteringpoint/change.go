package meteringpoint

import (
	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/domain/shared"
)

// rebuild runs the builder and the validator over the merged input.
func (mp *MeteringPoint) rebuild(v masterdata.Validator, merged masterdata.Input) (masterdata.MasterData, rules.Result) {
	if mp.connection.IsClosedDown() {
		return masterdata.MasterData{}, rules.Of(closedDown)
	}
	md, r := masterdata.NewBuilder(mp.typ).Build(merged)
	if !r.Success() {
		return masterdata.MasterData{}, r
	}
	if r := v.Validate(mp.typ, md); !r.Success() {
		return masterdata.MasterData{}, r
	}
	return md, rules.Success()
}

// ChangeMasterDataAcceptable overlays change on the current master data and
// checks the result like a creation would.
func (mp *MeteringPoint) ChangeMasterDataAcceptable(v masterdata.Validator, change masterdata.Input) rules.Result {
	_, r := mp.rebuild(v, masterdata.InputFrom(mp.masterData).Overlay(change))
	return r
}

// ChangeMasterData replaces the master data. An unchanged result raises no
// event.
func (mp *MeteringPoint) ChangeMasterData(v masterdata.Validator, change masterdata.Input) ([]Event, error) {
	md, r := mp.rebuild(v, masterdata.InputFrom(mp.masterData).Overlay(change))
	if !r.Success() {
		return nil, rules.Broken(ErrCannotChange, r)
	}
	if md.Equal(mp.masterData) {
		return nil, nil
	}
	mp.masterData = md
	return []Event{MasterDataChanged{Header: mp.header(), MasterData: md}}, nil
}

func addressChange(mp *MeteringPoint, address masterdata.AddressInput, effective shared.EffectiveDate) masterdata.Input {
	change := address.Input()
	change.EffectiveDate = masterdata.Str(effective.String())
	return masterdata.InputFrom(mp.masterData).Overlay(change)
}

func (mp *MeteringPoint) ChangeAddressAcceptable(v masterdata.Validator, address masterdata.AddressInput, effective shared.EffectiveDate) rules.Result {
	_, r := mp.rebuild(v, addressChange(mp, address, effective))
	return r
}

// ChangeAddress overlays the supplied address parts. The effective date
// becomes the master data's effective date along with the new address. It is
// a no-op when the resulting address equals the current one, whatever the
// date.
func (mp *MeteringPoint) ChangeAddress(v masterdata.Validator, address masterdata.AddressInput, effective shared.EffectiveDate) ([]Event, error) {
	md, r := mp.rebuild(v, addressChange(mp, address, effective))
	if !r.Success() {
		return nil, rules.Broken(ErrCannotChange, r)
	}
	if md.Address().Equal(mp.masterData.Address()) {
		return nil, nil
	}
	mp.masterData = md
	return []Event{AddressChanged{Header: mp.header(), EffectiveDate: effective, Address: md.Address()}}, nil
}

// configurationChange replaces method and meter together, so switching to a
// virtual method clears the meter.
func configurationChange(mp *MeteringPoint, method catalog.MeteringMethod, meterID string, effective shared.EffectiveDate) masterdata.Input {
	in := masterdata.InputFrom(mp.masterData)
	in.MeteringMethod = nil
	if method.IsValid() {
		in.MeteringMethod = masterdata.Str(method.Name())
	}
	in.MeterID = nil
	if meterID != "" {
		in.MeterID = masterdata.Str(meterID)
	}
	in.EffectiveDate = masterdata.Str(effective.String())
	return in
}

func (mp *MeteringPoint) ChangeMeteringConfigurationAcceptable(v masterdata.Validator, method catalog.MeteringMethod, meterID string, effective shared.EffectiveDate) rules.Result {
	_, r := mp.rebuild(v, configurationChange(mp, method, meterID, effective))
	return r
}

// ChangeMeteringConfiguration replaces method and meter, and moves the master
// data's effective date to the given one. An unchanged configuration is a
// no-op and keeps the current date.
func (mp *MeteringPoint) ChangeMeteringConfiguration(v masterdata.Validator, method catalog.MeteringMethod, meterID string, effective shared.EffectiveDate) ([]Event, error) {
	md, r := mp.rebuild(v, configurationChange(mp, method, meterID, effective))
	if !r.Success() {
		return nil, rules.Broken(ErrCannotChange, r)
	}
	if md.MeteringConfiguration() == mp.masterData.MeteringConfiguration() {
		return nil, nil
	}
	mp.masterData = md
	return []Event{MeteringConfigurationChanged{
		Header:        mp.header(),
		EffectiveDate: effective,
		Configuration: md.MeteringConfiguration(),
	}}, nil
}

package masterdata

import (
	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodePowerPlantRequired             rules.Code = "power_plant_required_for_net_settlement_group"
	CodePowerPlantNotAllowed           rules.Code = "power_plant_not_allowed_for_net_settlement_group"
	CodeMeteringMethodNotAllowed       rules.Code = "metering_method_not_allowed_for_net_settlement_group"
	CodeConnectionTypeRequired         rules.Code = "connection_type_required_for_net_settlement_group"
	CodeConnectionTypeNotAllowed       rules.Code = "connection_type_not_allowed_for_net_settlement_group"
	CodeConnectionTypeMismatch         rules.Code = "connection_type_does_not_match_net_settlement_group"
	CodeSettlementMethodNotAllowed     rules.Code = "settlement_method_not_allowed_for_net_settlement_group"
	CodeScheduledReadingDateRequired   rules.Code = "scheduled_meter_reading_date_required_for_net_settlement_group"
	CodeScheduledReadingDateNotAllowed rules.Code = "scheduled_meter_reading_date_not_allowed_for_net_settlement_group"
)

// Validator checks rules spanning several master data fields.
type Validator interface {
	Validate(t catalog.MeteringPointType, md MasterData) rules.Result
}

// ruleSet is one battery of cross-field rules.
type ruleSet func(md MasterData) rules.Result

type validator struct {
	byType map[catalog.MeteringPointType][]ruleSet
}

// NewValidator returns the battery lookup used by the registry. Every type
// gets the selector conformance check; types with a net settlement group add
// the group rules and Consumption adds its settlement rules on top.
func NewValidator() Validator {
	return &validator{
		byType: map[catalog.MeteringPointType][]ruleSet{
			catalog.TypeConsumption: {netSettlementGroupRules, consumptionSettlementRules},
			catalog.TypeProduction:  {netSettlementGroupRules},
		},
	}
}

func (v *validator) Validate(t catalog.MeteringPointType, md MasterData) rules.Result {
	r := checkPresence(PolicyFor(t), InputFrom(md))
	for _, set := range v.byType[t] {
		r = r.Merge(set(md))
	}
	return r
}

var (
	powerPlantGroups   = []catalog.NetSettlementGroup{catalog.NetSettlementGroupOne, catalog.NetSettlementGroupTwo, catalog.NetSettlementGroupThree, catalog.NetSettlementGroupSix}
	physicalMeterGroup = []catalog.NetSettlementGroup{catalog.NetSettlementGroupZero, catalog.NetSettlementGroupNinetyNine}

	allowedConnectionTypes = map[catalog.NetSettlementGroup][]catalog.ConnectionType{
		catalog.NetSettlementGroupOne:        {catalog.ConnectionInstallation},
		catalog.NetSettlementGroupTwo:        {catalog.ConnectionInstallation},
		catalog.NetSettlementGroupThree:      {catalog.ConnectionDirect},
		catalog.NetSettlementGroupSix:        {catalog.ConnectionInstallation},
		catalog.NetSettlementGroupNinetyNine: {catalog.ConnectionDirect, catalog.ConnectionInstallation},
	}
)

func netSettlementGroupRules(md MasterData) rules.Result {
	nsg := md.NetSettlementGroup()
	if !nsg.IsValid() {
		return rules.Success()
	}
	hasPowerPlant := !md.PowerPlant().IsZero()
	method := md.MeteringConfiguration().Method()
	connection := md.ConnectionType()

	return rules.Evaluate(
		rules.Check(nsg.In(powerPlantGroups...) && !hasPowerPlant, rules.Violation{
			Code:    CodePowerPlantRequired,
			Field:   string(FieldPowerPlant),
			Message: "power plant is required for net settlement group " + nsg.Code(),
		}),
		rules.Check(nsg == catalog.NetSettlementGroupZero && hasPowerPlant, rules.Violation{
			Code:    CodePowerPlantNotAllowed,
			Field:   string(FieldPowerPlant),
			Message: "power plant is not allowed for net settlement group 0",
		}),
		rules.Check(!nsg.In(physicalMeterGroup...) && method == catalog.MeteringPhysical, rules.Violation{
			Code:    CodeMeteringMethodNotAllowed,
			Field:   string(FieldMeteringMethod),
			Message: "metering method must be virtual or calculated for net settlement group " + nsg.Code(),
		}),
		rules.Check(nsg != catalog.NetSettlementGroupZero && connection == 0, rules.Violation{
			Code:    CodeConnectionTypeRequired,
			Field:   string(FieldConnectionType),
			Message: "connection type is required for net settlement group " + nsg.Code(),
		}),
		rules.Check(nsg == catalog.NetSettlementGroupZero && connection != 0, rules.Violation{
			Code:    CodeConnectionTypeNotAllowed,
			Field:   string(FieldConnectionType),
			Message: "connection type is not allowed for net settlement group 0",
		}),
		rules.Check(connection != 0 && nsg != catalog.NetSettlementGroupZero && !connectionAllowed(nsg, connection), rules.Violation{
			Code:    CodeConnectionTypeMismatch,
			Field:   string(FieldConnectionType),
			Message: "connection type " + connection.Name() + " does not match net settlement group " + nsg.Code(),
		}),
	)
}

func connectionAllowed(nsg catalog.NetSettlementGroup, c catalog.ConnectionType) bool {
	for _, allowed := range allowedConnectionTypes[nsg] {
		if allowed == c {
			return true
		}
	}
	return false
}

func consumptionSettlementRules(md MasterData) rules.Result {
	nsg := md.NetSettlementGroup()
	if !nsg.IsValid() {
		return rules.Success()
	}
	settlement := md.SettlementMethod()
	hasScheduledDate := !md.ScheduledMeterReadingDate().IsZero()

	return rules.Evaluate(
		rules.Check(nsg != catalog.NetSettlementGroupZero && settlement != 0 &&
			settlement != catalog.SettlementFlex && settlement != catalog.SettlementNonProfiled, rules.Violation{
			Code:    CodeSettlementMethodNotAllowed,
			Field:   string(FieldSettlementMethod),
			Message: "settlement method must be flex or non-profiled for net settlement group " + nsg.Code(),
		}),
		rules.Check(nsg == catalog.NetSettlementGroupSix && !hasScheduledDate, rules.Violation{
			Code:    CodeScheduledReadingDateRequired,
			Field:   string(FieldScheduledMeterReadingDate),
			Message: "scheduled meter reading date is required for net settlement group 6",
		}),
		rules.Check(nsg != catalog.NetSettlementGroupSix && hasScheduledDate, rules.Violation{
			Code:    CodeScheduledReadingDateNotAllowed,
			Field:   string(FieldScheduledMeterReadingDate),
			Message: "scheduled meter reading date is only allowed for net settlement group 6",
		}),
	)
}

package booking

import (
	"math"

	"shortlet/models"
)

// ResolveCommissionRate picks the commission rate for a new booking:
// agent override, then property rate, then the global default. The chosen
// rate is snapshotted onto the booking permanently.
func ResolveCommissionRate(agent *models.Agent, property *models.Property, globalDefault float64) float64 {
	if agent != nil && agent.CommissionRate != nil {
		return *agent.CommissionRate
	}
	if property != nil && property.CommissionRate > 0 {
		return property.CommissionRate
	}
	return globalDefault
}

// ComputeTotal returns the booking total for the given stay.
func ComputeTotal(nightlyRate, cleaningFee float64, nights int) float64 {
	return roundMoney(nightlyRate*float64(nights) + cleaningFee)
}

// CommissionAmount applies a percent rate to a total.
func CommissionAmount(total, rate float64) float64 {
	return roundMoney(total * rate / 100)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

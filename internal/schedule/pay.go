package schedule

import "math"

// EstimatePay derives a per-instance payout from the contract hourly rate
// and the instance duration, rounded half-up to two decimals. A missing
// rate yields no estimate. The estimate only fills an absence; explicit
// per-instance pay always wins and is resolved by the expander.
func EstimatePay(hourlyRate *float64, durationMinutes int) *float64 {
	if hourlyRate == nil {
		return nil
	}
	amount := *hourlyRate * float64(durationMinutes) / 60
	rounded := math.Round(amount*100) / 100
	return &rounded
}

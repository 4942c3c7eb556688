package entity

import "time"

// SensorParams controls one sensor generation pass.
type SensorParams struct {
	Machines       int     `json:"machines"`
	Days           int     `json:"days"`
	SamplesPerHour int     `json:"samples_per_hour"`
	FailureProb    float64 `json:"failure_prob"`
}

// DefaultSensorParams mirrors the maintenance mock: three machines, thirty
// days, a sample every ten minutes and a 10% failure chance in the tail.
func DefaultSensorParams() SensorParams {
	return SensorParams{
		Machines:       3,
		Days:           30,
		SamplesPerHour: 6,
		FailureProb:    0.10,
	}
}

// TotalRows is machines × days × 24 × samples per hour.
func (p SensorParams) TotalRows() int {
	return p.Machines * p.SamplesPerMachine()
}

func (p SensorParams) SamplesPerMachine() int {
	return p.Days * 24 * p.SamplesPerHour
}

type SensorReading struct {
	MachineID   int       `json:"machine_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Pressure    float64   `json:"pressure"`
	Vibration   float64   `json:"vibration"`
	Failure     bool      `json:"failure"`
}

package generator

import (
	"fmt"
	"time"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

const (
	// DegradationStart is the fraction of a machine's series after which
	// samples may be labelled failing.
	DegradationStart = 0.7
	// HardAnomalyProb is the per-sample chance of a large additive spike.
	HardAnomalyProb = 0.01
)

type normalDist struct {
	mean, std float64
}

var (
	baselineTemperature = normalDist{90, 5}
	baselinePressure    = normalDist{100, 10}
	baselineVibration   = normalDist{2, 0.5}

	anomalyTemperature = normalDist{30, 10}
	anomalyPressure    = normalDist{25, 5}
	anomalyVibration   = normalDist{3, 1}
)

func ValidateSensorParams(p entity.SensorParams) error {
	switch {
	case p.Machines < 0:
		return fmt.Errorf("%w: machines must not be negative, got %d", ErrInvalidSensorParams, p.Machines)
	case p.Days < 0:
		return fmt.Errorf("%w: days must not be negative, got %d", ErrInvalidSensorParams, p.Days)
	case p.SamplesPerHour <= 0:
		return fmt.Errorf("%w: samples per hour must be positive, got %d", ErrInvalidSensorParams, p.SamplesPerHour)
	case !(p.FailureProb >= 0 && p.FailureProb <= 1):
		return fmt.Errorf("%w: failure probability %v outside [0,1]", ErrInvalidSensorParams, p.FailureProb)
	case !withinLimit(MaxSensorRows, p.Machines, p.Days, 24, p.SamplesPerHour):
		return fmt.Errorf("%w: %w: more than %d rows", ErrInvalidSensorParams, ErrTooLarge, MaxSensorRows)
	}
	return nil
}

// SensorReadings produces machines × days × 24 × samplesPerHour rows.
//
// Baseline readings are independent draws per sample. Inside the trailing
// 30% of each machine's series every sample is separately marked failing
// with probability FailureProb and pushed up in proportion to how deep into
// the zone it sits. Hard anomalies are layered on top of any sample and
// never change the failure label.
func (g *Generator) SensorReadings(p entity.SensorParams) ([]entity.SensorReading, error) {
	if err := ValidateSensorParams(p); err != nil {
		return nil, err
	}

	total := p.SamplesPerMachine()
	interval := time.Hour / time.Duration(p.SamplesPerHour)
	start := g.now().Add(-time.Duration(p.Days) * 24 * time.Hour)

	zoneStart := DegradationStart * float64(total)
	zoneLen := (1 - DegradationStart) * float64(total)

	readings := make([]entity.SensorReading, 0, p.TotalRows())
	for machineID := 1; machineID <= p.Machines; machineID++ {
		for i := 0; i < total; i++ {
			temp := g.normal(baselineTemperature.mean, baselineTemperature.std)
			pressure := g.normal(baselinePressure.mean, baselinePressure.std)
			vibration := g.normal(baselineVibration.mean, baselineVibration.std)

			inZone := float64(i) > zoneStart
			failing := inZone && g.rnd.Float64() < p.FailureProb

			if failing {
				progress := (float64(i) - zoneStart) / zoneLen
				temp += 20*progress + g.normal(0, 1)
				pressure += 15*progress + g.normal(0, 2)
				vibration += 1.5*progress + g.normal(0, 0.2)
			}

			if g.rnd.Float64() < HardAnomalyProb {
				temp += g.normal(anomalyTemperature.mean, anomalyTemperature.std)
				pressure += g.normal(anomalyPressure.mean, anomalyPressure.std)
				vibration += g.normal(anomalyVibration.mean, anomalyVibration.std)
			}

			readings = append(readings, entity.SensorReading{
				MachineID:   machineID,
				Timestamp:   start.Add(time.Duration(i) * interval),
				Temperature: temp,
				Pressure:    pressure,
				Vibration:   vibration,
				Failure:     failing,
			})
		}
	}
	return readings, nil
}

package generator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestSensorReadings_RowCount(t *testing.T) {
	cases := []entity.SensorParams{
		{Machines: 1, Days: 1, SamplesPerHour: 1, FailureProb: 0.1},
		{Machines: 3, Days: 2, SamplesPerHour: 6, FailureProb: 0.5},
		{Machines: 2, Days: 3, SamplesPerHour: 4, FailureProb: 0},
	}
	for _, p := range cases {
		g := NewSeeded(7, WithClock(fixedClock))
		rows, err := g.SensorReadings(p)
		require.NoError(t, err)
		assert.Len(t, rows, p.Machines*p.Days*24*p.SamplesPerHour)
	}
}

func TestSensorReadings_SingleMachineSingleDay(t *testing.T) {
	g := NewSeeded(1, WithClock(fixedClock))
	rows, err := g.SensorReadings(entity.SensorParams{Machines: 1, Days: 1, SamplesPerHour: 1, FailureProb: 1})
	require.NoError(t, err)
	require.Len(t, rows, 24)

	assert.Equal(t, fixedNow.Add(-24*time.Hour), rows[0].Timestamp)
	for i := 1; i < len(rows); i++ {
		assert.Equal(t, time.Hour, rows[i].Timestamp.Sub(rows[i-1].Timestamp))
	}

	// 0.7 × 24 = 16.8: only indices 17..23 sit in the degradation zone.
	for i, r := range rows {
		assert.Equal(t, 1, r.MachineID)
		if i <= 16 {
			assert.False(t, r.Failure, "index %d is outside the zone", i)
		} else {
			assert.True(t, r.Failure, "index %d is inside the zone", i)
		}
	}
}

func TestSensorReadings_ZoneBoundaryExcludesExactThreshold(t *testing.T) {
	// 240 samples per machine: 0.7 × 240 = 168, so index 168 stays outside.
	p := entity.SensorParams{Machines: 2, Days: 5, SamplesPerHour: 2, FailureProb: 1}
	rows, err := NewSeeded(3, WithClock(fixedClock)).SensorReadings(p)
	require.NoError(t, err)

	perMachine := p.SamplesPerMachine()
	threshold := DegradationStart * float64(perMachine)
	assert.False(t, rows[168].Failure)
	assert.True(t, rows[169].Failure)
	for i, r := range rows {
		idx := i % perMachine
		assert.Equal(t, float64(idx) > threshold, r.Failure, "index %d", idx)
	}
}

func TestSensorReadings_ZeroFailureProbNeverLabels(t *testing.T) {
	g := NewSeeded(11, WithClock(fixedClock))
	rows, err := g.SensorReadings(entity.SensorParams{Machines: 3, Days: 10, SamplesPerHour: 6, FailureProb: 0})
	require.NoError(t, err)
	for _, r := range rows {
		assert.False(t, r.Failure)
	}
}

func TestSensorReadings_TimestampsPerMachine(t *testing.T) {
	g := NewSeeded(5, WithClock(fixedClock))
	p := entity.SensorParams{Machines: 2, Days: 1, SamplesPerHour: 6, FailureProb: 0.2}
	rows, err := g.SensorReadings(p)
	require.NoError(t, err)

	perMachine := p.SamplesPerMachine()
	for m := 0; m < p.Machines; m++ {
		series := rows[m*perMachine : (m+1)*perMachine]
		for i := 1; i < len(series); i++ {
			assert.Equal(t, 10*time.Minute, series[i].Timestamp.Sub(series[i-1].Timestamp))
			assert.Equal(t, m+1, series[i].MachineID)
		}
	}
}

func TestSensorReadings_EmptyInputs(t *testing.T) {
	g := NewSeeded(1, WithClock(fixedClock))

	rows, err := g.SensorReadings(entity.SensorParams{Machines: 0, Days: 5, SamplesPerHour: 6, FailureProb: 0.1})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = g.SensorReadings(entity.SensorParams{Machines: 4, Days: 0, SamplesPerHour: 6, FailureProb: 0.1})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSensorReadings_InvalidParams(t *testing.T) {
	g := NewSeeded(1)
	cases := map[string]entity.SensorParams{
		"negative machines": {Machines: -1, Days: 1, SamplesPerHour: 1},
		"negative days":     {Machines: 1, Days: -1, SamplesPerHour: 1},
		"zero rate":         {Machines: 1, Days: 1, SamplesPerHour: 0},
		"prob above one":    {Machines: 1, Days: 1, SamplesPerHour: 1, FailureProb: 1.5},
		"negative prob":     {Machines: 1, Days: 1, SamplesPerHour: 1, FailureProb: -0.1},
		"nan prob":          {Machines: 1, Days: 1, SamplesPerHour: 1, FailureProb: math.NaN()},
		"huge machines":     {Machines: 1 << 60, Days: 1 << 4, SamplesPerHour: 1},
		"huge days":         {Machines: 1, Days: math.MaxInt / 2, SamplesPerHour: 60},
		"over row limit":    {Machines: 1000, Days: 365, SamplesPerHour: 6},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := g.SensorReadings(p)
			assert.ErrorIs(t, err, ErrInvalidSensorParams)
		})
	}
}

func TestSensorReadings_SeedIsReproducible(t *testing.T) {
	p := entity.DefaultSensorParams()
	p.Days = 2

	a, err := NewSeeded(42, WithClock(fixedClock)).SensorReadings(p)
	require.NoError(t, err)
	b, err := NewSeeded(42, WithClock(fixedClock)).SensorReadings(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewSeeded(43, WithClock(fixedClock)).SensorReadings(p)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSummarizeSensor(t *testing.T) {
	readings := []entity.SensorReading{
		{MachineID: 2, Temperature: 10, Pressure: 1, Vibration: 1, Failure: true},
		{MachineID: 1, Temperature: 2, Pressure: 4, Vibration: 0},
		{MachineID: 1, Temperature: 4, Pressure: 4, Vibration: 2},
	}
	s := SummarizeSensor(readings)

	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, 1, s.Failures)
	require.Len(t, s.Machines, 2)

	m1 := s.Machines[0]
	assert.Equal(t, 1, m1.MachineID)
	assert.Equal(t, 2, m1.Samples)
	assert.Equal(t, entity.Stats{Min: 2, Max: 4, Mean: 3, Std: 1}, m1.Temperature)
	assert.Equal(t, entity.Stats{Min: 4, Max: 4, Mean: 4, Std: 0}, m1.Pressure)

	assert.Equal(t, 2, s.Machines[1].MachineID)
	assert.Equal(t, 1, s.Machines[1].Failures)
}

func TestValidateSensorParams_SizeLimit(t *testing.T) {
	err := ValidateSensorParams(entity.SensorParams{Machines: 1 << 60, Days: 1 << 4, SamplesPerHour: 1})
	assert.ErrorIs(t, err, ErrTooLarge)

	// 50 × 100 × 24 × 416 = 49,920,000 rows
	assert.NoError(t, ValidateSensorParams(entity.SensorParams{Machines: 50, Days: 100, SamplesPerHour: 416}))
	assert.ErrorIs(t, ValidateSensorParams(entity.SensorParams{Machines: 50, Days: 100, SamplesPerHour: 417}), ErrTooLarge)
}

// scriptedSource returns zero for every normal draw and replays uniforms
// from a queue, falling back to 0.99 once it runs dry.
type scriptedSource struct {
	uniforms []float64
}

func (s *scriptedSource) Float64() float64 {
	if len(s.uniforms) == 0 {
		return 0.99
	}
	v := s.uniforms[0]
	s.uniforms = s.uniforms[1:]
	return v
}

func (s *scriptedSource) NormFloat64() float64 { return 0 }

func (s *scriptedSource) IntN(int) int { return 0 }

func TestSensorReadings_DegradationAndHardAnomaly(t *testing.T) {
	// 24 samples: indices 17..23 sit past 0.7 × 24 and draw a failure
	// uniform before the anomaly uniform.
	var uniforms []float64
	for i := 0; i < 17; i++ {
		if i == 5 {
			uniforms = append(uniforms, 0)
		} else {
			uniforms = append(uniforms, 0.5)
		}
	}
	uniforms = append(uniforms, 0, 0.5)
	for i := 18; i < 23; i++ {
		uniforms = append(uniforms, 0.9, 0.5)
	}
	uniforms = append(uniforms, 0, 0)

	src := &scriptedSource{uniforms: uniforms}
	rows, err := New(src, WithClock(fixedClock)).SensorReadings(entity.SensorParams{
		Machines: 1, Days: 1, SamplesPerHour: 1, FailureProb: 0.5,
	})
	require.NoError(t, err)
	require.Len(t, rows, 24)
	assert.Empty(t, src.uniforms)

	progress := func(i int) float64 {
		return (float64(i) - DegradationStart*24) / ((1 - DegradationStart) * 24)
	}

	// plain baseline
	assert.InDelta(t, 90.0, rows[0].Temperature, 1e-9)
	assert.InDelta(t, 100.0, rows[0].Pressure, 1e-9)
	assert.InDelta(t, 2.0, rows[0].Vibration, 1e-9)
	assert.False(t, rows[0].Failure)

	// hard anomaly outside the zone keeps the healthy label
	assert.InDelta(t, 120.0, rows[5].Temperature, 1e-9)
	assert.InDelta(t, 125.0, rows[5].Pressure, 1e-9)
	assert.InDelta(t, 5.0, rows[5].Vibration, 1e-9)
	assert.False(t, rows[5].Failure)

	// first zone sample, failing with a small drift
	p := progress(17)
	assert.True(t, rows[17].Failure)
	assert.InDelta(t, 90+20*p, rows[17].Temperature, 1e-9)
	assert.InDelta(t, 100+15*p, rows[17].Pressure, 1e-9)
	assert.InDelta(t, 2+1.5*p, rows[17].Vibration, 1e-9)

	// in the zone but the failure draw misses
	assert.False(t, rows[18].Failure)
	assert.InDelta(t, 90.0, rows[18].Temperature, 1e-9)

	// failing and spiking on the last sample
	p = progress(23)
	assert.True(t, rows[23].Failure)
	assert.InDelta(t, 90+20*p+30, rows[23].Temperature, 1e-9)
	assert.InDelta(t, 100+15*p+25, rows[23].Pressure, 1e-9)
	assert.InDelta(t, 2+1.5*p+3, rows[23].Vibration, 1e-9)
	assert.Greater(t, rows[23].Temperature, rows[17].Temperature)
}

package generator

import (
	"math"
	"sort"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

type statsAcc struct {
	n        int
	min, max float64
	sum, sq  float64
}

func (a *statsAcc) add(v float64) {
	if a.n == 0 || v < a.min {
		a.min = v
	}
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.n++
	a.sum += v
	a.sq += v * v
}

// stats reports the population standard deviation.
func (a *statsAcc) stats() entity.Stats {
	if a.n == 0 {
		return entity.Stats{}
	}
	mean := a.sum / float64(a.n)
	variance := a.sq/float64(a.n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return entity.Stats{Min: a.min, Max: a.max, Mean: mean, Std: math.Sqrt(variance)}
}

type machineAcc struct {
	samples, failures          int
	temperature, pressure, vib statsAcc
}

// SummarizeSensor aggregates readings per machine, ordered by machine id.
func SummarizeSensor(readings []entity.SensorReading) entity.SensorSummary {
	accs := make(map[int]*machineAcc)
	summary := entity.SensorSummary{Rows: len(readings)}

	for _, r := range readings {
		acc, ok := accs[r.MachineID]
		if !ok {
			acc = &machineAcc{}
			accs[r.MachineID] = acc
		}
		acc.samples++
		if r.Failure {
			acc.failures++
			summary.Failures++
		}
		acc.temperature.add(r.Temperature)
		acc.pressure.add(r.Pressure)
		acc.vib.add(r.Vibration)
	}

	ids := make([]int, 0, len(accs))
	for id := range accs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	summary.Machines = make([]entity.MachineSummary, 0, len(ids))
	for _, id := range ids {
		acc := accs[id]
		summary.Machines = append(summary.Machines, entity.MachineSummary{
			MachineID:   id,
			Samples:     acc.samples,
			Failures:    acc.failures,
			Temperature: acc.temperature.stats(),
			Pressure:    acc.pressure.stats(),
			Vibration:   acc.vib.stats(),
		})
	}
	return summary
}

func SummarizeBatch(ds *entity.BatchDataset) entity.BatchSummary {
	s := entity.BatchSummary{
		Batches:     len(ds.Batches),
		ProcessRows: len(ds.Process),
		QCRows:      len(ds.QC),
		QAEvents:    len(ds.QAEvents),
		SupplyRows:  len(ds.SupplyChain),
	}
	for _, b := range ds.Batches {
		if b.Status == entity.BatchFail {
			s.FailedBatches++
		}
	}
	if len(ds.QC) > 0 {
		passed := 0
		for _, q := range ds.QC {
			if q.PassFail {
				passed++
			}
		}
		s.QCPassRate = float64(passed) / float64(len(ds.QC))
	}
	return s
}

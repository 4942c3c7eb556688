package generator

import (
	"fmt"
	"time"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

const (
	// PassWeight is the share of batches drawn with status Pass.
	PassWeight = 0.7
	// QAEventSampleSize is how many distinct batches receive a QA event.
	QAEventSampleSize = 10

	qaEventDescription = "Description of QA event"
)

// batchEpoch anchors batch start times and supply deliveries.
var batchEpoch = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

var parameterDists = map[string]normalDist{
	"Temperature": {37, 2},
	"pH":          {7, 0.5},
	"Pressure":    {1.0, 0.1},
}

type qcSpec struct {
	dist     normalDist
	min, max float64
	unit     string
}

// Tests without an entry here are categorical Pass/Fail tests.
var qcSpecs = map[string]qcSpec{
	"API Concentration": {dist: normalDist{95, 2}, min: 90, max: 100, unit: "%"},
	"Impurity":          {dist: normalDist{0.5, 0.2}, min: 0.0, max: 1.0, unit: "%"},
}

const categoricalUnit = "Result"

// BatchIDs returns BATCH_001 … BATCH_n; n <= 0 gives none.
func BatchIDs(n int) []string {
	if n <= 0 {
		return nil
	}
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("BATCH_%03d", i))
	}
	return ids
}

// ValidateBatchParams runs the fail-fast checks of BatchDataset without
// drawing anything.
func ValidateBatchParams(p entity.BatchParams) error {
	v := p.Vocabulary
	lists := []struct {
		name   string
		values []string
	}{
		{"products", v.Products},
		{"defect types", v.DefectTypes},
		{"qc tests", v.QCTests},
		{"qa event types", v.QAEventTypes},
		{"materials", v.Materials},
		{"suppliers", v.Suppliers},
		{"storage conditions", v.StorageConditions},
	}
	for _, l := range lists {
		if err := requireVocabulary(l.name, l.values); err != nil {
			return err
		}
	}
	if len(v.ProcessSteps) == 0 || len(v.Parameters) == 0 || p.ReadingsPerParam <= 0 {
		return fmt.Errorf("%w: %d steps × %d parameters × %d readings",
			ErrZeroIntervals, len(v.ProcessSteps), len(v.Parameters), p.ReadingsPerParam)
	}
	for _, param := range v.Parameters {
		if _, ok := parameterDists[param]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParameter, param)
		}
	}
	if p.ReadingsPerParam > MaxReadingsPerParam {
		return fmt.Errorf("%w: %d readings per parameter, limit %d", ErrTooLarge, p.ReadingsPerParam, MaxReadingsPerParam)
	}
	if len(p.BatchIDs) > MaxBatches {
		return fmt.Errorf("%w: %d batches, limit %d", ErrTooLarge, len(p.BatchIDs), MaxBatches)
	}
	if err := validateBatchIDs(p.BatchIDs); err != nil {
		return err
	}
	if len(p.BatchIDs) < QAEventSampleSize {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientBatches, QAEventSampleSize, len(p.BatchIDs))
	}
	n := len(p.BatchIDs)
	switch {
	case !withinLimit(MaxTableRows, n, len(v.ProcessSteps), len(v.Parameters), p.ReadingsPerParam):
		return fmt.Errorf("%w: process data over %d rows", ErrTooLarge, MaxTableRows)
	case !withinLimit(MaxTableRows, n, len(v.QCTests)):
		return fmt.Errorf("%w: qc results over %d rows", ErrTooLarge, MaxTableRows)
	case !withinLimit(MaxTableRows, n, len(v.Materials)):
		return fmt.Errorf("%w: supply chain over %d rows", ErrTooLarge, MaxTableRows)
	}
	return nil
}

// validateBatchIDs rejects empty and repeated ids.
func validateBatchIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty id at position %d", ErrInvalidBatchID, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidBatchID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// BatchDataset generates all five root-cause tables in order: batch
// records, process data, QC results, QA events, supply chain.
func (g *Generator) BatchDataset(p entity.BatchParams) (*entity.BatchDataset, error) {
	if err := ValidateBatchParams(p); err != nil {
		return nil, err
	}
	v := p.Vocabulary

	batches, err := g.BatchRecords(p.BatchIDs, v.Products, v.DefectTypes)
	if err != nil {
		return nil, fmt.Errorf("batch records: %w", err)
	}
	process, err := g.ProcessData(batches, v.ProcessSteps, v.Parameters, p.ReadingsPerParam)
	if err != nil {
		return nil, fmt.Errorf("process data: %w", err)
	}
	qc, err := g.QCResults(p.BatchIDs, v.QCTests)
	if err != nil {
		return nil, fmt.Errorf("qc results: %w", err)
	}
	events, err := g.QAEvents(p.BatchIDs, v.QAEventTypes)
	if err != nil {
		return nil, fmt.Errorf("qa events: %w", err)
	}
	supply, err := g.SupplyChain(p.BatchIDs, v.Materials, v.Suppliers, v.StorageConditions)
	if err != nil {
		return nil, fmt.Errorf("supply chain: %w", err)
	}

	return &entity.BatchDataset{
		Batches:     batches,
		Process:     process,
		QC:          qc,
		QAEvents:    events,
		SupplyChain: supply,
	}, nil
}

// BatchRecords draws one record per id. Failed batches always carry a
// defect type and a severity in 1..5; passed batches carry neither.
func (g *Generator) BatchRecords(batchIDs, products, defectTypes []string) ([]entity.BatchRecord, error) {
	if err := requireVocabulary("products", products); err != nil {
		return nil, err
	}
	if err := requireVocabulary("defect types", defectTypes); err != nil {
		return nil, err
	}
	if err := validateBatchIDs(batchIDs); err != nil {
		return nil, err
	}

	records := make([]entity.BatchRecord, 0, len(batchIDs))
	for _, id := range batchIDs {
		start := batchEpoch.
			AddDate(0, 0, g.intRange(0, 60)).
			Add(time.Duration(g.intRange(5, 9)) * time.Hour)
		end := start.Add(time.Duration(g.intRange(4, 12)) * time.Hour)

		status := entity.BatchFail
		if g.rnd.Float64() < PassWeight {
			status = entity.BatchPass
		}

		defect := entity.None[string]()
		if status == entity.BatchFail {
			defect = entity.Some(g.choice(defectTypes))
		}

		product := g.choice(products)
		operator := fmt.Sprintf("OP_%d", g.intRange(1, 5))
		equipment := fmt.Sprintf("EQ_%d", g.intRange(1, 3))

		severity := entity.None[int]()
		if defect.IsPresent() {
			severity = entity.Some(g.intRange(1, 5))
		}

		records = append(records, entity.BatchRecord{
			BatchID:        id,
			ProductID:      product,
			StartTime:      start,
			EndTime:        end,
			OperatorID:     operator,
			EquipmentID:    equipment,
			Status:         status,
			DefectType:     defect,
			DefectSeverity: severity,
		})
	}
	return records, nil
}

// ProcessData spreads steps × parameters × readingsPerParam readings evenly
// over each batch's run. The cursor advances by duration/total after every
// reading, so the order is step, then parameter, then reading.
func (g *Generator) ProcessData(batches []entity.BatchRecord, steps, parameters []string, readingsPerParam int) ([]entity.ProcessData, error) {
	if len(steps) == 0 || len(parameters) == 0 || readingsPerParam <= 0 {
		return nil, fmt.Errorf("%w: %d steps × %d parameters × %d readings",
			ErrZeroIntervals, len(steps), len(parameters), readingsPerParam)
	}
	if readingsPerParam > MaxReadingsPerParam || !withinLimit(MaxTableRows, len(batches), len(steps), len(parameters), readingsPerParam) {
		return nil, fmt.Errorf("%w: process data over %d rows", ErrTooLarge, MaxTableRows)
	}
	total := len(steps) * len(parameters) * readingsPerParam
	for _, param := range parameters {
		if _, ok := parameterDists[param]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, param)
		}
	}

	rows := make([]entity.ProcessData, 0, len(batches)*total)
	for _, b := range batches {
		delta := b.EndTime.Sub(b.StartTime) / time.Duration(total)
		cursor := b.StartTime

		for _, step := range steps {
			for _, param := range parameters {
				dist := parameterDists[param]
				for r := 0; r < readingsPerParam; r++ {
					rows = append(rows, entity.ProcessData{
						BatchID:        b.BatchID,
						StepName:       step,
						ParameterName:  param,
						ParameterValue: round(g.normal(dist.mean, dist.std), 2),
						Timestamp:      cursor,
					})
					cursor = cursor.Add(delta)
				}
			}
		}
	}
	return rows, nil
}

// QCResults emits one row per batch and test. Numeric tests pass when the
// rounded result lies inside the inclusive spec range; categorical tests
// pass when the drawn label is Pass.
func (g *Generator) QCResults(batchIDs, tests []string) ([]entity.QCResult, error) {
	if err := requireVocabulary("qc tests", tests); err != nil {
		return nil, err
	}

	rows := make([]entity.QCResult, 0, len(batchIDs)*len(tests))
	for _, id := range batchIDs {
		for _, test := range tests {
			row := entity.QCResult{
				BatchID:  id,
				TestName: test,
			}
			if spec, ok := qcSpecs[test]; ok {
				result := round(g.normal(spec.dist.mean, spec.dist.std), 2)
				row.NumericResult = entity.Some(result)
				row.SpecMin = entity.Some(spec.min)
				row.SpecMax = entity.Some(spec.max)
				row.Unit = spec.unit
				row.PassFail = spec.min <= result && result <= spec.max
			} else {
				label := g.choice([]string{string(entity.BatchPass), string(entity.BatchFail)})
				row.CategoricalResult = entity.Some(label)
				row.Unit = categoricalUnit
				row.PassFail = label == string(entity.BatchPass)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// QAEvents picks exactly QAEventSampleSize distinct batches and gives each
// one event.
func (g *Generator) QAEvents(batchIDs, eventTypes []string) ([]entity.QAEvent, error) {
	if err := requireVocabulary("qa event types", eventTypes); err != nil {
		return nil, err
	}
	if err := validateBatchIDs(batchIDs); err != nil {
		return nil, err
	}
	sampled, err := g.sample(batchIDs, QAEventSampleSize)
	if err != nil {
		return nil, err
	}

	now := g.now()
	events := make([]entity.QAEvent, 0, len(sampled))
	for _, id := range sampled {
		eventType := g.choice(eventTypes)
		eventTime := now.AddDate(0, 0, -g.intRange(0, 30))
		events = append(events, entity.QAEvent{
			BatchID:     id,
			EventType:   eventType,
			Description: qaEventDescription,
			EventTime:   eventTime,
			Severity:    g.intRange(1, 5),
		})
	}
	return events, nil
}

// SupplyChain emits the full batch × material cross product.
func (g *Generator) SupplyChain(batchIDs, materials, suppliers, storage []string) ([]entity.SupplyChainInfo, error) {
	if err := requireVocabulary("materials", materials); err != nil {
		return nil, err
	}
	if err := requireVocabulary("suppliers", suppliers); err != nil {
		return nil, err
	}
	if err := requireVocabulary("storage conditions", storage); err != nil {
		return nil, err
	}

	rows := make([]entity.SupplyChainInfo, 0, len(batchIDs)*len(materials))
	for _, id := range batchIDs {
		for _, material := range materials {
			supplier := g.choice(suppliers)
			lot := fmt.Sprintf("LOT_%d", g.intRange(100, 999))
			delivery := batchEpoch.AddDate(0, 0, g.intRange(0, 30))
			rows = append(rows, entity.SupplyChainInfo{
				BatchID:              id,
				MaterialName:         material,
				SupplierID:           supplier,
				LotNumber:            lot,
				DeliveryDate:         delivery,
				StorageCondition:     g.choice(storage),
				MaterialQualityScore: round(g.uniform(80, 100), 1),
			})
		}
	}
	return rows, nil
}

// sample draws k distinct elements with a partial Fisher-Yates shuffle over
// a copy of population.
func (g *Generator) sample(population []string, k int) ([]string, error) {
	if len(population) < k {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBatches, k, len(population))
	}
	pool := append([]string(nil), population...)
	for i := 0; i < k; i++ {
		j := i + g.rnd.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k], nil
}

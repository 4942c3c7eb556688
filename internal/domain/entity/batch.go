package entity

import "time"

type BatchStatus string

const (
	BatchPass BatchStatus = "Pass"
	BatchFail BatchStatus = "Fail"
)

type BatchRecord struct {
	BatchID        string
	ProductID      string
	StartTime      time.Time
	EndTime        time.Time
	OperatorID     string
	EquipmentID    string
	Status         BatchStatus
	DefectType     Optional[string]
	DefectSeverity Optional[int]
}

type ProcessData struct {
	BatchID        string
	StepName       string
	ParameterName  string
	ParameterValue float64
	Timestamp      time.Time
}

// QCResult carries either a numeric or a categorical result. Numeric tests
// also carry their spec range.
type QCResult struct {
	BatchID           string
	TestName          string
	NumericResult     Optional[float64]
	CategoricalResult Optional[string]
	SpecMin           Optional[float64]
	SpecMax           Optional[float64]
	Unit              string
	PassFail          bool
}

type QAEvent struct {
	BatchID     string
	EventType   string
	Description string
	EventTime   time.Time
	Severity    int
}

type SupplyChainInfo struct {
	BatchID              string
	MaterialName         string
	SupplierID           string
	LotNumber            string
	DeliveryDate         time.Time
	StorageCondition     string
	MaterialQualityScore float64
}

// BatchDataset is the five related tables of one root-cause generation run.
type BatchDataset struct {
	Batches     []BatchRecord
	Process     []ProcessData
	QC          []QCResult
	QAEvents    []QAEvent
	SupplyChain []SupplyChainInfo
}

// BatchVocabulary lists the categorical values the batch generator draws from.
type BatchVocabulary struct {
	Products          []string `json:"products" yaml:"products"`
	DefectTypes       []string `json:"defect_types" yaml:"defect_types"`
	ProcessSteps      []string `json:"process_steps" yaml:"process_steps"`
	Parameters        []string `json:"parameters" yaml:"parameters"`
	QCTests           []string `json:"qc_tests" yaml:"qc_tests"`
	QAEventTypes      []string `json:"qa_event_types" yaml:"qa_event_types"`
	Materials         []string `json:"materials" yaml:"materials"`
	Suppliers         []string `json:"suppliers" yaml:"suppliers"`
	StorageConditions []string `json:"storage_conditions" yaml:"storage_conditions"`
}

func DefaultBatchVocabulary() BatchVocabulary {
	return BatchVocabulary{
		Products:          []string{"Product_A", "Product_B"},
		DefectTypes:       []string{"pH Out-of-Spec", "Low Yield", "Contamination"},
		ProcessSteps:      []string{"Mixing", "Heating", "Cooling"},
		Parameters:        []string{"Temperature", "pH", "Pressure"},
		QCTests:           []string{"API Concentration", "Impurity", "Sterility"},
		QAEventTypes:      []string{"Deviation", "CAPA", "Audit Finding"},
		Materials:         []string{"API", "Solvent", "Excipient"},
		Suppliers:         []string{"Supplier_X", "Supplier_Y", "Supplier_Z"},
		StorageConditions: []string{"Room Temp", "Refrigerated"},
	}
}

// Merge fills every empty list of v from def.
func (v BatchVocabulary) Merge(def BatchVocabulary) BatchVocabulary {
	pick := func(a, b []string) []string {
		if len(a) > 0 {
			return a
		}
		return b
	}
	return BatchVocabulary{
		Products:          pick(v.Products, def.Products),
		DefectTypes:       pick(v.DefectTypes, def.DefectTypes),
		ProcessSteps:      pick(v.ProcessSteps, def.ProcessSteps),
		Parameters:        pick(v.Parameters, def.Parameters),
		QCTests:           pick(v.QCTests, def.QCTests),
		QAEventTypes:      pick(v.QAEventTypes, def.QAEventTypes),
		Materials:         pick(v.Materials, def.Materials),
		Suppliers:         pick(v.Suppliers, def.Suppliers),
		StorageConditions: pick(v.StorageConditions, def.StorageConditions),
	}
}

type BatchParams struct {
	BatchIDs         []string        `json:"batch_ids"`
	ReadingsPerParam int             `json:"readings_per_param"`
	Vocabulary       BatchVocabulary `json:"vocabulary"`
}

// DefaultBatchParams mirrors the root-cause mock: fifty batches, three
// readings per process parameter.
func DefaultBatchParams(batchIDs []string) BatchParams {
	return BatchParams{
		BatchIDs:         batchIDs,
		ReadingsPerParam: 3,
		Vocabulary:       DefaultBatchVocabulary(),
	}
}

package entity

type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

type MachineSummary struct {
	MachineID   int   `json:"machine_id"`
	Samples     int   `json:"samples"`
	Failures    int   `json:"failures"`
	Temperature Stats `json:"temperature"`
	Pressure    Stats `json:"pressure"`
	Vibration   Stats `json:"vibration"`
}

type SensorSummary struct {
	Rows     int              `json:"rows"`
	Failures int              `json:"failures"`
	Machines []MachineSummary `json:"machines"`
}

type BatchSummary struct {
	Batches       int     `json:"batches"`
	FailedBatches int     `json:"failed_batches"`
	ProcessRows   int     `json:"process_rows"`
	QCRows        int     `json:"qc_rows"`
	QCPassRate    float64 `json:"qc_pass_rate"`
	QAEvents      int     `json:"qa_events"`
	SupplyRows    int     `json:"supply_rows"`
}

// Package tabular turns generated entities into header + row tables and
// encodes them as CSV files or an XLSX workbook.
package tabular

import (
	"strconv"
	"time"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

const (
	SensorDataTable  = "synthetic_data"
	BatchRecordTable = "BatchRecord"
	ProcessDataTable = "ProcessData"
	QCResultsTable   = "QCResults"
	QAEventsTable    = "QAEvents"
	SupplyChainTable = "SupplyChainInfo"
)

// TimeLayout matches the layout pandas writes for datetimes.
const TimeLayout = "2006-01-02 15:04:05.999999"

type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

func formatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatOptionalFloat(o entity.Optional[float64]) string {
	if v, ok := o.Get(); ok {
		return formatFloat(v)
	}
	return ""
}

func SensorTable(readings []entity.SensorReading) Table {
	rows := make([][]string, 0, len(readings))
	for _, r := range readings {
		failure := "0"
		if r.Failure {
			failure = "1"
		}
		rows = append(rows, []string{
			strconv.Itoa(r.MachineID),
			formatTime(r.Timestamp),
			formatFloat(r.Temperature),
			formatFloat(r.Pressure),
			formatFloat(r.Vibration),
			failure,
		})
	}
	return Table{
		Name:    SensorDataTable,
		Columns: []string{"machine_id", "timestamp", "temperature", "pressure", "vibration", "failure"},
		Rows:    rows,
	}
}

func BatchTable(records []entity.BatchRecord) Table {
	rows := make([][]string, 0, len(records))
	for _, b := range records {
		severity := ""
		if s, ok := b.DefectSeverity.Get(); ok {
			severity = strconv.Itoa(s)
		}
		rows = append(rows, []string{
			b.BatchID,
			b.ProductID,
			formatTime(b.StartTime),
			formatTime(b.EndTime),
			b.OperatorID,
			b.EquipmentID,
			string(b.Status),
			b.DefectType.OrElse(""),
			severity,
		})
	}
	return Table{
		Name: BatchRecordTable,
		Columns: []string{
			"batch_id", "product_id", "start_time", "end_time", "operator_id",
			"equipment_id", "status", "defect_type", "defect_severity",
		},
		Rows: rows,
	}
}

func ProcessTable(data []entity.ProcessData) Table {
	rows := make([][]string, 0, len(data))
	for _, p := range data {
		rows = append(rows, []string{
			p.BatchID,
			p.StepName,
			p.ParameterName,
			formatFloat(p.ParameterValue),
			formatTime(p.Timestamp),
		})
	}
	return Table{
		Name:    ProcessDataTable,
		Columns: []string{"batch_id", "step_name", "parameter_name", "parameter_value", "timestamp"},
		Rows:    rows,
	}
}

func QCTable(results []entity.QCResult) Table {
	rows := make([][]string, 0, len(results))
	for _, q := range results {
		result := q.CategoricalResult.OrElse("")
		if v, ok := q.NumericResult.Get(); ok {
			result = formatFloat(v)
		}
		rows = append(rows, []string{
			q.BatchID,
			q.TestName,
			result,
			formatOptionalFloat(q.SpecMin),
			formatOptionalFloat(q.SpecMax),
			q.Unit,
			formatBool(q.PassFail),
		})
	}
	return Table{
		Name:    QCResultsTable,
		Columns: []string{"batch_id", "test_name", "test_result", "spec_min", "spec_max", "test_unit", "pass_fail"},
		Rows:    rows,
	}
}

func QAEventTable(events []entity.QAEvent) Table {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.BatchID,
			e.EventType,
			e.Description,
			formatTime(e.EventTime),
			strconv.Itoa(e.Severity),
		})
	}
	return Table{
		Name:    QAEventsTable,
		Columns: []string{"batch_id", "event_type", "description", "event_time", "severity"},
		Rows:    rows,
	}
}

func SupplyChainInfoTable(info []entity.SupplyChainInfo) Table {
	rows := make([][]string, 0, len(info))
	for _, s := range info {
		rows = append(rows, []string{
			s.BatchID,
			s.MaterialName,
			s.SupplierID,
			s.LotNumber,
			formatTime(s.DeliveryDate),
			s.StorageCondition,
			formatFloat(s.MaterialQualityScore),
		})
	}
	return Table{
		Name: SupplyChainTable,
		Columns: []string{
			"batch_id", "material_name", "supplier_id", "lot_number",
			"delivery_date", "storage_condition", "material_quality_score",
		},
		Rows: rows,
	}
}

// BatchTables returns the five root-cause tables in generation order.
func BatchTables(ds *entity.BatchDataset) []Table {
	return []Table{
		BatchTable(ds.Batches),
		ProcessTable(ds.Process),
		QCTable(ds.QC),
		QAEventTable(ds.QAEvents),
		SupplyChainInfoTable(ds.SupplyChain),
	}
}

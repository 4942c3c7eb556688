package tabular

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/generator"
)

var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestSensorTable_Columns(t *testing.T) {
	readings := []entity.SensorReading{
		{MachineID: 1, Timestamp: now, Temperature: 90.5, Pressure: 101, Vibration: 2.25, Failure: true},
		{MachineID: 1, Timestamp: now.Add(10 * time.Minute), Temperature: 88, Pressure: 99.5, Vibration: 1.5},
	}
	b, err := EncodeCSV(SensorTable(readings))
	require.NoError(t, err)

	records := readCSV(t, b)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"machine_id", "timestamp", "temperature", "pressure", "vibration", "failure"}, records[0])
	assert.Equal(t, []string{"1", "2025-03-10 12:00:00", "90.5", "101", "2.25", "1"}, records[1])
	assert.Equal(t, "0", records[2][5])
}

func TestBatchTables_AbsentFieldsAreEmpty(t *testing.T) {
	start := time.Date(2023, 1, 5, 6, 0, 0, 0, time.UTC)
	records := []entity.BatchRecord{
		{BatchID: "BATCH_001", ProductID: "Product_A", StartTime: start, EndTime: start.Add(5 * time.Hour),
			OperatorID: "OP_1", EquipmentID: "EQ_2", Status: entity.BatchPass},
		{BatchID: "BATCH_002", ProductID: "Product_B", StartTime: start, EndTime: start.Add(8 * time.Hour),
			OperatorID: "OP_3", EquipmentID: "EQ_1", Status: entity.BatchFail,
			DefectType: entity.Some("Low Yield"), DefectSeverity: entity.Some(4)},
	}
	b, err := EncodeCSV(BatchTable(records))
	require.NoError(t, err)

	rows := readCSV(t, b)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"batch_id", "product_id", "start_time", "end_time", "operator_id",
		"equipment_id", "status", "defect_type", "defect_severity",
	}, rows[0])
	assert.Equal(t, []string{"Pass", "", ""}, rows[1][6:])
	assert.Equal(t, []string{"Fail", "Low Yield", "4"}, rows[2][6:])
}

func TestQCTable_NumericAndCategorical(t *testing.T) {
	results := []entity.QCResult{
		{BatchID: "BATCH_001", TestName: "Impurity", NumericResult: entity.Some(0.47),
			SpecMin: entity.Some(0.0), SpecMax: entity.Some(1.0), Unit: "%", PassFail: true},
		{BatchID: "BATCH_001", TestName: "Sterility", CategoricalResult: entity.Some("Fail"), Unit: "Result"},
	}
	rows := QCTable(results).Rows
	assert.Equal(t, []string{"BATCH_001", "Impurity", "0.47", "0", "1", "%", "True"}, rows[0])
	assert.Equal(t, []string{"BATCH_001", "Sterility", "Fail", "", "", "Result", "False"}, rows[1])
}

func TestBatchTables_GeneratedHeaders(t *testing.T) {
	g := generator.NewSeeded(42, generator.WithClock(func() time.Time { return now }))
	ds, err := g.BatchDataset(entity.DefaultBatchParams(generator.BatchIDs(10)))
	require.NoError(t, err)

	tables := BatchTables(ds)
	require.Len(t, tables, 5)

	wantNames := []string{BatchRecordTable, ProcessDataTable, QCResultsTable, QAEventsTable, SupplyChainTable}
	wantRows := []int{10, 270, 30, 10, 30}
	for i, table := range tables {
		assert.Equal(t, wantNames[i], table.Name)
		assert.Len(t, table.Rows, wantRows[i], table.Name)
		for _, row := range table.Rows {
			assert.Len(t, row, len(table.Columns), table.Name)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	table := Table{Name: "t", Columns: []string{"a", "b"}}
	for i := 0; i < 7; i++ {
		table.Rows = append(table.Rows, []string{"x", "y"})
	}

	parts, err := SplitCSV(table, 3)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	wantRows := []int{3, 3, 1}
	for i, part := range parts {
		records := readCSV(t, part)
		assert.Equal(t, []string{"a", "b"}, records[0])
		assert.Len(t, records, wantRows[i]+1)
	}
}

func TestSplitCSV_ExactMultipleAndEmpty(t *testing.T) {
	table := Table{Name: "t", Columns: []string{"a"}, Rows: [][]string{{"1"}, {"2"}, {"3"}, {"4"}}}

	parts, err := SplitCSV(table, 2)
	require.NoError(t, err)
	assert.Len(t, parts, 2)

	parts, err = SplitCSV(table, 0)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Len(t, readCSV(t, parts[0]), 5)

	parts, err = SplitCSV(Table{Name: "empty", Columns: []string{"a", "b"}}, 10)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, [][]string{{"a", "b"}}, readCSV(t, parts[0]))
}

func TestEncodeXLSX(t *testing.T) {
	a := Table{Name: "First", Columns: []string{"x", "y"}, Rows: [][]string{{"1", "2"}, {"3", "4"}}}
	b := Table{Name: "Second", Columns: []string{"z"}, Rows: [][]string{{"only"}}}

	data, err := EncodeXLSX(a, b)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)

	rows, err := f.GetRows("First")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y"}, {"1", "2"}, {"3", "4"}}, rows)

	rows, err = f.GetRows("Second")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"z"}, {"only"}}, rows)

	var names []string
	for _, name := range f.GetSheetMap() {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"First", "Second"}, names)
}

func TestEncodeXLSX_NoTables(t *testing.T) {
	_, err := EncodeXLSX()
	assert.Error(t, err)
}

package usecase

import (
	"fmt"
	"path"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
	"github.com/saral1230/AIML-applied-mocks/internal/tabular"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Artifact is one rendered file ready for upload.
type Artifact struct {
	Key         string
	ContentType string
	Data        []byte
}

func ArtifactKeys(artifacts []Artifact) []string {
	keys := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		keys = append(keys, a.Key)
	}
	return keys
}

// RenderSensor renders the sensor table under prefix. CSV output is split
// into parts of chunkSize rows when the table is larger than that.
func RenderSensor(prefix string, readings []entity.SensorReading, format entity.Format, chunkSize int) ([]Artifact, error) {
	table := tabular.SensorTable(readings)

	switch format {
	case entity.FormatXLSX:
		data, err := tabular.EncodeXLSX(table)
		if err != nil {
			return nil, err
		}
		return []Artifact{{Key: path.Join(prefix, "sensor.xlsx"), ContentType: contentTypeXLSX, Data: data}}, nil
	case entity.FormatCSV:
		parts, err := tabular.SplitCSV(table, chunkSize)
		if err != nil {
			return nil, err
		}
		if len(parts) == 1 {
			return []Artifact{{Key: path.Join(prefix, table.Name+".csv"), ContentType: contentTypeCSV, Data: parts[0]}}, nil
		}
		artifacts := make([]Artifact, 0, len(parts))
		for i, part := range parts {
			artifacts = append(artifacts, Artifact{
				Key:         path.Join(prefix, table.Name, fmt.Sprintf("part-%04d.csv", i)),
				ContentType: contentTypeCSV,
				Data:        part,
			})
		}
		return artifacts, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidRequest, format)
	}
}

// RenderBatch renders the five root-cause tables, one CSV each or a single
// workbook.
func RenderBatch(prefix string, ds *entity.BatchDataset, format entity.Format) ([]Artifact, error) {
	tables := tabular.BatchTables(ds)

	switch format {
	case entity.FormatXLSX:
		data, err := tabular.EncodeXLSX(tables...)
		if err != nil {
			return nil, err
		}
		return []Artifact{{Key: path.Join(prefix, "batch.xlsx"), ContentType: contentTypeXLSX, Data: data}}, nil
	case entity.FormatCSV:
		artifacts := make([]Artifact, 0, len(tables))
		for _, t := range tables {
			data, err := tabular.EncodeCSV(t)
			if err != nil {
				return nil, err
			}
			artifacts = append(artifacts, Artifact{
				Key:         path.Join(prefix, t.Name+".csv"),
				ContentType: contentTypeCSV,
				Data:        data,
			})
		}
		return artifacts, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidRequest, format)
	}
}

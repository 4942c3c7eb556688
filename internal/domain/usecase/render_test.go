package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/generator"
)

func TestRenderSensor_SinglePartKeepsFlatName(t *testing.T) {
	readings, err := generator.NewSeeded(1).SensorReadings(entity.SensorParams{Machines: 1, Days: 1, SamplesPerHour: 1})
	require.NoError(t, err)

	artifacts, err := RenderSensor("out", readings, entity.FormatCSV, 1000)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "out/synthetic_data.csv", artifacts[0].Key)

	artifacts, err = RenderSensor("out", readings, entity.FormatXLSX, 1000)
	require.NoError(t, err)
	assert.Equal(t, []string{"out/sensor.xlsx"}, ArtifactKeys(artifacts))
}

func TestRenderBatch_UnknownFormat(t *testing.T) {
	_, err := RenderBatch("out", &entity.BatchDataset{}, "json")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

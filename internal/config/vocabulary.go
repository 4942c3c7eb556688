package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

// LoadVocabulary reads a YAML vocabulary profile. Lists the profile omits
// keep the built-in values. An empty path yields the built-in vocabulary.
func LoadVocabulary(path string) (entity.BatchVocabulary, error) {
	if path == "" {
		return entity.DefaultBatchVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.BatchVocabulary{}, fmt.Errorf("read vocabulary profile: %w", err)
	}
	return ParseVocabulary(data)
}

func ParseVocabulary(data []byte) (entity.BatchVocabulary, error) {
	var v entity.BatchVocabulary
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return entity.BatchVocabulary{}, fmt.Errorf("parse vocabulary profile: %w", err)
	}
	return v.Merge(entity.DefaultBatchVocabulary()), nil
}

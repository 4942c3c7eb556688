package utils

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

func ToRawMessage(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal struct to JSON: %w", err)
	}
	return json.RawMessage(data), nil
}

// ToJSONColumn marshals v for a jsonb column.
func ToJSONColumn(v interface{}) (datatypes.JSON, error) {
	data, err := ToRawMessage(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// toJSON marshals v into a datatypes.JSON column value. Marshal failures
// collapse to an empty JSON value rather than erroring: mapper inputs are
// plain slices and maps that cannot fail to encode.
func toJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}

func fromJSON(data datatypes.JSON, v interface{}) {
	if len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, v)
}

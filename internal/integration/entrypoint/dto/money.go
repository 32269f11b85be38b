package dto

import (
	"encoding/json"

	"github.com/cashsplit/backend/internal/domain/valueobject"
)

// Amount renders minor units as a JSON number with two decimal places.
func Amount(minor int64) json.Number {
	return json.Number(valueobject.FormatMinorUnits(minor))
}

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createFacilityPayload struct {
	Name       string  `json:"name" validate:"required"`
	Capacity   int     `json:"total_capacity" validate:"required,gt=0"`
	HourlyRate float64 `json:"hourly_rate" validate:"required,gte=0"`
	Currency   string  `json:"currency" validate:"required,oneof=USD EUR KZT"`
}

func TestValidate_PassingValue(t *testing.T) {
	fields := Validate(createFacilityPayload{
		Name:       "Central Garage",
		Capacity:   120,
		HourlyRate: 4.5,
		Currency:   "USD",
	})
	assert.Nil(t, fields)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	fields := Validate(createFacilityPayload{
		Capacity:   -1,
		HourlyRate: 4.5,
		Currency:   "GBP",
	})
	require.NotNil(t, fields)

	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be greater than 0", fields["total_capacity"])
	assert.Equal(t, "must be one of: USD EUR KZT", fields["currency"])
	assert.NotContains(t, fields, "Name")
	assert.NotContains(t, fields, "Capacity")
}

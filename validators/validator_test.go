package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" validate:"required,max=5"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Color   string `json:"color" validate:"omitempty,oneof=info dark"`
}

func TestValidateReportsJSONFieldName(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(sample{Name: "ok", Rating: 3}))

	err := v.Validate(sample{Rating: 3})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, "is required", fe.Reason)

	err = v.Validate(sample{Name: "ok", Rating: 9})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "rating", fe.Field)
	assert.Equal(t, "must be at most 5", fe.Reason)

	err = v.Validate(sample{Name: "ok", Rating: 1, Website: "nope"})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "website", fe.Field)

	err = v.Validate(sample{Name: "ok", Rating: 1, Color: "pink"})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "must be one of info, dark", fe.Reason)
}

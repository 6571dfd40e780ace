package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/pkg/validator"
)

type item struct {
	Quantity int              `json:"quantity" validate:"gt=0"`
	Price    *decimal.Decimal `json:"price" validate:"required,gte=0"`
}

type payload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Items []item `json:"items" validate:"required,min=1,dive"`
}

func TestValidateStruct_Valido(t *testing.T) {
	zero := decimal.Zero
	errs := validator.ValidateStruct(payload{Name: "x", Items: []item{{Quantity: 1, Price: &zero}}})
	assert.Nil(t, errs, "precio cero es válido cuando el campo viene informado")
}

func TestValidateStruct_NombresJSON(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	errs := validator.ValidateStruct(payload{Email: "no-es-email", Items: []item{{Quantity: 0, Price: &neg}}})
	require.Len(t, errs, 4)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "required", fields["name"])
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "gt", fields["items[0].quantity"])
	assert.Equal(t, "gte", fields["items[0].price"])
	assert.Contains(t, validator.Message(errs), "name (required)")
}

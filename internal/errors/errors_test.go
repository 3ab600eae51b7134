package appErrors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/unclebandit/orders-backend/internal/errors"
)

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "Invalid customer: missing name", appErrors.NewMissingField("customer", "name").Error())
	assert.Equal(t, "Invalid product: invalid name", appErrors.NewInvalidField("product", "name").Error())
}

func TestIsHelpersSeeThroughWrapping(t *testing.T) {
	nf := fmt.Errorf("get customer: %w", appErrors.NewNotFound("customer", 7))
	assert.True(t, appErrors.IsNotFound(nf))
	assert.False(t, appErrors.IsValidation(nf))

	ve := fmt.Errorf("create: %w", appErrors.NewMissingField("customer", "name"))
	assert.True(t, appErrors.IsValidation(ve))
	assert.False(t, appErrors.IsNotFound(ve))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Customer not found", appErrors.NotFoundMessage("customer"))
	assert.Equal(t, "Product not found", appErrors.NotFoundMessage("product"))
	assert.Equal(t, "customer with ID 3 not found", appErrors.NewNotFound("customer", 3).Error())
}

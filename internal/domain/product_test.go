package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestProductDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft ProductDraft
		want  error
	}{
		{"valid", ProductDraft{Name: "Pen", Price: floatPtr(1.5), Quantity: intPtr(10)}, nil},
		{"zero price and quantity", ProductDraft{Name: "Free", Price: floatPtr(0), Quantity: intPtr(0)}, nil},
		{"missing name", ProductDraft{Price: floatPtr(1), Quantity: intPtr(1)}, ErrInvalidProductName},
		{"null price", ProductDraft{Name: "Pen", Quantity: intPtr(1)}, ErrInvalidProductPrice},
		{"negative price", ProductDraft{Name: "Pen", Price: floatPtr(-1), Quantity: intPtr(1)}, ErrInvalidProductPrice},
		{"negative quantity", ProductDraft{Name: "Pen", Price: floatPtr(1), Quantity: intPtr(-3)}, ErrInvalidProductQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.draft.Validate())
		})
	}
}

func TestProductDraftApplyKeepsID(t *testing.T) {
	p := Product{ID: 7, Name: "Old", Price: 3, Quantity: 4}
	draft := ProductDraft{Name: "New", Price: floatPtr(2), Category: "office"}

	draft.Apply(&p)

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, 2.0, p.Price)
	assert.Equal(t, 4, p.Quantity, "nil quantity leaves the stored value")
	assert.Equal(t, "office", p.Category)
	assert.False(t, p.IsNew())
}

func TestRequestError(t *testing.T) {
	cause := errors.New("connection refused")

	transport := &RequestError{Op: "list products", Err: cause}
	assert.Equal(t, "list products: connection refused", transport.Error())
	assert.ErrorIs(t, transport, cause)
	_, ok := ServerMessage(transport)
	assert.False(t, ok)

	app := &RequestError{Op: "create product", StatusCode: http.StatusBadRequest, Message: "name required"}
	assert.Equal(t, "create product: status 400: name required", app.Error())

	wrapped := fmt.Errorf("submit: %w", app)
	msg, ok := ServerMessage(wrapped)
	require.True(t, ok)
	assert.Equal(t, "name required", msg)

	nf := NotFound("get product", 9)
	assert.ErrorIs(t, nf, ErrProductNotFound)
	assert.Equal(t, http.StatusNotFound, nf.StatusCode)
}

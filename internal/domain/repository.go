package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductAPI defines the contract of the remote product collection
type ProductAPI interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, draft *ProductDraft) (*Product, error)
	Update(ctx context.Context, id int64, draft *ProductDraft) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

// RequestError is the single error shape for a failed API call. Transport
// failures carry a zero StatusCode and the cause in Err; application failures
// carry the response status and, when the server sent one, its message.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ServerMessage returns the error message the server attached to err, if any.
func ServerMessage(err error) (string, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message, true
	}
	return "", false
}

// NotFound builds the error the API answers for an unknown identifier.
func NotFound(op string, id int64) *RequestError {
	return &RequestError{
		Op:         op,
		StatusCode: http.StatusNotFound,
		Message:    "Item not found",
		Err:        fmt.Errorf("%w: id %d", ErrProductNotFound, id),
	}
}

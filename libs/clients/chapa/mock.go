package chapa

import (
	"context"
)

// MockClient is an API whose operations are replaced by its Fn fields.
// An unset field returns an empty Result.
type MockClient struct {
	FnTransactionInitialize func(ctx context.Context, body Payload) (Result, error)
	FnTransactionVerify     func(ctx context.Context, txRef string) (Result, error)
}

func (c *MockClient) TransactionInitialize(ctx context.Context, body Payload) (Result, error) {
	if c.FnTransactionInitialize == nil {
		return Result{}, nil
	}

	return c.FnTransactionInitialize(ctx, body)
}

func (c *MockClient) TransactionVerify(ctx context.Context, txRef string) (Result, error) {
	if c.FnTransactionVerify == nil {
		return Result{}, nil
	}

	return c.FnTransactionVerify(ctx, txRef)
}

package chapa

import (
	"context"
	"net/http"
	"net/url"
)

const verifyEndpoint = "/transaction/verify/"

// TransactionVerify looks up the transaction with the given reference
func (c *Client) TransactionVerify(ctx context.Context, txRef string) (Result, error) {
	if txRef == "" {
		return nil, newFieldError(ErrInvalidArgument, "tx_ref", "invalid or empty transaction reference (tx_ref)")
	}

	return c.SendRequest(ctx, verifyEndpoint+url.PathEscape(txRef), http.MethodGet, nil, nil)
}

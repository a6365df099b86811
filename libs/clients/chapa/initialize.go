package chapa

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/chapa-go/chapa/libs/validators"
	"github.com/shopspring/decimal"
)

const initializeEndpoint = "/transaction/initialize"

var (
	allowedFields = map[string]bool{
		"amount":        true,
		"currency":      true,
		"email":         true,
		"first_name":    true,
		"last_name":     true,
		"phone_number":  true,
		"tx_ref":        true,
		"callback_url":  true,
		"return_url":    true,
		"customization": true,
	}
	requiredFields    = []string{"amount", "currency"}
	allowedCurrencies = []string{"ETB", "USD"}
)

// InitializeParams is a typed transaction initialize payload
type InitializeParams struct {
	Amount        decimal.Decimal
	Currency      string
	Email         string
	FirstName     string
	LastName      string
	PhoneNumber   string
	TxRef         string
	CallbackURL   string
	ReturnURL     string
	Customization map[string]string
}

// Payload returns the fields of p that are set
func (p InitializeParams) Payload() Payload {
	payload := Payload{}
	if !p.Amount.IsZero() {
		payload["amount"] = p.Amount.String()
	}

	for k, v := range map[string]string{
		"currency":     p.Currency,
		"email":        p.Email,
		"first_name":   p.FirstName,
		"last_name":    p.LastName,
		"phone_number": p.PhoneNumber,
		"tx_ref":       p.TxRef,
		"callback_url": p.CallbackURL,
		"return_url":   p.ReturnURL,
	} {
		if v != "" {
			payload[k] = v
		}
	}

	if len(p.Customization) > 0 {
		customization := make(map[string]interface{}, len(p.Customization))
		for k, v := range p.Customization {
			customization[k] = v
		}
		payload["customization"] = customization
	}

	return payload
}

// TransactionInitialize validates body and starts a chapa transaction.
// The resolved tx_ref is returned in the Result, body itself is not modified.
func (c *Client) TransactionInitialize(ctx context.Context, body Payload) (Result, error) {
	payload, err := c.prepareInitialize(body)
	if err != nil {
		return nil, err
	}

	return c.SendRequest(ctx, initializeEndpoint, http.MethodPost, payload, Payload{"tx_ref": payload["tx_ref"]})
}

func (c *Client) prepareInitialize(body Payload) (Payload, error) {
	for _, k := range sortedKeys(body) {
		if !allowedFields[k] {
			return nil, newFieldError(ErrFieldNotAllowed, k, "invalid field provided: "+k)
		}
	}

	for _, k := range requiredFields {
		if body[k] == nil {
			return nil, newFieldError(ErrMissingRequiredField, k, "missing required field: "+k)
		}
	}

	payload := make(Payload, len(body)+1)
	for k, v := range body {
		payload[k] = v
	}
	payload["tx_ref"] = c.resolveTxRef(body["tx_ref"])

	if v := body["email"]; v != nil {
		if email, ok := v.(string); !ok || !validators.IsEmail(email) {
			return nil, newFieldError(ErrInvalidEmail, "email", "invalid email address")
		}
	}

	if currency, ok := body["currency"].(string); !ok || !validators.IsIn(currency, allowedCurrencies...) {
		return nil, newFieldError(ErrInvalidCurrency, "currency",
			"invalid currency, allowed values are: "+strings.Join(allowedCurrencies, ", "))
	}

	if key, ok := invalidCustomizationKey(body["customization"]); ok {
		return nil, newFieldError(ErrInvalidCustomizationKey, "customization", "invalid key in customization: "+key)
	}

	return payload, nil
}

// resolveTxRef prefixes the supplied reference, or a generated one when none is supplied
func (c *Client) resolveTxRef(v interface{}) string {
	switch ref := v.(type) {
	case nil:
		return c.txRefPrefix + c.newTxRef()
	case string:
		return c.txRefPrefix + ref
	default:
		return c.txRefPrefix + fmt.Sprint(ref)
	}
}

// invalidCustomizationKey returns the first key of a customization mapping that is not an identifier.
// Lists are keyed by position. Values that are neither are not checked.
func invalidCustomizationKey(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, fmt.Sprint(k.Interface()))
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !validators.IsIdentifier(k) {
				return k, true
			}
		}
	case reflect.Slice, reflect.Array:
		if rv.Len() > 0 {
			return "0", true
		}
	}

	return "", false
}

func sortedKeys(p Payload) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

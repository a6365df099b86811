package chapa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mock_chapa "github.com/chapa-go/chapa/libs/clients/chapa/mock"
	testutils "github.com/chapa-go/chapa/libs/test"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

// newValidationClient returns a client whose transport fails the test when called
func newValidationClient(t *testing.T, prefix string) *Client {
	ctrl := gomock.NewController(t)

	c, err := NewWithTransport(Config{SecretKey: "secret", TxRefPrefix: prefix}, mock_chapa.NewMockTransport(ctrl))
	must.NoError(t, err)

	c.newTxRef = func() string {
		t.Fatal("tx_ref generated for a rejected payload")
		return ""
	}

	return c
}

func TestTransactionInitialize(t *testing.T) {
	var received map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		should.Equal(t, http.MethodPost, r.Method)
		should.Equal(t, "/v1/transaction/initialize", r.URL.Path)
		should.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Transaction initialized"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, "shop-")
	c.newTxRef = func() string { return "generated" }

	actual, err := c.TransactionInitialize(context.Background(), Payload{"amount": 100, "currency": "USD"})
	must.NoError(t, err)

	should.Equal(t, Result{
		"status":  true,
		"message": "Transaction initialized",
		"tx_ref":  "shop-generated",
	}, actual)
	should.Equal(t, "shop-generated", received["tx_ref"])
	should.Equal(t, float64(100), received["amount"])
}

func TestTransactionInitialize_FieldNotAllowed(t *testing.T) {
	type testCase struct {
		name  string
		given Payload
		exp   string
	}

	tests := []testCase{
		{
			name:  "otherwise_valid",
			given: Payload{"amount": 100, "currency": "ETB", "unknown": "x"},
			exp:   "unknown",
		},
		{
			name:  "otherwise_invalid",
			given: Payload{"currency": "EUR", "email": "nope", "meta": map[string]string{"1": "x"}},
			exp:   "meta",
		},
		{
			name:  "first_in_order",
			given: Payload{"zeta": 1, "alpha": 2, "amount": 100},
			exp:   "alpha",
		},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			c := newValidationClient(t, "")

			actual, err := c.TransactionInitialize(context.Background(), tc.given)
			should.Nil(t, actual)
			should.ErrorIs(t, err, ErrFieldNotAllowed)
			should.Equal(t, tc.exp, FieldOf(err))
			should.Equal(t, ClassValidation, Classify(err))
			should.Contains(t, err.Error(), tc.exp)
		})
	}
}

func TestTransactionInitialize_MissingRequiredField(t *testing.T) {
	type testCase struct {
		name  string
		given Payload
		exp   string
	}

	tests := []testCase{
		{
			name:  "empty",
			given: Payload{},
			exp:   "amount",
		},
		{
			name:  "missing_amount",
			given: Payload{"currency": "ETB", "tx_ref": "abc"},
			exp:   "amount",
		},
		{
			name:  "nil_amount",
			given: Payload{"amount": nil, "currency": "ETB"},
			exp:   "amount",
		},
		{
			name:  "missing_currency",
			given: Payload{"amount": "10", "email": "not-an-email"},
			exp:   "currency",
		},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			c := newValidationClient(t, "")

			actual, err := c.TransactionInitialize(context.Background(), tc.given)
			should.Nil(t, actual)
			should.ErrorIs(t, err, ErrMissingRequiredField)
			should.Equal(t, tc.exp, FieldOf(err))
		})
	}
}

func TestTransactionInitialize_InvalidEmail(t *testing.T) {
	for _, email := range []interface{}{"", "not-an-email", "a@", "@b.com", 42} {
		c, err := New(Config{SecretKey: "secret"})
		must.NoError(t, err)

		_, err = c.TransactionInitialize(context.Background(), Payload{"amount": 1, "currency": "ETB", "email": email})
		should.ErrorIs(t, err, ErrInvalidEmail, email)
		should.Equal(t, "email", FieldOf(err))
	}
}

func TestTransactionInitialize_InvalidCurrency(t *testing.T) {
	for _, currency := range []interface{}{"EUR", "etb", "usd", " USD", "", 840} {
		c, err := New(Config{SecretKey: "secret"})
		must.NoError(t, err)

		_, err = c.TransactionInitialize(context.Background(), Payload{"amount": 1, "currency": currency})
		should.ErrorIs(t, err, ErrInvalidCurrency, currency)
		should.Contains(t, err.Error(), "ETB, USD")
	}
}

func TestTransactionInitialize_InvalidCustomizationKey(t *testing.T) {
	type testCase struct {
		name  string
		given interface{}
		exp   string
	}

	tests := []testCase{
		{
			name:  "leading_digit",
			given: map[string]interface{}{"title": "Shop", "1logo": "x"},
			exp:   "1logo",
		},
		{
			name:  "space",
			given: map[string]string{"page title": "x"},
			exp:   "page title",
		},
		{
			name:  "dash",
			given: Payload{"logo-url": "x"},
			exp:   "logo-url",
		},
		{
			name:  "list",
			given: []interface{}{"title"},
			exp:   "0",
		},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			c, err := New(Config{SecretKey: "secret"})
			must.NoError(t, err)

			_, err = c.TransactionInitialize(context.Background(), Payload{
				"amount":        1,
				"currency":      "ETB",
				"customization": tc.given,
			})
			should.ErrorIs(t, err, ErrInvalidCustomizationKey)
			should.Contains(t, err.Error(), tc.exp)
		})
	}
}

func TestTransactionInitialize_Accepted(t *testing.T) {
	type testCase struct {
		name  string
		given Payload
	}

	tests := []testCase{
		{
			name:  "etb",
			given: Payload{"amount": "10.50", "currency": "ETB"},
		},
		{
			name:  "usd",
			given: Payload{"amount": 10, "currency": "USD"},
		},
		{
			name:  "nil_email",
			given: Payload{"amount": 10, "currency": "USD", "email": nil},
		},
		{
			name: "all_fields",
			given: Payload{
				"amount":       10,
				"currency":     "ETB",
				"email":        testutils.RandomEmail(),
				"first_name":   "Abebe",
				"last_name":    "Bikila",
				"phone_number": "0912345678",
				"tx_ref":       "order-1",
				"callback_url": "https://example.com/callback",
				"return_url":   "https://example.com/return",
				"customization": map[string]interface{}{
					"title":        "Shop",
					"_description": "Order",
				},
			},
		},
		{
			name:  "random_customization_key",
			given: Payload{"amount": 10, "currency": "ETB", "customization": map[string]string{testutils.RandomIdentifier(): "x"}},
		},
		{
			name:  "customization_not_a_mapping",
			given: Payload{"amount": 10, "currency": "ETB", "customization": "title"},
		},
		{
			name:  "empty_customization_list",
			given: Payload{"amount": 10, "currency": "ETB", "customization": []interface{}{}},
		},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			c, err := New(Config{SecretKey: "secret"})
			must.NoError(t, err)

			actual, err := c.prepareInitialize(tc.given)
			must.NoError(t, err)
			should.NotEmpty(t, actual["tx_ref"])
		})
	}
}

func TestTransactionInitialize_TxRef(t *testing.T) {
	type testCase struct {
		name   string
		prefix string
		given  interface{}
		exp    string
	}

	tests := []testCase{
		{
			name:   "prefixed",
			prefix: "P",
			given:  "X",
			exp:    "PX",
		},
		{
			name:  "no_prefix",
			given: "X",
			exp:   "X",
		},
		{
			name:   "number",
			prefix: "shop-",
			given:  42,
			exp:    "shop-42",
		},
		{
			name:   "generated",
			prefix: "shop-",
			exp:    "shop-token",
		},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			c, err := New(Config{SecretKey: "secret", TxRefPrefix: tc.prefix})
			must.NoError(t, err)
			c.newTxRef = func() string { return "token" }

			given := Payload{"amount": 1, "currency": "ETB"}
			if tc.given != nil {
				given["tx_ref"] = tc.given
			}

			actual, err := c.prepareInitialize(given)
			must.NoError(t, err)
			should.Equal(t, tc.exp, actual["tx_ref"])
		})
	}
}

func TestTransactionInitialize_GeneratedTxRefUnique(t *testing.T) {
	c, err := New(Config{SecretKey: "secret", TxRefPrefix: "shop-"})
	must.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		payload, err := c.prepareInitialize(Payload{"amount": 1, "currency": "ETB"})
		must.NoError(t, err)

		ref := payload["tx_ref"].(string)
		should.True(t, strings.HasPrefix(ref, "shop-"))
		should.False(t, seen[ref], ref)
		seen[ref] = true
	}
}

func TestTransactionInitialize_DoesNotMutateBody(t *testing.T) {
	c, err := New(Config{SecretKey: "secret", TxRefPrefix: "shop-"})
	must.NoError(t, err)

	given := Payload{"amount": 1, "currency": "ETB", "tx_ref": "X"}
	actual, err := c.prepareInitialize(given)
	must.NoError(t, err)

	should.Equal(t, "shop-X", actual["tx_ref"])
	should.Equal(t, Payload{"amount": 1, "currency": "ETB", "tx_ref": "X"}, given)
}

func TestInitializeParams_Payload(t *testing.T) {
	type testCase struct {
		name  string
		given InitializeParams
		exp   Payload
	}

	tests := []testCase{
		{
			name:  "empty",
			given: InitializeParams{},
			exp:   Payload{},
		},
		{
			name: "required",
			given: InitializeParams{
				Amount:   decimal.RequireFromString("100.50"),
				Currency: "ETB",
			},
			exp: Payload{"amount": "100.5", "currency": "ETB"},
		},
		{
			name: "all_fields",
			given: InitializeParams{
				Amount:        decimal.NewFromInt(10),
				Currency:      "USD",
				Email:         "abebe@example.com",
				FirstName:     "Abebe",
				LastName:      "Bikila",
				PhoneNumber:   "0912345678",
				TxRef:         "order-1",
				CallbackURL:   "https://example.com/callback",
				ReturnURL:     "https://example.com/return",
				Customization: map[string]string{"title": "Shop"},
			},
			exp: Payload{
				"amount":        "10",
				"currency":      "USD",
				"email":         "abebe@example.com",
				"first_name":    "Abebe",
				"last_name":     "Bikila",
				"phone_number":  "0912345678",
				"tx_ref":        "order-1",
				"callback_url":  "https://example.com/callback",
				"return_url":    "https://example.com/return",
				"customization": map[string]interface{}{"title": "Shop"},
			},
		},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			should.Equal(t, tc.exp, tc.given.Payload())
		})
	}
}

func TestInitializeParams_MissingAmount(t *testing.T) {
	c := newValidationClient(t, "")

	_, err := c.TransactionInitialize(context.Background(), InitializeParams{Currency: "ETB"}.Payload())
	should.ErrorIs(t, err, ErrMissingRequiredField)
	should.Equal(t, "amount", FieldOf(err))
}

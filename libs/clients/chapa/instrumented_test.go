package chapa

import (
	"context"
	"testing"

	testutils "github.com/chapa-go/chapa/libs/test"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func sampleCount(t *testing.T, name, method, result string) uint64 {
	m := &dto.Metric{}
	observer := clientDurationSummaryVec.WithLabelValues(name, method, result)
	must.NoError(t, observer.(prometheus.Metric).Write(m))
	return m.GetSummary().GetSampleCount()
}

func TestInstrumentedClient(t *testing.T) {
	name := testutils.RandomString()

	cl := NewInstrumentedClient(name, &MockClient{
		FnTransactionInitialize: func(ctx context.Context, body Payload) (Result, error) {
			return Result{"status": true, "tx_ref": body["tx_ref"]}, nil
		},
		FnTransactionVerify: func(ctx context.Context, txRef string) (Result, error) {
			return nil, newFieldError(ErrInvalidArgument, "tx_ref", "empty")
		},
	})

	actual, err := cl.TransactionInitialize(context.Background(), Payload{"tx_ref": "abc"})
	must.NoError(t, err)
	should.Equal(t, "abc", actual.TxRef())

	_, err = cl.TransactionVerify(context.Background(), "")
	should.ErrorIs(t, err, ErrInvalidArgument)

	should.Equal(t, uint64(1), sampleCount(t, name, "TransactionInitialize", "ok"))
	should.Equal(t, uint64(1), sampleCount(t, name, "TransactionVerify", "validation"))
	should.Equal(t, uint64(0), sampleCount(t, name, "TransactionVerify", "ok"))
}

func TestNewInstrumented(t *testing.T) {
	_, err := NewInstrumented("chapa_test", Config{}, nil)
	should.ErrorIs(t, err, ErrConfiguration)

	cl, err := NewInstrumented("chapa_test", Config{SecretKey: "secret"}, nil)
	must.NoError(t, err)
	should.IsType(t, &Client{}, cl.cl)
}

func TestMockClient_Defaults(t *testing.T) {
	var cl API = &MockClient{}

	actual, err := cl.TransactionInitialize(context.Background(), Payload{})
	must.NoError(t, err)
	should.Equal(t, Result{}, actual)

	actual, err = cl.TransactionVerify(context.Background(), "abc")
	must.NoError(t, err)
	should.Equal(t, Result{}, actual)
}

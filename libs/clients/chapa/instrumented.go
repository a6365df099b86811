package chapa

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var clientDurationSummaryVec = promauto.NewSummaryVec(
	prometheus.SummaryOpts{
		Name:       "chapa_client_duration_seconds",
		Help:       "client runtime duration and result",
		MaxAge:     time.Minute,
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	},
	[]string{"instance_name", "method", "result"})

// InstrumentedClient decorates an API with a prometheus summary of call duration and result.
// The result label is the ErrorClass of the returned error.
type InstrumentedClient struct {
	name string
	cl   API
}

// NewInstrumented returns a Client built from cfg decorated with prometheus metrics
func NewInstrumented(name string, cfg Config, t Transport) (*InstrumentedClient, error) {
	cl, err := NewWithTransport(cfg, t)
	if err != nil {
		return nil, err
	}

	return NewInstrumentedClient(name, cl), nil
}

// NewInstrumentedClient decorates cl with prometheus metrics reported under name
func NewInstrumentedClient(name string, cl API) *InstrumentedClient {
	return &InstrumentedClient{name: name, cl: cl}
}

// TransactionInitialize implements API
func (_d *InstrumentedClient) TransactionInitialize(ctx context.Context, body Payload) (r1 Result, err error) {
	_since := time.Now()
	defer func() {
		clientDurationSummaryVec.WithLabelValues(_d.name, "TransactionInitialize", resultLabel(err)).Observe(time.Since(_since).Seconds())
	}()

	return _d.cl.TransactionInitialize(ctx, body)
}

// TransactionVerify implements API
func (_d *InstrumentedClient) TransactionVerify(ctx context.Context, txRef string) (r1 Result, err error) {
	_since := time.Now()
	defer func() {
		clientDurationSummaryVec.WithLabelValues(_d.name, "TransactionVerify", resultLabel(err)).Observe(time.Since(_since).Seconds())
	}()

	return _d.cl.TransactionVerify(ctx, txRef)
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return Classify(err).String()
}

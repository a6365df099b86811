package chapa

const (
	// APIVersion is the chapa api version the client speaks
	APIVersion = "v1"
	// DefaultBaseURL is the production chapa api
	DefaultBaseURL = "https://api.chapa.co/" + APIVersion
)

// Config holds everything a Client is built from. A Client keeps its own copy,
// later changes to a Config do not affect clients built from it.
type Config struct {
	// BaseURL of the api, including the version segment. Defaults to DefaultBaseURL.
	BaseURL string
	// SecretKey is sent as the bearer token on every request. Required.
	SecretKey string
	// TxRefPrefix is prepended to every outgoing transaction reference.
	TxRefPrefix string
}

package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chapa-go/chapa/cmd"
	"github.com/chapa-go/chapa/libs/clients"
	"github.com/chapa-go/chapa/libs/clients/chapa"
	errorutils "github.com/chapa-go/chapa/libs/errors"
	"github.com/chapa-go/chapa/libs/logging"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// TransactionCmd groups the chapa transaction commands
	TransactionCmd = &cobra.Command{
		Use:   "transaction",
		Short: "provides chapa transaction operations",
	}

	// InitializeCmd starts a chapa transaction
	InitializeCmd = &cobra.Command{
		Use:   "initialize",
		Short: "initializes a transaction and prints the chapa response",
		Args:  cobra.NoArgs,
		Run:   cmd.Perform("initialize", Initialize),
	}

	// VerifyCmd looks up a chapa transaction
	VerifyCmd = &cobra.Command{
		Use:   "verify [tx_ref]",
		Short: "verifies a transaction and prints the chapa response",
		Args:  cobra.ExactArgs(1),
		Run:   cmd.Perform("verify", Verify),
	}
)

func init() {
	TransactionCmd.AddCommand(InitializeCmd, VerifyCmd)
	cmd.RootCmd.AddCommand(TransactionCmd)

	// secret-key - the chapa secret key used as bearer token
	TransactionCmd.PersistentFlags().String("secret-key", "",
		"the chapa secret key")
	cmd.Must(viper.BindPFlag("secret-key", TransactionCmd.PersistentFlags().Lookup("secret-key")))
	cmd.Must(viper.BindEnv("secret-key", "CHAPA_SECRET_KEY"))

	// tx-ref-prefix - prepended to every transaction reference
	TransactionCmd.PersistentFlags().String("tx-ref-prefix", "",
		"the prefix of every transaction reference")
	cmd.Must(viper.BindPFlag("tx-ref-prefix", TransactionCmd.PersistentFlags().Lookup("tx-ref-prefix")))
	cmd.Must(viper.BindEnv("tx-ref-prefix", "CHAPA_TX_REF_PREFIX"))

	// chapa-server - defaults to the production api
	TransactionCmd.PersistentFlags().String("chapa-server", chapa.DefaultBaseURL,
		"the chapa api address, including the version")
	cmd.Must(viper.BindPFlag("chapa-server", TransactionCmd.PersistentFlags().Lookup("chapa-server")))
	cmd.Must(viper.BindEnv("chapa-server", "CHAPA_SERVER"))

	TransactionCmd.PersistentFlags().String("http-proxy", "",
		"the proxy to send chapa requests through")
	cmd.Must(viper.BindPFlag("http-proxy", TransactionCmd.PersistentFlags().Lookup("http-proxy")))
	cmd.Must(viper.BindEnv("http-proxy", "HTTP_PROXY"))

	initializeBuilder := cmd.NewFlagBuilder(InitializeCmd)

	initializeBuilder.String("amount", "",
		"the amount to charge").
		Bind("amount").
		Require()

	initializeBuilder.String("currency", "ETB",
		"the currency of the amount, ETB or USD").
		Bind("currency")

	initializeBuilder.String("email", "",
		"the email of the customer").
		Bind("email")

	initializeBuilder.String("first-name", "",
		"the first name of the customer").
		Bind("first-name")

	initializeBuilder.String("last-name", "",
		"the last name of the customer").
		Bind("last-name")

	initializeBuilder.String("phone-number", "",
		"the phone number of the customer").
		Bind("phone-number")

	initializeBuilder.String("tx-ref", "",
		"the transaction reference, generated when empty").
		Bind("tx-ref")

	initializeBuilder.String("callback-url", "",
		"the url chapa notifies once the payment completes").
		Bind("callback-url")

	initializeBuilder.String("return-url", "",
		"the url the customer returns to once the payment completes").
		Bind("return-url")

	initializeBuilder.StringSlice("customization", nil,
		"checkout customization as key=value, may be repeated").
		Bind("customization")
}

// Initialize starts a chapa transaction from the command flags
func Initialize(command *cobra.Command, args []string) error {
	ctx := cmd.Context(command)

	params, err := ParamsFromViper()
	if err != nil {
		return err
	}

	client, err := NewClient(ConfigFromViper(), viper.GetString("http-proxy"))
	if err != nil {
		return err
	}

	return RunInitialize(ctx, client, params, command.OutOrStdout())
}

// Verify looks up the chapa transaction named by the first argument
func Verify(command *cobra.Command, args []string) error {
	ctx := cmd.Context(command)

	client, err := NewClient(ConfigFromViper(), viper.GetString("http-proxy"))
	if err != nil {
		return err
	}

	return RunVerify(ctx, client, args[0], command.OutOrStdout())
}

// RunInitialize initializes a transaction and writes the result to w.
// A failure result is written as well before its error is returned.
func RunInitialize(ctx context.Context, client chapa.API, params chapa.InitializeParams, w io.Writer) error {
	logger := logging.Logger(ctx, "transaction.initialize")

	result, err := client.TransactionInitialize(ctx, params.Payload())
	if werr := writeResult(w, result); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}

	logger.Info().
		Str("tx_ref", result.TxRef()).
		Bool("status", result.Status()).
		Msg("transaction initialized")
	return nil
}

// RunVerify verifies a transaction and writes the result to w.
// A failure result is written as well before its error is returned.
func RunVerify(ctx context.Context, client chapa.API, txRef string, w io.Writer) error {
	logger := logging.Logger(ctx, "transaction.verify")

	result, err := client.TransactionVerify(ctx, txRef)
	if werr := writeResult(w, result); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}

	logger.Info().
		Str("tx_ref", txRef).
		Bool("status", result.Status()).
		Msg("transaction verified")
	return nil
}

// ConfigFromViper returns the client config bound to the transaction flags
func ConfigFromViper() chapa.Config {
	return chapa.Config{
		BaseURL:     viper.GetString("chapa-server"),
		SecretKey:   viper.GetString("secret-key"),
		TxRefPrefix: viper.GetString("tx-ref-prefix"),
	}
}

// ParamsFromViper returns the initialize params bound to the initialize flags
func ParamsFromViper() (chapa.InitializeParams, error) {
	params := chapa.InitializeParams{
		Currency:    viper.GetString("currency"),
		Email:       viper.GetString("email"),
		FirstName:   viper.GetString("first-name"),
		LastName:    viper.GetString("last-name"),
		PhoneNumber: viper.GetString("phone-number"),
		TxRef:       viper.GetString("tx-ref"),
		CallbackURL: viper.GetString("callback-url"),
		ReturnURL:   viper.GetString("return-url"),
	}

	if amount := viper.GetString("amount"); amount != "" {
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return params, errorutils.New(errorutils.ErrBadRequest, fmt.Sprintf("invalid amount %q: %s", amount, err), nil)
		}
		params.Amount = value
	}

	customization, err := ParseCustomization(viper.GetStringSlice("customization"))
	if err != nil {
		return params, err
	}
	params.Customization = customization

	return params, nil
}

// ParseCustomization turns key=value entries into a customization mapping.
// Keys are validated by the client, not here.
func ParseCustomization(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	customization := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, errorutils.New(errorutils.ErrBadRequest, fmt.Sprintf("invalid customization %q, expected key=value", entry), nil)
		}
		customization[key] = value
	}

	return customization, nil
}

// NewClient returns an instrumented chapa client sending its requests through proxy when set
func NewClient(cfg chapa.Config, proxy string) (chapa.API, error) {
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = chapa.DefaultBaseURL
	}

	transport, err := clients.NewWithProxy("chapa", serverURL, "", proxy)
	if err != nil {
		return nil, errorutils.New(chapa.ErrConfiguration, err.Error(), chapa.FieldState{Field: "http_proxy"})
	}

	client, err := chapa.NewInstrumented("chapa_cli", cfg, transport)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func writeResult(w io.Writer, result chapa.Result) error {
	if result == nil {
		return nil
	}

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

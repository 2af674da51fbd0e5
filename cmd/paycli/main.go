package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zhima-Mochi/minipay/internal/application/checkout"
	apppay "github.com/Zhima-Mochi/minipay/internal/application/payment"
	"github.com/Zhima-Mochi/minipay/internal/config"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/backend"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/notify"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/observability/provider"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/observability/telemetry"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/wallet"
	"github.com/Zhima-Mochi/minipay/internal/observability"
	"github.com/Zhima-Mochi/minipay/internal/pkg/logging"
	"github.com/Zhima-Mochi/minipay/internal/presentation/form"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := pflag.NewFlagSet("paycli", pflag.ContinueOnError)
	config.Flags(fs)
	amount := fs.String("amount", "0", "amount to pay, in whole tokens")
	token := fs.String("token", "WLD", "token to pay with: WLD or USDC")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	baseLogger, err := logging.NewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Env,
		Output:  "stderr",
		File:    cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		baseLogger.Error("tracer_init_failed", zap.Error(err))
		return 2
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	if cfg.UsesDefaultDestination() {
		baseLogger.Warn("payment_destination_is_test_address", zap.String("to", cfg.Payment.To))
	}

	tel := provider.Standard(cfg.ServiceName, baseLogger, prometheus.NewRegistry())
	payForm := form.New(buildCheckout(cfg, tel, stdout))
	payForm.SetAmountText(*amount)
	payForm.SetTokenSelection(*token)

	outcome, err := payForm.Submit(ctx)
	if err != nil {
		baseLogger.Error("checkout_failed", zap.Error(err))
		return 1
	}
	switch outcome.State {
	case checkout.StateSucceeded, checkout.StateIgnored:
		return 0
	default:
		return 1
	}
}

func buildCheckout(cfg config.Config, tel observability.Observability, stdout io.Writer) *checkout.CheckoutUseCase {
	var w apppay.Wallet = wallet.Unavailable{}
	if cfg.Wallet.Mode == config.WalletSimulated {
		w = wallet.NewSimulated(cfg.Wallet.SuccessRate)
	}

	client := backend.NewClient(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		ConfirmBaseURL: cfg.Confirm.BaseURL,
		Timeout:        cfg.Backend.Timeout,
	}, tel)

	send := apppay.NewSendPaymentUseCase(client, w, apppay.Options{
		To:          cfg.Payment.To,
		Description: cfg.Payment.Description,
	}, tel)

	return checkout.NewCheckoutUseCase(w, send, client, notify.NewConsole(stdout, tel.Logger()), tel)
}

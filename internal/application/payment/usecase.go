package payment

import (
	"context"
	"errors"
	"time"

	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
	"github.com/Zhima-Mochi/minipay/internal/observability"
	"github.com/Zhima-Mochi/minipay/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	paymentService     = "payment-service"
	useCaseSendPayment = "payment.send"
	sendSpanName       = "SendPayment"
	spanPrefix         = "UC."

	// DefaultDestination is the test address payments go to unless configured.
	DefaultDestination = "0x512e4a7dda6b13f917d89fa782bdd7666dab1599"
	DefaultDescription = "ORBITAL-X"
)

type SendPaymentInput struct {
	Amount float64
	Token  dompay.Token
}

// Options are the fixed parts of every pay command.
type Options struct {
	To          string
	Description string
}

// SendPaymentUseCase requests a reference, builds the pay command and hands it to the wallet.
// Any failure yields a nil result and a *dompay.Error describing which step broke.
type SendPaymentUseCase struct {
	issuer ReferenceIssuer
	wallet Wallet
	opts   Options

	tracer     observability.Tracer
	log        observability.Logger
	reqCounter observability.Counter
	durHist    observability.Histogram
}

func NewSendPaymentUseCase(issuer ReferenceIssuer, wallet Wallet, opts Options, tel observability.Observability) *SendPaymentUseCase {
	if opts.To == "" {
		opts.To = DefaultDestination
	}
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}
	tracer, baseLog, metrics := observability.Resolve(tel)

	return &SendPaymentUseCase{
		issuer:     issuer,
		wallet:     wallet,
		opts:       opts,
		tracer:     tracer,
		log:        baseLog.With(observability.F("service", paymentService)),
		reqCounter: metrics.Counter(observability.MUsecaseRequests),
		durHist:    metrics.Histogram(observability.MUsecaseDuration),
	}
}

// Execute runs one send attempt.
func (uc *SendPaymentUseCase) Execute(ctx context.Context, cmd SendPaymentInput) (_ *dompay.Result, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCaseSendPayment),
		observability.F("token", string(cmd.Token)),
	)

	ctx, span := uc.tracer.Start(ctx, spanPrefix+sendSpanName,
		attribute.String("use_case", useCaseSendPayment),
		attribute.String("payment.token", string(cmd.Token)),
		attribute.Float64("payment.amount", cmd.Amount),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var ref dompay.Reference
	var walletStatus string

	defer func() {
		if span != nil {
			span.SetAttributes(
				attribute.String("payment.reference", string(ref)),
				attribute.String("payment.status", walletStatus),
			)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		latency := time.Since(start).Seconds()
		uc.reqCounter.Add(1,
			observability.L("use_case", useCaseSendPayment),
			observability.L("outcome", outcome),
		)
		uc.durHist.Observe(latency,
			observability.L("use_case", useCaseSendPayment),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", latency),
			observability.F("reference", string(ref)),
		}
		fields = append(fields, observability.SpanFields(ctx)...)
		if walletStatus != "" {
			fields = append(fields, observability.F("payment_status", walletStatus))
		}
		if err != nil {
			fields = append(fields,
				observability.F("error", err.Error()),
				observability.F("failure_kind", string(dompay.KindOf(err))),
			)
			logger.Warn("send_payment_failed", fields...)
			return
		}
		logger.Info("use_case_done", fields...)
	}()

	if uc.issuer == nil {
		outcome, statusText = "error", "ISSUER_MISSING"
		return nil, dompay.Wrap(dompay.KindNetwork, useCaseSendPayment, errors.New("no reference issuer configured"))
	}

	ref, err = uc.issuer.InitiatePayment(ctx)
	if err != nil {
		outcome, statusText = "error", "REFERENCE_REQUEST_FAILED"
		return nil, dompay.Wrap(dompay.KindNetwork, useCaseSendPayment, err)
	}
	logger.Debug("payment_reference_issued", observability.F("reference", string(ref)))

	payCmd, err := dompay.NewPayCommand(ref, uc.opts.To, uc.opts.Description, dompay.Intent{
		Amount: cmd.Amount,
		Token:  cmd.Token,
	})
	if err != nil {
		outcome, statusText = "error", "AMOUNT_INVALID"
		return nil, dompay.Wrap(dompay.KindInvalidAmount, useCaseSendPayment, err)
	}

	if uc.wallet == nil || !uc.wallet.IsAvailable() {
		outcome, statusText = "error", "WALLET_UNAVAILABLE"
		return nil, dompay.Wrap(dompay.KindWalletUnavailable, useCaseSendPayment, dompay.ErrWalletUnavailable)
	}

	res, err := uc.wallet.Pay(ctx, payCmd)
	if err != nil {
		outcome, statusText = "error", "WALLET_PAY_FAILED"
		return nil, dompay.Wrap(dompay.KindWalletRejected, useCaseSendPayment, err)
	}
	if res == nil || res.FinalPayload.IsZero() {
		outcome, statusText = "error", "WALLET_EMPTY_RESULT"
		return nil, dompay.Wrap(dompay.KindWalletRejected, useCaseSendPayment, errors.New("wallet returned no payload"))
	}

	walletStatus = res.FinalPayload.Status()
	if !res.FinalPayload.Succeeded() {
		statusText = "WALLET_DECLINED"
	}
	return res, nil
}

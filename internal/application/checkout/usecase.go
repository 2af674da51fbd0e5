package checkout

import (
	"context"
	"time"

	apppay "github.com/Zhima-Mochi/minipay/internal/application/payment"
	"github.com/Zhima-Mochi/minipay/internal/domain/notification"
	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
	"github.com/Zhima-Mochi/minipay/internal/observability"
	"github.com/Zhima-Mochi/minipay/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	checkoutService = "checkout"
	useCaseCheckout = "checkout.pay"
	spanPrefix      = "UC."
)

// State is where a single click ended up.
type State string

const (
	StateSucceeded     State = "succeeded"
	StateFailed        State = "failed"
	StateIgnored       State = "ignored"
	StateWalletMissing State = "wallet_missing"
)

// Outcome describes the end of one submission. Err holds the cause of a failure, if any;
// it is informational and never returned as an error from Execute.
type Outcome struct {
	State        State
	Notification *notification.Notification
	Result       *dompay.Result
	Err          error
}

// Succeeded is true only when the confirmation endpoint accepted the payment.
func (o *Outcome) Succeeded() bool { return o != nil && o.State == StateSucceeded }

// CheckoutUseCase is the pay button handler: check the wallet, send, confirm, notify.
type CheckoutUseCase struct {
	wallet    AvailabilityChecker
	sender    Sender
	confirmer Confirmer
	notifier  Notifier

	tracer      observability.Tracer
	log         observability.Logger
	reqCounter  observability.Counter
	durHist     observability.Histogram
	notifyCount observability.Counter
}

func NewCheckoutUseCase(
	wallet AvailabilityChecker,
	sender Sender,
	confirmer Confirmer,
	notifier Notifier,
	tel observability.Observability,
) *CheckoutUseCase {
	tracer, baseLog, metrics := observability.Resolve(tel)
	return &CheckoutUseCase{
		wallet:      wallet,
		sender:      sender,
		confirmer:   confirmer,
		notifier:    notifier,
		tracer:      tracer,
		log:         baseLog.With(observability.F("service", checkoutService)),
		reqCounter:  metrics.Counter(observability.MUsecaseRequests),
		durHist:     metrics.Histogram(observability.MUsecaseDuration),
		notifyCount: metrics.Counter(observability.MNotifications),
	}
}

// Execute handles one click. It always returns a non-nil Outcome and a nil error:
// failures surface as notifications.
func (uc *CheckoutUseCase) Execute(ctx context.Context, intent dompay.Intent) (*Outcome, error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCaseCheckout),
		observability.F("token", string(intent.Token)),
	)

	ctx, span := uc.tracer.Start(ctx, spanPrefix+"Checkout",
		attribute.String("use_case", useCaseCheckout),
		attribute.String("payment.token", string(intent.Token)),
	)
	start := time.Now()
	out := &Outcome{State: StateFailed}

	defer func() {
		if span != nil {
			span.SetAttributes(attribute.String("checkout.state", string(out.State)))
			if out.Err != nil {
				span.RecordError(out.Err)
				span.SetStatus(codes.Error, string(out.State))
			} else {
				span.SetStatus(codes.Ok, string(out.State))
			}
			span.End()
		}

		latency := time.Since(start).Seconds()
		uc.reqCounter.Add(1,
			observability.L("use_case", useCaseCheckout),
			observability.L("outcome", string(out.State)),
		)
		uc.durHist.Observe(latency, observability.L("use_case", useCaseCheckout))

		fields := []observability.Field{
			observability.F("outcome", string(out.State)),
			observability.F("latency_seconds", latency),
		}
		fields = append(fields, observability.SpanFields(ctx)...)
		if out.Err != nil {
			fields = append(fields, observability.F("error", out.Err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	if uc.wallet == nil || !uc.wallet.IsAvailable() {
		out.State = StateWalletMissing
		out.Err = dompay.ErrWalletUnavailable
		uc.notify(ctx, out, notification.WalletNotInstalled)
		return out, nil
	}

	res, err := uc.sender.Execute(ctx, apppay.SendPaymentInput{Amount: intent.Amount, Token: intent.Token})
	if err != nil || res == nil || res.FinalPayload.IsZero() {
		out.State = StateFailed
		out.Err = err
		uc.notify(ctx, out, notification.SendFailed)
		return out, nil
	}
	out.Result = res

	if !res.FinalPayload.Succeeded() {
		out.State = StateIgnored
		logger.Debug("payment_not_successful",
			observability.F("payment_status", res.FinalPayload.Status()),
		)
		return out, nil
	}

	ok, err := uc.confirm(ctx, res.FinalPayload)
	if err != nil || !ok {
		out.State = StateFailed
		out.Err = err
		uc.notify(ctx, out, notification.ConfirmFailed)
		return out, nil
	}

	out.State = StateSucceeded
	uc.notify(ctx, out, notification.PaymentSucceeded)
	return out, nil
}

func (uc *CheckoutUseCase) confirm(ctx context.Context, payload dompay.Payload) (bool, error) {
	if uc.confirmer == nil {
		return false, nil
	}
	return uc.confirmer.ConfirmPayment(ctx, payload)
}

func (uc *CheckoutUseCase) notify(ctx context.Context, out *Outcome, n notification.Notification) {
	out.Notification = &n
	uc.notifyCount.Add(1, observability.L("variant", string(n.Variant)))
	if uc.notifier != nil {
		uc.notifier.Notify(ctx, n)
	}
}

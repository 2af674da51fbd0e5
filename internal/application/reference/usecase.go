package reference

import (
	"context"
	"errors"
	"fmt"
	"time"

	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
	domref "github.com/Zhima-Mochi/minipay/internal/domain/reference"
	"github.com/Zhima-Mochi/minipay/internal/observability"
	"github.com/Zhima-Mochi/minipay/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	referenceService   = "reference-service"
	useCaseIssue       = "reference.issue"
	useCaseConfirm     = "reference.confirm"
	spanPrefix         = "UC."
	reasonNotSucceeded = "wallet_status_not_success"
)

var (
	ErrNotFound   = domref.ErrNotFound
	ErrRepository = errors.New("reference: repository failure")
)

type useCaseBase struct {
	tracer     observability.Tracer
	log        observability.Logger
	reqCounter observability.Counter
	durHist    observability.Histogram
}

func newBase(tel observability.Observability) useCaseBase {
	tracer, baseLog, metrics := observability.Resolve(tel)
	return useCaseBase{
		tracer:     tracer,
		log:        baseLog.With(observability.F("service", referenceService)),
		reqCounter: metrics.Counter(observability.MUsecaseRequests),
		durHist:    metrics.Histogram(observability.MUsecaseDuration),
	}
}

// finish records span status, RED metrics and the use_case_done log line.
func (b useCaseBase) finish(ctx context.Context, logger observability.Logger, useCase, outcome, statusText string, start time.Time, err error, extra ...observability.Field) {
	latency := time.Since(start).Seconds()
	b.reqCounter.Add(1, observability.L("use_case", useCase), observability.L("outcome", outcome))
	b.durHist.Observe(latency, observability.L("use_case", useCase))

	fields := append([]observability.Field{
		observability.F("outcome", outcome),
		observability.F("status", statusText),
		observability.F("latency_seconds", latency),
	}, extra...)
	fields = append(fields, observability.SpanFields(ctx)...)
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	logger.Info("use_case_done", fields...)
}

// IssueReferenceUseCase mints and stores a pending payment reference.
type IssueReferenceUseCase struct {
	useCaseBase
	repo domref.Repository
	ids  IDGenerator
}

func NewIssueReferenceUseCase(repo domref.Repository, ids IDGenerator, tel observability.Observability) *IssueReferenceUseCase {
	return &IssueReferenceUseCase{useCaseBase: newBase(tel), repo: repo, ids: ids}
}

type IssueReferenceInput struct{}

type IssueReferenceResult struct {
	ID dompay.Reference
}

func (uc *IssueReferenceUseCase) Execute(ctx context.Context, _ IssueReferenceInput) (_ *IssueReferenceResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCaseIssue))
	ctx, span := uc.tracer.Start(ctx, spanPrefix+"IssueReference", attribute.String("use_case", useCaseIssue))
	start := time.Now()
	outcome, statusText := "success", "OK"
	var id dompay.Reference

	defer func() {
		endSpan(span, err, statusText, attribute.String("payment.reference", string(id)))
		uc.finish(ctx, logger, useCaseIssue, outcome, statusText, start, err,
			observability.F("reference", string(id)))
	}()

	if err = ctx.Err(); err != nil {
		outcome, statusText = "error", "CONTEXT_CANCELED"
		return nil, err
	}

	id = dompay.Reference(uc.ids.NewID())
	if err = uc.repo.Insert(ctx, domref.New(id)); err != nil {
		outcome, statusText = "error", "REPO_INSERT_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	return &IssueReferenceResult{ID: id}, nil
}

// ConfirmPaymentUseCase settles a reference from the wallet's success payload.
type ConfirmPaymentUseCase struct {
	useCaseBase
	repo domref.Repository
}

func NewConfirmPaymentUseCase(repo domref.Repository, tel observability.Observability) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{useCaseBase: newBase(tel), repo: repo}
}

type ConfirmPaymentInput struct {
	Payload dompay.Payload
}

type ConfirmPaymentResult struct {
	Success bool
	Reason  string
}

// Execute reports Success only for a success payload whose reference is known and still pending.
// Unknown or already settled references are a non-error false.
func (uc *ConfirmPaymentUseCase) Execute(ctx context.Context, cmd ConfirmPaymentInput) (_ *ConfirmPaymentResult, err error) {
	ref := cmd.Payload.Reference()
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCaseConfirm),
		observability.F("reference", string(ref)),
	)
	ctx, span := uc.tracer.Start(ctx, spanPrefix+"ConfirmPayment",
		attribute.String("use_case", useCaseConfirm),
		attribute.String("payment.reference", string(ref)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	result := &ConfirmPaymentResult{}

	defer func() {
		endSpan(span, err, statusText, attribute.Bool("payment.confirmed", result.Success))
		uc.finish(ctx, logger, useCaseConfirm, outcome, statusText, start, err,
			observability.F("confirmed", result.Success),
			observability.F("reason", result.Reason))
	}()

	if ref == "" {
		statusText, result.Reason = "REFERENCE_MISSING", "reference_missing"
		return result, nil
	}

	record, err := uc.repo.Get(ctx, ref)
	if errors.Is(err, domref.ErrNotFound) {
		statusText, result.Reason = "REFERENCE_UNKNOWN", "reference_unknown"
		return result, nil
	}
	if err != nil {
		outcome, statusText = "error", "REPO_LOOKUP_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	if !cmd.Payload.Succeeded() {
		statusText, result.Reason = "NOT_SUCCESS", reasonNotSucceeded
		if rejErr := record.Reject(reasonNotSucceeded); rejErr == nil {
			if err = uc.repo.Update(ctx, record); err != nil {
				outcome, statusText = "error", "REPO_UPDATE_FAILED"
				return nil, fmt.Errorf("%w: %w", ErrRepository, err)
			}
		}
		return result, nil
	}

	if err := record.Confirm(cmd.Payload.TransactionID()); err != nil {
		statusText, result.Reason = "ALREADY_SETTLED", string(record.Status)
		return result, nil
	}
	if err = uc.repo.Update(ctx, record); err != nil {
		outcome, statusText = "error", "REPO_UPDATE_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	result.Success = true
	return result, nil
}

func endSpan(span trace.Span, err error, statusText string, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, statusText)
	} else {
		span.SetStatus(codes.Ok, statusText)
	}
	span.End()
}

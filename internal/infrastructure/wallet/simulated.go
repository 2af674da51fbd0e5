package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
	"github.com/google/uuid"
)

const (
	defaultSuccessRate = 0.7
	defaultFrom        = "0x0000000000000000000000000000000000000001"
	chainWorld         = "worldchain"
	payloadVersion     = 1
	errorUserRejected  = "user_rejected"
)

var ErrInvalidCommand = errors.New("wallet: invalid pay command")

// Simulated stands in for the wallet runtime. It approves a configurable share of commands
// and answers with payloads shaped like the real runtime's.
type Simulated struct {
	mu          sync.Mutex
	random      *rand.Rand
	successRate float64
	from        string
	now         func() time.Time
	calls       []dompay.PayCommand
}

type Option func(*Simulated)

func WithSeed(seed int64) Option {
	return func(s *Simulated) { s.random = rand.New(rand.NewSource(seed)) }
}

func WithFrom(addr string) Option {
	return func(s *Simulated) { s.from = addr }
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulated) { s.now = now }
}

func NewSimulated(successRate float64, opts ...Option) *Simulated {
	s := &Simulated{
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
		from:   defaultFrom,
		now:    time.Now,
	}
	s.SetSuccessRate(successRate)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulated) IsAvailable() bool { return true }

type successPayload struct {
	Status            string `json:"status"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	Reference         string `json:"reference"`
	From              string `json:"from"`
	Chain             string `json:"chain"`
	Timestamp         string `json:"timestamp"`
	Version           int    `json:"version"`
}

type errorPayload struct {
	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	Version   int    `json:"version"`
}

// Pay validates cmd and rolls the simulated user decision.
func (s *Simulated) Pay(ctx context.Context, cmd dompay.PayCommand) (*dompay.Result, error) {
	// respect cancellation even though this is mocked
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if cmd.Reference == "" || cmd.To == "" || len(cmd.Tokens) == 0 {
		return nil, ErrInvalidCommand
	}

	s.mu.Lock()
	s.calls = append(s.calls, cmd)
	approved := s.random.Float64() < s.successRate
	ts := s.now().UTC().Format(time.RFC3339)
	from := s.from
	s.mu.Unlock()

	var body any = errorPayload{Status: dompay.StatusError, ErrorCode: errorUserRejected, Version: payloadVersion}
	if approved {
		body = successPayload{
			Status:            dompay.StatusSuccess,
			TransactionStatus: "submitted",
			TransactionID:     uuid.NewString(),
			Reference:         string(cmd.Reference),
			From:              from,
			Chain:             chainWorld,
			Timestamp:         ts,
			Version:           payloadVersion,
		}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	payload, err := dompay.ParsePayload(raw)
	if err != nil {
		return nil, err
	}
	return &dompay.Result{FinalPayload: payload}, nil
}

// SetSuccessRate adjusts the approval rate, clamped to [0, 1].
func (s *Simulated) SetSuccessRate(rate float64) {
	s.mu.Lock()
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	s.successRate = rate
	s.mu.Unlock()
}

func (s *Simulated) SuccessRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.successRate
}

// Calls returns the commands received so far.
func (s *Simulated) Calls() []dompay.PayCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dompay.PayCommand, len(s.calls))
	copy(out, s.calls)
	return out
}

// Unavailable is a wallet that reports itself as not installed.
type Unavailable struct{}

func (Unavailable) IsAvailable() bool { return false }

func (Unavailable) Pay(context.Context, dompay.PayCommand) (*dompay.Result, error) {
	return nil, dompay.ErrWalletUnavailable
}

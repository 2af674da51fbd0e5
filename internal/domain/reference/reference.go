package reference

import (
	"errors"
	"time"

	"github.com/Zhima-Mochi/minipay/internal/domain/payment"
)

var (
	ErrNotFound               = errors.New("reference: not found")
	ErrConflict               = errors.New("reference: already exists")
	ErrInvalidStateTransition = errors.New("reference: invalid state transition")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Record tracks one issued payment reference on the backend.
type Record struct {
	ID            payment.Reference
	Status        Status
	TransactionID string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func New(id payment.Reference) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        id,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Confirm settles a pending reference with the wallet's transaction id.
func (r *Record) Confirm(transactionID string) error {
	if r.Status != StatusPending {
		return ErrInvalidStateTransition
	}
	r.Status = StatusConfirmed
	r.TransactionID = transactionID
	r.FailureReason = ""
	r.touch()
	return nil
}

// Reject closes a pending reference. Rejected references cannot be confirmed later.
func (r *Record) Reject(reason string) error {
	if r.Status != StatusPending {
		return ErrInvalidStateTransition
	}
	r.Status = StatusRejected
	r.FailureReason = reason
	r.touch()
	return nil
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func (r *Record) touch() {
	r.UpdatedAt = time.Now().UTC()
}

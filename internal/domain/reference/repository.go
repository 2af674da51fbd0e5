package reference

import (
	"context"

	"github.com/Zhima-Mochi/minipay/internal/domain/payment"
)

type Repository interface {
	Insert(ctx context.Context, record *Record) error
	Get(ctx context.Context, id payment.Reference) (*Record, error)
	Update(ctx context.Context, record *Record) error
}

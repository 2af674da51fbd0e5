package payment

import (
	"context"

	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
)

// Wallet is the injected wallet runtime capability.
type Wallet interface {
	// IsAvailable reports whether the runtime is installed and able to take commands.
	IsAvailable() bool
	Pay(ctx context.Context, cmd dompay.PayCommand) (*dompay.Result, error)
}

// ReferenceIssuer obtains a fresh payment reference from the backend.
type ReferenceIssuer interface {
	InitiatePayment(ctx context.Context) (dompay.Reference, error)
}

package checkout

import (
	"context"

	"github.com/Zhima-Mochi/minipay/internal/application"
	apppay "github.com/Zhima-Mochi/minipay/internal/application/payment"
	"github.com/Zhima-Mochi/minipay/internal/domain/notification"
	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
)

// Notifier routes a notification to whatever presents it to the user.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// Confirmer posts the wallet payload to the confirmation endpoint and reports its success flag.
type Confirmer interface {
	ConfirmPayment(ctx context.Context, payload dompay.Payload) (bool, error)
}

// Sender runs one send attempt; *payment.SendPaymentUseCase implements it.
type Sender = application.UseCase[apppay.SendPaymentInput, *dompay.Result]

// AvailabilityChecker is the part of the wallet the click handler checks before sending.
type AvailabilityChecker interface {
	IsAvailable() bool
}

var (
	_ Sender                                       = (*apppay.SendPaymentUseCase)(nil)
	_ application.UseCase[dompay.Intent, *Outcome] = (*CheckoutUseCase)(nil)
	_ AvailabilityChecker                          = (apppay.Wallet)(nil)
)

package notification

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a toast shown to the user: a title, a description and a severity.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

var (
	WalletNotInstalled = Notification{
		Title:       "Error",
		Description: "MiniKit is not installed. Please open this application in World App.",
		Variant:     VariantDestructive,
	}
	SendFailed = Notification{
		Title:       "Error",
		Description: "Failed to send payment",
		Variant:     VariantDestructive,
	}
	ConfirmFailed = Notification{
		Title:       "Error",
		Description: "Payment failed to confirm",
		Variant:     VariantDestructive,
	}
	PaymentSucceeded = Notification{
		Title:       "Success",
		Description: "Payment sent successfully!",
		Variant:     VariantDefault,
	}
)

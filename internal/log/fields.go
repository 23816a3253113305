package log

// Field names shared by the structured logs of both binaries.
const (
	FieldComponent   = "component"
	FieldPaymentID   = "payment_id"
	FieldAmountCents = "amount_cents"
	FieldDueDate     = "due_date"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
)

package amqp

import (
	"encoding/json"
	"time"
)

// PaymentAlertMessage notifies consumers that a recurring payment needs
// attention. It carries everything needed to render a notification so
// consumers never have to call back into the ledger.
type PaymentAlertMessage struct {
	PaymentID   string    `json:"paymentId"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amountCents"`
	Status      string    `json:"status"`
	DaysDiff    int       `json:"daysDiff"`
	DueDate     string    `json:"dueDate"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewPaymentAlertMessage creates an alert message stamped with the current time.
func NewPaymentAlertMessage(paymentID, description string, amountCents int64, status string, daysDiff int, dueDate string) *PaymentAlertMessage {
	return &PaymentAlertMessage{
		PaymentID:   paymentID,
		Description: description,
		AmountCents: amountCents,
		Status:      status,
		DaysDiff:    daysDiff,
		DueDate:     dueDate,
		Timestamp:   time.Now().UTC(),
	}
}

// ToJSON serializes the message for publishing.
func (m *PaymentAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PaymentAlertMessageFromJSON deserializes a consumed message body.
func PaymentAlertMessageFromJSON(data []byte) (*PaymentAlertMessage, error) {
	var m PaymentAlertMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

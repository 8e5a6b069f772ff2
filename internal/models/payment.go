package models

import "time"

// Charge is the result of initializing a payment with the gateway.
type Charge struct {
	PaymentURL string `json:"payment_url"`
	Reference  string `json:"reference"`
	AccessCode string `json:"access_code"`
}

// ChargeVerification is the gateway's view of a charge. Amount is in whole units.
type ChargeVerification struct {
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	Channel   string    `json:"channel"`
	PaidAt    time.Time `json:"paid_at"`
}

// ChargeSucceeded is the verification status of a settled payment.
const ChargeSucceeded = "success"

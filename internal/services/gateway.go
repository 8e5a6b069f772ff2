package services

import (
	"fmt"

	"chatorder/internal/models"
	"chatorder/pkg/paystack"
)

// Gateway is the payment processor the chat hands checkouts to.
type Gateway interface {
	// InitializeCharge starts a charge of amount whole units.
	InitializeCharge(email string, amount int64, summary string) (*models.Charge, error)
	VerifyCharge(reference string) (*models.ChargeVerification, error)
}

// PaystackGateway adapts a paystack.Client to Gateway.
type PaystackGateway struct {
	client *paystack.Client
}

// NewPaystackGateway creates a new PaystackGateway.
func NewPaystackGateway(client *paystack.Client) *PaystackGateway {
	return &PaystackGateway{client: client}
}

// InitializeCharge creates a Paystack transaction carrying summary as metadata.
func (g *PaystackGateway) InitializeCharge(email string, amount int64, summary string) (*models.Charge, error) {
	auth, err := g.client.Initialize(paystack.InitializeRequest{
		Email:   email,
		Amount:  amount,
		Summary: summary,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize charge: %w", err)
	}
	return &models.Charge{
		PaymentURL: auth.AuthorizationURL,
		Reference:  auth.Reference,
		AccessCode: auth.AccessCode,
	}, nil
}

// VerifyCharge asks Paystack for the state of reference.
func (g *PaystackGateway) VerifyCharge(reference string) (*models.ChargeVerification, error) {
	v, err := g.client.Verify(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to verify charge %s: %w", reference, err)
	}
	return &models.ChargeVerification{
		Status:    v.Status,
		Reference: v.Reference,
		Amount:    v.WholeAmount(),
		Channel:   v.Channel,
		PaidAt:    v.PaidAt,
	}, nil
}

package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"chatorder/internal/models"
	"chatorder/internal/repositories"
)

// Verification outcomes reported to the chat client.
const (
	VerificationSucceeded = "success"
	VerificationFailed    = "failed"
)

// EventPublisher announces newly paid orders. It may be nil.
type EventPublisher interface {
	PublishOrderPaid(event any) error
}

// VerificationResult is the outcome of VerifyPayment. Receipt is set only on success.
type VerificationResult struct {
	Status  string
	Receipt *models.Receipt
	Reply   models.Reply
}

// PaymentService confirms payments with the gateway and records receipts.
type PaymentService struct {
	sessions  repositories.SessionStore
	receipts  repositories.ReceiptRepository
	gateway   Gateway
	publisher EventPublisher
}

// NewPaymentService creates a new PaymentService. publisher may be nil.
func NewPaymentService(sessions repositories.SessionStore, receipts repositories.ReceiptRepository, gateway Gateway, publisher EventPublisher) *PaymentService {
	return &PaymentService{
		sessions:  sessions,
		receipts:  receipts,
		gateway:   gateway,
		publisher: publisher,
	}
}

// VerifyPayment confirms reference with the gateway for deviceID. On success
// the receipt is stored in the log and in the session, the checkout pending
// under reference is consumed and the session cart is cleared. Verifying a reference
// that is already recorded returns the stored receipt without touching the
// gateway or the session.
func (s *PaymentService) VerifyPayment(reference, deviceID string) (*VerificationResult, error) {
	if reference == "" || deviceID == "" {
		return nil, fmt.Errorf("reference and device id are required")
	}

	existing, err := s.receipts.GetByReference(reference)
	switch {
	case err == nil:
		if existing.DeviceID != deviceID {
			log.Printf("Reference %s was verified for device %s, rejecting device %s", reference, existing.DeviceID, deviceID)
			return failedResult(), nil
		}
		return succeededResult(existing), nil
	case !errors.Is(err, repositories.ErrReceiptNotFound):
		return nil, fmt.Errorf("failed to look up receipt %s: %w", reference, err)
	}

	tx, err := s.gateway.VerifyCharge(reference)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.ChargeSucceeded {
		log.Printf("Payment %s for device %s not successful: %s", reference, deviceID, tx.Status)
		return failedResult(), nil
	}

	session := s.sessions.Resolve(deviceID)
	session.Lock()
	defer session.Unlock()

	receipt := buildReceipt(session, reference, tx)
	written, err := s.receipts.Append(receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to record receipt %s: %w", reference, err)
	}
	if !written {
		// Another request recorded this reference first.
		stored, err := s.receipts.GetByReference(reference)
		if err != nil {
			return nil, fmt.Errorf("failed to load receipt %s: %w", reference, err)
		}
		if stored.DeviceID != deviceID {
			log.Printf("Reference %s was verified for device %s, rejecting device %s", reference, stored.DeviceID, deviceID)
			return failedResult(), nil
		}
		return succeededResult(stored), nil
	}

	session.TakePending(reference)
	session.Orders = append(session.Orders, *receipt)
	session.CurrentOrder = []models.CartLine{}

	s.publish(receipt)
	log.Printf("Recorded receipt %s for device %s: total %d", reference, deviceID, receipt.Total)
	return succeededResult(receipt), nil
}

// ReceiptsForDevice returns the persisted receipt log of deviceID.
func (s *PaymentService) ReceiptsForDevice(deviceID string) ([]models.Receipt, error) {
	return s.receipts.ListByDevice(deviceID)
}

// AllReceipts returns every persisted receipt.
func (s *PaymentService) AllReceipts() ([]models.Receipt, error) {
	return s.receipts.ListAll()
}

func (s *PaymentService) publish(receipt *models.Receipt) {
	if s.publisher == nil {
		return
	}
	event := models.OrderPaidEvent{
		DeviceID:  receipt.DeviceID,
		Reference: receipt.Reference,
		Total:     receipt.Total,
		Items:     CopyLines(receipt.Items),
		PaidAt:    receipt.PaidAt,
	}
	if err := s.publisher.PublishOrderPaid(event); err != nil {
		log.Printf("Warning: failed to publish order paid event for %s: %v", receipt.Reference, err)
	}
}

// buildReceipt uses the checkout pending under reference. Without one it
// records the live cart at the amount the gateway confirmed. Must be called
// with the session locked.
func buildReceipt(session *models.Session, reference string, tx *models.ChargeVerification) *models.Receipt {
	items, total := session.CurrentOrder, tx.Amount
	if p, ok := session.Pending[reference]; ok {
		items, total = p.Items, p.Total
	}

	paidAt := tx.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	return &models.Receipt{
		DeviceID:  session.DeviceID,
		Reference: reference,
		Items:     CopyLines(items),
		Total:     total,
		Channel:   tx.Channel,
		PaidAt:    paidAt.UTC(),
	}
}

func succeededResult(receipt *models.Receipt) *VerificationResult {
	return &VerificationResult{
		Status:  VerificationSucceeded,
		Receipt: receipt,
		Reply:   models.Reply{Reply: ReplyThankYou, Kind: models.KindPostPaymentMenu},
	}
}

func failedResult() *VerificationResult {
	return &VerificationResult{
		Status: VerificationFailed,
		Reply:  text(paymentRetryText(replyPaymentFailed, nil)),
	}
}

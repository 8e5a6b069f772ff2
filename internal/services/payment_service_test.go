package services_test

import (
	"errors"
	"testing"
	"time"

	"chatorder/internal/models"
	"chatorder/internal/repositories"
	"chatorder/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	chat      *services.ChatService
	payments  *services.PaymentService
	gateway   *MockGateway
	publisher *MockPublisher
	store     *repositories.MemorySessionStore
	receipts  *repositories.MockReceiptRepository
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	store := repositories.NewMemorySessionStore(0)
	t.Cleanup(store.Close)
	receipts := repositories.NewMockReceiptRepository()
	gw := new(MockGateway)
	pub := new(MockPublisher)

	return &paymentFixture{
		chat:      services.NewChatService(store, newMenuService(t), gw, "example.com"),
		payments:  services.NewPaymentService(store, receipts, gw, pub),
		gateway:   gw,
		publisher: pub,
		store:     store,
		receipts:  receipts,
	}
}

// checkout adds two Jollof Rice and checks out with reference ref.
func (f *paymentFixture) checkout(t *testing.T, deviceID, ref string) *models.Session {
	t.Helper()
	f.gateway.On("InitializeCharge", mock.Anything, int64(3000), mock.Anything).
		Return(&models.Charge{PaymentURL: "https://pay.example/" + ref, Reference: ref}, nil).Once()

	session := f.store.Resolve(deviceID)
	f.chat.Process(session, "Jollof Rice")
	f.chat.Process(session, "Jollof Rice")
	f.chat.Process(session, "99")
	require.Empty(t, session.CurrentOrder)
	return session
}

func paid(ref string) *models.ChargeVerification {
	return &models.ChargeVerification{
		Status:    models.ChargeSucceeded,
		Reference: ref,
		Amount:    3000,
		Channel:   "card",
		PaidAt:    time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
	}
}

func TestPaymentService_VerifySuccess(t *testing.T) {
	f := newPaymentFixture(t)
	session := f.checkout(t, "device-1", "ref-1")

	f.gateway.On("VerifyCharge", "ref-1").Return(paid("ref-1"), nil).Once()
	f.publisher.On("PublishOrderPaid", mock.MatchedBy(func(e models.OrderPaidEvent) bool {
		return e.Reference == "ref-1" && e.Total == 3000 && e.DeviceID == "device-1"
	})).Return(nil).Once()

	result, err := f.payments.VerifyPayment("ref-1", "device-1")
	require.NoError(t, err)

	assert.Equal(t, services.VerificationSucceeded, result.Status)
	assert.Equal(t, models.KindPostPaymentMenu, result.Reply.Kind)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, []models.CartLine{{Name: "Jollof Rice", Quantity: 2}}, result.Receipt.Items)
	assert.Equal(t, int64(3000), result.Receipt.Total)
	assert.Equal(t, "card", result.Receipt.Channel)

	require.Len(t, session.Orders, 1)
	assert.Equal(t, "ref-1", session.Orders[0].Reference)
	assert.Empty(t, session.CurrentOrder)
	assert.Zero(t, session.Total)
	assert.Empty(t, session.Pending)
	assert.Len(t, session.History, 1)

	logged, err := f.receipts.ListByDevice("device-1")
	require.NoError(t, err)
	assert.Len(t, logged, 1)

	reply := f.chat.Process(session, "98")
	assert.Contains(t, reply.Reply, "ref-1")
	assert.Contains(t, reply.Reply, "3000")

	f.gateway.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestPaymentService_DuplicateVerificationIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	session := f.checkout(t, "device-1", "ref-1")

	f.gateway.On("VerifyCharge", "ref-1").Return(paid("ref-1"), nil).Once()
	f.publisher.On("PublishOrderPaid", mock.Anything).Return(nil).Once()

	first, err := f.payments.VerifyPayment("ref-1", "device-1")
	require.NoError(t, err)
	second, err := f.payments.VerifyPayment("ref-1", "device-1")
	require.NoError(t, err)

	assert.Equal(t, services.VerificationSucceeded, second.Status)
	assert.Equal(t, first.Receipt.ID, second.Receipt.ID)
	assert.Len(t, session.Orders, 1)

	logged, _ := f.receipts.ListAll()
	assert.Len(t, logged, 1)
	f.gateway.AssertNumberOfCalls(t, "VerifyCharge", 1)
	f.publisher.AssertNumberOfCalls(t, "PublishOrderPaid", 1)
}

func TestPaymentService_ReferenceOfAnotherDevice(t *testing.T) {
	f := newPaymentFixture(t)
	f.checkout(t, "device-1", "ref-1")
	f.gateway.On("VerifyCharge", "ref-1").Return(paid("ref-1"), nil).Once()
	f.publisher.On("PublishOrderPaid", mock.Anything).Return(nil)

	_, err := f.payments.VerifyPayment("ref-1", "device-1")
	require.NoError(t, err)

	result, err := f.payments.VerifyPayment("ref-1", "device-2")
	require.NoError(t, err)
	assert.Equal(t, services.VerificationFailed, result.Status)
	assert.Empty(t, f.store.Resolve("device-2").Orders)
}

func TestPaymentService_TwoPendingCheckouts(t *testing.T) {
	verifyOrders := map[string][]string{
		"first checkout first":  {"ref-A", "ref-B"},
		"second checkout first": {"ref-B", "ref-A"},
	}

	for name, order := range verifyOrders {
		t.Run(name, func(t *testing.T) {
			f := newPaymentFixture(t)
			session := f.checkout(t, "device-1", "ref-A")

			f.gateway.On("InitializeCharge", mock.Anything, int64(1000), mock.Anything).
				Return(&models.Charge{PaymentURL: "https://pay.example/ref-B", Reference: "ref-B"}, nil).Once()
			f.chat.Process(session, "Bread")
			f.chat.Process(session, "99")
			require.Len(t, session.Pending, 2)
			assert.Equal(t, int64(1000), session.Total)

			f.publisher.On("PublishOrderPaid", mock.Anything).Return(nil)
			want := map[string]struct {
				items []models.CartLine
				total int64
			}{
				"ref-A": {[]models.CartLine{{Name: "Jollof Rice", Quantity: 2}}, 3000},
				"ref-B": {[]models.CartLine{{Name: "Bread", Quantity: 1}}, 1000},
			}

			for _, ref := range order {
				tx := paid(ref)
				tx.Amount = want[ref].total
				f.gateway.On("VerifyCharge", ref).Return(tx, nil).Once()

				result, err := f.payments.VerifyPayment(ref, "device-1")
				require.NoError(t, err)
				require.Equal(t, services.VerificationSucceeded, result.Status)
				assert.Equal(t, want[ref].items, result.Receipt.Items, ref)
				assert.Equal(t, want[ref].total, result.Receipt.Total, ref)
				assert.NotContains(t, session.Pending, ref)
			}

			assert.Empty(t, session.Pending)
			assert.Zero(t, session.Total)
			assert.Len(t, session.Orders, 2)
		})
	}
}

func TestPaymentService_UnknownReferenceUsesGatewayAmount(t *testing.T) {
	f := newPaymentFixture(t)
	session := f.checkout(t, "device-1", "ref-1")

	tx := paid("ref-other")
	tx.Amount = 2200
	f.gateway.On("VerifyCharge", "ref-other").Return(tx, nil).Once()
	f.publisher.On("PublishOrderPaid", mock.Anything).Return(nil).Once()

	result, err := f.payments.VerifyPayment("ref-other", "device-1")
	require.NoError(t, err)

	assert.Equal(t, int64(2200), result.Receipt.Total)
	assert.Empty(t, result.Receipt.Items)
	assert.Contains(t, session.Pending, "ref-1")
	assert.Equal(t, int64(3000), session.Total)
}

// racingReceipts reports every append as lost to a concurrent writer that
// recorded the reference for owner.
type racingReceipts struct {
	*repositories.MockReceiptRepository
	owner string
	armed bool
}

func (r *racingReceipts) GetByReference(reference string) (*models.Receipt, error) {
	if !r.armed {
		return nil, repositories.ErrReceiptNotFound
	}
	return r.MockReceiptRepository.GetByReference(reference)
}

func (r *racingReceipts) Append(receipt *models.Receipt) (bool, error) {
	r.armed = true
	winner := *receipt
	winner.DeviceID = r.owner
	if _, err := r.MockReceiptRepository.Append(&winner); err != nil {
		return false, err
	}
	return false, nil
}

func TestPaymentService_LostAppendRaceChecksDevice(t *testing.T) {
	store := repositories.NewMemorySessionStore(0)
	t.Cleanup(store.Close)
	gw := new(MockGateway)
	receipts := &racingReceipts{MockReceiptRepository: repositories.NewMockReceiptRepository(), owner: "device-1"}
	payments := services.NewPaymentService(store, receipts, gw, nil)

	gw.On("VerifyCharge", "ref-1").Return(paid("ref-1"), nil).Once()

	result, err := payments.VerifyPayment("ref-1", "device-2")
	require.NoError(t, err)

	assert.Equal(t, services.VerificationFailed, result.Status)
	assert.Nil(t, result.Receipt)
	assert.Empty(t, store.Resolve("device-2").Orders)
}

func TestPaymentService_VerifyNotSuccessful(t *testing.T) {
	f := newPaymentFixture(t)
	session := f.checkout(t, "device-1", "ref-1")

	f.gateway.On("VerifyCharge", "ref-1").
		Return(&models.ChargeVerification{Status: "abandoned", Reference: "ref-1"}, nil).Once()

	result, err := f.payments.VerifyPayment("ref-1", "device-1")
	require.NoError(t, err)

	assert.Equal(t, services.VerificationFailed, result.Status)
	assert.Nil(t, result.Receipt)
	assert.Empty(t, session.Orders)
	assert.Equal(t, int64(3000), session.Total)
	assert.Contains(t, session.Pending, "ref-1")
	f.publisher.AssertNotCalled(t, "PublishOrderPaid", mock.Anything)
}

func TestPaymentService_GatewayError(t *testing.T) {
	f := newPaymentFixture(t)
	session := f.checkout(t, "device-1", "ref-1")

	f.gateway.On("VerifyCharge", "ref-1").Return(nil, errors.New("timeout")).Once()

	_, err := f.payments.VerifyPayment("ref-1", "device-1")
	assert.Error(t, err)
	assert.Empty(t, session.Orders)
}

func TestPaymentService_PublishFailureIsNotFatal(t *testing.T) {
	f := newPaymentFixture(t)
	session := f.checkout(t, "device-1", "ref-1")

	f.gateway.On("VerifyCharge", "ref-1").Return(paid("ref-1"), nil).Once()
	f.publisher.On("PublishOrderPaid", mock.Anything).Return(errors.New("broker down")).Once()

	result, err := f.payments.VerifyPayment("ref-1", "device-1")
	require.NoError(t, err)
	assert.Equal(t, services.VerificationSucceeded, result.Status)
	assert.Len(t, session.Orders, 1)
}

func TestPaymentService_WithoutPendingCheckoutUsesCart(t *testing.T) {
	store := repositories.NewMemorySessionStore(0)
	t.Cleanup(store.Close)
	gw := new(MockGateway)
	payments := services.NewPaymentService(store, repositories.NewMockReceiptRepository(), gw, nil)

	session := store.Resolve("device-1")
	session.CurrentOrder = []models.CartLine{{Name: "Bread", Quantity: 1}}
	gw.On("VerifyCharge", "ref-9").Return(&models.ChargeVerification{
		Status: models.ChargeSucceeded, Reference: "ref-9", Amount: 1000,
	}, nil).Once()

	result, err := payments.VerifyPayment("ref-9", "device-1")
	require.NoError(t, err)

	assert.Equal(t, []models.CartLine{{Name: "Bread", Quantity: 1}}, result.Receipt.Items)
	assert.Equal(t, int64(1000), result.Receipt.Total)
	assert.False(t, result.Receipt.PaidAt.IsZero())
	assert.Empty(t, session.CurrentOrder)
}

func TestPaymentService_RequiresReferenceAndDevice(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.payments.VerifyPayment("", "device-1")
	assert.Error(t, err)
	_, err = f.payments.VerifyPayment("ref-1", "")
	assert.Error(t, err)
	f.gateway.AssertNotCalled(t, "VerifyCharge", mock.Anything)
}

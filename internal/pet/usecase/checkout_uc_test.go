package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

func availablePet() *domain.Pet {
	return &domain.Pet{
		ID:          "1",
		Name:        "Buddy",
		Species:     "Golden Retriever",
		Description: "A very good boy who loves long walks and belly rubs and will greet you at the door every single day of the week without fail, rain or shine.",
		Price:       299.99,
	}
}

func newCheckout(repo *fakeRepo, gw *fakeGateway, mailer *fakeMailer) (*CheckoutUsecase, *fakeCache, *fakePublisher) {
	cache := newFakeCache()
	pub := &fakePublisher{}
	uc := NewCheckoutUsecase(repo, gw, mailer, cache, pub, "http://localhost:3000", zap.NewNop())
	return uc, cache, pub
}

func TestInitiateCheckout_CreatesSession(t *testing.T) {
	gw := &fakeGateway{}
	uc, _, _ := newCheckout(newFakeRepo(availablePet()), gw, &fakeMailer{})

	sessionID, err := uc.InitiateCheckout(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", sessionID)

	require.Len(t, gw.created, 1)
	req := gw.created[0]
	assert.Equal(t, "Buddy (Golden Retriever)", req.Name)
	assert.Equal(t, int64(29999), req.AmountCents)
	assert.Equal(t, "http://localhost:3000/pets/1?success=true&session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "http://localhost:3000/pets/1", req.CancelURL)
}

func TestInitiateCheckout_DefaultPriceForLegacyRows(t *testing.T) {
	pet := availablePet()
	pet.Price = 0
	gw := &fakeGateway{}
	uc, _, _ := newCheckout(newFakeRepo(pet), gw, &fakeMailer{})

	_, err := uc.InitiateCheckout(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, DefaultAmountCents, gw.created[0].AmountCents)
}

func TestInitiateCheckout_NotFound(t *testing.T) {
	uc, _, _ := newCheckout(newFakeRepo(), &fakeGateway{}, &fakeMailer{})

	_, err := uc.InitiateCheckout(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrPetNotFound)
}

func TestInitiateCheckout_AlreadyPurchased(t *testing.T) {
	pet := availablePet()
	when := time.Now()
	pet.PurchasedAt = &when
	uc, _, _ := newCheckout(newFakeRepo(pet), &fakeGateway{}, &fakeMailer{})

	_, err := uc.InitiateCheckout(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrAlreadyPurchased)
}

func TestFinalizeCheckout_MarksPurchasedAndNotifies(t *testing.T) {
	repo := newFakeRepo(availablePet())
	mailer := &fakeMailer{}
	uc, cache, pub := newCheckout(repo, &fakeGateway{}, mailer)

	require.NoError(t, uc.FinalizeCheckout(context.Background(), "1", "cs_test_123"))

	pet, err := repo.FindByID(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, pet.PurchasedAt)
	assert.Equal(t, []string{"buyer@example.com"}, mailer.customerMails)
	assert.Equal(t, []string{"buyer@example.com"}, mailer.adminMails)
	assert.Equal(t, []string{"pets.purchased"}, pub.subjects)
	assert.Equal(t, []string{"1"}, cache.deleted)
}

func TestFinalizeCheckout_Idempotent(t *testing.T) {
	repo := newFakeRepo(availablePet())
	mailer := &fakeMailer{}
	uc, _, pub := newCheckout(repo, &fakeGateway{}, mailer)

	require.NoError(t, uc.FinalizeCheckout(context.Background(), "1", "cs_test_123"))
	require.NoError(t, uc.FinalizeCheckout(context.Background(), "1", "cs_test_123"))

	assert.Len(t, repo.markedAt, 1, "purchasedAt must be written exactly once")
	assert.Len(t, mailer.customerMails, 1, "a replayed redirect must not resend mail")
	assert.Len(t, mailer.adminMails, 1)
	assert.Len(t, pub.subjects, 1)
}

func TestFinalizeCheckout_NotFound(t *testing.T) {
	uc, _, _ := newCheckout(newFakeRepo(), &fakeGateway{}, &fakeMailer{})
	assert.ErrorIs(t, uc.FinalizeCheckout(context.Background(), "missing", "cs_1"), domain.ErrPetNotFound)
}

func TestFinalizeCheckout_MailFailureSwallowed(t *testing.T) {
	repo := newFakeRepo(availablePet())
	mailer := &fakeMailer{err: assert.AnError}
	uc, _, _ := newCheckout(repo, &fakeGateway{}, mailer)

	require.NoError(t, uc.FinalizeCheckout(context.Background(), "1", "cs_test_123"))

	pet, _ := repo.FindByID(context.Background(), "1")
	assert.NotNil(t, pet.PurchasedAt, "a failed notification must not undo the purchase")
}

func TestFinalizeCheckout_SessionLookupFailureSkipsCustomerMail(t *testing.T) {
	repo := newFakeRepo(availablePet())
	mailer := &fakeMailer{}
	gw := &fakeGateway{getErr: assert.AnError}
	uc, _, _ := newCheckout(repo, gw, mailer)

	require.NoError(t, uc.FinalizeCheckout(context.Background(), "1", "cs_test_123"))
	assert.Empty(t, mailer.customerMails)
	assert.Len(t, mailer.adminMails, 1)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

// DefaultAmountCents is charged when a legacy listing predates the
// mandatory-price rule and carries no price.
const DefaultAmountCents int64 = 2000

var checkoutTracer = otel.Tracer("pet-store/checkout")

// CheckoutRequest describes the single line item of a hosted checkout.
type CheckoutRequest struct {
	PetID       string
	Name        string
	Description string
	AmountCents int64
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the gateway's opaque handle for one purchase attempt.
type CheckoutSession struct {
	ID            string
	CustomerEmail string
}

type PaymentGateway interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetSession(ctx context.Context, id string) (*CheckoutSession, error)
}

type Mailer interface {
	NotifyCustomer(email string, pet *domain.Pet) error
	NotifyAdmin(pet *domain.Pet, customerEmail string) error
}

type CheckoutUsecase struct {
	repo      domain.PetRepository
	gateway   PaymentGateway
	mailer    Mailer
	cache     domain.Cache
	publisher domain.Publisher
	baseURL   string
	logger    *zap.Logger
	now       func() time.Time
}

func NewCheckoutUsecase(
	repo domain.PetRepository,
	gateway PaymentGateway,
	mailer Mailer,
	cache domain.Cache,
	publisher domain.Publisher,
	baseURL string,
	logger *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		repo:      repo,
		gateway:   gateway,
		mailer:    mailer,
		cache:     cache,
		publisher: publisher,
		baseURL:   baseURL,
		logger:    logger,
		now:       time.Now,
	}
}

// InitiateCheckout opens a hosted checkout session for an available listing
// and returns the session ID for the client redirect.
func (uc *CheckoutUsecase) InitiateCheckout(ctx context.Context, petID string) (string, error) {
	ctx, span := checkoutTracer.Start(ctx, "checkout.initiate")
	defer span.End()
	span.SetAttributes(attribute.String("pet.id", petID))

	pet, err := uc.repo.FindByID(ctx, petID)
	if err != nil {
		return "", err
	}
	if pet.Purchased() {
		return "", domain.ErrAlreadyPurchased
	}

	amount := int64(math.Round(pet.Price * 100))
	if amount <= 0 {
		amount = DefaultAmountCents
	}

	session, err := uc.gateway.CreateSession(ctx, CheckoutRequest{
		PetID:       petID,
		Name:        fmt.Sprintf("%s (%s)", pet.Name, pet.Species),
		Description: pet.Description,
		AmountCents: amount,
		SuccessURL:  fmt.Sprintf("%s/pets/%s?success=true&session_id={CHECKOUT_SESSION_ID}", uc.baseURL, petID),
		CancelURL:   fmt.Sprintf("%s/pets/%s", uc.baseURL, petID),
	})
	if err != nil {
		uc.logger.Error("checkout session create failed", zap.String("pet_id", petID), zap.Error(err))
		return "", err
	}

	uc.logger.Info("checkout session created",
		zap.String("pet_id", petID),
		zap.String("session_id", session.ID))
	return session.ID, nil
}

// FinalizeCheckout durably marks the listing purchased and fans out the
// notifications. The success redirect that triggers it is unauthenticated
// and retried at will, so the purchase write is a single conditional update
// and a replay is a silent no-op: no second timestamp, no duplicate mail.
func (uc *CheckoutUsecase) FinalizeCheckout(ctx context.Context, petID, sessionID string) error {
	ctx, span := checkoutTracer.Start(ctx, "checkout.finalize")
	defer span.End()
	span.SetAttributes(
		attribute.String("pet.id", petID),
		attribute.String("checkout.session_id", sessionID),
	)

	pet, err := uc.repo.MarkPurchased(ctx, petID, uc.now())
	if errors.Is(err, domain.ErrAlreadyPurchased) {
		uc.logger.Info("finalize replayed, purchase already recorded", zap.String("pet_id", petID))
		return nil
	}
	if err != nil {
		return err
	}

	if err := uc.cache.DeletePet(ctx, petID); err != nil {
		uc.logger.Warn("pet cache invalidation failed", zap.String("pet_id", petID), zap.Error(err))
	}

	email := uc.customerEmail(ctx, sessionID)
	uc.notify(pet, email)

	if err := uc.publisher.Publish(ctx, "pets.purchased", pet); err != nil {
		uc.logger.Warn("event publish failed", zap.String("subject", "pets.purchased"), zap.Error(err))
	}

	uc.logger.Info("purchase finalized",
		zap.String("pet_id", petID),
		zap.String("session_id", sessionID))
	return nil
}

func (uc *CheckoutUsecase) customerEmail(ctx context.Context, sessionID string) string {
	if sessionID == "" {
		return ""
	}
	session, err := uc.gateway.GetSession(ctx, sessionID)
	if err != nil {
		uc.logger.Warn("checkout session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return ""
	}
	return session.CustomerEmail
}

// notify sends both purchase mails. The response to the purchaser is
// already committed, so failures are logged and swallowed.
func (uc *CheckoutUsecase) notify(pet *domain.Pet, email string) {
	if email != "" {
		if err := uc.mailer.NotifyCustomer(email, pet); err != nil {
			uc.logger.Error("customer notification failed", zap.String("pet_id", pet.ID), zap.Error(err))
		}
	}
	if err := uc.mailer.NotifyAdmin(pet, email); err != nil {
		uc.logger.Error("admin notification failed", zap.String("pet_id", pet.ID), zap.Error(err))
	}
}

package stripe

import (
	"context"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/petes-emporium/pet-store/internal/pet/usecase"
)

// Gateway drives Stripe's hosted checkout. The API client is constructed
// here and injected, never the package-level singleton.
type Gateway struct {
	api *client.API
}

func NewGateway(secretKey string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{api: api}
}

func (g *Gateway) CreateSession(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(req.SuccessURL),
		CancelURL:  stripeapi.String(req.CancelURL),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{{
			Quantity: stripeapi.Int64(1),
			PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripeapi.String(string(stripeapi.CurrencyUSD)),
				UnitAmount: stripeapi.Int64(req.AmountCents),
				ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripeapi.String(req.Name),
					Description: stripeapi.String(req.Description),
				},
			},
		}},
	}
	params.Context = ctx
	params.AddMetadata("pet_id", req.PetID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &usecase.CheckoutSession{ID: sess.ID}, nil
}

func (g *Gateway) GetSession(ctx context.Context, id string) (*usecase.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session %s: %w", id, err)
	}

	out := &usecase.CheckoutSession{ID: sess.ID}
	if sess.CustomerDetails != nil {
		out.CustomerEmail = sess.CustomerDetails.Email
	}
	if out.CustomerEmail == "" {
		out.CustomerEmail = sess.CustomerEmail
	}
	return out, nil
}

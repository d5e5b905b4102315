package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreateCheckoutSession opens a gateway payment for a pending booking.
// The booking number rides along as client reference so the webhook can
// find its way back.
func CreateCheckoutSession(bookingNumber string, amount int64, currency string) (string, string, error) {
	sc := GetStripeClient()
	params := stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(bookingNumber),
		SuccessURL:        stripe.String(os.Getenv("PAYMENT_SUCCESS_URL")),
		CancelURL:         stripe.String(os.Getenv("PAYMENT_CANCEL_URL")),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String("Ferry booking " + bookingNumber),
					},
				},
			},
		},
	}
	session, err := sc.V1CheckoutSessions.Create(context.Background(), &params)
	if err != nil {
		return "", "", err
	}
	return session.ID, session.URL, nil
}

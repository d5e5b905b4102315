package main

import (
	"encoding/json"
	"fbs/src/utils"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			bookingNumber := cs.ClientReferenceID
			if bookingNumber == "" {
				log.Printf("[Stripe] CheckoutSession %s has no client reference\n", cs.ID)
				break
			}
			amountPaid := float64(cs.AmountTotal) / 100
			if err := utils.CompleteBookingPayment(bookingNumber, cs.ID, amountPaid); err != nil {
				log.Printf("Error settling booking %s: %s\n", bookingNumber, err.Error())
			}
		case "checkout.session.expired":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			if cs.ClientReferenceID == "" {
				break
			}
			utils.ExpireBookingByNumber(cs.ClientReferenceID)
		default:
			log.Printf("[StripeEvent] ignoring %s\n", event.Type)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

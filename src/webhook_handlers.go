package main

import (
	"encoding/json"
	"errors"
	"hrc/src/middlewares"
	"hrc/src/types"
	"hrc/src/utils"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tidwall/gjson"
)

func webhookHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("", middlewares.VerifyCallbackToken, func(ctx *gin.Context) {
			payload, err := io.ReadAll(ctx.Request.Body)
			if err != nil {
				log.Printf("Error reading request body: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !gjson.ValidBytes(payload) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
				return
			}
			body := gjson.ParseBytes(payload)
			externalID := body.Get("external_id").String()
			if externalID == "" {
				externalID = body.Get("externalId").String()
			}
			status := body.Get("status").String()
			invoiceID := body.Get("id").String()
			log.Printf("[Webhook] payment %s status %s\n", externalID, status)

			booking, err := utils.HandlePaymentWebhook(externalID, status, invoiceID, time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"confirmed": booking != nil}})
		}).
		POST("/stripe", func(ctx *gin.Context) {
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
			case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
				var cs stripe.CheckoutSession
				if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
					log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
					ctx.Status(http.StatusBadRequest)
					return
				}
				if cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
					log.Printf("[Stripe] Session %s completed with payment status %s\n", cs.ID, cs.PaymentStatus)
					break
				}
				paymentID := cs.Metadata["paymentId"]
				if paymentID == "" {
					paymentID = cs.ClientReferenceID
				}
				if _, err := utils.HandlePaymentWebhook(paymentID, "paid", cs.ID, time.Now()); err != nil {
					if errors.Is(err, types.ErrNotFound) {
						// retries cannot help an unknown payment
						log.Printf("[Stripe] Session %s references unknown payment %s\n", cs.ID, paymentID)
						break
					}
					respondError(ctx, err)
					return
				}
			case stripe.EventTypeCheckoutSessionExpired, stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
				var cs stripe.CheckoutSession
				if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
					log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
					break
				}
				if err := utils.MarkPaymentFailed(cs.Metadata["paymentId"]); err != nil {
					log.Printf("[Stripe] Error marking payment %s as failed: %s\n", cs.Metadata["paymentId"], err.Error())
				}
			}
			ctx.Status(http.StatusOK)
		})
	return g
}

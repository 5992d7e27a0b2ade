package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"tutorhub/src/types"
	"tutorhub/src/utils"

	"github.com/gin-gonic/gin"
)

// paymentCallbackRoute is the gateway's shopper redirect target. It is
// registered outside the authorized group: the gateway calls it, not the
// user, and the merchant transaction id is the only correlation.
func paymentCallbackRoute(g *gin.Engine) {
	apiv1 := apiv1Group(g)
	apiv1.GET("/payments/callback", func(ctx *gin.Context) {
		var query types.PaymentCallbackQuery
		if err := ctx.ShouldBindQuery(&query); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resultURL := os.Getenv("PAYMENT_RESULT_URL")
		booking, err := utils.HandlePaymentCallback(ctx, query.ResourcePath)
		if err != nil {
			var decline *types.GatewayDeclineError
			if errors.As(err, &decline) {
				ctx.Redirect(http.StatusFound, fmt.Sprintf("%s?status=failed&reason=%s", resultURL, url.QueryEscape(decline.Description)))
				return
			}
			ctx.Redirect(http.StatusFound, fmt.Sprintf("%s?status=error", resultURL))
			return
		}
		ctx.Redirect(http.StatusFound, fmt.Sprintf("%s?status=paid&reference=%s", resultURL, booking.BookingReference))
	})
}

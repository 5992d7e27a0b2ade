package main

import (
	"errors"
	"log"
	"net/http"
	"tutorhub/src/types"
	"tutorhub/src/utils"

	"github.com/gin-gonic/gin"
)

// statusForError maps domain errors onto response codes. Gateway declines
// carry the provider's description through verbatim.
func statusForError(err error) (int, string) {
	var decline *types.GatewayDeclineError
	switch {
	case errors.Is(err, types.ErrSlotUnavailable):
		return http.StatusConflict, err.Error()
	case errors.Is(err, types.ErrSelfBooking):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, types.ErrBookingNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, types.ErrRefundIneligible):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, types.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, types.ErrGatewayUnavailable):
		return http.StatusBadGateway, err.Error()
	case errors.As(err, &decline):
		return http.StatusPaymentRequired, decline.Description
	default:
		return http.StatusUnprocessableEntity, err.Error()
	}
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			bookings, err := utils.GetOwnBookings(userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			booking, err := utils.GetBooking(params.ID)
			if err != nil {
				status, msg := statusForError(err)
				ctx.JSON(status, gin.H{"error": msg})
				return
			}
			if booking.StudentID != userId && booking.TeacherID != userId {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := utils.CreateBooking(&body, userId)
			if err != nil {
				status, msg := statusForError(err)
				ctx.JSON(status, gin.H{"error": msg})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		POST("/bookings/:id/pay", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.PayBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			result, err := utils.InitiatePayment(ctx, params.ID, userId, &body)
			if err != nil {
				status, msg := statusForError(err)
				ctx.JSON(status, gin.H{"error": msg})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"checkout_id":  result.CheckoutID,
				"redirect_url": result.RedirectURL,
			}})
		}).
		GET("/bookings/:id/payment/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.PaymentStatusQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := utils.HandlePaymentPoll(ctx, query.CheckoutID)
			if err != nil {
				var decline *types.GatewayDeclineError
				if errors.As(err, &decline) {
					ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
						"status":      "failed",
						"code":        decline.Code,
						"description": decline.Description,
					}})
					return
				}
				status, msg := statusForError(err)
				ctx.JSON(status, gin.H{"error": msg})
				return
			}
			if booking.ID != params.ID {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"status":  "paid",
				"booking": booking,
			}})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Reason is optional; an empty body is fine.
			var body types.CancelBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("cancel body: %v\n", err)
			}
			userId := ctx.GetUint("id")
			booking, err := utils.CancelBooking(params.ID, userId, body.Reason)
			if err != nil {
				status, msg := statusForError(err)
				ctx.JSON(status, gin.H{"error": msg})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"booking":           booking,
				"refund_percentage": booking.RefundPercentage,
				"refund_amount":     booking.RefundAmount,
			}})
		})
	return g
}

package utils

import (
	"context"
	"log"
	"strings"
	"time"
	"tutorhub/src/db"
	"tutorhub/src/lib"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"gorm.io/gorm"
)

// CreateBooking reserves the requested slot and opens a pending booking.
func CreateBooking(params *types.CreateBookingRequestBody, studentId uint) (*models.Booking, error) {
	booking, err := CreatePendingBooking(params, studentId)
	if err != nil {
		return nil, err
	}
	log.Printf("Created Booking[%d] ref=%s for student %d\n", booking.ID, booking.BookingReference, studentId)
	return booking, nil
}

// InitiatePayment opens a gateway checkout for a pending booking and persists
// the correlation fields the asynchronous result will be matched on.
func InitiatePayment(ctx context.Context, bookingId uint, studentId uint, params *types.PayBookingRequestBody) (*lib.CheckoutResult, error) {
	booking, err := GetBooking(bookingId)
	if err != nil {
		return nil, err
	}
	if booking.StudentID != studentId {
		return nil, types.ErrBookingNotFound
	}
	if booking.Status != types.BOOKING_PENDING_PAYMENT {
		return nil, types.ErrInvalidTransition
	}
	var student models.User
	gdb := db.GetDb()
	if err := gdb.Where(&models.User{ID: studentId}).First(&student).Error; err != nil {
		return nil, err
	}

	brand := types.BRAND_VISA
	var card *lib.CheckoutCard
	if params.Card != nil {
		brand = lib.DetectCardBrand(params.Card.Number)
		card = &lib.CheckoutCard{
			Number:      params.Card.Number,
			Holder:      params.Card.Holder,
			ExpiryMonth: params.Card.ExpiryMonth,
			ExpiryYear:  params.Card.ExpiryYear,
			CVV:         params.Card.CVV,
		}
	} else if booking.Payment != nil && booking.Payment.PaymentMethod != "" {
		brand = booking.Payment.PaymentMethod
	}

	merchantTxnId := lib.NewMerchantTransactionID(booking.ID)
	givenName, surname := splitName(student.Name)
	payload := lib.CheckoutPayload{
		Amount:                booking.TotalAmount,
		Currency:              booking.Currency,
		MerchantTransactionID: merchantTxnId,
		PaymentBrand:          brand,
		Customer: lib.CheckoutCustomer{
			Email:     student.Email,
			GivenName: givenName,
			Surname:   surname,
		},
		Card:               card,
		RegistrationID:     params.RegistrationID,
		CreateRegistration: params.SaveCard,
	}

	gateway := lib.GetGatewayClient()
	result, err := gateway.CreateCheckout(ctx, &payload)
	if err != nil {
		return nil, err
	}
	if result.CheckoutID == "" {
		if err := MarkBookingFailed(booking.ID, result.ResultDescription); err != nil {
			log.Printf("Error recording failed checkout for Booking[%d]: %s\n", booking.ID, err.Error())
		}
		return nil, &types.GatewayDeclineError{Code: result.ResultCode, Description: result.ResultDescription}
	}

	err = gdb.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Payment{}).
			Where(&models.Payment{BookingID: booking.ID}).
			Updates(map[string]any{
				"transaction_reference": merchantTxnId,
				"gateway_reference":     result.CheckoutID,
				"payment_method":        brand,
				"status":                types.PAYMENT_PENDING,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Opened checkout %s for Booking[%d]\n", result.CheckoutID, booking.ID)
	return result, nil
}

// HandlePaymentResult is the single convergence point for the two result
// paths: the client-driven status poll and the gateway's shopper redirect.
// Both hand over a StatusResult and both are safe to land in any order.
func HandlePaymentResult(status *lib.StatusResult) (*models.Booking, error) {
	bookingId, ok := lib.BookingIDFromMerchantTxn(status.MerchantTransactionID)
	if !ok {
		log.Printf("Could not correlate merchantTransactionId %q\n", status.MerchantTransactionID)
		return nil, types.ErrBookingNotFound
	}
	if !lib.IsSuccessCode(status.ResultCode) {
		if err := MarkBookingFailed(bookingId, status.ResultDescription); err != nil {
			return nil, err
		}
		return nil, &types.GatewayDeclineError{Code: status.ResultCode, Description: status.ResultDescription}
	}
	sessions, err := MarkBookingPaid(bookingId, status)
	if err != nil {
		return nil, err
	}
	booking, err := GetBooking(bookingId)
	if err != nil {
		return nil, err
	}
	// Meeting scheduling is decoupled from the confirmation transaction. A
	// duplicate delivery gets an empty session list and schedules nothing new.
	if len(sessions) > 0 {
		ScheduleMeetingJobs(sessions)
		go NotifyBookingConfirmed(booking)
	}
	return booking, nil
}

// HandlePaymentPoll resolves a checkout id the client saved when it opened
// the payment widget.
func HandlePaymentPoll(ctx context.Context, checkoutId string) (*models.Booking, error) {
	gateway := lib.GetGatewayClient()
	status, err := gateway.GetCheckoutStatus(ctx, checkoutId)
	if err != nil {
		return nil, err
	}
	return HandlePaymentResult(status)
}

// HandlePaymentCallback resolves the resourcePath the gateway appends to the
// shopper redirect.
func HandlePaymentCallback(ctx context.Context, resourcePath string) (*models.Booking, error) {
	gateway := lib.GetGatewayClient()
	status, err := gateway.GetStatusByResourcePath(ctx, resourcePath)
	if err != nil {
		return nil, err
	}
	return HandlePaymentResult(status)
}

// CancelBooking applies the cancellation gate and refund schedule, then
// notifies both parties.
func CancelBooking(bookingId uint, actorId uint, reason string) (*models.Booking, error) {
	booking, err := GetBooking(bookingId)
	if err != nil {
		return nil, err
	}
	if booking.StudentID != actorId && booking.TeacherID != actorId {
		return nil, types.ErrBookingNotFound
	}
	cancelled, err := CancelConfirmedBooking(bookingId, actorId, reason, time.Now())
	if err != nil {
		return nil, err
	}
	if cancelled.RefundAmount > 0 {
		go triggerGatewayRefund(cancelled)
	}
	go NotifyBookingCancelled(cancelled)
	return cancelled, nil
}

// triggerGatewayRefund submits the refund against the gateway reference of
// the original debit. Failures are logged and left for the payments team to
// retry from the refund_status field; the cancellation itself already stands.
func triggerGatewayRefund(booking *models.Booking) {
	gdb := db.GetDb()
	var payment models.Payment
	if err := gdb.Where(&models.Payment{BookingID: booking.ID}).First(&payment).Error; err != nil {
		log.Printf("No payment row for Booking[%d], skipping refund call: %s\n", booking.ID, err.Error())
		return
	}
	if payment.GatewayReference == "" {
		log.Printf("Booking[%d] has no gateway reference, refund stays manual\n", booking.ID)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	gateway := lib.GetGatewayClient()
	result, err := gateway.RefundPayment(ctx, payment.GatewayReference, booking.RefundAmount, booking.Currency)
	if err != nil {
		log.Printf("Refund call for Booking[%d] failed: %s\n", booking.ID, err.Error())
		return
	}
	if !lib.IsSuccessCode(result.ResultCode) {
		log.Printf("Refund for Booking[%d] rejected: %s %s\n", booking.ID, result.ResultCode, result.ResultDescription)
		return
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Payment{}).
			Where(&models.Payment{ID: payment.ID}).
			Update("refund_status", "submitted").
			Error
	})
	if err != nil {
		log.Printf("Could not record submitted refund for Booking[%d]: %s\n", booking.ID, err.Error())
	}
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

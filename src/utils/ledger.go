package utils

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"tutorhub/src/config"
	"tutorhub/src/db"
	"tutorhub/src/lib"
	"tutorhub/src/models"
	"tutorhub/src/models/scopes"
	"tutorhub/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewBookingReference() string {
	return fmt.Sprintf("TH-%s", strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10]))
}

// CreatePendingBooking reserves the slot and creates the booking and its
// payment row in one transaction. The slot row stays exclusively locked until
// commit, so two students racing for the same slot cannot both get it.
func CreatePendingBooking(params *types.CreateBookingRequestBody, studentId uint) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		slot, err := LockSlot(tx, params.SlotID)
		if err != nil {
			return err
		}
		if slot.TeacherID == studentId {
			return types.ErrSelfBooking
		}
		var teacher models.User
		if err := tx.Where(&models.User{ID: slot.TeacherID}).First(&teacher).Error; err != nil {
			return err
		}
		lessonType := types.LessonType(params.LessonType)
		sessionType := types.SessionKind(params.SessionType)
		sessionsCount := params.SessionsCount
		if sessionType == types.SESSION_SINGLE || sessionsCount == 0 {
			sessionsCount = 1
		}
		totalAmount := TotalAmountFor(&teacher, slot, lessonType, sessionsCount)

		booking = models.Booking{
			StudentID:        studentId,
			TeacherID:        slot.TeacherID,
			CourseID:         slot.CourseID,
			SlotID:           slot.ID,
			LessonType:       lessonType,
			SessionType:      sessionType,
			FirstSessionDate: slot.Date,
			StartTime:        slot.StartTime,
			EndTime:          slot.EndTime,
			Duration:         slot.DurationHours(),
			SessionsCount:    sessionsCount,
			TotalAmount:      totalAmount,
			Currency:         config.DefaultCurrency(),
			Status:           types.BOOKING_PENDING_PAYMENT,
			BookingReference: NewBookingReference(),
		}
		if err := tx.Create(&booking).Error; err != nil {
			log.Printf("error in Booking transaction: %s\n", err.Error())
			return err
		}
		payment := models.Payment{
			BookingID: booking.ID,
			Amount:    totalAmount,
			Currency:  booking.Currency,
			Status:    types.PAYMENT_PENDING,
		}
		if err := tx.Create(&payment).Error; err != nil {
			log.Printf("error in Payment transaction: %s\n", err.Error())
			return err
		}
		booking.Payment = &payment
		if err := ReserveSlot(tx, slot, booking.ID); err != nil {
			return err
		}
		booking.Slot = slot
		return nil
	})
	if err != nil {
		log.Printf("CreatePendingBooking failed: %s\n", err.Error())
		return nil, err
	}
	return &booking, nil
}

func GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	db := db.GetDb()
	err := db.
		Preload("Payment").
		Preload("Slot").
		Preload("Sess").
		Where(&models.Booking{ID: id}).
		First(&booking).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func GetOwnBookings(studentId uint) ([]models.Booking, error) {
	var bookings []models.Booking
	db := db.GetDb()
	err := db.
		Preload("Payment").
		Preload("Slot").
		Where(&models.Booking{StudentID: studentId}).
		Order("created_at DESC").
		Find(&bookings).
		Error
	return bookings, err
}

// MarkBookingPaid transitions a booking to confirmed and provisions its
// sessions in the same transaction. The status guard under the row lock makes
// the call idempotent: the poll path and the redirect callback race by
// design, and whichever lands second sees confirmed and returns without side
// effects.
func MarkBookingPaid(bookingId uint, result *lib.StatusResult) ([]models.Session, error) {
	db := db.GetDb()
	var sessions []models.Session
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: bookingId}).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrBookingNotFound
			}
			return err
		}
		if booking.Status == types.BOOKING_CONFIRMED {
			log.Printf("Booking[%d] already confirmed, skipping\n", bookingId)
			return nil
		}
		if booking.Status != types.BOOKING_PENDING_PAYMENT {
			return types.ErrInvalidTransition
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Update("status", types.BOOKING_CONFIRMED).
			Error; err != nil {
			log.Printf("Booking status update did not complete successfully: %s\n", err.Error())
			return err
		}
		now := time.Now()
		paymentUpdates := map[string]any{
			"status":  types.PAYMENT_PAID,
			"paid_at": now,
		}
		if result != nil {
			if result.Raw != nil {
				paymentUpdates["gateway_response"] = &result.Raw
			}
			if result.RegistrationID != "" {
				paymentUpdates["registration_id"] = result.RegistrationID
			}
		}
		if err := tx.
			Model(&models.Payment{}).
			Where(&models.Payment{BookingID: bookingId}).
			Updates(paymentUpdates).
			Error; err != nil {
			log.Printf("Payment update failed: %s\n", err.Error())
			return err
		}
		booking.Status = types.BOOKING_CONFIRMED
		provisioned, err := ProvisionSessions(tx, &booking)
		if err != nil {
			return err
		}
		sessions = provisioned
		return nil
	})
	if err != nil {
		log.Printf("Error on transaction: %s\n", err.Error())
		return nil, err
	}
	return sessions, nil
}

// MarkBookingFailed records a declined or errored payment attempt. The
// booking stays pending_payment so the student can retry.
func MarkBookingFailed(bookingId uint, reason string) error {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Where(&models.Booking{ID: bookingId}).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrBookingNotFound
			}
			return err
		}
		if booking.Status != types.BOOKING_PENDING_PAYMENT {
			log.Printf("Booking[%d] is %s, leaving payment state alone\n", bookingId, booking.Status)
			return nil
		}
		if err := tx.
			Model(&models.Payment{}).
			Where(&models.Payment{BookingID: bookingId}).
			Updates(map[string]any{
				"status":        types.PAYMENT_FAILED,
				"refund_status": "",
			}).Error; err != nil {
			return err
		}
		log.Printf("Booking[%d] payment failed: %s\n", bookingId, reason)
		return nil
	})
	return err
}

// CancelConfirmedBooking runs the cancellation transaction: gate check,
// refund computation, session cascade and slot release. The gateway refund
// call happens after commit; refund_status tracks its progress.
func CancelConfirmedBooking(bookingId uint, actorId uint, reason string, now time.Time) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: bookingId}).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrBookingNotFound
			}
			return err
		}
		if err := CanCancelBooking(&booking, now); err != nil {
			return err
		}
		percentage, amount := RefundFor(now, booking.FirstSessionStart(), booking.TotalAmount)
		if booking.Status == types.BOOKING_PENDING_PAYMENT {
			// Nothing was charged yet, nothing to refund.
			percentage, amount = 0, 0
		}
		cancellationReason := reason
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Updates(map[string]any{
				"status":              types.BOOKING_CANCELLED,
				"cancellation_reason": cancellationReason,
				"refund_amount":       amount,
				"refund_percentage":   percentage,
			}).Error; err != nil {
			return err
		}
		if amount > 0 {
			if err := tx.
				Model(&models.Payment{}).
				Where(&models.Payment{BookingID: bookingId, Status: types.PAYMENT_PAID}).
				Updates(map[string]any{
					"status":        types.PAYMENT_REFUNDED,
					"refund_amount": amount,
					"refund_status": "pending",
				}).Error; err != nil {
				return err
			}
		}
		if err := tx.
			Model(&models.Session{}).
			Where(&models.Session{BookingID: bookingId}).
			Scopes(scopes.WithScheduledSessions).
			Update("status", types.SESSION_CANCELLED).
			Error; err != nil {
			return err
		}
		if err := ReleaseSlot(tx, booking.SlotID); err != nil {
			return err
		}
		booking.Status = types.BOOKING_CANCELLED
		booking.RefundAmount = amount
		booking.RefundPercentage = percentage
		booking.CancellationReason = &cancellationReason
		return nil
	})
	if err != nil {
		log.Printf("CancelConfirmedBooking failed: %s\n", err.Error())
		return nil, err
	}
	log.Printf("Cancelled Booking[%d] by user %d, refund %d%%\n", bookingId, actorId, booking.RefundPercentage)
	return &booking, nil
}

package common

import (
	"log"
	"time"
	"tutorhub/src/db"
	"tutorhub/src/models"
	"tutorhub/src/models/scopes"
	"tutorhub/src/types"
	"tutorhub/src/utils"

	"gorm.io/gorm"
)

// PendingPaymentTTL is how long an unpaid booking may hold its slot.
const PendingPaymentTTL = 1 * time.Hour

// SweepStalePendingBookings cancels unpaid bookings past their TTL and frees
// their slots for other students. Runs on a recurring schedule.
func SweepStalePendingBookings() {
	db := db.GetDb()
	cutoff := time.Now().Add(-PendingPaymentTTL)
	var stale []models.Booking
	err := db.
		Scopes(scopes.WithPendingPayment).
		Where("created_at < ?", cutoff).
		Limit(100).
		Find(&stale).
		Error
	if err != nil {
		log.Printf("Error retrieving stale bookings: %s\n", err.Error())
		return
	}
	if len(stale) == 0 {
		return
	}
	log.Printf("Found %d stale pending bookings\n", len(stale))
	for _, booking := range stale {
		bookingId := booking.ID
		slotId := booking.SlotID
		err := db.Transaction(func(tx *gorm.DB) error {
			// Re-check under the transaction; a payment may have landed since
			// the sweep query ran.
			var current models.Booking
			if err := tx.Scopes(scopes.WithID(bookingId), scopes.WithPendingPayment).First(&current).Error; err != nil {
				return nil
			}
			reason := "payment window expired"
			if err := tx.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: bookingId}).
				Updates(map[string]any{
					"status":              types.BOOKING_CANCELLED,
					"cancellation_reason": reason,
				}).Error; err != nil {
				return err
			}
			return utils.ReleaseSlot(tx, slotId)
		})
		if err != nil {
			log.Printf("Error expiring Booking[%d]: %s\n", bookingId, err.Error())
			continue
		}
		log.Printf("Expired Booking[%d], released slot %d\n", bookingId, slotId)
	}
}

package utils

import (
	"errors"
	"log"
	"time"
	"tutorhub/src/config"
	"tutorhub/src/db"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockSlot takes the slot row under an exclusive lock inside the caller's
// transaction. Concurrent reservation attempts on the same slot serialize on
// the lock; the loser sees the booked flag and gets ErrSlotUnavailable
// instead of a lost update.
func LockSlot(tx *gorm.DB, slotID uint) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	if err := tx.
		Clauses(clause.Locking{
			Strength: "UPDATE",
			Table:    clause.Table{Name: clause.CurrentTable},
		}).
		Where(&models.AvailabilitySlot{ID: slotID}).
		First(&slot).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrSlotUnavailable
		}
		return nil, err
	}
	if !slot.IsAvailable || slot.IsBooked {
		return nil, types.ErrSlotUnavailable
	}
	return &slot, nil
}

// ReserveSlot binds an already locked slot to a booking.
func ReserveSlot(tx *gorm.DB, slot *models.AvailabilitySlot, bookingID uint) error {
	if err := tx.
		Model(&models.AvailabilitySlot{}).
		Where(&models.AvailabilitySlot{ID: slot.ID}).
		Updates(map[string]any{
			"is_available": false,
			"is_booked":    true,
			"booking_id":   bookingID,
		}).Error; err != nil {
		log.Printf("Failed to reserve slot %d: %s\n", slot.ID, err.Error())
		return err
	}
	slot.IsAvailable = false
	slot.IsBooked = true
	slot.BookingID = &bookingID
	return nil
}

// ReleaseSlot frees a slot after a cancellation so it can be booked again.
func ReleaseSlot(tx *gorm.DB, slotID uint) error {
	if err := tx.
		Model(&models.AvailabilitySlot{}).
		Where(&models.AvailabilitySlot{ID: slotID}).
		Updates(map[string]any{
			"is_available": true,
			"is_booked":    false,
			"booking_id":   nil,
		}).Error; err != nil {
		log.Printf("Failed to release slot %d: %s\n", slotID, err.Error())
		return err
	}
	return nil
}

// CreateNewSlot publishes an availability window for a teacher.
func CreateNewSlot(params *types.CreateSlotRequestBody, teacherId uint) (uint, error) {
	db := db.GetDb()
	var slotId uint
	err := db.Transaction(func(tx *gorm.DB) error {
		date, err := time.Parse(config.DATE_PARSE_FORMAT, params.Date)
		if err != nil {
			return err
		}
		slot := models.AvailabilitySlot{
			TeacherID:   teacherId,
			CourseID:    params.CourseID,
			Date:        date,
			StartTime:   params.StartTime,
			EndTime:     params.EndTime,
			Price:       params.Price,
			IsAvailable: true,
		}
		if err := tx.Create(&slot).Error; err != nil {
			log.Printf("error in AvailabilitySlot transaction: %s\n", err.Error())
			return err
		}
		slotId = slot.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return slotId, nil
}

func GetSlot(id uint) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	db := db.GetDb()
	if err := db.Preload("Teacher").Preload("Course").Where(&models.AvailabilitySlot{ID: id}).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListSlots returns open slots, optionally narrowed by teacher and date.
func ListSlots(filters *types.SlotQueryFilters) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	db := db.GetDb()
	q := db.Where(&models.AvailabilitySlot{IsAvailable: true})
	if filters.TeacherID != 0 {
		q = q.Where(&models.AvailabilitySlot{TeacherID: filters.TeacherID})
	}
	if filters.Date != "" {
		q = q.Where("date = ?", filters.Date)
	}
	if filters.Available == nil || *filters.Available {
		q = q.Where("is_booked = ?", false)
	}
	err := q.Order("date, start_time").Find(&slots).Error
	return slots, err
}

package utils

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"
	"tutorhub/src/db"
	"tutorhub/src/lib"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const WalletCreditsTopic = "WalletCredits"

func getSession(tx *gorm.DB, id uint, forUpdate bool) (*models.Session, error) {
	var session models.Session
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{
			Strength: "UPDATE",
			Table:    clause.Table{Name: clause.CurrentTable},
		})
	}
	if err := q.Where(&models.Session{ID: id}).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func GetSession(id uint) (*models.Session, error) {
	gdb := db.GetDb()
	var session models.Session
	err := gdb.Preload("Booking").Where(&models.Session{ID: id}).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func GetSessionsForUser(userId uint) ([]models.Session, error) {
	gdb := db.GetDb()
	var sessions []models.Session
	err := gdb.
		Where("student_id = ? OR teacher_id = ?", userId, userId).
		Order("session_date, start_time").
		Find(&sessions).
		Error
	return sessions, err
}

// StartSession moves a scheduled session into progress and rolls the booking
// forward on its first running session.
func StartSession(sessionId uint, actorId uint) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionId, true)
		if err != nil {
			return err
		}
		if session.TeacherID != actorId {
			return errors.New("only the teacher can start a session")
		}
		if session.Status != types.SESSION_SCHEDULED {
			return types.ErrInvalidTransition
		}
		now := time.Now()
		if err := tx.
			Model(&models.Session{}).
			Where(&models.Session{ID: sessionId}).
			Updates(map[string]any{
				"status":     types.SESSION_IN_PROGRESS,
				"started_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: session.BookingID, Status: types.BOOKING_CONFIRMED}).
			Update("status", types.BOOKING_IN_PROGRESS).
			Error
	})
}

// CompleteSession finishes a running session, rolls up the booking counters
// and triggers the teacher's wallet credit for the finished lesson.
func CompleteSession(sessionId uint, actorId uint) error {
	gdb := db.GetDb()
	var credit *walletCredit
	err := gdb.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionId, true)
		if err != nil {
			return err
		}
		if session.TeacherID != actorId {
			return errors.New("only the teacher can complete a session")
		}
		if session.Status != types.SESSION_IN_PROGRESS {
			return types.ErrInvalidTransition
		}
		now := time.Now()
		if err := tx.
			Model(&models.Session{}).
			Where(&models.Session{ID: sessionId}).
			Updates(map[string]any{
				"status":   types.SESSION_COMPLETED,
				"ended_at": now,
			}).Error; err != nil {
			return err
		}
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: session.BookingID}).
			First(&booking).
			Error; err != nil {
			return err
		}
		completed := booking.SessionsCompleted + 1
		updates := map[string]any{"sessions_completed": completed}
		if completed >= booking.SessionsCount {
			updates["status"] = types.BOOKING_COMPLETED
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID}).
			Updates(updates).
			Error; err != nil {
			return err
		}
		amount := booking.TotalAmount
		if booking.SessionsCount > 0 {
			amount = booking.TotalAmount / float64(booking.SessionsCount)
		}
		credit = &walletCredit{
			TeacherID: booking.TeacherID,
			BookingID: booking.ID,
			SessionID: sessionId,
			Amount:    amount,
			Currency:  booking.Currency,
		}
		return nil
	})
	if err != nil {
		return err
	}
	go credit.publish()
	return nil
}

// CancelSession cancels a single scheduled session without touching the
// booking totals.
func CancelSession(sessionId uint, actorId uint) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionId, true)
		if err != nil {
			return err
		}
		if session.TeacherID != actorId && session.StudentID != actorId {
			return errors.New("not a participant of this session")
		}
		if session.Status != types.SESSION_SCHEDULED {
			return types.ErrInvalidTransition
		}
		return tx.
			Model(&models.Session{}).
			Where(&models.Session{ID: sessionId}).
			Update("status", types.SESSION_CANCELLED).
			Error
	})
}

// MarkSessionNoShow is the teacher's terminal for a student who never joined.
func MarkSessionNoShow(sessionId uint, actorId uint) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionId, true)
		if err != nil {
			return err
		}
		if session.TeacherID != actorId {
			return errors.New("only the teacher can mark a no-show")
		}
		if session.Status != types.SESSION_SCHEDULED && session.Status != types.SESSION_IN_PROGRESS {
			return types.ErrInvalidTransition
		}
		return tx.
			Model(&models.Session{}).
			Where(&models.Session{ID: sessionId}).
			Update("status", types.SESSION_NO_SHOW).
			Error
	})
}

// RateSession stores a participant's 1-5 rating after the fact.
func RateSession(sessionId uint, actorId uint, rating uint8) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionId, false)
		if err != nil {
			return err
		}
		if session.Status != types.SESSION_COMPLETED {
			return errors.New("only completed sessions can be rated")
		}
		var column string
		switch actorId {
		case session.StudentID:
			column = "student_rating"
		case session.TeacherID:
			column = "teacher_rating"
		default:
			return errors.New("not a participant of this session")
		}
		return tx.
			Model(&models.Session{}).
			Where(&models.Session{ID: sessionId}).
			Update(column, rating).
			Error
	})
}

type walletCredit struct {
	TeacherID uint    `json:"teacher_id"`
	BookingID uint    `json:"booking_id"`
	SessionID uint    `json:"session_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

func (w *walletCredit) publish() {
	topic := lib.WithSuffix(WalletCreditsTopic)
	if os.Getenv("API_ENV") == string(types.Local) {
		payload := map[string]any{
			"teacher_id": w.TeacherID,
			"booking_id": w.BookingID,
			"session_id": w.SessionID,
			"amount":     w.Amount,
			"currency":   w.Currency,
		}
		if err := lib.KafkaProduceMessage("WalletCreditsProducer", topic, payload); err != nil {
			log.Printf("Error publishing wallet credit for booking %d: %s\n", w.BookingID, err.Error())
		}
		return
	}
	body, err := json.Marshal(w)
	if err != nil {
		log.Printf("Error encoding wallet credit: %s\n", err.Error())
		return
	}
	if err := lib.SQSProduceMessage(topic, string(body)); err != nil {
		log.Printf("Error publishing wallet credit for booking %d: %s\n", w.BookingID, err.Error())
	}
}

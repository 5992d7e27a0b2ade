package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"tutorhub/src/db"
	"tutorhub/src/lib"
	"tutorhub/src/lib/mailer"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"firebase.google.com/go/v4/messaging"
	"gorm.io/gorm"
)

// NotificationSender dispatches a user-facing notification over whatever
// channels the implementation owns. Delivery mechanics live behind this
// interface.
type NotificationSender interface {
	Send(ctx context.Context, user *models.User, title string, body string, data map[string]string) error
}

var notificationSender NotificationSender

func GetNotificationSender() NotificationSender {
	if notificationSender != nil {
		return notificationSender
	}
	notificationSender = &multiChannelSender{}
	return notificationSender
}

// NewNotificationSender Replace sender instance with custom implementation
func NewNotificationSender(s NotificationSender) NotificationSender {
	notificationSender = s
	return notificationSender
}

// multiChannelSender pushes over FCM and queues a templated email.
type multiChannelSender struct{}

func (m *multiChannelSender) Send(ctx context.Context, user *models.User, title string, body string, data map[string]string) error {
	fcm, err := lib.GetFirebaseMessaging()
	if err != nil {
		return err
	}
	payload := map[string]string{
		"title": title,
		"body":  body,
	}
	for k, v := range data {
		payload[k] = v
	}
	res, err := fcm.Send(ctx, &messaging.Message{
		Topic: fmt.Sprintf("users_%d", user.ID),
		Data:  payload,
	})
	if err != nil {
		return err
	}
	log.Printf("[FCM] notification sent to user %d: %s", user.ID, res)
	return mailer.NewMailerMessage(&lib.SendMailInput{
		From:     os.Getenv("EMAIL_FROM"),
		FromName: os.Getenv("EMAIL_FROM_NAME"),
		To:       []string{user.Email},
		Subject:  title,
		Body:     body,
		Html:     true,
	})
}

// CreateNotificationRecord persists the in-app notification row.
func CreateNotificationRecord(userId uint, ntype string, title string, body string, referenceId string, data *types.JSONB) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		n := models.Notification{
			UserID:      userId,
			Type:        ntype,
			Title:       title,
			Body:        body,
			Data:        data,
			ReferenceID: referenceId,
		}
		return tx.Create(&n).Error
	})
}

func GetOwnNotifications(userId uint) ([]models.Notification, error) {
	var notifications []models.Notification
	gdb := db.GetDb()
	err := gdb.
		Where(&models.Notification{UserID: userId}).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).
		Error
	return notifications, err
}

// dispatchToUser records the notification and sends it. If the rich dispatch
// fails for any reason, a single plain email goes out instead so the user is
// never left uninformed.
func dispatchToUser(userId uint, ntype string, title string, body string, referenceId string, data map[string]string) {
	gdb := db.GetDb()
	var user models.User
	if err := gdb.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
		log.Printf("Could not load user %d for notification: %s\n", userId, err.Error())
		return
	}
	jsonData := types.JSONB{}
	for k, v := range data {
		jsonData[k] = v
	}
	if err := CreateNotificationRecord(userId, ntype, title, body, referenceId, &jsonData); err != nil {
		log.Printf("Could not create notification record for user %d: %s\n", userId, err.Error())
	}
	if notificationsMuted(userId) {
		log.Printf("User %d muted notifications, record only\n", userId)
		return
	}
	sender := GetNotificationSender()
	if err := sender.Send(context.Background(), &user, title, body, data); err != nil {
		log.Printf("Notification dispatch failed for user %d, falling back to plain email: %s\n", userId, err.Error())
		if err := lib.SendMail(&lib.SendMailInput{
			From:     os.Getenv("EMAIL_FROM"),
			FromName: os.Getenv("EMAIL_FROM_NAME"),
			To:       []string{user.Email},
			Subject:  title,
			Body:     body,
		}); err != nil {
			log.Printf("Fallback email failed for user %d: %s\n", userId, err.Error())
		}
	}
}

func NotifyBookingConfirmed(booking *models.Booking) {
	title := "Booking confirmed"
	body := fmt.Sprintf("Your booking %s is confirmed. %d session(s) scheduled.", booking.BookingReference, booking.SessionsCount)
	data := map[string]string{
		"booking_id": fmt.Sprint(booking.ID),
		"reference":  booking.BookingReference,
	}
	dispatchToUser(booking.StudentID, "booking_confirmed", title, body, booking.BookingReference, data)
	teacherBody := fmt.Sprintf("Booking %s has been paid. %d session(s) scheduled.", booking.BookingReference, booking.SessionsCount)
	dispatchToUser(booking.TeacherID, "booking_confirmed", title, teacherBody, booking.BookingReference, data)
}

func NotifyBookingCancelled(booking *models.Booking) {
	title := "Booking cancelled"
	body := fmt.Sprintf("Booking %s was cancelled. Refund: %d%%.", booking.BookingReference, booking.RefundPercentage)
	data := map[string]string{
		"booking_id": fmt.Sprint(booking.ID),
		"reference":  booking.BookingReference,
	}
	dispatchToUser(booking.StudentID, "booking_cancelled", title, body, booking.BookingReference, data)
	dispatchToUser(booking.TeacherID, "booking_cancelled", title, body, booking.BookingReference, data)
}

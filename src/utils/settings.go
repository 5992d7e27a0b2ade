package utils

import (
	"errors"
	"tutorhub/src/db"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertSetting writes a user preference, replacing any previous value for
// the same key.
func UpsertSetting(userId uint, params *types.CreateSettingRequestBody) (*models.Setting, error) {
	gdb := db.GetDb()
	setting := models.Setting{
		UserID:       userId,
		SettingKey:   params.Key,
		SettingValue: params.Value,
		Group:        params.Group,
	}
	err := gdb.Transaction(func(tx *gorm.DB) error {
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "setting_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"setting_value", "group"}),
			}).
			Create(&setting).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func GetOwnSettings(userId uint) ([]models.Setting, error) {
	gdb := db.GetDb()
	var settings []models.Setting
	err := gdb.Where(&models.Setting{UserID: userId}).Find(&settings).Error
	return settings, err
}

// GetUserSetting returns nil without error when the key was never set.
func GetUserSetting(userId uint, key string) (*models.Setting, error) {
	gdb := db.GetDb()
	var setting models.Setting
	err := gdb.Where(&models.Setting{UserID: userId, SettingKey: key}).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// notificationsMuted reports whether a user opted out of the rich
// notification channels. The in-app record is written either way.
func notificationsMuted(userId uint) bool {
	setting, err := GetUserSetting(userId, "notifications_muted")
	if err != nil || setting == nil {
		return false
	}
	muted, _ := setting.SettingValue["enabled"].(bool)
	return muted
}

package utils

import (
	"hrc/src/db"
	"hrc/src/models"

	"gorm.io/gorm"
)

// WriteAuditLog records a staff action. Actions without an actor are not
// recorded.
func WriteAuditLog(tx *gorm.DB, userID *uint, action string, table string, targetID string, details string) error {
	if userID == nil {
		return nil
	}
	return tx.Create(&models.AuditLog{
		UserID:      userID,
		Action:      action,
		TargetTable: table,
		TargetID:    targetID,
		Details:     details,
	}).Error
}

func ListAuditLogs(limit int) ([]models.AuditLog, error) {
	db := db.GetDb()
	var logs []models.AuditLog
	err := db.
		Model(&models.AuditLog{}).
		Preload("User").
		Order("created_at desc").
		Limit(limit).
		Find(&logs).
		Error
	return logs, err
}

package repository

import (
	"farmstore/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(log *models.AuditLog) error {
	return r.db.Create(log).Error
}

func (r *AuditLogRepository) ListByResource(resource string, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if limit <= 0 {
		limit = 100
	}
	err := r.db.Where("resource = ?", resource).Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

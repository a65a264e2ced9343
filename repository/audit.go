package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	auditModel "hotel-broker/models/audit"
)

// maxAuditPageSize caps audit pagination.
const maxAuditPageSize = 100

// AuditFilter narrows an audit log query. Zero values mean "no filter".
type AuditFilter struct {
	EntityName  string
	EntityID    string
	ActorUserID uint
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

// AuditRepository is the append-only audit store. It exposes create and
// filtered reads only; rows are never updated or deleted here.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *auditModel.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) List(ctx context.Context, filter AuditFilter) ([]auditModel.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&auditModel.AuditLog{})

	if filter.EntityName != "" {
		q = q.Where("entity_name = ?", filter.EntityName)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.ActorUserID != 0 {
		q = q.Where("actor_user_id = ?", filter.ActorUserID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var rows []auditModel.AuditLog
	err := q.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

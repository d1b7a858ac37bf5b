package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"boostiq/pkg/entities"
)

// subscriptionModel is the gorm mapping of a ledger record. user_id is the
// primary key, which enforces the one-record-per-user invariant.
type subscriptionModel struct {
	UserID      string    `gorm:"primaryKey;size:64"`
	PlanID      string    `gorm:"size:32;not null"`
	ActivatedAt time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

func (subscriptionModel) TableName() string {
	return "subscriptions"
}

// PostgresStore keeps the ledger in Postgres. Whole-record updates are
// atomic at the row level, so concurrent activates for the same user
// serialize to a deterministic last write.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err = db.AutoMigrate(&subscriptionModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate subscriptions table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Put(ctx context.Context, sub entities.Subscription) error {
	model := subscriptionModel{
		UserID:      sub.UserID,
		PlanID:      sub.PlanID,
		ActivatedAt: sub.ActivatedAt,
		ExpiresAt:   sub.ExpiresAt,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert subscription for %s: %w", sub.UserID, err)
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*entities.Subscription, error) {
	var model subscriptionModel

	err := s.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription for %s: %w", userID, err)
	}

	sub := model.toEntity()
	return &sub, nil
}

func (s *PostgresStore) SweepExpired(ctx context.Context, now time.Time) ([]entities.Subscription, error) {
	var expired []entities.Subscription

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var models []subscriptionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("expires_at < ?", now).Find(&models).Error; err != nil {
			return err
		}

		if len(models) == 0 {
			return nil
		}

		if err := tx.Where("expires_at < ?", now).Delete(&subscriptionModel{}).Error; err != nil {
			return err
		}

		for _, m := range models {
			expired = append(expired, m.toEntity())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sweep expired subscriptions: %w", err)
	}

	return expired, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (m subscriptionModel) toEntity() entities.Subscription {
	return entities.Subscription{
		UserID:      m.UserID,
		PlanID:      m.PlanID,
		ActivatedAt: m.ActivatedAt.UTC(),
		ExpiresAt:   m.ExpiresAt.UTC(),
	}
}

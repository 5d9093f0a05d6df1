package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// NewGormStore wires every repository onto the same gorm handle.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Workflows: NewGormWorkflowRepository(db),
		States:    NewGormStageStateRepository(db),
		Events:    NewGormEventRepository(db),
		Scores:    NewGormScoreRepository(db),
		Settings:  NewGormSettingRepository(db),
		Ideas:     NewGormIdeaRepository(db),
		Users:     NewGormUserRepository(db),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	}
	return err
}

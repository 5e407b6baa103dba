// Package sqlite - файловое хранилище задач на gorm и SQLite для запуска без PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/logger"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	repo "github.com/priyanshtech/TaskManager/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type taskRecord struct {
	ID          string    `gorm:"primaryKey;type:text"`
	OwnerID     string    `gorm:"not null;index:idx_tasks_owner_date,priority:1"`
	Title       string    `gorm:"not null"`
	Description *string
	Date        time.Time `gorm:"not null;index:idx_tasks_owner_date,priority:2"`
	Priority    string    `gorm:"not null;size:10"`
	Completed   bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (taskRecord) TableName() string { return "tasks" }

func toRecord(t *task.Task) *taskRecord {
	return &taskRecord{
		ID:          t.ID.String(),
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date.UTC(),
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (r *taskRecord) toTask() (*task.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("некорректный id %q: %w", r.ID, err)
	}
	return &task.Task{
		ID:          id,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date.UTC(),
		Priority:    task.Priority(r.Priority),
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}, nil
}

type Storage struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// New открывает базу по пути path (":memory:" - в памяти) и создаёт схему.
func New(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("Repository: Ошибка открытия SQLite", err, zap.String("path", path))
		return nil, fmt.Errorf("открытие sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("получение sql.DB: %w", err)
	}
	// SQLite не допускает параллельных писателей, а ":memory:" живёт в одном соединении
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&taskRecord{}); err != nil {
		_ = sqlDB.Close()
		logger.Error("Repository: Ошибка создания схемы SQLite", err)
		return nil, fmt.Errorf("создание схемы: %w", err)
	}

	logger.Info("Repository: Успешное подключение к SQLite", zap.String("path", path))
	return &Storage{db: db, sqlDB: sqlDB}, nil
}

func (s *Storage) Close() {
	if err := s.sqlDB.Close(); err != nil {
		logger.Warn("Repository: Ошибка закрытия SQLite", zap.Error(err))
		return
	}
	logger.Info("Repository: Закрытие соединения SQLite")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	now := time.Now().UTC()
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(toRecord(taskToCreate)).Error; err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err)
		return fmt.Errorf("добавление задачи: %w", err)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error) {
	return s.getByID(s.db.WithContext(ctx), ownerID, id)
}

func (s *Storage) getByID(db *gorm.DB, ownerID string, id uuid.UUID) (*task.Task, error) {
	var record taskRecord
	err := db.Where("id = ? AND owner_id = ?", id.String(), ownerID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return record.toTask()
}

func (s *Storage) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	var records []taskRecord
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date, created_at, id").
		Find(&records).Error
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	tasks := make([]*task.Task, 0, len(records))
	for i := range records {
		t, err := records[i].toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// обновление и повторное чтение выполняются в одной транзакции
func (s *Storage) Update(ctx context.Context, ownerID string, id uuid.UUID, patch task.Patch) (*task.Task, error) {
	var updated *task.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&taskRecord{}).
			Where("id = ? AND owner_id = ?", id.String(), ownerID).
			Updates(patchColumns(patch))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		t, err := s.getByID(tx, ownerID, id)
		if err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return updated, nil
}

func (s *Storage) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id.String(), ownerID).
		Delete(&taskRecord{})
	if result.Error != nil {
		logger.Error("Repository: Не удалось удалить задачу", result.Error)
		return fmt.Errorf("удаление задачи: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func patchColumns(patch task.Patch) map[string]any {
	columns := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.Date != nil {
		columns["date"] = patch.Date.UTC()
	}
	if patch.Priority != nil {
		columns["priority"] = string(*patch.Priority)
	}
	if patch.Completed != nil {
		columns["completed"] = *patch.Completed
	}
	return columns
}

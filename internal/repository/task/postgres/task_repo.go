package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/priyanshtech/TaskManager/internal/logger"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	repo "github.com/priyanshtech/TaskManager/internal/repository"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

const selectColumns = `id, owner_id, title, description, date, priority, completed, created_at, updated_at`

// PoolConfig задаёт размеры пула. Нулевые значения заменяются значениями по умолчанию.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = poolCfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, owner_id, title, description, date, priority, completed)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.OwnerID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Date,
		string(taskToCreate.Priority),
		taskToCreate.Completed,
	).Scan(&taskToCreate.CreatedAt, &taskToCreate.UpdatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}
	taskToCreate.CreatedAt = taskToCreate.CreatedAt.UTC()
	taskToCreate.UpdatedAt = taskToCreate.UpdatedAt.UTC()

	warnSlow(start)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + `
				FROM tasks
				WHERE id = $1 AND owner_id = $2`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnSlow(start)
	return t, nil
}

// все задачи владельца в порядке date, created_at, id
func (s *Storage) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + `
				FROM tasks
				WHERE owner_id = $1
				ORDER BY date, created_at, id`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnSlow(start)
	return tasks, nil
}

// условное обновление: строка меняется только если id и владелец совпадают
func (s *Storage) Update(ctx context.Context, ownerID string, id uuid.UUID, patch task.Patch) (*task.Task, error) {
	start := time.Now()

	sets, args := patchAssignments(patch)
	args = append(args, id, ownerID)
	query := fmt.Sprintf(`UPDATE tasks
			SET %s, updated_at = NOW()
			WHERE id = $%d AND owner_id = $%d
			RETURNING %s`, strings.Join(sets, ", "), len(args)-1, len(args), selectColumns)

	t, err := scanTask(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Debug("Repository: Задача для обновления не найдена", zap.String("task_id", id.String()))
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	warnSlow(start)
	return t, nil
}

func (s *Storage) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1 AND owner_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnSlow(start)
	return nil
}

// patchAssignments собирает SET-часть только из заданных полей патча.
func patchAssignments(patch task.Patch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.Completed != nil {
		add("completed", *patch.Completed)
	}
	return sets, args
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t        task.Task
		priority string
	)
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Date,
		&priority,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Priority = task.Priority(priority)
	t.Date = t.Date.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func warnSlow(start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", elapsed))
	}
}

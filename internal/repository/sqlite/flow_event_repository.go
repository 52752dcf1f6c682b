package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type flowEventRepository struct {
	db *sql.DB
}

// NewFlowEventRepository creates a new FlowEventRepository implementation
func NewFlowEventRepository(db *sql.DB) repository.FlowEventRepository {
	return &flowEventRepository{db: db}
}

func (r *flowEventRepository) Insert(ctx context.Context, event models.FlowEvent) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("flow_event_repo")
	log.Debug("inserting flow event: user_key=%s, date=%s, kind=%s", event.UserKey, event.Date, event.Kind)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO flow_events (user_key, date, kind, sphere, question_id)
VALUES (?, ?, ?, ?, ?)
`, event.UserKey, event.Date, event.Kind, event.Sphere, event.QuestionID)
	if err != nil {
		log.Error("failed to insert flow event: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get flow event id: %v", err)
		return 0, err
	}
	return id, nil
}

func eventFilterWhere(query squirrel.SelectBuilder, filter models.FlowEventFilter) squirrel.SelectBuilder {
	if filter.UserKey != "" {
		query = query.Where(squirrel.Eq{"user_key": filter.UserKey})
	}
	if filter.Date != "" {
		query = query.Where(squirrel.Eq{"date": filter.Date})
	}
	if filter.Kind != "" {
		query = query.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.Sphere != "" {
		query = query.Where(squirrel.Eq{"sphere": filter.Sphere})
	}
	return query
}

func (r *flowEventRepository) List(ctx context.Context, filter models.FlowEventFilter) ([]models.FlowEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("flow_event_repo")
	log.Debug("listing flow events: user_key=%s, date=%s, kind=%s", filter.UserKey, filter.Date, filter.Kind)

	query := eventFilterWhere(sqlBuilder.Select(
		"id", "user_key", "date", "kind", "sphere", "question_id", "created_at",
	).From("flow_events"), filter)

	query = query.OrderBy("created_at ASC", "id ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query = query.Limit(uint64(limit))
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build flow events query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query flow events: %v", err)
		return nil, err
	}
	defer rows.Close()

	var events []models.FlowEvent
	for rows.Next() {
		var e models.FlowEvent
		if err := rows.Scan(&e.ID, &e.UserKey, &e.Date, &e.Kind, &e.Sphere, &e.QuestionID, &e.CreatedAt); err != nil {
			log.Error("failed to scan flow event row: %v", err)
			return nil, err
		}
		events = append(events, e)
	}
	log.Debug("found %d flow events", len(events))
	return events, rows.Err()
}

func (r *flowEventRepository) Count(ctx context.Context, filter models.FlowEventFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("flow_event_repo")

	query := eventFilterWhere(sqlBuilder.Select("COUNT(*)").From("flow_events"), filter)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build flow events count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count flow events: %v", err)
		return 0, err
	}
	return count, nil
}

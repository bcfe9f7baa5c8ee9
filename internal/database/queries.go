package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"linksum/internal/domain"
)

const DefaultHistoryLimit = 5

func (d *Database) AddSummary(ctx context.Context, record *domain.HistoryRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}

	url := strings.TrimSpace(record.URL)
	if url == "" {
		return errors.New("URL is empty")
	}

	summary := strings.TrimSpace(record.Summary)
	if summary == "" {
		return errors.New("summary is empty")
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `insert into summaries (chat_id, url, source, model, summary, created_at)
	values (?, ?, ?, ?, ?, ?)`

	res, err := d.db.ExecContext(ctx, query,
		record.ChatID,
		url,
		record.Source.String(),
		strings.TrimSpace(record.Model),
		summary,
		createdAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert ID: %w", err)
	}
	record.ID = id

	return nil
}

func (d *Database) GetChatHistory(
	ctx context.Context,
	chatID int64,
	limit int,
) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `select id, chat_id, url, source, model, summary, created_at
	from summaries
	where chat_id = ?
	order by created_at desc, id desc
	limit ?`

	rows, err := d.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"chatID", chatID,
				"operation", "GetChatHistory")
		}
	}()

	var records []domain.HistoryRecord
	for rows.Next() {
		var (
			r           domain.HistoryRecord
			source      string
			createdAtMs int64
		)

		if err = rows.Scan(&r.ID, &r.ChatID, &r.URL, &source, &r.Model, &r.Summary, &createdAtMs); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		r.Source = domain.ParseContentSource(source)
		r.CreatedAt = time.UnixMilli(createdAtMs).UTC()

		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

// DeleteSummariesBefore removes history older than cutoff and reports how many rows went.
func (d *Database) DeleteSummariesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := "delete from summaries where created_at < ?"

	res, err := d.db.ExecContext(ctx, query, cutoff.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("execute query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return n, nil
}

// GetChatSettingsWithDefault returns stored settings, or settings with an
// empty model when the chat has none.
func (d *Database) GetChatSettingsWithDefault(
	ctx context.Context,
	chatID int64,
) (*domain.ChatSettings, error) {
	query := `select chat_id, model
	from chat_settings
	where chat_id = ?`

	rows, err := d.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"chatID", chatID,
				"operation", "GetChatSettingsWithDefault")
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate rows: %w", err)
		}

		return &domain.ChatSettings{ChatID: chatID}, nil
	}

	var cs domain.ChatSettings
	if err = rows.Scan(&cs.ChatID, &cs.Model); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &cs, nil
}

func (d *Database) UpsertChatSettings(ctx context.Context, settings *domain.ChatSettings) error {
	if settings == nil {
		return errors.New("settings are nil")
	}

	model := strings.TrimSpace(settings.Model)
	if model == "" {
		return errors.New("model is empty")
	}

	query := `insert into chat_settings (chat_id, model)
	values (?, ?)
	on conflict (chat_id) do update
	set model = excluded.model`

	if _, err := d.db.ExecContext(ctx, query, settings.ChatID, model); err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	return nil
}

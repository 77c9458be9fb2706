package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wapinheiro/money/internal/model"
)

const tagColumns = `id, name, color, type, start_date, end_date, created_at`

func scanTag(row interface{ Scan(...any) error }) (model.Tag, error) {
	var t model.Tag
	var tagType string
	var start, end sql.NullTime
	err := row.Scan(&t.ID, &t.Name, &t.Color, &tagType, &start, &end, &t.CreatedAt)
	t.Type = model.TagType(tagType)
	t.StartDate = nullTime(start)
	t.EndDate = nullTime(end)
	return t, err
}

// ListTags returns every tag ordered by name, including expired ones.
// Callers filter with model.ActiveTags.
func (s *SQLiteStorage) ListTags(ctx context.Context) ([]model.Tag, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", "error", err)
		}
	}()

	var tags []model.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	slog.Debug("retrieved tags", "count", len(tags))
	return tags, nil
}

// GetTagByName returns the tag with the given name, ignoring case.
// It returns nil when no tag matches.
func (s *SQLiteStorage) GetTagByName(ctx context.Context, name string) (*model.Tag, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	t, err := scanTag(s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = ?`, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tag: %w", err)
	}
	return &t, nil
}

// CreateTag creates a tag from the draft. Temporary tags require a start and
// end date. An existing tag with the same name is returned unchanged.
func (s *SQLiteStorage) CreateTag(ctx context.Context, draft model.OptionDraft) (*model.Tag, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTagDraft(draft); err != nil {
		return nil, err
	}

	existing, err := s.GetTagByName(ctx, draft.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Debug("tag already exists", "name", existing.Name)
		return existing, nil
	}

	t := model.Tag{
		Name:      strings.TrimSpace(draft.Name),
		Color:     PaletteColor(draft.Name),
		Type:      model.TagTypePermanent,
		CreatedAt: time.Now(),
	}
	if draft.TagType == model.TagTypeTemporary {
		t.Type = model.TagTypeTemporary
		t.StartDate = draft.StartDate
		t.EndDate = draft.EndDate
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, color, type, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.Name, t.Color, string(t.Type), nullableTime(t.StartDate), nullableTime(t.EndDate), t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	if t.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get tag ID: %w", err)
	}

	slog.Info("created tag", "name", t.Name, "type", t.Type, "id", t.ID)
	return &t, nil
}

// UpsertTag inserts the tag or updates the one with the same name.
func (s *SQLiteStorage) UpsertTag(ctx context.Context, tag *model.Tag) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if tag == nil {
		return fmt.Errorf("%w: tag", ErrNilParameter)
	}
	if err := validateTagDraft(model.OptionDraft{
		Name:      tag.Name,
		TagType:   tag.Type,
		StartDate: tag.StartDate,
		EndDate:   tag.EndDate,
	}); err != nil {
		return err
	}
	if tag.Type == "" {
		tag.Type = model.TagTypePermanent
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, color, type, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			color = excluded.color,
			type = excluded.type,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		strings.TrimSpace(tag.Name), tag.Color, string(tag.Type),
		nullableTime(tag.StartDate), nullableTime(tag.EndDate), time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert tag %q: %w", tag.Name, err)
	}

	stored, err := s.GetTagByName(ctx, tag.Name)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("tag %q missing after upsert", tag.Name)
	}
	*tag = *stored
	return nil
}

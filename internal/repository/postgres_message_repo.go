package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/notepin/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したメッセージリポジトリ。
// linebot_messageテーブルへの読み取り専用アクセスを提供する。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// ListByUser はユーザーのメッセージを返す。
// groupIDが非nilの場合はそのグループのメッセージに絞り込む。
// フィルタなしの結果は任意のグループフィルタ結果の上位集合になる。
func (r *PostgresMessageRepo) ListByUser(ctx context.Context, lineID string, groupID *string) ([]model.Message, error) {
	query := `SELECT category, date, event, notes, location, group_id, group_name
	          FROM linebot_message
	          WHERE line_id = $1`
	args := []any{lineID}

	if groupID != nil {
		query += ` AND group_id = $2`
		args = append(args, *groupID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		var category, date, event, notes, location sql.NullString
		if err := rows.Scan(&category, &date, &event, &notes, &location, &m.GroupID, &m.GroupName); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Category = category.String
		m.Date = date.String
		m.Event = event.String
		m.Notes = notes.String
		m.Location = location.String
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// ListGroups はユーザーがメッセージを持つグループの重複を除いた一覧を返す。
// group_idがNULLのメッセージ（1対1トーク）は含めない。
func (r *PostgresMessageRepo) ListGroups(ctx context.Context, lineID string) ([]model.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT group_id, group_name
		 FROM linebot_message
		 WHERE line_id = $1 AND group_id IS NOT NULL`,
		lineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		var g model.Group
		var groupName sql.NullString
		if err := rows.Scan(&g.GroupID, &groupName); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		g.GroupName = groupName.String
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)

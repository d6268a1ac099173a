package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hitoshi/notepin/internal/model"
)

// PostgresPinRepo はPostgreSQLを使用した定選（ピン）リポジトリ。
type PostgresPinRepo struct {
	db *sql.DB
}

// NewPostgresPinRepo はPostgresPinRepoを生成する。
func NewPostgresPinRepo(db *sql.DB) *PostgresPinRepo {
	return &PostgresPinRepo{db: db}
}

// IsPinned は(lineid, info, url)の組がピン済みかを返す。
func (r *PostgresPinRepo) IsPinned(ctx context.Context, lineID, info, url string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_pinned WHERE lineid = $1 AND info = $2 AND url = $3`,
		lineID, info, url,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check pinned: %w", err)
	}

	return count > 0, nil
}

// Pin は(lineid, info, url)の組を保存する。
// 一意制約違反はPinAlreadyExistsとして返す。事前の存在チェックと
// 挿入の間の競合はここで吸収されるため、正しさは事前チェックに依存しない。
func (r *PostgresPinRepo) Pin(ctx context.Context, lineID, info, url string) (model.PinResult, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_pinned (id, lineid, info, url) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), lineID, info, url,
	)
	if isUniqueViolation(err) {
		return model.PinAlreadyExists, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert pin: %w", err)
	}

	return model.PinCreated, nil
}

// Unpin は一致する行を削除する。
// 存在しない行の削除も成功として扱い、既存行の削除と観測上の差はない。
func (r *PostgresPinRepo) Unpin(ctx context.Context, lineID, info, url string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_pinned WHERE lineid = $1 AND info = $2 AND url = $3`,
		lineID, info, url,
	)
	if err != nil {
		return fmt.Errorf("failed to delete pin: %w", err)
	}

	return nil
}

// ListByUser はユーザーの全ピンを返す。順序は保証しない。
func (r *PostgresPinRepo) ListByUser(ctx context.Context, lineID string) ([]model.PinnedResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lineid, info, url, created_at FROM user_pinned WHERE lineid = $1`,
		lineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	defer rows.Close()

	var pins []model.PinnedResult
	for rows.Next() {
		var p model.PinnedResult
		if err := rows.Scan(&p.ID, &p.LineID, &p.Info, &p.URL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		pins = append(pins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pins: %w", err)
	}

	return pins, nil
}

// compile-time interface check
var _ PinRepository = (*PostgresPinRepo)(nil)

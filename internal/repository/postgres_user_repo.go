package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hitoshi/notepin/internal/model"
	"github.com/lib/pq"
)

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// isUniqueViolation はerrが一意制約違反かを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// EnsureUser はline_idとnameのユーザーを登録する。
// 同じline_idが既に存在する場合はUserAlreadyExistsを返す。
// 再ログインの定常状態であり、一意制約違反はエラーとして扱わない。
func (r *PostgresUserRepo) EnsureUser(ctx context.Context, lineID, name string) (model.UserInsertResult, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO line_users (id, line_id, name) VALUES ($1, $2, $3)`,
		uuid.New().String(), lineID, name,
	)
	if isUniqueViolation(err) {
		return model.UserAlreadyExists, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return model.UserInserted, nil
}

// FindByLineID は指定line_idのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByLineID(ctx context.Context, lineID string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, line_id, name, created_at FROM line_users WHERE line_id = $1`,
		lineID,
	).Scan(&user.ID, &user.LineID, &user.Name, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by line_id: %w", err)
	}

	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)

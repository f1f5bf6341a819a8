package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jihoon/memberd/internal/model"
)

// PostgresTermRepo はPostgreSQLを使用した約款リポジトリ。
type PostgresTermRepo struct {
	db *sql.DB
}

// NewPostgresTermRepo はPostgresTermRepoを生成する。
func NewPostgresTermRepo(db *sql.DB) *PostgresTermRepo {
	return &PostgresTermRepo{db: db}
}

// ListActive は削除されていない約款をterms_id昇順で全件取得する。
func (r *PostgresTermRepo) ListActive(ctx context.Context) ([]*model.Term, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT terms_id, terms_title, terms_content, terms_required, terms_created_at, terms_deleted_at
		 FROM term
		 WHERE terms_deleted_at IS NULL
		 ORDER BY terms_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	defer rows.Close()

	var terms []*model.Term
	for rows.Next() {
		term := &model.Term{}
		if err := rows.Scan(
			&term.TermsID, &term.Title, &term.Content, &term.Required,
			&term.CreatedAt, &term.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate terms: %w", err)
	}

	return terms, nil
}

// compile-time interface check
var _ TermRepository = (*PostgresTermRepo)(nil)

package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresAgreementRepo はPostgreSQLを使用した約款同意リポジトリ。
type PostgresAgreementRepo struct {
	db *sql.DB
}

// NewPostgresAgreementRepo はPostgresAgreementRepoを生成する。
func NewPostgresAgreementRepo(db *sql.DB) *PostgresAgreementRepo {
	return &PostgresAgreementRepo{db: db}
}

// Upsert は(member_num, terms_id)をキーに同意レコードをUPSERTする。
// 既存レコードがある場合は状態と同意日時を上書きする。
// UPSERT後、(member_num, terms_id)に対するレコードは常に1件のみ存在する。
func (r *PostgresAgreementRepo) Upsert(ctx context.Context, memberNum, termsID int64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO term_link (member_num, terms_id, agreement_status, agreed_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (member_num, terms_id)
		 DO UPDATE SET agreement_status = $3, agreed_at = now()`,
		memberNum, termsID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert agreement: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AgreementRepository = (*PostgresAgreementRepo)(nil)

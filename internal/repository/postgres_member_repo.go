package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jihoon/memberd/internal/model"
)

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = "23505"

// ErrUniqueViolation はUNIQUE制約違反を表す。
// 事前の重複チェックをすり抜けた同時登録が衝突した場合に、
// どのフィールドの制約に違反したかをConstraintで保持する。
type ErrUniqueViolation struct {
	Constraint string
}

// Error はerrorインターフェースを実装する。
func (e *ErrUniqueViolation) Error() string {
	return fmt.Sprintf("unique constraint violated: %s", e.Constraint)
}

// PostgresMemberRepo はPostgreSQLを使用した会員リポジトリ。
type PostgresMemberRepo struct {
	db *sql.DB
}

// NewPostgresMemberRepo はPostgresMemberRepoを生成する。
func NewPostgresMemberRepo(db *sql.DB) *PostgresMemberRepo {
	return &PostgresMemberRepo{db: db}
}

// FindNumByLoginID は指定ログインIDの会員番号を取得する。見つからない場合は(0, nil)を返す。
func (r *PostgresMemberRepo) FindNumByLoginID(ctx context.Context, loginID string) (int64, error) {
	return r.findNum(ctx,
		`SELECT member_num FROM member WHERE member_id = $1`,
		loginID, "login ID")
}

// FindNumByNickname は指定ニックネームの会員番号を取得する。見つからない場合は(0, nil)を返す。
func (r *PostgresMemberRepo) FindNumByNickname(ctx context.Context, nickname string) (int64, error) {
	return r.findNum(ctx,
		`SELECT member_num FROM member WHERE member_nickname = $1`,
		nickname, "nickname")
}

// FindNumByEmail は指定メールアドレスの会員番号を取得する。見つからない場合は(0, nil)を返す。
func (r *PostgresMemberRepo) FindNumByEmail(ctx context.Context, email string) (int64, error) {
	return r.findNum(ctx,
		`SELECT member_num FROM member WHERE member_email = $1`,
		email, "email")
}

func (r *PostgresMemberRepo) findNum(ctx context.Context, query, arg, field string) (int64, error) {
	var num int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&num)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find member by %s: %w", field, err)
	}

	return num, nil
}

// Create は会員を作成し、採番された会員番号を返す。
// member_join_dateはDB側でCURRENT_DATEが設定される。
// UNIQUE制約違反はErrUniqueViolationでラップして返す。
func (r *PostgresMemberRepo) Create(ctx context.Context, member *model.Member) (int64, error) {
	var num int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO member (
			member_id, member_password, member_nickname, member_email,
			member_phone, member_gender, member_birth_date,
			member_join_date, member_status, marketing_consent
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_DATE, $8, $9)
		 RETURNING member_num`,
		member.LoginID, member.PasswordHash, member.Nickname, member.Email,
		member.Phone, member.Gender, member.BirthDate,
		member.Status, member.MarketingConsent,
	).Scan(&num)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return 0, &ErrUniqueViolation{Constraint: pqErr.Constraint}
		}
		return 0, fmt.Errorf("failed to insert member: %w", err)
	}

	return num, nil
}

// FindByLoginID は指定ログインIDの会員を取得する。見つからない場合はnilを返す。
func (r *PostgresMemberRepo) FindByLoginID(ctx context.Context, loginID string) (*model.Member, error) {
	member := &model.Member{}
	err := r.db.QueryRowContext(ctx,
		`SELECT member_num, member_id, member_password, member_nickname, member_email,
		        member_phone, member_gender, member_birth_date,
		        member_join_date, member_status, marketing_consent
		 FROM member WHERE member_id = $1`,
		loginID,
	).Scan(
		&member.MemberNum, &member.LoginID, &member.PasswordHash, &member.Nickname, &member.Email,
		&member.Phone, &member.Gender, &member.BirthDate,
		&member.JoinDate, &member.Status, &member.MarketingConsent,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member by login ID: %w", err)
	}

	return member, nil
}

// compile-time interface check
var _ MemberRepository = (*PostgresMemberRepo)(nil)

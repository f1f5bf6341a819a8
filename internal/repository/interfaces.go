// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/jihoon/memberd/internal/model"
)

// MemberRepository は会員データの永続化インターフェース。
type MemberRepository interface {
	// FindNumByLoginID は指定ログインIDの会員番号を取得する。見つからない場合は(0, nil)を返す。
	FindNumByLoginID(ctx context.Context, loginID string) (int64, error)

	// FindNumByNickname は指定ニックネームの会員番号を取得する。見つからない場合は(0, nil)を返す。
	FindNumByNickname(ctx context.Context, nickname string) (int64, error)

	// FindNumByEmail は指定メールアドレスの会員番号を取得する。見つからない場合は(0, nil)を返す。
	FindNumByEmail(ctx context.Context, email string) (int64, error)

	// Create は会員を作成し、採番された会員番号を返す。
	// member_join_dateはDB側でCURRENT_DATEが設定される。
	// UNIQUE制約違反はErrUniqueViolationでラップして返す。
	Create(ctx context.Context, member *model.Member) (int64, error)

	// FindByLoginID は指定ログインIDの会員を取得する。見つからない場合はnilを返す。
	FindByLoginID(ctx context.Context, loginID string) (*model.Member, error)
}

// TermRepository は約款データの読み取りインターフェース。
type TermRepository interface {
	// ListActive は削除されていない約款をterms_id昇順で全件取得する。
	ListActive(ctx context.Context) ([]*model.Term, error)
}

// AgreementRepository は約款同意データの永続化インターフェース。
type AgreementRepository interface {
	// Upsert は(member_num, terms_id)をキーに同意レコードをUPSERTする。
	// 既存レコードがある場合は状態と同意日時を上書きする。
	Upsert(ctx context.Context, memberNum, termsID int64, status string) error
}

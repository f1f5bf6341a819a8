// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, consent, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeDuplicateLoginID  = "DUPLICATE_LOGIN_ID"
	ErrCodeDuplicateNickname = "DUPLICATE_NICKNAME"
	ErrCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	ErrCodeMemberNotFound    = "MEMBER_NOT_FOUND"
	ErrCodeInvalidCreds      = "INVALID_CREDENTIALS"
	ErrCodeMemberWithdrawn   = "MEMBER_WITHDRAWN"
	ErrCodeTokenMissing      = "TOKEN_MISSING"
	ErrCodeTokenInvalid      = "TOKEN_INVALID"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
)

// NewDuplicateLoginIDError はログインID重複エラーを生成する。
func NewDuplicateLoginIDError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateLoginID,
		Message:  "이미 존재하는 아이디입니다.",
		Category: "validation",
		Action:   "다른 아이디를 입력해주세요.",
	}
}

// NewDuplicateNicknameError はニックネーム重複エラーを生成する。
func NewDuplicateNicknameError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateNickname,
		Message:  "이미 존재하는 닉네임입니다.",
		Category: "validation",
		Action:   "다른 닉네임을 입력해주세요.",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "이미 존재하는 이메일입니다.",
		Category: "validation",
		Action:   "다른 이메일을 입력해주세요.",
	}
}

// NewMemberNotFoundError は会員未登録エラーを生成する。
// メッセージはパスワード不一致の場合と同一にし、
// アカウントの存在有無を外部から推測できないようにする。
func NewMemberNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeMemberNotFound,
		Message:  "아이디/비밀번호를 확인해주세요",
		Category: "auth",
		Action:   "아이디와 비밀번호를 다시 확인해주세요.",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// 会員が存在しない場合とパスワード不一致の場合で同一メッセージを返し、
// アカウントの存在有無を外部から推測できないようにする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCreds,
		Message:  "아이디/비밀번호를 확인해주세요",
		Category: "auth",
		Action:   "아이디와 비밀번호를 다시 확인해주세요.",
	}
}

// NewMemberWithdrawnError は退会済みアカウントエラーを生成する。
func NewMemberWithdrawnError() *APIError {
	return &APIError{
		Code:     ErrCodeMemberWithdrawn,
		Message:  "이미 탈퇴한 계정입니다.",
		Category: "auth",
		Action:   "고객센터에 문의해주세요.",
	}
}

// NewTokenMissingError はトークン未提示エラーを生成する。
func NewTokenMissingError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenMissing,
		Message:  "Unauthorized",
		Category: "auth",
		Action:   "로그인해주세요.",
	}
}

// NewTokenInvalidError はトークン検証失敗エラーを生成する。
// 署名不正と期限切れは区別しない。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "Token is invalid or expired",
		Category: "auth",
		Action:   "다시 로그인해주세요.",
	}
}

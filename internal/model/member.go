// Package model はドメインモデルを定義する。
package model

import "time"

// MemberStatus は会員アカウントの状態を表す。
type MemberStatus string

const (
	// MemberStatusActive は利用可能な会員を示す。
	MemberStatusActive MemberStatus = "active"
	// MemberStatusInactive は退会済みの会員を示す。
	MemberStatusInactive MemberStatus = "inactive"
)

// Member は登録済み会員のアカウント情報を表す。
// MemberNumは採番後に不変。LoginID・Nickname・Emailはそれぞれ全会員で一意。
type Member struct {
	MemberNum        int64
	LoginID          string
	PasswordHash     string
	Nickname         string
	Email            string
	Phone            string
	Gender           string
	BirthDate        string
	JoinDate         time.Time
	Status           MemberStatus
	MarketingConsent bool
}

// Term は利用規約・約款のレコードを表す。
// 本サービスからは読み取り専用で、DeletedAtが設定された規約は一覧に含めない。
type Term struct {
	TermsID   int64
	Title     string
	Content   string
	Required  bool
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Agreement は会員と規約の同意関係を表す。
// (MemberNum, TermsID) の組で一意。再送信は状態と同意日時を上書きする。
type Agreement struct {
	MemberNum int64
	TermsID   int64
	Status    string
	AgreedAt  time.Time
}

// TokenClaims はセッショントークンに埋め込む会員の公開情報。
type TokenClaims struct {
	MemberNum int64  `json:"memberNum"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	MemberID  string `json:"memberId"`
}

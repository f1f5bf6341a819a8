package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードのハッシュ化と照合のインターフェース。
// ハッシュアルゴリズムの詳細（bcrypt等）をサービス層から隠蔽する。
type PasswordHasher interface {
	// Hash は平文パスワードからソルト付きハッシュを生成する。
	Hash(password string) (string, error)

	// Verify は平文パスワードと保存済みハッシュの一致を検証する。
	Verify(password, hash string) bool
}

// BcryptHasher はbcryptによるPasswordHasherの実装。
// 呼び出しごとにランダムなソルトが生成されるため、
// 同一の平文に対しても毎回異なるハッシュ値を返す。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はデフォルトコストのBcryptHasherを生成する。
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash は平文パスワードからbcryptハッシュを生成する。
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードと保存済みハッシュの一致を検証する。
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)

// Package token はセッショントークンの発行と検証を提供する。
//
// トークンはHS256署名付きJWTで、会員の公開情報と絶対有効期限を含む。
// サーバー側には保持しない純粋なベアラークレデンシャルであり、
// 失効は有効期限切れかクライアント側のCookie削除のみで起こる。
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jihoon/memberd/internal/model"
)

// sessionClaims はJWTに埋め込むクレーム。
// 会員の公開情報と標準クレーム（iat/exp）を保持する。
type sessionClaims struct {
	MemberNum int64  `json:"memberNum"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	MemberID  string `json:"memberId"`
	jwt.RegisteredClaims
}

// Service はセッショントークンの発行・検証サービス。
// 署名鍵と有効期間は起動時に設定オブジェクトとして渡され、以降変更されない。
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService はServiceを生成する。
// secretは長期共有秘密鍵、ttlはトークンの有効期間を指定する。
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewServiceWithClock は発行時刻を指定できるServiceを生成する。テスト用。
func NewServiceWithClock(secret string, ttl time.Duration, now func() time.Time) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

// Issue は会員のクレームを署名付きトークン文字列に変換する。
// クレームは発行時点の会員情報のスナップショットであり、自動更新されない。
func (s *Service) Issue(claims model.TokenClaims) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		MemberNum: claims.MemberNum,
		Nickname:  claims.Nickname,
		Email:     claims.Email,
		MemberID:  claims.MemberID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークン文字列の署名と有効期限を検証し、クレームを返す。
// 署名不正・期限切れ・HS256以外の署名方式はすべてエラーとなる。
func (s *Service) Verify(tokenString string) (*model.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{},
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &model.TokenClaims{
		MemberNum: claims.MemberNum,
		Nickname:  claims.Nickname,
		Email:     claims.Email,
		MemberID:  claims.MemberID,
	}, nil
}

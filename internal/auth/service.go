// Package auth は会員登録と認証のビジネスロジックを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jihoon/memberd/internal/model"
	"github.com/jihoon/memberd/internal/repository"
)

// TokenIssuer はセッショントークンの発行インターフェース。
// token.Serviceの部分集合として定義する。
type TokenIssuer interface {
	Issue(claims model.TokenClaims) (string, error)
}

// ProfileSanitizer は会員入力フィールドのサニタイズインターフェース。
// security.ProfileSanitizerの部分集合として定義する。
type ProfileSanitizer interface {
	Sanitize(input string) string
}

// MetricsRecorder は認証イベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordRegistration()
	RecordRegistrationConflict(field string)
	RecordLogin(result string)
}

// RegisterInput は会員登録の入力。
type RegisterInput struct {
	LoginID          string
	Password         string
	Nickname         string
	Email            string
	Phone            string
	Gender           string
	BirthDate        string
	MarketingConsent bool
}

// LoginResult はログイン成功時の結果。
// Tokenは署名済みセッショントークン、Userはクライアント表示用のクレーム。
type LoginResult struct {
	Token string
	User  model.TokenClaims
}

// Service は会員登録・認証のサービス層。
type Service struct {
	memberRepo repository.MemberRepository
	hasher     PasswordHasher
	issuer     TokenIssuer
	sanitizer  ProfileSanitizer
	metrics    MetricsRecorder
}

// NewService はServiceを生成する。
// sanitizerとmetricsはnilを許容する。
func NewService(
	memberRepo repository.MemberRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	sanitizer ProfileSanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		memberRepo: memberRepo,
		hasher:     hasher,
		issuer:     issuer,
		sanitizer:  sanitizer,
		metrics:    metrics,
	}
}

// Register は会員登録を実行し、採番された会員番号を返す。
//
// ログインID → ニックネーム → メールアドレスの順に重複を順次チェックし、
// 最初に衝突したフィールドで即座に中断する（3件まとめてのチェックは行わない）。
// チェックはINSERTとトランザクションで括られていないため同時登録と競合しうるが、
// その場合もINSERT時のUNIQUE制約違反を対応するConflictエラーに変換する。
func (s *Service) Register(ctx context.Context, input RegisterInput) (int64, error) {
	// 表示用フィールドはマークアップを除去してから保存する
	if s.sanitizer != nil {
		input.Nickname = s.sanitizer.Sanitize(input.Nickname)
	}

	// 1. ログインIDの重複チェック
	num, err := s.memberRepo.FindNumByLoginID(ctx, input.LoginID)
	if err != nil {
		return 0, fmt.Errorf("failed to check login ID: %w", err)
	}
	if num > 0 {
		s.recordConflict("login_id")
		return 0, model.NewDuplicateLoginIDError()
	}

	// 2. ニックネームの重複チェック
	num, err = s.memberRepo.FindNumByNickname(ctx, input.Nickname)
	if err != nil {
		return 0, fmt.Errorf("failed to check nickname: %w", err)
	}
	if num > 0 {
		s.recordConflict("nickname")
		return 0, model.NewDuplicateNicknameError()
	}

	// 3. メールアドレスの重複チェック
	num, err = s.memberRepo.FindNumByEmail(ctx, input.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to check email: %w", err)
	}
	if num > 0 {
		s.recordConflict("email")
		return 0, model.NewDuplicateEmailError()
	}

	// 4. パスワードをハッシュ化して会員を作成
	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	memberNum, err := s.memberRepo.Create(ctx, &model.Member{
		LoginID:          input.LoginID,
		PasswordHash:     hashed,
		Nickname:         input.Nickname,
		Email:            input.Email,
		Phone:            input.Phone,
		Gender:           input.Gender,
		BirthDate:        input.BirthDate,
		Status:           model.MemberStatusActive,
		MarketingConsent: input.MarketingConsent,
	})
	if err != nil {
		// 同時登録との競合でUNIQUE制約に違反した場合もConflictとして返す
		var uniqueErr *repository.ErrUniqueViolation
		if errors.As(err, &uniqueErr) {
			return 0, s.conflictFromConstraint(uniqueErr.Constraint)
		}
		return 0, fmt.Errorf("failed to create member: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	slog.Info("member registered",
		slog.Int64("member_num", memberNum),
	)

	return memberNum, nil
}

// Login は認証情報を検証し、セッショントークンを発行する。
//
// 会員が存在しない場合とパスワード不一致の場合は同一メッセージのエラーを返す。
// 退会済み（inactive）の会員は明示的なエラーとなり、トークンは発行されない。
// クレームは発行時点の会員情報のスナップショットであり、以後の状態変更を反映しない。
func (s *Service) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	member, err := s.memberRepo.FindByLoginID(ctx, loginID)
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if member == nil {
		s.recordLogin("not_found")
		return nil, model.NewMemberNotFoundError()
	}

	if !s.hasher.Verify(password, member.PasswordHash) {
		s.recordLogin("invalid_password")
		return nil, model.NewInvalidCredentialsError()
	}

	if member.Status == model.MemberStatusInactive {
		s.recordLogin("withdrawn")
		return nil, model.NewMemberWithdrawnError()
	}

	claims := model.TokenClaims{
		MemberNum: member.MemberNum,
		Nickname:  member.Nickname,
		Email:     member.Email,
		MemberID:  member.LoginID,
	}

	signed, err := s.issuer.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.recordLogin("success")
	slog.Info("member logged in",
		slog.Int64("member_num", member.MemberNum),
	)

	return &LoginResult{Token: signed, User: claims}, nil
}

// conflictFromConstraint はUNIQUE制約名から対応するConflictエラーを返す。
func (s *Service) conflictFromConstraint(constraint string) error {
	switch constraint {
	case "member_member_id_key":
		s.recordConflict("login_id")
		return model.NewDuplicateLoginIDError()
	case "member_member_nickname_key":
		s.recordConflict("nickname")
		return model.NewDuplicateNicknameError()
	case "member_member_email_key":
		s.recordConflict("email")
		return model.NewDuplicateEmailError()
	default:
		return fmt.Errorf("unexpected unique constraint violation: %s", constraint)
	}
}

func (s *Service) recordConflict(field string) {
	if s.metrics != nil {
		s.metrics.RecordRegistrationConflict(field)
	}
}

func (s *Service) recordLogin(result string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(result)
	}
}

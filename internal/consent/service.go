// Package consent は約款の照会と同意内訳の保存ロジックを提供する。
package consent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jihoon/memberd/internal/model"
	"github.com/jihoon/memberd/internal/repository"
)

// AgreementInput は同意保存の入力1件分。
type AgreementInput struct {
	MemberNum int64
	TermsID   int64
	Status    string
}

// Service は約款・同意のサービス層。
type Service struct {
	termRepo      repository.TermRepository
	agreementRepo repository.AgreementRepository
}

// NewService はServiceを生成する。
func NewService(termRepo repository.TermRepository, agreementRepo repository.AgreementRepository) *Service {
	return &Service{
		termRepo:      termRepo,
		agreementRepo: agreementRepo,
	}
}

// ListTerms は削除されていない約款をterms_id昇順で全件返す。ページネーションは行わない。
func (s *Service) ListTerms(ctx context.Context) ([]*model.Term, error) {
	terms, err := s.termRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	return terms, nil
}

// SaveAgreements は同意内訳を入力順に1件ずつUPSERTする。
//
// バッチはアトミックではない。途中で失敗した場合、それまでのUPSERTは
// コミット済みのまま残り、以降の項目は処理されない。
// 全件成功した場合のみnilを返す。
func (s *Service) SaveAgreements(ctx context.Context, agreements []AgreementInput) error {
	for _, a := range agreements {
		if err := s.agreementRepo.Upsert(ctx, a.MemberNum, a.TermsID, a.Status); err != nil {
			return fmt.Errorf("failed to save agreement (member=%d, term=%d): %w", a.MemberNum, a.TermsID, err)
		}
	}

	slog.Info("agreements saved",
		slog.Int("count", len(agreements)),
	)

	return nil
}

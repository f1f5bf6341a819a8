package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jihoon/memberd/internal/consent"
	"github.com/jihoon/memberd/internal/model"
)

// ConsentServiceInterface は約款ハンドラーが必要とするサービスインターフェース。
type ConsentServiceInterface interface {
	ListTerms(ctx context.Context) ([]*model.Term, error)
	SaveAgreements(ctx context.Context, agreements []consent.AgreementInput) error
}

// AgreementsRecorder は同意保存イベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type AgreementsRecorder interface {
	RecordAgreementsSaved(count int)
}

// ConsentHandler は約款照会・同意保存のHTTPハンドラー。
type ConsentHandler struct {
	service ConsentServiceInterface
	metrics AgreementsRecorder
}

// NewConsentHandler はConsentHandlerを生成する。
func NewConsentHandler(service ConsentServiceInterface, metrics AgreementsRecorder) *ConsentHandler {
	return &ConsentHandler{
		service: service,
		metrics: metrics,
	}
}

// termResponse は約款1件のAPIレスポンス。
type termResponse struct {
	TermsID   int64      `json:"terms_id"`
	Title     string     `json:"terms_title"`
	Content   string     `json:"terms_content"`
	Required  bool       `json:"terms_required"`
	CreatedAt time.Time  `json:"terms_created_at"`
	DeletedAt *time.Time `json:"terms_deleted_at"`
}

// agreementItem は同意保存リクエストの1件分。
type agreementItem struct {
	MemberNum       int64  `json:"member_num"`
	TermsID         int64  `json:"terms_id"`
	AgreementStatus string `json:"agreement_status"`
}

// saveAgreementsRequest は同意保存リクエストのボディ。
type saveAgreementsRequest struct {
	Agreements []agreementItem `json:"agreements"`
}

// ListTerms は削除されていない約款の一覧を返す。
// GET /api/terms
func (h *ConsentHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.service.ListTerms(r.Context())
	if err != nil {
		// 登録と異なり、内部エラーの詳細はログのみに記録し呼び出し元には出さない
		slog.Error("failed to list terms", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "서버 오류가 발생했습니다.",
		})
		return
	}

	resp := make([]termResponse, len(terms))
	for i, t := range terms {
		resp[i] = termResponse{
			TermsID:   t.TermsID,
			Title:     t.Title,
			Content:   t.Content,
			Required:  t.Required,
			CreatedAt: t.CreatedAt,
			DeletedAt: t.DeletedAt,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// SaveAgreements は同意内訳を保存する。
// POST /api/terms/agreements
//
// 各項目は入力順に独立してUPSERTされ、バッチはアトミックではない。
// 途中で失敗した場合、適用済みの項目はそのまま残る。
func (h *ConsentHandler) SaveAgreements(w http.ResponseWriter, r *http.Request) {
	var req saveAgreementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{
			Message: "잘못된 요청 형식입니다.",
		})
		return
	}

	agreements := make([]consent.AgreementInput, len(req.Agreements))
	for i, a := range req.Agreements {
		agreements[i] = consent.AgreementInput{
			MemberNum: a.MemberNum,
			TermsID:   a.TermsID,
			Status:    a.AgreementStatus,
		}
	}

	if err := h.service.SaveAgreements(r.Context(), agreements); err != nil {
		slog.Error("failed to save agreements", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "서버 오류가 발생했습니다.",
		})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAgreementsSaved(len(agreements))
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "약관 동의 내역이 저장되었습니다.",
	})
}

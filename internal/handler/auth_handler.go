// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jihoon/memberd/internal/auth"
	"github.com/jihoon/memberd/internal/model"
)

// sessionCookieName はセッショントークンを保持するCookieの名前。
const sessionCookieName = "token"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, input auth.RegisterInput) (int64, error)
	Login(ctx context.Context, loginID, password string) (*auth.LoginResult, error)
}

// TokenVerifier はトークン検証のインターフェース。
// token.Serviceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (*model.TokenClaims, error)
}

// VerificationRecorder はトークン検証イベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type VerificationRecorder interface {
	RecordTokenVerification(result string)
}

// AuthHandlerConfig は認証ハンドラーの設定。
// Cookie属性は起動時に決定され、リクエストごとに環境変数を参照することはない。
type AuthHandlerConfig struct {
	CookieDomain string
	CookieSecure bool // 本番環境でのみtrue
	TokenMaxAge  int  // セッションCookieの有効期間（秒）
}

// AuthHandler は会員登録・認証関連のHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	verifier TokenVerifier
	metrics  VerificationRecorder
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, verifier TokenVerifier, metrics VerificationRecorder, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		verifier: verifier,
		metrics:  metrics,
		config:   config,
	}
}

// joinRequest は会員登録リクエストのボディ。
type joinRequest struct {
	MemberID         string `json:"member_id"`
	MemberPassword   string `json:"member_password"`
	MemberNickname   string `json:"member_nickname"`
	MemberEmail      string `json:"member_email"`
	MemberPhone      string `json:"member_phone"`
	MemberGender     string `json:"member_gender"`
	MemberBirthDate  string `json:"member_birth_date"`
	MarketingConsent bool   `json:"marketing_consent"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	MemberID       string `json:"member_id"`
	MemberPassword string `json:"member_password"`
}

// messageResponse は{message}のみのレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// Join は会員登録を処理する。
// POST /api/auth/join
func (h *AuthHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{
			Message: "잘못된 요청 형식입니다.",
		})
		return
	}

	memberNum, err := h.service.Register(r.Context(), auth.RegisterInput{
		LoginID:          req.MemberID,
		Password:         req.MemberPassword,
		Nickname:         req.MemberNickname,
		Email:            req.MemberEmail,
		Phone:            req.MemberPhone,
		Gender:           req.MemberGender,
		BirthDate:        req.MemberBirthDate,
		MarketingConsent: req.MarketingConsent,
	})
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			writeJSON(w, http.StatusConflict, messageResponse{Message: apiErr.Message})
			return
		}
		// 登録の内部エラーは原因メッセージをそのまま返す
		slog.Error("join failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "회원가입이 완료되었습니다.",
		"userId":  memberNum,
	})
}

// Login は認証情報を検証し、セッションCookieを設定する。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{
			Message: "잘못된 요청 형식입니다.",
		})
		return
	}

	result, err := h.service.Login(r.Context(), req.MemberID, req.MemberPassword)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			writeJSON(w, authErrorStatus(apiErr), messageResponse{Message: apiErr.Message})
			return
		}
		slog.Error("login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.setSessionCookie(w, result.Token)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    result.User,
	})
}

// Verify はCookie内のトークンを検証し、クレームを返す。
// GET /api/auth/verify
//
// データストアには一切アクセスせず、発行時点の署名済みクレームを信頼する。
// 退会済み会員のトークンも有効期限までは検証を通過する。
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		h.recordVerification("missing")
		apiErr := model.NewTokenMissingError()
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: apiErr.Message})
		return
	}

	claims, err := h.verifier.Verify(cookie.Value)
	if err != nil {
		h.recordVerification("invalid")
		apiErr := model.NewTokenInvalidError()
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: apiErr.Message})
		return
	}

	h.recordVerification("success")
	writeJSON(w, http.StatusOK, map[string]any{"user": claims})
}

// Logout はセッションCookieを削除する。
// POST /api/auth/logout
//
// データストアにもトークンサービスにもアクセスしない。常に成功する。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

// setSessionCookie はセッショントークンをHTTP Only Cookieとして設定する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.TokenMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookie はセッションCookieを設定時と同一属性で削除する。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) recordVerification(result string) {
	if h.metrics != nil {
		h.metrics.RecordTokenVerification(result)
	}
}

// authErrorStatus は認証系APIErrorコードからHTTPステータスコードにマッピングする。
// 会員未登録(404)とパスワード不一致(401)はメッセージは同一だがステータスは区別する。
func authErrorStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMemberNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidCreds:
		return http.StatusUnauthorized
	case model.ErrCodeMemberWithdrawn:
		return http.StatusForbidden
	case model.ErrCodeTokenMissing, model.ErrCodeTokenInvalid:
		return http.StatusUnauthorized
	case model.ErrCodeDuplicateLoginID, model.ErrCodeDuplicateNickname, model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

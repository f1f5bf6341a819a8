package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jihoon/memberd/internal/auth"
	"github.com/jihoon/memberd/internal/model"
)

// mockAuthService はテスト用のAuthServiceInterfaceモック。
type mockAuthService struct {
	registerFunc func(ctx context.Context, input auth.RegisterInput) (int64, error)
	loginFunc    func(ctx context.Context, loginID, password string) (*auth.LoginResult, error)
}

func (m *mockAuthService) Register(ctx context.Context, input auth.RegisterInput) (int64, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, input)
	}
	return 1, nil
}

func (m *mockAuthService) Login(ctx context.Context, loginID, password string) (*auth.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, loginID, password)
	}
	return &auth.LoginResult{Token: "signed-token"}, nil
}

// mockVerifier はテスト用のTokenVerifierモック。
type mockVerifier struct {
	verifyFunc func(tokenString string) (*model.TokenClaims, error)
}

func (m *mockVerifier) Verify(tokenString string) (*model.TokenClaims, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(tokenString)
	}
	return &model.TokenClaims{MemberNum: 42}, nil
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		CookieSecure: false,
		TokenMaxAge:  86400,
	}
}

const joinBody = `{
	"member_id": "newuser01",
	"member_password": "password123!",
	"member_nickname": "새내기",
	"member_email": "new@example.com",
	"member_phone": "010-1234-5678",
	"member_gender": "M",
	"member_birth_date": "1995-03-15",
	"marketing_consent": true
}`

// 会員登録成功時に201と会員番号が返ること
func TestAuthHandler_Join_Success(t *testing.T) {
	service := &mockAuthService{
		registerFunc: func(_ context.Context, input auth.RegisterInput) (int64, error) {
			if input.LoginID != "newuser01" {
				t.Errorf("LoginID = %q, want %q", input.LoginID, "newuser01")
			}
			if input.Password != "password123!" {
				t.Errorf("Password = %q, want %q", input.Password, "password123!")
			}
			return 7, nil
		},
	}
	h := NewAuthHandler(service, &mockVerifier{}, nil, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/join", strings.NewReader(joinBody))
	rec := httptest.NewRecorder()
	h.Join(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var resp struct {
		Message string `json:"message"`
		UserID  int64  `json:"userId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserID != 7 {
		t.Errorf("userId = %d, want 7", resp.UserID)
	}
	if resp.Message != "회원가입이 완료되었습니다." {
		t.Errorf("message = %q", resp.Message)
	}
}

// 重複エラー時に409とエラーメッセージが返ること
func TestAuthHandler_Join_Conflict(t *testing.T) {
	service := &mockAuthService{
		registerFunc: func(_ context.Context, _ auth.RegisterInput) (int64, error) {
			return 0, model.NewDuplicateLoginIDError()
		},
	}
	h := NewAuthHandler(service, &mockVerifier{}, nil, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/join", strings.NewReader(joinBody))
	rec := httptest.NewRecorder()
	h.Join(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var resp messageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "이미 존재하는 아이디입니다." {
		t.Errorf("message = %q", resp.Message)
	}
}

// 内部エラー時に500と{error}レスポンスが返ること
func TestAuthHandler_Join_InternalError(t *testing.T) {
	service := &mockAuthService{
		registerFunc: func(_ context.Context, _ auth.RegisterInput) (int64, error) {
			return 0, errors.New("failed to create member: connection refused")
		},
	}
	h := NewAuthHandler(service, &mockVerifier{}, nil, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/join", strings.NewReader(joinBody))
	rec := httptest.NewRecorder()
	h.Join(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected error field in response body")
	}
}

// 不正なJSONボディには400が返ること
func TestAuthHandler_Join_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockVerifier{}, nil, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/join", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Join(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// ログイン成功時に200・クレーム・属性付きCookieが返ること
func TestAuthHandler_Login_Success(t *testing.T) {
	service := &mockAuthService{
		loginFunc: func(_ context.Context, loginID, password string) (*auth.LoginResult, error) {
			return &auth.LoginResult{
				Token: "signed-token",
				User: model.TokenClaims{
					MemberNum: 42,
					Nickname:  "테스터",
					Email:     "tester@example.com",
					MemberID:  loginID,
				},
			}, nil
		},
	}
	h := NewAuthHandler(service, &mockVerifier{}, nil, testAuthConfig())

	body := `{"member_id": "tester01", "member_password": "password123!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Message string            `json:"message"`
		User    model.TokenClaims `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Login successful" {
		t.Errorf("message = %q, want %q", resp.Message, "Login successful")
	}
	if resp.User.MemberNum != 42 {
		t.Errorf("user.memberNum = %d, want 42", resp.User.MemberNum)
	}

	cookie := findCookie(t, rec, sessionCookieName)
	if cookie.Value != "signed-token" {
		t.Errorf("cookie value = %q, want %q", cookie.Value, "signed-token")
	}
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie SameSite = %v, want Strict", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Errorf("cookie Path = %q, want /", cookie.Path)
	}
	if cookie.MaxAge != 86400 {
		t.Errorf("cookie MaxAge = %d, want 86400", cookie.MaxAge)
	}
	if cookie.Secure {
		t.Error("cookie Secure = true in non-production config")
	}
}

// 本番設定ではCookieにSecure属性が付くこと
func TestAuthHandler_Login_SecureCookieInProduction(t *testing.T) {
	cfg := testAuthConfig()
	cfg.CookieSecure = true
	h := NewAuthHandler(&mockAuthService{
		loginFunc: func(_ context.Context, _, _ string) (*auth.LoginResult, error) {
			return &auth.LoginResult{Token: "signed-token"}, nil
		},
	}, &mockVerifier{}, nil, cfg)

	body := `{"member_id": "tester01", "member_password": "password123!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	cookie := findCookie(t, rec, sessionCookieName)
	if !cookie.Secure {
		t.Error("cookie Secure = false, want true")
	}
}

// 認証失敗のエラーコードごとに適切なステータスが返り、Cookieが設定されないこと
func TestAuthHandler_Login_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "member not found",
			err:        model.NewMemberNotFoundError(),
			wantStatus: http.StatusNotFound,
			wantMsg:    "아이디/비밀번호를 확인해주세요",
		},
		{
			name:       "wrong password",
			err:        model.NewInvalidCredentialsError(),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "아이디/비밀번호를 확인해주세요",
		},
		{
			name:       "withdrawn member",
			err:        model.NewMemberWithdrawnError(),
			wantStatus: http.StatusForbidden,
			wantMsg:    "이미 탈퇴한 계정입니다.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockAuthService{
				loginFunc: func(_ context.Context, _, _ string) (*auth.LoginResult, error) {
					return nil, tt.err
				},
			}
			h := NewAuthHandler(service, &mockVerifier{}, nil, testAuthConfig())

			body := `{"member_id": "tester01", "member_password": "password123!"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp messageResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMsg)
			}

			if len(rec.Result().Cookies()) != 0 {
				t.Error("cookie was set on failed login")
			}
		})
	}
}

// 会員未登録とパスワード不一致はステータスは異なるがメッセージは同一であること
func TestAuthHandler_Login_EnumerationResistance(t *testing.T) {
	respond := func(err error) (int, string) {
		service := &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (*auth.LoginResult, error) {
				return nil, err
			},
		}
		h := NewAuthHandler(service, &mockVerifier{}, nil, testAuthConfig())
		body := `{"member_id": "tester01", "member_password": "password123!"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		var resp messageResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return rec.Code, resp.Message
	}

	notFoundStatus, notFoundMsg := respond(model.NewMemberNotFoundError())
	wrongPassStatus, wrongPassMsg := respond(model.NewInvalidCredentialsError())

	if notFoundStatus == wrongPassStatus {
		t.Errorf("statuses are identical (%d), want distinct", notFoundStatus)
	}
	if notFoundMsg != wrongPassMsg {
		t.Errorf("messages differ: %q vs %q", notFoundMsg, wrongPassMsg)
	}
}

// 有効なトークンCookieで200とクレームが返ること
func TestAuthHandler_Verify_Success(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(tokenString string) (*model.TokenClaims, error) {
			if tokenString != "valid-token" {
				t.Errorf("token = %q, want %q", tokenString, "valid-token")
			}
			return &model.TokenClaims{
				MemberNum: 42,
				Nickname:  "테스터",
				Email:     "tester@example.com",
				MemberID:  "tester01",
			}, nil
		},
	}
	h := NewAuthHandler(&mockAuthService{}, verifier, nil, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		User model.TokenClaims `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.MemberNum != 42 {
		t.Errorf("user.memberNum = %d, want 42", resp.User.MemberNum)
	}
}

// Cookieがない場合は401とUnauthorizedメッセージが返ること
func TestAuthHandler_Verify_MissingCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockVerifier{}, nil, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var resp messageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Unauthorized" {
		t.Errorf("message = %q, want %q", resp.Message, "Unauthorized")
	}
}

// 無効なトークンの場合は401と期限切れ兼用メッセージが返ること
func TestAuthHandler_Verify_InvalidToken(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(_ string) (*model.TokenClaims, error) {
			return nil, errors.New("token is expired")
		},
	}
	h := NewAuthHandler(&mockAuthService{}, verifier, nil, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "expired-token"})
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var resp messageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Token is invalid or expired" {
		t.Errorf("message = %q, want %q", resp.Message, "Token is invalid or expired")
	}
}

// ログアウトでCookieが即時失効の属性付きで削除されること
func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockVerifier{}, nil, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp messageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Logout successful" {
		t.Errorf("message = %q, want %q", resp.Message, "Logout successful")
	}

	cookie := findCookie(t, rec, sessionCookieName)
	if cookie.Value != "" {
		t.Errorf("cookie value = %q, want empty", cookie.Value)
	}
	if cookie.MaxAge != -1 {
		t.Errorf("cookie MaxAge = %d, want -1", cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if cookie.Path != "/" {
		t.Errorf("cookie Path = %q, want /", cookie.Path)
	}
}

// findCookie はレスポンスから指定した名前のCookieを取り出す。
func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not found in response", name)
	return nil
}

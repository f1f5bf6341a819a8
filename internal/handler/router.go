package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jihoon/memberd/internal/metrics"
	"github.com/jihoon/memberd/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBの部分集合として定義する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	Verifier    TokenVerifier
	AuthConfig  AuthHandlerConfig

	// 約款
	ConsentService ConsentServiceInterface

	// 運用
	HealthChecker   HealthChecker
	MetricsGatherer prometheus.Gatherer
	MetricsRecorder interface {
		VerificationRecorder
		AgreementsRecorder
	}
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → RateLimit
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	var verifRecorder VerificationRecorder
	var agreementsRecorder AgreementsRecorder
	if deps.MetricsRecorder != nil {
		verifRecorder = deps.MetricsRecorder
		agreementsRecorder = deps.MetricsRecorder
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.Verifier, verifRecorder, deps.AuthConfig)
	consentHandler := NewConsentHandler(deps.ConsentService, agreementsRecorder)

	// --- 運用エンドポイント（レート制限の対象外）---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		// 会員登録・認証
		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/join", authHandler.Join)
			r.Post("/login", authHandler.Login)
			r.Get("/verify", authHandler.Verify)
			r.Post("/logout", authHandler.Logout)
		})

		// 約款
		r.Route("/api/terms", func(r chi.Router) {
			r.Get("/", consentHandler.ListTerms)
			r.Post("/agreements", consentHandler.SaveAgreements)
		})
	})

	return r
}

// NewHealthHandler はヘルスチェックエンドポイントのハンドラーを返す。
// DBへの到達性を確認し、到達できない場合は503を返す。
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
	}
}

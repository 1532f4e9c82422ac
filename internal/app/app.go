// Package app содержит HTTP-обработчики сервиса сокращения URL.
package app

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ChKSz/GreenLink/internal/middleware"
	"github.com/ChKSz/GreenLink/internal/models"
	"github.com/ChKSz/GreenLink/internal/repository"
	"github.com/ChKSz/GreenLink/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App содержит хендлеры и зависимости
type App struct {
	links    *service.LinkRegistry
	stats    *service.StatsTracker
	engine   *service.RedirectEngine
	auth     *service.AdminAuth
	limiter  *service.RateLimiter
	language *service.LanguageSettings
	store    repository.Store
	baseURL  string
	logger   *zap.Logger
}

// NewApp создаёт новое приложение
func NewApp(
	links *service.LinkRegistry,
	stats *service.StatsTracker,
	engine *service.RedirectEngine,
	auth *service.AdminAuth,
	limiter *service.RateLimiter,
	language *service.LanguageSettings,
	store repository.Store,
	baseURL string,
	logger *zap.Logger,
) *App {
	return &App{
		links:    links,
		stats:    stats,
		engine:   engine,
		auth:     auth,
		limiter:  limiter,
		language: language,
		store:    store,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Router собирает таблицу маршрутов сервиса
func (a *App) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware(a.logger))
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.GzipMiddleware)

	r.Get("/", a.HandleIndex)
	r.Get("/ping", a.HandlePing)
	r.Post("/api/shorten", a.HandleShorten)
	r.Post("/api/admin/login", a.HandleAdminLogin)
	r.Post("/api/admin/logout", a.HandleAdminLogout)
	r.Post("/api/stats", a.HandleStats)
	r.Post("/api/admin/delete", a.HandleAdminDelete)
	r.Get("/api/language", a.HandleGetLanguage)
	r.Post("/api/admin/language", a.HandleSetLanguage)
	r.Get("/manage", a.HandleManage)
	r.Get("/{shortCode}", a.HandleRedirect)

	return r
}

// HandleShorten обрабатывает POST-запросы на "/api/shorten"
func (a *App) HandleShorten(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	allowed, err := a.limiter.Allow(r.Context(), middleware.ClientIP(r))
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !allowed {
		w.Header().Set("Retry-After", "60")
		a.writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		return
	}

	var req models.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	created, err := a.links.Create(r.Context(), service.CreateParams{
		URL:         req.URL,
		CustomCode:  req.CustomCode,
		Password:    req.Password,
		MaxClicks:   int(req.MaxClicks),
		ExpiryHours: int(req.ExpiryHours),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyURL),
			errors.Is(err, service.ErrInvalidURL),
			errors.Is(err, service.ErrUnsafeURL):
			a.writeError(w, http.StatusBadRequest, "Invalid or unsafe URL")
		case errors.Is(err, service.ErrCodeInvalid):
			a.writeError(w, http.StatusBadRequest, "Invalid custom code")
		case errors.Is(err, service.ErrCodeReserved):
			a.writeError(w, http.StatusBadRequest, "Custom code is reserved")
		case errors.Is(err, service.ErrCodeExists):
			a.writeError(w, http.StatusConflict, "Custom code already exists")
		default:
			a.writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	responseTime := time.Since(start).Milliseconds()
	w.Header().Set("X-Response-Time", strconv.FormatInt(responseTime, 10)+"ms")
	a.writeJSON(w, http.StatusOK, models.ShortenResponse{
		ShortURL:      strings.TrimRight(a.baseURL, "/") + "/" + created.ShortCode,
		LongURL:       req.URL,
		ShortCode:     created.ShortCode,
		ResponseTime:  responseTime,
		HasPassword:   req.Password != "",
		HasExpiry:     req.ExpiryHours > 0,
		HasClickLimit: req.MaxClicks > 0,
	})
}

// HandleAdminLogin обрабатывает POST-запросы на "/api/admin/login"
func (a *App) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	token, err := a.auth.Login(r.Context(), req.Password, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			a.writeError(w, http.StatusUnauthorized, "Invalid password")
			return
		}
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	a.writeJSON(w, http.StatusOK, models.LoginResponse{Success: true, Token: token})
}

// HandleAdminLogout обрабатывает POST-запросы на "/api/admin/logout"
func (a *App) HandleAdminLogout(w http.ResponseWriter, r *http.Request) {
	var req models.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := a.auth.Logout(r.Context(), req.Token); err != nil {
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// HandleStats обрабатывает POST-запросы на "/api/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	var req models.StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if !a.auth.Verify(r.Context(), req.Token) {
		a.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if req.ShortCode == "" {
		a.writeError(w, http.StatusBadRequest, "Short code required")
		return
	}

	stats, found, err := a.stats.Fetch(r.Context(), req.ShortCode)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		a.writeError(w, http.StatusNotFound, "Statistics not found")
		return
	}
	a.writeJSON(w, http.StatusOK, stats)
}

// HandleAdminDelete обрабатывает POST-запросы на "/api/admin/delete"
func (a *App) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if !a.auth.Verify(r.Context(), req.Token) {
		a.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if req.ShortCode == "" {
		a.writeError(w, http.StatusBadRequest, "Short code required")
		return
	}

	if err := a.links.Delete(r.Context(), req.ShortCode); err != nil {
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// HandleGetLanguage обрабатывает GET-запросы на "/api/language".
// Любая ошибка чтения настройки даёт язык по умолчанию, не ошибку.
func (a *App) HandleGetLanguage(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, models.LanguageResponse{Language: a.language.Get(r.Context())})
}

// HandleSetLanguage обрабатывает POST-запросы на "/api/admin/language"
func (a *App) HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req models.SetLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if !a.auth.Verify(r.Context(), req.Token) {
		a.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := a.language.Set(r.Context(), req.Language); err != nil {
		if errors.Is(err, service.ErrInvalidLanguage) {
			a.writeError(w, http.StatusBadRequest, "Invalid language")
			return
		}
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// HandleRedirect обрабатывает GET-запросы на "/{shortCode}"
func (a *App) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	decision, err := a.engine.Resolve(r.Context(), shortCode, service.Visit{
		Password:  r.URL.Query().Get("p"),
		Referer:   r.Header.Get("Referer"),
		UserAgent: r.Header.Get("User-Agent"),
		Country:   r.Header.Get("CF-IPCountry"),
		Host:      requestHost(r),
	})
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch decision.Outcome {
	case service.OutcomeNotFound:
		a.writeHTML(w, http.StatusNotFound, notFoundPage)
	case service.OutcomeQuotaExceeded:
		a.writeHTML(w, http.StatusGone, limitExceededPage)
	case service.OutcomePasswordRequired:
		a.writeHTML(w, http.StatusOK, passwordPage(shortCode))
	default:
		http.Redirect(w, r, decision.URL, http.StatusMovedPermanently)
	}
}

// HandleIndex обрабатывает GET-запросы на "/"
func (a *App) HandleIndex(w http.ResponseWriter, r *http.Request) {
	a.writeHTML(w, http.StatusOK, indexPage)
}

// HandleManage обрабатывает GET-запросы на "/manage"
func (a *App) HandleManage(w http.ResponseWriter, r *http.Request) {
	a.writeHTML(w, http.StatusOK, managePage)
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		a.writeError(w, http.StatusInternalServerError, "Storage connection failed")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// writeJSON пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}

// writeError пишет JSON-ответ с сообщением об ошибке
func (a *App) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, models.ErrorResponse{Error: message})
}

// writeHTML пишет HTML-страницу с защитными заголовками
func (a *App) writeHTML(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(page)); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}

// requestHost возвращает имя хоста запроса без порта
func requestHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.Host); err == nil {
		return host
	}
	return r.Host
}

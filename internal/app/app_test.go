package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ChKSz/GreenLink/internal/models"
	"github.com/ChKSz/GreenLink/internal/repository"
	"github.com/ChKSz/GreenLink/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAdminPassword = "test-password"

func newTestApp(store repository.Store) *App {
	logger := zap.NewNop()
	stats := service.NewStatsTracker(store, logger)
	links := service.NewLinkRegistry(store, stats, logger)
	engine := service.NewRedirectEngine(links, stats, logger)
	auth := service.NewAdminAuth(store, testAdminPassword, logger)
	limiter := service.NewRateLimiter(store, logger)
	language := service.NewLanguageSettings(store, logger)
	return NewApp(links, stats, engine, auth, limiter, language, store, "http://localhost:8080", logger)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func shorten(t *testing.T, router http.Handler, body models.ShortenRequest) models.ShortenResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/shorten", body)
	require.Equal(t, http.StatusOK, rec.Code, "shorten failed: %s", rec.Body.String())

	var resp models.ShortenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/admin/login", models.LoginRequest{Password: testAdminPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHandleShorten(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	// Тест 1: успешное создание
	resp := shorten(t, router, models.ShortenRequest{URL: "https://example.com/page"})
	assert.Len(t, resp.ShortCode, 6)
	assert.Equal(t, "http://localhost:8080/"+resp.ShortCode, resp.ShortURL)
	assert.Equal(t, "https://example.com/page", resp.LongURL)
	assert.False(t, resp.HasPassword)
	assert.False(t, resp.HasExpiry)
	assert.False(t, resp.HasClickLimit)

	// Тест 2: флаги параметров в ответе
	resp = shorten(t, router, models.ShortenRequest{
		URL:         "https://example.com/other",
		Password:    "pw",
		MaxClicks:   5,
		ExpiryHours: 24,
	})
	assert.True(t, resp.HasPassword)
	assert.True(t, resp.HasExpiry)
	assert.True(t, resp.HasClickLimit)

	// Тест 3: пользовательский код
	resp = shorten(t, router, models.ShortenRequest{URL: "https://example.com", CustomCode: "promo"})
	assert.Equal(t, "promo", resp.ShortCode)
}

func TestHandleShorten_Errors(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	shorten(t, router, models.ShortenRequest{URL: "https://example.com", CustomCode: "taken"})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"invalid JSON", "{not json", http.StatusBadRequest, "Invalid request"},
		{"empty URL", `{"url":""}`, http.StatusBadRequest, "Invalid or unsafe URL"},
		{"relative URL", `{"url":"no-scheme"}`, http.StatusBadRequest, "Invalid or unsafe URL"},
		{"blocked domain", `{"url":"https://malware.com/x"}`, http.StatusBadRequest, "Invalid or unsafe URL"},
		{"bad custom code", `{"url":"https://example.com","customCode":"a b"}`, http.StatusBadRequest, "Invalid custom code"},
		{"reserved custom code", `{"url":"https://example.com","customCode":"api"}`, http.StatusBadRequest, "Custom code is reserved"},
		{"duplicate custom code", `{"url":"https://example.com","customCode":"taken"}`, http.StatusConflict, "Custom code already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var errResp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantError, errResp.Error)
		})
	}
}

func TestHandleShorten_NumericStrings(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	// Числовые параметры принимаются и строками
	body := `{"url":"https://example.com","maxClicks":"3","expiryHours":"24"}`
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.ShortenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.HasClickLimit)
	assert.True(t, resp.HasExpiry)
}

func TestHandleShorten_RateLimit(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(`{"url":"https://example.com"}`))
		req.Header.Set("X-Real-IP", "203.0.113.50")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// Первые десять запросов минуты проходят
	for i := 0; i < 10; i++ {
		rec := send()
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	// Одиннадцатый отклоняется с Retry-After
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// Другой клиент не затронут
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(`{"url":"https://example.com"}`))
	req.Header.Set("X-Real-IP", "203.0.113.51")
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestHandleRedirect(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	resp := shorten(t, router, models.ShortenRequest{URL: "https://example.com/target"})

	// Тест 1: обычное перенаправление
	req := httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://example.com/target", rec.Header().Get("Location"))

	// Тест 2: неизвестный код даёт HTML-страницу 404
	req = httptest.NewRequest(http.MethodGet, "/nosuchcode", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestHandleRedirect_ClickLimit(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	resp := shorten(t, router, models.ShortenRequest{URL: "https://example.com", MaxClicks: 1})

	req := httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMovedPermanently, rec.Code)

	// Лимит исчерпан, ссылка окончательно недоступна
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode, nil))
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHandleRedirect_Password(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	resp := shorten(t, router, models.ShortenRequest{URL: "https://example.com", Password: "letmein"})

	// Тест 1: без пароля возвращается форма со статусом 200
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="p"`)

	// Тест 2: неверный пароль снова даёт форму
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode+"?p=wrong", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="p"`)

	// Тест 3: верный пароль перенаправляет
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode+"?p=letmein", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Location"))
}

func TestAdminFlow(t *testing.T) {
	store := repository.NewMemoryStore()
	router := newTestApp(store).Router()

	// Тест 1: неверный пароль
	rec := doJSON(t, router, http.MethodPost, "/api/admin/login", models.LoginRequest{Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Тест 2: вход и запрос статистики
	token := login(t, router)
	resp := shorten(t, router, models.ShortenRequest{URL: "https://example.com"})

	// Переход наполняет статистику
	redirectReq := httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode, nil)
	redirectReq.Header.Set("CF-IPCountry", "DE")
	redirectRec := httptest.NewRecorder()
	router.ServeHTTP(redirectRec, redirectReq)
	require.Equal(t, http.StatusMovedPermanently, redirectRec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/stats", models.StatsRequest{ShortCode: resp.ShortCode, Token: token})
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Clicks)
	assert.Equal(t, "https://example.com", stats.URL)
	assert.Equal(t, 1, stats.Countries["DE"])

	// Тест 3: статистика без токена
	rec = doJSON(t, router, http.MethodPost, "/api/stats", models.StatsRequest{ShortCode: resp.ShortCode})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Тест 4: статистика без кода
	rec = doJSON(t, router, http.MethodPost, "/api/stats", models.StatsRequest{Token: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Тест 5: статистика несуществующего кода
	rec = doJSON(t, router, http.MethodPost, "/api/stats", models.StatsRequest{ShortCode: "missing", Token: token})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Тест 6: удаление ссылки
	rec = doJSON(t, router, http.MethodPost, "/api/admin/delete", models.DeleteRequest{ShortCode: resp.ShortCode, Token: token})
	require.Equal(t, http.StatusOK, rec.Code)

	redirectRec = httptest.NewRecorder()
	router.ServeHTTP(redirectRec, httptest.NewRequest(http.MethodGet, "/"+resp.ShortCode, nil))
	assert.Equal(t, http.StatusNotFound, redirectRec.Code)

	// Тест 7: выход делает токен недействительным
	rec = doJSON(t, router, http.MethodPost, "/api/admin/logout", models.LogoutRequest{Token: token})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/admin/delete", models.DeleteRequest{ShortCode: "any", Token: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLanguageEndpoints(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	// Тест 1: язык по умолчанию доступен без авторизации
	req := httptest.NewRequest(http.MethodGet, "/api/language", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var lang models.LanguageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lang))
	assert.Equal(t, "en", lang.Language)

	// Тест 2: смена языка требует токен
	rec = doJSON(t, router, http.MethodPost, "/api/admin/language", models.SetLanguageRequest{Language: "zh"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Тест 3: смена языка администратором
	token := login(t, router)
	rec = doJSON(t, router, http.MethodPost, "/api/admin/language", models.SetLanguageRequest{Language: "zh", Token: token})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/language", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lang))
	assert.Equal(t, "zh", lang.Language)

	// Тест 4: неподдерживаемый язык
	rec = doJSON(t, router, http.MethodPost, "/api/admin/language", models.SetLanguageRequest{Language: "fr", Token: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServicePages(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	for _, path := range []string{"/", "/manage"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "page %s", path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	}
}

func TestHandlePing(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSOnAPIRoutes(t *testing.T) {
	router := newTestApp(repository.NewMemoryStore()).Router()

	// Заголовки CORS присутствуют на обычном ответе
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/language", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	// Preflight-запрос замыкается middleware
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/shorten", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleShorten_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockStore(ctrl)
	mockStore.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("storage down"))

	router := newTestApp(mockStore).Router()

	rec := doJSON(t, router, http.MethodPost, "/api/shorten", models.ShortenRequest{URL: "https://example.com"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "Internal server error", errResp.Error)
}

func TestLegacyRecordRedirect(t *testing.T) {
	store := repository.NewMemoryStore()
	router := newTestApp(store).Router()

	// Запись старого формата — голая строка URL без JSON
	require.NoError(t, store.Put(context.Background(), "legacy", []byte("https://old.example.com"), 0))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/legacy", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://old.example.com", rec.Header().Get("Location"))
}

func ExampleApp_HandleShorten() {
	store := repository.NewMemoryStore()
	router := newTestApp(store).Router()

	body := strings.NewReader(`{"url":"https://example.com","customCode":"docs"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp models.ShortenResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	fmt.Println(resp.ShortURL)
	// Output: http://localhost:8080/docs
}

// Package proto содержит определения типов для gRPC сервиса GreenLink
package proto

// ShortenRequest представляет запрос на создание короткой ссылки
type ShortenRequest struct {
	URL         string `json:"url"`
	CustomCode  string `json:"custom_code"`
	Password    string `json:"password"`
	MaxClicks   int    `json:"max_clicks"`
	ExpiryHours int    `json:"expiry_hours"`
}

// ShortenResponse представляет ответ с созданной короткой ссылкой
type ShortenResponse struct {
	ShortURL  string `json:"short_url"`
	ShortCode string `json:"short_code"`
	Created   string `json:"created"`
}

// LoginRequest представляет запрос на вход администратора
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse представляет ответ с токеном сессии
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// LogoutRequest представляет запрос на выход администратора;
// токен передаётся в метаданных запроса
type LogoutRequest struct{}

// LogoutResponse представляет подтверждение выхода
type LogoutResponse struct {
	Success bool `json:"success"`
}

// GetStatsRequest представляет запрос статистики по короткому коду
type GetStatsRequest struct {
	ShortCode string `json:"short_code"`
}

// GetStatsResponse представляет ответ со статистикой переходов
type GetStatsResponse struct {
	Clicks      int            `json:"clicks"`
	Created     string         `json:"created"`
	LastAccess  string         `json:"last_access"`
	URL         string         `json:"url"`
	ExpiresAt   string         `json:"expires_at"`
	Referrers   map[string]int `json:"referrers"`
	Countries   map[string]int `json:"countries"`
	UserAgents  map[string]int `json:"user_agents"`
	DailyClicks map[string]int `json:"daily_clicks"`
}

// DeleteLinkRequest представляет запрос на удаление ссылки
type DeleteLinkRequest struct {
	ShortCode string `json:"short_code"`
}

// DeleteLinkResponse представляет подтверждение удаления
type DeleteLinkResponse struct {
	Success bool `json:"success"`
}

// GetLanguageRequest представляет запрос текущего языка интерфейса
type GetLanguageRequest struct{}

// GetLanguageResponse представляет ответ с языком интерфейса
type GetLanguageResponse struct {
	Language string `json:"language"`
}

// SetLanguageRequest представляет запрос на смену языка интерфейса
type SetLanguageRequest struct {
	Language string `json:"language"`
}

// SetLanguageResponse представляет подтверждение смены языка
type SetLanguageResponse struct {
	Success bool `json:"success"`
}

// PingRequest представляет запрос проверки состояния
type PingRequest struct{}

// PingResponse представляет ответ проверки состояния
type PingResponse struct {
	StorageAvailable bool `json:"storage_available"`
}

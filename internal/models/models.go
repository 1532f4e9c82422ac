// Package models содержит структуры данных сервиса сокращения URL.
package models

import (
	"bytes"
	"strconv"
)

// Link представляет запись короткой ссылки в хранилище
type Link struct {
	URL           string `json:"url"`
	Created       string `json:"created"`
	Password      string `json:"password,omitempty"`
	MaxClicks     int    `json:"maxClicks,omitempty"`
	CurrentClicks int    `json:"currentClicks"`
}

// Stats представляет запись статистики переходов по короткой ссылке
type Stats struct {
	Clicks      int            `json:"clicks"`
	Created     string         `json:"created"`
	LastAccess  string         `json:"lastAccess,omitempty"`
	URL         string         `json:"url"`
	ExpiresAt   string         `json:"expiresAt,omitempty"`
	Referrers   map[string]int `json:"referrers"`
	Countries   map[string]int `json:"countries"`
	UserAgents  map[string]int `json:"userAgents"`
	DailyClicks map[string]int `json:"dailyClicks"`
}

// Session представляет административную сессию
type Session struct {
	Created   string `json:"created"`
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
}

// AuditEntry представляет запись журнала административных действий
type AuditEntry struct {
	Action    string `json:"action"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
	UserAgent string `json:"userAgent"`
}

// LanguageSetting представляет глобальную настройку языка интерфейса
type LanguageSetting struct {
	Language  string `json:"language"`
	UpdatedAt string `json:"updatedAt"`
}

// FlexInt принимает из JSON как числа, так и числовые строки
type FlexInt int

// UnmarshalJSON разбирает число или числовую строку, null даёт ноль
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// ShortenRequest представляет тело запроса на создание короткой ссылки
type ShortenRequest struct {
	URL         string  `json:"url"`
	CustomCode  string  `json:"customCode,omitempty"`
	ExpiryHours FlexInt `json:"expiryHours,omitempty"`
	Password    string  `json:"password,omitempty"`
	MaxClicks   FlexInt `json:"maxClicks,omitempty"`
}

// ShortenResponse представляет ответ на создание короткой ссылки
type ShortenResponse struct {
	ShortURL      string `json:"shortUrl"`
	LongURL       string `json:"longUrl"`
	ShortCode     string `json:"shortCode"`
	ResponseTime  int64  `json:"responseTime"`
	HasPassword   bool   `json:"hasPassword"`
	HasExpiry     bool   `json:"hasExpiry"`
	HasClickLimit bool   `json:"hasClickLimit"`
}

// LoginRequest представляет тело запроса на вход администратора
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse представляет ответ с токеном сессии
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// LogoutRequest представляет тело запроса на выход администратора
type LogoutRequest struct {
	Token string `json:"token"`
}

// StatsRequest представляет запрос статистики по короткому коду
type StatsRequest struct {
	ShortCode string `json:"shortCode"`
	Token     string `json:"token"`
}

// DeleteRequest представляет запрос на удаление ссылки
type DeleteRequest struct {
	ShortCode string `json:"shortCode"`
	Token     string `json:"token"`
}

// LanguageResponse представляет ответ с текущим языком интерфейса
type LanguageResponse struct {
	Language string `json:"language"`
}

// SetLanguageRequest представляет запрос на смену языка интерфейса
type SetLanguageRequest struct {
	Language string `json:"language"`
	Token    string `json:"token"`
}

// SuccessResponse представляет подтверждение выполнения операции
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse представляет тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

package service

import (
	"net/url"
	"regexp"
	"strings"
)

// blockedDomains содержит подстроки доменов, на которые запрещено создавать ссылки
var blockedDomains = []string{
	"malware.com",
	"phishing.com",
	"spam.com",
}

// reservedCodes содержит имена, занятые маршрутами сервиса
var reservedCodes = map[string]bool{
	"manage":        true,
	"api":           true,
	"ping":          true,
	"manifest.json": true,
	"sw.js":         true,
}

// codePattern задаёт допустимый синтаксис короткого кода
var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)

// isValidURL проверяет, что строка разбирается как абсолютный URL
func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs()
}

// isSafeURL проверяет URL по чёрному списку доменов и запрещает
// вхождения javascript: и data: в любом месте строки
func isSafeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, blocked := range blockedDomains {
		if strings.Contains(host, blocked) {
			return false
		}
	}

	if strings.Contains(raw, "javascript:") || strings.Contains(raw, "data:") {
		return false
	}

	return true
}

// validateCustomCode проверяет синтаксис пользовательского кода и занятые имена
func validateCustomCode(code string) error {
	if !codePattern.MatchString(code) {
		return ErrCodeInvalid
	}
	if reservedCodes[code] {
		return ErrCodeReserved
	}
	return nil
}

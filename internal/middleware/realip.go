package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP извлекает адрес клиента из заголовков прокси или RemoteAddr.
// Для неопределимого адреса возвращается пустая строка — вызывающий
// решает, как группировать таких клиентов.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Берём первый адрес в списке
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

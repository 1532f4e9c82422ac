// Package middleware содержит HTTP middleware для обработки запросов.
// Включает CORS, логирование, сжатие ответов, идентификаторы запросов
// и извлечение адреса клиента.
package middleware

import "net/http"

// CORSMiddleware добавляет заголовки CORS к каждому ответу и
// коротко замыкает preflight-запросы OPTIONS
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

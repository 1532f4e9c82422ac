package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// minGzipSize — минимальный размер ответа, при котором включается сжатие
const minGzipSize = 1400

// GzipMiddleware обрабатывает Gzip-сжатие для запросов и ответов
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Распаковываем сжатое тело запроса
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			defer gz.Close()
			r.Body = io.NopCloser(gz)
		}

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()

		next.ServeHTTP(gw, r)
	})
}

// gzipResponseWriter оборачивает http.ResponseWriter для сжатия ответа.
// Статус не отправляется до первого Write: заголовок Content-Encoding
// должен быть выставлен раньше кода ответа.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz         *gzip.Writer
	statusCode int
	started    bool
}

// WriteHeader откладывает отправку статуса до первого Write
func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.started {
		return
	}
	w.statusCode = statusCode
}

// Write сжимает подходящие по типу и размеру ответы
func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.started {
		contentType := w.Header().Get("Content-Type")
		compressible := strings.HasPrefix(contentType, "application/json") ||
			strings.HasPrefix(contentType, "text/html")
		if compressible && len(b) >= minGzipSize {
			w.gz = gzip.NewWriter(w.ResponseWriter)
			w.Header().Set("Content-Encoding", "gzip")
		}
		if w.statusCode != 0 {
			w.ResponseWriter.WriteHeader(w.statusCode)
		}
		w.started = true
	}

	if w.gz != nil {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// Close закрывает gzip.Writer и досылает отложенный статус пустых ответов
func (w *gzipResponseWriter) Close() error {
	if !w.started && w.statusCode != 0 {
		w.ResponseWriter.WriteHeader(w.statusCode)
		w.started = true
	}
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}

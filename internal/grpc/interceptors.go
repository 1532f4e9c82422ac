// Package grpc содержит интерцепторы для gRPC сервера
package grpc

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/ChKSz/GreenLink/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// contextKey определяет тип для ключей контекста
type contextKey string

const tokenKey contextKey = "sessionToken"

// adminMethods перечисляет методы, требующие действительной сессии администратора
var adminMethods = map[string]bool{
	"/greenlink.v1.GreenLinkService/Logout":      true,
	"/greenlink.v1.GreenLinkService/GetStats":    true,
	"/greenlink.v1.GreenLinkService/DeleteLink":  true,
	"/greenlink.v1.GreenLinkService/SetLanguage": true,
}

// AuthInterceptor извлекает токен сессии из метаданных и проверяет его
// для административных методов. Причина отказа не раскрывается.
func AuthInterceptor(auth *service.AdminAuth, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		var token string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
				token = strings.TrimPrefix(authHeaders[0], "Bearer ")
			}
		}
		ctx = context.WithValue(ctx, tokenKey, token)

		if adminMethods[info.FullMethod] && info.FullMethod != "/greenlink.v1.GreenLinkService/Logout" {
			if !auth.Verify(ctx, token) {
				logger.Warn("Unauthenticated gRPC call", zap.String("method", info.FullMethod))
				return nil, status.Error(codes.Unauthenticated, "authentication required")
			}
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor создаёт интерцептор для логирования gRPC запросов
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		code := codes.OK
		if err != nil {
			code = status.Code(err)
		}
		logger.Info("gRPC request",
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration_ms", time.Since(start)/time.Millisecond),
		)
		return resp, err
	}
}

// sessionToken извлекает токен сессии, сохранённый интерцептором
func sessionToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// peerIP возвращает адрес клиента или общую корзину для неопределимых адресов
func peerIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok {
		return service.UnknownClient
	}
	if tcpAddr, ok := p.Addr.(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}

// Package proto содержит интерфейс gRPC сервиса GreenLink
package proto

import (
	"context"

	"google.golang.org/grpc"
)

// GreenLinkServiceServer представляет интерфейс gRPC сервиса
type GreenLinkServiceServer interface {
	Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, req *LogoutRequest) (*LogoutResponse, error)
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
	DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error)
	GetLanguage(ctx context.Context, req *GetLanguageRequest) (*GetLanguageResponse, error)
	SetLanguage(ctx context.Context, req *SetLanguageRequest) (*SetLanguageResponse, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
}

// UnimplementedGreenLinkServiceServer предоставляет базовую реализацию интерфейса
type UnimplementedGreenLinkServiceServer struct{}

// Shorten предоставляет базовую реализацию создания короткой ссылки
func (UnimplementedGreenLinkServiceServer) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	return nil, nil
}

// Login предоставляет базовую реализацию входа администратора
func (UnimplementedGreenLinkServiceServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	return nil, nil
}

// Logout предоставляет базовую реализацию выхода администратора
func (UnimplementedGreenLinkServiceServer) Logout(ctx context.Context, req *LogoutRequest) (*LogoutResponse, error) {
	return nil, nil
}

// GetStats предоставляет базовую реализацию получения статистики
func (UnimplementedGreenLinkServiceServer) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, nil
}

// DeleteLink предоставляет базовую реализацию удаления ссылки
func (UnimplementedGreenLinkServiceServer) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	return nil, nil
}

// GetLanguage предоставляет базовую реализацию получения языка интерфейса
func (UnimplementedGreenLinkServiceServer) GetLanguage(ctx context.Context, req *GetLanguageRequest) (*GetLanguageResponse, error) {
	return nil, nil
}

// SetLanguage предоставляет базовую реализацию смены языка интерфейса
func (UnimplementedGreenLinkServiceServer) SetLanguage(ctx context.Context, req *SetLanguageRequest) (*SetLanguageResponse, error) {
	return nil, nil
}

// Ping предоставляет базовую реализацию проверки состояния
func (UnimplementedGreenLinkServiceServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return nil, nil
}

// RegisterGreenLinkServiceServer регистрирует реализацию сервиса в gRPC сервере.
// Дескриптор сервиса генерируется protoc; до подключения кодогенерации
// регистрация остаётся заглушкой.
func RegisterGreenLinkServiceServer(s *grpc.Server, srv GreenLinkServiceServer) {
}

// Package grpc содержит реализацию gRPC сервера сервиса GreenLink
package grpc

import (
	"context"
	"errors"

	"github.com/ChKSz/GreenLink/internal/grpc/proto"
	"github.com/ChKSz/GreenLink/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервер сервиса GreenLink
type Server struct {
	proto.UnimplementedGreenLinkServiceServer
	links    *service.LinkRegistry
	stats    *service.StatsTracker
	auth     *service.AdminAuth
	limiter  *service.RateLimiter
	language *service.LanguageSettings
	pinger   Pinger
	logger   *zap.Logger
}

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewServer создаёт новый gRPC сервер
func NewServer(
	links *service.LinkRegistry,
	stats *service.StatsTracker,
	auth *service.AdminAuth,
	limiter *service.RateLimiter,
	language *service.LanguageSettings,
	pinger Pinger,
	logger *zap.Logger,
) *Server {
	return &Server{
		links:    links,
		stats:    stats,
		auth:     auth,
		limiter:  limiter,
		language: language,
		pinger:   pinger,
		logger:   logger,
	}
}

// Shorten обрабатывает создание короткой ссылки
func (s *Server) Shorten(ctx context.Context, req *proto.ShortenRequest) (*proto.ShortenResponse, error) {
	if req.URL == "" {
		return nil, status.Error(codes.InvalidArgument, "URL is required")
	}

	allowed, err := s.limiter.Allow(ctx, peerIP(ctx))
	if err != nil {
		return nil, status.Error(codes.Internal, "rate limiter unavailable")
	}
	if !allowed {
		return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}

	created, err := s.links.Create(ctx, service.CreateParams{
		URL:         req.URL,
		CustomCode:  req.CustomCode,
		Password:    req.Password,
		MaxClicks:   req.MaxClicks,
		ExpiryHours: req.ExpiryHours,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &proto.ShortenResponse{
		ShortCode: created.ShortCode,
		Created:   created.Created,
	}, nil
}

// Login обрабатывает вход администратора
func (s *Server) Login(ctx context.Context, req *proto.LoginRequest) (*proto.LoginResponse, error) {
	token, err := s.auth.Login(ctx, req.Password, peerIP(ctx), "grpc")
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "invalid password")
		}
		return nil, status.Error(codes.Internal, "login failed")
	}
	return &proto.LoginResponse{Success: true, Token: token}, nil
}

// Logout завершает сессию администратора; токен берётся из метаданных
func (s *Server) Logout(ctx context.Context, req *proto.LogoutRequest) (*proto.LogoutResponse, error) {
	if err := s.auth.Logout(ctx, sessionToken(ctx)); err != nil {
		return nil, status.Error(codes.Internal, "logout failed")
	}
	return &proto.LogoutResponse{Success: true}, nil
}

// GetStats возвращает статистику переходов по короткому коду
func (s *Server) GetStats(ctx context.Context, req *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	if req.ShortCode == "" {
		return nil, status.Error(codes.InvalidArgument, "short code is required")
	}

	stats, found, err := s.stats.Fetch(ctx, req.ShortCode)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to fetch stats")
	}
	if !found {
		return nil, status.Error(codes.NotFound, "statistics not found")
	}

	return &proto.GetStatsResponse{
		Clicks:      stats.Clicks,
		Created:     stats.Created,
		LastAccess:  stats.LastAccess,
		URL:         stats.URL,
		ExpiresAt:   stats.ExpiresAt,
		Referrers:   stats.Referrers,
		Countries:   stats.Countries,
		UserAgents:  stats.UserAgents,
		DailyClicks: stats.DailyClicks,
	}, nil
}

// DeleteLink удаляет ссылку вместе со статистикой
func (s *Server) DeleteLink(ctx context.Context, req *proto.DeleteLinkRequest) (*proto.DeleteLinkResponse, error) {
	if req.ShortCode == "" {
		return nil, status.Error(codes.InvalidArgument, "short code is required")
	}
	if err := s.links.Delete(ctx, req.ShortCode); err != nil {
		return nil, status.Error(codes.Internal, "failed to delete link")
	}
	return &proto.DeleteLinkResponse{Success: true}, nil
}

// GetLanguage возвращает текущий язык интерфейса
func (s *Server) GetLanguage(ctx context.Context, req *proto.GetLanguageRequest) (*proto.GetLanguageResponse, error) {
	return &proto.GetLanguageResponse{Language: s.language.Get(ctx)}, nil
}

// SetLanguage устанавливает язык интерфейса
func (s *Server) SetLanguage(ctx context.Context, req *proto.SetLanguageRequest) (*proto.SetLanguageResponse, error) {
	if err := s.language.Set(ctx, req.Language); err != nil {
		if errors.Is(err, service.ErrInvalidLanguage) {
			return nil, status.Error(codes.InvalidArgument, "invalid language")
		}
		return nil, status.Error(codes.Internal, "failed to set language")
	}
	return &proto.SetLanguageResponse{Success: true}, nil
}

// Ping проверяет доступность хранилища
func (s *Server) Ping(ctx context.Context, req *proto.PingRequest) (*proto.PingResponse, error) {
	if err := s.pinger.Ping(ctx); err != nil {
		return &proto.PingResponse{StorageAvailable: false}, nil
	}
	return &proto.PingResponse{StorageAvailable: true}, nil
}

// mapError переводит ошибки сервисного слоя в коды gRPC
func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyURL),
		errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrUnsafeURL),
		errors.Is(err, service.ErrCodeInvalid),
		errors.Is(err, service.ErrCodeReserved):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrCodeExists):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		s.logger.Error("Internal gRPC error", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

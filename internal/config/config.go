// Package config отвечает за настройки приложения из флагов и переменных окружения.
package config

import (
	"errors"
	"flag"
	"os"
	"strings"
)

// Config содержит настройки приложения
type Config struct {
	RunAddr         string
	GRPCAddr        string
	BaseURL         string
	DatabaseDSN     string
	RedisAddr       string
	FileStoragePath string
	AdminPassword   string
}

// NewConfig создает и возвращает новый объект Config с настройками по умолчанию
// и парсит флаги командной строки. Переменные окружения имеют приоритет над флагами.
func NewConfig() (*Config, error) {
	cfg := &Config{
		RunAddr: ":8080",
		BaseURL: "http://localhost:8080",
	}

	// Регистрируем флаги
	flagRunAddr := flag.String("a", ":8080", "address and port to run HTTP server")
	flagGRPCAddr := flag.String("g", "", "address and port to run gRPC server (disabled if empty)")
	flagBaseURL := flag.String("b", "http://localhost:8080", "base URL for shortened links")
	flagDatabaseDSN := flag.String("d", "", "database DSN for PostgreSQL storage")
	flagRedisAddr := flag.String("r", "", "address of Redis storage")
	flagFilePath := flag.String("f", "", "path to file for storing records")
	flagAdminPassword := flag.String("p", "", "admin panel password")
	flag.Parse()

	// Проверяем переменные окружения
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.RunAddr = addr
	} else if *flagRunAddr != "" {
		cfg.RunAddr = *flagRunAddr
	}

	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		cfg.GRPCAddr = addr
	} else if *flagGRPCAddr != "" {
		cfg.GRPCAddr = *flagGRPCAddr
	}

	if url := os.Getenv("BASE_URL"); url != "" {
		cfg.BaseURL = url
	} else if *flagBaseURL != "" {
		cfg.BaseURL = *flagBaseURL
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	} else if *flagDatabaseDSN != "" {
		cfg.DatabaseDSN = *flagDatabaseDSN
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	} else if *flagRedisAddr != "" {
		cfg.RedisAddr = *flagRedisAddr
	}

	if path := os.Getenv("FILE_STORAGE_PATH"); path != "" {
		cfg.FileStoragePath = path
	} else if *flagFilePath != "" {
		cfg.FileStoragePath = *flagFilePath
	}

	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.AdminPassword = password
	} else if *flagAdminPassword != "" {
		cfg.AdminPassword = *flagAdminPassword
	}

	// Нормализация значений
	cfg.RunAddr = normalizeAddress(cfg.RunAddr)
	if cfg.GRPCAddr != "" {
		cfg.GRPCAddr = normalizeAddress(cfg.GRPCAddr)
	}
	cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)

	if cfg.AdminPassword == "" {
		return nil, errors.New("admin password is required (flag -p or ADMIN_PASSWORD)")
	}

	return cfg, nil
}

// normalizeAddress дополняет адрес двоеточием, если указан только порт
func normalizeAddress(addr string) string {
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

// normalizeBaseURL дополняет базовый URL схемой http://, если схема не указана
func normalizeBaseURL(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

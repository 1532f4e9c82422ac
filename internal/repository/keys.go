package repository

import "strconv"

// LanguageKey хранит глобальную настройку языка интерфейса
const LanguageKey = "system:language"

// StatsKey возвращает ключ записи статистики для короткого кода
func StatsKey(shortCode string) string {
	return "stats:" + shortCode
}

// SessionKey возвращает ключ административной сессии по токену
func SessionKey(token string) string {
	return "session:" + token
}

// RateKey возвращает ключ счётчика запросов клиента в минутном окне
func RateKey(identity string, minuteBucket int64) string {
	return "rate:" + identity + ":" + strconv.FormatInt(minuteBucket, 10)
}

// LogKey возвращает ключ записи журнала административных действий
func LogKey(unixMilli int64, suffix string) string {
	return "log:" + strconv.FormatInt(unixMilli, 10) + ":" + suffix
}

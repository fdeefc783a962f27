package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignMediaPath вычисляет HMAC-SHA256 подпись пути медиафайла
func SignMediaPath(path string, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(path))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyMediaPath проверяет подпись пути медиафайла
func VerifyMediaPath(path, signature string, key string) bool {
	expected := SignMediaPath(path, key)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// PublicMediaURL формирует публичную ссылку на медиафайл: фиксированный
// префикс бакета, путь и HMAC-подпись в параметре sig
func PublicMediaURL(prefix, path, key string) string {
	trimmed := strings.TrimPrefix(path, "/")
	return prefix + trimmed + "?sig=" + SignMediaPath(trimmed, key)
}

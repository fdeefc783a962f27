package utils

import (
	"strings"
	"testing"
)

func TestSignMediaPathDeterministic(t *testing.T) {
	// Одинаковый вход дает одинаковую подпись
	first := SignMediaPath("uploads/receipt.jpg", "secret")
	second := SignMediaPath("uploads/receipt.jpg", "secret")
	if first != second {
		t.Errorf("signature not deterministic: %s != %s", first, second)
	}

	// Другой ключ дает другую подпись
	other := SignMediaPath("uploads/receipt.jpg", "other-secret")
	if first == other {
		t.Errorf("signature must depend on key")
	}
}

func TestVerifyMediaPath(t *testing.T) {
	sig := SignMediaPath("uploads/receipt.jpg", "secret")

	if !VerifyMediaPath("uploads/receipt.jpg", sig, "secret") {
		t.Errorf("valid signature rejected")
	}
	if VerifyMediaPath("uploads/other.jpg", sig, "secret") {
		t.Errorf("signature for wrong path accepted")
	}
	if VerifyMediaPath("uploads/receipt.jpg", sig, "wrong-key") {
		t.Errorf("signature with wrong key accepted")
	}
}

func TestPublicMediaURL(t *testing.T) {
	url := PublicMediaURL("https://storage.example.com/public/", "/uploads/receipt.jpg", "secret")

	// Ведущий слеш пути не дублируется
	if !strings.HasPrefix(url, "https://storage.example.com/public/uploads/receipt.jpg?sig=") {
		t.Errorf("unexpected url: %s", url)
	}

	// Подпись в ссылке проверяема
	sig := url[strings.Index(url, "?sig=")+len("?sig="):]
	if !VerifyMediaPath("uploads/receipt.jpg", sig, "secret") {
		t.Errorf("url signature does not verify")
	}
}

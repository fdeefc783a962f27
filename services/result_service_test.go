package services

import (
	"testing"

	"loyaltyProject/models"
)

func TestParseResultLines(t *testing.T) {
	// Блок с кредитом, дебетом и мусорной строкой
	text := "10 alice\n-5 bob\ngarbage"

	lines, skipped := parseResultLines(text)

	if len(lines) != 2 {
		t.Fatalf("parseResultLines: got %d lines want %d", len(lines), 2)
	}
	if skipped != 1 {
		t.Errorf("parseResultLines: got %d skipped want %d", skipped, 1)
	}

	// "10 alice": дебет, сумма хранится с инвертированным знаком
	if lines[0].Type != models.TransactionTypeDebit {
		t.Errorf("line 0 type: got %v want %v", lines[0].Type, models.TransactionTypeDebit)
	}
	if lines[0].Amount != -10 {
		t.Errorf("line 0 amount: got %v want %v", lines[0].Amount, -10.0)
	}
	if lines[0].Username != "alice" {
		t.Errorf("line 0 username: got %v want %v", lines[0].Username, "alice")
	}

	// "-5 bob": кредит, сумма хранится с инвертированным знаком
	if lines[1].Type != models.TransactionTypeCredit {
		t.Errorf("line 1 type: got %v want %v", lines[1].Type, models.TransactionTypeCredit)
	}
	if lines[1].Amount != 5 {
		t.Errorf("line 1 amount: got %v want %v", lines[1].Amount, 5.0)
	}
	if lines[1].Username != "bob" {
		t.Errorf("line 1 username: got %v want %v", lines[1].Username, "bob")
	}
}

func TestParseResultLinesSkipsMalformed(t *testing.T) {
	// Пустые строки игнорируются, неполные и нечисловые пропускаются со счетчиком
	text := "\n\nsingletoken\nabc alice\n  \n7.5 carol\n"

	lines, skipped := parseResultLines(text)

	if len(lines) != 1 {
		t.Fatalf("parseResultLines: got %d lines want %d", len(lines), 1)
	}
	if skipped != 2 {
		t.Errorf("parseResultLines: got %d skipped want %d", skipped, 2)
	}
	if lines[0].Username != "carol" || lines[0].Amount != -7.5 {
		t.Errorf("line 0: got %+v", lines[0])
	}
}

func TestParseResultLinesUsernameWithSpaces(t *testing.T) {
	// Разделитель - первый пробел, остаток строки целиком считается именем
	lines, skipped := parseResultLines("12 van der berg")

	if len(lines) != 1 || skipped != 0 {
		t.Fatalf("parseResultLines: got %d lines, %d skipped", len(lines), skipped)
	}
	if lines[0].Username != "van der berg" {
		t.Errorf("username: got %q want %q", lines[0].Username, "van der berg")
	}
}

func TestResolveResultUser(t *testing.T) {
	users := []models.User{
		{ID: 1, Email: "Alice@example.com"},
		{ID: 2, Email: "bob@example.com"},
		{ID: 3, Email: "alicia@example.com"},
	}

	// Точное совпадение локальной части без учета регистра
	user := resolveResultUser(users, "alice")
	if user == nil || user.ID != 1 {
		t.Errorf("resolveResultUser alice: got %+v want user 1", user)
	}

	user = resolveResultUser(users, "BOB")
	if user == nil || user.ID != 2 {
		t.Errorf("resolveResultUser BOB: got %+v want user 2", user)
	}

	// Частичное совпадение не считается совпадением
	user = resolveResultUser(users, "alic")
	if user != nil {
		t.Errorf("resolveResultUser alic: got user %d want nil", user.ID)
	}

	// Неизвестное имя не сопоставляется
	user = resolveResultUser(users, "dave")
	if user != nil {
		t.Errorf("resolveResultUser dave: got user %d want nil", user.ID)
	}
}

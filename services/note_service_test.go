package services

import (
	"testing"

	"loyaltyProject/models"
)

func TestCanTransitionFromPending(t *testing.T) {
	// Из PENDING разрешены оба терминальных статуса
	if !canTransition(models.NoteStatusPending, models.NoteStatusApproved) {
		t.Errorf("PENDING -> APPROVED must be allowed")
	}
	if !canTransition(models.NoteStatusPending, models.NoteStatusRejected) {
		t.Errorf("PENDING -> REJECTED must be allowed")
	}
}

func TestCanTransitionFromTerminal(t *testing.T) {
	// Терминальные статусы не допускают повторной обработки
	if canTransition(models.NoteStatusApproved, models.NoteStatusApproved) {
		t.Errorf("APPROVED -> APPROVED must be rejected")
	}
	if canTransition(models.NoteStatusApproved, models.NoteStatusRejected) {
		t.Errorf("APPROVED -> REJECTED must be rejected")
	}
	if canTransition(models.NoteStatusRejected, models.NoteStatusApproved) {
		t.Errorf("REJECTED -> APPROVED must be rejected")
	}
	if canTransition(models.NoteStatusRejected, models.NoteStatusRejected) {
		t.Errorf("REJECTED -> REJECTED must be rejected")
	}
}

func TestCanTransitionBackToPending(t *testing.T) {
	// Возврат в PENDING не предусмотрен
	if canTransition(models.NoteStatusPending, models.NoteStatusPending) {
		t.Errorf("PENDING -> PENDING must be rejected")
	}
	if canTransition(models.NoteStatusApproved, models.NoteStatusPending) {
		t.Errorf("APPROVED -> PENDING must be rejected")
	}
}

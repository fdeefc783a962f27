package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"loyaltyProject/models"

	"github.com/beevik/etree"
	"gorm.io/gorm"
)

// StatementService формирует XML-выписку по балансам и транзакциям пользователя
type StatementService struct {
	db *gorm.DB
}

// NewStatementService создает новый экземпляр StatementService
func NewStatementService(db *gorm.DB) *StatementService {
	return &StatementService{db: db}
}

// BuildUserStatement строит XML-выписку: все балансы и баки пользователя
// по категориям и транзакции, затронувшие каждый из них
func (s *StatementService) BuildUserStatement(userID uint) (string, error) {
	// Проверяем, что пользователь существует
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("пользователь не найден")
		}
		return "", errors.New("ошибка при поиске пользователя")
	}

	// Загружаем балансы
	var balances []models.AccountBalance
	if err := s.db.Where("user_id = ?", userID).Preload("Category").Find(&balances).Error; err != nil {
		return "", errors.New("ошибка при получении балансов")
	}

	// Загружаем баки
	var bakis []models.Baki
	if err := s.db.Where("user_id = ?", userID).Preload("Category").Find(&bakis).Error; err != nil {
		return "", errors.New("ошибка при получении баки")
	}

	// Формируем документ
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	statement := doc.CreateElement("statement")
	statement.CreateAttr("generated", time.Now().Format(time.RFC3339))

	userEl := statement.CreateElement("user")
	userEl.CreateAttr("id", strconv.FormatUint(uint64(user.ID), 10))
	userEl.CreateAttr("email", user.Email)
	userEl.CreateElement("name").SetText(user.FirstName + " " + user.LastName)

	balancesEl := statement.CreateElement("accountBalances")
	for i := range balances {
		if err := s.appendBalanceElement(balancesEl, "balance", balances[i].ID, balances[i].CategoryID,
			balances[i].Category.Name, balances[i].Balance, "account_balance_id"); err != nil {
			return "", err
		}
	}

	bakisEl := statement.CreateElement("bakis")
	for i := range bakis {
		if err := s.appendBalanceElement(bakisEl, "baki", bakis[i].ID, bakis[i].CategoryID,
			bakis[i].Category.Name, bakis[i].Balance, "baki_id"); err != nil {
			return "", err
		}
	}

	doc.Indent(2)
	xml, err := doc.WriteToString()
	if err != nil {
		return "", errors.New("ошибка при формировании выписки")
	}

	return xml, nil
}

// appendBalanceElement добавляет в документ элемент баланса с его транзакциями
func (s *StatementService) appendBalanceElement(parent *etree.Element, tag string, balanceID, categoryID uint, categoryName string, balance float64, refColumn string) error {
	el := parent.CreateElement(tag)
	el.CreateAttr("id", strconv.FormatUint(uint64(balanceID), 10))
	el.CreateAttr("categoryId", strconv.FormatUint(uint64(categoryID), 10))
	el.CreateAttr("category", categoryName)
	el.CreateAttr("amount", fmt.Sprintf("%.2f", balance))

	// Загружаем транзакции строки баланса
	var transactions []models.Transaction
	if err := s.db.Where(refColumn+" = ?", balanceID).Order("created_at").Find(&transactions).Error; err != nil {
		return errors.New("ошибка при получении транзакций")
	}

	txsEl := el.CreateElement("transactions")
	for i := range transactions {
		t := &transactions[i]
		txEl := txsEl.CreateElement("transaction")
		txEl.CreateAttr("id", strconv.FormatUint(uint64(t.ID), 10))
		txEl.CreateAttr("type", string(t.Type))
		txEl.CreateAttr("source", string(t.Source))
		txEl.CreateAttr("amount", fmt.Sprintf("%.2f", t.Amount))
		txEl.CreateAttr("date", t.CreatedAt.Format(time.RFC3339))
		if t.ResultID != nil {
			txEl.CreateAttr("resultId", strconv.FormatUint(uint64(*t.ResultID), 10))
		}
	}

	return nil
}

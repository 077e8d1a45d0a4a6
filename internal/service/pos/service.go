// Package pos содержит прикладной сервис точки продаж: оформление,
// чтение и отмена заказов поверх доменных репозиториев.
package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
	"github.com/jcoffer921/jay-donuts-od/internal/metrics"
	"github.com/jcoffer921/jay-donuts-od/internal/receipt"
	"github.com/jcoffer921/jay-donuts-od/internal/txncode"
)

// Причины сбоев для метрики pos_order_failures_total.
const (
	failureReasonValidation   = "validation"
	failureReasonDuplicate    = "duplicate_code"
	failureReasonBadReference = "bad_reference"
	failureReasonStorage      = "storage"
)

// Selection — один выбор кассира при оформлении заказа: позиция
// каталога, количество и необязательная ручная цена за единицу.
type Selection struct {
	MenuItemID int64
	Qty        int32
	// UnitPrice задаётся при ручной корректировке цены за единицу.
	// Nil — берётся текущая цена каталога.
	UnitPrice *decimal.Decimal
}

// Service реализует операции точки продаж. Коды транзакций выдаёт
// генератор; коллизия кода не перегенерируется автоматически, ошибка
// возвращается вызывающей стороне.
type Service struct {
	menu    domain.MenuItemRepository
	orders  domain.OrderRepository
	codes   *txncode.Generator
	metrics *metrics.POSMetrics
	logger  *log.Entry
	now     func() time.Time
}

// NewService конструирует сервис с зависимостями.
func NewService(
	menu domain.MenuItemRepository,
	orders domain.OrderRepository,
	codes *txncode.Generator,
	m *metrics.POSMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "pos-service")
	}
	if codes == nil {
		codes = txncode.New()
	}
	return &Service{
		menu:    menu,
		orders:  orders,
		codes:   codes,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// PlaceOrder оформляет заказ по списку выборов: разрешает каждую позицию
// в каталоге, фиксирует цену на момент продажи, генерирует код транзакции
// и отметку времени с точностью до секунды, после чего атомарно сохраняет
// заказ. Возвращает заказ, заново прочитанный из хранилища.
func (s *Service) PlaceOrder(ctx context.Context, selections []Selection) (domain.Order, error) {
	start := s.now()
	defer s.observe("place_order", start)

	if len(selections) == 0 {
		s.recordFailure(failureReasonValidation)
		return domain.Order{}, domain.ErrEmptyBasket
	}

	placedAt := s.now().UTC().Truncate(time.Second)
	order := domain.Order{
		TransactionCode: s.codes.Generate(placedAt),
		PlacedAt:        placedAt,
	}

	for idx, sel := range selections {
		item, err := s.menu.FindByID(ctx, sel.MenuItemID)
		if err != nil {
			if errors.Is(err, domain.ErrMenuItemNotFound) {
				s.recordFailure(failureReasonBadReference)
				return domain.Order{}, fmt.Errorf("selection[%d] item %d: %w", idx, sel.MenuItemID, domain.ErrMenuItemReference)
			}
			s.recordFailure(failureReasonStorage)
			return domain.Order{}, fmt.Errorf("resolve selection[%d]: %w", idx, err)
		}

		// Цена продажи: ручная корректировка либо текущая цена каталога.
		unitPrice := item.Price
		if sel.UnitPrice != nil {
			unitPrice = *sel.UnitPrice
		}

		order.AddLine(domain.OrderLine{
			Item:      item,
			Qty:       sel.Qty,
			UnitPrice: unitPrice,
		})
	}

	if errs := order.ValidateForPlacement(); len(errs) > 0 {
		s.recordFailure(failureReasonValidation)
		return domain.Order{}, errors.Join(errs...)
	}

	stored, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logger.WithError(err).WithField("transaction_code", order.TransactionCode).Error("failed to place order")
		switch {
		case domain.IsDuplicateTransactionCode(err):
			s.recordFailure(failureReasonDuplicate)
		case errors.Is(err, domain.ErrMenuItemReference):
			s.recordFailure(failureReasonBadReference)
		default:
			s.recordFailure(failureReasonStorage)
		}
		return domain.Order{}, err
	}

	s.recordPlaced()
	s.logger.WithFields(log.Fields{
		"transaction_code": stored.TransactionCode,
		"lines":            len(stored.Lines),
		"total":            stored.Total().StringFixed(2),
	}).Info("order placed")

	return stored, nil
}

// GetOrder возвращает заказ по коду транзакции со всеми строками.
func (s *Service) GetOrder(ctx context.Context, code string) (domain.Order, error) {
	start := s.now()
	defer s.observe("get_order", start)

	if strings.TrimSpace(code) == "" {
		return domain.Order{}, domain.ErrTransactionCodeRequired
	}

	order, err := s.orders.FindByTransactionCode(ctx, code)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.logger.WithError(err).WithField("transaction_code", code).Error("failed to load order")
		}
		return domain.Order{}, err
	}
	return order, nil
}

// ListOrders возвращает шапки всех заказов, новые первыми.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	start := s.now()
	defer s.observe("list_orders", start)

	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to list orders")
		return nil, err
	}
	return orders, nil
}

// CancelOrder удаляет заказ и все его строки по коду транзакции.
func (s *Service) CancelOrder(ctx context.Context, code string) error {
	start := s.now()
	defer s.observe("cancel_order", start)

	if strings.TrimSpace(code) == "" {
		return domain.ErrTransactionCodeRequired
	}

	if err := s.orders.DeleteByTransactionCode(ctx, code); err != nil {
		if !domain.IsNotFound(err) {
			s.logger.WithError(err).WithField("transaction_code", code).Error("failed to cancel order")
			s.recordFailure(failureReasonStorage)
		}
		return err
	}

	s.recordCanceled()
	s.logger.WithField("transaction_code", code).Info("order canceled")
	return nil
}

// Receipt загружает заказ и возвращает текстовый чек.
func (s *Service) Receipt(ctx context.Context, code string) (string, error) {
	order, err := s.GetOrder(ctx, code)
	if err != nil {
		return "", err
	}
	return receipt.Render(order), nil
}

// Menu возвращает каталог, отсортированный по категории и имени.
func (s *Service) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.menu.FindAll(ctx)
}

// MenuItem возвращает позицию каталога по идентификатору.
func (s *Service) MenuItem(ctx context.Context, id int64) (domain.MenuItem, error) {
	return s.menu.FindByID(ctx, id)
}

// AddMenuItem валидирует и сохраняет новую позицию каталога.
func (s *Service) AddMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	if errs := item.Validate(); len(errs) > 0 {
		return domain.MenuItem{}, errors.Join(errs...)
	}
	stored, err := s.menu.Insert(ctx, item)
	if err != nil {
		s.logger.WithError(err).WithField("name", item.Name).Error("failed to add menu item")
		return domain.MenuItem{}, err
	}
	s.logger.WithFields(log.Fields{"id": stored.ID, "name": stored.Name}).Info("menu item added")
	return stored, nil
}

// UpdateMenuItem валидирует и перезаписывает позицию каталога.
func (s *Service) UpdateMenuItem(ctx context.Context, item domain.MenuItem) error {
	if item.ID == 0 {
		return domain.ErrMenuItemNotFound
	}
	if errs := item.Validate(); len(errs) > 0 {
		return errors.Join(errs...)
	}
	if err := s.menu.Update(ctx, item); err != nil {
		if !domain.IsNotFound(err) {
			s.logger.WithError(err).WithField("id", item.ID).Error("failed to update menu item")
		}
		return err
	}
	return nil
}

// RemoveMenuItem удаляет позицию каталога. Позиция, на которую ссылаются
// сохранённые заказы, защищена хранилищем и не удаляется.
func (s *Service) RemoveMenuItem(ctx context.Context, id int64) error {
	if err := s.menu.Delete(ctx, id); err != nil {
		if !domain.IsNotFound(err) && !errors.Is(err, domain.ErrMenuItemInUse) {
			s.logger.WithError(err).WithField("id", id).Error("failed to remove menu item")
		}
		return err
	}
	return nil
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperationDuration(operation, s.now().Sub(start))
}

func (s *Service) recordFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordOrderFailure(reason)
	}
}

func (s *Service) recordPlaced() {
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
	}
}

func (s *Service) recordCanceled() {
	if s.metrics != nil {
		s.metrics.RecordOrderCanceled()
	}
}

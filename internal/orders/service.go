package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/scentkart/scentkart-backend/internal/catalog"
	"github.com/scentkart/scentkart-backend/internal/inventory"
	"github.com/scentkart/scentkart-backend/internal/offers"
	"github.com/scentkart/scentkart-backend/internal/pricing"
	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
	"github.com/scentkart/scentkart-backend/pkg/metrics"
	"github.com/scentkart/scentkart-backend/pkg/outbox"
	"github.com/scentkart/scentkart-backend/pkg/pagination"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// checkoutCleanup is the post-order housekeeping surface: the cart (or the
// buy-now session) is cleared best-effort after the order commits.
type checkoutCleanup interface {
	ClearCart(ctx context.Context, userID uuid.UUID) error
	ClearBuyNow(ctx context.Context, userID uuid.UUID) error
}

// allowedTransitions is the order lifecycle. Cancellation is reachable from
// pending and processing only; delivered orders can still come back as
// returned.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered:  {enums.OrderStatusReturned},
}

// Service owns the order lifecycle: placement with stock deduction and
// server-side pricing, cancellation with stock restore, and the status
// machine.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actorID *uuid.UUID) (*models.Order, error)
}

type service struct {
	repo         Repository
	catalogSvc   catalog.Service
	inventorySvc inventory.Service
	offersSvc    offers.Service
	calc         pricing.Calculator
	outboxSvc    *outbox.Service
	cleanup      checkoutCleanup
	tx           txRunner
	checkout     *metrics.CheckoutMetrics
	deliveryDays int
	logg         *logger.Logger
}

// NewService builds the orders service with the required dependencies. The
// metrics collector may be nil.
func NewService(
	repo Repository,
	catalogSvc catalog.Service,
	inventorySvc inventory.Service,
	offersSvc offers.Service,
	calc pricing.Calculator,
	outboxSvc *outbox.Service,
	cleanup checkoutCleanup,
	tx txRunner,
	checkout *metrics.CheckoutMetrics,
	deliveryDays int,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if offersSvc == nil {
		return nil, fmt.Errorf("offers service required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if cleanup == nil {
		return nil, fmt.Errorf("checkout cleanup required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deliveryDays <= 0 {
		deliveryDays = 5
	}
	return &service{
		repo:         repo,
		catalogSvc:   catalogSvc,
		inventorySvc: inventorySvc,
		offersSvc:    offersSvc,
		calc:         calc,
		outboxSvc:    outboxSvc,
		cleanup:      cleanup,
		tx:           tx,
		checkout:     checkout,
		deliveryDays: deliveryDays,
		logg:         logg,
	}, nil
}

// pricedLine pairs a resolved variant with its inventory row and quote.
type pricedLine struct {
	variant *catalog.ResolvedVariant
	record  *models.InventoryRecord
	quote   pricing.LineQuote
}

// CreateOrder places an order: resolve every variant, price it from the
// catalog and live offers, deduct stock line by line, then persist the order
// and its outbox event in one transaction. Any failure after the first
// deduction puts the already-deducted stock back before returning.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := s.validateCreateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lines := make([]pricedLine, 0, len(input.Items))
	for _, item := range input.Items {
		variant, err := s.catalogSvc.Resolve(ctx, item.ProductID, catalog.Selection{
			ModelID:   item.ModelID,
			ColorID:   item.ColorID,
			Fragrance: item.Fragrance,
		})
		if err != nil {
			return nil, err
		}
		record, err := s.inventorySvc.FindByVariant(ctx, variant.Key)
		if err != nil {
			return nil, err
		}
		discount, err := s.offersSvc.DiscountFor(ctx, variant.Key, now)
		if err != nil {
			return nil, err
		}
		lines = append(lines, pricedLine{
			variant: variant,
			record:  record,
			quote:   s.calc.QuoteLine(variant.UnitPrice, item.Quantity, discount),
		})
	}

	orderNumber := newOrderNumber()
	if err := s.deductLines(ctx, input.UserID, orderNumber, input.Items, lines); err != nil {
		return nil, err
	}

	order := s.buildOrder(input, orderNumber, lines, now)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		return s.outboxSvc.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.UserID},
			Data: map[string]any{
				"order_number":   order.OrderNumber,
				"user_id":        order.UserID.String(),
				"total":          order.Total.String(),
				"payment_method": order.PaymentMethod,
				"checkout_mode":  order.CheckoutMode,
				"item_count":     len(order.Items),
			},
			Version: 1,
		})
	})
	if err != nil {
		// The stock is already gone; put it back before reporting.
		s.restoreLines(ctx, input.UserID, orderNumber, lines, len(lines), "Order rollback")
		return nil, err
	}

	s.finishCheckout(ctx, order)
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	// Admin callers pass the nil UUID to skip the ownership check.
	if userID != uuid.Nil && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*models.Order, error) {
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if userID != uuid.Nil && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	list, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// CancelOrder cancels a pending or processing order and restores its stock.
// Orders that have shipped can no longer be cancelled.
func (s *service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusProcessing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}

	if strings.TrimSpace(reason) == "" {
		reason = "Cancelled by customer"
	}
	actorID := order.UserID
	if userID == uuid.Nil {
		actorID = uuid.Nil
	}
	return s.cancel(ctx, order, reason, actorID)
}

// UpdateStatus advances an order through the lifecycle. Moving to cancelled
// or returned also restores the stock the order had claimed; delivering a
// cash-on-delivery order settles its payment.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actorID *uuid.UUID) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", next))
	}
	order, err := s.GetOrder(ctx, uuid.Nil, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == next {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", next))
	}
	if !transitionAllowed(order.Status, next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	actor := uuid.Nil
	if actorID != nil {
		actor = *actorID
	}

	switch next {
	case enums.OrderStatusCancelled:
		return s.cancel(ctx, order, "Cancelled by admin", actor)
	case enums.OrderStatusReturned:
		return s.markReturned(ctx, order, actor)
	default:
		return s.advance(ctx, order, next, actor)
	}
}

func (s *service) validateCreateInput(input CreateOrderInput) error {
	switch {
	case input.UserID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	case len(input.Items) == 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	case !input.PaymentMethod.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	case !input.CheckoutMode.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid checkout mode %q", input.CheckoutMode))
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}
	return validateShippingAddress(input.ShippingAddress)
}

// deductLines claims stock one line at a time. When line k fails, the k-1
// already-claimed lines are restored before the error goes back to the caller.
func (s *service) deductLines(ctx context.Context, userID uuid.UUID, orderNumber string, items []OrderItemInput, lines []pricedLine) error {
	notes := orderNumber
	for i, line := range lines {
		_, err := s.inventorySvc.DeductStock(ctx, inventory.AdjustInput{
			RecordID: line.record.ID,
			Quantity: items[i].Quantity,
			Reason:   "Order placed",
			Notes:    &notes,
			ActorID:  &userID,
			Movement: enums.StockMovementSold,
		})
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeInsufficientStock {
				s.checkout.IncInsufficientStock()
			}
			s.restoreLines(ctx, userID, orderNumber, lines, i, "Order rollback")
			return err
		}
	}
	return nil
}

// restoreLines puts claimed stock back for lines [0, upto). Failures are
// collected and logged; a rollback never masks the original checkout error.
func (s *service) restoreLines(ctx context.Context, userID uuid.UUID, orderNumber string, lines []pricedLine, upto int, reason string) {
	notes := orderNumber
	var restoreErr error
	for i := 0; i < upto; i++ {
		_, err := s.inventorySvc.AddStock(ctx, inventory.AdjustInput{
			RecordID: lines[i].record.ID,
			Quantity: lines[i].quote.Quantity,
			Reason:   reason,
			Notes:    &notes,
			ActorID:  &userID,
			Movement: enums.StockMovementReturned,
		})
		restoreErr = multierr.Append(restoreErr, err)
	}
	if restoreErr != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_number": orderNumber,
			"error":        restoreErr.Error(),
		})
		s.logg.Error(logCtx, "stock restore incomplete after checkout failure", restoreErr)
	}
}

func (s *service) buildOrder(input CreateOrderInput, orderNumber string, lines []pricedLine, now time.Time) *models.Order {
	quotes := make([]pricing.LineQuote, 0, len(lines))
	for _, line := range lines {
		quotes = append(quotes, line.quote)
	}
	quote := s.calc.QuoteOrder(quotes)

	paymentStatus := enums.PaymentStatusPending
	var paymentDate *time.Time
	var paidAmount *decimal.Decimal
	if input.PaymentMethod.IsPrepaid() {
		paymentStatus = enums.PaymentStatusPaid
		paymentDate = &now
		total := quote.Total
		paidAmount = &total
	}

	orderID := uuid.New()
	order := &models.Order{
		ID:                orderID,
		OrderNumber:       orderNumber,
		UserID:            input.UserID,
		Status:            enums.OrderStatusPending,
		PaymentMethod:     input.PaymentMethod,
		PaymentStatus:     paymentStatus,
		CheckoutMode:      input.CheckoutMode,
		Subtotal:          quote.Subtotal,
		Savings:           quote.Savings,
		ShippingFee:       quote.ShippingFee,
		Tax:               quote.Tax,
		Total:             quote.Total,
		ShippingAddress:   input.ShippingAddress,
		EstimatedDelivery: now.AddDate(0, 0, s.deliveryDays),
		PaymentDate:       paymentDate,
		PaidAmount:        paidAmount,
	}
	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ID:                uuid.New(),
			OrderID:           orderID,
			ProductID:         line.variant.Key.ProductID,
			InventoryRecordID: line.record.ID,
			ProductName:       line.variant.ProductName,
			ModelID:           line.variant.Key.ModelID,
			ColorID:           line.variant.Key.ColorID,
			Fragrance:         line.variant.Key.Fragrance,
			Quantity:          line.quote.Quantity,
			UnitPrice:         line.quote.UnitPrice,
			DiscountPercent:   line.quote.DiscountPercent,
			LineSubtotal:      line.quote.Subtotal,
			LineSavings:       line.quote.Savings,
			LineTotal:         line.quote.Total,
		})
	}
	return order
}

// finishCheckout does the best-effort post-commit work: clearing the source
// of the order and recording metrics. Failures here never fail the order.
func (s *service) finishCheckout(ctx context.Context, order *models.Order) {
	var err error
	switch order.CheckoutMode {
	case enums.CheckoutModeBuyNow:
		err = s.cleanup.ClearBuyNow(ctx, order.UserID)
	default:
		err = s.cleanup.ClearCart(ctx, order.UserID)
	}
	if err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_number": order.OrderNumber,
			"error":        err.Error(),
		})
		s.logg.Warn(logCtx, "post-checkout cleanup failed")
	}

	s.checkout.IncOrderCreated(string(order.CheckoutMode))
	total, _ := order.Total.Float64()
	s.checkout.ObserveOrderValue(total)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_number": order.OrderNumber,
		"user_id":      order.UserID.String(),
		"total":        order.Total.String(),
		"items":        len(order.Items),
	})
	s.logg.Info(logCtx, "order placed")
}

// cancel flips the order to cancelled and emits the event in one transaction,
// then restores the claimed stock.
func (s *service) cancel(ctx context.Context, order *models.Order, reason string, actorID uuid.UUID) (*models.Order, error) {
	now := time.Now().UTC()
	updates := map[string]any{
		"status":        enums.OrderStatusCancelled,
		"cancelled_at":  now,
		"cancel_reason": reason,
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		updates["payment_status"] = enums.PaymentStatusRefunded
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		return s.outboxSvc.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(actorID),
			Data: map[string]any{
				"order_number": order.OrderNumber,
				"reason":       reason,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.restoreOrderStock(ctx, order, "Order cancelled", actorID); err != nil {
		return nil, err
	}

	s.checkout.IncOrderCancelled()
	return s.GetOrder(ctx, uuid.Nil, order.ID)
}

func (s *service) markReturned(ctx context.Context, order *models.Order, actorID uuid.UUID) (*models.Order, error) {
	updates := map[string]any{"status": enums.OrderStatusReturned}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		updates["payment_status"] = enums.PaymentStatusRefunded
	}
	if err := s.commitStatusChange(ctx, order, enums.OrderStatusReturned, updates, actorID); err != nil {
		return nil, err
	}
	if err := s.restoreOrderStock(ctx, order, "Order returned", actorID); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, uuid.Nil, order.ID)
}

func (s *service) advance(ctx context.Context, order *models.Order, next enums.OrderStatus, actorID uuid.UUID) (*models.Order, error) {
	now := time.Now().UTC()
	updates := map[string]any{"status": next}
	if next == enums.OrderStatusDelivered {
		updates["delivered_at"] = now
		// Cash on delivery settles at the door.
		if order.PaymentMethod == enums.PaymentMethodCOD && order.PaymentStatus == enums.PaymentStatusPending {
			updates["payment_status"] = enums.PaymentStatusPaid
			updates["payment_date"] = now
			updates["paid_amount"] = order.Total
		}
	}
	if err := s.commitStatusChange(ctx, order, next, updates, actorID); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, uuid.Nil, order.ID)
}

func (s *service) commitStatusChange(ctx context.Context, order *models.Order, next enums.OrderStatus, updates map[string]any, actorID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return s.outboxSvc.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(actorID),
			Data: map[string]any{
				"order_number": order.OrderNumber,
				"from":         order.Status,
				"to":           next,
			},
			Version: 1,
		})
	})
}

// restoreOrderStock adds each item's quantity back to inventory. Every line
// is attempted even when earlier ones fail; the combined error reports what
// could not be restored.
func (s *service) restoreOrderStock(ctx context.Context, order *models.Order, reason string, actorID uuid.UUID) error {
	notes := order.OrderNumber
	var actor *uuid.UUID
	if actorID != uuid.Nil {
		actor = &actorID
	}
	var restoreErr error
	for _, item := range order.Items {
		_, err := s.inventorySvc.AddStock(ctx, inventory.AdjustInput{
			RecordID: item.InventoryRecordID,
			Quantity: item.Quantity,
			Reason:   reason,
			Notes:    &notes,
			ActorID:  actor,
			Movement: enums.StockMovementReturned,
		})
		restoreErr = multierr.Append(restoreErr, err)
	}
	if restoreErr != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_number": order.OrderNumber,
			"error":        restoreErr.Error(),
		})
		s.logg.Error(logCtx, "stock restore incomplete", restoreErr)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, restoreErr, "order updated but stock restore incomplete")
	}
	return nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func actorRef(actorID uuid.UUID) *outbox.ActorRef {
	if actorID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: actorID}
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

func validateShippingAddress(addr types.Address) error {
	switch {
	case strings.TrimSpace(addr.FullName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address full name required")
	case strings.TrimSpace(addr.Phone) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address phone required")
	case strings.TrimSpace(addr.Line1) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address line required")
	case strings.TrimSpace(addr.City) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address city required")
	case strings.TrimSpace(addr.PostalCode) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address postal code required")
	}
	return nil
}

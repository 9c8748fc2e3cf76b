package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scentkart/scentkart-backend/pkg/enums"
	"github.com/scentkart/scentkart-backend/pkg/types"
)

// Order is the customer-facing order header. All money columns are the
// server-side recomputed amounts; client-submitted prices are never persisted.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber       string              `gorm:"column:order_number;not null;uniqueIndex" json:"order_number"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Status            enums.OrderStatus   `gorm:"column:status;not null;default:'pending'" json:"status"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;not null" json:"payment_method"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'" json:"payment_status"`
	CheckoutMode      enums.CheckoutMode  `gorm:"column:checkout_mode;not null;default:'cart'" json:"checkout_mode"`
	Subtotal          decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	Savings           decimal.Decimal     `gorm:"column:savings;type:numeric(12,2);not null" json:"savings"`
	ShippingFee       decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(12,2);not null" json:"shipping_fee"`
	Tax               decimal.Decimal     `gorm:"column:tax;type:numeric(12,2);not null" json:"tax"`
	Total             decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	ShippingAddress   types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json" json:"shipping_address"`
	EstimatedDelivery time.Time           `gorm:"column:estimated_delivery;not null" json:"estimated_delivery"`
	PaymentDate       *time.Time          `gorm:"column:payment_date" json:"payment_date,omitempty"`
	PaidAmount        *decimal.Decimal    `gorm:"column:paid_amount;type:numeric(12,2)" json:"paid_amount,omitempty"`
	CancelledAt       *time.Time          `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancelReason      *string             `gorm:"column:cancel_reason" json:"cancel_reason,omitempty"`
	DeliveredAt       *time.Time          `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

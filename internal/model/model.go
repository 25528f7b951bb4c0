// Package model содержит доменные сущности маркетплейса подарков Wyshkit.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role описывает роль учётной записи.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// User представляет учётную запись, синхронизированную с провайдером аутентификации.
type User struct {
	ID        uuid.UUID
	Phone     string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address описывает адрес из адресной книги пользователя.
type Address struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Label         string
	RecipientName string
	Phone         string
	Street        string
	City          string
	PostalCode    string
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// VendorApproval описывает статус модерации продавца.
type VendorApproval string

const (
	VendorPending  VendorApproval = "pending"
	VendorApproved VendorApproval = "approved"
	VendorRejected VendorApproval = "rejected"
)

// Vendor представляет учётную запись продавца. Не удаляется, только деактивируется.
type Vendor struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Name              string
	Description       string
	City              string
	Latitude          float64
	Longitude         float64
	IsOnline          bool
	Approval          VendorApproval
	DeliveryRadiusKm  float64
	CommissionRateBps int32
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProductVariant описывает вариант товара с наценкой к базовой цене.
type ProductVariant struct {
	Name            string   `json:"name"`
	Options         []string `json:"options"`
	PriceDeltaPaise int64    `json:"priceDeltaPaise"`
}

// ProductAddon описывает дополнение к товару.
type ProductAddon struct {
	Name       string `json:"name"`
	PricePaise int64  `json:"pricePaise"`
}

// CustomizationSchema описывает допустимые виды персонализации товара.
type CustomizationSchema struct {
	AllowText        bool `json:"allowText"`
	AllowPhoto       bool `json:"allowPhoto"`
	AllowGiftMessage bool `json:"allowGiftMessage"`
}

// Product представляет позицию каталога продавца.
type Product struct {
	ID            uuid.UUID
	VendorID      uuid.UUID
	Name          string
	Description   string
	PricePaise    int64
	Category      string
	Images        []string
	Variants      []ProductVariant
	Addons        []ProductAddon
	Customization CustomizationSchema
	IsActive      bool
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderStatus описывает статус жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusAwaitingDetails OrderStatus = "awaiting_details"
	OrderStatusPersonalizing   OrderStatus = "personalizing"
	OrderStatusMockupReady     OrderStatus = "mockup_ready"
	OrderStatusApproved        OrderStatus = "approved"
	OrderStatusCrafting        OrderStatus = "crafting"
	OrderStatusReadyForPickup  OrderStatus = "ready_for_pickup"
	OrderStatusOutForDelivery  OrderStatus = "out_for_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// PaymentStatus описывает статус оплаты, независимый от статуса заказа.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Customization содержит персонализацию позиции заказа.
type Customization struct {
	Text        string `json:"text,omitempty"`
	PhotoPath   string `json:"photoPath,omitempty"`
	GiftMessage string `json:"giftMessage,omitempty"`
}

// OrderItem описывает одну позицию заказа. Неизменяема после создания заказа.
type OrderItem struct {
	ProductID       uuid.UUID
	ProductName     string
	Quantity        int32
	UnitPricePaise  int64
	SelectedVariant map[string]string
	SelectedAddons  []string
	Customization   Customization
}

// DeliveryAddress содержит денормализованный снимок адреса доставки на момент
// оформления. Последующие правки адресной книги не затрагивают размещённый заказ.
type DeliveryAddress struct {
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
}

// Order представляет одну покупку. Физически не удаляется.
// Все денежные поля хранятся в пайсах; инвариант создания:
// Total = ItemTotal + DeliveryFee + PlatformFee - CashbackUsed.
type Order struct {
	ID            uuid.UUID
	Number        string
	CustomerID    uuid.UUID
	VendorID      uuid.UUID
	Status        OrderStatus
	Items         []OrderItem
	ItemTotal     int64
	DeliveryFee   int64
	PlatformFee   int64
	CashbackUsed  int64
	Total         int64
	Delivery      DeliveryAddress
	PaymentStatus PaymentStatus
	PaymentID     string
	// RazorpayOrderID — идентификатор платёжного заказа провайдера, присвоенный при оформлении.
	RazorpayOrderID string
	// Mockups отображает идентификатор товара в список загруженных изображений.
	Mockups          map[string][]string
	MockupApprovedAt *time.Time
	AcceptedAt       *time.Time
	MockupAt         *time.Time
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Notification описывает адресованное пользователю сообщение.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Title     string
	Body      string
	IsRead    bool
	Data      map[string]string
	CreatedAt time.Time
}

// Review описывает отзыв покупателя о товаре из доставленного заказа.
type Review struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	OrderID    uuid.UUID
	Rating     int32
	Comment    string
	CreatedAt  time.Time
}

// CashbackEntry описывает одну запись бонусного журнала.
// Положительная сумма — начисление, отрицательная — списание при оформлении заказа.
type CashbackEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	OrderID     uuid.UUID
	AmountPaise int64
	Reason      string
	CreatedAt   time.Time
}

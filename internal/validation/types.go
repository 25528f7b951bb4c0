package validation

// CheckoutItemRequest описывает одну позицию запроса на оформление заказа.
type CheckoutItemRequest struct {
	ProductID       string            `json:"productId" validate:"required,uuid4"`
	Quantity        int32             `json:"quantity" validate:"required,gt=0,lte=50"`
	SelectedVariant map[string]string `json:"selectedVariant"`
	SelectedAddons  []string          `json:"selectedAddons"`
	Text            string            `json:"text" validate:"max=500"`
	PhotoPath       string            `json:"photoPath" validate:"max=300"`
	GiftMessage     string            `json:"giftMessage" validate:"max=500"`
}

// CheckoutRequest описывает запрос на оформление заказа.
// Денежные поля передаются в пайсах; Total проверяется структурным правилом
// против суммы остальных полей.
type CheckoutRequest struct {
	AddressID     string                `json:"addressId" validate:"required,uuid4"`
	Items         []CheckoutItemRequest `json:"items" validate:"required,min=1,max=20,dive"`
	ItemTotal     int64                 `json:"itemTotal" validate:"gte=0"`
	DeliveryFee   int64                 `json:"deliveryFee" validate:"gte=0"`
	PlatformFee   int64                 `json:"platformFee" validate:"gte=0"`
	CashbackUsed  int64                 `json:"cashbackUsed" validate:"gte=0"`
	Total         int64                 `json:"total" validate:"gte=0"`
	DropLatitude  *float64              `json:"dropLatitude" validate:"omitempty,gte=-90,lte=90"`
	DropLongitude *float64              `json:"dropLongitude" validate:"omitempty,gte=-180,lte=180"`
}

package handler

import (
	"time"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

// Ответы сериализуются в camelCase; денежные поля — в пайсах,
// как и во входных DTO оформления заказа.

type userResponse struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:    u.ID.String(),
		Phone: u.Phone,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

type addressResponse struct {
	ID            string `json:"id"`
	Label         string `json:"label,omitempty"`
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	IsDefault     bool   `json:"isDefault"`
	CreatedAt     string `json:"createdAt"`
}

func toAddressResponse(a *model.Address) addressResponse {
	return addressResponse{
		ID:            a.ID.String(),
		Label:         a.Label,
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Street:        a.Street,
		City:          a.City,
		PostalCode:    a.PostalCode,
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

type vendorResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	City             string  `json:"city"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	IsOnline         bool    `json:"isOnline"`
	Approval         string  `json:"approval"`
	DeliveryRadiusKm float64 `json:"deliveryRadiusKm"`
	CreatedAt        string  `json:"createdAt"`
}

func toVendorResponse(v *model.Vendor) vendorResponse {
	return vendorResponse{
		ID:               v.ID.String(),
		Name:             v.Name,
		Description:      v.Description,
		City:             v.City,
		Latitude:         v.Latitude,
		Longitude:        v.Longitude,
		IsOnline:         v.IsOnline,
		Approval:         string(v.Approval),
		DeliveryRadiusKm: v.DeliveryRadiusKm,
		CreatedAt:        v.CreatedAt.Format(time.RFC3339),
	}
}

type productResponse struct {
	ID            string                    `json:"id"`
	VendorID      string                    `json:"vendorId"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description,omitempty"`
	PricePaise    int64                     `json:"pricePaise"`
	Category      string                    `json:"category,omitempty"`
	Images        []string                  `json:"images,omitempty"`
	Variants      []model.ProductVariant    `json:"variants,omitempty"`
	Addons        []model.ProductAddon      `json:"addons,omitempty"`
	Customization model.CustomizationSchema `json:"customization"`
	IsActive      bool                      `json:"isActive"`
	CreatedAt     string                    `json:"createdAt"`
}

func toProductResponse(p *model.Product) productResponse {
	return productResponse{
		ID:            p.ID.String(),
		VendorID:      p.VendorID.String(),
		Name:          p.Name,
		Description:   p.Description,
		PricePaise:    p.PricePaise,
		Category:      p.Category,
		Images:        p.Images,
		Variants:      p.Variants,
		Addons:        p.Addons,
		Customization: p.Customization,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

type orderItemResponse struct {
	ProductID       string              `json:"productId"`
	ProductName     string              `json:"productName"`
	Quantity        int32               `json:"quantity"`
	UnitPricePaise  int64               `json:"unitPricePaise"`
	SelectedVariant map[string]string   `json:"selectedVariant,omitempty"`
	SelectedAddons  []string            `json:"selectedAddons,omitempty"`
	Customization   model.Customization `json:"customization"`
}

type deliveryResponse struct {
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	Number           string              `json:"number"`
	Status           string              `json:"status"`
	Items            []orderItemResponse `json:"items"`
	ItemTotal        int64               `json:"itemTotal"`
	DeliveryFee      int64               `json:"deliveryFee"`
	PlatformFee      int64               `json:"platformFee"`
	CashbackUsed     int64               `json:"cashbackUsed"`
	Total            int64               `json:"total"`
	Delivery         deliveryResponse    `json:"delivery"`
	PaymentStatus    string              `json:"paymentStatus"`
	PaymentID        string              `json:"paymentId,omitempty"`
	RazorpayOrderID  string              `json:"razorpayOrderId,omitempty"`
	Mockups          map[string][]string `json:"mockups,omitempty"`
	MockupApprovedAt *string             `json:"mockupApprovedAt,omitempty"`
	DeliveredAt      *string             `json:"deliveredAt,omitempty"`
	CreatedAt        string              `json:"createdAt"`
	UpdatedAt        string              `json:"updatedAt"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toOrderResponse(o *model.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:       it.ProductID.String(),
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPricePaise:  it.UnitPricePaise,
			SelectedVariant: it.SelectedVariant,
			SelectedAddons:  it.SelectedAddons,
			Customization:   it.Customization,
		})
	}

	return orderResponse{
		ID:           o.ID.String(),
		Number:       o.Number,
		Status:       string(o.Status),
		Items:        items,
		ItemTotal:    o.ItemTotal,
		DeliveryFee:  o.DeliveryFee,
		PlatformFee:  o.PlatformFee,
		CashbackUsed: o.CashbackUsed,
		Total:        o.Total,
		Delivery: deliveryResponse{
			RecipientName: o.Delivery.RecipientName,
			Phone:         o.Delivery.Phone,
			Street:        o.Delivery.Street,
			City:          o.Delivery.City,
			PostalCode:    o.Delivery.PostalCode,
		},
		PaymentStatus:    string(o.PaymentStatus),
		PaymentID:        o.PaymentID,
		RazorpayOrderID:  o.RazorpayOrderID,
		Mockups:          o.Mockups,
		MockupApprovedAt: formatTimePtr(o.MockupApprovedAt),
		DeliveredAt:      formatTimePtr(o.DeliveredAt),
		CreatedAt:        o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        o.UpdatedAt.Format(time.RFC3339),
	}
}

func toOrderResponses(orders []model.Order) []orderResponse {
	res := make([]orderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}
	return res
}

type reviewResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	AuthorName string `json:"authorName,omitempty"`
	Rating     int32  `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

func toReviewResponse(rv *model.Review) reviewResponse {
	return reviewResponse{
		ID:         rv.ID.String(),
		ProductID:  rv.ProductID.String(),
		AuthorName: rv.AuthorName,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		CreatedAt:  rv.CreatedAt.Format(time.RFC3339),
	}
}

type notificationResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	IsRead    bool              `json:"isRead"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt string            `json:"createdAt"`
}

func toNotificationResponse(n *model.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		IsRead:    n.IsRead,
		Data:      n.Data,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

type cashbackEntryResponse struct {
	ID          string `json:"id"`
	OrderID     string `json:"orderId"`
	AmountPaise int64  `json:"amountPaise"`
	Reason      string `json:"reason"`
	CreatedAt   string `json:"createdAt"`
}

func toCashbackEntryResponse(e *model.CashbackEntry) cashbackEntryResponse {
	return cashbackEntryResponse{
		ID:          e.ID.String(),
		OrderID:     e.OrderID.String(),
		AmountPaise: e.AmountPaise,
		Reason:      e.Reason,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

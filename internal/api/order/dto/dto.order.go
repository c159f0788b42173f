// Package orderdto chứa DTO cho domain Order.
// File: dto.order.go
package orderdto

import (
	ordermodels "clone_studio/internal/api/order/models"
)

// OrderSummary là phần đơn hàng rút gọn đính kèm submission cho admin
type OrderSummary struct {
	Buyer     ordermodels.OrderBuyer `json:"buyer"`     // Thông tin liên hệ người mua
	CreatedAt int64                  `json:"createdAt"` // Thời gian tạo đơn hàng
}

// UpdateBuyerInput là DTO cho sửa thông tin liên hệ người mua sau thanh toán
type UpdateBuyerInput struct {
	Email string `json:"email,omitempty" validate:"omitempty,email"` // Email mới
	Phone string `json:"phone,omitempty"`                            // Số điện thoại mới
	Name  string `json:"name,omitempty"`                             // Tên mới
}

// ConfirmResult là response của thao tác xác nhận đơn hàng theo session checkout
type ConfirmResult struct {
	OrderID       string `json:"orderId"`       // ID đơn hàng
	PaymentStatus string `json:"paymentStatus"` // Trạng thái thanh toán hiện tại
	BuyerEmail    string `json:"buyerEmail"`    // Email người mua
}

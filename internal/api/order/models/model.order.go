// Package ordermodels định nghĩa model đơn hàng
package ordermodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái thanh toán của đơn hàng.
// pending -> paid hoặc pending -> failed, chuyển đúng một lần do cổng thanh toán quyết định.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// OrderBuyer chứa thông tin liên hệ của người mua
type OrderBuyer struct {
	Email string `json:"email" bson:"email" validate:"required,email"` // Email người mua (bắt buộc)
	Phone string `json:"phone" bson:"phone" validate:"required"`       // Số điện thoại (bắt buộc)
	Name  string `json:"name,omitempty" bson:"name,omitempty"`         // Tên người mua (tùy chọn)
}

// Order đại diện cho một đơn hàng từ checkout.
// Core chỉ đọc thông tin buyer và không bao giờ tự chuyển paymentStatus;
// riêng thông tin liên hệ buyer có thể được sửa lại sau khi thanh toán.
type Order struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của đơn hàng

	// ===== PACKAGE =====
	PackageID string `json:"packageId" bson:"packageId"` // Gói dịch vụ khách đã chọn
	Amount    int64  `json:"amount" bson:"amount"`       // Số tiền (đơn vị nhỏ nhất của currency)
	Currency  string `json:"currency" bson:"currency"`   // Mã tiền tệ (ví dụ "usd")

	// ===== CHECKOUT =====
	StripeSessionID string `json:"stripeSessionId" bson:"stripeSessionId" index:"single:1;unique;sparse"` // ID phiên checkout Stripe

	// ===== BUYER =====
	Buyer OrderBuyer `json:"buyer" bson:"buyer"` // Thông tin liên hệ người mua

	// ===== PAYMENT =====
	PaymentStatus string `json:"paymentStatus" bson:"paymentStatus" index:"single:1"` // pending, paid, failed

	// ===== TIMESTAMPS =====
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:-1"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`                   // Thời gian cập nhật
}

// Package orderhdl chứa HTTP handler cho domain Order.
// File: handler.order.go
package orderhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "clone_studio/internal/api/base/handler"
	orderdto "clone_studio/internal/api/order/dto"
	ordersvc "clone_studio/internal/api/order/service"
	"clone_studio/internal/common"
	"clone_studio/internal/global"
)

// OrderHandler xử lý các route cho đơn hàng
type OrderHandler struct {
	orderService *ordersvc.OrderService
}

// NewOrderHandler tạo mới OrderHandler
func NewOrderHandler() (*OrderHandler, error) {
	orderService, err := ordersvc.NewOrderService()
	if err != nil {
		return nil, fmt.Errorf("failed to create order service: %v", err)
	}
	return &OrderHandler{orderService: orderService}, nil
}

// HandleConfirm xác nhận đơn hàng sau khi quay về từ cổng thanh toán
// (GET /orders/confirm?session_id=...). Chỉ đọc, không đụng vào paymentStatus.
func (h *OrderHandler) HandleConfirm(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu query param session_id",
				common.StatusBadRequest,
				nil,
			))
		}

		order, err := h.orderService.FindBySessionID(c.Context(), sessionID)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		return basehdl.HandleResponse(c, orderdto.ConfirmResult{
			OrderID:       order.ID.Hex(),
			PaymentStatus: order.PaymentStatus,
			BuyerEmail:    order.Buyer.Email,
		}, nil)
	})
}

// HandleUpdateBuyer sửa thông tin liên hệ người mua (PATCH /orders/:orderId).
// Chỉ các field buyer được sửa; paymentStatus là bất biến với endpoint này.
func (h *OrderHandler) HandleUpdateBuyer(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
		if err != nil {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"ID đơn hàng không đúng định dạng",
				common.StatusBadRequest,
				nil,
			))
		}

		var input orderdto.UpdateBuyerInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Body không đúng định dạng JSON",
				common.StatusBadRequest,
				err.Error(),
			))
		}
		if err := global.Validate.Struct(input); err != nil {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thông tin người mua không hợp lệ",
				common.StatusBadRequest,
				err.Error(),
			))
		}

		order, err := h.orderService.UpdateBuyer(c.Context(), orderID, input)
		return basehdl.HandleResponse(c, order, err)
	})
}

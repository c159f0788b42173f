// Package router đăng ký các route thuộc domain Order: xác nhận sau thanh toán,
// sửa thông tin liên hệ người mua.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	orderhdl "clone_studio/internal/api/order/handler"
	apirouter "clone_studio/internal/api/router"
)

// Register đăng ký tất cả route order lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	orderHandler, err := orderhdl.NewOrderHandler()
	if err != nil {
		return fmt.Errorf("create order handler: %w", err)
	}

	v1.Get("/orders/confirm", orderHandler.HandleConfirm)
	v1.Patch("/orders/:orderId", orderHandler.HandleUpdateBuyer)

	return nil
}

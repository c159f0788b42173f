// Package router đăng ký các route thuộc domain Submission: upload callback (public),
// submission theo đơn hàng (public), quản trị submission (yêu cầu JWT admin).
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"clone_studio/internal/api/middleware"
	apirouter "clone_studio/internal/api/router"
	submissionhdl "clone_studio/internal/api/submission/handler"
)

// Register đăng ký tất cả route submission lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	submissionHandler, err := submissionhdl.NewSubmissionHandler()
	if err != nil {
		return fmt.Errorf("create submission handler: %w", err)
	}

	// Route phía khách (không cần auth)
	v1.Post("/uploads/callback", submissionHandler.HandleUploadCallback)
	v1.Post("/orders/:orderId/submission", submissionHandler.HandleCreateSubmission)
	v1.Get("/orders/:orderId/submission", submissionHandler.HandleGetByOrder)
	v1.Post("/submissions/:id/custom-prompt", submissionHandler.HandleSetCustomPrompt)

	// Route admin: PHẢI đăng ký qua RegisterRouteWithMiddleware (xem warning trong routes.go)
	authMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/admin", "GET", "/submissions", []fiber.Handler{authMiddleware}, submissionHandler.HandleAdminList)
	apirouter.RegisterRouteWithMiddleware(v1, "/admin", "GET", "/submissions/:id", []fiber.Handler{authMiddleware}, submissionHandler.HandleAdminGet)
	apirouter.RegisterRouteWithMiddleware(v1, "/admin", "DELETE", "/submissions/:id/video", []fiber.Handler{authMiddleware}, submissionHandler.HandleDeleteVideo)
	apirouter.RegisterRouteWithMiddleware(v1, "/admin", "PUT", "/submissions/:id/set-processed", []fiber.Handler{authMiddleware}, submissionHandler.HandleSetProcessed)
	apirouter.RegisterRouteWithMiddleware(v1, "/admin", "GET", "/submissions/:id/download", []fiber.Handler{authMiddleware}, submissionHandler.HandleDownload)

	return nil
}

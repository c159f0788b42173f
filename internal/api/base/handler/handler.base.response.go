// Package basehandler cung cấp các hàm hỗ trợ chung cho handler Fiber
package basehandler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"clone_studio/internal/common"
	"clone_studio/internal/logger"
)

// JSONResponse gửi response JSON với status code và charset utf-8.
// Fiber mặc định không set charset nên tiếng Việt có thể bị hiển thị sai ở một số client.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleResponse xử lý response chung cho các handler.
// Nếu err là *common.Error thì trả về envelope lỗi với code và details tương ứng,
// ngược lại trả về envelope thành công bọc data.
func HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) {
			return JSONResponse(c, customErr.StatusCode, fiber.Map{
				"code":    customErr.Code.Code,
				"message": customErr.Message,
				"details": customErr.Details,
				"status":  "error",
			})
		}

		// Lỗi không xác định thì trả về 500
		return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": err.Error(),
			"status":  "error",
		})
	}

	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// SafeHandlerWrapper bọc phần xử lý chính của một domain handler với recover.
// Đảm bảo server luôn trả về response cho client, kể cả khi có panic xảy ra.
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetAppLogger().WithField("panic", fmt.Sprintf("%v", r)).
				WithField("path", c.Path()).
				WithField("method", c.Method()).
				Error("Panic trong handler")

			err = HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi hệ thống không mong muốn: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}

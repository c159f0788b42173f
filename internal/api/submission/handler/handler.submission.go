// Package submissionhdl chứa HTTP handler cho domain Submission.
// File: handler.submission.go
package submissionhdl

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "clone_studio/internal/api/base/handler"
	mediasvc "clone_studio/internal/api/media/service"
	notificationsvc "clone_studio/internal/api/notification/service"
	orderdto "clone_studio/internal/api/order/dto"
	ordersvc "clone_studio/internal/api/order/service"
	submissiondto "clone_studio/internal/api/submission/dto"
	submissionmodels "clone_studio/internal/api/submission/models"
	submissionsvc "clone_studio/internal/api/submission/service"
	"clone_studio/internal/common"
	"clone_studio/internal/logger"
)

// SubmissionHandler xử lý các route cho submission (phía khách và phía admin)
type SubmissionHandler struct {
	submissionService *submissionsvc.SubmissionService
	orderService      *ordersvc.OrderService
	mediaService      *mediasvc.MediaService
	emailService      *notificationsvc.EmailService
}

// NewSubmissionHandler tạo mới SubmissionHandler
func NewSubmissionHandler() (*SubmissionHandler, error) {
	submissionService, err := submissionsvc.NewSubmissionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create submission service: %v", err)
	}
	orderService, err := ordersvc.NewOrderService()
	if err != nil {
		return nil, fmt.Errorf("failed to create order service: %v", err)
	}

	return &SubmissionHandler{
		submissionService: submissionService,
		orderService:      orderService,
		mediaService:      mediasvc.NewMediaService(),
		emailService:      notificationsvc.NewEmailService(),
	}, nil
}

// parseSubmissionID parse param :id thành ObjectID
func parseSubmissionID(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"ID submission không đúng định dạng",
			common.StatusBadRequest,
			nil,
		)
	}
	return id, nil
}

// performedBy trả về định danh admin từ Locals, fallback "admin"
func performedBy(c fiber.Ctx) string {
	if adminID, ok := c.Locals("adminId").(string); ok && adminID != "" {
		return adminID
	}
	return "admin"
}

// HandleUploadCallback nhận callback sau khi client upload xong một batch video
// lên media host. Batch được validate toàn bộ trước khi ghi: một file sai là
// từ chối cả batch.
func (h *SubmissionHandler) HandleUploadCallback(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input submissiondto.UploadCallbackInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Body callback không đúng định dạng JSON",
				common.StatusBadRequest,
				err.Error(),
			))
		}

		submissionID, err := primitive.ObjectIDFromHex(input.SubmissionID)
		if err != nil {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"ID submission không đúng định dạng",
				common.StatusBadRequest,
				nil,
			))
		}

		updated, err := h.submissionService.IngestUploadBatch(c.Context(), submissionID, input)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		return basehdl.HandleResponse(c, submissiondto.UploadCallbackResult{
			Success:      true,
			SubmissionID: updated.ID.Hex(),
			Status:       updated.Status,
		}, nil)
	})
}

// HandleCreateSubmission tạo submission mới cho một đơn hàng (POST /orders/:orderId/submission)
func (h *SubmissionHandler) HandleCreateSubmission(c fiber.Ctx) error {
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

		// Đơn hàng phải tồn tại trước khi tạo submission
		if _, err := h.orderService.FindOneById(c.Context(), orderID); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		var input submissiondto.CreateSubmissionInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Body không đúng định dạng JSON",
				common.StatusBadRequest,
				err.Error(),
			))
		}

		created, err := h.submissionService.CreateSubmission(c.Context(), orderID.Hex(), input)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		// Thông tin liên hệ gửi kèm lúc intake được ghi ngược vào order,
		// lỗi cập nhật không chặn submission đã tạo thành công
		if input.Email != "" || input.Phone != "" {
			if _, err := h.orderService.UpdateBuyer(c.Context(), orderID, orderdto.UpdateBuyerInput{
				Email: input.Email,
				Phone: input.Phone,
			}); err != nil {
				logger.GetAppLogger().WithField("orderId", orderID.Hex()).
					Warnf("⚠️ [SUBMISSION] Không cập nhật được liên hệ người mua: %v", err)
			}
		}

		return basehdl.HandleResponse(c, submissiondto.CreateSubmissionResult{
			SubmissionID: created.ID.Hex(),
		}, nil)
	})
}

// HandleGetByOrder trả về submission của một đơn hàng (GET /orders/:orderId/submission)
func (h *SubmissionHandler) HandleGetByOrder(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		submission, err := h.submissionService.FindByOrderID(c.Context(), c.Params("orderId"))
		return basehdl.HandleResponse(c, submission, err)
	})
}

// HandleAdminList trả về danh sách submission cho admin, có lọc và tìm kiếm
// (GET /admin/submissions?status=&dateFrom=&dateTo=&search=&limit=&skip=)
func (h *SubmissionHandler) HandleAdminList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		query := submissiondto.ListQuery{
			Status:   c.Query("status"),
			DateFrom: c.Query("dateFrom"),
			DateTo:   c.Query("dateTo"),
			Search:   c.Query("search"),
		}
		if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil {
			query.Limit = limit
		}
		if skip, err := strconv.ParseInt(c.Query("skip"), 10, 64); err == nil {
			query.Skip = skip
		}

		result, err := h.submissionService.List(c.Context(), query)
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleAdminGet trả về chi tiết một submission kèm tóm tắt đơn hàng
// (GET /admin/submissions/:id)
func (h *SubmissionHandler) HandleAdminGet(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		submissionID, err := parseSubmissionID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		submission, err := h.submissionService.GetWithOrder(c.Context(), submissionID)
		return basehdl.HandleResponse(c, submission, err)
	})
}

// HandleDeleteVideo xóa một video khỏi submission theo videoUrl
// (DELETE /admin/submissions/:id/video). Sau khi gỡ khỏi database, asset trên
// media host được xóa best-effort: lỗi phía media host chỉ ghi log.
func (h *SubmissionHandler) HandleDeleteVideo(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		submissionID, err := parseSubmissionID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		var input submissiondto.DeleteVideoInput
		if err := c.Bind().Body(&input); err != nil || input.VideoURL == "" {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu videoUrl của video cần xóa",
				common.StatusBadRequest,
				nil,
			))
		}

		updated, removed, err := h.submissionService.DeleteVideo(c.Context(), submissionID, input.VideoURL, performedBy(c))
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		// Xóa asset trên media host best-effort; video cũ có thể không có publicId
		if removed.PublicID != "" {
			if mediaErr := h.mediaService.DeleteRemote(c.Context(), removed.PublicID); mediaErr != nil {
				logger.GetAppLogger().WithField("publicId", removed.PublicID).
					WithField("error", mediaErr.Error()).
					Warn("⚠️ [ADMIN] Xóa asset trên media host thất bại, video đã gỡ khỏi submission")
			}
		}

		logger.LogAdminAction("video_delete", submissionID.Hex(), c, map[string]interface{}{
			"videoUrl": removed.URL,
			"publicId": removed.PublicID,
			"filename": removed.Filename,
		})

		return basehdl.HandleResponse(c, updated, nil)
	})
}

// HandleSetProcessed gắn video thành phẩm và/hoặc ghi chú admin
// (PUT /admin/submissions/:id/set-processed). Có processedVideoUrl thì chuyển
// trạng thái sang ready và gửi email thông báo cho khách (best-effort).
func (h *SubmissionHandler) HandleSetProcessed(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		submissionID, err := parseSubmissionID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		var input submissiondto.SetProcessedInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Body không đúng định dạng JSON",
				common.StatusBadRequest,
				err.Error(),
			))
		}

		updated, err := h.submissionService.SetProcessed(c.Context(), submissionID, input)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		logger.LogAdminAction("set_processed", submissionID.Hex(), c, map[string]interface{}{
			"processedVideoUrl": input.ProcessedVideoURL,
			"hasNotes":          input.AdminNotes != "",
		})

		// Chuyển sang ready thì báo cho khách qua email (best-effort)
		if updated.Status == submissionmodels.StatusReady && input.ProcessedVideoURL != "" {
			h.notifyBuyerReady(c, updated)
		}

		return basehdl.HandleResponse(c, submissiondto.SetProcessedResult{
			Success: true,
			Submission: submissiondto.SetProcessedSubmission{
				ID:                updated.ID.Hex(),
				Status:            updated.Status,
				ProcessedVideoURL: updated.ProcessedVideoURL,
				AdminNotes:        updated.AdminNotes,
			},
		}, nil)
	})
}

// notifyBuyerReady tra đơn hàng và gửi email thông báo video ready (nuốt mọi lỗi)
func (h *SubmissionHandler) notifyBuyerReady(c fiber.Ctx, submission submissionmodels.Submission) {
	orderID, err := primitive.ObjectIDFromHex(submission.OrderID)
	if err != nil {
		return
	}
	order, err := h.orderService.FindOneById(c.Context(), orderID)
	if err != nil {
		logger.GetAppLogger().WithField("orderId", submission.OrderID).
			WithField("error", err.Error()).
			Warn("⚠️ [ADMIN] Không tra được đơn hàng để gửi thông báo")
		return
	}
	_ = h.emailService.SendVideoReady(order.Buyer.Email, order.Buyer.Name, order.ID.Hex())
}

// HandleSetCustomPrompt gắn custom prompt cho submission
// (POST /submissions/:id/custom-prompt, gọi từ checkout flow phía khách).
// Chuỗi rỗng xóa prompt hiện tại; set được ở bất kỳ trạng thái nào.
func (h *SubmissionHandler) HandleSetCustomPrompt(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		submissionID, err := parseSubmissionID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		var input submissiondto.CustomPromptInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Body không đúng định dạng JSON",
				common.StatusBadRequest,
				err.Error(),
			))
		}

		updated, err := h.submissionService.SetCustomPrompt(c.Context(), submissionID, input.CustomPrompt)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		return basehdl.HandleResponse(c, submissiondto.CustomPromptResult{
			Success:      true,
			SubmissionID: updated.ID.Hex(),
			CustomPrompt: updated.CustomPrompt,
		}, nil)
	})
}

// HandleDownload proxy một video của submission về cho admin
// (GET /admin/submissions/:id/download?url=...). URL phải thuộc danh sách video
// hoặc là processedVideoUrl của submission; mỗi lần tải ghi một activity log.
func (h *SubmissionHandler) HandleDownload(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		submissionID, err := parseSubmissionID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		videoURL := c.Query("url")
		if videoURL == "" {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu query param url",
				common.StatusBadRequest,
				nil,
			))
		}

		submission, err := h.submissionService.FindOneById(c.Context(), submissionID)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		// Chỉ cho tải URL thuộc submission, không proxy URL tùy ý
		var matched *submissionmodels.VideoAsset
		for i := range submission.Videos {
			if submission.Videos[i].URL == videoURL {
				matched = &submission.Videos[i]
				break
			}
		}
		if matched == nil && submission.ProcessedVideoURL != videoURL {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"URL không thuộc submission này",
				common.StatusBadRequest,
				nil,
			))
		}

		body, contentType, contentLength, err := h.mediaService.FetchVideo(c.Context(), videoURL)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}

		downloadLog := submissionmodels.ActivityLog{
			Action:      submissionmodels.LogActionDownload,
			VideoURL:    videoURL,
			Status:      submissionmodels.LogStatusSuccess,
			Message:     "Admin tải video",
			PerformedBy: performedBy(c),
		}
		if matched != nil {
			downloadLog.VideoFilename = matched.Filename
			downloadLog.PublicID = matched.PublicID
		}
		if _, logErr := h.submissionService.AppendActivityLog(c.Context(), submissionID, downloadLog); logErr != nil {
			logger.GetAppLogger().WithField("submissionId", submissionID.Hex()).
				WithField("error", logErr.Error()).
				Warn("⚠️ [ADMIN] Không ghi được log download")
		}

		filename := "video.mp4"
		if matched != nil && matched.Filename != "" {
			filename = matched.Filename
		}
		c.Set("Content-Type", contentType)
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if contentLength > 0 {
			c.Set("Content-Length", strconv.FormatInt(contentLength, 10))
		}
		return c.SendStream(body)
	})
}

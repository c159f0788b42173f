// Package mediasvc chứa client gọi sang media host (nơi lưu video gốc và thành phẩm).
// File: service.media.go
package mediasvc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"

	"clone_studio/internal/common"
	"clone_studio/internal/global"
	"clone_studio/internal/logger"
)

// MediaService gọi REST API của media host để xóa asset và kéo video về cho download proxy
type MediaService struct {
	client  *resty.Client
	baseURL string
}

// NewMediaService tạo MediaService từ cấu hình server
func NewMediaService() *MediaService {
	cfg := global.MongoDB_ServerConfig
	return NewMediaServiceWithConfig(cfg.MediaHost_BaseURL, cfg.MediaHost_APIKey, cfg.MediaHost_APISecret, cfg.MediaHost_Timeout)
}

// NewMediaServiceWithConfig tạo MediaService với cấu hình tường minh (dùng cho test)
func NewMediaServiceWithConfig(baseURL, apiKey, apiSecret string, timeoutSeconds int) *MediaService {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(timeoutSeconds) * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	if apiKey != "" {
		client.SetBasicAuth(apiKey, apiSecret)
	}

	return &MediaService{
		client:  client,
		baseURL: baseURL,
	}
}

// DeleteRemote xóa một asset trên media host theo publicId.
// Caller gọi best-effort sau khi đã gỡ video khỏi submission: media host lỗi
// không được làm hỏng thao tác xóa trong database.
func (s *MediaService) DeleteRemote(ctx context.Context, publicID string) error {
	log := logger.GetAppLogger()

	resp, err := s.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/resources/%s", publicID))
	if err != nil {
		log.WithField("publicId", publicID).
			WithField("error", err.Error()).
			Warn("⚠️ [MEDIA] Không gọi được media host để xóa asset")
		return common.NewError(
			common.ErrCodeInternalServer,
			"Không gọi được media host",
			common.StatusInternalServerError,
			err.Error(),
		)
	}

	if resp.IsError() {
		log.WithField("publicId", publicID).
			WithField("statusCode", resp.StatusCode()).
			Warn("⚠️ [MEDIA] Media host từ chối xóa asset")
		return common.NewError(
			common.ErrCodeInternalServer,
			fmt.Sprintf("Media host trả về %d khi xóa asset", resp.StatusCode()),
			common.StatusInternalServerError,
			string(resp.Body()),
		)
	}

	log.WithField("publicId", publicID).Info("🗑️ [MEDIA] Đã xóa asset trên media host")
	return nil
}

// FetchVideo kéo video từ media host theo URL tuyệt đối, trả về stream để proxy
// xuống client. Caller chịu trách nhiệm Close stream.
func (s *MediaService) FetchVideo(ctx context.Context, videoURL string) (io.ReadCloser, string, int64, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(videoURL)
	if err != nil {
		return nil, "", 0, common.NewError(
			common.ErrCodeInternalServer,
			"Không tải được video từ media host",
			common.StatusInternalServerError,
			err.Error(),
		)
	}

	raw := resp.RawResponse
	if raw.StatusCode >= 400 {
		raw.Body.Close()
		return nil, "", 0, common.NewError(
			common.ErrCodeDatabaseQuery,
			fmt.Sprintf("Media host trả về %d cho video", raw.StatusCode),
			common.StatusNotFound,
			nil,
		)
	}

	contentType := raw.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	return raw.Body, contentType, raw.ContentLength, nil
}

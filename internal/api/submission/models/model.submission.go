// Package submissionmodels định nghĩa các model cho submission của khách hàng
package submissionmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionStatus là trạng thái vòng đời của submission
type SubmissionStatus string

// Các trạng thái của submission
const (
	StatusAwaitingUpload SubmissionStatus = "awaiting_upload" // Chưa có video nào được upload
	StatusUploaded       SubmissionStatus = "uploaded"        // Đã có ít nhất một video
	StatusProcessing     SubmissionStatus = "processing"      // Pipeline sản xuất đang xử lý
	StatusReady          SubmissionStatus = "ready"           // Admin đã gắn video thành phẩm
	StatusDelivered      SubmissionStatus = "delivered"       // Đã giao cho khách (terminal)
	StatusFailed         SubmissionStatus = "failed"          // Xử lý thất bại, có thể retry
)

// IsValid kiểm tra giá trị trạng thái có nằm trong enum không
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case StatusAwaitingUpload, StatusUploaded, StatusProcessing, StatusReady, StatusDelivered, StatusFailed:
		return true
	}
	return false
}

// allowedTransitions định nghĩa các cạnh hợp lệ của state machine.
// delivered là terminal: không có cạnh đi ra.
var allowedTransitions = map[SubmissionStatus][]SubmissionStatus{
	StatusAwaitingUpload: {StatusUploaded, StatusReady},
	StatusUploaded:       {StatusUploaded, StatusAwaitingUpload, StatusProcessing, StatusReady},
	StatusProcessing:     {StatusReady, StatusFailed},
	StatusReady:          {StatusReady, StatusDelivered},
	StatusFailed:         {StatusProcessing, StatusReady},
	StatusDelivered:      {},
}

// CanTransition kiểm tra việc chuyển từ trạng thái from sang to có hợp lệ không.
// Mọi thao tác ghi status PHẢI đi qua hàm này thay vì gán field trực tiếp.
func CanTransition(from, to SubmissionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Các action của activity log
const (
	LogActionUpload   = "upload"
	LogActionDelete   = "delete"
	LogActionDownload = "download"
	LogActionError    = "error"
)

// Các status của activity log
const (
	LogStatusSuccess = "success"
	LogStatusFailed  = "failed"
)

// VideoAsset đại diện cho một video gốc khách đã upload lên media host
type VideoAsset struct {
	URL        string `json:"url" bson:"url"`                             // URL công khai trên media host
	PublicID   string `json:"publicId" bson:"publicId"`                   // Asset ID trên media host
	Filename   string `json:"filename" bson:"filename"`                   // Tên file gốc
	Size       int64  `json:"size" bson:"size"`                           // Kích thước file (bytes)
	UploadedAt int64  `json:"uploadedAt,omitempty" bson:"uploadedAt,omitempty"` // Thời điểm upload (UnixMilli)
}

// ActivityLog là một dòng nhật ký hoạt động của submission.
// Mảng activityLogs là append-only: không bao giờ sửa hoặc xóa entry đã ghi.
type ActivityLog struct {
	Action        string `json:"action" bson:"action"`                                 // upload, delete, download, error
	VideoURL      string `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`         // URL video liên quan
	VideoFilename string `json:"videoFilename,omitempty" bson:"videoFilename,omitempty"` // Tên file liên quan
	PublicID      string `json:"publicId,omitempty" bson:"publicId,omitempty"`         // Asset ID liên quan
	Status        string `json:"status" bson:"status"`                                 // success, failed
	Message       string `json:"message,omitempty" bson:"message,omitempty"`           // Mô tả ngắn
	Response      string `json:"response,omitempty" bson:"response,omitempty"`         // Payload phản hồi (đã serialize)
	Error         string `json:"error,omitempty" bson:"error,omitempty"`               // Chi tiết lỗi nếu failed
	Timestamp     int64  `json:"timestamp" bson:"timestamp"`                           // Thời điểm ghi log (UnixMilli)
	PerformedBy   string `json:"performedBy,omitempty" bson:"performedBy,omitempty"`   // Ai thực hiện: customer, admin hoặc admin id
}

// Submission đại diện cho một yêu cầu sản xuất video của khách hàng
type Submission struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của submission

	// ===== ORDER LINK =====
	OrderID string `json:"orderId" bson:"orderId" index:"single:1;unique"` // ID đơn hàng, mỗi đơn một submission active

	// ===== SCRIPT =====
	ScriptText   string `json:"scriptText" bson:"scriptText"`                           // Kịch bản khách nhập (tối thiểu 10 ký tự)
	CustomPrompt string `json:"customPrompt,omitempty" bson:"customPrompt,omitempty"`   // Prompt tùy chỉnh khách gắn từ checkout flow
	GreenScreen  bool   `json:"greenScreen" bson:"greenScreen"`                         // Khách yêu cầu nền green screen

	// ===== VIDEO ASSETS =====
	Videos []VideoAsset `json:"videos" bson:"videos"` // Video gốc khách đã upload

	// ===== STATUS =====
	Status SubmissionStatus `json:"status" bson:"status" index:"single:1"` // Trạng thái vòng đời (xem CanTransition)

	// ===== ADMIN OUTPUT =====
	ProcessedVideoURL string `json:"processedVideoUrl,omitempty" bson:"processedVideoUrl,omitempty"` // URL video thành phẩm
	AdminNotes        string `json:"adminNotes,omitempty" bson:"adminNotes,omitempty"`               // Ghi chú nội bộ của admin

	// ===== ACTIVITY LOGS =====
	ActivityLogs []ActivityLog `json:"activityLogs" bson:"activityLogs"` // Nhật ký hoạt động, append-only

	// ===== TIMESTAMPS =====
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:-1"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`                   // Thời gian cập nhật
}

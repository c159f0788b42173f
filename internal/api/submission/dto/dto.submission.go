// Package submissiondto chứa DTO cho domain Submission.
// File: dto.submission.go
package submissiondto

import (
	orderdto "clone_studio/internal/api/order/dto"
	submissionmodels "clone_studio/internal/api/submission/models"
)

// CreateSubmissionInput là DTO cho tạo mới submission từ checkout flow
type CreateSubmissionInput struct {
	ScriptText  string `json:"scriptText" validate:"required,script_text"` // Kịch bản, tối thiểu 10 ký tự
	GreenScreen bool   `json:"greenScreen"`                                // Yêu cầu nền green screen
	Email       string `json:"email,omitempty" validate:"omitempty,email"` // Liên hệ người mua, cập nhật vào order
	Phone       string `json:"phone,omitempty"`                            // Liên hệ người mua, cập nhật vào order
}

// UploadFileDescriptor mô tả một file đã upload trực tiếp lên media host
type UploadFileDescriptor struct {
	Filename string `json:"filename" validate:"required"` // Tên file gốc, đuôi file kiểm tra trong ValidateUploadBatch
	URL      string `json:"url" validate:"required,url"`            // URL công khai trên media host
	PublicID string `json:"publicId" validate:"required"`           // Asset ID trên media host
	Size     int64  `json:"size" validate:"required,gt=0"`          // Kích thước file (bytes), tối đa 2 GiB
}

// UploadCallbackInput là DTO cho callback sau khi upload batch hoàn tất.
// BatchID do client sinh (uuid) để đảm bảo idempotency khi retry.
type UploadCallbackInput struct {
	SubmissionID string                 `json:"submissionId" validate:"required"` // ID submission nhận batch
	BatchID      string                 `json:"batchId,omitempty"`                // ID của batch upload (idempotency key)
	Files        []UploadFileDescriptor `json:"files" validate:"required,min=1,dive"` // Danh sách file, không được rỗng
}

// UploadCallbackResult là response của upload callback.
// Endpoint không cần auth nên chỉ trả về trạng thái, không trả cả document.
type UploadCallbackResult struct {
	Success      bool                              `json:"success"`      // Luôn true khi batch được ghi nhận
	SubmissionID string                            `json:"submissionId"` // ID submission
	Status       submissionmodels.SubmissionStatus `json:"status"`       // Trạng thái sau khi ghi nhận batch
}

// SetProcessedInput là DTO cho thao tác admin gắn video thành phẩm
type SetProcessedInput struct {
	ProcessedVideoURL string `json:"processedVideoUrl,omitempty" validate:"omitempty,url"` // URL video thành phẩm
	AdminNotes        string `json:"adminNotes,omitempty"`                                 // Ghi chú nội bộ
}

// SetProcessedResult là response của thao tác set-processed
type SetProcessedResult struct {
	Success    bool                  `json:"success"`    // Luôn true khi thao tác thành công
	Submission SetProcessedSubmission `json:"submission"` // Thông tin submission sau cập nhật
}

// SetProcessedSubmission là phần submission rút gọn trong SetProcessedResult
type SetProcessedSubmission struct {
	ID                string                            `json:"id"`                          // ID submission
	Status            submissionmodels.SubmissionStatus `json:"status"`                      // Trạng thái sau cập nhật
	ProcessedVideoURL string                            `json:"processedVideoUrl,omitempty"` // URL thành phẩm
	AdminNotes        string                            `json:"adminNotes,omitempty"`        // Ghi chú
}

// CustomPromptInput là DTO cho thao tác gắn custom prompt từ checkout flow.
// Chuỗi rỗng xóa prompt hiện tại.
type CustomPromptInput struct {
	CustomPrompt string `json:"customPrompt"` // Prompt tùy chỉnh, rỗng để xóa
}

// CustomPromptResult là response của thao tác set custom prompt
type CustomPromptResult struct {
	Success      bool   `json:"success"`      // Luôn true khi thao tác thành công
	SubmissionID string `json:"submissionId"` // ID submission
	CustomPrompt string `json:"customPrompt"` // Prompt sau cập nhật
}

// DeleteVideoInput là DTO cho thao tác admin xóa một video khỏi submission.
// Khóa theo URL vì video cũ có thể được lưu với publicId rỗng.
type DeleteVideoInput struct {
	VideoURL string `json:"videoUrl" validate:"required,url"` // URL của video cần xóa
}

// ListQuery là query params cho danh sách submission của admin
type ListQuery struct {
	Status   string `query:"status"`   // Lọc theo trạng thái
	DateFrom string `query:"dateFrom"` // Lọc từ ngày (RFC3339 hoặc YYYY-MM-DD)
	DateTo   string `query:"dateTo"`   // Lọc đến ngày
	Search   string `query:"search"`   // Tìm theo email/phone/tên người mua
	Limit    int64  `query:"limit"`    // Số bản ghi tối đa (mặc định 50)
	Skip     int64  `query:"skip"`     // Số bản ghi bỏ qua (mặc định 0)
}

// SubmissionWithOrder là submission kèm phần đơn hàng rút gọn cho admin.
// Order là nil khi đơn hàng không còn tra được.
type SubmissionWithOrder struct {
	submissionmodels.Submission
	Order *orderdto.OrderSummary `json:"order,omitempty"` // Tóm tắt đơn hàng (buyer, createdAt)
}

// ListResult là response của danh sách submission
type ListResult struct {
	Submissions []SubmissionWithOrder `json:"submissions"` // Danh sách submission kèm buyer
	Total       int64                 `json:"total"`       // Tổng số khớp filter
	Limit       int64                 `json:"limit"`       // Limit đã áp dụng
	Skip        int64                 `json:"skip"`        // Skip đã áp dụng
}

// CreateSubmissionResult là response khi tạo submission mới
type CreateSubmissionResult struct {
	SubmissionID string `json:"submissionId"` // ID submission vừa tạo
}

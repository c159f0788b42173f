package global

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Giới hạn file video khách hàng upload
const (
	// MaxVideoSizeBytes là dung lượng tối đa cho một file video (2 GiB)
	MaxVideoSizeBytes int64 = 2 * 1024 * 1024 * 1024
	// MinScriptTextLength là độ dài tối thiểu của script text
	MinScriptTextLength = 10
)

// allowedVideoExtensions chứa các đuôi file video được chấp nhận (so sánh không phân biệt hoa thường)
var allowedVideoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
}

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("video_ext", validateVideoExtension)
	_ = Validate.RegisterValidation("script_text", validateScriptText)
}

// IsAllowedVideoFilename kiểm tra filename có đuôi video được chấp nhận không.
// Dùng chung cho validator và batch validation trong service.
func IsAllowedVideoFilename(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedVideoExtensions[ext]
}

// validateVideoExtension kiểm tra đuôi file của filename
func validateVideoExtension(fl validator.FieldLevel) bool {
	return IsAllowedVideoFilename(fl.Field().String())
}

// validateScriptText kiểm tra script text có đủ độ dài tối thiểu không (tính theo ký tự, không theo byte)
func validateScriptText(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	return utf8.RuneCountInString(value) >= MinScriptTextLength
}

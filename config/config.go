package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8080"`                 // Cổng server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT cho admin token
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Media host (nơi lưu trữ video đã upload)
	MediaHost_BaseURL   string `env:"MEDIA_HOST_BASE_URL"`                      // Base URL API của media host
	MediaHost_APIKey    string `env:"MEDIA_HOST_API_KEY"`                       // API key của media host
	MediaHost_APISecret string `env:"MEDIA_HOST_API_SECRET"`                    // API secret của media host
	MediaHost_Timeout   int    `env:"MEDIA_HOST_TIMEOUT_SECONDS" envDefault:"30"` // Timeout cho request tới media host (giây)

	// SMTP (gửi email thông báo cho khách hàng)
	SMTP_Host      string `env:"SMTP_HOST"`                                 // SMTP server host
	SMTP_Port      int    `env:"SMTP_PORT" envDefault:"587"`               // SMTP server port
	SMTP_Username  string `env:"SMTP_USERNAME"`                             // SMTP username
	SMTP_Password  string `env:"SMTP_PASSWORD"`                             // SMTP password
	SMTP_FromEmail string `env:"SMTP_FROM_EMAIL"`                           // Địa chỉ email gửi đi
	SMTP_FromName  string `env:"SMTP_FROM_NAME" envDefault:"Clone Studio"` // Tên hiển thị email gửi đi

	// Frontend URL (dùng trong nội dung email)
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Dùng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Đi lên từ thư mục hiện tại tìm config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc dữ liệu cấu hình từ file env theo GO_ENV rồi parse vào struct
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}

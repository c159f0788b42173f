// Package notificationsvc gửi email thông báo cho khách hàng.
// File: service.email.go
package notificationsvc

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"clone_studio/config"
	"clone_studio/internal/global"
	"clone_studio/internal/logger"
)

// EmailService gửi email giao dịch qua SMTP
type EmailService struct {
	cfg *config.Configuration
}

// NewEmailService tạo EmailService từ cấu hình server
func NewEmailService() *EmailService {
	return &EmailService{cfg: global.MongoDB_ServerConfig}
}

// Enabled cho biết SMTP đã được cấu hình chưa.
// Môi trường dev thường không cấu hình SMTP, khi đó mọi thông báo bị bỏ qua.
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.SMTP_Host != ""
}

// SendVideoReady thông báo cho khách video thành phẩm đã sẵn sàng.
// Gọi best-effort sau khi admin set-processed: lỗi gửi mail không được làm hỏng thao tác chính.
func (s *EmailService) SendVideoReady(recipient, buyerName, orderID string) error {
	if !s.Enabled() {
		logger.GetAppLogger().WithField("recipient", recipient).
			Debug("SMTP chưa cấu hình, bỏ qua thông báo video ready")
		return nil
	}

	greeting := "Chào bạn"
	if buyerName != "" {
		greeting = "Chào " + buyerName
	}

	orderLink := fmt.Sprintf("%s/orders/%s", s.cfg.FrontendURL, orderID)
	htmlContent := fmt.Sprintf(`
		<p>%s,</p>
		<p>Video của bạn đã được xử lý xong và sẵn sàng để xem.</p>
		<p><a href="%s" style="display:inline-block;padding:10px 20px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Xem video của bạn</a></p>
		<p>Cảm ơn bạn đã sử dụng dịch vụ.</p>`,
		greeting, orderLink)

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", s.cfg.SMTP_FromName, s.cfg.SMTP_FromEmail))
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", "Video của bạn đã sẵn sàng")
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(s.cfg.SMTP_Host, s.cfg.SMTP_Port, s.cfg.SMTP_Username, s.cfg.SMTP_Password)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.GetAppLogger().WithField("recipient", recipient).
			WithField("error", err.Error()).
			Warn("⚠️ [EMAIL] Gửi thông báo video ready thất bại")
		return err
	}

	logger.GetAppLogger().WithField("recipient", recipient).
		WithField("orderId", orderID).
		Info("📧 [EMAIL] Đã gửi thông báo video ready")
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clone_studio/internal/global"
	"clone_studio/internal/logger"
)

// initLogger khởi tạo hệ thống logging trước tất cả các thành phần khác
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
}

// main_thread khởi động HTTP server và chờ tín hiệu shutdown
func main_thread() {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	app := InitFiberApp()

	// Chạy server trong goroutine riêng để main goroutine chờ signal
	go func() {
		addr := ":" + cfg.Address
		log.Infof("🚀 Server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server stopped unexpectedly: %v", err)
		}
	}()

	// Chờ tín hiệu shutdown (Ctrl+C hoặc SIGTERM từ orchestrator)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Cho các request đang xử lý tối đa 10 giây để hoàn thành
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	// Đóng kết nối MongoDB sau khi server đã dừng nhận request
	if global.MongoDB_Session != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := global.MongoDB_Session.Disconnect(ctx); err != nil {
			log.Errorf("Error disconnecting MongoDB: %v", err)
		}
	}

	log.Info("Server exited")

	// Flush log còn trong queue trước khi process kết thúc
	logger.Close()
}

func main() {
	initLogger()
	InitGlobal()
	InitRegistry()
	main_thread()
}

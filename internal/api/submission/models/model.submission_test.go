// Package submissionmodels - Test state machine chuyển trạng thái submission.
package submissionmodels

import (
	"testing"
)

func TestCanTransition_HappyPath(t *testing.T) {
	path := []SubmissionStatus{
		StatusAwaitingUpload,
		StatusUploaded,
		StatusProcessing,
		StatusReady,
		StatusDelivered,
	}
	for i := 0; i < len(path)-1; i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Errorf("chuyển %s -> %s phải hợp lệ", path[i], path[i+1])
		}
	}
}

func TestCanTransition_DeliveredLaTerminal(t *testing.T) {
	targets := []SubmissionStatus{
		StatusAwaitingUpload, StatusUploaded, StatusProcessing,
		StatusReady, StatusFailed, StatusDelivered,
	}
	for _, to := range targets {
		if CanTransition(StatusDelivered, to) {
			t.Errorf("delivered là terminal, không được chuyển sang %s", to)
		}
	}
}

func TestCanTransition_KhongRegress(t *testing.T) {
	// ready không được quay về uploaded hoặc awaiting_upload
	if CanTransition(StatusReady, StatusUploaded) {
		t.Error("ready -> uploaded phải bị từ chối")
	}
	if CanTransition(StatusReady, StatusAwaitingUpload) {
		t.Error("ready -> awaiting_upload phải bị từ chối")
	}
}

func TestCanTransition_UploadedIdempotent(t *testing.T) {
	// Upload callback lần hai trên submission đã uploaded là no-op hợp lệ
	if !CanTransition(StatusUploaded, StatusUploaded) {
		t.Error("uploaded -> uploaded phải hợp lệ (callback idempotent)")
	}
}

func TestCanTransition_XoaHetVideo(t *testing.T) {
	// Xóa video cuối cùng đưa submission về awaiting_upload
	if !CanTransition(StatusUploaded, StatusAwaitingUpload) {
		t.Error("uploaded -> awaiting_upload phải hợp lệ khi xóa hết video")
	}
}

func TestCanTransition_SetProcessedTuMoiTrangThai(t *testing.T) {
	// Admin set-processed chuyển sang ready từ mọi trạng thái trừ delivered
	froms := []SubmissionStatus{
		StatusAwaitingUpload, StatusUploaded, StatusProcessing,
		StatusReady, StatusFailed,
	}
	for _, from := range froms {
		if !CanTransition(from, StatusReady) {
			t.Errorf("%s -> ready phải hợp lệ (admin set-processed)", from)
		}
	}
}

func TestCanTransition_FailedRetry(t *testing.T) {
	if !CanTransition(StatusFailed, StatusProcessing) {
		t.Error("failed -> processing phải hợp lệ (retry)")
	}
}

func TestSubmissionStatus_IsValid(t *testing.T) {
	valid := []SubmissionStatus{
		StatusAwaitingUpload, StatusUploaded, StatusProcessing,
		StatusReady, StatusDelivered, StatusFailed,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%s phải là trạng thái hợp lệ", s)
		}
	}
	if SubmissionStatus("unknown").IsValid() {
		t.Error("trạng thái lạ phải bị từ chối")
	}
}

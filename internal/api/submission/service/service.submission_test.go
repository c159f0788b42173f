// Package submissionsvc - Test validate batch upload, build entries và filter danh sách.
package submissionsvc

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	submissiondto "clone_studio/internal/api/submission/dto"
	submissionmodels "clone_studio/internal/api/submission/models"
	"clone_studio/internal/common"
	"clone_studio/internal/global"
)

func validFile(filename string) submissiondto.UploadFileDescriptor {
	return submissiondto.UploadFileDescriptor{
		Filename: filename,
		URL:      "https://media.example.com/v/" + filename,
		PublicID: "asset_" + filename,
		Size:     1024,
	}
}

func TestValidateUploadBatch_BatchRong(t *testing.T) {
	err := ValidateUploadBatch(nil)
	if err == nil {
		t.Fatal("batch rỗng phải bị từ chối")
	}
}

func TestValidateUploadBatch_HopLe(t *testing.T) {
	files := []submissiondto.UploadFileDescriptor{
		validFile("intro.mp4"),
		validFile("scene2.MOV"),
	}
	if err := ValidateUploadBatch(files); err != nil {
		t.Errorf("batch hợp lệ bị từ chối: %v", err)
	}
}

func TestValidateUploadBatch_SaiDinhDang(t *testing.T) {
	files := []submissiondto.UploadFileDescriptor{
		validFile("intro.mp4"),
		validFile("notes.txt"),
	}
	err := ValidateUploadBatch(files)
	if err == nil {
		t.Fatal("batch chứa .txt phải bị từ chối toàn bộ")
	}
	var customErr *common.Error
	if !errors.As(err, &customErr) {
		t.Fatalf("lỗi phải là *common.Error, nhận %T", err)
	}
	if customErr.StatusCode != common.StatusBadRequest {
		t.Errorf("status code phải là 400, nhận %d", customErr.StatusCode)
	}
}

func TestValidateUploadBatch_QuaGioiHan(t *testing.T) {
	big := validFile("big.mp4")
	big.Size = global.MaxVideoSizeBytes + 1
	err := ValidateUploadBatch([]submissiondto.UploadFileDescriptor{big})
	if err == nil {
		t.Fatal("file vượt 2GB phải bị từ chối")
	}
}

func TestValidateUploadBatch_DungBang2GB(t *testing.T) {
	edge := validFile("edge.mp4")
	edge.Size = global.MaxVideoSizeBytes
	if err := ValidateUploadBatch([]submissiondto.UploadFileDescriptor{edge}); err != nil {
		t.Errorf("file đúng 2GB phải được nhận: %v", err)
	}
}

func TestBuildUploadEntries_MotLogMoiFile(t *testing.T) {
	files := []submissiondto.UploadFileDescriptor{
		validFile("a.mp4"),
		validFile("b.mov"),
	}
	now := time.Now().UnixMilli()
	videos, logs := BuildUploadEntries(files, "batch-1", now)

	if len(videos) != 2 || len(logs) != 2 {
		t.Fatalf("phải có 2 video và 2 log, nhận %d/%d", len(videos), len(logs))
	}
	for i := range files {
		if videos[i].PublicID != files[i].PublicID {
			t.Errorf("video %d sai publicId", i)
		}
		if videos[i].UploadedAt != now {
			t.Errorf("video %d sai uploadedAt", i)
		}
		if logs[i].Action != submissionmodels.LogActionUpload {
			t.Errorf("log %d phải có action upload", i)
		}
		if logs[i].Status != submissionmodels.LogStatusSuccess {
			t.Errorf("log %d phải có status success", i)
		}
		if logs[i].PublicID != files[i].PublicID {
			t.Errorf("log %d sai publicId", i)
		}
	}
}

func TestHasProcessedBatch(t *testing.T) {
	now := time.Now().UnixMilli()
	videos, logs := BuildUploadEntries([]submissiondto.UploadFileDescriptor{validFile("a.mp4")}, "batch-42", now)
	submission := submissionmodels.Submission{
		Videos:       videos,
		ActivityLogs: logs,
	}

	if !HasProcessedBatch(submission, "batch-42") {
		t.Error("batch đã ghi nhận phải được phát hiện")
	}
	if HasProcessedBatch(submission, "batch-43") {
		t.Error("batch khác không được phát hiện nhầm")
	}
	if HasProcessedBatch(submission, "") {
		t.Error("batchId rỗng không bao giờ khớp")
	}
}

func TestBuildListFilter_StatusKhongHopLe(t *testing.T) {
	_, err := BuildListFilter(submissiondto.ListQuery{Status: "unknown"}, nil)
	if err == nil {
		t.Fatal("status lạ phải bị từ chối")
	}
}

func TestBuildListFilter_TheoStatus(t *testing.T) {
	filter, err := BuildListFilter(submissiondto.ListQuery{Status: "uploaded"}, nil)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if filter["status"] != submissionmodels.StatusUploaded {
		t.Errorf("filter status sai: %v", filter["status"])
	}
	if _, ok := filter["orderId"]; ok {
		t.Error("không search thì không được lọc orderId")
	}
}

func TestBuildListFilter_TheoNgay(t *testing.T) {
	filter, err := BuildListFilter(submissiondto.ListQuery{
		DateFrom: "2026-01-01",
		DateTo:   "2026-01-31",
	}, nil)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	createdAt, ok := filter["createdAt"].(bson.M)
	if !ok {
		t.Fatalf("createdAt phải là bson.M, nhận %T", filter["createdAt"])
	}
	if _, ok := createdAt["$gte"]; !ok {
		t.Error("thiếu cận dưới $gte")
	}
	if _, ok := createdAt["$lte"]; !ok {
		t.Error("thiếu cận trên $lte")
	}
}

func TestBuildListFilter_NgaySaiDinhDang(t *testing.T) {
	_, err := BuildListFilter(submissiondto.ListQuery{DateFrom: "31/01/2026"}, nil)
	if err == nil {
		t.Fatal("ngày sai định dạng phải bị từ chối")
	}
}

func TestBuildListFilter_TheoOrderIDs(t *testing.T) {
	filter, err := BuildListFilter(submissiondto.ListQuery{}, []string{"id1", "id2"})
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if _, ok := filter["orderId"]; !ok {
		t.Error("có orderIDs thì phải lọc orderId $in")
	}
}

func TestParseListDate_CuoiNgay(t *testing.T) {
	from, err := parseListDate("2026-01-15", false)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	to, err := parseListDate("2026-01-15", true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if to <= from {
		t.Error("cuối ngày phải lớn hơn đầu ngày")
	}
	if to-from >= 24*int64(time.Hour/time.Millisecond) {
		t.Error("cuối ngày phải nằm trong cùng ngày")
	}
}

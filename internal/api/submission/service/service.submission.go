// Package submissionsvc chứa service cho domain Submission.
// File: service.submission.go
package submissionsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "clone_studio/internal/api/base/service"
	ordersvc "clone_studio/internal/api/order/service"
	submissiondto "clone_studio/internal/api/submission/dto"
	submissionmodels "clone_studio/internal/api/submission/models"
	"clone_studio/internal/common"
	"clone_studio/internal/global"
	"clone_studio/internal/logger"
)

// SubmissionService là cấu trúc chứa các phương thức liên quan đến submission.
// Store là interface để test có thể thay bằng fake không cần MongoDB.
type SubmissionService struct {
	basesvc.BaseServiceMongo[submissionmodels.Submission]
	orderService *ordersvc.OrderService
}

// NewSubmissionService tạo mới SubmissionService
func NewSubmissionService() (*SubmissionService, error) {
	submissionCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Submissions)
	if !exist {
		return nil, fmt.Errorf("failed to get submissions collection: %v", common.ErrNotFound)
	}

	orderService, err := ordersvc.NewOrderService()
	if err != nil {
		return nil, fmt.Errorf("failed to create order service: %v", err)
	}

	return &SubmissionService{
		BaseServiceMongo: basesvc.NewBaseServiceMongo[submissionmodels.Submission](submissionCollection),
		orderService:     orderService,
	}, nil
}

// CreateSubmission tạo submission mới cho một đơn hàng.
// Mỗi đơn hàng chỉ có một submission active (unique index trên orderId).
func (s *SubmissionService) CreateSubmission(ctx context.Context, orderID string, input submissiondto.CreateSubmissionInput) (submissionmodels.Submission, error) {
	var zero submissionmodels.Submission

	if err := global.Validate.Struct(input); err != nil {
		return zero, common.NewError(
			common.ErrCodeValidationInput,
			"Dữ liệu submission không hợp lệ",
			common.StatusBadRequest,
			err.Error(),
		)
	}

	submission := submissionmodels.Submission{
		OrderID:      orderID,
		ScriptText:   input.ScriptText,
		GreenScreen:  input.GreenScreen,
		Status:       submissionmodels.StatusAwaitingUpload,
		Videos:       []submissionmodels.VideoAsset{},
		ActivityLogs: []submissionmodels.ActivityLog{},
	}

	return s.InsertOne(ctx, submission)
}

// FindByOrderID tìm submission theo ID đơn hàng
func (s *SubmissionService) FindByOrderID(ctx context.Context, orderID string) (submissionmodels.Submission, error) {
	return s.FindOne(ctx, bson.M{"orderId": orderID}, nil)
}

// batchPayload là payload ghi vào field response của log upload,
// dùng để nhận diện batch đã xử lý khi client retry callback.
type batchPayload struct {
	BatchID string `json:"batchId"`
}

// encodeBatchPayload serialize batchId thành chuỗi JSON cho field response
func encodeBatchPayload(batchID string) string {
	if batchID == "" {
		return ""
	}
	raw, err := json.Marshal(batchPayload{BatchID: batchID})
	if err != nil {
		return ""
	}
	return string(raw)
}

// HasProcessedBatch kiểm tra submission đã ghi nhận batch upload này chưa
func HasProcessedBatch(submission submissionmodels.Submission, batchID string) bool {
	if batchID == "" {
		return false
	}
	for _, entry := range submission.ActivityLogs {
		if entry.Action != submissionmodels.LogActionUpload || entry.Status != submissionmodels.LogStatusSuccess {
			continue
		}
		if entry.Response == "" {
			continue
		}
		var payload batchPayload
		if err := json.Unmarshal([]byte(entry.Response), &payload); err != nil {
			continue
		}
		if payload.BatchID == batchID {
			return true
		}
	}
	return false
}

// ValidateUploadBatch kiểm tra toàn bộ batch trước khi ghi bất cứ thứ gì.
// Batch chỉ được nhận khi MỌI file đều hợp lệ (all-or-nothing).
func ValidateUploadBatch(files []submissiondto.UploadFileDescriptor) error {
	if len(files) == 0 {
		return common.NewError(
			common.ErrCodeValidationUpload,
			"Batch upload không được rỗng",
			common.StatusBadRequest,
			nil,
		)
	}

	var invalid []map[string]interface{}
	for _, file := range files {
		if !global.IsAllowedVideoFilename(file.Filename) {
			invalid = append(invalid, map[string]interface{}{
				"filename": file.Filename,
				"reason":   "Định dạng không được hỗ trợ, chỉ nhận .mp4 và .mov",
			})
			continue
		}
		if file.Size > global.MaxVideoSizeBytes {
			invalid = append(invalid, map[string]interface{}{
				"filename": file.Filename,
				"reason":   "File vượt quá giới hạn 2GB",
			})
		}
	}

	if len(invalid) > 0 {
		return common.NewError(
			common.ErrCodeValidationUpload,
			"Batch upload chứa file không hợp lệ",
			common.StatusBadRequest,
			invalid,
		)
	}
	return nil
}

// BuildUploadEntries dựng danh sách video và log upload cho một batch hợp lệ.
// Mỗi file sinh đúng một VideoAsset và một ActivityLog success, cùng timestamp.
func BuildUploadEntries(files []submissiondto.UploadFileDescriptor, batchID string, now int64) ([]submissionmodels.VideoAsset, []submissionmodels.ActivityLog) {
	videos := make([]submissionmodels.VideoAsset, 0, len(files))
	logs := make([]submissionmodels.ActivityLog, 0, len(files))
	response := encodeBatchPayload(batchID)

	for _, file := range files {
		videos = append(videos, submissionmodels.VideoAsset{
			URL:        file.URL,
			PublicID:   file.PublicID,
			Filename:   file.Filename,
			Size:       file.Size,
			UploadedAt: now,
		})
		logs = append(logs, submissionmodels.ActivityLog{
			Action:        submissionmodels.LogActionUpload,
			VideoURL:      file.URL,
			VideoFilename: file.Filename,
			PublicID:      file.PublicID,
			Status:        submissionmodels.LogStatusSuccess,
			Message:       "Upload video thành công",
			Response:      response,
			Timestamp:     now,
			PerformedBy:   "customer",
		})
	}
	return videos, logs
}

// IngestUploadBatch xử lý callback sau khi client upload xong một batch video.
//
// Quy trình:
//  1. Validate TOÀN BỘ batch trước, fail một file là từ chối cả batch
//     và document giữ nguyên, không ghi gì.
//  2. Nếu batchId đã được ghi nhận trước đó (client retry), trả về submission
//     hiện tại mà không append gì thêm.
//  3. Ghi videos + logs + status trong MỘT lệnh update duy nhất, filter theo
//     trạng thái hiện tại để phát hiện ghi đè đồng thời.
func (s *SubmissionService) IngestUploadBatch(ctx context.Context, submissionID primitive.ObjectID, input submissiondto.UploadCallbackInput) (submissionmodels.Submission, error) {
	var zero submissionmodels.Submission
	log := logger.GetAppLogger()

	if err := global.Validate.Struct(input); err != nil {
		return zero, common.NewError(
			common.ErrCodeValidationUpload,
			"Payload callback không hợp lệ",
			common.StatusBadRequest,
			err.Error(),
		)
	}

	submission, err := s.FindOneById(ctx, submissionID)
	if err != nil {
		return zero, err
	}

	// Client retry: batch đã xử lý rồi thì xác nhận lại, không append
	if HasProcessedBatch(submission, input.BatchID) {
		log.WithField("submissionId", submissionID.Hex()).
			WithField("batchId", input.BatchID).
			Info("🔁 [UPLOAD] Batch đã xử lý trước đó, bỏ qua")
		return submission, nil
	}

	// Batch không hợp lệ bị từ chối nguyên vẹn: không video, không log,
	// document giữ đúng trạng thái trước call
	if err := ValidateUploadBatch(input.Files); err != nil {
		return zero, err
	}

	// Client cũ không gửi batchId thì server tự sinh, đảm bảo log upload
	// nào cũng có dấu batch để đối chiếu về sau
	if input.BatchID == "" {
		input.BatchID = uuid.NewString()
	}

	now := time.Now().UnixMilli()
	videos, logs := BuildUploadEntries(input.Files, input.BatchID, now)

	// Trạng thái đích: uploaded nếu state machine cho phép, giữ nguyên nếu không
	// (ví dụ submission đã ready thì upload thêm không kéo lùi trạng thái)
	nextStatus := submission.Status
	if submissionmodels.CanTransition(submission.Status, submissionmodels.StatusUploaded) {
		nextStatus = submissionmodels.StatusUploaded
	}

	filter := bson.M{"_id": submissionID, "status": submission.Status}
	update := bson.M{
		"$push": bson.M{
			"videos":       bson.M{"$each": videos},
			"activityLogs": bson.M{"$each": logs},
		},
		"$set": bson.M{"status": nextStatus},
	}

	updated, err := s.FindOneAndUpdate(ctx, filter, update, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Document tồn tại nhưng status đã đổi giữa chừng
			return zero, common.ErrStatusConflict
		}
		// Lỗi ghi bất ngờ: để lại dấu vết trong activityLogs (best-effort)
		s.appendErrorLog(ctx, submissionID, err)
		return zero, err
	}

	log.WithField("submissionId", submissionID.Hex()).
		WithField("fileCount", len(input.Files)).
		WithField("status", string(updated.Status)).
		Info("📦 [UPLOAD] Đã ghi nhận batch upload")

	return updated, nil
}

// appendErrorLog ghi một log lỗi vào activityLogs (best-effort, nuốt lỗi ghi)
func (s *SubmissionService) appendErrorLog(ctx context.Context, submissionID primitive.ObjectID, cause error) {
	entry := submissionmodels.ActivityLog{
		Action:      submissionmodels.LogActionError,
		Status:      submissionmodels.LogStatusFailed,
		Message:     "Ghi batch upload thất bại",
		Error:       cause.Error(),
		Timestamp:   time.Now().UnixMilli(),
		PerformedBy: "customer",
	}
	if _, err := s.AppendActivityLog(ctx, submissionID, entry); err != nil {
		logger.GetAppLogger().WithField("submissionId", submissionID.Hex()).
			WithField("error", err.Error()).
			Warn("⚠️ [UPLOAD] Không ghi được log lỗi")
	}
}

// AppendActivityLog append một entry vào activityLogs.
// Mảng là append-only: entry đã ghi không bao giờ bị sửa hay xóa.
func (s *SubmissionService) AppendActivityLog(ctx context.Context, submissionID primitive.ObjectID, entry submissionmodels.ActivityLog) (submissionmodels.Submission, error) {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}

	filter := bson.M{"_id": submissionID}
	update := bson.M{
		"$push": bson.M{"activityLogs": entry},
	}
	return s.FindOneAndUpdate(ctx, filter, update, nil)
}

// DeleteVideo xóa một video khỏi submission theo URL.
// Khóa theo URL thay vì publicId vì video cũ có thể được lưu với publicId rỗng.
// Trả về submission sau cập nhật và VideoAsset đã gỡ (để caller xóa trên media host).
// Nếu video cuối cùng bị xóa, trạng thái quay về awaiting_upload.
func (s *SubmissionService) DeleteVideo(ctx context.Context, submissionID primitive.ObjectID, videoURL string, performedBy string) (submissionmodels.Submission, submissionmodels.VideoAsset, error) {
	var zero submissionmodels.Submission
	var zeroVideo submissionmodels.VideoAsset

	submission, err := s.FindOneById(ctx, submissionID)
	if err != nil {
		return zero, zeroVideo, err
	}

	var removed *submissionmodels.VideoAsset
	remaining := 0
	for i := range submission.Videos {
		if submission.Videos[i].URL == videoURL {
			removed = &submission.Videos[i]
		} else {
			remaining++
		}
	}
	if removed == nil {
		return zero, zeroVideo, common.NewError(
			common.ErrCodeDatabaseQuery,
			"Không tìm thấy video trong submission",
			common.StatusNotFound,
			map[string]interface{}{"videoUrl": videoURL},
		)
	}

	now := time.Now().UnixMilli()
	deleteLog := submissionmodels.ActivityLog{
		Action:        submissionmodels.LogActionDelete,
		VideoURL:      removed.URL,
		VideoFilename: removed.Filename,
		PublicID:      removed.PublicID,
		Status:        submissionmodels.LogStatusSuccess,
		Message:       "Đã xóa video khỏi submission",
		Timestamp:     now,
		PerformedBy:   performedBy,
	}

	set := bson.M{}
	if remaining == 0 && submissionmodels.CanTransition(submission.Status, submissionmodels.StatusAwaitingUpload) {
		set["status"] = submissionmodels.StatusAwaitingUpload
	}

	update := bson.M{
		"$pull": bson.M{"videos": bson.M{"url": videoURL}},
		"$push": bson.M{"activityLogs": deleteLog},
	}
	if len(set) > 0 {
		update["$set"] = set
	}

	filter := bson.M{"_id": submissionID, "status": submission.Status}
	updated, err := s.FindOneAndUpdate(ctx, filter, update, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, zeroVideo, common.ErrStatusConflict
		}
		return zero, zeroVideo, err
	}

	return updated, *removed, nil
}

// SetProcessed gắn video thành phẩm và/hoặc ghi chú admin.
// Có processedVideoUrl thì chuyển trạng thái sang ready; chỉ có notes thì giữ trạng thái.
// Không cung cấp gì vẫn là một lần ghi hợp lệ (bump updatedAt).
func (s *SubmissionService) SetProcessed(ctx context.Context, submissionID primitive.ObjectID, input submissiondto.SetProcessedInput) (submissionmodels.Submission, error) {
	var zero submissionmodels.Submission

	submission, err := s.FindOneById(ctx, submissionID)
	if err != nil {
		return zero, err
	}

	set := bson.M{}
	if input.ProcessedVideoURL != "" {
		if !submissionmodels.CanTransition(submission.Status, submissionmodels.StatusReady) {
			return zero, common.NewError(
				common.ErrCodeBusinessTransition,
				fmt.Sprintf("Không thể chuyển trạng thái %s sang ready", submission.Status),
				common.StatusConflict,
				nil,
			)
		}
		set["processedVideoUrl"] = input.ProcessedVideoURL
		set["status"] = submissionmodels.StatusReady
	}
	if input.AdminNotes != "" {
		set["adminNotes"] = input.AdminNotes
	}

	filter := bson.M{"_id": submissionID, "status": submission.Status}
	update := bson.M{"$set": set}

	updated, err := s.FindOneAndUpdate(ctx, filter, update, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, common.ErrStatusConflict
		}
		return zero, err
	}
	return updated, nil
}

// SetCustomPrompt gắn custom prompt cho submission. Chuỗi rỗng xóa prompt hiện tại.
func (s *SubmissionService) SetCustomPrompt(ctx context.Context, submissionID primitive.ObjectID, prompt string) (submissionmodels.Submission, error) {
	var update bson.M
	if prompt == "" {
		update = bson.M{"$unset": bson.M{"customPrompt": ""}}
	} else {
		update = bson.M{"$set": bson.M{"customPrompt": prompt}}
	}
	return s.FindOneAndUpdate(ctx, bson.M{"_id": submissionID}, update, nil)
}

// BuildListFilter dựng filter MongoDB cho danh sách submission của admin.
// orderIDs là danh sách orderId khớp chuỗi search (đã tra từ OrderService);
// truyền nil khi không search.
func BuildListFilter(query submissiondto.ListQuery, orderIDs []string) (bson.M, error) {
	filter := bson.M{}

	if query.Status != "" {
		status := submissionmodels.SubmissionStatus(query.Status)
		if !status.IsValid() {
			return nil, common.NewError(
				common.ErrCodeValidationInput,
				"Trạng thái lọc không hợp lệ",
				common.StatusBadRequest,
				map[string]interface{}{"status": query.Status},
			)
		}
		filter["status"] = status
	}

	createdAt := bson.M{}
	if query.DateFrom != "" {
		from, err := parseListDate(query.DateFrom, false)
		if err != nil {
			return nil, err
		}
		createdAt["$gte"] = from
	}
	if query.DateTo != "" {
		to, err := parseListDate(query.DateTo, true)
		if err != nil {
			return nil, err
		}
		createdAt["$lte"] = to
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}

	if orderIDs != nil {
		filter["orderId"] = bson.M{"$in": orderIDs}
	}

	return filter, nil
}

// parseListDate parse ngày lọc dạng RFC3339 hoặc YYYY-MM-DD sang UnixMilli.
// endOfDay = true thì ngày YYYY-MM-DD lấy cuối ngày (23:59:59.999).
func parseListDate(value string, endOfDay bool) (int64, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UnixMilli(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return 0, common.NewError(
			common.ErrCodeValidationFormat,
			"Ngày lọc không đúng định dạng, cần RFC3339 hoặc YYYY-MM-DD",
			common.StatusBadRequest,
			map[string]interface{}{"value": value},
		)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return t.UnixMilli(), nil
}

// mongoFindOptions dựng options cho query danh sách: mới nhất trước, limit + skip
func mongoFindOptions(limit, skip int64) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
}

// List trả về danh sách submission cho admin, sắp xếp mới nhất trước.
// Search theo buyer: tra orderId từ OrderService rồi lọc $in; không khớp đơn nào
// thì trả về danh sách rỗng ngay, không query submission.
func (s *SubmissionService) List(ctx context.Context, query submissiondto.ListQuery) (submissiondto.ListResult, error) {
	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.Skip < 0 {
		query.Skip = 0
	}

	var orderIDs []string
	if query.Search != "" {
		ids, err := s.orderService.SearchOrderIDsByBuyer(ctx, query.Search)
		if err != nil {
			return submissiondto.ListResult{}, err
		}
		if len(ids) == 0 {
			// Không có đơn hàng nào khớp: kết quả rỗng, không phải lỗi
			return submissiondto.ListResult{
				Submissions: []submissiondto.SubmissionWithOrder{},
				Total:       0,
				Limit:       query.Limit,
				Skip:        query.Skip,
			}, nil
		}
		orderIDs = ids
	}

	filter, err := BuildListFilter(query, orderIDs)
	if err != nil {
		return submissiondto.ListResult{}, err
	}

	total, err := s.CountDocuments(ctx, filter)
	if err != nil {
		return submissiondto.ListResult{}, err
	}

	opts := mongoFindOptions(query.Limit, query.Skip)
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return submissiondto.ListResult{}, err
	}

	withOrders, err := s.attachOrderSummaries(ctx, items)
	if err != nil {
		return submissiondto.ListResult{}, err
	}

	return submissiondto.ListResult{
		Submissions: withOrders,
		Total:       total,
		Limit:       query.Limit,
		Skip:        query.Skip,
	}, nil
}

// attachOrderSummaries đính tóm tắt đơn hàng (buyer, createdAt) vào từng
// submission. Đơn hàng không tra được thì Order là nil, không fail cả trang.
func (s *SubmissionService) attachOrderSummaries(ctx context.Context, items []submissionmodels.Submission) ([]submissiondto.SubmissionWithOrder, error) {
	hexIDs := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.OrderID] {
			seen[item.OrderID] = true
			hexIDs = append(hexIDs, item.OrderID)
		}
	}

	summaries, err := s.orderService.SummariesByHexIDs(ctx, hexIDs)
	if err != nil {
		return nil, err
	}

	out := make([]submissiondto.SubmissionWithOrder, 0, len(items))
	for _, item := range items {
		wrapped := submissiondto.SubmissionWithOrder{Submission: item}
		if summary, ok := summaries[item.OrderID]; ok {
			wrapped.Order = &summary
		}
		out = append(out, wrapped)
	}
	return out, nil
}

// GetWithOrder trả về một submission kèm tóm tắt đơn hàng cho admin
func (s *SubmissionService) GetWithOrder(ctx context.Context, submissionID primitive.ObjectID) (submissiondto.SubmissionWithOrder, error) {
	submission, err := s.FindOneById(ctx, submissionID)
	if err != nil {
		return submissiondto.SubmissionWithOrder{}, err
	}

	wrapped, err := s.attachOrderSummaries(ctx, []submissionmodels.Submission{submission})
	if err != nil {
		return submissiondto.SubmissionWithOrder{}, err
	}
	return wrapped[0], nil
}

// Package submissionsvc - Test các luồng ghi của SubmissionService trên store giả lập.
package submissionsvc

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "clone_studio/internal/api/base/service"
	ordermodels "clone_studio/internal/api/order/models"
	ordersvc "clone_studio/internal/api/order/service"
	submissiondto "clone_studio/internal/api/submission/dto"
	submissionmodels "clone_studio/internal/api/submission/models"
	"clone_studio/internal/common"
	"clone_studio/internal/global"
)

func init() {
	global.InitValidator()
}

// fakeUpdateCall lưu lại một lần gọi FindOneAndUpdate để test kiểm tra
type fakeUpdateCall struct {
	filter bson.M
	update bson.M
}

// fakeSubmissionStore giả lập store MongoDB cho SubmissionService.
// Embed interface để chỉ cần override các phương thức luồng ghi dùng tới;
// phương thức nào chưa override mà bị gọi sẽ panic, test phát hiện ngay.
type fakeSubmissionStore struct {
	basesvc.BaseServiceMongo[submissionmodels.Submission]

	current     submissionmodels.Submission
	updateErr   error
	updateCalls []fakeUpdateCall
}

func (f *fakeSubmissionStore) FindOneById(ctx context.Context, id primitive.ObjectID) (submissionmodels.Submission, error) {
	return f.current, nil
}

func (f *fakeSubmissionStore) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (submissionmodels.Submission, error) {
	f.updateCalls = append(f.updateCalls, fakeUpdateCall{
		filter: filter.(bson.M),
		update: update.(bson.M),
	})
	if f.updateErr != nil {
		return submissionmodels.Submission{}, f.updateErr
	}
	return f.current, nil
}

// fakeOrderStore giả lập store đơn hàng, chỉ phục vụ tra cứu $in
type fakeOrderStore struct {
	basesvc.BaseServiceMongo[ordermodels.Order]

	orders []ordermodels.Order
}

func (f *fakeOrderStore) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]ordermodels.Order, error) {
	return f.orders, nil
}

func newFakeService(store *fakeSubmissionStore) *SubmissionService {
	return &SubmissionService{BaseServiceMongo: store}
}

func newFakeServiceWithOrders(store *fakeSubmissionStore, orders ...ordermodels.Order) *SubmissionService {
	return &SubmissionService{
		BaseServiceMongo: store,
		orderService:     &ordersvc.OrderService{BaseServiceMongo: &fakeOrderStore{orders: orders}},
	}
}

func uploadInput(batchID string, files ...submissiondto.UploadFileDescriptor) submissiondto.UploadCallbackInput {
	return submissiondto.UploadCallbackInput{
		SubmissionID: primitive.NewObjectID().Hex(),
		BatchID:      batchID,
		Files:        files,
	}
}

func TestIngestUploadBatch_BatchLoiKhongGhiGi(t *testing.T) {
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{Status: submissionmodels.StatusUploaded},
	}
	service := newFakeService(store)

	input := uploadInput("batch-1", validFile("intro.mp4"), validFile("notes.avi"))
	_, err := service.IngestUploadBatch(context.Background(), primitive.NewObjectID(), input)
	if err == nil {
		t.Fatal("batch chứa file sai định dạng phải bị từ chối")
	}
	var customErr *common.Error
	if !errors.As(err, &customErr) || customErr.StatusCode != common.StatusBadRequest {
		t.Errorf("lỗi phải là *common.Error 400, nhận %v", err)
	}
	// All-or-nothing: batch bị từ chối thì document không được đụng tới,
	// kể cả log lỗi
	if len(store.updateCalls) != 0 {
		t.Fatalf("batch không hợp lệ không được ghi gì, nhận %d lần update", len(store.updateCalls))
	}
}

func TestIngestUploadBatch_GhiMotLenhDuyNhat(t *testing.T) {
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{Status: submissionmodels.StatusAwaitingUpload},
	}
	service := newFakeService(store)
	id := primitive.NewObjectID()

	input := uploadInput("batch-1", validFile("a.mp4"), validFile("b.mov"))
	_, err := service.IngestUploadBatch(context.Background(), id, input)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if len(store.updateCalls) != 1 {
		t.Fatalf("batch hợp lệ phải ghi đúng một lệnh update, nhận %d", len(store.updateCalls))
	}

	call := store.updateCalls[0]
	if call.filter["status"] != submissionmodels.StatusAwaitingUpload {
		t.Errorf("filter phải khóa theo trạng thái hiện tại, nhận %v", call.filter["status"])
	}

	push, ok := call.update["$push"].(bson.M)
	if !ok {
		t.Fatal("update phải có $push")
	}
	videos := push["videos"].(bson.M)["$each"].([]submissionmodels.VideoAsset)
	logs := push["activityLogs"].(bson.M)["$each"].([]submissionmodels.ActivityLog)
	if len(videos) != 2 || len(logs) != 2 {
		t.Errorf("phải push 2 video và 2 log, nhận %d/%d", len(videos), len(logs))
	}

	set, ok := call.update["$set"].(bson.M)
	if !ok || set["status"] != submissionmodels.StatusUploaded {
		t.Errorf("status phải chuyển sang uploaded, nhận %v", call.update["$set"])
	}
}

func TestIngestUploadBatch_ReplayKhongGhiThem(t *testing.T) {
	videos, logs := BuildUploadEntries([]submissiondto.UploadFileDescriptor{validFile("a.mp4")}, "batch-7", 1000)
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{
			Status:       submissionmodels.StatusUploaded,
			Videos:       videos,
			ActivityLogs: logs,
		},
	}
	service := newFakeService(store)

	input := uploadInput("batch-7", validFile("a.mp4"))
	result, err := service.IngestUploadBatch(context.Background(), primitive.NewObjectID(), input)
	if err != nil {
		t.Fatalf("retry callback phải thành công: %v", err)
	}
	if len(store.updateCalls) != 0 {
		t.Errorf("batch đã xử lý không được ghi thêm, nhận %d lần update", len(store.updateCalls))
	}
	if len(result.Videos) != 1 {
		t.Errorf("retry phải trả về submission hiện tại, nhận %d video", len(result.Videos))
	}
}

func TestIngestUploadBatch_StatusDoiGiuaChung(t *testing.T) {
	store := &fakeSubmissionStore{
		current:   submissionmodels.Submission{Status: submissionmodels.StatusUploaded},
		updateErr: common.ErrNotFound,
	}
	service := newFakeService(store)

	input := uploadInput("batch-1", validFile("a.mp4"))
	_, err := service.IngestUploadBatch(context.Background(), primitive.NewObjectID(), input)
	if !errors.Is(err, common.ErrStatusConflict) {
		t.Errorf("status đổi giữa chừng phải trả 409 conflict, nhận %v", err)
	}
	// Conflict không phải lỗi ghi, không append log lỗi
	if len(store.updateCalls) != 1 {
		t.Errorf("conflict không được ghi log lỗi, nhận %d lần update", len(store.updateCalls))
	}
}

func TestIngestUploadBatch_LoiGhiDeLaiLogLoi(t *testing.T) {
	store := &fakeSubmissionStore{
		current:   submissionmodels.Submission{Status: submissionmodels.StatusUploaded},
		updateErr: errors.New("connection reset"),
	}
	service := newFakeService(store)

	input := uploadInput("batch-1", validFile("a.mp4"))
	_, err := service.IngestUploadBatch(context.Background(), primitive.NewObjectID(), input)
	if err == nil {
		t.Fatal("lỗi ghi phải được trả về cho caller")
	}
	// Lệnh ghi batch + lệnh ghi log lỗi best-effort
	if len(store.updateCalls) != 2 {
		t.Fatalf("lỗi ghi phải kéo theo một lần ghi log lỗi, nhận %d lần update", len(store.updateCalls))
	}
	entry, ok := store.updateCalls[1].update["$push"].(bson.M)["activityLogs"].(submissionmodels.ActivityLog)
	if !ok {
		t.Fatal("lần ghi thứ hai phải push một ActivityLog")
	}
	if entry.Action != submissionmodels.LogActionError || entry.Status != submissionmodels.LogStatusFailed {
		t.Errorf("log lỗi phải có action=error status=failed, nhận %s/%s", entry.Action, entry.Status)
	}
}

func TestDeleteVideo_TheoURL(t *testing.T) {
	keep := validFile("keep.mp4")
	target := validFile("old.mov")
	target.PublicID = "" // video cũ lưu không có publicId vẫn phải xóa được
	videos, _ := BuildUploadEntries([]submissiondto.UploadFileDescriptor{keep, target}, "batch-1", 1000)
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{
			Status: submissionmodels.StatusUploaded,
			Videos: videos,
		},
	}
	service := newFakeService(store)

	_, removed, err := service.DeleteVideo(context.Background(), primitive.NewObjectID(), target.URL, "admin")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if removed.URL != target.URL || removed.PublicID != "" {
		t.Errorf("video gỡ ra sai: %+v", removed)
	}
	if len(store.updateCalls) != 1 {
		t.Fatalf("xóa video phải ghi đúng một lệnh update, nhận %d", len(store.updateCalls))
	}

	call := store.updateCalls[0]
	pull := call.update["$pull"].(bson.M)["videos"].(bson.M)
	if pull["url"] != target.URL {
		t.Errorf("$pull phải khóa theo url, nhận %v", pull)
	}
	entry := call.update["$push"].(bson.M)["activityLogs"].(submissionmodels.ActivityLog)
	if entry.Action != submissionmodels.LogActionDelete {
		t.Errorf("phải ghi log delete, nhận action %s", entry.Action)
	}
	// Vẫn còn video khác: trạng thái giữ nguyên
	if _, ok := call.update["$set"]; ok {
		t.Error("còn video thì không được đổi trạng thái")
	}
}

func TestDeleteVideo_VideoCuoiQuayVeAwaitingUpload(t *testing.T) {
	videos, _ := BuildUploadEntries([]submissiondto.UploadFileDescriptor{validFile("only.mp4")}, "batch-1", 1000)
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{
			Status: submissionmodels.StatusUploaded,
			Videos: videos,
		},
	}
	service := newFakeService(store)

	_, _, err := service.DeleteVideo(context.Background(), primitive.NewObjectID(), videos[0].URL, "admin")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	set, ok := store.updateCalls[0].update["$set"].(bson.M)
	if !ok || set["status"] != submissionmodels.StatusAwaitingUpload {
		t.Errorf("xóa video cuối phải quay về awaiting_upload, nhận %v", store.updateCalls[0].update["$set"])
	}
}

func TestDeleteVideo_KhongTimThay(t *testing.T) {
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{Status: submissionmodels.StatusUploaded},
	}
	service := newFakeService(store)

	_, _, err := service.DeleteVideo(context.Background(), primitive.NewObjectID(), "https://media.example.com/v/ghost.mp4", "admin")
	if err == nil {
		t.Fatal("video không tồn tại phải trả lỗi")
	}
	var customErr *common.Error
	if !errors.As(err, &customErr) || customErr.StatusCode != common.StatusNotFound {
		t.Errorf("lỗi phải là 404, nhận %v", err)
	}
	if len(store.updateCalls) != 0 {
		t.Errorf("không tìm thấy video thì không được ghi gì, nhận %d lần update", len(store.updateCalls))
	}
}

func TestSetProcessed_ChuyenSangReady(t *testing.T) {
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{Status: submissionmodels.StatusUploaded},
	}
	service := newFakeService(store)

	input := submissiondto.SetProcessedInput{
		ProcessedVideoURL: "https://media.example.com/processed/final.mp4",
		AdminNotes:        "đã duyệt",
	}
	_, err := service.SetProcessed(context.Background(), primitive.NewObjectID(), input)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	set := store.updateCalls[0].update["$set"].(bson.M)
	if set["status"] != submissionmodels.StatusReady {
		t.Errorf("có processedVideoUrl phải chuyển sang ready, nhận %v", set["status"])
	}
	if set["processedVideoUrl"] != input.ProcessedVideoURL {
		t.Errorf("processedVideoUrl sai: %v", set["processedVideoUrl"])
	}
	if set["adminNotes"] != input.AdminNotes {
		t.Errorf("adminNotes sai: %v", set["adminNotes"])
	}
	if store.updateCalls[0].filter["status"] != submissionmodels.StatusUploaded {
		t.Error("filter phải khóa theo trạng thái trước khi đọc")
	}
}

func TestSetProcessed_DeliveredBiTuChoi(t *testing.T) {
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{Status: submissionmodels.StatusDelivered},
	}
	service := newFakeService(store)

	input := submissiondto.SetProcessedInput{
		ProcessedVideoURL: "https://media.example.com/processed/final.mp4",
	}
	_, err := service.SetProcessed(context.Background(), primitive.NewObjectID(), input)
	if err == nil {
		t.Fatal("delivered là trạng thái cuối, không được gắn lại video thành phẩm")
	}
	var customErr *common.Error
	if !errors.As(err, &customErr) || customErr.StatusCode != common.StatusConflict {
		t.Errorf("lỗi phải là 409, nhận %v", err)
	}
	if len(store.updateCalls) != 0 {
		t.Errorf("transition bị từ chối thì không được ghi gì, nhận %d lần update", len(store.updateCalls))
	}
}

func TestSetProcessed_ChiGhiChuGiuTrangThai(t *testing.T) {
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{Status: submissionmodels.StatusDelivered},
	}
	service := newFakeService(store)

	_, err := service.SetProcessed(context.Background(), primitive.NewObjectID(), submissiondto.SetProcessedInput{AdminNotes: "note"})
	if err != nil {
		t.Fatalf("chỉ cập nhật notes phải hợp lệ ở mọi trạng thái: %v", err)
	}
	set := store.updateCalls[0].update["$set"].(bson.M)
	if _, ok := set["status"]; ok {
		t.Error("chỉ có notes thì không được đổi trạng thái")
	}
}

func TestAppendActivityLog_ChiPush(t *testing.T) {
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{Status: submissionmodels.StatusReady},
	}
	service := newFakeService(store)

	entry := submissionmodels.ActivityLog{
		Action:      submissionmodels.LogActionDownload,
		Status:      submissionmodels.LogStatusSuccess,
		PerformedBy: "admin",
	}
	_, err := service.AppendActivityLog(context.Background(), primitive.NewObjectID(), entry)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	call := store.updateCalls[0]
	if len(call.update) != 1 {
		t.Errorf("append log chỉ được dùng $push, nhận %v", call.update)
	}
	pushed := call.update["$push"].(bson.M)["activityLogs"].(submissionmodels.ActivityLog)
	if pushed.Timestamp == 0 {
		t.Error("timestamp rỗng phải được gán mặc định")
	}
	if pushed.Action != submissionmodels.LogActionDownload {
		t.Errorf("action sai: %s", pushed.Action)
	}
}

func TestGetWithOrder_DinhKemTomTatDonHang(t *testing.T) {
	order := ordermodels.Order{
		ID: primitive.NewObjectID(),
		Buyer: ordermodels.OrderBuyer{
			Email: "buyer@example.com",
			Phone: "0900000000",
			Name:  "Người Mua",
		},
		CreatedAt: 1700000000000,
	}
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{
			OrderID: order.ID.Hex(),
			Status:  submissionmodels.StatusUploaded,
		},
	}
	service := newFakeServiceWithOrders(store, order)

	result, err := service.GetWithOrder(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if result.Order == nil {
		t.Fatal("submission phải kèm tóm tắt đơn hàng")
	}
	if result.Order.Buyer.Email != order.Buyer.Email {
		t.Errorf("buyer email sai: %s", result.Order.Buyer.Email)
	}
	if result.Order.CreatedAt != order.CreatedAt {
		t.Errorf("createdAt đơn hàng sai: %d", result.Order.CreatedAt)
	}
}

func TestGetWithOrder_DonHangThatLac(t *testing.T) {
	store := &fakeSubmissionStore{
		current: submissionmodels.Submission{
			OrderID: primitive.NewObjectID().Hex(),
			Status:  submissionmodels.StatusUploaded,
		},
	}
	service := newFakeServiceWithOrders(store)

	result, err := service.GetWithOrder(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("đơn hàng thất lạc không được fail request: %v", err)
	}
	if result.Order != nil {
		t.Errorf("đơn hàng không tra được thì order phải là nil, nhận %+v", result.Order)
	}
}

package submissionhdl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "clone_studio/internal/api/base/service"
	submissionmodels "clone_studio/internal/api/submission/models"
	submissionsvc "clone_studio/internal/api/submission/service"
	"clone_studio/internal/global"
)

func init() {
	global.InitValidator()
}

// fakeSubmissionStore giả lập store Mongo, trả về submission cố định cho mọi thao tác
type fakeSubmissionStore struct {
	basesvc.BaseServiceMongo[submissionmodels.Submission]

	current submissionmodels.Submission
}

func (f *fakeSubmissionStore) FindOneById(ctx context.Context, id primitive.ObjectID) (submissionmodels.Submission, error) {
	return f.current, nil
}

func (f *fakeSubmissionStore) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (submissionmodels.Submission, error) {
	return f.current, nil
}

func setupSubmissionApp(t *testing.T, current submissionmodels.Submission) *fiber.App {
	t.Helper()
	handler := &SubmissionHandler{
		submissionService: &submissionsvc.SubmissionService{
			BaseServiceMongo: &fakeSubmissionStore{current: current},
		},
	}

	app := fiber.New()
	v1 := app.Group("/api/v1")
	v1.Post("/uploads/callback", handler.HandleUploadCallback)
	v1.Post("/submissions/:id/custom-prompt", handler.HandleSetCustomPrompt)
	return app
}

func TestHandleUploadCallback_TraVeKetQuaGon(t *testing.T) {
	id := primitive.NewObjectID()
	app := setupSubmissionApp(t, submissionmodels.Submission{
		ID:         id,
		Status:     submissionmodels.StatusUploaded,
		ScriptText: "kịch bản nội bộ",
	})

	body := `{"submissionId":"` + id.Hex() + `","batchId":"batch-1","files":[{"filename":"a.mp4","url":"https://media.example.com/v/a.mp4","publicId":"p1","size":1024}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	payload := string(raw)
	assert.Contains(t, payload, `"success":true`)
	assert.Contains(t, payload, `"submissionId":"`+id.Hex()+`"`)
	assert.Contains(t, payload, `"status":"uploaded"`)
	// Callback chỉ xác nhận, không trả cả document về cho client
	assert.NotContains(t, payload, "activityLogs")
	assert.NotContains(t, payload, "kịch bản nội bộ")
}

func TestHandleSetCustomPrompt_RoutePhiaKhach(t *testing.T) {
	id := primitive.NewObjectID()
	app := setupSubmissionApp(t, submissionmodels.Submission{
		ID:           id,
		Status:       submissionmodels.StatusAwaitingUpload,
		CustomPrompt: "giọng miền Nam, tông thân thiện",
	})

	// Không gửi Authorization: route này nằm ở phía khách, gọi từ checkout flow
	body := `{"customPrompt":"giọng miền Nam, tông thân thiện"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/"+id.Hex()+"/custom-prompt", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	payload := string(raw)
	assert.Contains(t, payload, `"success":true`)
	assert.Contains(t, payload, "giọng miền Nam")
}

package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"taskshare/internal/task"
	"taskshare/internal/task/handler"
	"taskshare/internal/task/handler/mocks"
	dErrors "taskshare/pkg/domain-errors"
	"taskshare/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(svc handler.Service) http.Handler {
	r := chi.NewRouter()
	handler.New(svc, discardLogger(), nil).Register(r)
	return r
}

func TestCreateTaskReturnsCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		Create(gomock.Any(), task.CreateParams{
			Title:       "buy milk",
			Description: "from the corner shop",
			OwnerEmail:  "alice@example.com",
		}).
		Return(&task.Task{
			ID:          "id-1",
			Title:       "buy milk",
			Description: "from the corner shop",
			OwnerEmail:  "alice@example.com",
			Status:      task.StatusPending,
			SharedWith:  []string{},
		}, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/todos", map[string]string{
		"title":       "buy milk",
		"description": "from the corner shop",
		"userEmail":   "alice@example.com",
	})
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.DecodeResponse[task.Task](t, rr)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.Equal(t, "alice@example.com", created.OwnerEmail)
}

func TestCreateTaskMissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeBadRequest, "Title, description, and userEmail are required"))

	req := testutil.NewJSONRequest(t, http.MethodPost, "/todos", map[string]string{"title": "only a title"})
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorMessage(t, rr, "Title, description, and userEmail are required")
}

func TestListTasksPassesEmailQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		List(gomock.Any(), "alice@example.com").
		Return([]*task.Task{}, nil)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/todos?email=alice%40example.com", nil)
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestListTasksMissingEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		List(gomock.Any(), "").
		Return(nil, dErrors.New(dErrors.CodeBadRequest, "Missing user email in query"))

	req := testutil.NewJSONRequest(t, http.MethodGet, "/todos", nil)
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorMessage(t, rr, "Missing user email in query")
}

func TestUpdateTaskForwardsPresentFieldsOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		Update(gomock.Any(), "id-1", "", gomock.Any()).
		DoAndReturn(func(_ any, id, _ string, fields task.UpdateFields) (*task.Task, error) {
			require.NotNil(t, fields.Title)
			assert.Equal(t, "renamed", *fields.Title)
			assert.Nil(t, fields.Description)
			assert.Nil(t, fields.Status)
			assert.Nil(t, fields.SharedWith)
			return &task.Task{ID: id, Title: *fields.Title}, nil
		})

	req := testutil.NewJSONRequest(t, http.MethodPut, "/todos/id-1", map[string]string{"title": "renamed"})
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestUpdateTaskInvalidStatusRejectedBeforeService(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	// No Update expectation: the handler must reject the status itself.

	req := testutil.NewJSONRequest(t, http.MethodPut, "/todos/id-1", map[string]string{"status": "done"})
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorMessage(t, rr, "Invalid status")
}

func TestUpdateTaskThreadsAuthenticatedActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		Update(gomock.Any(), "id-1", "bob@example.com", gomock.Any()).
		Return(&task.Task{ID: "id-1"}, nil)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/todos/id-1", map[string]string{"title": "renamed"})
	req = testutil.WithEmail(req, "bob@example.com")
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestDeleteTaskSuccessMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().Delete(gomock.Any(), "id-1", "").Return(nil)

	req := testutil.NewJSONRequest(t, http.MethodDelete, "/todos/id-1", nil)
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"message":"Todo deleted successfully"}`, rr.Body.String())
}

func TestDeleteUnknownTaskNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		Delete(gomock.Any(), "missing", "").
		Return(dErrors.New(dErrors.CodeNotFound, "Todo not found"))

	req := testutil.NewJSONRequest(t, http.MethodDelete, "/todos/missing", nil)
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertErrorMessage(t, rr, "Todo not found")
}

func TestSetStatusValidatesBeforeService(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	req := testutil.NewJSONRequest(t, http.MethodPatch, "/todos/id-1/status", map[string]string{"status": "started"})
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorMessage(t, rr, "Invalid status")
}

func TestSetStatusHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		SetStatus(gomock.Any(), "id-1", "", task.StatusCompleted).
		Return(&task.Task{ID: "id-1", Status: task.StatusCompleted}, nil)

	req := testutil.NewJSONRequest(t, http.MethodPatch, "/todos/id-1/status", map[string]string{"status": "completed"})
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	updated := testutil.DecodeResponse[task.Task](t, rr)
	assert.Equal(t, task.StatusCompleted, updated.Status)
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().
		List(gomock.Any(), "alice@example.com").
		Return(nil, dErrors.New(dErrors.CodeInternal, "Internal Server Error"))

	req := testutil.NewJSONRequest(t, http.MethodGet, "/todos?email=alice%40example.com", nil)
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	testutil.AssertErrorMessage(t, rr, "Internal Server Error")
}

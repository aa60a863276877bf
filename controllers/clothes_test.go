package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wardrobeapi/dbhelper"
	"wardrobeapi/models"
	"wardrobeapi/tasks"
	"wardrobeapi/test"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
}

func (r *recordingEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(r.tasks))}, nil
}

func setupClothesServer(t *testing.T, enqueuer tasks.TaskEnqueuer) (*gorm.DB, http.Handler) {
	db := dbhelper.SetupTestDB()
	if db == nil {
		t.Skip("postgres is not reachable")
	}
	t.Cleanup(dbhelper.SetupCleaner(db))
	e := SetupServer(Dependencies{
		DB:          db,
		AWSService:  test.AWSProviderMock{MockUrl: "https://fakebucketurl.com/read"},
		URLCache:    test.URLCacheMock{MockUrl: "https://cache.example/read"},
		AsynqClient: enqueuer,
	})
	return db, e
}

func TestCreateClothingOk(t *testing.T) {
	db, e := setupClothesServer(t, &recordingEnqueuer{})

	req := test.NewJSONAuthRequest(http.MethodPost, "/clothes/create", "3", CreateClothingIn{
		Name:     "Denim jacket",
		FileName: test.NewRefString("IMG_0042.HEIC"),
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var response ClothingCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Denim jacket", response.ClothingResponse.Name)
	assert.Equal(t, models.ClosetStatusTemporary, response.ClothingResponse.Status)
	assert.True(t, strings.HasPrefix(response.FileUploadUrl, "https://fakebucketurl.com/clothes/3/"))
	assert.True(t, strings.HasSuffix(response.FileUploadUrl, ".HEIC"))

	var saved models.ClosetItem
	require.NoError(t, db.First(&saved, response.ClothingResponse.ID).Error)
	assert.Equal(t, uint(3), saved.OwnerID)
}

func TestCreateClothingRejectsNonImage(t *testing.T) {
	_, e := setupClothesServer(t, &recordingEnqueuer{})

	req := test.NewJSONAuthRequest(http.MethodPost, "/clothes/create", "3", CreateClothingIn{FileName: test.NewRefString("notes.pdf")})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = test.NewJSONAuthRequest(http.MethodPost, "/clothes/create", "3", CreateClothingIn{Name: "no file"})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeClothingEnqueues(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	db, e := setupClothesServer(t, enqueuer)

	item := models.ClosetItem{OwnerID: 3, Name: "Tee", ImageURL: test.NewRefString("clothes/3/tee.jpg"), ProcessingStatus: models.ProcessingFailed, ProcessRetryTimes: 3}
	require.NoError(t, db.Create(&item).Error)

	req := test.NewJSONAuthRequest(http.MethodPost, fmt.Sprintf("/clothes/%d/analyze", item.ID), "3", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, enqueuer.tasks, 1)
	assert.Equal(t, tasks.TypeClothingAnalyze, enqueuer.tasks[0].Type())

	var saved models.ClosetItem
	require.NoError(t, db.First(&saved, item.ID).Error)
	assert.Equal(t, models.ProcessingPending, saved.ProcessingStatus)
	assert.Equal(t, 0, saved.ProcessRetryTimes)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONAuthRequest(http.MethodPost, fmt.Sprintf("/clothes/%d/analyze", item.ID), "3", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAnalyzeClothingOfAnotherUser(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	db, e := setupClothesServer(t, enqueuer)

	item := models.ClosetItem{OwnerID: 4, Name: "Tee", ImageURL: test.NewRefString("clothes/4/tee.jpg")}
	require.NoError(t, db.Create(&item).Error)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONAuthRequest(http.MethodPost, fmt.Sprintf("/clothes/%d/analyze", item.ID), "3", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, enqueuer.tasks)
}

func TestListClothes(t *testing.T) {
	db, e := setupClothesServer(t, &recordingEnqueuer{})

	require.NoError(t, db.Create(&models.ClosetItem{OwnerID: 3, Name: "Loafers", Category: "Shoes", ImageURL: test.NewRefString("clothes/3/loafers.jpg")}).Error)
	require.NoError(t, db.Create(&models.ClosetItem{OwnerID: 9, Name: "Not mine"}).Error)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONAuthRequest(http.MethodGet, "/clothes/list", "3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var response []ClothingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "Loafers", response[0].Name)
	require.NotNil(t, response[0].Uri)
	assert.Equal(t, "https://cache.example/read", *response[0].Uri)
}

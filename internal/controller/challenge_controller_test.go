package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/service"
	"doe_backend/internal/testutil"
	"doe_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type challengeEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	users     *repository.UserRepository
	challenge *model.Challenge
	item      uint
	userID    uint
}

func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: id, Role: model.Student})
		c.Next()
	}
}

func newChallengeEnv(t *testing.T) *challengeEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)

	users := repository.NewUserRepository(db)
	challenges := repository.NewChallengeRepository(db)
	attempts := repository.NewChallengeAttemptRepository(db)
	completion := repository.NewCompletionRepository(db)

	user := &model.User{Name: "C", Email: "c@doe.test", Password: "x"}
	require.NoError(t, users.Create(user))
	c := &model.Challenge{
		Title:              "Save more",
		Points:             12,
		MinAnswersRequired: 1,
		Elements:           []model.ChallengeElement{{Name: "What", Kind: model.ElementInput}},
	}
	require.NoError(t, challenges.Create(c))

	lifecycle := service.NewChallengeAttemptService(db, challenges, attempts)
	settlement := service.NewSettlementService(db, challenges, attempts, completion)
	challengeService := service.NewChallengeService(challenges, attempts, lifecycle, settlement)
	flash := service.NewFlashService(rdb, time.Minute)
	ctrl := NewChallengeController(challengeService, flash)
	attemptCtrl := NewAttemptController(challengeService, lifecycle, flash)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		// X-User 头切换当前用户，默认是挑战的参与者
		if v := c.GetHeader("X-User"); v != "" {
			id, _ := strconv.ParseUint(v, 10, 32)
			c.Set("user", &util.Claims{UserID: uint(id), Role: model.Student})
		}
		c.Next()
	})
	g := r.Group("/api", func(c *gin.Context) {
		if _, ok := c.Get("user"); !ok {
			asUser(user.ID)(c)
			return
		}
		c.Next()
	})
	g.GET("/challenge/:id/view", ctrl.View)
	g.POST("/challenge/:id/submit-in-add", ctrl.SubmitInAdd)
	g.POST("/challenge/:id/submit", ctrl.Submit)
	g.POST("/attempt/:id/update", attemptCtrl.Update)

	return &challengeEnv{router: r, db: db, users: users, challenge: c, item: c.Elements[0].ID, userID: user.ID}
}

func (e *challengeEnv) post(path string, form url.Values, ajax bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSubmitInAddAJAX(t *testing.T) {
	env := newChallengeEnv(t)
	path := "/api/challenge/" + itoa(env.challenge.ID) + "/submit-in-add"
	form := url.Values{"field_" + itoa(env.item): {"coffee"}}

	w := env.post(path, form, true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp util.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 12, resp.PointsAdded)
	assert.Equal(t, "Answer saved successfully! You earned 12 points.", resp.Message)

	w = env.post(path, form, true)
	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "points_added")
	assert.EqualValues(t, 0, raw["points_added"])
	assert.Equal(t, "Answer saved successfully!", raw["message"])
}

func TestSubmitRedirectsWithFlash(t *testing.T) {
	env := newChallengeEnv(t)
	id := itoa(env.challenge.ID)

	w := env.post("/api/challenge/"+id+"/submit", url.Values{"field_" + itoa(env.item): {"book"}}, false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/api/challenge/"+id+"/view", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/challenge/"+id+"/view", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Messages []service.FlashMessage `json:"messages"`
			Attempts []json.RawMessage      `json:"attempts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Messages, 1)
	assert.Equal(t, "Answer saved successfully!", body.Data.Messages[0].Message)
	assert.Len(t, body.Data.Attempts, 1)

	// 提示只显示一次
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/challenge/"+id+"/view", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Data.Messages)
}

func TestSubmitUnknownChallengeMapsStatus(t *testing.T) {
	env := newChallengeEnv(t)

	w := env.post("/api/challenge/999/submit-in-add", url.Values{}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp util.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "challenge not found")

	w = env.post("/api/challenge/abc/submit", url.Values{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (e *challengeEnv) firstAttempt(t *testing.T) uint {
	t.Helper()
	var a model.ChallengeAttempt
	require.NoError(t, e.db.Order("id").First(&a).Error)
	return a.ID
}

func TestUpdateAttemptRedirectsWithFlash(t *testing.T) {
	env := newChallengeEnv(t)
	id := itoa(env.challenge.ID)
	require.Equal(t, http.StatusOK, env.post("/api/challenge/"+id+"/submit", url.Values{"field_" + itoa(env.item): {"tea"}}, true).Code)
	attemptID := itoa(env.firstAttempt(t))

	w := env.post("/api/attempt/"+attemptID+"/update", url.Values{"field_" + itoa(env.item): {"green tea"}}, false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/api/challenge/"+id+"/view", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/challenge/"+id+"/view", nil))
	var body struct {
		Data struct {
			Messages []service.FlashMessage `json:"messages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Messages, 1)
	assert.Equal(t, "Changes saved!", body.Data.Messages[0].Message)

	w = env.post("/api/attempt/"+attemptID+"/update", url.Values{"field_" + itoa(env.item): {"chai"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var resp util.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestUpdateAttemptOfAnotherUser(t *testing.T) {
	env := newChallengeEnv(t)
	require.Equal(t, http.StatusOK, env.post("/api/challenge/"+itoa(env.challenge.ID)+"/submit", url.Values{"field_" + itoa(env.item): {"tea"}}, true).Code)

	intruder := &model.User{Name: "I", Email: "i@doe.test", Password: "x"}
	require.NoError(t, env.users.Create(intruder))

	req := httptest.NewRequest(http.MethodPost, "/api/attempt/"+itoa(env.firstAttempt(t))+"/update",
		strings.NewReader(url.Values{"field_" + itoa(env.item): {"hacked"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-User", itoa(intruder.ID))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var resp util.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)

	w = env.post("/api/attempt/999/update", url.Values{}, false)
	assert.Equal(t, http.StatusNotFound, w.Code, "no challenge to redirect to")
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	env := newChallengeEnv(t)
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := env.post("/api/challenge/"+itoa(env.challenge.ID)+"/submit-in-add", url.Values{"field_" + itoa(env.item): {"x"}}, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp util.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Error while saving: something went wrong, please try again later.", resp.Message)
	assert.NotContains(t, resp.Message, "sql")
}

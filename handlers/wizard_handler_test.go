package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venturepath-backend/models"
	"venturepath-backend/service"
	"venturepath-backend/session"
	"venturepath-backend/wizard"
)

type stubGenerator struct {
	err error
}

func (g *stubGenerator) GenerateIdeas(ctx context.Context, profile *models.UserProfile, lang models.Language) ([]models.BusinessIdea, error) {
	if g.err != nil {
		return nil, g.err
	}
	return []models.BusinessIdea{
		{ID: uuid.New(), Title: "Mobile car detailing"},
		{ID: uuid.New(), Title: "Etsy print shop"},
		{ID: uuid.New(), Title: "Local meal prep"},
	}, nil
}

func newTestRouter(t *testing.T, gen wizard.IdeaGenerator) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	accountService := service.NewAccountService(service.WithSessionStore(store))
	registry := NewRegistry()
	wizardHandler := NewWizardHandler(registry, accountService, store, gen)
	accountHandler := NewAccountHandler(accountService)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/wizard", wizardHandler.CreateSession)
	api.GET("/wizard/:id", wizardHandler.GetSession)
	api.PUT("/wizard/:id/profile", wizardHandler.SetField)
	api.POST("/wizard/:id/next", wizardHandler.Next)
	api.POST("/wizard/:id/back", wizardHandler.Back)
	api.POST("/wizard/:id/submit", wizardHandler.Submit)
	api.DELETE("/wizard/:id", wizardHandler.DeleteSession)
	api.POST("/account/login", accountHandler.Login)
	api.POST("/account/upgrade", accountHandler.Upgrade)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/wizard", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func setField(t *testing.T, r *gin.Engine, id, field string, value any) {
	t.Helper()
	w := doJSON(t, r, http.MethodPut, "/api/wizard/"+id+"/profile",
		gin.H{"field": field, "value": value})
	require.Equal(t, http.StatusOK, w.Code, "set %s: %s", field, w.Body.String())
}

func walkToFinalStep(t *testing.T, r *gin.Engine, id string) {
	t.Helper()

	setField(t, r, id, "age", "28")
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/next", nil).Code)

	setField(t, r, id, "budget", "$500")
	setField(t, r, id, "time_commitment", "10 hrs/week")
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/next", nil).Code)

	setField(t, r, id, "experience", "3 years in retail")
	setField(t, r, id, "current_job", "Store manager")
	setField(t, r, id, "current_salary", "$3000")
	setField(t, r, id, "work_hours", "40")
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/next", nil).Code)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/next", nil).Code)
}

func TestWizardAPI_UnknownSession(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{})

	w := doJSON(t, r, http.MethodGet, "/api/wizard/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizardAPI_NextIncompleteStep(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{})
	id := createSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/next", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "STEP_INCOMPLETE")
}

func TestWizardAPI_BranchFieldRejected(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{})
	id := createSession(t, r)

	// target_income belongs to the seeking branch; the default is employed.
	w := doJSON(t, r, http.MethodPut, "/api/wizard/"+id+"/profile",
		gin.H{"field": "target_income", "value": "$2000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "FIELD_NOT_APPLICABLE")
}

func TestWizardAPI_GuestSubmitFlow(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{})
	id := createSession(t, r)
	walkToFinalStep(t, r, id)

	w := doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/submit", gin.H{"language": "en"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Phase string                `json:"phase"`
			Ideas []models.BusinessIdea `json:"ideas"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "report_ready", resp.Data.Phase)
	assert.Len(t, resp.Data.Ideas, 3)
}

func TestWizardAPI_SpentGuestRedirectedToAuth(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{})
	id := createSession(t, r)
	walkToFinalStep(t, r, id)

	w := doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The same session's free pass is spent; a second run needs an account.
	walkBack := doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/back", nil)
	require.Equal(t, http.StatusOK, walkBack.Code)
	next := doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, next.Code)

	w = doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/submit", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_REQUIRED")
}

func TestWizardAPI_DailyLimitRequiresUpgrade(t *testing.T) {
	r, store := newTestRouter(t, &stubGenerator{})

	login := doJSON(t, r, http.MethodPost, "/api/account/login", gin.H{"email": "maria@example.com"})
	require.Equal(t, http.StatusOK, login.Code)

	// Spend today's attempt directly in the slot.
	user, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	user.LastGenerationDate = time.Now().Format(models.DateLayout)
	user.DailyUsageCount = 1
	require.NoError(t, store.Save(context.Background(), user))

	id := createSession(t, r)
	walkToFinalStep(t, r, id)

	w := doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/submit", nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "UPGRADE_REQUIRED")
	assert.Contains(t, w.Body.String(), "blocked_upgrade")
}

func TestWizardAPI_ProUserUnlimited(t *testing.T) {
	r, store := newTestRouter(t, &stubGenerator{})

	login := doJSON(t, r, http.MethodPost, "/api/account/login", gin.H{"email": "maria@example.com"})
	require.Equal(t, http.StatusOK, login.Code)
	upgrade := doJSON(t, r, http.MethodPost, "/api/account/upgrade", nil)
	require.Equal(t, http.StatusOK, upgrade.Code)

	user, err := store.Load(context.Background())
	require.NoError(t, err)
	user.LastGenerationDate = time.Now().Format(models.DateLayout)
	user.DailyUsageCount = 5
	require.NoError(t, store.Save(context.Background(), user))

	id := createSession(t, r)
	walkToFinalStep(t, r, id)

	w := doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/submit", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestWizardAPI_GenerationFailure(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{err: fmt.Errorf("model overloaded")})
	id := createSession(t, r)
	walkToFinalStep(t, r, id)

	w := doJSON(t, r, http.MethodPost, "/api/wizard/"+id+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "GENERATION_FAILED")
}

func TestWizardAPI_DeleteSession(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{})
	id := createSession(t, r)

	w := doJSON(t, r, http.MethodDelete, "/api/wizard/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/wizard/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

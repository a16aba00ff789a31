package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/middleware"
	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories/memory"
	"github.com/yesbharath/spinwheel-backend/internal/services"
	"github.com/yesbharath/spinwheel-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type spinHandlerFixture struct {
	contestRepo     *memory.ContestRepository
	participantRepo *memory.ParticipantRepository
	router          *gin.Engine
}

// newSpinRouter mounts the spin endpoint with a stub auth middleware that
// injects the given participant ID.
func newSpinRouter(t *testing.T, participantID primitive.ObjectID) *spinHandlerFixture {
	t.Helper()

	contestRepo := memory.NewContestRepository()
	participantRepo := memory.NewParticipantRepository()
	redeemRepo := memory.NewRedeemRepository()
	rateLimits := services.NewRateLimitService(memory.NewRateLimitRepository())

	prizes := make([]models.PrizeTier, len(services.ReferencePrizes))
	copy(prizes, services.ReferencePrizes)
	require.NoError(t, contestRepo.Create(context.Background(), &models.Contest{
		Name:   "test contest",
		Active: true,
		Prizes: prizes,
	}))

	svc := services.NewSpinService(contestRepo, participantRepo, redeemRepo, rateLimits, utils.GenerateRedeemCode)
	handler := NewSpinHandler(svc)

	router := gin.New()
	router.POST("/api/spin", func(c *gin.Context) {
		c.Set(middleware.CtxParticipantID, participantID)
		c.Next()
	}, handler.Spin)

	return &spinHandlerFixture{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		router:          router,
	}
}

func postSpin(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/spin", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSpinEndpoint_Success(t *testing.T) {
	id := primitive.NewObjectID()
	f := newSpinRouter(t, id)
	require.NoError(t, f.participantRepo.Create(context.Background(), &models.Participant{
		ID:          id,
		Phone:       "9876543210",
		TermsAgreed: true,
	}))

	w := postSpin(f.router)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Prize   struct {
			ID         string `json:"id"`
			RedeemCode string `json:"redeemCode"`
		} `json:"prize"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "p8", body.Prize.ID)
	assert.Regexp(t, `^YB-[0-9A-Z]{6}$`, body.Prize.RedeemCode)
}

func TestSpinEndpoint_RepeatReturnsStoredPrize(t *testing.T) {
	id := primitive.NewObjectID()
	f := newSpinRouter(t, id)
	require.NoError(t, f.participantRepo.Create(context.Background(), &models.Participant{
		ID:          id,
		Phone:       "9876543210",
		TermsAgreed: true,
	}))

	first := postSpin(f.router)
	require.Equal(t, http.StatusOK, first.Code)

	second := postSpin(f.router)
	assert.Equal(t, http.StatusBadRequest, second.Code)

	var body struct {
		Error string `json:"error"`
		Prize struct {
			RedeemCode string `json:"redeemCode"`
		} `json:"prize"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.NotEmpty(t, body.Prize.RedeemCode, "repeat response carries the stored prize")
}

func TestSpinEndpoint_ErrorMapping(t *testing.T) {
	t.Run("terms not agreed is 403", func(t *testing.T) {
		id := primitive.NewObjectID()
		f := newSpinRouter(t, id)
		require.NoError(t, f.participantRepo.Create(context.Background(), &models.Participant{
			ID:    id,
			Phone: "9876543210",
		}))
		assert.Equal(t, http.StatusForbidden, postSpin(f.router).Code)
	})

	t.Run("unknown participant is 404", func(t *testing.T) {
		f := newSpinRouter(t, primitive.NewObjectID())
		assert.Equal(t, http.StatusNotFound, postSpin(f.router).Code)
	})

	t.Run("no active contest is 503", func(t *testing.T) {
		id := primitive.NewObjectID()
		f := newSpinRouter(t, id)
		require.NoError(t, f.participantRepo.Create(context.Background(), &models.Participant{
			ID:          id,
			Phone:       "9876543210",
			TermsAgreed: true,
		}))
		require.NoError(t, f.contestRepo.DeleteAll(context.Background()))
		assert.Equal(t, http.StatusServiceUnavailable, postSpin(f.router).Code)
	})
}

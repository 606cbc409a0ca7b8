package middlewares

import (
	"hrc/src/config"
	"hrc/src/db/dbtest"
	"hrc/src/models"
	"hrc/src/types"
	"hrc/src/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/staff", AuthMiddleware, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"id": ctx.GetUint("id"), "email": ctx.GetString("email")}})
	})
	r.GET("/admin", AuthMiddleware, RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	d := dbtest.NewSQLiteDB(t)
	t.Setenv("JWT_SECRET", "test-secret")
	staff := models.User{Name: "Rico", Email: "rico@hrc.local", Role: types.ROLE_STAFF}
	require.NoError(t, d.Create(&staff).Error)
	token, err := utils.GenerateJWT(&staff, time.Now())
	require.NoError(t, err)
	r := protectedRouter()

	w := get(r, "/staff", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(staff.ID), gjson.Get(w.Body.String(), "data.id").Int())
	assert.Equal(t, "rico@hrc.local", gjson.Get(w.Body.String(), "data.email").String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/staff", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/staff", "not-a-jwt").Code)

	expired, err := utils.GenerateJWT(&staff, time.Now().Add(-2*utils.TOKEN_TTL))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/staff", expired).Code)

	ghost := models.User{ID: staff.ID + 100, Role: types.ROLE_ADMIN}
	ghostToken, err := utils.GenerateJWT(&ghost, time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/staff", ghostToken).Code)
}

func TestRequireRole(t *testing.T) {
	d := dbtest.NewSQLiteDB(t)
	t.Setenv("JWT_SECRET", "test-secret")
	staff := models.User{Name: "Rico", Email: "rico@hrc.local", Role: types.ROLE_STAFF}
	admin := models.User{Name: "Ana", Email: "ana@hrc.local", Role: types.ROLE_ADMIN}
	require.NoError(t, d.Create(&staff).Error)
	require.NoError(t, d.Create(&admin).Error)
	r := protectedRouter()

	staffToken, err := utils.GenerateJWT(&staff, time.Now())
	require.NoError(t, err)
	adminToken, err := utils.GenerateJWT(&admin, time.Now())
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", staffToken).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", adminToken).Code)
}

func TestVerifyCallbackToken(t *testing.T) {
	t.Cleanup(func() { config.NewSettings(nil) })
	r := gin.New()
	r.POST("/webhook", VerifyCallbackToken, func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	post := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
		if token != "" {
			req.Header.Set("x-callback-token", token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	config.NewSettings(&config.Settings{WebhookCallbackToken: "s3cret"})
	assert.Equal(t, http.StatusOK, post("s3cret"))
	assert.Equal(t, http.StatusUnauthorized, post("wrong"))
	assert.Equal(t, http.StatusUnauthorized, post(""))

	config.NewSettings(&config.Settings{})
	assert.Equal(t, http.StatusOK, post(""))
}

func TestSecureHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecureHeaders)
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	w := get(r, "/", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

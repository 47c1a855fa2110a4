package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/juliusmarkwei/swift-send/internal/config"
	"github.com/juliusmarkwei/swift-send/internal/db"
	"github.com/juliusmarkwei/swift-send/internal/gateway"
	"github.com/juliusmarkwei/swift-send/internal/services"
	"github.com/juliusmarkwei/swift-send/pkg/middleware"
)

// stubGateway plays back a scripted result instead of calling the real SMS
// provider
type stubGateway struct {
	result *gateway.Result
	err    error
	calls  int
}

func (s *stubGateway) Send(message string, to []string) (*gateway.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	result := &gateway.Result{Message: "Sent"}
	for _, number := range to {
		result.Recipients = append(result.Recipients, gateway.Recipient{
			Number:    number,
			Status:    "Success",
			MessageID: "ATXid_" + number,
		})
	}
	return result, nil
}

type testEnv struct {
	router *gin.Engine
	cfg    *config.Config
	gw     *stubGateway
}

// setupTestEnv wires the full API against an in-memory database and a stub
// gateway
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.JWT.Secret = "handler-test-secret"
	cfg.JWT.TokenExpiry = time.Hour

	database := db.SetupTestDB(t)
	userRepo := db.NewUserRepository(database)
	contactRepo := db.NewContactRepository(database)
	templateRepo := db.NewTemplateRepository(database)
	logRepo := db.NewLogRepository(database)

	gw := &stubGateway{}

	userService := services.NewUserService(userRepo, "")
	contactService := services.NewContactService(contactRepo)
	templateService := services.NewTemplateService(templateRepo, contactRepo)
	dispatchService := services.NewDispatchService(
		services.NewContactResolver(contactRepo),
		contactRepo,
		templateRepo,
		logRepo,
		gw,
	)

	authHandler := NewAuthHandler(userService, cfg)
	contactHandler := NewContactHandler(contactService)
	templateHandler := NewTemplateHandler(templateService, dispatchService)
	messageHandler := NewMessageHandler(dispatchService)

	router := gin.New()
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg))
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/totp/setup", authHandler.SetupTOTP)
	protected.POST("/auth/totp/enable", authHandler.EnableTOTP)
	protected.POST("/auth/totp/disable", authHandler.DisableTOTP)

	protected.POST("/contacts", contactHandler.CreateContact)
	protected.GET("/contacts", contactHandler.ListContacts)
	protected.GET("/contacts/:id", contactHandler.GetContact)
	protected.PATCH("/contacts/:id", contactHandler.UpdateContact)
	protected.DELETE("/contacts/:id", contactHandler.DeleteContact)

	protected.POST("/templates", templateHandler.CreateTemplate)
	protected.GET("/templates", templateHandler.ListTemplates)
	protected.GET("/templates/:id", templateHandler.GetTemplate)
	protected.PATCH("/templates/:id", templateHandler.UpdateTemplate)
	protected.DELETE("/templates/:id", templateHandler.DeleteTemplate)
	protected.GET("/templates/:id/contacts", templateHandler.ListTemplateContacts)
	protected.POST("/templates/:id/contacts", templateHandler.AssociateContacts)
	protected.DELETE("/templates/:id/contacts", templateHandler.DisassociateContacts)
	protected.POST("/templates/:id/send", templateHandler.SendTemplate)

	protected.GET("/messages", messageHandler.ListMessages)
	protected.GET("/messages/:id", messageHandler.GetMessage)
	protected.POST("/messages/send", messageHandler.SendMessage)
	protected.POST("/messages/:id/resend", messageHandler.ResendMessage)

	return &testEnv{
		router: router,
		cfg:    cfg,
		gw:     gw,
	}
}

// request performs an HTTP request against the test router; token, when
// non-empty, is sent as a bearer token
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account and returns a valid bearer token for it
func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	w := e.request(t, "POST", "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.request(t, "POST", "/api/auth/login", "", gin.H{
		"username": username,
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// decodeBody unmarshals a recorder's JSON body into out
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

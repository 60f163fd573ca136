package services_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cagcankoc/ChatCore/app/tests"
	"github.com/cagcankoc/ChatCore/internal/handlers"
	"github.com/cagcankoc/ChatCore/internal/models"
	"github.com/cagcankoc/ChatCore/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRegister_TableDrive(t *testing.T) {
	ts := []struct {
		name         string
		requestBody  map[string]interface{}
		setupMocks   func(*tests.MockUserRepository, *tests.MockHasher, *tests.MockEmailService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Successful registration",
			requestBody: map[string]interface{}{
				"username": "newuser",
				"password": "password123",
				"email":    "new@example.com",
			},
			setupMocks: func(mur *tests.MockUserRepository, mph *tests.MockHasher, mes *tests.MockEmailService) {
				mur.On("GetUserByName", mock.Anything, "newuser").Return((*models.User)(nil), nil)
				mph.On("DefaultCost").Return(10)
				mph.On("GenerateFromPassword", []byte("password123"), 10).Return([]byte("hashed"), nil)
				mur.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
				mes.On("SendVerificationEmail", "new@example.com", mock.AnythingOfType("string")).Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "registered successfully",
		},
		{
			name: "Username already exists",
			requestBody: map[string]interface{}{
				"username": "taken",
				"password": "password123",
				"email":    "taken@example.com",
			},
			setupMocks: func(mur *tests.MockUserRepository, mph *tests.MockHasher, mes *tests.MockEmailService) {
				mur.On("GetUserByName", mock.Anything, "taken").Return(&models.User{ID: "u9", Username: "taken"}, nil)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "username already exists",
		},
		{
			name: "Missing fields",
			requestBody: map[string]interface{}{
				"username": "nopassword",
			},
			setupMocks: func(mur *tests.MockUserRepository, mph *tests.MockHasher, mes *tests.MockEmailService) {
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "required",
		},
	}

	for _, tt := range ts {
		t.Run(tt.name, func(t *testing.T) {
			mockRepository := &tests.MockUserRepository{}
			mockHasher := &tests.MockHasher{}
			emailService := &tests.MockEmailService{}
			tokenRepository := &tests.MockTokenRepository{}
			logger := slog.Default()

			tt.setupMocks(mockRepository, mockHasher, emailService)

			authService := services.NewAuthService(
				mockRepository, emailService, mockHasher,
				tokenRepository, []byte(JwtKey), logger)

			handler := handlers.NewAuthHandler(authService, logger)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = tests.CreateTestRequest("/register", http.MethodPost, tt.requestBody)

			handler.Register(c)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}

			mockRepository.AssertExpectations(t)
			mockHasher.AssertExpectations(t)
			emailService.AssertExpectations(t)
		})
	}
}

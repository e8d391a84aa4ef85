package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "Existing", "existing@example.com", models.RoleCustomer)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successful registration",
			requestBody: map[string]interface{}{
				"name":     "Ayesha Khan",
				"email":    "Ayesha@Example.com",
				"password": "strongpassword",
				"phone":    "+92 300 1234567",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.NotEmpty(t, data["token"])

				user := data["user"].(map[string]interface{})
				assert.Equal(t, "Ayesha Khan", user["name"])
				// Email is normalized and the account is always a customer
				assert.Equal(t, "ayesha@example.com", user["email"])
				assert.Equal(t, "customer", user["role"])
				_, hasHash := user["password_hash"]
				assert.False(t, hasHash)
			},
		},
		{
			name: "Fail with duplicate email",
			requestBody: map[string]interface{}{
				"name":     "Impostor",
				"email":    "existing@example.com",
				"password": "strongpassword",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "USER_EXISTS",
		},
		{
			name: "Fail with short password",
			requestBody: map[string]interface{}{
				"name":     "Weak",
				"email":    "weak@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with invalid email",
			requestBody: map[string]interface{}{
				"name":     "Bad Email",
				"email":    "not-an-email",
				"password": "strongpassword",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with missing fields",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/auth/register", Register)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "Ayesha Khan", "ayesha@example.com", models.RoleCustomer)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Successful login",
			requestBody:    map[string]interface{}{"email": "ayesha@example.com", "password": "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Login is case-insensitive on email",
			requestBody:    map[string]interface{}{"email": "Ayesha@Example.COM", "password": "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fail with wrong password",
			requestBody:    map[string]interface{}{"email": "ayesha@example.com", "password": "wrongpassword"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "Fail with unknown email",
			requestBody:    map[string]interface{}{"email": "nobody@example.com", "password": "password123"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "Fail with missing password",
			requestBody:    map[string]interface{}{"email": "ayesha@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/auth/login", Login)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				data := response["data"].(map[string]interface{})
				assert.NotEmpty(t, data["token"])
			}
		})
	}
}

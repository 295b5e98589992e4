package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Response struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`

	HTTPStatus int `json:"-"`
}

func (r Response) IsSuccess() bool {
	return r.Status == "success"
}

func (r Response) GetString(key string) string {
	if val, ok := r.Data[key].(string); ok {
		return val
	}
	return ""
}

func makeRequest(method, path string, body interface{}, token string) Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return Response{Status: "error", Message: fmt.Sprintf("Failed to marshal request body: %v", err)}
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return Response{Status: "error", Message: fmt.Sprintf("Failed to create request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Response{Status: "error", Message: fmt.Sprintf("Request failed: %v", err)}
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Response{Status: "error", Message: fmt.Sprintf("Failed to decode response: %v", err)}
	}
	response.HTTPStatus = resp.StatusCode

	return response
}

// mintToken signs a test token the way the identity service would.
func mintToken(role string, degree int) string {
	claims := jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": role,
		"grau": degree,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("TEST_JWT_SECRET")))
	if err != nil {
		return ""
	}
	return signed
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}

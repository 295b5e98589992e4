package api_test

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

var (
	baseURL         = "http://localhost:8080/api/v1"
	serverAvailable bool
)

func checkAPIServer() error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(baseURL + "/health/live")
	if err != nil {
		return fmt.Errorf("API server not reachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("liveness check returned %d", resp.StatusCode)
	}
	return nil
}

func TestMain(m *testing.M) {
	if url := os.Getenv("API_URL"); url != "" {
		baseURL = url + "/api/v1"
	}

	serverAvailable = checkAPIServer() == nil
	if !serverAvailable {
		fmt.Printf("API server not running at %s, skipping integration tests\n", baseURL)
	}

	os.Exit(m.Run())
}

func requireServer(t *testing.T) {
	t.Helper()
	if !serverAvailable {
		t.Skip("API server not available")
	}
	if os.Getenv("TEST_JWT_SECRET") == "" {
		t.Skip("TEST_JWT_SECRET not set")
	}
}

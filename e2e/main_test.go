package e2e

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// TestFeatures runs the Gherkin scenarios against a running server.
// Set E2E_BASE_URL (e.g. http://localhost:8080) to enable them.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("E2E_BASE_URL")
	if baseURL == "" {
		t.Skip("E2E_BASE_URL not set")
	}
	runID := strconv.FormatInt(time.Now().UnixNano()%1_000_000, 36)

	suite := godog.TestSuite{
		Name: "user-registration",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			tc := NewTestContext(baseURL, runID)
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				tc.Reset()
				return ctx, nil
			})
			RegisterSteps(sc, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

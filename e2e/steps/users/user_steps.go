package users

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	POSTRaw(path, body string, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetRunID() string
}

// RegisterSteps registers user registration and lookup step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &userSteps{tc: tc}

	ctx.Step(`^a fresh username based on "([^"]*)"$`, steps.freshUsername)
	ctx.Step(`^I register with birthdate "([^"]*)" and country "([^"]*)"$`, steps.registerWith)
	ctx.Step(`^I register with:$`, steps.registerWithTable)
	ctx.Step(`^I submit the raw registration body:$`, steps.submitRawBody)
	ctx.Step(`^I fetch the registered user$`, steps.fetchRegistered)
	ctx.Step(`^I fetch user "([^"]*)" with correlation id "([^"]*)"$`, steps.fetchWithCorrelationID)

	ctx.Step(`^the response should describe the registered user$`, steps.responseDescribesUser)
	ctx.Step(`^the validation error for "([^"]*)" should be "([^"]*)"$`, steps.validationErrorShouldBe)
}

type userSteps struct {
	tc       TestContext
	username string
}

func (s *userSteps) freshUsername(ctx context.Context, base string) error {
	s.username = base + "-" + s.tc.GetRunID()
	return nil
}

func (s *userSteps) registerWith(ctx context.Context, birthdate, country string) error {
	return s.tc.POST("/api/users", map[string]interface{}{
		"username":           s.username,
		"birthdate":          birthdate,
		"countryOfResidence": country,
	})
}

// registerWithTable posts a two-column field/value table. The username field
// defaults to the scenario's fresh username.
func (s *userSteps) registerWithTable(ctx context.Context, table *godog.Table) error {
	body := map[string]interface{}{"username": s.username}
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected field/value rows, got %d cells", len(row.Cells))
		}
		body[row.Cells[0].Value] = row.Cells[1].Value
	}
	return s.tc.POST("/api/users", body)
}

func (s *userSteps) submitRawBody(ctx context.Context, body *godog.DocString) error {
	return s.tc.POSTRaw("/api/users", body.Content, nil)
}

func (s *userSteps) fetchRegistered(ctx context.Context) error {
	return s.tc.GET("/api/users/"+s.username, nil)
}

func (s *userSteps) fetchWithCorrelationID(ctx context.Context, username, correlationID string) error {
	return s.tc.GET("/api/users/"+username, map[string]string{"X-Correlation-Id": correlationID})
}

func (s *userSteps) responseDescribesUser(ctx context.Context) error {
	v, err := s.tc.GetResponseField("username")
	if err != nil {
		return err
	}
	if v != s.username {
		return fmt.Errorf("expected username %q, got %v", s.username, v)
	}
	id, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	if n, ok := id.(float64); !ok || n <= 0 {
		return fmt.Errorf("expected a positive id, got %v", id)
	}
	return nil
}

func (s *userSteps) validationErrorShouldBe(ctx context.Context, field, expected string) error {
	v, err := s.tc.GetResponseField("validationErrors")
	if err != nil {
		return err
	}
	fields, ok := v.(map[string]interface{})
	if !ok {
		return fmt.Errorf("validationErrors is not an object: %v", v)
	}
	if got := fields[field]; got != expected {
		return fmt.Errorf("expected %s error %q, got %v", field, expected, got)
	}
	return nil
}

package e2e

import (
	"github.com/cucumber/godog"

	"github.com/AmineOzil/user-registration/e2e/steps/common"
	"github.com/AmineOzil/user-registration/e2e/steps/users"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (service checks, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register registration and lookup steps
	users.RegisterSteps(ctx, tc)
}

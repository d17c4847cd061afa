package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/capto/internal/common"
)

func testCloudConfig() common.CloudConfig {
	return common.CloudConfig{
		Email:          "ops@example.com",
		Password:       "hunter2",
		LoginURL:       "https://cloud.example.com/unity/",
		IngressPattern: "ingress.cluster",
		FallbackRoutes: []string{"#/healthMonitor", "#/servers"},
	}
}

func testBrowserConfig() common.BrowserConfig {
	// All waits zeroed so flow tests run at fake-page speed.
	return common.BrowserConfig{}
}

// happyLoginPage scripts a page where the first candidate of every stage
// resolves and the app issues the token-bearing request during login load.
func happyLoginPage(cloud common.CloudConfig) *fakePage {
	page := newFakePage()
	page.visible[EmailSelectors()[0]] = true
	page.visible[SubmitSelectors()[0]] = true
	page.visible[PasswordSelectors()[0]] = true
	page.visible[SignInSelectors()[0]] = true
	page.emitOnNavigate[cloud.LoginURL] = ingressRequest(testJWT)
	return page
}

func TestDriverHappyPath(t *testing.T) {
	cloud := testCloudConfig()
	page := happyLoginPage(cloud)

	obs := NewTrafficObserver(cloud.IngressPattern, testLogger())
	obs.Install(page)

	driver := NewDriver(page, obs, NewScreenshotWriter("", testLogger()), cloud, testBrowserConfig(), testLogger())
	err := driver.Run(context.Background())
	require.NoError(t, err)

	token, ok := obs.Token()
	assert.True(t, ok)
	assert.Equal(t, testJWT, token)

	assert.Equal(t, "ops@example.com", page.fills[EmailSelectors()[0]])
	assert.Equal(t, "hunter2", page.fills[PasswordSelectors()[0]])
	assert.Equal(t,
		[]string{"navigate", "email", "submit", "password", "sign_in", "bootstrap_wait"},
		driver.Stages())

	// Token arrived during login load, so no fallback route was visited.
	assert.Equal(t, []string{cloud.LoginURL}, page.navigations)
}

func TestDriverEmailFieldNotFound(t *testing.T) {
	cloud := testCloudConfig()
	page := newFakePage()

	obs := NewTrafficObserver(cloud.IngressPattern, testLogger())
	obs.Install(page)

	driver := NewDriver(page, obs, NewScreenshotWriter("", testLogger()), cloud, testBrowserConfig(), testLogger())
	err := driver.Run(context.Background())

	var flowErr *FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, FailureEmailNotFound, flowErr.Kind)
	assert.Equal(t, "email", flowErr.Stage)

	// Later stages never ran and diagnostics were dumped for the operator.
	assert.Empty(t, page.fills)
	assert.Equal(t, []string{"navigate"}, driver.Stages())
	assert.Equal(t, 1, page.inputsCalls)
	assert.Equal(t, 1, page.framesCalls)
}

func TestDriverPasswordFieldNotFound(t *testing.T) {
	cloud := testCloudConfig()
	page := newFakePage()
	page.visible[EmailSelectors()[0]] = true

	obs := NewTrafficObserver(cloud.IngressPattern, testLogger())
	obs.Install(page)

	driver := NewDriver(page, obs, NewScreenshotWriter("", testLogger()), cloud, testBrowserConfig(), testLogger())
	err := driver.Run(context.Background())

	var flowErr *FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, FailurePasswordNotFound, flowErr.Kind)
	assert.NotContains(t, driver.Stages(), "password")
}

func TestDriverNavigationFailureIsFatal(t *testing.T) {
	cloud := testCloudConfig()
	page := newFakePage()
	page.navErr[cloud.LoginURL] = errors.New("net::ERR_NAME_NOT_RESOLVED")

	obs := NewTrafficObserver(cloud.IngressPattern, testLogger())
	obs.Install(page)

	driver := NewDriver(page, obs, NewScreenshotWriter("", testLogger()), cloud, testBrowserConfig(), testLogger())
	err := driver.Run(context.Background())

	var flowErr *FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, FailureNavigation, flowErr.Kind)
	assert.Empty(t, driver.Stages())
}

func TestDriverFallbackRoutesUntilCaptured(t *testing.T) {
	cloud := testCloudConfig()
	page := happyLoginPage(cloud)

	// Token does not appear during login; the first fallback route times
	// out and the second one produces the qualifying request.
	delete(page.emitOnNavigate, cloud.LoginURL)
	page.navErr[cloud.LoginURL+"#/healthMonitor"] = errors.New("navigation timeout")
	page.emitOnNavigate[cloud.LoginURL+"#/servers"] = ingressRequest(testJWT)

	obs := NewTrafficObserver(cloud.IngressPattern, testLogger())
	obs.Install(page)

	driver := NewDriver(page, obs, NewScreenshotWriter("", testLogger()), cloud, testBrowserConfig(), testLogger())
	err := driver.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, obs.Captured())
	assert.Equal(t, []string{
		cloud.LoginURL,
		cloud.LoginURL + "#/healthMonitor",
		cloud.LoginURL + "#/servers",
	}, page.navigations)
	assert.Contains(t, driver.Stages(), "fallback_servers")
	assert.NotContains(t, driver.Stages(), "fallback_healthMonitor")
}

func TestDriverSkipsRemainingRoutesOnceCaptured(t *testing.T) {
	cloud := testCloudConfig()
	page := happyLoginPage(cloud)
	delete(page.emitOnNavigate, cloud.LoginURL)
	page.emitOnNavigate[cloud.LoginURL+"#/healthMonitor"] = ingressRequest(testJWT)

	obs := NewTrafficObserver(cloud.IngressPattern, testLogger())
	obs.Install(page)

	driver := NewDriver(page, obs, NewScreenshotWriter("", testLogger()), cloud, testBrowserConfig(), testLogger())
	err := driver.Run(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, page.navigations, cloud.LoginURL+"#/servers")
}

func TestDriverCompletesWithoutTokenWhenNothingQualifies(t *testing.T) {
	cloud := testCloudConfig()
	page := happyLoginPage(cloud)
	delete(page.emitOnNavigate, cloud.LoginURL)

	obs := NewTrafficObserver(cloud.IngressPattern, testLogger())
	obs.Install(page)

	driver := NewDriver(page, obs, NewScreenshotWriter("", testLogger()), cloud, testBrowserConfig(), testLogger())
	err := driver.Run(context.Background())

	// The driver itself does not fail; deciding success is the session's job.
	require.NoError(t, err)
	assert.False(t, obs.Captured())
	assert.Len(t, page.navigations, 3)
}

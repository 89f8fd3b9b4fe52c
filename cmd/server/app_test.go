package main

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civreg/pkg/testutil"
)

func TestRoutesCommand(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("CIVREG_LOG_LEVEL", "error")

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"routes"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	for _, want := range []string{
		"GET     /birth-declaration/",
		"POST    /birth-declaration/submit",
		"PUT     /register/fields/{section}/{field}",
		"POST    /register/resend",
		"POST    /dashboard-mairie/declarations/{id}/{action}",
		"GET     /notifications",
		"GET     /metrics",
	} {
		assert.Contains(t, out.String(), want)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CIVREG_ADDR", ":8080")
	t.Setenv("CIVREG_FAILURE_RATE", "0")

	cmd := serveCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--addr", ":9999", "--failure-rate", "0.5"}))

	addr, err := cmd.Flags().GetString("addr")
	require.NoError(t, err)
	rate, err := cmd.Flags().GetFloat64("failure-rate")
	require.NoError(t, err)

	cfg, err := loadConfig(cmd, serveFlags{addr: addr, failureRate: rate})
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.InDelta(t, 0.5, cfg.Simulator.FailureRate, 1e-9)
}

func TestInvalidFlagsAreRejected(t *testing.T) {
	cmd := serveCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--failure-rate", "2"}))
	_, err := loadConfig(cmd, serveFlags{failureRate: 2})
	assert.Error(t, err)
}

func TestAppServesHealth(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("CIVREG_LOG_LEVEL", "error")

	cmd := serveCmd()
	cfg, err := loadConfig(cmd, serveFlags{})
	require.NoError(t, err)
	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)

	rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatusOK(t, rr)
}

func TestAppScaffold(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("CIVREG_LOG_LEVEL", "error")

	testutil.Given(t, "the wired application", func(t *testing.T) {
		cfg, err := loadConfig(serveCmd(), serveFlags{})
		require.NoError(t, err)
		a, err := newApp(context.Background(), cfg)
		require.NoError(t, err)

		testutil.When(t, "an anonymous visitor opens the landing page", func(t *testing.T) {
			rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/"))

			testutil.Then(t, "it is not signed in", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "signedIn", false)
			})
			testutil.And(t, "it receives a session cookie", func(t *testing.T) {
				assert.Contains(t, rr.Header().Get("Set-Cookie"), "civreg_session=")
			})
		})

		testutil.When(t, "calling an unknown page", func(t *testing.T) {
			rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/nowhere"))

			testutil.Then(t, "it responds with not found", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusNotFound)
			})
		})
	})
}

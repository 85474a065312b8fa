package auth_test

import (
	"testing"

	"github.com/ordercraft/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := t.Context()

	live, err := client.GetLiveness(ctx)
	assertHealthy(t, live, err)
	require.NotEmpty(t, live.Uptime)
	require.NotEmpty(t, live.Version)

	ready, err := client.GetReadiness(ctx)
	assertHealthy(t, ready, err)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Sessions)
	require.Equal(t, "ok", ready.Checks.Identities)
}

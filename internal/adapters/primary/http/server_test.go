package http

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// MockDeckService is a mock for DeckService
type MockDeckService struct {
	mock.Mock
}

func (m *MockDeckService) Generate(ctx context.Context, req *entities.GenerateRequest) (*entities.GenerationResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*entities.GenerationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) GenerateFromJSON(ctx context.Context, jsonContent, templateID string) (*entities.GenerationResult, error) {
	args := m.Called(ctx, jsonContent, templateID)
	if r := args.Get(0); r != nil {
		return r.(*entities.GenerationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) Fill(ctx context.Context, templateID string, req *entities.FillRequest) (*entities.GenerationResult, error) {
	args := m.Called(ctx, templateID, req)
	if r := args.Get(0); r != nil {
		return r.(*entities.GenerationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) Analyze(ctx context.Context, templateID string) (*entities.TemplateDescription, error) {
	args := m.Called(ctx, templateID)
	if d := args.Get(0); d != nil {
		return d.(*entities.TemplateDescription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) ListTemplates(ctx context.Context) ([]entities.TemplateInfo, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.([]entities.TemplateInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) UploadTemplate(ctx context.Context, upload *entities.TemplateUpload) (*entities.UploadResult, error) {
	args := m.Called(ctx, upload)
	if r := args.Get(0); r != nil {
		return r.(*entities.UploadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) Download(ctx context.Context, filename string) (io.ReadCloser, error) {
	args := m.Called(ctx, filename)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

var _ ports.DeckService = (*MockDeckService)(nil)

// stubHealth is a fixed HealthReporter
type stubHealth struct {
	healthy bool
}

func (h stubHealth) IsHealthy() bool { return h.healthy }

func (h stubHealth) GetHealthStatus() map[string]interface{} {
	return map[string]interface{}{"healthy": h.healthy, "goroutines": 3}
}

// getTestServerConfig returns a test server configuration
func getTestServerConfig() entities.ServerConfig {
	return entities.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5,
		WriteTimeout:    5,
		ShutdownTimeout: 2,
		CORSOrigins:     []string{"*"},
		MaxUploadMB:     1,
	}
}

func TestServerLifecycle(t *testing.T) {
	ctx := context.Background()
	server := NewServer(new(MockDeckService), getTestServerConfig(), zap.NewNop())

	assert.False(t, server.IsRunning())
	assert.Empty(t, server.Addr())
	assert.Error(t, server.Stop(ctx), "stopping before start")

	require.NoError(t, server.Start(ctx))
	assert.True(t, server.IsRunning())
	assert.Error(t, server.Start(ctx), "starting twice")

	resp, err := http.Get("http://" + server.Addr() + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "PPTX Generator", health.Service)
	assert.Equal(t, "1.0.0", health.Version)

	require.NoError(t, server.Stop(ctx))
	assert.False(t, server.IsRunning())
}

func TestServerStart_PortInUse(t *testing.T) {
	ctx := context.Background()
	first := NewServer(new(MockDeckService), getTestServerConfig(), nil)
	require.NoError(t, first.Start(ctx))
	defer func() { _ = first.Stop(ctx) }()

	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)

	config := getTestServerConfig()
	config.Port, err = strconv.Atoi(port)
	require.NoError(t, err)

	second := NewServer(new(MockDeckService), config, nil)
	err = second.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
	assert.False(t, second.IsRunning())
}

func TestHandleHealth(t *testing.T) {
	t.Run("without monitor", func(t *testing.T) {
		server := NewServer(new(MockDeckService), getTestServerConfig(), nil)

		w := serve(server, newRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","service":"PPTX Generator","version":"1.0.0"}`, w.Body.String())
	})

	t.Run("degraded monitor", func(t *testing.T) {
		server := NewServer(new(MockDeckService), getTestServerConfig(), nil)
		server.SetHealthReporter(stubHealth{healthy: false})

		w := serve(server, newRequest(http.MethodGet, "/", nil))

		var health HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
		assert.Equal(t, "degraded", health.Status)
		assert.Equal(t, false, health.Checks["healthy"])
	})
}

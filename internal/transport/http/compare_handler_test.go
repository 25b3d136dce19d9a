package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfcli/internal/config"
	apierrors "perfcli/internal/errors"
	"perfcli/internal/middleware"
	"perfcli/internal/services"
)

const testReportHTML = `<html><body>
<div id="Overall Result_div"><table>
	<tr><td>Pass/Fail Status</td><td>Passed</td></tr>
</table></div>
<div id="Transaction details_div"><table>
	<tr><th>h0</th><th>h1</th><th>h2</th><th>h3</th><th>h4</th><th>h5</th><th>h6</th><th>h7</th><th>h8</th></tr>
	<tr><td>Login</td><td>1</td><td>1</td><td>0</td><td>0.1</td><td>2</td><td>0.8</td><td>0.9</td><td>1.35</td></tr>
</table></div>
</body></html>`

func testHandler(t *testing.T) *CompareHandler {
	t.Helper()
	cfg := &config.Config{
		Limits: config.LimitsConfig{MaxUploadBytes: 1 << 20, MaxFiles: 5, MaxParallel: 2},
		SLA:    config.SLAConfig{DefaultThresholdSeconds: 1.0},
	}
	logger := slog.Default()
	service := services.NewCompareService(logger, nil, cfg.Limits.MaxParallel)
	return NewCompareHandler(service, cfg, logger, apierrors.NewErrorHandler(logger))
}

func multipartBody(t *testing.T, sla string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if sla != "" {
		require.NoError(t, w.WriteField(fieldThreshold, sla))
	}
	for name, content := range files {
		part, err := w.CreateFormFile(fieldReports, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestCompareEndpoint(t *testing.T) {
	handler := testHandler(t)

	body, contentType := multipartBody(t, "1.0", map[string]string{
		"a.html": testReportHTML,
	})
	req := httptest.NewRequest(http.MethodPost, "/compare", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result services.CompareResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, []string{"a.html"}, result.Comparison.Reports)
	require.Len(t, result.Annotated.Rows, 1)
	assert.Equal(t, "Login", result.Annotated.Rows[0].Name)
	// 1.35 strictly exceeds the 1.0s SLA.
	assert.True(t, result.Annotated.Rows[0].Cells[0].Breach)
	assert.Equal(t, 1, result.Compliance.Above)
}

func TestCompareEndpointDefaultsThreshold(t *testing.T) {
	handler := testHandler(t)

	body, contentType := multipartBody(t, "", map[string]string{"a.html": testReportHTML})
	req := httptest.NewRequest(http.MethodPost, "/compare", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.CompareResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1.0, result.Threshold)
}

func TestCompareEndpointValidation(t *testing.T) {
	handler := testHandler(t)

	tests := []struct {
		name       string
		sla        string
		files      map[string]string
		wantStatus int
	}{
		{
			name:       "no files",
			sla:        "1.0",
			files:      nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non numeric sla",
			sla:        "fast",
			files:      map[string]string{"a.html": testReportHTML},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero sla is valid",
			sla:        "0",
			files:      map[string]string{"a.html": testReportHTML},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.sla, tt.files)
			req := httptest.NewRequest(http.MethodPost, "/compare", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			handler.Routes().ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestCompareEndpointTooManyFiles(t *testing.T) {
	handler := testHandler(t)

	files := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		files[name+".html"] = testReportHTML
	}

	body, contentType := multipartBody(t, "1.0", files)
	req := httptest.NewRequest(http.MethodPost, "/compare", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Problem documents must carry the request ID set by the RequestID
// middleware as their trace_id extension.
func TestProblemCarriesRequestID(t *testing.T) {
	handler := testHandler(t)

	body, contentType := multipartBody(t, "1.0", nil)
	req := httptest.NewRequest(http.MethodPost, "/compare", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()

	middleware.RequestID(handler.Routes()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "req-123", problem["trace_id"])
}

func TestExportEndpoint(t *testing.T) {
	handler := testHandler(t)

	body, contentType := multipartBody(t, "1.0", map[string]string{"a.html": testReportHTML})
	req := httptest.NewRequest(http.MethodPost, "/compare/export", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

package v1_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/raystack/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	v1 "github.com/odpf/meridian/api/handler/v1"
	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

func TestExportHandler(t *testing.T) {
	logger := log.NewNoop()

	router := func(exportHandler *v1.ExportHandler) *mux.Router {
		r := mux.NewRouter()
		nsHandler := v1.NewNamespaceHandler(logger, new(appNamespaceService), new(namespaceService),
			new(reconcileService), new(provisionService), allowAll{})
		v1.RegisterRoutes(r, nsHandler, exportHandler)
		return r
	}

	t.Run("ExportNamespace", func(t *testing.T) {
		t.Run("serves the rendered namespace as an attachment", func(t *testing.T) {
			ns, err := namespace.NewNamespace("sampleapp", "dev", "default", "application",
				namespace.FormatProperties, false, []namespace.Item{
					{Key: "timeout", Value: "100"},
					{Key: "retries", Value: "3", Comment: "max"},
				})
			assert.NoError(t, err)

			nsService := new(namespaceService)
			nsService.On("Get", mock.Anything, namespace.AppID("sampleapp"), namespace.Environment("dev"),
				namespace.ClusterName("default"), namespace.Name("application")).Return(ns, nil)
			defer nsService.AssertExpectations(t)

			handler := v1.NewExportHandler(logger, nsService, new(bulkExporter), allowAll{})
			req := httptest.NewRequest(http.MethodGet,
				"/api/v1/apps/sampleapp/envs/dev/clusters/default/namespaces/application/items/export", nil)
			rec := httptest.NewRecorder()
			router(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, `attachment; filename="application.properties"`, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, "timeout = 100\n# max\nretries = 3\n", rec.Body.String())
		})

		t.Run("keeps the name as file name when it carries a format suffix", func(t *testing.T) {
			ns, err := namespace.NewNamespace("sampleapp", "dev", "default", "sampleapp.db.yml",
				namespace.FormatYML, false, []namespace.Item{{Key: "url", Value: "postgres://localhost"}})
			assert.NoError(t, err)

			nsService := new(namespaceService)
			nsService.On("Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ns, nil)
			defer nsService.AssertExpectations(t)

			handler := v1.NewExportHandler(logger, nsService, new(bulkExporter), allowAll{})
			req := httptest.NewRequest(http.MethodGet,
				"/api/v1/apps/sampleapp/envs/dev/clusters/default/namespaces/sampleapp.db.yml/items/export", nil)
			rec := httptest.NewRecorder()
			router(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, `attachment; filename="sampleapp.db.yml"`, rec.Header().Get("Content-Disposition"))
		})

		t.Run("refuses a namespace the caller may not read", func(t *testing.T) {
			nsService := new(namespaceService)
			defer nsService.AssertNotCalled(t, "Get")

			handler := v1.NewExportHandler(logger, nsService, new(bulkExporter), denyName{name: "secrets"})
			req := httptest.NewRequest(http.MethodGet,
				"/api/v1/apps/sampleapp/envs/dev/clusters/default/namespaces/secrets/items/export", nil)
			rec := httptest.NewRecorder()
			router(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})

		t.Run("maps missing namespace to 404", func(t *testing.T) {
			nsService := new(namespaceService)
			nsService.On("Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, errors.NotFound(namespace.EntityNamespace, "namespace nope does not exist"))
			defer nsService.AssertExpectations(t)

			handler := v1.NewExportHandler(logger, nsService, new(bulkExporter), allowAll{})
			req := httptest.NewRequest(http.MethodGet,
				"/api/v1/apps/sampleapp/envs/dev/clusters/default/namespaces/nope/items/export", nil)
			rec := httptest.NewRecorder()
			router(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	})

	t.Run("ExportAll", func(t *testing.T) {
		t.Run("streams the archive with a timestamped name", func(t *testing.T) {
			exporter := new(bulkExporter)
			exporter.On("ExportAll", mock.Anything, mock.Anything, []namespace.Environment{"dev", "prod"}).
				Run(func(args mock.Arguments) {
					_, _ = args.Get(1).(io.Writer).Write([]byte("archive-bytes"))
				}).Return(nil)
			defer exporter.AssertExpectations(t)

			handler := v1.NewExportHandler(logger, new(namespaceService), exporter, allowAll{})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/configs/export?envs=dev,prod", nil)
			rec := httptest.NewRecorder()
			router(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="meridian_config_export_`)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), `.zip"`)
			assert.Equal(t, "archive-bytes", rec.Body.String())
		})

		t.Run("rejects a request without envs", func(t *testing.T) {
			handler := v1.NewExportHandler(logger, new(namespaceService), new(bulkExporter), allowAll{})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/configs/export", nil)
			rec := httptest.NewRecorder()
			router(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	})
}

type bulkExporter struct {
	mock.Mock
}

func (e *bulkExporter) ExportAll(ctx context.Context, out io.Writer, envs []namespace.Environment) error {
	args := e.Called(ctx, out, envs)
	return args.Error(0)
}

package v1

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/raystack/salt/log"

	"github.com/odpf/meridian/core/export"
	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

type NamespaceGetter interface {
	Get(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) (*namespace.Namespace, error)
}

type BulkExporter interface {
	ExportAll(ctx context.Context, out io.Writer, envs []namespace.Environment) error
}

type ExportHandler struct {
	l log.Logger

	namespaces NamespaceGetter
	exporter   BulkExporter
	perms      ItemPermissionChecker
	nowFn      func() time.Time
}

// ExportNamespace renders one namespace in its declared format and
// serves it as a file download named after the namespace. Namespaces
// the caller may not read are indistinguishable from absent ones.
func (h *ExportHandler) ExportNamespace(w http.ResponseWriter, r *http.Request) {
	appID, env, cluster, err := scopeVars(r)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	name, err := namespace.NameFrom(mux.Vars(r)["name"])
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	if !h.perms.CanRead(r.Context(), appID, env, cluster, name) {
		writeError(h.l, w, errors.NotFound(namespace.EntityNamespace,
			"namespace "+name.String()+" does not exist"))
		return
	}

	ns, err := h.namespaces.Get(r.Context(), appID, env, cluster, name)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	content, err := export.Serialize(ns, ns.Format())
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.DeriveFileName(ns.Name())+`"`)
	_, _ = w.Write(content)
}

// ExportAll streams a zip archive of every readable namespace in the
// requested environments. The archive is written directly to the
// response, entries appear as they are produced.
func (h *ExportHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	envs, err := parseEnvs(r.URL.Query().Get("envs"))
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.ArchiveName(h.nowFn())+`"`)

	if err := h.exporter.ExportAll(r.Context(), w, envs); err != nil {
		// headers are already on the wire, all that is left is logging
		h.l.Error("bulk export failed", "error", err)
	}
}

func parseEnvs(raw string) ([]namespace.Environment, error) {
	if raw == "" {
		return nil, errors.InvalidArgument(export.EntityExport, "envs query parameter is required")
	}

	envs := []namespace.Environment{}
	for _, part := range strings.Split(raw, ",") {
		env, err := namespace.EnvironmentFrom(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return envs, nil
}

func NewExportHandler(l log.Logger, namespaces NamespaceGetter, exporter BulkExporter, perms ItemPermissionChecker) *ExportHandler {
	return &ExportHandler{
		l:          l,
		namespaces: namespaces,
		exporter:   exporter,
		perms:      perms,
		nowFn:      time.Now,
	}
}

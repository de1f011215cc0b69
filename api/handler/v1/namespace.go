package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/raystack/salt/log"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/core/namespace/service"
	"github.com/odpf/meridian/internal/errors"
)

type AppNamespaceService interface {
	GetAllPublic(ctx context.Context) ([]*namespace.AppNamespace, error)
	Get(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error)
	Create(ctx context.Context, appNamespace *namespace.AppNamespace, appendPrefix bool) (*namespace.AppNamespace, error)
	Delete(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error)
}

type NamespaceService interface {
	List(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName) ([]*namespace.Namespace, error)
	Get(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) (*namespace.Namespace, error)
	AssociatedPublicNamespace(ctx context.Context, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) (*namespace.Namespace, error)
	PublicInstances(ctx context.Context, env namespace.Environment, name namespace.Name, page, size int) ([]*namespace.Namespace, error)
	Usage(ctx context.Context, appID namespace.AppID, name namespace.Name) ([]namespace.Usage, error)
	UsageByEnv(ctx context.Context, appID namespace.AppID, name namespace.Name, env namespace.Environment, cluster namespace.ClusterName) (namespace.Usage, error)
	DeleteLinked(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) error
}

type ReconcileService interface {
	ComputeMissing(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName) ([]namespace.Name, error)
}

type ProvisionService interface {
	CreateMissing(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName) (service.ProvisionResult, error)
}

// ItemPermissionChecker decides whether the caller may read item values
// of a namespace; listings still show the namespace itself.
type ItemPermissionChecker interface {
	CanRead(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) bool
}

type NamespaceHandler struct {
	l log.Logger

	appNamespaces AppNamespaceService
	namespaces    NamespaceService
	reconciler    ReconcileService
	provisioner   ProvisionService
	perms         ItemPermissionChecker
}

type appNamespaceResponse struct {
	AppID    string `json:"appId"`
	Name     string `json:"name"`
	Format   string `json:"format"`
	IsPublic bool   `json:"isPublic"`
	Comment  string `json:"comment"`
}

type itemResponse struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Comment string `json:"comment"`
}

type namespaceResponse struct {
	AppID       string         `json:"appId"`
	Environment string         `json:"environment"`
	ClusterName string         `json:"clusterName"`
	Name        string         `json:"namespaceName"`
	Format      string         `json:"format"`
	IsPublic    bool           `json:"isPublic"`
	Items       []itemResponse `json:"items"`
}

type createAppNamespaceRequest struct {
	Name     string `json:"name"`
	Format   string `json:"format"`
	IsPublic bool   `json:"isPublic"`
	Comment  string `json:"comment"`
}

type missingNamespacesResponse struct {
	Missing []namespace.Name `json:"missing"`
}

func toAppNamespaceResponse(spec *namespace.AppNamespace) appNamespaceResponse {
	return appNamespaceResponse{
		AppID:    spec.AppID().String(),
		Name:     spec.Name().String(),
		Format:   spec.Format().String(),
		IsPublic: spec.IsPublic(),
		Comment:  spec.Comment(),
	}
}

func toNamespaceResponse(ns *namespace.Namespace) namespaceResponse {
	items := ns.Items()
	responses := make([]itemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, itemResponse{
			Key:     item.Key,
			Value:   item.Value,
			Comment: item.Comment,
		})
	}
	return namespaceResponse{
		AppID:       ns.AppID().String(),
		Environment: ns.Environment().String(),
		ClusterName: ns.Cluster().String(),
		Name:        ns.Name().String(),
		Format:      ns.Format().String(),
		IsPublic:    ns.IsPublic(),
		Items:       responses,
	}
}

func (h *NamespaceHandler) ListPublicAppNamespaces(w http.ResponseWriter, r *http.Request) {
	specs, err := h.appNamespaces.GetAllPublic(r.Context())
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	responses := make([]appNamespaceResponse, 0, len(specs))
	for _, spec := range specs {
		responses = append(responses, toAppNamespaceResponse(spec))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *NamespaceHandler) CreateAppNamespace(w http.ResponseWriter, r *http.Request) {
	var req createAppNamespaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.l, w, errors.InvalidArgument(namespace.EntityAppNamespace, "invalid request body"))
		return
	}

	var format namespace.Format
	if req.Format != "" {
		parsed, err := namespace.FormatFrom(req.Format)
		if err != nil {
			writeError(h.l, w, err)
			return
		}
		format = parsed
	}
	spec, err := namespace.NewAppNamespace(mux.Vars(r)["app"], req.Name, format, req.IsPublic, req.Comment)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	appendPrefix := true
	if raw := r.URL.Query().Get("appendPrefix"); raw != "" {
		appendPrefix, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(h.l, w, errors.InvalidArgument(namespace.EntityAppNamespace, "appendPrefix must be a boolean"))
			return
		}
	}

	created, err := h.appNamespaces.Create(r.Context(), spec, appendPrefix)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppNamespaceResponse(created))
}

func (h *NamespaceHandler) GetAppNamespace(w http.ResponseWriter, r *http.Request) {
	appID, name, err := appNamespaceVars(r)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	spec, err := h.appNamespaces.Get(r.Context(), appID, name)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppNamespaceResponse(spec))
}

func (h *NamespaceHandler) DeleteAppNamespace(w http.ResponseWriter, r *http.Request) {
	appID, name, err := appNamespaceVars(r)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	deleted, err := h.appNamespaces.Delete(r.Context(), appID, name)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppNamespaceResponse(deleted))
}

func (h *NamespaceHandler) ListNamespaces(w http.ResponseWriter, r *http.Request) {
	appID, env, cluster, err := scopeVars(r)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	namespaces, err := h.namespaces.List(r.Context(), appID, env, cluster)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	responses := make([]namespaceResponse, 0, len(namespaces))
	for _, ns := range namespaces {
		if !h.perms.CanRead(r.Context(), appID, env, cluster, ns.Name()) {
			ns.HideItems()
		}
		responses = append(responses, toNamespaceResponse(ns))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *NamespaceHandler) GetNamespace(w http.ResponseWriter, r *http.Request) {
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

	ns, err := h.namespaces.Get(r.Context(), appID, env, cluster, name)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	if !h.perms.CanRead(r.Context(), appID, env, cluster, name) {
		ns.HideItems()
	}
	writeJSON(w, http.StatusOK, toNamespaceResponse(ns))
}

func (h *NamespaceHandler) GetAssociatedPublicNamespace(w http.ResponseWriter, r *http.Request) {
	env, err := namespace.EnvironmentFrom(mux.Vars(r)["env"])
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	cluster, err := namespace.ClusterNameFrom(mux.Vars(r)["cluster"])
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	name, err := namespace.NameFrom(mux.Vars(r)["name"])
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	ns, err := h.namespaces.AssociatedPublicNamespace(r.Context(), env, cluster, name)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNamespaceResponse(ns))
}

func (h *NamespaceHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	appID, name, err := appNamespaceVars(r)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	usages, err := h.namespaces.Usage(r.Context(), appID, name)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	writeJSON(w, http.StatusOK, usages)
}

func (h *NamespaceHandler) GetLinkedUsage(w http.ResponseWriter, r *http.Request) {
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

	usage, err := h.namespaces.UsageByEnv(r.Context(), appID, name, env, cluster)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

func (h *NamespaceHandler) DeleteLinkedNamespace(w http.ResponseWriter, r *http.Request) {
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

	if err := h.namespaces.DeleteLinked(r.Context(), appID, env, cluster, name); err != nil {
		writeError(h.l, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NamespaceHandler) ListPublicInstances(w http.ResponseWriter, r *http.Request) {
	env, err := namespace.EnvironmentFrom(mux.Vars(r)["env"])
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	name, err := namespace.NameFrom(mux.Vars(r)["publicName"])
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	page, size, err := pagination(r)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	instances, err := h.namespaces.PublicInstances(r.Context(), env, name, page, size)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	responses := make([]namespaceResponse, 0, len(instances))
	for _, ns := range instances {
		responses = append(responses, toNamespaceResponse(ns))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *NamespaceHandler) GetMissingNamespaces(w http.ResponseWriter, r *http.Request) {
	appID, env, cluster, err := scopeVars(r)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	missing, err := h.reconciler.ComputeMissing(r.Context(), appID, env, cluster)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	writeJSON(w, http.StatusOK, missingNamespacesResponse{Missing: missing})
}

func (h *NamespaceHandler) CreateMissingNamespaces(w http.ResponseWriter, r *http.Request) {
	appID, env, cluster, err := scopeVars(r)
	if err != nil {
		writeError(h.l, w, err)
		return
	}

	result, err := h.provisioner.CreateMissing(r.Context(), appID, env, cluster)
	if err != nil {
		writeError(h.l, w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func appNamespaceVars(r *http.Request) (namespace.AppID, namespace.Name, error) {
	appID, err := namespace.AppIDFrom(mux.Vars(r)["app"])
	if err != nil {
		return "", "", err
	}
	name, err := namespace.NameFrom(mux.Vars(r)["name"])
	if err != nil {
		return "", "", err
	}
	return appID, name, nil
}

func scopeVars(r *http.Request) (namespace.AppID, namespace.Environment, namespace.ClusterName, error) {
	vars := mux.Vars(r)
	appID, err := namespace.AppIDFrom(vars["app"])
	if err != nil {
		return "", "", "", err
	}
	env, err := namespace.EnvironmentFrom(vars["env"])
	if err != nil {
		return "", "", "", err
	}
	cluster, err := namespace.ClusterNameFrom(vars["cluster"])
	if err != nil {
		return "", "", "", err
	}
	return appID, env, cluster, nil
}

const (
	defaultPage     = 0
	defaultPageSize = 10
)

func pagination(r *http.Request) (int, int, error) {
	query := r.URL.Query()
	page := defaultPage
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errors.InvalidArgument(namespace.EntityNamespace, "page must be an integer")
		}
		page = parsed
	}
	size := defaultPageSize
	if raw := query.Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errors.InvalidArgument(namespace.EntityNamespace, "size must be an integer")
		}
		size = parsed
	}
	return page, size, nil
}

func NewNamespaceHandler(l log.Logger, appNamespaces AppNamespaceService, namespaces NamespaceService,
	reconciler ReconcileService, provisioner ProvisionService, perms ItemPermissionChecker,
) *NamespaceHandler {
	return &NamespaceHandler{
		l:             l,
		appNamespaces: appNamespaces,
		namespaces:    namespaces,
		reconciler:    reconciler,
		provisioner:   provisioner,
		perms:         perms,
	}
}

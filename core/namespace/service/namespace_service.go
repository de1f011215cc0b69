package service

import (
	"context"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

const defaultCluster = "default"

type EnvironmentStore interface {
	ListNamespaces(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName) ([]*namespace.Namespace, error)
	GetNamespace(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName, name namespace.Name) (*namespace.Namespace, error)
	DeleteNamespace(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName, name namespace.Name) error
	ListPublicInstances(ctx context.Context, env namespace.Environment, name namespace.Name, page, size int) ([]*namespace.Namespace, error)
	CountInstances(ctx context.Context, env namespace.Environment, name namespace.Name) (int, error)
}

type PublicDeclarationGetter interface {
	GetPublicByName(ctx context.Context, name namespace.Name) (*namespace.AppNamespace, error)
}

type NamespaceService struct {
	store    EnvironmentStore
	metadata PublicDeclarationGetter

	environments []namespace.Environment
}

func (ns NamespaceService) List(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName) ([]*namespace.Namespace, error) {
	return ns.store.ListNamespaces(ctx, env, appID, cluster)
}

func (ns NamespaceService) Get(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) (*namespace.Namespace, error) {
	return ns.store.GetNamespace(ctx, env, appID, cluster, name)
}

// AssociatedPublicNamespace resolves the owning application's instance
// of a public declaration that an app consumes via association. Falls
// back to the owner's default cluster when the requested cluster has no
// instance of its own.
func (ns NamespaceService) AssociatedPublicNamespace(ctx context.Context, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) (*namespace.Namespace, error) {
	declaration, err := ns.metadata.GetPublicByName(ctx, name)
	if err != nil {
		return nil, err
	}

	instance, err := ns.store.GetNamespace(ctx, env, declaration.AppID(), cluster, name)
	if err == nil {
		return instance, nil
	}
	if !errors.IsErrorType(err, errors.ErrNotFound) {
		return nil, err
	}
	return ns.store.GetNamespace(ctx, env, declaration.AppID(), defaultCluster, name)
}

// PublicInstances pages through the instances of a public declaration
// inside one environment.
func (ns NamespaceService) PublicInstances(ctx context.Context, env namespace.Environment, name namespace.Name, page, size int) ([]*namespace.Namespace, error) {
	if page < 0 || size <= 0 {
		return nil, errors.InvalidArgument(namespace.EntityNamespace, "page must be >= 0 and size > 0")
	}
	return ns.store.ListPublicInstances(ctx, env, name, page, size)
}

// UsageByEnv derives the usage view for one (env, cluster) scope.
func (ns NamespaceService) UsageByEnv(ctx context.Context, appID namespace.AppID, name namespace.Name, env namespace.Environment, cluster namespace.ClusterName) (namespace.Usage, error) {
	usage := namespace.Usage{
		AppID:       appID,
		Name:        name,
		Environment: env,
		Cluster:     cluster,
	}

	instance, err := ns.store.GetNamespace(ctx, env, appID, cluster, name)
	if err != nil && !errors.IsErrorType(err, errors.ErrNotFound) {
		return namespace.Usage{}, err
	}

	if instance != nil {
		usage.InstanceCount = 1
		if instance.IsPublic() {
			linked, err := ns.store.CountInstances(ctx, env, name)
			if err != nil {
				return namespace.Usage{}, err
			}
			if linked > 0 {
				usage.LinkedCount = linked - 1
			}
		}
	}
	return usage, nil
}

// Usage derives the usage view across every configured environment,
// checked against the default cluster.
func (ns NamespaceService) Usage(ctx context.Context, appID namespace.AppID, name namespace.Name) ([]namespace.Usage, error) {
	usages := make([]namespace.Usage, 0, len(ns.environments))
	for _, env := range ns.environments {
		usage, err := ns.UsageByEnv(ctx, appID, name, env, defaultCluster)
		if err != nil {
			return nil, err
		}
		usages = append(usages, usage)
	}
	return usages, nil
}

// DeleteLinked removes an associated (linked) namespace instance from
// one (env, cluster). Declaration-level deletion stays with the
// app-namespace service.
func (ns NamespaceService) DeleteLinked(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) error {
	if _, err := ns.store.GetNamespace(ctx, env, appID, cluster, name); err != nil {
		return err
	}
	return ns.store.DeleteNamespace(ctx, env, appID, cluster, name)
}

func NewNamespaceService(store EnvironmentStore, metadata PublicDeclarationGetter, environments []namespace.Environment) *NamespaceService {
	return &NamespaceService{
		store:        store,
		metadata:     metadata,
		environments: environments,
	}
}

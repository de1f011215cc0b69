package envstore

import (
	"context"

	"github.com/odpf/meridian/config"
	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

// Registry resolves an environment name to its store client. The set of
// known environments is fixed at startup from server configuration.
type Registry struct {
	clients map[namespace.Environment]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: map[namespace.Environment]*Client{},
	}
}

func (r *Registry) Register(env namespace.Environment, client *Client) error {
	if _, ok := r.clients[env]; ok {
		return errors.AlreadyExists(EntityEnvStore, "environment "+env.String()+" is already registered")
	}
	r.clients[env] = client
	return nil
}

// Environments returns the registered environment names.
func (r *Registry) Environments() []namespace.Environment {
	envs := make([]namespace.Environment, 0, len(r.clients))
	for env := range r.clients {
		envs = append(envs, env)
	}
	return envs
}

// NewRegistryFromConfigs builds the registry from the configured
// environment blocks, collecting every invalid block so the operator
// sees all of them at once.
func NewRegistryFromConfigs(confs []config.EnvironmentConfig) (*Registry, error) {
	registry := NewRegistry()
	me := errors.NewMultiError("invalid environment configuration")
	for _, conf := range confs {
		env, err := namespace.EnvironmentFrom(conf.Name)
		if err != nil {
			me.Append(err)
			continue
		}
		client, err := NewClient(env, conf.Config)
		if err != nil {
			me.Append(err)
			continue
		}
		me.Append(registry.Register(env, client))
	}
	if err := errors.MultiToError(me); err != nil {
		return nil, err
	}
	return registry, nil
}

func (r *Registry) resolve(env namespace.Environment) (*Client, error) {
	client, ok := r.clients[env]
	if !ok {
		return nil, errors.InvalidArgument(EntityEnvStore, "environment "+env.String()+" is not configured")
	}
	return client, nil
}

func (r *Registry) ListAppNamespaces(ctx context.Context, env namespace.Environment, appID namespace.AppID) ([]*namespace.AppNamespace, error) {
	client, err := r.resolve(env)
	if err != nil {
		return nil, err
	}
	return client.ListAppNamespaces(ctx, appID)
}

func (r *Registry) CreateAppNamespace(ctx context.Context, env namespace.Environment, spec *namespace.AppNamespace) error {
	client, err := r.resolve(env)
	if err != nil {
		return err
	}
	return client.CreateAppNamespace(ctx, spec)
}

func (r *Registry) ListClusters(ctx context.Context, env namespace.Environment, appID namespace.AppID) ([]namespace.ClusterName, error) {
	client, err := r.resolve(env)
	if err != nil {
		return nil, err
	}
	return client.ListClusters(ctx, appID)
}

func (r *Registry) ListNamespaces(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName) ([]*namespace.Namespace, error) {
	client, err := r.resolve(env)
	if err != nil {
		return nil, err
	}
	return client.ListNamespaces(ctx, appID, cluster)
}

func (r *Registry) GetNamespace(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName, name namespace.Name) (*namespace.Namespace, error) {
	client, err := r.resolve(env)
	if err != nil {
		return nil, err
	}
	return client.GetNamespace(ctx, appID, cluster, name)
}

func (r *Registry) DeleteNamespace(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName, name namespace.Name) error {
	client, err := r.resolve(env)
	if err != nil {
		return err
	}
	return client.DeleteNamespace(ctx, appID, cluster, name)
}

func (r *Registry) ListPublicInstances(ctx context.Context, env namespace.Environment, name namespace.Name, page, size int) ([]*namespace.Namespace, error) {
	client, err := r.resolve(env)
	if err != nil {
		return nil, err
	}
	return client.ListPublicInstances(ctx, name, page, size)
}

func (r *Registry) CountInstances(ctx context.Context, env namespace.Environment, name namespace.Name) (int, error) {
	client, err := r.resolve(env)
	if err != nil {
		return 0, err
	}
	return client.CountInstances(ctx, name)
}

package service

import (
	"context"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/treeset"
	"golang.org/x/sync/errgroup"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

type MetadataCatalog interface {
	GetAll(ctx context.Context, appID namespace.AppID) ([]*namespace.AppNamespace, error)
}

type EnvironmentCatalog interface {
	ListAppNamespaces(ctx context.Context, env namespace.Environment, appID namespace.AppID) ([]*namespace.AppNamespace, error)
	ListNamespaces(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName) ([]*namespace.Namespace, error)
}

type ReconcileService struct {
	metadata MetadataCatalog
	envs     EnvironmentCatalog
}

// ComputeMissing returns the declarations absent from the environment
// catalog plus the private declarations without a runtime instance
// under the cluster. Public declarations are only checked at the
// declaration level: shared namespaces never require a per-cluster
// instance of their own.
func (rs ReconcileService) ComputeMissing(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName) ([]namespace.Name, error) {
	var (
		declared     []*namespace.AppNamespace
		envDeclared  []*namespace.AppNamespace
		envInstances []*namespace.Namespace
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		declared, err = rs.metadata.GetAll(groupCtx, appID)
		return err
	})
	group.Go(func() error {
		var err error
		envDeclared, err = rs.envs.ListAppNamespaces(groupCtx, env, appID)
		return err
	})
	group.Go(func() error {
		var err error
		envInstances, err = rs.envs.ListNamespaces(groupCtx, env, appID, cluster)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, errors.Wrap(namespace.EntityNamespace, "unable to compute missing namespaces", err)
	}

	envDeclaredNames := hashset.New()
	for _, an := range envDeclared {
		envDeclaredNames.Add(an.Name().String())
	}
	instanceNames := hashset.New()
	for _, ns := range envInstances {
		instanceNames.Add(ns.Name().String())
	}

	missing := treeset.NewWithStringComparator()
	for _, an := range declared {
		name := an.Name().String()
		// declarations should be mirrored in every environment
		if !envDeclaredNames.Contains(name) {
			missing.Add(name)
		}
		// private ones additionally need a cluster instance
		if !an.IsPublic() && !instanceNames.Contains(name) {
			missing.Add(name)
		}
	}

	names := make([]namespace.Name, 0, missing.Size())
	for _, v := range missing.Values() {
		names = append(names, namespace.Name(v.(string)))
	}
	return names, nil
}

func NewReconcileService(metadata MetadataCatalog, envs EnvironmentCatalog) *ReconcileService {
	return &ReconcileService{
		metadata: metadata,
		envs:     envs,
	}
}

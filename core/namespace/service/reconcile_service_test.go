package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/core/namespace/service"
)

func TestReconcileService(t *testing.T) {
	ctx := context.Background()
	appID := namespace.AppID("orderservice")
	env := namespace.Environment("dev")
	cluster := namespace.ClusterName("default")

	dbYML, _ := namespace.NewAppNamespace("orderservice", "db.yml", namespace.FormatYML, false, "")
	common, _ := namespace.NewAppNamespace("orderservice", "common", namespace.FormatProperties, true, "")

	t.Run("ComputeMissing", func(t *testing.T) {
		t.Run("flags private declarations without a cluster instance", func(t *testing.T) {
			metadata := new(metadataCatalog)
			metadata.On("GetAll", mock.Anything, appID).Return([]*namespace.AppNamespace{dbYML, common}, nil)
			defer metadata.AssertExpectations(t)

			envs := new(environmentCatalog)
			envs.On("ListAppNamespaces", mock.Anything, env, appID).
				Return([]*namespace.AppNamespace{dbYML, common}, nil)
			envs.On("ListNamespaces", mock.Anything, env, appID, cluster).
				Return([]*namespace.Namespace{}, nil)
			defer envs.AssertExpectations(t)

			reconciler := service.NewReconcileService(metadata, envs)
			missing, err := reconciler.ComputeMissing(ctx, appID, env, cluster)

			assert.Nil(t, err)
			assert.Equal(t, []namespace.Name{"db.yml"}, missing)
		})
		t.Run("flags declarations absent from the environment catalog", func(t *testing.T) {
			metadata := new(metadataCatalog)
			metadata.On("GetAll", mock.Anything, appID).Return([]*namespace.AppNamespace{dbYML, common}, nil)
			defer metadata.AssertExpectations(t)

			instance, _ := namespace.NewNamespace("orderservice", "dev", "default", "db.yml", namespace.FormatYML, false, nil)
			envs := new(environmentCatalog)
			envs.On("ListAppNamespaces", mock.Anything, env, appID).
				Return([]*namespace.AppNamespace{dbYML}, nil)
			envs.On("ListNamespaces", mock.Anything, env, appID, cluster).
				Return([]*namespace.Namespace{instance}, nil)
			defer envs.AssertExpectations(t)

			reconciler := service.NewReconcileService(metadata, envs)
			missing, err := reconciler.ComputeMissing(ctx, appID, env, cluster)

			assert.Nil(t, err)
			assert.Equal(t, []namespace.Name{"common"}, missing)
		})
		t.Run("public declarations never require a cluster instance", func(t *testing.T) {
			metadata := new(metadataCatalog)
			metadata.On("GetAll", mock.Anything, appID).Return([]*namespace.AppNamespace{common}, nil)
			defer metadata.AssertExpectations(t)

			envs := new(environmentCatalog)
			envs.On("ListAppNamespaces", mock.Anything, env, appID).
				Return([]*namespace.AppNamespace{common}, nil)
			envs.On("ListNamespaces", mock.Anything, env, appID, cluster).
				Return([]*namespace.Namespace{}, nil)
			defer envs.AssertExpectations(t)

			reconciler := service.NewReconcileService(metadata, envs)
			missing, err := reconciler.ComputeMissing(ctx, appID, env, cluster)

			assert.Nil(t, err)
			assert.Empty(t, missing)
		})
		t.Run("returns empty set when nothing is declared", func(t *testing.T) {
			metadata := new(metadataCatalog)
			metadata.On("GetAll", mock.Anything, appID).Return([]*namespace.AppNamespace{}, nil)
			defer metadata.AssertExpectations(t)

			envs := new(environmentCatalog)
			envs.On("ListAppNamespaces", mock.Anything, env, appID).
				Return([]*namespace.AppNamespace{}, nil)
			envs.On("ListNamespaces", mock.Anything, env, appID, cluster).
				Return([]*namespace.Namespace{}, nil)
			defer envs.AssertExpectations(t)

			reconciler := service.NewReconcileService(metadata, envs)
			missing, err := reconciler.ComputeMissing(ctx, appID, env, cluster)

			assert.Nil(t, err)
			assert.Empty(t, missing)
		})
		t.Run("returns the union sorted and without duplicates", func(t *testing.T) {
			metadata := new(metadataCatalog)
			metadata.On("GetAll", mock.Anything, appID).Return([]*namespace.AppNamespace{dbYML, common}, nil)
			defer metadata.AssertExpectations(t)

			envs := new(environmentCatalog)
			envs.On("ListAppNamespaces", mock.Anything, env, appID).
				Return([]*namespace.AppNamespace{}, nil)
			envs.On("ListNamespaces", mock.Anything, env, appID, cluster).
				Return([]*namespace.Namespace{}, nil)
			defer envs.AssertExpectations(t)

			reconciler := service.NewReconcileService(metadata, envs)
			missing, err := reconciler.ComputeMissing(ctx, appID, env, cluster)

			assert.Nil(t, err)
			assert.Equal(t, []namespace.Name{"common", "db.yml"}, missing)
		})
		t.Run("returns no partial result when a catalog read fails", func(t *testing.T) {
			metadata := new(metadataCatalog)
			metadata.On("GetAll", mock.Anything, appID).Return([]*namespace.AppNamespace{dbYML}, nil)

			envs := new(environmentCatalog)
			envs.On("ListAppNamespaces", mock.Anything, env, appID).
				Return(nil, errors.New("dev catalog unreachable"))
			envs.On("ListNamespaces", mock.Anything, env, appID, cluster).
				Return([]*namespace.Namespace{}, nil).Maybe()

			reconciler := service.NewReconcileService(metadata, envs)
			missing, err := reconciler.ComputeMissing(ctx, appID, env, cluster)

			assert.NotNil(t, err)
			assert.Nil(t, missing)
		})
	})
}

type metadataCatalog struct {
	mock.Mock
}

func (mc *metadataCatalog) GetAll(ctx context.Context, appID namespace.AppID) ([]*namespace.AppNamespace, error) {
	args := mc.Called(ctx, appID)
	var res []*namespace.AppNamespace
	if args.Get(0) != nil {
		res = args.Get(0).([]*namespace.AppNamespace)
	}
	return res, args.Error(1)
}

type environmentCatalog struct {
	mock.Mock
}

func (ec *environmentCatalog) ListAppNamespaces(ctx context.Context, env namespace.Environment, appID namespace.AppID) ([]*namespace.AppNamespace, error) {
	args := ec.Called(ctx, env, appID)
	var res []*namespace.AppNamespace
	if args.Get(0) != nil {
		res = args.Get(0).([]*namespace.AppNamespace)
	}
	return res, args.Error(1)
}

func (ec *environmentCatalog) ListNamespaces(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName) ([]*namespace.Namespace, error) {
	args := ec.Called(ctx, env, appID, cluster)
	var res []*namespace.Namespace
	if args.Get(0) != nil {
		res = args.Get(0).([]*namespace.Namespace)
	}
	return res, args.Error(1)
}

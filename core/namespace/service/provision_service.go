package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/kushsharma/parallel"
	"github.com/raystack/salt/log"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/telemetry"
)

const (
	ConcurrentTicketPerSec = 5
	ConcurrentLimit        = 10
)

type MissingNamespaceComputer interface {
	ComputeMissing(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName) ([]namespace.Name, error)
}

type DeclarationGetter interface {
	GetByName(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error)
}

type EnvironmentProvisioner interface {
	CreateAppNamespace(ctx context.Context, env namespace.Environment, appNamespace *namespace.AppNamespace) error
}

type ProvisionFailure struct {
	Name  namespace.Name `json:"namespaceName"`
	Cause string         `json:"cause"`
}

type ProvisionResult struct {
	Created []namespace.Name   `json:"created"`
	Failed  []ProvisionFailure `json:"failed"`
}

type ProvisionService struct {
	l log.Logger

	reconciler  MissingNamespaceComputer
	metadata    DeclarationGetter
	provisioner EnvironmentProvisioner
}

// CreateMissing recomputes the missing set and provisions every member
// in the target environment. Creation failures are collected per
// namespace, the batch never aborts on one of them. Safe to call
// repeatedly: once the environment catalog reflects the created
// namespaces the missing set is empty.
func (ps ProvisionService) CreateMissing(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName) (ProvisionResult, error) {
	missing, err := ps.reconciler.ComputeMissing(ctx, appID, env, cluster)
	if err != nil {
		return ProvisionResult{}, err
	}

	runner := parallel.NewRunner(parallel.WithLimit(ConcurrentLimit), parallel.WithTicket(ConcurrentTicketPerSec))
	for _, name := range missing {
		runner.Add(func(missingName namespace.Name) func() (interface{}, error) {
			return func() (interface{}, error) {
				declaration, err := ps.metadata.GetByName(ctx, appID, missingName)
				if err != nil {
					return nil, err
				}
				if err := ps.provisioner.CreateAppNamespace(ctx, env, declaration); err != nil {
					return nil, err
				}
				return missingName, nil
			}
		}(name))
	}

	result := ProvisionResult{
		Created: []namespace.Name{},
		Failed:  []ProvisionFailure{},
	}
	var errorSet error
	for i, state := range runner.Run() {
		if state.Err != nil {
			errorSet = multierror.Append(errorSet, state.Err)
			result.Failed = append(result.Failed, ProvisionFailure{
				Name:  missing[i],
				Cause: state.Err.Error(),
			})
			telemetry.NewCounter("namespace_provision_failed_total", nil).Inc()
			continue
		}
		result.Created = append(result.Created, state.Val.(namespace.Name))
		telemetry.NewCounter("namespace_provision_created_total", nil).Inc()
	}

	if errorSet != nil {
		ps.l.Error(fmt.Sprintf("provisioning for app %s in env %s finished with failures", appID, env), "errors", errorSet.Error())
	}
	return result, nil
}

func NewProvisionService(l log.Logger, reconciler MissingNamespaceComputer, metadata DeclarationGetter, provisioner EnvironmentProvisioner) *ProvisionService {
	return &ProvisionService{
		l:           l,
		reconciler:  reconciler,
		metadata:    metadata,
		provisioner: provisioner,
	}
}

package namespace

import (
	"github.com/odpf/meridian/internal/errors"
)

const EntityEnvironment = "environment"

// Environment names one independently-operated runtime config store.
// The set of valid environments is operator configuration, not a closed
// enumeration; resolution against the configured set happens in the
// environment store registry.
type Environment string

func EnvironmentFrom(name string) (Environment, error) {
	if name == "" {
		return "", errors.InvalidArgument(EntityEnvironment, "environment name is empty")
	}
	return Environment(name), nil
}

func (e Environment) String() string {
	return string(e)
}

type ClusterName string

func ClusterNameFrom(name string) (ClusterName, error) {
	if name == "" {
		return "", errors.InvalidArgument(EntityNamespace, "cluster name is empty")
	}
	return ClusterName(name), nil
}

func (c ClusterName) String() string {
	return string(c)
}

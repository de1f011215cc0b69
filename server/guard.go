package server

import (
	"context"

	"github.com/odpf/meridian/core/namespace"
)

// namespaceGuard denies item access for namespaces the operator marked
// hidden. Everything else is readable; finer-grained role checks sit in
// front of the server.
type namespaceGuard struct {
	hidden map[namespace.Name]struct{}
}

func newNamespaceGuard(hidden []namespace.Name) *namespaceGuard {
	set := make(map[namespace.Name]struct{}, len(hidden))
	for _, name := range hidden {
		set[name] = struct{}{}
	}
	return &namespaceGuard{hidden: set}
}

func (g *namespaceGuard) CanRead(_ context.Context, _ namespace.AppID, _ namespace.Environment, _ namespace.ClusterName, name namespace.Name) bool {
	_, isHidden := g.hidden[name]
	return !isHidden
}

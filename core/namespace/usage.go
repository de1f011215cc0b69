package namespace

// Usage is a read-only view of how a declaration is used inside one
// environment. Derived on demand, never stored.
type Usage struct {
	AppID       AppID       `json:"appId"`
	Name        Name        `json:"namespaceName"`
	Environment Environment `json:"env"`
	Cluster     ClusterName `json:"clusterName"`

	// InstanceCount is the number of provisioned instances of the
	// declaration in the (env, cluster) scope of the query.
	InstanceCount int `json:"instanceCount"`
	// LinkedCount is the number of namespaces in other applications
	// associated to this declaration, non-zero only for public ones.
	LinkedCount int `json:"linkedCount"`
}

package namespace

import (
	"github.com/odpf/meridian/internal/errors"
)

const EntityNamespace = "namespace"

// Item is a single configuration entry. Order of items inside a
// namespace is significant and must survive serialization.
type Item struct {
	Key     string
	Value   string
	Comment string
}

// Namespace is a provisioned instance of a declaration inside one
// (environment, cluster) pair, together with its configuration items.
type Namespace struct {
	appID   AppID
	env     Environment
	cluster ClusterName
	name    Name
	format  Format

	public bool
	items  []Item
}

func (n *Namespace) AppID() AppID {
	return n.appID
}

func (n *Namespace) Environment() Environment {
	return n.env
}

func (n *Namespace) Cluster() ClusterName {
	return n.cluster
}

func (n *Namespace) Name() Name {
	return n.name
}

func (n *Namespace) Format() Format {
	return n.format
}

func (n *Namespace) IsPublic() bool {
	return n.public
}

// Items returns a copy of the configuration items in stored order.
func (n *Namespace) Items() []Item {
	items := make([]Item, len(n.items))
	copy(items, n.items)
	return items
}

// HideItems drops the item values, used when the requesting principal
// may see the namespace but not its content.
func (n *Namespace) HideItems() {
	n.items = nil
}

func NewNamespace(appID string, env Environment, cluster, name string, format Format, public bool, items []Item) (*Namespace, error) {
	id, err := AppIDFrom(appID)
	if err != nil {
		return nil, err
	}
	if env == "" {
		return nil, errors.InvalidArgument(EntityNamespace, "environment is empty")
	}
	clusterName, err := ClusterNameFrom(cluster)
	if err != nil {
		return nil, err
	}
	nsName, err := NameFrom(name)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatProperties
	}

	return &Namespace{
		appID:   id,
		env:     env,
		cluster: clusterName,
		name:    nsName,
		format:  format,
		public:  public,
		items:   items,
	}, nil
}

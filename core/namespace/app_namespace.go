package namespace

import (
	"regexp"

	"github.com/odpf/meridian/internal/errors"
)

const EntityAppNamespace = "appnamespace"

var namespaceNameRegex = regexp.MustCompile(`^[0-9a-zA-Z_.-]+$`)

type Name string

func NameFrom(name string) (Name, error) {
	if name == "" {
		return "", errors.InvalidArgument(EntityAppNamespace, "namespace name is empty")
	}
	if !namespaceNameRegex.MatchString(name) {
		return "", errors.InvalidArgument(EntityAppNamespace,
			"namespace name "+name+" should only contain digits, alphabets, '.', '-' and '_'")
	}
	return Name(name), nil
}

func (n Name) String() string {
	return string(n)
}

type AppID string

func AppIDFrom(id string) (AppID, error) {
	if id == "" {
		return "", errors.InvalidArgument(EntityAppNamespace, "app id is empty")
	}
	return AppID(id), nil
}

func (a AppID) String() string {
	return string(a)
}

// AppNamespace is the metadata-catalog declaration of a namespace owned
// by an application. Public declarations are shared across applications
// without a per-cluster instance; private ones require one.
type AppNamespace struct {
	appID  AppID
	name   Name
	format Format
	public bool

	comment string
}

func (a *AppNamespace) AppID() AppID {
	return a.appID
}

func (a *AppNamespace) Name() Name {
	return a.name
}

func (a *AppNamespace) Format() Format {
	return a.format
}

func (a *AppNamespace) IsPublic() bool {
	return a.public
}

func (a *AppNamespace) Comment() string {
	return a.comment
}

func NewAppNamespace(appID, name string, format Format, public bool, comment string) (*AppNamespace, error) {
	id, err := AppIDFrom(appID)
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

	return &AppNamespace{
		appID:   id,
		name:    nsName,
		format:  format,
		public:  public,
		comment: comment,
	}, nil
}

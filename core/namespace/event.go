package namespace

// Bus topics for app-namespace lifecycle notifications. Downstream
// listeners (role cleanup, UI refresh) subscribe to these outside the
// core.
const (
	EventAppNamespaceCreated = "appnamespace.created"
	EventAppNamespaceDeleted = "appnamespace.deleted"
)

type AppNamespaceEvent struct {
	AppID  AppID
	Name   Name
	Public bool
}

func NewAppNamespaceEvent(appNamespace *AppNamespace) AppNamespaceEvent {
	return AppNamespaceEvent{
		AppID:  appNamespace.AppID(),
		Name:   appNamespace.Name(),
		Public: appNamespace.IsPublic(),
	}
}

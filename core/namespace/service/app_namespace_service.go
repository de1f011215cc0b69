package service

import (
	"context"
	"strings"

	"github.com/raystack/salt/log"

	"github.com/odpf/meridian/core/bus"
	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

type AppNamespaceRepository interface {
	Save(ctx context.Context, appNamespace *namespace.AppNamespace) error
	GetByName(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error)
	GetAll(ctx context.Context, appID namespace.AppID) ([]*namespace.AppNamespace, error)
	GetAllPublic(ctx context.Context) ([]*namespace.AppNamespace, error)
	GetPublicByName(ctx context.Context, name namespace.Name) (*namespace.AppNamespace, error)
	Delete(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error)
}

type EventPoster interface {
	Post(event string, data interface{}) error
}

type AppNamespaceService struct {
	l log.Logger

	repo   AppNamespaceRepository
	poster EventPoster
}

func (as AppNamespaceService) GetAllPublic(ctx context.Context) ([]*namespace.AppNamespace, error) {
	return as.repo.GetAllPublic(ctx)
}

func (as AppNamespaceService) GetAll(ctx context.Context, appID namespace.AppID) ([]*namespace.AppNamespace, error) {
	return as.repo.GetAll(ctx, appID)
}

func (as AppNamespaceService) Get(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error) {
	return as.repo.GetByName(ctx, appID, name)
}

// Create stores a new declaration in the metadata catalog and posts a
// creation notification. Private declarations get the owning app id as
// a name prefix when appendPrefix is set, mirroring how shared and
// app-scoped names are kept apart.
func (as AppNamespaceService) Create(ctx context.Context, appNamespace *namespace.AppNamespace, appendPrefix bool) (*namespace.AppNamespace, error) {
	toSave := appNamespace
	if appendPrefix && !appNamespace.IsPublic() {
		prefix := appNamespace.AppID().String() + "."
		if !strings.HasPrefix(appNamespace.Name().String(), prefix) {
			prefixed, err := namespace.NewAppNamespace(
				appNamespace.AppID().String(),
				prefix+appNamespace.Name().String(),
				appNamespace.Format(),
				appNamespace.IsPublic(),
				appNamespace.Comment(),
			)
			if err != nil {
				return nil, err
			}
			toSave = prefixed
		}
	}

	existing, err := as.repo.GetByName(ctx, toSave.AppID(), toSave.Name())
	if err != nil && !errors.IsErrorType(err, errors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.AlreadyExists(namespace.EntityAppNamespace,
			"appnamespace "+toSave.Name().String()+" already exists for app "+toSave.AppID().String())
	}

	if err := as.repo.Save(ctx, toSave); err != nil {
		return nil, err
	}

	as.postEvent(namespace.EventAppNamespaceCreated, toSave)
	return toSave, nil
}

// Delete removes the declaration and posts a deletion notification for
// downstream listeners.
func (as AppNamespaceService) Delete(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error) {
	deleted, err := as.repo.Delete(ctx, appID, name)
	if err != nil {
		return nil, err
	}

	as.postEvent(namespace.EventAppNamespaceDeleted, deleted)
	return deleted, nil
}

func (as AppNamespaceService) postEvent(topic string, appNamespace *namespace.AppNamespace) {
	err := as.poster.Post(topic, namespace.NewAppNamespaceEvent(appNamespace))
	if err != nil && !errors.Is(err, bus.ErrNotFound) {
		as.l.Error("unable to post "+topic, "namespace", appNamespace.Name().String(), "error", err)
	}
}

func NewAppNamespaceService(l log.Logger, repo AppNamespaceRepository, poster EventPoster) *AppNamespaceService {
	return &AppNamespaceService{
		l:      l,
		repo:   repo,
		poster: poster,
	}
}

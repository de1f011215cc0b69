package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/raystack/salt/log"
	"golang.org/x/sync/errgroup"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
	"github.com/odpf/meridian/internal/telemetry"
)

// entryBuffer bounds how many serialized namespaces can be in flight
// between enumeration and the archive writer.
const entryBuffer = 8

type Entry struct {
	Path    string
	Content []byte
}

type ApplicationLister interface {
	GetAllAppIDs(ctx context.Context) ([]namespace.AppID, error)
}

type CatalogBrowser interface {
	ListClusters(ctx context.Context, env namespace.Environment, appID namespace.AppID) ([]namespace.ClusterName, error)
	ListNamespaces(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName) ([]*namespace.Namespace, error)
}

// PermissionChecker is evaluated per namespace by an external
// collaborator; the pipeline only applies its verdict.
type PermissionChecker interface {
	CanRead(ctx context.Context, appID namespace.AppID, env namespace.Environment, cluster namespace.ClusterName, name namespace.Name) bool
}

type Pipeline struct {
	l log.Logger

	apps    ApplicationLister
	catalog CatalogBrowser
	perms   PermissionChecker
	hidden  map[namespace.Name]struct{}
}

// ArchiveName derives the timestamped download name of a bulk export.
func ArchiveName(now time.Time) string {
	return "meridian_config_export_" + now.Format("2006_0102_15_04_05") + ".zip"
}

// ExportAll streams one zip archive of every readable namespace across
// the requested environments into out. Enumeration and serialization
// run in a producer goroutine feeding a bounded channel; the archive
// writer consumes from it, so a closed transport stops the producer
// through the cancelled context instead of explicit plumbing. A
// namespace that fails to serialize is logged and skipped; only
// transport and archive failures abort the export.
func (p *Pipeline) ExportAll(ctx context.Context, out io.Writer, envs []namespace.Environment) error {
	if len(envs) == 0 {
		return errors.InvalidArgument(EntityExport, "no environments requested")
	}

	appIDs, err := p.apps.GetAllAppIDs(ctx)
	if err != nil {
		return errors.Wrap(EntityExport, "unable to list applications", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := make(chan Entry, entryBuffer)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(entries)
		return p.produce(groupCtx, envs, appIDs, entries)
	})

	archive := zip.NewWriter(out)
	var writeErr error
	for entry := range entries {
		file, err := archive.Create(entry.Path)
		if err == nil {
			_, err = file.Write(entry.Content)
		}
		if err != nil {
			writeErr = errors.InternalError(EntityExport, "unable to write archive entry "+entry.Path, err)
			cancel()
			break
		}
		telemetry.NewCounter("export_entries_written_total", nil).Inc()
	}
	for range entries {
		// unblock the producer when the archive write failed mid-stream
	}

	if err := group.Wait(); err != nil && writeErr == nil && !errors.Is(err, context.Canceled) {
		writeErr = err
	}
	if err := archive.Close(); err != nil && writeErr == nil {
		writeErr = errors.InternalError(EntityExport, "unable to finalize archive", err)
	}
	return writeErr
}

func (p *Pipeline) produce(ctx context.Context, envs []namespace.Environment, appIDs []namespace.AppID, entries chan<- Entry) error {
	for _, env := range envs {
		for _, appID := range appIDs {
			clusters, err := p.catalog.ListClusters(ctx, env, appID)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.l.Error("unable to list clusters, skipping app in env",
					"env", env.String(), "app", appID.String(), "error", err)
				telemetry.NewCounter("export_apps_skipped_total", nil).Inc()
				continue
			}
			for _, cluster := range clusters {
				if err := p.exportCluster(ctx, env, appID, cluster, entries); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *Pipeline) exportCluster(ctx context.Context, env namespace.Environment, appID namespace.AppID, cluster namespace.ClusterName, entries chan<- Entry) error {
	namespaces, err := p.catalog.ListNamespaces(ctx, env, appID, cluster)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.l.Error("unable to list namespaces, skipping cluster",
			"env", env.String(), "app", appID.String(), "cluster", cluster.String(), "error", err)
		telemetry.NewCounter("export_clusters_skipped_total", nil).Inc()
		return nil
	}

	for _, ns := range namespaces {
		if _, isHidden := p.hidden[ns.Name()]; isHidden {
			continue
		}
		if !p.perms.CanRead(ctx, appID, env, cluster, ns.Name()) {
			continue
		}

		content, err := Serialize(ns, ns.Format())
		if err != nil {
			p.l.Error("unable to serialize namespace, skipping",
				"env", env.String(), "app", appID.String(), "namespace", ns.Name().String(), "error", err)
			telemetry.NewCounter("export_namespaces_skipped_total", nil).Inc()
			continue
		}

		entry := Entry{
			Path:    fmt.Sprintf("%s/%s/%s/%s", env, appID, cluster, DeriveFileName(ns.Name())),
			Content: content,
		}
		select {
		case entries <- entry:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func NewPipeline(l log.Logger, apps ApplicationLister, catalog CatalogBrowser, perms PermissionChecker, hiddenNamespaces []namespace.Name) *Pipeline {
	hidden := make(map[namespace.Name]struct{}, len(hiddenNamespaces))
	for _, name := range hiddenNamespaces {
		hidden[name] = struct{}{}
	}
	return &Pipeline{
		l:       l,
		apps:    apps,
		catalog: catalog,
		perms:   perms,
		hidden:  hidden,
	}
}

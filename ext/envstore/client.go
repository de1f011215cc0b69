package envstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

const EntityEnvStore = "envstore"

// ClientConfig is the decoded per-environment connection block from the
// server configuration.
type ClientConfig struct {
	Host    string            `mapstructure:"host"`
	Headers map[string]string `mapstructure:"headers"`
}

// Client talks to the admin store of one environment over HTTP.
type Client struct {
	env    namespace.Environment
	config ClientConfig

	httpClient *http.Client
}

// NewClient initializes the accessor for one environment's admin store.
func NewClient(env namespace.Environment, raw map[string]interface{}) (*Client, error) {
	var conf ClientConfig
	if err := mapstructure.Decode(raw, &conf); err != nil {
		return nil, errors.InvalidArgument(EntityEnvStore, "error decoding config for environment "+env.String()+": "+err.Error())
	}
	if conf.Host == "" {
		return nil, errors.InvalidArgument(EntityEnvStore, "host is empty for environment "+env.String())
	}
	return &Client{
		env:        env,
		config:     conf,
		httpClient: http.DefaultClient,
	}, nil
}

type appNamespaceResponse struct {
	AppID    string `json:"appId"`
	Name     string `json:"name"`
	Format   string `json:"format"`
	IsPublic bool   `json:"isPublic"`
	Comment  string `json:"comment"`
}

type itemResponse struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Comment string `json:"comment"`
}

type namespaceResponse struct {
	AppID       string         `json:"appId"`
	ClusterName string         `json:"clusterName"`
	Name        string         `json:"namespaceName"`
	Format      string         `json:"format"`
	IsPublic    bool           `json:"isPublic"`
	Items       []itemResponse `json:"items"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (c *Client) ListAppNamespaces(ctx context.Context, appID namespace.AppID) ([]*namespace.AppNamespace, error) {
	var responses []appNamespaceResponse
	path := fmt.Sprintf("/apps/%s/appnamespaces", appID)
	if err := c.get(ctx, path, &responses); err != nil {
		return nil, err
	}

	specs := make([]*namespace.AppNamespace, 0, len(responses))
	for _, r := range responses {
		spec, err := toAppNamespace(r)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (c *Client) CreateAppNamespace(ctx context.Context, spec *namespace.AppNamespace) error {
	payload := appNamespaceResponse{
		AppID:    spec.AppID().String(),
		Name:     spec.Name().String(),
		Format:   spec.Format().String(),
		IsPublic: spec.IsPublic(),
		Comment:  spec.Comment(),
	}
	path := fmt.Sprintf("/apps/%s/appnamespaces", spec.AppID())
	return c.send(ctx, http.MethodPost, path, payload)
}

func (c *Client) ListClusters(ctx context.Context, appID namespace.AppID) ([]namespace.ClusterName, error) {
	var names []string
	path := fmt.Sprintf("/apps/%s/clusters", appID)
	if err := c.get(ctx, path, &names); err != nil {
		return nil, err
	}

	clusters := make([]namespace.ClusterName, 0, len(names))
	for _, name := range names {
		clusters = append(clusters, namespace.ClusterName(name))
	}
	return clusters, nil
}

func (c *Client) ListNamespaces(ctx context.Context, appID namespace.AppID, cluster namespace.ClusterName) ([]*namespace.Namespace, error) {
	var responses []namespaceResponse
	path := fmt.Sprintf("/apps/%s/clusters/%s/namespaces", appID, cluster)
	if err := c.get(ctx, path, &responses); err != nil {
		return nil, err
	}
	return c.toNamespaces(responses)
}

func (c *Client) GetNamespace(ctx context.Context, appID namespace.AppID, cluster namespace.ClusterName, name namespace.Name) (*namespace.Namespace, error) {
	var response namespaceResponse
	path := fmt.Sprintf("/apps/%s/clusters/%s/namespaces/%s", appID, cluster, name)
	if err := c.get(ctx, path, &response); err != nil {
		return nil, err
	}
	return c.toNamespace(response)
}

func (c *Client) DeleteNamespace(ctx context.Context, appID namespace.AppID, cluster namespace.ClusterName, name namespace.Name) error {
	path := fmt.Sprintf("/apps/%s/clusters/%s/namespaces/%s", appID, cluster, name)
	return c.send(ctx, http.MethodDelete, path, nil)
}

func (c *Client) ListPublicInstances(ctx context.Context, name namespace.Name, page, size int) ([]*namespace.Namespace, error) {
	var responses []namespaceResponse
	path := fmt.Sprintf("/appnamespaces/%s/namespaces?page=%d&size=%d", name, page, size)
	if err := c.get(ctx, path, &responses); err != nil {
		return nil, err
	}
	return c.toNamespaces(responses)
}

func (c *Client) CountInstances(ctx context.Context, name namespace.Name) (int, error) {
	var response countResponse
	path := fmt.Sprintf("/appnamespaces/%s/namespaces/count", name)
	if err := c.get(ctx, path, &response); err != nil {
		return 0, err
	}
	return response.Count, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Host+path, http.NoBody)
	if err != nil {
		return errors.InternalError(EntityEnvStore, "error constructing request", err)
	}
	request.Header.Set("Accept", "application/json")
	for key, value := range c.config.Headers {
		request.Header.Set(key, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Upstream(EntityEnvStore, "environment "+c.env.String()+" unreachable", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return errors.NotFound(EntityEnvStore, "resource "+path+" does not exist in environment "+c.env.String())
	}
	if response.StatusCode != http.StatusOK {
		return errors.Upstream(EntityEnvStore,
			fmt.Sprintf("unexpected status %s from environment %s", response.Status, c.env), nil)
	}

	decoder := json.NewDecoder(response.Body)
	if err := decoder.Decode(out); err != nil {
		return errors.Upstream(EntityEnvStore, "error decoding response from environment "+c.env.String(), err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload interface{}) error {
	var body io.Reader = http.NoBody
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.InternalError(EntityEnvStore, "error encoding request", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.config.Host+path, body)
	if err != nil {
		return errors.InternalError(EntityEnvStore, "error constructing request", err)
	}
	request.Header.Set("Content-Type", "application/json")
	for key, value := range c.config.Headers {
		request.Header.Set(key, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Upstream(EntityEnvStore, "environment "+c.env.String()+" unreachable", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return errors.NotFound(EntityEnvStore, "resource "+path+" does not exist in environment "+c.env.String())
	}
	if response.StatusCode >= http.StatusMultipleChoices {
		return errors.Upstream(EntityEnvStore,
			fmt.Sprintf("unexpected status %s from environment %s", response.Status, c.env), nil)
	}
	return nil
}

func (c *Client) toNamespaces(responses []namespaceResponse) ([]*namespace.Namespace, error) {
	specs := make([]*namespace.Namespace, 0, len(responses))
	for _, r := range responses {
		spec, err := c.toNamespace(r)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (c *Client) toNamespace(r namespaceResponse) (*namespace.Namespace, error) {
	format, err := namespace.FormatFrom(r.Format)
	if err != nil {
		return nil, errors.Wrap(EntityEnvStore, "invalid namespace record from environment "+c.env.String(), err)
	}
	items := make([]namespace.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, namespace.Item{
			Key:     item.Key,
			Value:   item.Value,
			Comment: item.Comment,
		})
	}
	return namespace.NewNamespace(r.AppID, c.env, r.ClusterName, r.Name, format, r.IsPublic, items)
}

func toAppNamespace(r appNamespaceResponse) (*namespace.AppNamespace, error) {
	format, err := namespace.FormatFrom(r.Format)
	if err != nil {
		return nil, err
	}
	return namespace.NewAppNamespace(r.AppID, r.Name, format, r.IsPublic, r.Comment)
}

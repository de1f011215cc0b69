package namespace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odpf/meridian/core/namespace"
)

func TestEntityNamespace(t *testing.T) {
	items := []namespace.Item{
		{Key: "timeout", Value: "30s", Comment: "request timeout"},
		{Key: "retries", Value: "3"},
	}

	t.Run("returns error when environment is empty", func(t *testing.T) {
		_, err := namespace.NewNamespace("orderservice", "", "default", "application", namespace.FormatProperties, false, items)

		assert.NotNil(t, err)
		assert.EqualError(t, err, "invalid argument for entity namespace: environment is empty")
	})
	t.Run("returns error when cluster is empty", func(t *testing.T) {
		_, err := namespace.NewNamespace("orderservice", "dev", "", "application", namespace.FormatProperties, false, items)

		assert.NotNil(t, err)
		assert.EqualError(t, err, "invalid argument for entity namespace: cluster name is empty")
	})
	t.Run("creates a namespace and preserves item order", func(t *testing.T) {
		ns, err := namespace.NewNamespace("orderservice", "dev", "default", "application", namespace.FormatProperties, false, items)

		assert.Nil(t, err)
		assert.Equal(t, "dev", ns.Environment().String())
		assert.Equal(t, "default", ns.Cluster().String())

		got := ns.Items()
		assert.Len(t, got, 2)
		assert.Equal(t, "timeout", got[0].Key)
		assert.Equal(t, "retries", got[1].Key)
	})
	t.Run("items getter returns a copy", func(t *testing.T) {
		ns, _ := namespace.NewNamespace("orderservice", "dev", "default", "application", namespace.FormatProperties, false, items)

		got := ns.Items()
		got[0].Value = "changed"

		assert.Equal(t, "30s", ns.Items()[0].Value)
	})
	t.Run("hide items drops the content", func(t *testing.T) {
		ns, _ := namespace.NewNamespace("orderservice", "dev", "default", "application", namespace.FormatProperties, false, items)

		ns.HideItems()

		assert.Empty(t, ns.Items())
	})
}

func TestFormat(t *testing.T) {
	t.Run("recognizes supported format tokens", func(t *testing.T) {
		for _, token := range []string{"properties", "xml", "json", "yml", "yaml", "txt"} {
			assert.True(t, namespace.IsValidFormat(token), token)
		}
	})
	t.Run("rejects unknown tokens", func(t *testing.T) {
		assert.False(t, namespace.IsValidFormat("toml"))
		assert.False(t, namespace.IsValidFormat(""))
	})
	t.Run("format from string is case insensitive", func(t *testing.T) {
		f, err := namespace.FormatFrom("YAML")

		assert.Nil(t, err)
		assert.Equal(t, namespace.FormatYAML, f)
	})
}

package export

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

const EntityExport = "export"

// contentItemKey is the single item under which whole-file formats
// keep their raw content.
const contentItemKey = "content"

// DeriveFileName keeps the namespace name as the file name when it
// already carries a recognized format suffix, and appends the default
// properties suffix otherwise. Names that predate suffix qualification
// stay stable this way.
func DeriveFileName(name namespace.Name) string {
	parts := strings.Split(name.String(), ".")
	if len(parts) <= 1 || !namespace.IsValidFormat(parts[len(parts)-1]) {
		return name.String() + "." + namespace.FormatProperties.String()
	}
	return name.String()
}

// Serialize renders the namespace items into the requested format.
// Every item appears exactly once in stored order; comments survive in
// formats that have a comment syntax and are dropped elsewhere.
func Serialize(ns *namespace.Namespace, format namespace.Format) ([]byte, error) {
	items := ns.Items()
	for _, item := range items {
		if item.Key == "" {
			return nil, errors.Serialization(EntityExport,
				"namespace "+ns.Name().String()+" has an item without a key")
		}
	}

	switch format {
	case namespace.FormatProperties:
		return serializeProperties(ns, items)
	case namespace.FormatJSON:
		return serializeJSON(items)
	case namespace.FormatYML, namespace.FormatYAML:
		return serializeYAML(ns, items)
	default:
		// whole-file formats carry their content under a single item
		if raw, ok := rawContent(items); ok {
			return raw, nil
		}
		return serializeProperties(ns, items)
	}
}

func rawContent(items []namespace.Item) ([]byte, bool) {
	if len(items) == 1 && items[0].Key == contentItemKey {
		return []byte(items[0].Value), true
	}
	return nil, false
}

func serializeProperties(ns *namespace.Namespace, items []namespace.Item) ([]byte, error) {
	var buf bytes.Buffer
	for _, item := range items {
		if strings.Contains(item.Key, "=") || strings.ContainsAny(item.Key, "\r\n") {
			return nil, errors.Serialization(EntityExport,
				"item key "+item.Key+" in namespace "+ns.Name().String()+" cannot be rendered as properties")
		}
		if strings.ContainsAny(item.Value, "\r\n") {
			return nil, errors.Serialization(EntityExport,
				"item "+item.Key+" in namespace "+ns.Name().String()+" has a multi-line value")
		}
		if item.Comment != "" {
			buf.WriteString("# " + item.Comment + "\n")
		}
		buf.WriteString(item.Key + " = " + item.Value + "\n")
	}
	return buf.Bytes(), nil
}

func serializeJSON(items []namespace.Item) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, item := range items {
		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, errors.InternalError(EntityExport, "unable to render item key", err)
		}
		value, err := json.Marshal(item.Value)
		if err != nil {
			return nil, errors.InternalError(EntityExport, "unable to render item value", err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if i != len(items)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func serializeYAML(ns *namespace.Namespace, items []namespace.Item) ([]byte, error) {
	mapping := make(yaml.MapSlice, 0, len(items))
	for _, item := range items {
		mapping = append(mapping, yaml.MapItem{Key: item.Key, Value: item.Value})
	}
	out, err := yaml.Marshal(mapping)
	if err != nil {
		return nil, errors.Serialization(EntityExport,
			"unable to render namespace "+ns.Name().String()+" as yaml: "+err.Error())
	}
	return out, nil
}

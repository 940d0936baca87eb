package projects

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestItemsKeyConstant         = "items"
	manifestIncludeKeyConstant       = "include"
	manifestTypeKeyConstant          = "type"
	manifestBaseDirectoryKeyConstant = "base_directory"
	manifestDefaultItemTypeConstant  = "Item"
	manifestIndentConstant           = 2
	manifestEncodeErrorTemplate      = "%w: %s: %v"
	manifestMissingItemsMessage      = "manifest has no items sequence"
	manifestNotMappingMessage        = "manifest root is not a mapping"
)

// ManifestDocument edits a YAML project manifest of the form:
//
//	base_directory: src   # optional, relative to the manifest
//	items:
//	  - include: main.go
//	    type: Compile
//	  - assets/**
//
// Comments and the order of untouched items survive a rewrite.
type ManifestDocument struct {
	path          string
	baseDirectory string
	fileSystem    WritableFileSystem
	permissions   fs.FileMode
	root          *yaml.Node
	itemsNode     *yaml.Node
	entries       []InclusionEntry
	entryNodes    []*yaml.Node
}

func newManifestDocument(path string, content []byte, permissions fs.FileMode, fileSystem WritableFileSystem) (*ManifestDocument, error) {
	root := &yaml.Node{}
	if decodeError := yaml.Unmarshal(content, root); decodeError != nil {
		return nil, fmt.Errorf(projectParseErrorTemplate, ErrProjectUnreadable, path, decodeError)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf(projectParseErrorTemplate, ErrProjectUnreadable, path, errors.New(manifestNotMappingMessage))
	}

	rootMapping := root.Content[0]
	itemsNode := mappingValue(rootMapping, manifestItemsKeyConstant)
	if itemsNode == nil || itemsNode.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf(projectParseErrorTemplate, ErrProjectUnreadable, path, errors.New(manifestMissingItemsMessage))
	}

	baseDirectory := filepath.Dir(path)
	if baseNode := mappingValue(rootMapping, manifestBaseDirectoryKeyConstant); baseNode != nil && len(strings.TrimSpace(baseNode.Value)) > 0 {
		configuredBase := filepath.FromSlash(strings.TrimSpace(baseNode.Value))
		if filepath.IsAbs(configuredBase) {
			baseDirectory = filepath.Clean(configuredBase)
		} else {
			baseDirectory = filepath.Join(baseDirectory, configuredBase)
		}
	}

	document := &ManifestDocument{
		path:          path,
		baseDirectory: baseDirectory,
		fileSystem:    fileSystem,
		permissions:   permissions,
		root:          root,
		itemsNode:     itemsNode,
	}
	document.indexEntries()
	return document, nil
}

// Identifier returns the manifest file path.
func (document *ManifestDocument) Identifier() string {
	return document.path
}

// BaseDirectory returns the directory entries are resolved against.
func (document *ManifestDocument) BaseDirectory() string {
	return document.baseDirectory
}

// Entries returns the removable manifest items.
func (document *ManifestDocument) Entries() []InclusionEntry {
	entries := make([]InclusionEntry, len(document.entries))
	copy(entries, document.entries)
	return entries
}

// Remove deletes the listed items from the items sequence.
func (document *ManifestDocument) Remove(entries []InclusionEntry) (int, error) {
	requested := positionSet(entries)
	removedNodes := make(map[*yaml.Node]struct{})
	for index, entry := range document.entries {
		requestedEntry, isRequested := requested[entry.Position]
		if !isRequested || requestedEntry.IncludeText != entry.IncludeText {
			continue
		}
		removedNodes[document.entryNodes[index]] = struct{}{}
	}
	if len(removedNodes) == 0 {
		return 0, nil
	}

	retainedNodes := make([]*yaml.Node, 0, len(document.itemsNode.Content)-len(removedNodes))
	for _, itemNode := range document.itemsNode.Content {
		if _, removed := removedNodes[itemNode]; removed {
			continue
		}
		retainedNodes = append(retainedNodes, itemNode)
	}
	document.itemsNode.Content = retainedNodes
	document.indexEntries()
	return len(removedNodes), nil
}

// Save encodes the node tree and writes it atomically.
func (document *ManifestDocument) Save() error {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(manifestIndentConstant)
	if encodeError := encoder.Encode(document.root); encodeError != nil {
		return fmt.Errorf(manifestEncodeErrorTemplate, ErrProjectUnwritable, document.path, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(manifestEncodeErrorTemplate, ErrProjectUnwritable, document.path, closeError)
	}
	return writeFileAtomically(document.fileSystem, document.path, buffer.Bytes(), document.permissions)
}

func (document *ManifestDocument) indexEntries() {
	document.entries = document.entries[:0]
	document.entryNodes = document.entryNodes[:0]
	for _, itemNode := range document.itemsNode.Content {
		includeText, itemType := describeManifestItem(itemNode)
		if !isRemovableInclude(includeText) {
			continue
		}
		document.entries = append(document.entries, InclusionEntry{
			ItemType:      itemType,
			IncludeText:   includeText,
			BaseDirectory: document.baseDirectory,
			Position:      len(document.entries),
		})
		document.entryNodes = append(document.entryNodes, itemNode)
	}
}

func describeManifestItem(itemNode *yaml.Node) (string, string) {
	switch itemNode.Kind {
	case yaml.ScalarNode:
		return itemNode.Value, manifestDefaultItemTypeConstant
	case yaml.MappingNode:
		includeNode := mappingValue(itemNode, manifestIncludeKeyConstant)
		if includeNode == nil || includeNode.Kind != yaml.ScalarNode {
			return "", ""
		}
		itemType := manifestDefaultItemTypeConstant
		if typeNode := mappingValue(itemNode, manifestTypeKeyConstant); typeNode != nil && len(strings.TrimSpace(typeNode.Value)) > 0 {
			itemType = strings.TrimSpace(typeNode.Value)
		}
		return includeNode.Value, itemType
	default:
		return "", ""
	}
}

func mappingValue(mappingNode *yaml.Node, key string) *yaml.Node {
	if mappingNode == nil || mappingNode.Kind != yaml.MappingNode {
		return nil
	}
	for index := 0; index+1 < len(mappingNode.Content); index += 2 {
		if mappingNode.Content[index].Value == key {
			return mappingNode.Content[index+1]
		}
	}
	return nil
}

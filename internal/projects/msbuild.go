package projects

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const (
	itemGroupElementNameConstant = "ItemGroup"
	includeAttributeNameConstant = "Include"
	projectParseErrorTemplate    = "%w: %s: %v"
	unsupportedCharsetTemplate   = "unsupported charset %q"
	unbalancedElementMessage     = "unbalanced element"
)

var utf8ByteOrderMark = []byte{0xEF, 0xBB, 0xBF}

type elementSpan struct {
	start int
	end   int
}

type msbuildItem struct {
	entry      InclusionEntry
	span       elementSpan
	groupIndex int
	removable  bool
}

type msbuildItemGroup struct {
	span            elementSpan
	childCount      int
	hasOtherContent bool
}

type msbuildLayout struct {
	items  []msbuildItem
	groups []msbuildItemGroup
}

type msbuildFrame struct {
	start      int
	groupIndex int
	itemIndex  int
}

// MSBuildDocument edits the item groups of an MSBuild project while keeping every untouched byte intact.
type MSBuildDocument struct {
	path          string
	baseDirectory string
	fileSystem    WritableFileSystem
	permissions   fs.FileMode
	content       []byte
	layout        msbuildLayout
}

func newMSBuildDocument(path string, content []byte, permissions fs.FileMode, fileSystem WritableFileSystem) (*MSBuildDocument, error) {
	baseDirectory := filepath.Dir(path)
	layout, parseError := parseMSBuildLayout(content, baseDirectory)
	if parseError != nil {
		return nil, fmt.Errorf(projectParseErrorTemplate, ErrProjectUnreadable, path, parseError)
	}
	return &MSBuildDocument{
		path:          path,
		baseDirectory: baseDirectory,
		fileSystem:    fileSystem,
		permissions:   permissions,
		content:       content,
		layout:        layout,
	}, nil
}

// Identifier returns the project file path.
func (document *MSBuildDocument) Identifier() string {
	return document.path
}

// BaseDirectory returns the directory containing the project file.
func (document *MSBuildDocument) BaseDirectory() string {
	return document.baseDirectory
}

// Entries returns the removable Include items. Items holding lists or expressions are omitted.
func (document *MSBuildDocument) Entries() []InclusionEntry {
	entries := make([]InclusionEntry, 0, len(document.layout.items))
	for _, item := range document.layout.items {
		if item.removable {
			entries = append(entries, item.entry)
		}
	}
	return entries
}

// Remove deletes the elements of the listed entries. An item group left without children is removed as well.
func (document *MSBuildDocument) Remove(entries []InclusionEntry) (int, error) {
	requested := positionSet(entries)
	removedPerGroup := make(map[int]int)
	selectedItems := make([]msbuildItem, 0, len(requested))
	for _, item := range document.layout.items {
		requestedEntry, isRequested := requested[item.entry.Position]
		if !isRequested || !item.removable || requestedEntry.IncludeText != item.entry.IncludeText {
			continue
		}
		selectedItems = append(selectedItems, item)
		removedPerGroup[item.groupIndex]++
	}
	if len(selectedItems) == 0 {
		return 0, nil
	}

	spans := make([]elementSpan, 0, len(selectedItems))
	emptiedGroups := make(map[int]struct{})
	for groupIndex, removedCount := range removedPerGroup {
		group := document.layout.groups[groupIndex]
		if !group.hasOtherContent && removedCount == group.childCount {
			emptiedGroups[groupIndex] = struct{}{}
			spans = append(spans, group.span)
		}
	}
	for _, item := range selectedItems {
		if _, groupRemoved := emptiedGroups[item.groupIndex]; groupRemoved {
			continue
		}
		spans = append(spans, item.span)
	}

	updatedContent := removeSpans(document.content, spans)
	updatedLayout, parseError := parseMSBuildLayout(updatedContent, document.baseDirectory)
	if parseError != nil {
		return 0, fmt.Errorf(projectParseErrorTemplate, ErrProjectUnreadable, document.path, parseError)
	}

	document.content = updatedContent
	document.layout = updatedLayout
	return len(selectedItems), nil
}

// Save writes the current content atomically.
func (document *MSBuildDocument) Save() error {
	return writeFileAtomically(document.fileSystem, document.path, document.content, document.permissions)
}

func parseMSBuildLayout(content []byte, baseDirectory string) (msbuildLayout, error) {
	offsetBase := 0
	parsedContent := content
	if bytes.HasPrefix(parsedContent, utf8ByteOrderMark) {
		offsetBase = len(utf8ByteOrderMark)
		parsedContent = parsedContent[offsetBase:]
	}

	decoder := xml.NewDecoder(bytes.NewReader(parsedContent))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return nil, fmt.Errorf(unsupportedCharsetTemplate, charset)
	}

	layout := msbuildLayout{}
	stack := make([]msbuildFrame, 0, 8)
	for {
		tokenStart := offsetBase + int(decoder.InputOffset())
		token, tokenError := decoder.Token()
		if errors.Is(tokenError, io.EOF) {
			break
		}
		if tokenError != nil {
			return msbuildLayout{}, tokenError
		}

		parentGroupIndex := -1
		if len(stack) > 0 {
			parentGroupIndex = stack[len(stack)-1].groupIndex
		}

		switch typedToken := token.(type) {
		case xml.StartElement:
			frame := msbuildFrame{start: tokenStart, groupIndex: -1, itemIndex: -1}
			switch {
			case parentGroupIndex >= 0:
				layout.groups[parentGroupIndex].childCount++
				includeText, hasInclude := attributeValue(typedToken, includeAttributeNameConstant)
				if !hasInclude {
					layout.groups[parentGroupIndex].hasOtherContent = true
					break
				}
				frame.itemIndex = len(layout.items)
				layout.items = append(layout.items, msbuildItem{
					entry: InclusionEntry{
						ItemType:      typedToken.Name.Local,
						IncludeText:   includeText,
						BaseDirectory: baseDirectory,
						Position:      len(layout.items),
					},
					groupIndex: parentGroupIndex,
					removable:  isRemovableInclude(includeText),
				})
			case typedToken.Name.Local == itemGroupElementNameConstant:
				frame.groupIndex = len(layout.groups)
				layout.groups = append(layout.groups, msbuildItemGroup{})
			}
			stack = append(stack, frame)
		case xml.EndElement:
			if len(stack) == 0 {
				return msbuildLayout{}, errors.New(unbalancedElementMessage)
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			span := elementSpan{start: frame.start, end: offsetBase + int(decoder.InputOffset())}
			if frame.groupIndex >= 0 {
				layout.groups[frame.groupIndex].span = span
			}
			if frame.itemIndex >= 0 {
				layout.items[frame.itemIndex].span = span
			}
		case xml.Comment, xml.ProcInst, xml.Directive:
			if parentGroupIndex >= 0 {
				layout.groups[parentGroupIndex].hasOtherContent = true
			}
		}
	}

	if len(stack) > 0 {
		return msbuildLayout{}, errors.New(unbalancedElementMessage)
	}
	return layout, nil
}

func attributeValue(element xml.StartElement, name string) (string, bool) {
	for _, attribute := range element.Attr {
		if attribute.Name.Space == "" && attribute.Name.Local == name {
			return attribute.Value, true
		}
	}
	return "", false
}

// removeSpans deletes the spans, widening each to its whole line when nothing else shares the line.
func removeSpans(content []byte, spans []elementSpan) []byte {
	widenedSpans := make([]elementSpan, 0, len(spans))
	for _, span := range spans {
		widenedSpans = append(widenedSpans, widenToLine(content, span))
	}
	sort.Slice(widenedSpans, func(first int, second int) bool {
		return widenedSpans[first].start > widenedSpans[second].start
	})

	updated := append([]byte(nil), content...)
	for _, span := range widenedSpans {
		updated = append(updated[:span.start], updated[span.end:]...)
	}
	return updated
}

func widenToLine(content []byte, span elementSpan) elementSpan {
	lineStart := span.start
	for lineStart > 0 && isHorizontalSpace(content[lineStart-1]) {
		lineStart--
	}
	if lineStart > 0 && content[lineStart-1] != '\n' {
		return span
	}

	lineEnd := span.end
	for lineEnd < len(content) && (isHorizontalSpace(content[lineEnd]) || content[lineEnd] == '\r') {
		lineEnd++
	}
	if lineEnd == len(content) {
		return elementSpan{start: lineStart, end: lineEnd}
	}
	if content[lineEnd] != '\n' {
		return span
	}
	return elementSpan{start: lineStart, end: lineEnd + 1}
}

func isHorizontalSpace(character byte) bool {
	return strings.IndexByte(" \t", character) >= 0
}

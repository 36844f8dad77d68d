// =============================================================================
// Catalog Feed Converter - XML Writer Module
// =============================================================================
//
// This module serializes element trees into indented XML text and writes
// finished documents to disk. It is the only place that escapes text, so
// entity models build Elements and never format markup themselves.
//
// XML STRUCTURE:
//   The feed document has no wrapping root by default:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <ExtractDate>2024-01-15</ExtractDate>
//   <Brand>
//     <ExternalId>B1</ExternalId>
//     <Name>Acme</Name>
//   </Brand>
//   <Category>
//     ...
//   </Category>
//   <Product removed="false">
//     ...
//   </Product>
//
//   GenerateOptions.RootElement wraps everything after the declaration in a
//   single element for consumers that require one root.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is appended to output paths that lack it.
const Extension = ".xml"

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for one level of indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootElement, when set, wraps all top-level elements.
	// Default: "" (no wrapper)
	RootElement string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
	}
}

// =============================================================================
// ELEMENT TREE
// =============================================================================

// Element represents a generic XML element. An element carries either a
// text Value or Children; when both are empty it renders as an empty pair
// of tags (<Name></Name>).
type Element struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []Element
}

// NewElement creates an element with the given children.
func NewElement(name string, children ...Element) Element {
	return Element{
		XMLName:  xml.Name{Local: name},
		Children: children,
	}
}

// Leaf creates a simple XML element with a text value.
func Leaf(name, value string) Element {
	return Element{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// WithAttr returns a copy of e with an attribute appended.
func (e Element) WithAttr(name, value string) Element {
	attrs := make([]xml.Attr, len(e.Attributes), len(e.Attributes)+1)
	copy(attrs, e.Attributes)
	e.Attributes = append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

// Render serializes e at nesting depth 0.
func Render(e Element, indent string) string {
	var buffer bytes.Buffer
	writeElement(&buffer, e, indent, 0)
	return buffer.String()
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document accumulates top-level elements into one XML document.
type Document struct {
	options GenerateOptions
	buffer  bytes.Buffer
	level   int
}

// NewDocument starts a document and writes its prologue.
func NewDocument(options GenerateOptions) *Document {
	d := &Document{options: options}

	if options.IncludeXMLDeclaration {
		d.buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	if options.RootElement != "" {
		d.buffer.WriteString("<")
		d.buffer.WriteString(options.RootElement)
		d.buffer.WriteString(">\n")
		d.level = 1
	}

	return d
}

// Append serializes e as a top-level element of the document.
func (d *Document) Append(e Element) {
	writeElement(&d.buffer, e, d.options.Indent, d.level)
}

// String returns the finished document. It does not modify d, so more
// elements may still be appended afterwards.
func (d *Document) String() string {
	if d.options.RootElement == "" {
		return d.buffer.String()
	}
	return d.buffer.String() + "</" + d.options.RootElement + ">\n"
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element Element, indent string, level int) {
	writeIndent(buffer, indent, level)

	// Write opening tag.
	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		// Simple element with text value (possibly empty).
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		writeIndent(buffer, indent, level)
	}

	// Write closing tag.
	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}

// escapeXML escapes special characters for XML. Characters outside the XML
// 1.0 Char production, such as NUL or vertical tab, become U+FFFD.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			if !isXMLChar(r) {
				r = '\uFFFD'
			}
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// isXMLChar reports whether r may appear in an XML 1.0 document.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// EnsureExtension appends Extension to path unless it already ends with it
// (compared case-insensitively).
func EnsureExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// WriteFile writes doc to path as UTF-8, replacing any existing file.
//
// The document goes to a temporary file in the target directory first and is
// renamed into place once complete, so a failed write never leaves a partial
// feed at path.
//
// RETURNS:
//   - The path actually written (with the .xml extension ensured).
//   - An error if the file cannot be written.
func WriteFile(path, doc string) (string, error) {
	path = EnsureExtension(path)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, doc); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

func writeAndClose(f *os.File, doc string) error {
	if _, err := f.WriteString(doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

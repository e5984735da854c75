package shared

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tristendillon/appdef/core/models"
)

const (
	// DynamicMarker prefixes a dynamic part in a page file name.
	DynamicMarker = "$"
	// IndexName is the file-name part that marks a home route.
	IndexName = "_index"
	// dynamicID stands in for every dynamic segment in a route id, so
	// /product/:slug and /product/:id collide.
	dynamicID = "$$$"
	// segmentReserved cannot appear in segment text or parameter names: they
	// separate or mark parts of page file names and router patterns.
	segmentReserved = "./$:{}"
)

func ToTitle(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// ValidateSegment rejects segments that would not survive the trip through a
// page file name.
func ValidateSegment(seg models.Segment) error {
	if seg.IsDynamic() {
		if seg.Name == "" {
			return fmt.Errorf("dynamic segments need a name")
		}
		if strings.ContainsAny(seg.Name, segmentReserved) {
			return fmt.Errorf("invalid parameter name %q", seg.Name)
		}
		return nil
	}
	if seg.Text == "" || strings.ContainsAny(seg.Text, segmentReserved) {
		return fmt.Errorf("invalid path segment %q", seg.Text)
	}
	return nil
}

// RoutePathID is the canonical identity of a route path.
func RoutePathID(path []models.Segment) string {
	parts := make([]string, len(path))
	for i, seg := range path {
		if seg.IsDynamic() {
			parts[i] = dynamicID
			continue
		}
		parts[i] = seg.Text
	}
	return strings.Join(parts, "/")
}

// PageFileName is the file name (without extension) that would hold path.
func PageFileName(path []models.Segment) string {
	if len(path) == 0 {
		return IndexName
	}
	parts := make([]string, len(path))
	for i, seg := range path {
		if seg.IsDynamic() {
			parts[i] = DynamicMarker + seg.Name
			continue
		}
		parts[i] = seg.Text
	}
	return strings.Join(parts, ".")
}

// ToCamelCase turns a dotted page file name into a Go identifier:
// "product.$slug" becomes "productSlug".
func ToCamelCase(fileName string) string {
	words := strings.Split(fileName, ".")
	var b strings.Builder
	for i, word := range words {
		word = strings.ToLower(identifierChars(word))
		if i > 0 {
			word = ToTitle(word)
		}
		b.WriteString(word)
	}

	name := b.String()
	if name == "" {
		return "index"
	}
	if first, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(first) {
		return "page" + ToTitle(name)
	}
	return name
}

func identifierChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// FormatRoutePath renders a path the way the router expects it.
func FormatRoutePath(path []models.Segment) string {
	parts := make([]string, len(path))
	for i, seg := range path {
		if seg.IsDynamic() {
			parts[i] = ":" + seg.Name
			continue
		}
		parts[i] = seg.Text
	}
	return "/" + strings.Join(parts, "/")
}

// ParseRoutePath accepts "/product/:slug", "/product/{slug}" and the file
// form "product.$slug".
func ParseRoutePath(s string) ([]models.Segment, error) {
	s = strings.TrimSpace(s)
	sep := "/"
	if !strings.Contains(s, "/") && strings.Contains(s, ".") {
		sep = "."
	}

	var path []models.Segment
	for _, part := range strings.Split(s, sep) {
		var seg models.Segment
		switch {
		case part == "" || part == IndexName:
			continue
		case strings.HasPrefix(part, ":"):
			seg = models.Dynamic(strings.TrimPrefix(part, ":"))
		case strings.HasPrefix(part, DynamicMarker):
			seg = models.Dynamic(strings.TrimPrefix(part, DynamicMarker))
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			seg = models.Dynamic(strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}"))
		default:
			seg = models.Static(part)
		}
		if err := ValidateSegment(seg); err != nil {
			return nil, fmt.Errorf("%w in %q", err, s)
		}
		path = append(path, seg)
	}
	return path, nil
}

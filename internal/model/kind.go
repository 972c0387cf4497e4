package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind identifies one of the closed set of attachment types
type Kind int

const (
	KindUnknown Kind = iota
	KindPostscript
	KindImage
	KindPlainText
	KindHTML
	KindURL
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindPostscript: "postscript",
	KindImage:      "image",
	KindPlainText:  "text",
	KindHTML:       "html",
	KindURL:        "url",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// AttachmentType describes how an attachment kind is shown and viewed
type AttachmentType struct {
	Kind      Kind
	Name      string
	Icon      string
	ViewerKey string
}

// IsURL reports whether the type is the URL pseudo-type.
// URL attachments never touch the file system.
func (t AttachmentType) IsURL() bool {
	return t.Kind == KindURL
}

// Equal compares types by kind
func (t AttachmentType) Equal(o AttachmentType) bool {
	return t.Kind == o.Kind
}

func (t AttachmentType) String() string {
	return t.Name
}

var (
	ErrRegistrySealed = errors.New("attachment type registry is sealed")
	ErrDuplicateKind  = errors.New("attachment type already registered")
)

// BuiltinTypes returns the types every registry starts with
func BuiltinTypes() []AttachmentType {
	return []AttachmentType{
		{Kind: KindUnknown, Name: "Unknown", Icon: "?", ViewerKey: "unknown_viewer"},
		{Kind: KindPostscript, Name: "Postscript", Icon: "P", ViewerKey: "postscript_viewer"},
		{Kind: KindImage, Name: "Image", Icon: "I", ViewerKey: "image_viewer"},
		{Kind: KindPlainText, Name: "Plain Text", Icon: "T", ViewerKey: "text_viewer"},
		{Kind: KindHTML, Name: "HTML", Icon: "H", ViewerKey: "html_viewer"},
		{Kind: KindURL, Name: "URL", Icon: "U", ViewerKey: "url_viewer"},
	}
}

// Registry is the process-wide set of attachment types. It is built once at
// startup with NewRegistry and handed to whoever needs lookups.
type Registry struct {
	types   map[Kind]AttachmentType
	order   []Kind
	viewers map[string]string
	sealed  bool
}

// NewRegistry registers the builtin types, binds viewer commands and seals
// the registry. viewers maps a type's ViewerKey to a command template.
func NewRegistry(viewers map[string]string) *Registry {
	r := &Registry{
		types:   make(map[Kind]AttachmentType),
		viewers: make(map[string]string, len(viewers)),
	}
	for _, t := range BuiltinTypes() {
		// builtin kinds are distinct
		_ = r.Register(t)
	}
	for k, v := range viewers {
		r.viewers[k] = v
	}
	r.Seal()
	return r
}

// Register adds a type to the set. It fails after Seal or for a kind that is
// already present.
func (r *Registry) Register(t AttachmentType) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if _, ok := r.types[t.Kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, t.Kind)
	}
	r.types[t.Kind] = t
	r.order = append(r.order, t.Kind)
	return nil
}

// Seal closes the registry against further registration
func (r *Registry) Seal() {
	r.sealed = true
}

// Lookup returns the type for kind, or the Unknown type when kind is absent.
func (r *Registry) Lookup(kind Kind) AttachmentType {
	if t, ok := r.types[kind]; ok {
		return t
	}
	return r.unknown()
}

// LookupName finds a type by its kind key ("image") or display name ("Image").
func (r *Registry) LookupName(name string) AttachmentType {
	name = strings.TrimSpace(name)
	for _, k := range r.order {
		t := r.types[k]
		if strings.EqualFold(k.String(), name) || strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return r.unknown()
}

// ViewerCommand returns the configured command template for t, or "".
func (r *Registry) ViewerCommand(t AttachmentType) string {
	if t.ViewerKey == "" {
		return ""
	}
	return r.viewers[t.ViewerKey]
}

// Types returns the registered types in registration order
func (r *Registry) Types() []AttachmentType {
	out := make([]AttachmentType, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.types[k])
	}
	return out
}

// Detect guesses the type of a path: a URL gets the URL type, a readable file
// is typed from its content, anything else is Unknown.
func (r *Registry) Detect(path string) AttachmentType {
	if IsURL(path) {
		return r.Lookup(KindURL)
	}

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return r.unknown()
	}

	switch {
	case strings.HasPrefix(m.String(), "image/"):
		return r.Lookup(KindImage)
	case m.Is("application/postscript"):
		return r.Lookup(KindPostscript)
	case m.Is("text/html"):
		return r.Lookup(KindHTML)
	case m.Is("text/plain"):
		return r.Lookup(KindPlainText)
	}
	return r.unknown()
}

func (r *Registry) unknown() AttachmentType {
	if t, ok := r.types[KindUnknown]; ok {
		return t
	}
	return AttachmentType{Kind: KindUnknown, Name: "Unknown"}
}

// IsURL reports whether s looks like a URL rather than a file path.
// Single-letter schemes are treated as Windows drive letters.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return len(u.Scheme) > 1 && (u.Host != "" || u.Opaque != "")
}

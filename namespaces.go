package xmpmeta

import "github.com/simonhull/xmpmeta/internal/namespace"

// Registry is the immutable namespace table used to resolve prefixes.
type Registry = namespace.Registry

// NamespaceEntry is one row of a Registry.
type NamespaceEntry = namespace.Entry

// Alias maps an alias property to the property it stands for.
type Alias = namespace.Alias

// DefaultRegistry returns the built-in namespace table. It is built on
// first use and shared.
func DefaultRegistry() *Registry {
	return namespace.Default()
}

// NewRegistry builds a table from entries and aliases. Keys and
// prefixes resolve case-insensitively.
func NewRegistry(entries []NamespaceEntry, aliases []Alias) *Registry {
	return namespace.New(entries, aliases)
}

// Well-known namespace URIs.
const (
	NSXMP       = namespace.XMP
	NSXMPRights = namespace.XMPRights
	NSXMPMM     = namespace.XMPMM
	NSPDF       = namespace.PDF
	NSPhotoshop = namespace.Photoshop
	NSEXIF      = namespace.EXIF
	NSEXIFAux   = namespace.EXIFAux
	NSTIFF      = namespace.TIFF
	NSDM        = namespace.DM
	NSDC        = namespace.DC
	NSIPTCCore  = namespace.IPTCCore
	NSCameraRaw = namespace.CameraRaw
	NSRDF       = namespace.RDF
	NSXML       = namespace.XML
)

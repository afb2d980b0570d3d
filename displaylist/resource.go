package displaylist

import (
	"errors"

	"github.com/figdraw/figdraw"
)

// Resource errors. These never fail a dispatch: the Dispatcher degrades to
// a placeholder visual and keeps going, so one slow or broken asset cannot
// blank the whole frame.
var (
	ErrResourceNotFound = errors.New("displaylist: resource not found")
	ErrResourceLoad     = errors.New("displaylist: resource load failed")
	ErrResourceFormat   = errors.New("displaylist: invalid resource format")
)

// LoadState describes where a resource is in its loading lifecycle.
type LoadState int

const (
	LoadNotLoaded LoadState = iota
	LoadLoading
	LoadLoaded
	LoadError
	LoadPlaceholder
)

// String returns a human-readable name for the load state.
func (s LoadState) String() string {
	switch s {
	case LoadNotLoaded:
		return "NotLoaded"
	case LoadLoading:
		return "Loading"
	case LoadLoaded:
		return "Loaded"
	case LoadError:
		return "Error"
	case LoadPlaceholder:
		return "Placeholder"
	default:
		return "Unknown"
	}
}

// ResourceResolver maps the resource ids recorded in a buffer to live
// handles. It is provided by the asset-loading collaborator; this package
// only consults it during dispatch.
type ResourceResolver interface {
	// ResolveImage returns the live handle for an image id, or a resource
	// error when the id is unknown or the load failed.
	ResolveImage(id uint32) (figdraw.ImageHandle, error)

	// ResolveFont returns the live handle for a font id, or a resource
	// error when the id is unknown or the load failed.
	ResolveFont(id uint32) (figdraw.FontHandle, error)

	// LoadState reports the loading lifecycle state for a resource id.
	LoadState(id uint32) LoadState
}

// placeholderColor is what dispatch paints where a resource is not ready:
// a flat gray region covering the footprint the resource would occupy.
var placeholderColor = figdraw.RGBA{R: 0.75, G: 0.75, B: 0.75, A: 1}

// identityResolver is used when a Dispatcher is constructed without a
// resolver: recorded ids pass through as handles unchanged and everything
// is considered loaded. Suitable for contexts that do their own lookup.
type identityResolver struct{}

func (identityResolver) ResolveImage(id uint32) (figdraw.ImageHandle, error) {
	return figdraw.ImageHandle(id), nil
}

func (identityResolver) ResolveFont(id uint32) (figdraw.FontHandle, error) {
	return figdraw.FontHandle(id), nil
}

func (identityResolver) LoadState(uint32) LoadState { return LoadLoaded }

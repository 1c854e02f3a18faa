// Package tfcdash builds the Fresh Connection KPI dashboard tables from
// a spreadsheet export: the tidy financial KPI table plus one
// normalized table per functional domain.
package tfcdash

import (
	"net/http"
	"strings"
	"time"

	"github.com/freshconn/tfcdash/pkg/tfcdash/catalog"
	"github.com/freshconn/tfcdash/pkg/tfcdash/source"
)

// Options configures a dashboard build.
type Options struct {
	// FetchTimeout bounds the HTTP fetch when the source is a URL.
	// Zero uses source.DefaultFetchTimeout.
	FetchTimeout time.Duration
	// Catalog overrides the default metric patterns and domain layouts.
	// Nil uses catalog.Default().
	Catalog *catalog.Catalog
	// Domains restricts the build to the named functional domains.
	// Empty builds every domain in the catalog.
	Domains []string
	// HTTPClient overrides the client used for URL sources.
	HTTPClient *http.Client
}

// DefaultOptions returns the options for a standard build.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) catalog() *catalog.Catalog {
	if o.Catalog != nil {
		return o.Catalog
	}
	return catalog.Default()
}

func (o Options) loader() *source.Loader {
	return source.New(o.HTTPClient, o.FetchTimeout)
}

func (o Options) wantsDomain(name string) bool {
	if len(o.Domains) == 0 {
		return true
	}
	for _, d := range o.Domains {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// Package navigation validates the "return" URLs that list pages hand to
// forms, so a redirect after a write lands back on the filtered listing.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions constrains where SafeBackURL may send the user.
type BackURLOptions struct {
	// AllowedPrefix, when set, must prefix the return path.
	AllowedPrefix string
	// ExcludedActions reject action pages so a redirect never loops back
	// into a form. Each is compared with the last segment of the path.
	ExcludedActions []string
	Fallback        string
}

func (o BackURLOptions) accepts(ret string) bool {
	path := ret
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if o.AllowedPrefix != "" && !strings.HasPrefix(path, o.AllowedPrefix) {
		return false
	}
	last := strings.TrimSuffix(path, "/")
	last = last[strings.LastIndex(last, "/")+1:]
	for _, action := range o.ExcludedActions {
		if last == action {
			return false
		}
	}
	return true
}

func requestValue(r *http.Request, key string) string {
	if v := query.Get(r, key); v != "" {
		return v
	}
	return strings.TrimSpace(r.FormValue(key))
}

// SafeBackURL returns the request's "return" value (query first, then form)
// when it is a local URL accepted by opts, and the fallback otherwise.
//
//	url := navigation.SafeBackURL(r, navigation.ExhibitionsBackURL)
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	if ret := urlutil.SafeReturn(requestValue(r, "return"), "", ""); ret != "" && opts.accepts(ret) {
		return ret
	}
	return opts.Fallback
}

var (
	ExhibitionsBackURL = BackURLOptions{
		AllowedPrefix:   "/exhibitions",
		ExcludedActions: []string{"edit", "delete", "new", "status", "official_url", "exclude", "restore"},
		Fallback:        "/exhibitions",
	}

	MuseumsBackURL = BackURLOptions{
		AllowedPrefix:   "/museums",
		ExcludedActions: []string{"edit", "delete", "new"},
		Fallback:        "/museums",
	}
)

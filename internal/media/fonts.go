package media

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// FontLister reports the font family names available in the execution
// environment. Swappable for tests.
type FontLister func(ctx context.Context) ([]string, error)

func fcListFamilies(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "fc-list", ":", "family").Output()
	if err != nil {
		return nil, err
	}
	var families []string
	for _, line := range strings.Split(string(out), "\n") {
		// fc-list prints comma separated aliases per face
		for _, fam := range strings.Split(line, ",") {
			if fam = strings.TrimSpace(fam); fam != "" {
				families = append(families, fam)
			}
		}
	}
	return families, nil
}

// FontResolver picks the first configured font preference that is present in
// the environment, falling back to a fixed default. The resolved family is
// cached on the resolver for the rest of the process lifetime.
type FontResolver struct {
	mu       sync.Mutex
	lister   FontLister
	fallback string
	resolved string
	done     bool
}

func NewFontResolver(fallback string, lister FontLister) *FontResolver {
	if lister == nil {
		lister = fcListFamilies
	}
	return &FontResolver{lister: lister, fallback: fallback}
}

// Resolve matches preferences against available families, exact first and
// then substring, in preference order.
func (r *FontResolver) Resolve(ctx context.Context, preferences []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return r.resolved
	}

	r.resolved = r.fallback
	r.done = true

	available, err := r.lister(ctx)
	if err != nil || len(available) == 0 {
		return r.resolved
	}

	for _, pref := range preferences {
		for _, fam := range available {
			if strings.EqualFold(fam, pref) {
				r.resolved = fam
				return r.resolved
			}
		}
		for _, fam := range available {
			if strings.Contains(strings.ToLower(fam), strings.ToLower(pref)) {
				r.resolved = fam
				return r.resolved
			}
		}
	}
	return r.resolved
}

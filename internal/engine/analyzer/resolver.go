package analyzer

import (
	"path"
	"slices"
	"strings"

	"go.trai.ch/retest/internal/core/domain"
)

// Resolution classifies the outcome of resolving an import specifier.
type Resolution uint8

const (
	// Resolved means the specifier points at a project file.
	Resolved Resolution = iota
	// External means the specifier names a package or builtin outside the project.
	External
	// Unresolved means the specifier should point at a project file but none was found,
	// or it could not be determined statically.
	Unresolved
)

type alias struct {
	prefix string
	target string
}

// Resolver maps import specifiers to root-relative files.
//
// Relative and root-absolute specifiers must resolve. Alias prefixes are rewritten and
// must resolve too. Other specifiers are tried against the base URL and are otherwise
// considered external.
type Resolver struct {
	exists     func(string) bool
	extensions []string
	aliases    []alias
	baseURL    string
	hasBaseURL bool
}

// NewResolver creates a Resolver. exists reports whether a root-relative path is a file.
func NewResolver(cfg domain.ResolveConfig, exists func(string) bool) *Resolver {
	aliases := make([]alias, 0, len(cfg.Aliases))
	for prefix, target := range cfg.Aliases {
		// tsconfig style "@/*": "src/*" entries are plain prefixes.
		prefix = strings.TrimSuffix(strings.TrimSuffix(prefix, "*"), "/")
		target = strings.TrimSuffix(strings.TrimSuffix(target, "*"), "/")
		if prefix == "" {
			continue
		}
		aliases = append(aliases, alias{prefix: prefix, target: strings.TrimPrefix(target, "./")})
	}
	// Longest prefix wins.
	slices.SortFunc(aliases, func(a, b alias) int {
		if d := len(b.prefix) - len(a.prefix); d != 0 {
			return d
		}
		return strings.Compare(a.prefix, b.prefix)
	})

	baseURL := path.Clean(cfg.BaseURL)
	if baseURL == "." {
		baseURL = ""
	}
	return &Resolver{
		exists:     exists,
		extensions: cfg.Extensions,
		aliases:    aliases,
		baseURL:    baseURL,
		hasBaseURL: cfg.BaseURL != "",
	}
}

// Resolve resolves spec as imported from the root-relative file from.
func (r *Resolver) Resolve(from, spec string) (string, Resolution) {
	spec = stripQuery(spec)
	if spec == "" {
		return "", Unresolved
	}

	switch {
	case isRelative(spec):
		return r.mustProbe(path.Join(path.Dir(from), spec))
	case strings.HasPrefix(spec, "/"):
		return r.mustProbe(strings.TrimPrefix(path.Clean(spec), "/"))
	}

	for _, a := range r.aliases {
		if rest, ok := a.match(spec); ok {
			return r.mustProbe(path.Join(a.target, rest))
		}
	}

	if r.hasBaseURL {
		if file, ok := r.probe(path.Join(r.baseURL, spec)); ok {
			return file, Resolved
		}
	}
	return "", External
}

func (a alias) match(spec string) (string, bool) {
	if spec == a.prefix {
		return "", true
	}
	if rest, ok := strings.CutPrefix(spec, a.prefix+"/"); ok {
		return rest, true
	}
	return "", false
}

func (r *Resolver) mustProbe(candidate string) (string, Resolution) {
	if candidate == ".." || strings.HasPrefix(candidate, "../") {
		return "", Unresolved
	}
	if file, ok := r.probe(candidate); ok {
		return file, Resolved
	}
	return "", Unresolved
}

// probe tries the candidate as a file, with each extension appended, with a compiled
// JavaScript extension swapped for its TypeScript source, and as a directory index.
func (r *Resolver) probe(candidate string) (string, bool) {
	if candidate == "" || candidate == "." {
		return "", false
	}
	if r.exists(candidate) {
		return candidate, true
	}
	for _, ext := range r.extensions {
		if r.exists(candidate + ext) {
			return candidate + ext, true
		}
	}
	if ext := path.Ext(candidate); ext != "" {
		stem := strings.TrimSuffix(candidate, ext)
		for _, alt := range sourceExtensions[ext] {
			if r.exists(stem + alt) {
				return stem + alt, true
			}
		}
	}
	for _, ext := range r.extensions {
		index := path.Join(candidate, "index"+ext)
		if r.exists(index) {
			return index, true
		}
	}
	return "", false
}

var sourceExtensions = map[string][]string{
	".js":  {".ts", ".tsx"},
	".jsx": {".tsx"},
	".mjs": {".mts"},
	".cjs": {".cts"},
}

func isRelative(spec string) bool {
	return spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

func stripQuery(spec string) string {
	if i := strings.IndexAny(spec, "?#"); i > 0 {
		return spec[:i]
	}
	return spec
}

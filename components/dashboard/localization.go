package dashboard

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when the client's preferred language has no catalog.
const DefaultLanguage = "ca-es"

// Translator looks up localized strings scoped to a namespace. Missing keys
// resolve to the key itself.
type Translator interface {
	T(namespace, key string) string
}

// Catalog holds the strings of one language, grouped by namespace.
type Catalog struct {
	Language   string                       `yaml:"language"`
	Name       string                       `yaml:"name"`
	Namespaces map[string]map[string]string `yaml:"namespaces"`
}

// T returns the translation or key when it is missing.
func (c *Catalog) T(namespace, key string) string {
	if c == nil {
		return key
	}
	if value := c.Namespaces[namespace][key]; value != "" {
		return value
	}
	return key
}

// Namespace returns a lookup bound to namespace.
func (c *Catalog) Namespace(namespace string) func(key string) string {
	return func(key string) string {
		return c.T(namespace, key)
	}
}

// DecodeCatalog reads a YAML catalog.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var catalog Catalog
	if err := decoder.Decode(&catalog); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: catalog is empty")
		}
		return nil, fmt.Errorf("dashboard: parse catalog: %w", err)
	}
	catalog.Language = normalizeLocale(catalog.Language)
	if catalog.Language == "" {
		return nil, fmt.Errorf("dashboard: catalog language is required")
	}
	return &catalog, nil
}

// CatalogSet is the set of available translation catalogs.
type CatalogSet struct {
	fallback string
	catalogs map[string]*Catalog
	order    []string
	matcher  language.Matcher
}

// NewCatalogSet builds a set; fallback must be one of the catalogs.
func NewCatalogSet(fallback string, catalogs ...*Catalog) (*CatalogSet, error) {
	fallback = normalizeLocale(fallback)
	set := &CatalogSet{
		fallback: fallback,
		catalogs: make(map[string]*Catalog, len(catalogs)),
	}
	for _, catalog := range catalogs {
		if catalog == nil {
			continue
		}
		lang := normalizeLocale(catalog.Language)
		if _, dup := set.catalogs[lang]; dup {
			return nil, fmt.Errorf("dashboard: duplicate catalog %s", lang)
		}
		set.catalogs[lang] = catalog
		set.order = append(set.order, lang)
	}
	if _, ok := set.catalogs[fallback]; !ok {
		return nil, fmt.Errorf("dashboard: fallback catalog %s not found", fallback)
	}
	sort.Strings(set.order)
	tags := []language.Tag{language.Make(fallback)}
	set.order = append([]string{fallback}, without(set.order, fallback)...)
	for _, lang := range set.order[1:] {
		tags = append(tags, language.Make(lang))
	}
	set.matcher = language.NewMatcher(tags)
	return set, nil
}

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// DefaultCatalogs loads the catalogs shipped with the package.
func DefaultCatalogs() (*CatalogSet, error) {
	return LoadCatalogs(embeddedLocales, "locales", DefaultLanguage)
}

// LoadCatalogs decodes every *.yaml file in dir.
func LoadCatalogs(fsys fs.FS, dir, fallback string) (*CatalogSet, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("dashboard: list catalogs: %w", err)
	}
	catalogs := make([]*Catalog, 0, len(matches))
	for _, name := range matches {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("dashboard: open catalog %s: %w", name, err)
		}
		catalog, err := DecodeCatalog(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", name, err)
		}
		catalogs = append(catalogs, catalog)
	}
	return NewCatalogSet(fallback, catalogs...)
}

// Has reports whether lang has a catalog.
func (s *CatalogSet) Has(lang string) bool {
	_, ok := s.catalogs[normalizeLocale(lang)]
	return ok
}

// Languages lists the available languages, fallback first.
func (s *CatalogSet) Languages() []string {
	return append([]string(nil), s.order...)
}

// Fallback returns the default language.
func (s *CatalogSet) Fallback() string { return s.fallback }

// Catalog returns the catalog for lang or the fallback catalog.
func (s *CatalogSet) Catalog(lang string) *Catalog {
	if catalog, ok := s.catalogs[normalizeLocale(lang)]; ok {
		return catalog
	}
	return s.catalogs[s.fallback]
}

// Negotiate picks the language for the preferred list: an exact catalog match
// wins, then the closest match, then the fallback.
func (s *CatalogSet) Negotiate(preferred ...string) string {
	for _, lang := range preferred {
		if s.Has(lang) {
			return normalizeLocale(lang)
		}
	}
	tags := make([]language.Tag, 0, len(preferred))
	for _, lang := range preferred {
		if tag, err := language.Parse(strings.TrimSpace(lang)); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return s.fallback
	}
	_, index, confidence := s.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(s.order) {
		return s.fallback
	}
	return s.order[index]
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`es-mx`) automatically fall back to their
// base language (`es`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(strings.ReplaceAll(locale, "_", "-")))
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func without(values []string, drop string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

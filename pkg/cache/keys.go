package cache

// keyVersion is bumped whenever the layout output changes shape, so stale
// entries written by older builds are never read back.
const keyVersion = "v1"

// LayoutKeyOpts holds the options that change a forest layout.
type LayoutKeyOpts struct {
	MaxDepth     int      `json:"max_depth"`
	Disambiguate bool     `json:"disambiguate"`
	Roots        []string `json:"roots,omitempty"`
}

// ArtifactKeyOpts holds the options that change one rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Root     string  `json:"root,omitempty"` // empty for whole-forest artifacts
	Combine  bool    `json:"combine,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	RunID    string  `json:"run_id,omitempty"` // embedded by JSON exports
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for the forest computed from the edge list
	// with the given content hash.
	LayoutKey(edgesHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key for an artifact rendered from the layout
	// stored under layoutKey.
	ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer digests the upstream key and options into fixed-length keys
// such as "layout:v1:<sha256>".
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(edgesHash string, opts LayoutKeyOpts) string {
	return digestKey("layout:"+keyVersion, edgesHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return digestKey("artifact:"+keyVersion, layoutKey, opts)
}

// ScopedKeyer prefixes every key of another Keyer. The CLI scopes keys by
// build version so a new release never reads layouts cached by an old one.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes inner's keys with prefix. A nil inner means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) LayoutKey(edgesHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(edgesHash, opts)
}

func (k ScopedKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutKey, opts)
}

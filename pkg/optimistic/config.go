package optimistic

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/presto-ui/presto/pkg/dom"
)

// AttrName is the declarative attribute the config resolver reads.
const AttrName = "data-optimistic"

// DefaultErrorMessage is shown when a failure arrives and the config did not
// supply its own error content.
const DefaultErrorMessage = "Something went wrong. Please try again."

// DefaultDelay is the auto-revert delay applied when the config omits one.
const DefaultDelay = 2000 * time.Millisecond

// defaultSnapshotProps is the pair of properties captured when the config
// does not request an explicit snapshot list.
var defaultSnapshotProps = []string{"textContent", "className"}

// Config is the canonical record derived from one data-optimistic attribute
// value. Records are immutable once produced; callers must not mutate them.
type Config struct {
	// Optimistic content: either per-property templates or one HTML template
	// reference, inserted per Swap into the resolved Target.
	Values   map[string]string
	Template string
	Target   string
	Swap     string // replace | append | prepend

	// Class is an additional state class applied for the whole cycle.
	Class string

	// Error content and its display mode.
	ErrorMessage  string
	ErrorTemplate string
	ErrorMode     string // replace | append

	// Delay before auto-revert after a failure. Zero disables auto-revert.
	Delay time.Duration

	// Snapshot lists extra properties to capture; when set it replaces the
	// default textContent/className pair.
	Snapshot []string

	// Context is merged into every interpolation for this element.
	Context map[string]string
}

// rawConfig is the JSON shape of the attribute. Delay is a pointer so an
// explicit zero survives normalization.
type rawConfig struct {
	Values        map[string]string `json:"values"`
	Template      string            `json:"template"`
	Target        string            `json:"target"`
	Swap          string            `json:"swap"`
	Class         string            `json:"class"`
	ErrorMessage  string            `json:"errorMessage"`
	ErrorTemplate string            `json:"errorTemplate"`
	ErrorMode     string            `json:"errorMode"`
	Delay         *int              `json:"delay"`
	Snapshot      []string          `json:"snapshot"`
	Context       map[string]string `json:"context"`
}

// Cache memoizes parsed configs per element. An entry is valid only while
// the element's raw attribute string is unchanged, so attribute mutation
// re-parses on the next resolve.
type Cache struct {
	entries map[*dom.Element]cacheEntry
}

type cacheEntry struct {
	raw string
	cfg *Config
}

// NewCache returns an empty config cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[*dom.Element]cacheEntry)}
}

// ResolveConfig reads the element's declarative attribute and returns its
// normalized config, or nil if the attribute is absent. Parsing never fails:
// malformed input degrades to a literal text update.
func ResolveConfig(el *dom.Element, cache *Cache) *Config {
	if el == nil || !el.HasAttr(AttrName) {
		return nil
	}
	raw := el.Attr(AttrName)
	if cache != nil {
		if entry, ok := cache.entries[el]; ok && entry.raw == raw {
			return entry.cfg
		}
	}
	cfg := parseConfig(raw)
	normalize(cfg, el)
	if cache != nil {
		cache.entries[el] = cacheEntry{raw: raw, cfg: cfg}
	}
	return cfg
}

func parseConfig(raw string) *Config {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "true" {
		return &Config{Delay: DefaultDelay}
	}
	if strings.HasPrefix(trimmed, "{") {
		var rc rawConfig
		if err := json.Unmarshal([]byte(trimmed), &rc); err == nil {
			cfg := &Config{
				Values:        rc.Values,
				Template:      rc.Template,
				Target:        rc.Target,
				Swap:          rc.Swap,
				Class:         rc.Class,
				ErrorMessage:  rc.ErrorMessage,
				ErrorTemplate: rc.ErrorTemplate,
				ErrorMode:     rc.ErrorMode,
				Snapshot:      rc.Snapshot,
				Context:       rc.Context,
				Delay:         DefaultDelay,
			}
			if rc.Delay != nil {
				cfg.Delay = time.Duration(*rc.Delay) * time.Millisecond
			}
			return cfg
		}
	}
	// Anything else, including invalid JSON, is a literal text update.
	return &Config{
		Values: map[string]string{"textContent": raw},
		Delay:  DefaultDelay,
	}
}

func normalize(cfg *Config, el *dom.Element) {
	if cfg.ErrorMode == "" {
		cfg.ErrorMode = SwapReplace
	}
	if cfg.ErrorMessage == "" {
		cfg.ErrorMessage = DefaultErrorMessage
	}
	if cfg.Swap == "" {
		cfg.Swap = SwapReplace
	}
	if len(cfg.Values) == 0 && cfg.Template == "" && isButtonLike(el) {
		cfg.Values = map[string]string{"class+": ClassPending}
	}
}

// isButtonLike reports whether the element is a clickable control that
// deserves the synthesized pending-state update.
func isButtonLike(el *dom.Element) bool {
	switch el.Tag() {
	case "button":
		return true
	case "input":
		t := el.Attr("type")
		return t == "submit" || t == "button"
	}
	return el.Attr("role") == "button"
}

// snapshotProps returns the property list this config captures.
func (c *Config) snapshotProps() []string {
	if len(c.Snapshot) > 0 {
		return c.Snapshot
	}
	return defaultSnapshotProps
}

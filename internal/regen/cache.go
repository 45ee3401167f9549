package regen

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cycling74/genexport/internal/descriptor"
	"github.com/sirupsen/logrus"
)

const cachePrefix = "tmp-"

// State is what Decide found at the cache path.
type State int

const (
	NoCache State = iota
	CacheHit
	CacheMiss
)

func (s State) String() string {
	switch s {
	case NoCache:
		return "no-cache"
	case CacheHit:
		return "hit"
	case CacheMiss:
		return "miss"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Decision tells the caller whether the cached descriptor must be rewritten
// (and the project generator rerun).
type Decision int

const (
	Write Decision = iota
	Skip
)

func (d Decision) String() string {
	if d == Skip {
		return "skip"
	}
	return "write"
}

// Result is the outcome of Decide.
type Result struct {
	State    State
	Decision Decision
	Reason   string
	Path     string
}

// Cache keeps one customized descriptor per plugin type in Dir.
type Cache struct {
	Dir string
	Log logrus.FieldLogger

	// Now is used for stamp timestamps; defaults to time.Now.
	Now func() time.Time
}

// Path returns the cache file for a template file name.
func (c *Cache) Path(templateFile string) string {
	return filepath.Join(c.Dir, cachePrefix+templateFile)
}

// Decide compares the customized project p against the cache entry for
// templateFile. Name and channel configuration must match, and when the
// entry carries a stamp its fingerprint must match too. A cache file that
// fails to parse is a miss, never an error.
func (c *Cache) Decide(templateFile string, p *descriptor.Project) Result {
	path := c.Path(templateFile)
	log := c.logger().WithField("path", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Info("no cached project found")
		return Result{State: NoCache, Decision: Write, Reason: "no cached project", Path: path}
	}

	cached, err := descriptor.ParseFile(path)
	if err != nil {
		log.WithError(err).Warn("cached project unreadable, rewriting")
		return Result{State: CacheMiss, Decision: Write, Reason: "cached project unreadable", Path: path}
	}
	log.WithFields(logrus.Fields{
		"cached_name":          cached.Name,
		"cached_channelconfig": cached.PluginChannelConfigs,
	}).Debug("read cached project")

	if cached.Name != p.Name {
		return Result{State: CacheMiss, Decision: Write, Reason: fmt.Sprintf("name changed from %q", cached.Name), Path: path}
	}
	if cached.PluginChannelConfigs != p.PluginChannelConfigs {
		return Result{State: CacheMiss, Decision: Write, Reason: fmt.Sprintf("channel configuration changed from %q", cached.PluginChannelConfigs), Path: path}
	}

	stamp, err := LoadStamp(path)
	if err != nil {
		log.WithError(err).Warn("cache stamp unreadable, rewriting")
		return Result{State: CacheMiss, Decision: Write, Reason: "cache stamp unreadable", Path: path}
	}
	if stamp != nil && stamp.Fingerprint != Fingerprint(p.Encode()) {
		return Result{State: CacheMiss, Decision: Write, Reason: "template or project settings changed", Path: path}
	}

	return Result{State: CacheHit, Decision: Skip, Reason: "cached project is up to date", Path: path}
}

// Commit writes p to path, replacing any previous content, and records a
// stamp beside it.
func (c *Cache) Commit(p *descriptor.Project, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	encoded := p.Encode()
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("writing cached project %s: %w", path, err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	stamp := &Stamp{
		Name:           p.Name,
		ChannelConfigs: p.PluginChannelConfigs,
		Fingerprint:    Fingerprint(encoded),
		WrittenAt:      now().UTC(),
	}
	if err := SaveStamp(path, stamp); err != nil {
		return err
	}
	c.logger().WithField("path", path).Info("wrote cached project")
	return nil
}

// Discard removes the cached project at path and its stamp so the next
// Decide reports NoCache. Missing files are not an error.
func (c *Cache) Discard(path string) error {
	for _, f := range []string{path, StampPath(path)} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("discarding cached project %s: %w", f, err)
		}
	}
	c.logger().WithField("path", path).Debug("discarded cached project")
	return nil
}

func (c *Cache) logger() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	return logrus.StandardLogger()
}

package reachability

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"phototag/internal/logging"
)

// Cache memoizes mount point availability. Safe for concurrent use.
type Cache struct {
	logger *slog.Logger

	mu     sync.Mutex
	mounts map[string]bool
}

// NewCache constructs an empty reachability cache.
func NewCache(logger *slog.Logger) *Cache {
	return &Cache{
		logger: logging.NewComponentLogger(logger, "reachability"),
		mounts: make(map[string]bool),
	}
}

// MountPoint derives the mount point governing path.
//
//	/Volumes/External/x    -> /Volumes/External   (macOS external volume)
//	/media/user/Disk/x     -> /media/user/Disk    (Linux removable media)
//	D:/photos/x, D:\x      -> D:                  (Windows drive letter)
//	/home/user/photos/x    -> /home/user          (first two segments)
func MountPoint(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")

	if len(normalized) >= 2 && normalized[1] == ':' && isDriveLetter(normalized[0]) {
		return normalized[:2]
	}

	segments := splitSegments(normalized)
	switch {
	case len(segments) >= 2 && segments[0] == "Volumes":
		return "/" + strings.Join(segments[:2], "/")
	case len(segments) >= 3 && segments[0] == "media":
		return "/" + strings.Join(segments[:3], "/")
	case len(segments) >= 2:
		return "/" + strings.Join(segments[:2], "/")
	case len(segments) == 1:
		return "/" + segments[0]
	default:
		return "/"
	}
}

// Reachable reports whether the file's mount point exists. The first path
// under a given mount stats the mount directory; every later path under it
// is answered from the cache without touching the filesystem.
func (c *Cache) Reachable(path string) bool {
	mount := MountPoint(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if reachable, seen := c.mounts[mount]; seen {
		return reachable
	}

	_, err := os.Stat(mount)
	reachable := err == nil
	c.mounts[mount] = reachable
	if !reachable {
		c.logger.Debug("mount point unreachable", logging.String(logging.FieldMount, mount))
	}
	return reachable
}

// Reset forgets all cached verdicts, typically between batch runs so a
// newly attached drive is noticed.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounts = make(map[string]bool)
}

func splitSegments(path string) []string {
	var out []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func isDriveLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

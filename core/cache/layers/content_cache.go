package layers

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/tristendillon/appdef/core/cache/models"
	"github.com/tristendillon/appdef/core/logger"
)

// ContentCache remembers the hash of every module file it has seen, so file
// events that leave the content untouched (touch, chmod, editor double saves)
// can be ignored.
type ContentCache struct {
	entries map[string]*models.ContentEntry
	mutex   sync.Mutex
	stats   models.CacheStats
}

func NewContentCache() *ContentCache {
	return &ContentCache{
		entries: make(map[string]*models.ContentEntry),
	}
}

// UpdateContent records the current state of filePath and reports whether it
// differs from the previous record. A file seen for the first time, and a
// file that disappeared, both count as changed.
func (cc *ContentCache) UpdateContent(filePath string) (*models.ContentEntry, bool, error) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	stat, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			existing, exists := cc.entries[filePath]
			if !exists {
				return &models.ContentEntry{FilePath: filePath}, false, nil
			}
			logger.Debug("ContentCache: File deleted: %s", filePath)
			delete(cc.entries, filePath)
			cc.stats.Invalidations++
			gone := *existing
			gone.Exists = false
			return &gone, true, nil
		}
		return nil, false, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}

	existing, exists := cc.entries[filePath]
	if exists && stat.Size() == existing.Size && stat.ModTime().Equal(existing.ModTime) {
		cc.stats.Hits++
		return existing, false, nil
	}

	hash, err := calculateFileHash(filePath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to calculate hash for %s: %w", filePath, err)
	}

	if exists && hash == existing.ContentHash {
		logger.Debug("ContentCache: Metadata changed but content same for %s", filePath)
		existing.ModTime = stat.ModTime()
		existing.Size = stat.Size()
		cc.stats.Hits++
		return existing, false, nil
	}

	cc.stats.Misses++
	entry := &models.ContentEntry{
		FilePath:    filePath,
		ContentHash: hash,
		ModTime:     stat.ModTime(),
		Size:        stat.Size(),
		Exists:      true,
	}
	cc.entries[filePath] = entry
	logger.Debug("ContentCache: Content changed for %s (hash %s)", filePath, hash[:8])
	return entry, true, nil
}

func (cc *ContentCache) GetStats() *models.CacheStats {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	stats := cc.stats
	stats.TotalEntries = len(cc.entries)
	stats.LastUpdate = time.Now()
	stats.CalculateHitRate()
	return &stats
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

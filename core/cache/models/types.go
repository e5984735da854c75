package models

import (
	"time"
)

// ContentEntry tracks the last seen state of a watched module file.
type ContentEntry struct {
	FilePath    string    `json:"file_path"`
	ContentHash string    `json:"content_hash"`
	ModTime     time.Time `json:"mod_time"`
	Size        int64     `json:"size"`
	Exists      bool      `json:"exists"`
}

// CacheStats provides metrics about cache performance
type CacheStats struct {
	TotalEntries  int       `json:"total_entries"`
	Hits          int64     `json:"hits"`
	Misses        int64     `json:"misses"`
	Invalidations int64     `json:"invalidations"`
	HitRate       float64   `json:"hit_rate"`
	LastUpdate    time.Time `json:"last_update"`
}

func (s *CacheStats) CalculateHitRate() {
	total := s.Hits + s.Misses
	if total > 0 {
		s.HitRate = float64(s.Hits) / float64(total) * 100
	} else {
		s.HitRate = 0
	}
}

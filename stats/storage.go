package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MonthlyStats represents usage counters for a specific month
type MonthlyStats struct {
	ScoresComputed      int       `json:"scores_computed"`
	PageAnalyses        int       `json:"page_analyses"`
	AnalysisCacheHits   int       `json:"analysis_hits"`
	AnalysisCacheMisses int       `json:"analysis_misses"`
	LinkCacheHits       int       `json:"link_hits"`
	LinkCacheMisses     int       `json:"link_misses"`
	LastUpdated         time.Time `json:"last_updated"`
}

// Delta is added to the current month's counters by Record
type Delta struct {
	ScoresComputed      int
	PageAnalyses        int
	AnalysisCacheHits   int
	AnalysisCacheMisses int
	LinkCacheHits       int
	LinkCacheMisses     int
}

// Storage handles persistent storage of usage statistics
type Storage struct {
	mutex       sync.RWMutex
	saveMutex   sync.Mutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	stopped     chan struct{}
	shutdown    sync.Once
	logger      *zap.Logger
	now         func() time.Time
}

// NewStorage creates a statistics storage backed by <dataDir>/stats.json
func NewStorage(dataDir string, logger *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		logger:      logger,
		now:         time.Now,
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// Save writes statistics to disk through a temporary file and rename
func (s *Storage) Save() error {
	s.saveMutex.Lock()
	defer s.saveMutex.Unlock()

	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

func (s *Storage) backgroundWriter() {
	defer close(s.stopped)

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.saveAndLog()
		case <-ticker.C:
			s.saveAndLog()
		case <-s.done:
			return
		}
	}
}

func (s *Storage) saveAndLog() {
	if err := s.Save(); err != nil {
		s.logger.Warn("failed to persist statistics", zap.String("path", s.filePath), zap.Error(err))
	}
}

func (s *Storage) currentMonth() string {
	return s.now().Format("2006-01")
}

// requestWrite signals that a write to disk is needed
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// write already pending
	}
}

// Record adds d to the current month's counters
func (s *Storage) Record(d Delta) {
	month := s.currentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, exists := s.stats[month]
	if !exists {
		stats = &MonthlyStats{}
		s.stats[month] = stats
	}

	stats.ScoresComputed += d.ScoresComputed
	stats.PageAnalyses += d.PageAnalyses
	stats.AnalysisCacheHits += d.AnalysisCacheHits
	stats.AnalysisCacheMisses += d.AnalysisCacheMisses
	stats.LinkCacheHits += d.LinkCacheHits
	stats.LinkCacheMisses += d.LinkCacheMisses
	stats.LastUpdated = s.now()

	if s.now().Sub(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = s.now()
	}
}

// GetCurrentStats returns statistics for the current month
func (s *Storage) GetCurrentStats() MonthlyStats {
	stats, _ := s.GetMonthlyStats(s.currentMonth())
	return stats
}

// GetMonthlyStats returns statistics for a specific month
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[yearMonth]; exists {
		return *stats, true
	}
	return MonthlyStats{}, false
}

// Cleanup drops statistics older than retainMonths months, counting the
// current month as the first one.
func (s *Storage) Cleanup(retainMonths int) {
	if retainMonths < 1 {
		retainMonths = 1
	}

	now := s.now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	keep := make(map[string]bool, retainMonths)
	for i := 0; i < retainMonths; i++ {
		keep[firstOfMonth.AddDate(0, -i, 0).Format("2006-01")] = true
	}

	s.mutex.Lock()
	removed := 0
	for key := range s.stats {
		if !keep[key] {
			delete(s.stats, key)
			removed++
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
	s.logger.Debug("cleaned up statistics", zap.Int("retainMonths", retainMonths), zap.Int("removed", removed))
}

// GetAllMonths returns all months with statistics, newest first
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}

// Shutdown stops the background writer and saves a final snapshot
func (s *Storage) Shutdown() error {
	var err error
	s.shutdown.Do(func() {
		close(s.done)
		<-s.stopped
		err = s.Save()
	})
	return err
}

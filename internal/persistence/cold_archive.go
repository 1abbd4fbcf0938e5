package persistence

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"fixd/internal/models"
	"fixd/internal/persistence/interfaces"
	"fixd/internal/providers"
	"fixd/internal/structures"
)

const coldFileName = "sessions.cold.zst"

// ColdEntry is a single archived diagnostic session.
type ColdEntry struct {
	Session   models.DiagnosticSession `json:"session"`
	EvictedAt time.Time                `json:"evicted_at"`
}

// ColdFile is the on-disk format of the session archive.
type ColdFile struct {
	Entries map[string]*ColdEntry `json:"entries"`
}

// ColdArchive keeps diagnostic sessions that were evicted from the
// bounded in-memory history. Evictions buffer in memory; Flush is the
// only method that writes to disk.
type ColdArchive struct {
	mu         sync.RWMutex
	dir        string
	index      map[string]struct{}
	pending    map[string]*ColdEntry
	restored   map[string]struct{}
	loaded     *ColdFile
	ttl        time.Duration
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

// NewSessionArchive builds the archive from config; the DI graph uses
// this constructor.
func NewSessionArchive(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *ColdArchive {
	return NewColdArchive(conf.History.ArchiveDir, conf.History.ArchiveTTL, compressor, logger)
}

func NewColdArchive(dir string, ttl time.Duration, compressor interfaces.CompressorInterface, logger providers.Logger) *ColdArchive {
	return &ColdArchive{
		dir:        dir,
		index:      make(map[string]struct{}),
		pending:    make(map[string]*ColdEntry),
		restored:   make(map[string]struct{}),
		ttl:        ttl,
		compressor: compressor,
		logger:     logger,
	}
}

// Has checks if a session id exists in the archive (index or pending).
func (ca *ColdArchive) Has(id string) bool {
	ca.mu.RLock()
	defer ca.mu.RUnlock()
	_, exists := ca.index[id]
	return exists
}

// Archive buffers an evicted session for the next flush. No disk I/O.
func (ca *ColdArchive) Archive(session models.DiagnosticSession) {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	ca.pending[session.ID] = &ColdEntry{
		Session:   session,
		EvictedAt: time.Now(),
	}
	ca.index[session.ID] = struct{}{}
}

// Restore retrieves an archived session by id, removing it from the
// archive. The file rewrite is deferred to Flush. A missing id yields
// (nil, nil).
func (ca *ColdArchive) Restore(id string) (*models.DiagnosticSession, error) {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	if entry, ok := ca.pending[id]; ok {
		session := entry.Session
		delete(ca.pending, id)
		delete(ca.index, id)
		return &session, nil
	}

	coldFile := ca.getOrLoadColdFile()
	if coldFile == nil {
		delete(ca.index, id)
		return nil, nil
	}

	entry, ok := coldFile.Entries[id]
	if !ok {
		delete(ca.index, id)
		return nil, nil
	}

	session := entry.Session
	ca.restored[id] = struct{}{}
	delete(ca.index, id)
	return &session, nil
}

// Flush writes pending entries, applies deferred removals and drops
// entries older than the TTL.
func (ca *ColdArchive) Flush() error {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	if len(ca.pending) == 0 && len(ca.restored) == 0 {
		return nil
	}

	coldFile := ca.getOrLoadColdFile()
	if coldFile == nil {
		coldFile = &ColdFile{Entries: make(map[string]*ColdEntry)}
	}

	for id := range ca.restored {
		delete(coldFile.Entries, id)
	}
	for id, entry := range ca.pending {
		coldFile.Entries[id] = entry
	}

	if ca.ttl > 0 {
		now := time.Now()
		for id, entry := range coldFile.Entries {
			if now.Sub(entry.EvictedAt) > ca.ttl {
				delete(coldFile.Entries, id)
				delete(ca.index, id)
			}
		}
	}

	if len(coldFile.Entries) > 0 {
		if err := ca.writeColdFile(coldFile); err != nil {
			return err
		}
		ca.loaded = coldFile
	} else {
		os.Remove(ca.coldFilePath())
		ca.loaded = nil
	}

	ca.pending = make(map[string]*ColdEntry)
	ca.restored = make(map[string]struct{})
	return nil
}

// RestoreIndex scans the archive file and rebuilds the id index.
// Called once at startup.
func (ca *ColdArchive) RestoreIndex() error {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	if err := os.MkdirAll(ca.dir, 0755); err != nil {
		return err
	}

	coldFile := ca.loadColdFileFromDisk()
	if coldFile == nil {
		return nil
	}

	ca.index = make(map[string]struct{}, len(coldFile.Entries))
	for id := range coldFile.Entries {
		ca.index[id] = struct{}{}
	}
	// Only index keys are kept; entries load lazily on Restore.
	return nil
}

// getOrLoadColdFile returns the cached archive or loads it from disk.
// Must be called under ca.mu.Lock().
func (ca *ColdArchive) getOrLoadColdFile() *ColdFile {
	if ca.loaded != nil {
		return ca.loaded
	}
	cf := ca.loadColdFileFromDisk()
	if cf != nil {
		ca.loaded = cf
	}
	return cf
}

func (ca *ColdArchive) loadColdFileFromDisk() *ColdFile {
	path := ca.coldFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			ca.logger.Errorf(providers.TypeApp, "Failed to read archive file %s: %s", path, err)
		}
		return nil
	}

	decompressed, err := ca.compressor.Decompress(data)
	if err != nil {
		ca.logger.Errorf(providers.TypeApp, "Failed to decompress archive file %s: %s", path, err)
		return nil
	}

	var cf ColdFile
	if err := json.Unmarshal(decompressed, &cf); err != nil {
		ca.logger.Errorf(providers.TypeApp, "Failed to parse archive file %s: %s", path, err)
		return nil
	}

	if cf.Entries == nil {
		cf.Entries = make(map[string]*ColdEntry)
	}
	return &cf
}

func (ca *ColdArchive) writeColdFile(cf *ColdFile) error {
	jsonData, err := json.Marshal(cf)
	if err != nil {
		return err
	}

	compressed, err := ca.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	path := ca.coldFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, path)
}

func (ca *ColdArchive) coldFilePath() string {
	return filepath.Join(ca.dir, coldFileName)
}

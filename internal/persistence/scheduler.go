package persistence

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"fixd/internal/persistence/interfaces"
	"fixd/internal/providers"
	"fixd/internal/services"
	"fixd/internal/structures"
)

// Scheduler drives the periodic work: snapshot persistence, cold-archive
// flushes and the follow-up due sweep. All jobs share one mutex so a
// slow persist never overlaps a flush.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	outcome     services.OutcomeServiceInterface
	fileManager *FileManager
	archive     *ColdArchive
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	saveInterval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(saveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		start := time.Now()
		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		if err = s.archive.Flush(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while flushing session archive: %s", err)
			return
		}
		s.metrics.ObservePersistenceDuration(time.Since(start))
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	if sweep := s.config.FollowUp.SweepInterval; sweep > 0 {
		s.cron.AddFunc(gron.Every(sweep), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			due := s.outcome.DueCount()
			if due > 0 {
				s.logger.Infof(providers.TypeApp, "%d repair follow-ups due", due)
			}
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath); err != nil {
		return err
	}
	return s.archive.RestoreIndex()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting state to file...")
	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	if err = s.archive.Flush(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing session archive: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, outcome services.OutcomeServiceInterface, fileManager *FileManager, archive *ColdArchive, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		outcome:     outcome,
		fileManager: fileManager,
		archive:     archive,
		metrics:     metrics,
	}
}

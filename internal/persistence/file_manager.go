package persistence

import (
	"os"

	json "github.com/goccy/go-json"

	"fixd/internal/models"
	"fixd/internal/persistence/interfaces"
	"fixd/internal/providers"
	"fixd/internal/services"
)

// FileManager persists the daemon state as a single versioned snapshot:
// three namespaced blobs (subscription, repair-outcome, settings) in one
// envelope, JSON-encoded and zstd-compressed, written atomically.
type FileManager struct {
	subscription services.SubscriptionServiceInterface
	outcome      services.OutcomeServiceInterface
	settings     *models.SettingsState
	compressor   interfaces.CompressorInterface
	logger       providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, subscription services.SubscriptionServiceInterface, outcome services.OutcomeServiceInterface, settings *models.SettingsState, logger providers.Logger) *FileManager {
	return &FileManager{
		subscription: subscription,
		outcome:      outcome,
		settings:     settings,
		compressor:   compressor,
		logger:       logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	settings := f.settings.Get()
	snapshot := models.SnapshotV2{
		Version:      models.SnapshotVersion,
		Subscription: f.subscription.Snapshot(),
		RepairData:   f.outcome.Snapshot(),
		Settings:     &settings,
	}

	jsonData, err := json.Marshal(&snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	// Current format: versioned envelope. V1 files carry the same blob
	// shapes without a version field and unmarshal with Version zero.
	var snapshot models.SnapshotV2
	if err := json.Unmarshal(decompressedData, &snapshot); err == nil && f.restoreSnapshot(&snapshot) {
		if snapshot.Version < models.SnapshotVersion {
			f.logger.Warnf(providers.TypeApp, "Migrated snapshot from version %d", snapshot.Version)
		}
		return nil
	}

	// Mobile export format: the app persisted three storage blobs keyed
	// by their store names.
	f.logger.Warnf(providers.TypeApp, "Inconsistent snapshot found, try to migrate from mobile export format")
	var export struct {
		Subscription *models.SubscriptionBlob `json:"subscription-storage"`
		RepairData   *models.OutcomeBlob      `json:"repair-outcome-storage"`
		Settings     *models.Settings         `json:"settings-storage"`
	}
	if err := json.Unmarshal(decompressedData, &export); err != nil {
		f.logger.Warnf(providers.TypeApp, "Migration failed")
		return err
	}
	migrated := models.SnapshotV2{
		Subscription: export.Subscription,
		RepairData:   export.RepairData,
		Settings:     export.Settings,
	}
	if !f.restoreSnapshot(&migrated) {
		f.logger.Warnf(providers.TypeApp, "Migration failed")
		return ErrUnknownSnapshotFormat
	}
	f.logger.Warnf(providers.TypeApp, "Migration from mobile export format successful")
	return nil
}

// restoreSnapshot applies whichever blobs are present and reports
// whether the envelope held anything at all.
func (f *FileManager) restoreSnapshot(snapshot *models.SnapshotV2) bool {
	if snapshot.Subscription == nil && snapshot.RepairData == nil && snapshot.Settings == nil {
		return false
	}
	if snapshot.Subscription != nil {
		f.subscription.Restore(snapshot.Subscription)
	}
	if snapshot.RepairData != nil {
		f.outcome.Restore(snapshot.RepairData)
	}
	if snapshot.Settings != nil {
		f.settings.Put(*snapshot.Settings)
	}
	return true
}

package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driving"
	"github.com/custodia-labs/structpdf-cli/internal/logger"
)

// Ensure ScanService implements the interface.
var _ driving.ScanService = (*ScanService)(nil)

// watchProbeRate bounds how fast watch mode re-probes documents when the
// filesystem produces event bursts (editors typically emit several writes
// per save).
var watchProbeRate = rate.Every(100 * time.Millisecond)

// ScanService walks directory trees probing PDF files for payloads and
// records the outcomes in the scan catalog.
type ScanService struct {
	loader driven.DocumentLoader
	store  driven.ScanStore
	probe  driving.ExtractService
	now    func() time.Time
}

// NewScanService creates a new scan service.
func NewScanService(loader driven.DocumentLoader, store driven.ScanStore, probe driving.ExtractService) *ScanService {
	return &ScanService{
		loader: loader,
		store:  store,
		probe:  probe,
		now:    time.Now,
	}
}

// Scan probes every PDF under the given roots. Unreadable files are
// recorded as payload-free rather than aborting the walk; batch scanning
// must survive individual bad documents.
func (s *ScanService) Scan(ctx context.Context, roots []string) ([]domain.ScanRecord, error) {
	var records []domain.ScanRecord

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !isPDF(path) {
				return nil
			}

			rec, err := s.probeFile(ctx, path)
			if err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
		if err != nil {
			return records, fmt.Errorf("scanning %s: %w", root, err)
		}
	}

	logger.Info("scanned %d documents", len(records))
	return records, nil
}

// Watch follows filesystem events under the roots, re-probing documents as
// they appear or change. Sub-directories present at start are watched;
// directories created later are added as their create events arrive.
func (s *ScanService) Watch(ctx context.Context, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := watchRecursive(watcher, root); err != nil {
			return err
		}
	}

	limiter := rate.NewLimiter(watchProbeRate, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if err := s.handleEvent(ctx, watcher, limiter, event); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// Records returns the current catalog contents.
func (s *ScanService) Records(ctx context.Context) ([]domain.ScanRecord, error) {
	return s.store.ListRecords(ctx)
}

func (s *ScanService) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, limiter *rate.Limiter, event fsnotify.Event) error {
	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return watchRecursive(watcher, event.Name)
		}

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		if isPDF(event.Name) {
			if err := s.store.DeleteRecord(ctx, event.Name); err != nil {
				logger.Warn("dropping record for %s: %v", event.Name, err)
			}
		}
		return nil
	}

	if !isPDF(event.Name) || !(event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write)) {
		return nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := s.probeFile(ctx, event.Name); err != nil {
		logger.Warn("probing %s: %v", event.Name, err)
	}
	return nil
}

func (s *ScanService) probeFile(ctx context.Context, path string) (domain.ScanRecord, error) {
	rec := domain.ScanRecord{
		ID:        uuid.NewString(),
		Path:      path,
		ScannedAt: s.now().UTC(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
	} else if s.probe.HasPayload(ctx, data) {
		rec.HasPayload = true
		rec.Domain, rec.Version = s.signalDetails(data)
	}

	if err := s.store.SaveRecord(ctx, rec); err != nil {
		return rec, fmt.Errorf("recording scan of %s: %w", path, err)
	}
	logger.Debug("scanned %s: payload=%v", path, rec.HasPayload)
	return rec, nil
}

// signalDetails reads domain and version from the keyword signal and the
// custom metadata keys, without opening the name tree.
func (s *ScanService) signalDetails(data []byte) (payloadDomain, version string) {
	doc, err := s.loader.Load(data)
	if err != nil {
		return "", ""
	}
	if sig, found := doc.Signal(); found {
		payloadDomain = sig.Domain
	}
	if v, ok := doc.CustomInfo(domain.InfoKeyVersion); ok {
		version = v
	}
	return payloadDomain, version
}

func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/domain/repositories"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/tabular"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/xlsx"
)

var (
	// ErrNoLocations is returned when the repository has nowhere to read or write
	ErrNoLocations = errors.New("no inventory locations configured")
	// ErrStaleInventory is returned when the target file changed since it was last read or written
	ErrStaleInventory = errors.New("inventory file changed on disk since it was loaded")
	// ErrPersistFailed is returned when every location rejected the write
	ErrPersistFailed = errors.New("inventory could not be saved to any location")
)

// Location is one persisted copy of the inventory table
type Location struct {
	Path   string
	Format string // empty means infer from the extension
}

// Options configures the repository
type Options struct {
	Defaults      tabular.Defaults
	ConflictCheck bool
}

type fingerprint struct {
	exists  bool
	modTime time.Time
	size    int64
}

type target struct {
	location Location
	codec    repositories.TableCodec
}

// Repository persists the inventory table to an ordered list of file locations.
// Reads use the first location that exists; writes fall back down the list.
type Repository struct {
	targets       []target
	conflictCheck bool
	logger        *zap.Logger

	mutex  sync.Mutex
	seen   map[string]fingerprint
	active int // first location to try, advanced after a fallback save
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*Repository)(nil)

// NewRepository creates a repository over the given locations
func NewRepository(locations []Location, opts Options, logger *zap.Logger) (*Repository, error) {
	if len(locations) == 0 {
		return nil, ErrNoLocations
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	targets := make([]target, 0, len(locations))
	for _, loc := range locations {
		codec, err := CodecFor(loc, opts.Defaults)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target{location: loc, codec: codec})
	}

	return &Repository{
		targets:       targets,
		conflictCheck: opts.ConflictCheck,
		logger:        logger,
		seen:          make(map[string]fingerprint),
	}, nil
}

// CodecFor resolves the codec for a location from its format or file extension
func CodecFor(loc Location, defaults tabular.Defaults) (repositories.TableCodec, error) {
	format := strings.ToLower(strings.TrimSpace(loc.Format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(loc.Path)), ".")
	}

	switch format {
	case "xlsx":
		return xlsx.NewCodec(defaults), nil
	case "csv":
		return csv.NewCodec(defaults), nil
	case "sqlite", "sqlite3", "db":
		return sqlite.NewCodec(defaults), nil
	default:
		return nil, fmt.Errorf("unsupported inventory format %q for %s (expected: xlsx, csv or sqlite)", format, loc.Path)
	}
}

// Locations returns the configured locations in fallback order
func (r *Repository) Locations() []Location {
	locations := make([]Location, len(r.targets))
	for i, t := range r.targets {
		locations[i] = t.location
	}
	return locations
}

// Load reads the first existing location. When none exists the result is an
// empty table; a file that exists but cannot be decoded is an error.
// Every location is fingerprinted, so a later fallback save still detects a
// secondary file that changed since this load.
func (r *Repository) Load(ctx context.Context) (*entities.Inventory, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	fingerprints := make([]fingerprint, len(r.targets))
	for i, t := range r.targets {
		fp, err := stat(t.location.Path)
		if err != nil {
			return nil, err
		}
		fingerprints[i] = fp
		r.seen[t.location.Path] = fp
	}

	for i := r.active; i < len(r.targets); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := r.targets[i]
		if !fingerprints[i].exists {
			r.logger.Debug("inventory location not found, trying next",
				zap.String("path", t.location.Path))
			continue
		}

		inv, err := t.codec.Read(t.location.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load inventory from %s: %w", t.location.Path, err)
		}

		r.logger.Info("inventory loaded",
			zap.String("path", t.location.Path),
			zap.String("format", t.codec.Format()),
			zap.Int("records", inv.Len()))
		return inv, nil
	}

	r.logger.Warn("no inventory file found, starting with an empty table",
		zap.Int("locations", len(r.targets)))
	return entities.NewInventory(), nil
}

// Save writes the full table to the first location that accepts it.
// A write failure falls back to the next location; a detected conflict does not.
func (r *Repository) Save(ctx context.Context, inv *entities.Inventory) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var failures []error
	for i := range r.targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		t := r.targets[i]
		if err := r.checkConflict(t.location.Path); err != nil {
			return err
		}

		if err := t.codec.Write(t.location.Path, inv); err != nil {
			r.logger.Warn("inventory save failed, trying next location",
				zap.String("path", t.location.Path),
				zap.Error(err))
			failures = append(failures, err)
			continue
		}

		fp, err := stat(t.location.Path)
		if err == nil {
			r.seen[t.location.Path] = fp
		}
		if i != r.active {
			r.logger.Warn("inventory saved to fallback location",
				zap.String("path", t.location.Path))
		}
		r.active = i

		r.logger.Info("inventory saved",
			zap.String("path", t.location.Path),
			zap.String("format", t.codec.Format()),
			zap.Int("records", inv.Len()))
		return nil
	}

	return fmt.Errorf("%w: %w", ErrPersistFailed, errors.Join(failures...))
}

func (r *Repository) checkConflict(path string) error {
	if !r.conflictCheck {
		return nil
	}
	known, ok := r.seen[path]
	if !ok {
		return nil
	}
	current, err := stat(path)
	if err != nil {
		return err
	}
	if current.exists != known.exists || current.size != known.size || !current.modTime.Equal(known.modTime) {
		return fmt.Errorf("%w: %s", ErrStaleInventory, path)
	}
	return nil
}

func stat(path string) (fingerprint, error) {
	info, err := os.Stat(path)
	// A parent that is a regular file means the location cannot exist either
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fingerprint{}, nil
	}
	if err != nil {
		return fingerprint{}, fmt.Errorf("failed to stat inventory file %s: %w", path, err)
	}
	if info.IsDir() {
		return fingerprint{}, fmt.Errorf("inventory location %s is a directory", path)
	}
	return fingerprint{exists: true, modTime: info.ModTime(), size: info.Size()}, nil
}

package almanac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/zapponejosh/lunisolar-api/internal/calendar"
)

// ErrNotCached is returned by a Store that holds no usable entry for a year.
var ErrNotCached = errors.New("almanac year not cached")

// Store persists computed almanac years.
// *database.DB satisfies this interface.
type Store interface {
	LoadAlmanac(ctx context.Context, year, version int) ([]byte, error)
	SaveAlmanac(ctx context.Context, year, version int, blob []byte) error
}

// Service returns almanac years, computing them on a cache miss.
type Service struct {
	store  Store
	logger *slog.Logger
	group  singleflight.Group

	// WarmConcurrency bounds the number of years Warm computes at once.
	WarmConcurrency int
}

// NewService creates a Service. A nil store disables caching.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:           store,
		logger:          logger.With(slog.String("component", "almanac")),
		WarmConcurrency: 4,
	}
}

// Year returns the almanac of year, from the store when possible.
// Concurrent calls for the same year share one computation.
func (s *Service) Year(ctx context.Context, year int) (*YearAlmanac, error) {
	if a, ok := s.cached(ctx, year); ok {
		return a, nil
	}

	v, err, _ := s.group.Do(strconv.Itoa(year), func() (any, error) {
		return s.compute(ctx, year)
	})
	if err != nil {
		return nil, err
	}
	return v.(*YearAlmanac), nil
}

// Warm makes sure every year in [from, to] is cached and returns how many
// years had to be computed. The range is clamped to the supported years; an
// empty result after clamping is ErrOutOfRange.
func (s *Service) Warm(ctx context.Context, from, to int) (int, error) {
	lo, hi := max(from, calendar.MinYear), min(to, calendar.MaxYear)
	if lo > hi {
		return 0, fmt.Errorf("%w: warm range %d..%d", calendar.ErrOutOfRange, from, to)
	}
	from, to = lo, hi

	if s.store == nil {
		return 0, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.WarmConcurrency))

	computed := make([]bool, to-from+1)
	for y := from; y <= to; y++ {
		y, i := y, y-from
		g.Go(func() error {
			if _, ok := s.cached(ctx, y); ok {
				return nil
			}
			if _, err := s.compute(ctx, y); err != nil {
				return fmt.Errorf("warm %d: %w", y, err)
			}
			computed[i] = true
			return nil
		})
	}
	err := g.Wait()

	n := 0
	for _, c := range computed {
		if c {
			n++
		}
	}
	return n, err
}

func (s *Service) cached(ctx context.Context, year int) (*YearAlmanac, bool) {
	if s.store == nil {
		return nil, false
	}

	blob, err := s.store.LoadAlmanac(ctx, year, SchemaVersion)
	if err != nil {
		if !errors.Is(err, ErrNotCached) {
			s.logger.Warn("almanac cache read failed",
				slog.Int("year", year),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	a, err := Decode(blob)
	if err != nil {
		s.logger.Warn("discarding undecodable almanac",
			slog.Int("year", year),
			slog.Any("error", err),
		)
		return nil, false
	}
	return a, true
}

func (s *Service) compute(ctx context.Context, year int) (*YearAlmanac, error) {
	a, err := Build(year)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("almanac computed", slog.Int("year", year))

	if s.store == nil {
		return a, nil
	}

	blob, err := Encode(a)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveAlmanac(ctx, year, SchemaVersion, blob); err != nil {
		// The result is still good; the next request recomputes it.
		s.logger.Warn("almanac cache write failed",
			slog.Int("year", year),
			slog.Any("error", err),
		)
	}
	return a, nil
}

// Encode serialises an almanac for the store.
func Encode(a *YearAlmanac) ([]byte, error) {
	b, err := msgpack.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode almanac %d: %w", a.Year, err)
	}
	return b, nil
}

// Decode reverses Encode.
func Decode(b []byte) (*YearAlmanac, error) {
	var a YearAlmanac
	if err := msgpack.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("decode almanac: %w", err)
	}
	if a.Version != SchemaVersion {
		return nil, fmt.Errorf("decode almanac %d: version %d, want %d", a.Year, a.Version, SchemaVersion)
	}
	return &a, nil
}

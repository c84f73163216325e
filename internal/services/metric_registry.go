package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/healx-backend/internal/data/repos"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const (
	registryEventInvalidate = "invalidate"
	registryLoadTimeout     = 10 * time.Second
)

// MetricRegistry maps metric codes to definitions. Returned definitions are
// shared with the cache and must be treated as read-only.
type MetricRegistry interface {
	// Resolve never fails for unknown codes; they come back in unresolved, in
	// first-seen order.
	Resolve(ctx context.Context, codes []string) (resolved map[string]*types.MetricDefinition, unresolved []string, err error)
	Register(ctx context.Context, def *types.MetricDefinition) (*types.MetricDefinition, bool, error)
	List(ctx context.Context) ([]*types.MetricDefinition, error)
	// Invalidate drops this process's cache and, with a bus, every peer's.
	Invalidate(ctx context.Context) error
	StartInvalidationListener(ctx context.Context) error
}

type metricRegistry struct {
	log     *logger.Logger
	metrics *observability.Metrics
	repo    repos.MetricDefinitionRepo
	bus     RegistryBus
	ttl     time.Duration
	origin  string
	now     func() time.Time

	mu       sync.RWMutex
	byCode   map[string]*types.MetricDefinition
	loadedAt time.Time
	// gen advances on every cache drop; loads started under an older gen
	// must not repopulate byCode.
	gen uint64

	group singleflight.Group
}

func NewMetricRegistry(
	log *logger.Logger,
	metrics *observability.Metrics,
	repo repos.MetricDefinitionRepo,
	bus RegistryBus,
	ttl time.Duration,
) MetricRegistry {
	return &metricRegistry{
		log:     log.With("service", "MetricRegistry"),
		metrics: metrics,
		repo:    repo,
		bus:     bus,
		ttl:     ttl,
		origin:  uuid.NewString(),
		now:     time.Now,
		byCode:  map[string]*types.MetricDefinition{},
	}
}

func (r *metricRegistry) Resolve(ctx context.Context, codes []string) (map[string]*types.MetricDefinition, []string, error) {
	wanted := dedupeCodes(codes)
	resolved := make(map[string]*types.MetricDefinition, len(wanted))
	if len(wanted) == 0 {
		return resolved, nil, nil
	}
	r.expireIfStale()

	var missing []string
	r.mu.RLock()
	for _, code := range wanted {
		if def, ok := r.byCode[code]; ok {
			resolved[code] = def
		} else {
			missing = append(missing, code)
		}
	}
	r.mu.RUnlock()
	r.metrics.ObserveRegistryLookup(len(wanted)-len(missing), len(missing))

	if len(missing) > 0 {
		loaded, err := r.load(ctx, missing)
		if err != nil {
			return nil, nil, err
		}
		for code, def := range loaded {
			resolved[code] = def
		}
	}

	var unresolved []string
	for _, code := range wanted {
		if _, ok := resolved[code]; !ok {
			unresolved = append(unresolved, code)
		}
	}
	return resolved, unresolved, nil
}

// load fetches codes in one query. Concurrent callers asking for the same
// set share that query, which runs detached from any single caller's
// cancellation; each caller still stops waiting when its own ctx ends.
func (r *metricRegistry) load(ctx context.Context, codes []string) (map[string]*types.MetricDefinition, error) {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)

	r.mu.RLock()
	gen := r.gen
	r.mu.RUnlock()
	key := strconv.FormatUint(gen, 10) + "\x00" + strings.Join(sorted, "\x00")

	ch := r.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), registryLoadTimeout)
		defer cancel()
		defs, err := r.repo.GetByCodes(loadCtx, nil, sorted)
		if err != nil {
			return nil, repos.MapError("registry.resolve", err)
		}
		out := make(map[string]*types.MetricDefinition, len(defs))
		for _, def := range defs {
			out[def.Code] = def
		}
		r.mu.Lock()
		if r.gen == gen {
			if r.loadedAt.IsZero() {
				r.loadedAt = r.now()
			}
			for code, def := range out {
				r.byCode[code] = def
			}
		}
		r.mu.Unlock()
		return out, nil
	})

	select {
	case <-ctx.Done():
		return nil, errs.Wrap(errs.CodeStorageUnavailable, "registry.resolve", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(map[string]*types.MetricDefinition), nil
	}
}

func (r *metricRegistry) expireIfStale() {
	if r.ttl <= 0 {
		return
	}
	r.mu.RLock()
	stale := !r.loadedAt.IsZero() && r.now().Sub(r.loadedAt) > r.ttl
	r.mu.RUnlock()
	if stale {
		r.dropCache("ttl")
	}
}

func (r *metricRegistry) dropCache(trigger string) {
	r.mu.Lock()
	r.byCode = map[string]*types.MetricDefinition{}
	r.loadedAt = time.Time{}
	r.gen++
	r.mu.Unlock()
	r.metrics.IncRegistryInvalidation(trigger)
}

// Register adds def, or reconciles it with an existing definition of the same
// code. Category and unit are immutable; descriptive fields are refreshed.
// The bool result reports whether a new row was created.
func (r *metricRegistry) Register(ctx context.Context, def *types.MetricDefinition) (*types.MetricDefinition, bool, error) {
	const op = "registry.register"
	if def == nil {
		return nil, false, errs.Validation(op, "definition is required")
	}
	def.Code = strings.TrimSpace(def.Code)
	if problem := def.Problem(); problem != "" {
		return nil, false, errs.Validation(op, "%s", problem)
	}

	existing, err := r.repo.GetByCodes(ctx, nil, []string{def.Code})
	if err != nil {
		return nil, false, repos.MapError(op, err)
	}
	if len(existing) == 0 {
		created, err := r.repo.Create(ctx, nil, []*types.MetricDefinition{def})
		switch {
		case err == nil:
			r.log.Info("metric registered", "code", def.Code, "category", def.Category)
			if ierr := r.Invalidate(ctx); ierr != nil {
				r.log.Warn("registry invalidation broadcast failed", "error", ierr)
			}
			return created[0], true, nil
		case errs.IsCode(repos.MapError(op, err), errs.CodeConflict):
			// Lost a race with another registration; reconcile against the winner.
			existing, err = r.repo.GetByCodes(ctx, nil, []string{def.Code})
			if err != nil {
				return nil, false, repos.MapError(op, err)
			}
			if len(existing) == 0 {
				return nil, false, errs.New(errs.CodeConflict, op, "concurrent registration of "+def.Code)
			}
		default:
			return nil, false, repos.MapError(op, err)
		}
	}

	current := existing[0]
	if !current.SameShape(def) {
		return nil, false, errs.New(errs.CodeConflict, op,
			"metric "+def.Code+" already registered with category "+string(current.Category)+" and unit "+current.Unit)
	}
	def.ID = current.ID
	if err := r.repo.UpdateDescriptive(ctx, nil, def); err != nil {
		return nil, false, repos.MapError(op, err)
	}
	if ierr := r.Invalidate(ctx); ierr != nil {
		r.log.Warn("registry invalidation broadcast failed", "error", ierr)
	}
	return def, false, nil
}

func (r *metricRegistry) List(ctx context.Context) ([]*types.MetricDefinition, error) {
	defs, err := r.repo.ListAll(ctx, nil)
	if err != nil {
		return nil, repos.MapError("registry.list", err)
	}
	return defs, nil
}

func (r *metricRegistry) Invalidate(ctx context.Context) error {
	r.dropCache("local")
	if r.bus == nil {
		return nil
	}
	return r.bus.Publish(ctx, RegistryEvent{Kind: registryEventInvalidate, Origin: r.origin, At: r.now().UTC()})
}

func (r *metricRegistry) StartInvalidationListener(ctx context.Context) error {
	if r.bus == nil {
		return nil
	}
	return r.bus.StartForwarder(ctx, func(evt RegistryEvent) {
		if evt.Kind != registryEventInvalidate || evt.Origin == r.origin {
			return
		}
		r.dropCache("remote")
		r.log.Debug("registry cache dropped by peer", "origin", evt.Origin)
	})
}

func dedupeCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

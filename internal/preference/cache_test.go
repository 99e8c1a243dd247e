package preference

//go:generate mockgen -source=models.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"tonetags/internal/preference/metrics"
	"tonetags/internal/preference/mocks"
	"tonetags/internal/preference/store"
	"tonetags/internal/standard"
	id "tonetags/pkg/domain"
	"tonetags/pkg/platform/sentinel"
)

type CacheSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	registry *standard.Registry
	metrics  *metrics.Metrics
	cache    *Cache
	ctx      context.Context
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.ctx = context.Background()

	var err error
	s.registry, err = standard.NewRegistry(
		standard.Document{ID: "core", Text: "# Core\n## /nm\nExplanation A\n"},
		standard.Document{ID: "extra", Text: "# Extra\n## /nm\nExplanation B\n"},
	)
	s.Require().NoError(err)

	s.metrics = metrics.New(prometheus.NewRegistry())
	s.cache, err = NewCache(s.store, s.registry, WithMetrics(s.metrics))
	s.Require().NoError(err)
}

func (s *CacheSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CacheSuite) TestNewCache() {
	s.Run("nil store returns error", func() {
		_, err := NewCache(nil, s.registry)
		s.Require().Error(err)
		s.Contains(err.Error(), "preference store is required")
	})

	s.Run("nil registry returns error", func() {
		_, err := NewCache(s.store, nil)
		s.Require().Error(err)
	})

	s.Run("capacity defaults and overrides", func() {
		c, err := NewCache(s.store, s.registry)
		s.Require().NoError(err)
		s.Equal(DefaultCapacity, c.Capacity())

		c, err = NewCache(s.store, s.registry, WithCapacity(3), WithCapacity(0))
		s.Require().NoError(err)
		s.Equal(3, c.Capacity())
	})
}

func (s *CacheSuite) TestGet() {
	s.Run("never-seen user gets the cached default", func() {
		user := id.UserID(1)
		s.store.EXPECT().Find(gomock.Any(), user).Return(nil, sentinel.ErrNotFound).Times(1)

		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"core"}, ids)

		// Second lookup is served from memory; the mock fails on a second Find.
		ids, err = s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"core"}, ids)
	})

	s.Run("stored record is filtered against the registry", func() {
		user := id.UserID(2)
		s.store.EXPECT().Find(gomock.Any(), user).Return([]string{"extra", "retired", "core"}, nil)

		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"extra", "core"}, ids)
	})

	s.Run("stored empty list stays empty", func() {
		user := id.UserID(3)
		s.store.EXPECT().Find(gomock.Any(), user).Return([]string{}, nil)

		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Empty(ids)
	})

	s.Run("store failure propagates and caches nothing", func() {
		user := id.UserID(4)
		storeErr := errors.New("connection refused")
		s.store.EXPECT().Find(gomock.Any(), user).Return(nil, storeErr)

		_, err := s.cache.Get(s.ctx, user)
		s.Require().Error(err)
		s.ErrorIs(err, storeErr)

		s.store.EXPECT().Find(gomock.Any(), user).Return(nil, sentinel.ErrNotFound)
		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"core"}, ids)
	})

	s.Run("returned slice does not alias the cache", func() {
		user := id.UserID(5)
		s.store.EXPECT().Find(gomock.Any(), user).Return([]string{"core"}, nil)

		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		ids[0] = "mutated"

		ids, err = s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"core"}, ids)
	})
}

func (s *CacheSuite) TestUpdate() {
	s.Run("update then get skips the store", func() {
		user := id.UserID(10)
		s.store.EXPECT().Upsert(gomock.Any(), user, []string{"extra", "core"}).Return(nil)

		count, err := s.cache.Update(s.ctx, user, []string{"extra", "core", "extra"})
		s.Require().NoError(err)
		s.Equal(2, count)

		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"extra", "core"}, ids)
	})

	s.Run("unknown ids are dropped before persisting", func() {
		user := id.UserID(11)
		s.store.EXPECT().Upsert(gomock.Any(), user, []string{"core"}).Return(nil)

		count, err := s.cache.Update(s.ctx, user, []string{"nope", "core"})
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("empty list disables everything", func() {
		user := id.UserID(12)
		s.store.EXPECT().Upsert(gomock.Any(), user, []string{}).Return(nil)

		count, err := s.cache.Update(s.ctx, user, nil)
		s.Require().NoError(err)
		s.Zero(count)

		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Empty(ids)
	})

	s.Run("store failure leaves the cache unchanged", func() {
		user := id.UserID(13)
		s.store.EXPECT().Find(gomock.Any(), user).Return(nil, sentinel.ErrNotFound)
		_, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)

		storeErr := errors.New("deadlock detected")
		s.store.EXPECT().Upsert(gomock.Any(), user, []string{"extra"}).Return(storeErr)
		_, err = s.cache.Update(s.ctx, user, []string{"extra"})
		s.Require().Error(err)
		s.ErrorIs(err, storeErr)

		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"core"}, ids)
	})
}

func (s *CacheSuite) TestDelete() {
	s.Run("unknown user is not an error", func() {
		s.store.EXPECT().Delete(gomock.Any(), id.UserID(20)).Return(nil)
		s.Require().NoError(s.cache.Delete(s.ctx, id.UserID(20)))
		s.Zero(s.cache.Len())
	})

	s.Run("resident entry is dropped and other users are untouched", func() {
		deleted, kept := id.UserID(21), id.UserID(22)
		s.store.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		_, err := s.cache.Update(s.ctx, deleted, []string{"extra"})
		s.Require().NoError(err)
		_, err = s.cache.Update(s.ctx, kept, []string{"extra"})
		s.Require().NoError(err)

		s.store.EXPECT().Delete(gomock.Any(), deleted).Return(nil)
		s.Require().NoError(s.cache.Delete(s.ctx, deleted))

		s.store.EXPECT().Find(gomock.Any(), deleted).Return(nil, sentinel.ErrNotFound)
		ids, err := s.cache.Get(s.ctx, deleted)
		s.Require().NoError(err)
		s.Equal([]string{"core"}, ids)

		ids, err = s.cache.Get(s.ctx, kept)
		s.Require().NoError(err)
		s.Equal([]string{"extra"}, ids)
	})

	s.Run("store failure keeps the resident entry", func() {
		user := id.UserID(23)
		s.store.EXPECT().Upsert(gomock.Any(), user, gomock.Any()).Return(nil)
		_, err := s.cache.Update(s.ctx, user, []string{"extra"})
		s.Require().NoError(err)

		s.store.EXPECT().Delete(gomock.Any(), user).Return(errors.New("timeout"))
		s.Require().Error(s.cache.Delete(s.ctx, user))

		ids, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"extra"}, ids)
	})
}

func (s *CacheSuite) TestCapacity() {
	s.store.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	for i := 1; i <= DefaultCapacity; i++ {
		_, err := s.cache.Update(s.ctx, id.UserID(i), []string{"core"})
		s.Require().NoError(err)
	}
	s.Require().Equal(DefaultCapacity, s.cache.Len())

	s.Run("updating a resident user never evicts", func() {
		_, err := s.cache.Update(s.ctx, id.UserID(1), []string{"extra"})
		s.Require().NoError(err)
		s.Equal(DefaultCapacity, s.cache.Len())
		s.Zero(testutil.ToFloat64(s.metrics.CacheEvictions))
	})

	s.Run("a new user evicts exactly one other resident", func() {
		newcomer := id.UserID(DefaultCapacity + 1)
		_, err := s.cache.Update(s.ctx, newcomer, []string{"extra"})
		s.Require().NoError(err)
		s.Equal(DefaultCapacity, s.cache.Len())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.CacheEvictions))
		s.Equal(float64(DefaultCapacity), testutil.ToFloat64(s.metrics.CacheResident))

		// The newcomer is resident: no Find expectation is registered.
		ids, err := s.cache.Get(s.ctx, newcomer)
		s.Require().NoError(err)
		s.Equal([]string{"extra"}, ids)
	})

	s.Run("a miss into a full cache also evicts", func() {
		missed := id.UserID(DefaultCapacity + 2)
		s.store.EXPECT().Find(gomock.Any(), missed).Return(nil, sentinel.ErrNotFound)
		_, err := s.cache.Get(s.ctx, missed)
		s.Require().NoError(err)
		s.Equal(DefaultCapacity, s.cache.Len())
		s.Equal(2.0, testutil.ToFloat64(s.metrics.CacheEvictions))
	})
}

func (s *CacheSuite) TestHitMissMetrics() {
	user := id.UserID(30)
	s.store.EXPECT().Find(gomock.Any(), user).Return(nil, sentinel.ErrNotFound)

	for range 3 {
		_, err := s.cache.Get(s.ctx, user)
		s.Require().NoError(err)
	}
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CacheMisses))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.CacheHits))
}

// TestConcurrentAccess exercises the single critical section with a real store.
func TestConcurrentAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry, err := standard.NewRegistry(
		standard.Document{ID: "core", Text: "# Core\n"},
		standard.Document{ID: "extra", Text: "# Extra\n"},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	cache, err := NewCache(store.NewInMemory(), registry, WithCapacity(10))
	if err != nil {
		t.Fatalf("cache: %v", err)
	}

	ctx := context.Background()
	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers*3)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := id.UserID(w + 1)
			if _, err := cache.Update(ctx, user, []string{"extra", "core"}); err != nil {
				errs <- err
				return
			}
			ids, err := cache.Get(ctx, user)
			if err != nil {
				errs <- err
				return
			}
			if len(ids) != 2 || ids[0] != "extra" {
				errs <- fmt.Errorf("user %d: unexpected ids %v", user, ids)
			}
			if w%4 == 0 {
				if err := cache.Delete(ctx, user); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if got := cache.Len(); got > 10 {
		t.Fatalf("resident users = %d, want at most 10", got)
	}
}

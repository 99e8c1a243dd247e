//go:build integration

package store_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"tonetags/internal/preference/store"
	id "tonetags/pkg/domain"
	"tonetags/pkg/platform/sentinel"
	"tonetags/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "stds")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	s.Run("missing user returns ErrNotFound", func() {
		_, err := s.store.Find(ctx, id.UserID(1))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("upsert keeps order and overwrites", func() {
		user := id.UserID(2)
		s.Require().NoError(s.store.Upsert(ctx, user, []string{"common-namtao", "core"}))
		s.Require().NoError(s.store.Upsert(ctx, user, []string{"core", "common-namtao"}))

		standards, err := s.store.Find(ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"core", "common-namtao"}, standards)
	})

	s.Run("empty list is stored as empty, not missing", func() {
		user := id.UserID(3)
		s.Require().NoError(s.store.Upsert(ctx, user, nil))

		standards, err := s.store.Find(ctx, user)
		s.Require().NoError(err)
		s.Empty(standards)
	})

	s.Run("ids above MaxInt64 survive the BIGINT column", func() {
		user := id.UserID(math.MaxUint64)
		s.Require().NoError(s.store.Upsert(ctx, user, []string{"core"}))

		standards, err := s.store.Find(ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"core"}, standards)
	})

	s.Run("delete is idempotent", func() {
		user := id.UserID(4)
		s.Require().NoError(s.store.Delete(ctx, user))
		s.Require().NoError(s.store.Upsert(ctx, user, []string{"core"}))
		s.Require().NoError(s.store.Delete(ctx, user))

		_, err := s.store.Find(ctx, user)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.store.Find(ctx, id.UserID(9))
	s.Require().Error(err)
	s.NotErrorIs(err, sentinel.ErrNotFound)
}

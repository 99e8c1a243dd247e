package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tonetags/internal/audit"
	auditmemory "tonetags/internal/audit/store/memory"
	"tonetags/internal/explain"
	"tonetags/internal/explain/metrics"
	"tonetags/internal/preference"
	"tonetags/internal/preference/mocks"
	"tonetags/internal/preference/store"
	"tonetags/internal/standard"
	id "tonetags/pkg/domain"
	dErrors "tonetags/pkg/domain-errors"
	"tonetags/pkg/platform/sentinel"
)

const user = id.UserID(1001)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	registry *standard.Registry
	store    *store.InMemory
	audit    *auditmemory.InMemoryStore
	metrics  *metrics.Metrics
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()

	var err error
	s.registry, err = standard.NewRegistry(
		standard.Document{ID: "core", Text: "# Core standard\nEveryday tags.\n## /nm\nExplanation A\n## /j\nJoking\n"},
		standard.Document{ID: "extra", Text: "# Extra standard\n\n  Rarer tags.  \n## /nm\nExplanation B\n## /ot\nOff topic\n"},
		standard.Document{ID: "common-namtao", Text: "# Common\n## /srs\nSerious\n"},
	)
	s.Require().NoError(err)

	s.store = store.NewInMemory()
	cache, err := preference.NewCache(s.store, s.registry)
	s.Require().NoError(err)

	s.audit = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service, err = New(s.registry, cache,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(audit.NewPublisher(s.audit)),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestNew() {
	_, err := New(nil, nil)
	s.Error(err)
	_, err = New(s.registry, nil)
	s.Error(err)
}

func (s *ServiceSuite) TestExplain() {
	s.Run("new user gets the core standard", func() {
		out, err := s.service.Explain(s.ctx, user, "hello /nm")
		s.Require().NoError(err)
		s.Equal("**core**: Explanation A", out)
	})

	s.Run("registry order decides between enabled standards", func() {
		_, err := s.service.SetStandards(s.ctx, user, "extra,core")
		s.Require().NoError(err)

		out, err := s.service.Explain(s.ctx, user, "hello /nm")
		s.Require().NoError(err)
		s.Equal("**core**: Explanation A", out)
	})

	s.Run("placeholder when nothing is found", func() {
		out, err := s.service.Explain(s.ctx, user, "no tags here")
		s.Require().NoError(err)
		s.Equal(explain.NoTagsFound, out)
	})

	s.Run("records report metrics", func() {
		s.Equal(1.0, testutil.ToFloat64(s.metrics.EmptyReports))
		s.Equal(2.0, testutil.ToFloat64(s.metrics.TagsResolved))
		s.Equal(3.0, testutil.ToFloat64(s.metrics.Commands.WithLabelValues("explain")))
	})
}

func (s *ServiceSuite) TestListStandards() {
	s.Run("default user sees core only", func() {
		out, err := s.service.ListStandards(s.ctx, user, false)
		s.Require().NoError(err)
		s.Equal("## Core standard\n`core`\nEveryday tags.", out)
	})

	s.Run("show disabled marks enabled entries", func() {
		out, err := s.service.ListStandards(s.ctx, user, true)
		s.Require().NoError(err)
		s.Equal("## Core standard\n`core` *(enabled)*\nEveryday tags.\n"+
			"## Extra standard\n`extra`\nRarer tags.\n"+
			"## Common\n`common-namtao`\n", out)
	})

	s.Run("nothing enabled", func() {
		_, err := s.service.SetStandards(s.ctx, user, "")
		s.Require().NoError(err)

		out, err := s.service.ListStandards(s.ctx, user, false)
		s.Require().NoError(err)
		s.Equal(NoStandardsEnabled, out)

		out, err = s.service.ListStandards(s.ctx, user, true)
		s.Require().NoError(err)
		s.NotContains(out, "*(enabled)*")
		s.Contains(out, "`extra`")
	})
}

func (s *ServiceSuite) TestSetStandards() {
	s.Run("confirmation wording", func() {
		cases := []struct {
			raw  string
			want string
		}{
			{raw: "", want: AllDisabled},
			{raw: "retired,unknown", want: AllDisabled},
			{raw: "core", want: "*Enabled 1 standard*"},
			{raw: "core,core", want: "*Enabled 1 standard*"},
			{raw: "extra, core ,nope", want: "*Enabled 2 standards*"},
			{raw: "core,extra,common-namtao", want: "*Enabled 3 standards*"},
		}
		for _, tc := range cases {
			out, err := s.service.SetStandards(s.ctx, user, tc.raw)
			s.Require().NoError(err, tc.raw)
			s.Equal(tc.want, out, tc.raw)
		}
	})

	s.Run("persists filtered ids in request order", func() {
		_, err := s.service.SetStandards(s.ctx, user, "extra,bogus,core,extra")
		s.Require().NoError(err)

		stored, err := s.store.Find(s.ctx, user)
		s.Require().NoError(err)
		s.Equal([]string{"extra", "core"}, stored)
	})

	s.Run("emits a standards_set audit event", func() {
		s.audit.Clear()
		_, err := s.service.SetStandards(s.ctx, user, "core")
		s.Require().NoError(err)

		events, err := s.audit.ListByUser(s.ctx, user)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.ActionStandardsSet, events[0].Action)
		s.Equal([]string{"core"}, events[0].Standards)
	})
}

func (s *ServiceSuite) TestDeleteAllData() {
	_, err := s.service.SetStandards(s.ctx, user, "extra")
	s.Require().NoError(err)
	s.audit.Clear()

	out, err := s.service.DeleteAllData(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(AllDataDeleted, out)

	_, err = s.store.Find(s.ctx, user)
	s.ErrorIs(err, sentinel.ErrNotFound)

	explained, err := s.service.Explain(s.ctx, user, "hi /nm")
	s.Require().NoError(err)
	s.Equal("**core**: Explanation A", explained, "deleted user falls back to the default")

	events, _ := s.audit.ListByUser(s.ctx, user)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionUserDataDeleted, events[0].Action)
}

func (s *ServiceSuite) TestAutocomplete() {
	s.Run("empty input offers every standard", func() {
		s.Equal([]string{"core", "extra", "common-namtao"}, s.service.Autocomplete(""))
	})

	s.Run("subsequence match", func() {
		s.Equal([]string{"common-namtao"}, s.service.Autocomplete("cnt"))
		s.Equal([]string{"core", "common-namtao"}, s.service.Autocomplete("co"))
		s.Empty(s.service.Autocomplete("zzz"))
	})

	s.Run("order matters for subsequences", func() {
		s.Empty(s.service.Autocomplete("eroc"))
	})

	s.Run("completed prefix is kept and excluded from suggestions", func() {
		s.Equal([]string{"core,extra", "core,common-namtao"}, s.service.Autocomplete("core,"))
		s.Equal([]string{"core,extra"}, s.service.Autocomplete("core,ex"))
	})

	s.Run("prefix drops unknown and repeated ids", func() {
		s.Equal([]string{"core,extra"}, s.service.Autocomplete("core,bogus,core,xt"))
	})
}

type failingAuditor struct{}

func (failingAuditor) Emit(context.Context, audit.Event) error {
	return errors.New("queue full")
}

func TestAuditFailureDoesNotFailCommand(t *testing.T) {
	registry, err := standard.NewRegistry(standard.Document{ID: "core", Text: "# Core\n"})
	assert.NoError(t, err)
	cache, err := preference.NewCache(store.NewInMemory(), registry)
	assert.NoError(t, err)

	svc, err := New(registry, cache,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(failingAuditor{}),
	)
	assert.NoError(t, err)

	out, err := svc.DeleteAllData(context.Background(), user)
	assert.NoError(t, err)
	assert.Equal(t, AllDataDeleted, out)
}

func TestStoreFailuresBecomeInternalErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockStore(ctrl)
	registry, err := standard.NewRegistry(standard.Document{ID: "core", Text: "# Core\n"})
	assert.NoError(t, err)
	cache, err := preference.NewCache(mockStore, registry)
	assert.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	svc, err := New(registry, cache, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), WithMetrics(m))
	assert.NoError(t, err)

	storeErr := errors.New("connection refused")
	mockStore.EXPECT().Find(gomock.Any(), user).Return(nil, storeErr).Times(2)
	mockStore.EXPECT().Upsert(gomock.Any(), user, []string{"core"}).Return(storeErr)
	mockStore.EXPECT().Delete(gomock.Any(), user).Return(storeErr)

	_, err = svc.Explain(context.Background(), user, "/nm")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.ListStandards(context.Background(), user, true)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = svc.SetStandards(context.Background(), user, "core")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = svc.DeleteAllData(context.Background(), user)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandErrors.WithLabelValues("set_standards")))
}

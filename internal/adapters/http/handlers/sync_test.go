package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/mocks"
)

func setupSyncRouter(t *testing.T, remote *mocks.MockRemoteQuoteSource, saveErr error) (*gin.Engine, *recordingRepo) {
	t.Helper()

	st, rec := loadedState(t, sampleSnapshot(), saveErr)
	service := app.NewSyncService(app.SyncServiceConfig{
		State:    st,
		Remote:   remote,
		Interval: time.Minute,
		Logger:   discardLogger(),
		Now:      func() time.Time { return testNow },
	})

	router := gin.New()
	NewSyncHandler(service).RegisterSyncRoutes(router.Group("/api/v1"))

	return router, rec
}

func TestSyncHandler_TriggerSync(t *testing.T) {
	remote := mocks.NewMockRemoteQuoteSource(t)
	remote.EXPECT().FetchRecent(mock.Anything).Return([]domain.Quote{
		{ID: "1", Text: "sunt aut facere", Category: domain.ServerCategory, Source: domain.SourceServer, UpdatedAt: testNow},
	}, nil).Once()

	router, rec := setupSyncRouter(t, remote, nil)

	w := serve(router, http.MethodPost, "/api/v1/sync", "")
	require.Equal(t, http.StatusOK, w.Code)

	report := decode[dto.SyncReportResponse](t, w)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 0, report.Pushed, "nothing changed since the last sync")
	assert.False(t, report.Offline)
	assert.Equal(t, "Synced. Added 1 from server.", report.Message)

	saved := rec.last(t)
	assert.Len(t, saved.Quotes, 4)
	assert.Equal(t, testNow, saved.LastSync)
}

func TestSyncHandler_TriggerSync_Offline(t *testing.T) {
	remote := mocks.NewMockRemoteQuoteSource(t)
	remote.EXPECT().FetchRecent(mock.Anything).
		Return(nil, domain.NewUnavailableError("posts", "connection refused")).Once()

	router, rec := setupSyncRouter(t, remote, nil)

	w := serve(router, http.MethodPost, "/api/v1/sync", "")
	require.Equal(t, http.StatusOK, w.Code)

	report := decode[dto.SyncReportResponse](t, w)
	assert.True(t, report.Offline)
	assert.Equal(t, domain.OfflineWarning, report.Warning)
	assert.Equal(t, domain.OfflineWarning, report.Message)
	assert.Equal(t, 1, report.Pending)
	assert.Empty(t, rec.saved)
}

func TestSyncHandler_TriggerSync_SaveFails(t *testing.T) {
	remote := mocks.NewMockRemoteQuoteSource(t)
	remote.EXPECT().FetchRecent(mock.Anything).Return([]domain.Quote{}, nil).Once()

	router, _ := setupSyncRouter(t, remote, errors.New("read-only file system"))

	w := serve(router, http.MethodPost, "/api/v1/sync", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeInternal, decode[dto.ErrorResponse](t, w).Error.Code)
}

func TestSyncHandler_GetStatus(t *testing.T) {
	remote := mocks.NewMockRemoteQuoteSource(t)
	remote.EXPECT().FetchRecent(mock.Anything).Return([]domain.Quote{}, nil).Once()

	router, _ := setupSyncRouter(t, remote, nil)

	w := serve(router, http.MethodGet, "/api/v1/sync", "")
	require.Equal(t, http.StatusOK, w.Code)

	before := decode[dto.SyncStatusResponse](t, w)
	assert.Equal(t, testNow.Add(-30*time.Minute).UnixMilli(), before.LastSync)
	assert.False(t, before.InFlight)
	assert.Nil(t, before.LastReport)

	require.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/v1/sync", "").Code)

	w = serve(router, http.MethodGet, "/api/v1/sync", "")
	require.Equal(t, http.StatusOK, w.Code)

	after := decode[dto.SyncStatusResponse](t, w)
	assert.Equal(t, testNow.UnixMilli(), after.LastSync)
	require.NotNil(t, after.LastReport)
	assert.Equal(t, "Synced. Added 0 from server.", after.LastReport.Message)
}

package auction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/cache"
	"github.com/Additional-Code/gridlock/internal/config"
	"github.com/Additional-Code/gridlock/internal/database/databasetest"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/messaging"
	"github.com/Additional-Code/gridlock/internal/metrics"
	repo "github.com/Additional-Code/gridlock/internal/repository/auction"
	service "github.com/Additional-Code/gridlock/internal/service/auction"
	"github.com/Additional-Code/gridlock/internal/validation"
)

func newServer(t *testing.T) (*echo.Echo, int64) {
	t.Helper()
	conns := databasetest.New(t)
	vehicle := &entity.Vehicle{
		Make: "Jeep", Model: "Wrangler", Year: 2020, Mileage: 30000, Condition: "Good",
		StartingBid: decimal.NewFromInt(35000), CurrentBid: decimal.NewFromInt(35000),
		Status: entity.StatusUpcoming, CreatedAt: time.Now().UTC(),
	}
	_, err := conns.Writer.NewInsert().Model(vehicle).Exec(context.Background())
	require.NoError(t, err)

	client := messaging.NewMockClient(gomock.NewController(t))
	client.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.NewService(service.Params{
		Repository: repo.NewRepository(conns),
		Cache:      cache.NoopStore{},
		Config: config.Config{
			Cache:   config.Cache{DefaultTTL: time.Minute, StatsTTL: time.Second},
			Auction: config.Auction{EndingSoon: 24 * time.Hour},
		},
		Validator: validation.New(),
		Publisher: messaging.NewPublisher(client, zap.NewNop()),
		Metrics:   metrics.Nop(),
		Logger:    zap.NewNop(),
	})

	e := echo.New()
	Register(e, NewHandler(svc))
	return e, vehicle.ID
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createBody(vehicleID int64, start, end time.Time) string {
	return fmt.Sprintf(`{"vehicleId":%d,"startTime":%q,"endTime":%q,"title":"Weekend lot"}`,
		vehicleID, start.Format(time.RFC3339), end.Format(time.RFC3339))
}

func TestCreateTransitionAndSummary(t *testing.T) {
	e, vehicleID := newServer(t)
	now := time.Now().UTC()

	rec := do(e, http.MethodPost, "/auctions", createBody(vehicleID, now.Add(-time.Minute), now.Add(2*time.Hour)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data struct {
			ID      int64  `json:"id"`
			Status  string `json:"status"`
			Vehicle struct {
				Make string `json:"make"`
			} `json:"vehicle"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "upcoming", created.Data.Status)
	require.Equal(t, "Jeep", created.Data.Vehicle.Make)

	path := fmt.Sprintf("/auctions/%d/status", created.Data.ID)
	rec = do(e, http.MethodPatch, path, `{"status":"active"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"active"`)

	rec = do(e, http.MethodPatch, path, `{"status":"upcoming"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodGet, "/auctions/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"activeCount":1`)
	require.Contains(t, rec.Body.String(), `"endingSoon":1`)

	rec = do(e, http.MethodGet, "/auctions?status=active&search=wrangler", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"count":1`)
}

func TestCreate_Errors(t *testing.T) {
	e, vehicleID := newServer(t)
	now := time.Now().UTC()

	rec := do(e, http.MethodPost, "/auctions", createBody(vehicleID, now.Add(time.Hour), now))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/auctions", createBody(vehicleID+7, now, now.Add(time.Hour)))
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/auctions", createBody(vehicleID, now, now.Add(time.Hour))).Code)
	rec = do(e, http.MethodPost, "/auctions", createBody(vehicleID, now, now.Add(time.Hour)))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodGet, "/auctions/404", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

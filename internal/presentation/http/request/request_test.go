package request_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/gridlock/internal/presentation/http/request"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

func TestID(t *testing.T) {
	e := echo.New()
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{raw: "42", want: 42, ok: true},
		{raw: "0"},
		{raw: "-3"},
		{raw: "abc"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			c.SetParamNames("id")
			c.SetParamValues(tc.raw)

			got, err := request.ID(c, "id")
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
				return
			}
			require.True(t, errorbank.Is(err, errorbank.KindValidation))
		})
	}
}

func TestBind(t *testing.T) {
	e := echo.New()
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"camry"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	require.NoError(t, request.Bind(e.NewContext(req, httptest.NewRecorder()), &dst))
	require.Equal(t, "camry", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	err := request.Bind(e.NewContext(req, httptest.NewRecorder()), &dst)
	require.True(t, errorbank.Is(err, errorbank.KindValidation))
}

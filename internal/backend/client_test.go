package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return backend.New(srv.URL, 5*time.Second)
}

func TestGetDailyQuestion_Success(t *testing.T) {
	var gotSphere, gotInitData string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSphere = r.URL.Query().Get("sphere")
		gotInitData = r.Header.Get(backend.HeaderTelegramInitData)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"sphere":"career","text":"What did you learn today?","type":"text"}`))
	})

	q, err := client.GetDailyQuestion(context.Background(), backend.Auth{InitData: "signed"}, "career")
	require.NoError(t, err)
	assert.Equal(t, int64(42), q.ID)
	assert.Equal(t, "career", q.Sphere)
	assert.Equal(t, "career", gotSphere)
	assert.Equal(t, "signed", gotInitData)
}

func TestGetDailyQuestion_NoSphereFilter(t *testing.T) {
	var hadSphereParam bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadSphereParam = r.URL.Query()["sphere"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"sphere":"health","text":"How do you feel?","type":"text"}`))
	})

	_, err := client.GetDailyQuestion(context.Background(), backend.Auth{GuestID: "g-1"}, "")
	require.NoError(t, err)
	assert.False(t, hadSphereParam)
}

func TestGetDailyQuestion_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"No question available"}`))
	})

	_, err := client.GetDailyQuestion(context.Background(), backend.Auth{GuestID: "g-1"}, "career")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetDailyQuestion_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"database exploded"}`))
	})

	_, err := client.GetDailyQuestion(context.Background(), backend.Auth{GuestID: "g-1"}, "career")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeServer))
	assert.Contains(t, err.Error(), "database exploded")
}

func TestGetDailyQuestion_AuthError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid init data"}`))
	})

	_, err := client.GetDailyQuestion(context.Background(), backend.Auth{InitData: "bogus"}, "")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAuth))
}

func TestGetDailyQuestion_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // closed before use: connection refused

	client := backend.New(srv.URL, time.Second)
	_, err := client.GetDailyQuestion(context.Background(), backend.Auth{GuestID: "g-1"}, "")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNetwork))
}

func TestGetDailyQuestion_NonJSONResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := client.GetDailyQuestion(context.Background(), backend.Auth{GuestID: "g-1"}, "")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeServer))
}

func TestSubmitAnswer_SendsPayload(t *testing.T) {
	var gotBody string
	var gotGuest string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		gotGuest = r.Header.Get(backend.HeaderGuestUserID)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	err := client.SubmitAnswer(context.Background(), backend.Auth{GuestID: "g-42"}, 42, "done")
	require.NoError(t, err)
	assert.JSONEq(t, `{"question_id":42,"answer":"done"}`, gotBody)
	assert.Equal(t, "g-42", gotGuest)
}

func TestSubmitAnswer_ValidationRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"answer must not be empty"}`))
	})

	err := client.SubmitAnswer(context.Background(), backend.Auth{GuestID: "g-1"}, 42, "")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBadRequest))
}

func TestGetFocusSpheres_DecodesItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"sphere":"career"},{"sphere":"money"}]`))
	})

	spheres, err := client.GetFocusSpheres(context.Background(), backend.Auth{GuestID: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"career", "money"}, spheres)
}

func TestAuth_TelegramWinsOverGuest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	backend.Auth{InitData: "signed", GuestID: "g-1"}.Apply(req)

	assert.Equal(t, "signed", req.Header.Get(backend.HeaderTelegramInitData))
	assert.Empty(t, req.Header.Get(backend.HeaderGuestUserID))
}

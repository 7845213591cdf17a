package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAPICall(t *testing.T) {
	before := testutil.ToFloat64(APICallsTotal.WithLabelValues("shl", "200"))
	RecordAPICall("shl", "200", 0.25)
	assert.Equal(t, before+1, testutil.ToFloat64(APICallsTotal.WithLabelValues("shl", "200")))
}

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("success"))
	RecordRun("success", 1.5)
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("success")))
	assert.Greater(t, testutil.ToFloat64(LastSuccessfulRun), float64(0))
}

func TestRecordError(t *testing.T) {
	before := testutil.ToFloat64(ErrorsTotal.WithLabelValues("client", "quota"))
	RecordError("client", "quota")
	assert.Equal(t, before+1, testutil.ToFloat64(ErrorsTotal.WithLabelValues("client", "quota")))
}

func TestPush(t *testing.T) {
	var gotPath string
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	RecordLeagueUpdated("smjhl")
	require.NoError(t, Push(context.Background(), server.URL))

	assert.True(t, strings.HasSuffix(gotPath, "/job/"+JobName), "unexpected push path %s", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPush_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.Error(t, Push(context.Background(), server.URL))
}

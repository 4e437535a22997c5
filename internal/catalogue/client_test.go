package catalogue

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"worksearch/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

const sessionCookie = "catalogue_session"

type recordedRequest struct {
	Method string
	Params map[string]string
	Cookie string
}

// fakeCatalogue serves the landing page on a plain GET and the search pages on
// a GET with works=true or a POST.
type fakeCatalogue struct {
	primeStatus  int
	searchStatus int
	getPage      string
	postPage     string
	delay        time.Duration

	lock     sync.Mutex
	primed   int
	searches []recordedRequest
}

func (f *fakeCatalogue) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-r.Context().Done():
			return
		}
	}

	err := r.ParseForm()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	if r.Method == http.MethodGet && r.Form.Get("works") == "" {
		f.primed++
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "primed", Path: "/"})
		if f.primeStatus != 0 {
			w.WriteHeader(f.primeStatus)
			return
		}
		w.Write([]byte("<html><body><form></form></body></html>"))
		return
	}

	params := map[string]string{}
	for key := range r.Form {
		params[key] = r.Form.Get(key)
	}
	cookie := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		cookie = c.Value
	}
	f.searches = append(f.searches, recordedRequest{Method: r.Method, Params: params, Cookie: cookie})

	if f.searchStatus != 0 {
		w.WriteHeader(f.searchStatus)
		return
	}
	if r.Method == http.MethodPost {
		w.Write([]byte(f.postPage))
		return
	}
	w.Write([]byte(f.getPage))
}

func newTestClient(t *testing.T, catalogue *fakeCatalogue, timeout time.Duration) (*Client, *telemetry.Recorder, string) {
	t.Helper()

	srv := httptest.NewServer(catalogue)
	t.Cleanup(srv.Close)

	rec := &telemetry.Recorder{}
	baseUrl := srv.URL + "/works-search"
	client, err := NewClient(ClientOptions{
		BaseURL:   baseUrl,
		Timeout:   timeout,
		Telemetry: rec,
	})
	require.NoError(t, err)

	return client, rec, baseUrl
}

func TestSearchOrdinary(t *testing.T) {
	catalogue := &fakeCatalogue{getPage: ordinaryPage, postPage: emptyPage}
	client, rec, baseUrl := newTestClient(t, catalogue, 0)

	result, err := client.Search(context.Background(), SearchQuery{Title: "ordinary", Performer: "alex warren"})
	require.NoError(t, err)

	require.True(t, result.Found)
	require.Equal(t, 1, result.Count)
	require.Equal(t, OutcomeFound, result.Outcome)
	require.Equal(t, baseUrl+"?performer=alex+warren&title=ordinary&works=true", result.SearchURL)

	record := result.Results[0]
	require.Equal(t, "ORDINARY", record.Title)
	require.Len(t, record.Writers, 4)
	require.Len(t, record.Performers, 30)
	require.Len(t, record.Publishers, 3)
	require.Len(t, record.AlternateTitles, 2)

	require.Equal(t, 1, catalogue.primed)
	require.Equal(t, []recordedRequest{{
		Method: http.MethodGet,
		Params: map[string]string{"works": "true", "title": "ordinary", "performer": "alex warren"},
		Cookie: "primed",
	}}, catalogue.searches)

	counts := rec.Reports(telemetry.KindCount)
	require.Len(t, counts, 1)
	require.Equal(t, int64(1), counts[0].Count)
	require.Empty(t, rec.Reports(telemetry.KindBroken))
	require.Empty(t, rec.Reports(telemetry.KindWarning))
}

func TestSearchFallsBackToPost(t *testing.T) {
	catalogue := &fakeCatalogue{getPage: emptyPage, postPage: multiplePage}
	client, _, _ := newTestClient(t, catalogue, 0)

	raw, err := client.Execute(context.Background(), SearchQuery{Title: " hello ", Writer: "a"})
	require.NoError(t, err)
	require.Equal(t, "POST", raw.Strategy)
	require.Equal(t, http.StatusOK, raw.Status)

	require.Len(t, catalogue.searches, 2)
	require.Equal(t, http.MethodGet, catalogue.searches[0].Method)
	require.Equal(t, http.MethodPost, catalogue.searches[1].Method)
	for _, req := range catalogue.searches {
		require.Equal(t, map[string]string{"works": "true", "title": "hello", "writer": "a"}, req.Params)
		require.Equal(t, "primed", req.Cookie)
	}

	result := Extract(raw.Body)
	require.Equal(t, 3, result.Count)
}

func TestSearchNoMarkersReturnsLastPage(t *testing.T) {
	catalogue := &fakeCatalogue{getPage: emptyPage, postPage: noticePage}
	client, _, _ := newTestClient(t, catalogue, 0)

	result, err := client.Search(context.Background(), SearchQuery{Performer: "nobody"})
	require.NoError(t, err)
	require.False(t, result.Found)
	require.Equal(t, OutcomeEmpty, result.Outcome)
	require.Equal(t, MessageNotFound, result.Message)
	require.Len(t, catalogue.searches, 2)
}

func TestSearchUnrecognisedWarns(t *testing.T) {
	catalogue := &fakeCatalogue{getPage: unrecognisedPage, postPage: unrecognisedPage}
	client, rec, _ := newTestClient(t, catalogue, 0)

	result, err := client.Search(context.Background(), SearchQuery{Title: "ordinary"})
	require.NoError(t, err)
	require.Equal(t, OutcomeUnrecognised, result.Outcome)
	require.Equal(t, MessageUnrecognised, result.Message)

	warnings := rec.Reports(telemetry.KindWarning)
	require.Len(t, warnings, 1)
	require.Equal(t, "catalogue: "+report_client_extract, warnings[0].Id)
}

func TestSearchPrimeFailure(t *testing.T) {
	catalogue := &fakeCatalogue{primeStatus: http.StatusForbidden, getPage: ordinaryPage}
	client, rec, _ := newTestClient(t, catalogue, 0)

	_, err := client.Search(context.Background(), SearchQuery{Title: "ordinary"})
	require.ErrorIs(t, err, ErrTransport)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	require.Equal(t, "prime", terr.Op)
	require.Equal(t, http.StatusForbidden, terr.Status)

	require.Empty(t, catalogue.searches)
	broken := rec.Reports(telemetry.KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "catalogue: "+report_client_prime, broken[0].Id)
}

func TestSearchStatusFailure(t *testing.T) {
	catalogue := &fakeCatalogue{searchStatus: http.StatusServiceUnavailable}
	client, _, baseUrl := newTestClient(t, catalogue, 0)

	query := SearchQuery{Title: "ordinary", Performer: "alex warren"}
	_, err := client.Search(context.Background(), query)
	require.ErrorIs(t, err, ErrTransport)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	require.Equal(t, "search (GET)", terr.Op)
	require.Equal(t, http.StatusServiceUnavailable, terr.Status)
	require.Equal(t, baseUrl+"?"+query.Params().Encode(), terr.URL)
	// a failed request is not retried with the next strategy
	require.Len(t, catalogue.searches, 1)
}

func TestSearchTimeout(t *testing.T) {
	catalogue := &fakeCatalogue{delay: 2 * time.Second, getPage: ordinaryPage}
	client, _, _ := newTestClient(t, catalogue, 50*time.Millisecond)

	_, err := client.Search(context.Background(), SearchQuery{Title: "ordinary"})
	require.ErrorIs(t, err, ErrTransport)
}

func TestSearchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseUrl := srv.URL
	srv.Close()

	client, err := NewClient(ClientOptions{BaseURL: baseUrl, Telemetry: &telemetry.Recorder{}})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchQuery{Title: "ordinary"})
	require.ErrorIs(t, err, ErrTransport)
}

func TestSearchInvalidQuerySendsNothing(t *testing.T) {
	catalogue := &fakeCatalogue{getPage: ordinaryPage}
	client, _, _ := newTestClient(t, catalogue, 0)

	for _, query := range []SearchQuery{{}, {Writer: "mercury"}, {Title: "  "}} {
		_, err := client.Search(context.Background(), query)
		require.ErrorIs(t, err, ErrInvalidQuery)
	}
	require.Zero(t, catalogue.primed)
	require.Empty(t, catalogue.searches)
}

func TestSearchVerboseLeavesTermsToCaller(t *testing.T) {
	catalogue := &fakeCatalogue{getPage: ordinaryPage}
	client, rec, _ := newTestClient(t, catalogue, 0)

	_, err := client.Search(context.Background(), SearchQuery{Title: "ordinary", Verbose: true})
	require.NoError(t, err)

	// the command line echoes the terms itself
	for _, report := range rec.Reports(telemetry.KindDebug) {
		require.NotEqual(t, "catalogue: search terms", report.Id)
	}
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(ClientOptions{BaseURL: "/works-search", Telemetry: &telemetry.Recorder{}})
	require.Error(t, err)

	client, err := NewClient(ClientOptions{Telemetry: &telemetry.Recorder{}})
	require.NoError(t, err)
	require.Equal(t, DefaultBaseURL, client.baseUrl.String())
	require.Equal(t, DefaultTimeout, client.timeout)
	require.Equal(t, DefaultUserAgent, client.userAgent)
}

type memoryOutput struct {
	lock  sync.Mutex
	names []string
}

func (m *memoryOutput) Write(name string, _ string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.names = append(m.names, name)
}

func TestSearchDumpsExchanges(t *testing.T) {
	catalogue := &fakeCatalogue{getPage: emptyPage, postPage: ordinaryPage}
	srv := httptest.NewServer(catalogue)
	defer srv.Close()

	dump := &memoryOutput{}
	client, err := NewClient(ClientOptions{
		BaseURL:   srv.URL + "/works-search",
		Telemetry: &telemetry.Recorder{},
		Dump:      dump,
	})
	require.NoError(t, err)

	result, err := client.Search(context.Background(), SearchQuery{Title: "ordinary"})
	require.NoError(t, err)
	require.True(t, result.Found)
	require.Equal(t, []string{"get", "get", "post"}, dump.names)
}

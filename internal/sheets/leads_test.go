package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"brk-portal/internal/models"
)

type fakeSheet struct {
	mu   sync.Mutex
	rows [][]interface{}
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.rows = append(f.rows, body.Values...)
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range":          "Leads!A1:Z100",
			"majorDimension": "ROWS",
			"values":         f.rows,
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, f *fakeSheet) *Client {
	t.Helper()
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	c, err := NewWithOptions(context.Background(), "sheet-1",
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return c
}

func TestAppendLeadSkipsKnownEmail(t *testing.T) {
	f := &fakeSheet{rows: [][]interface{}{
		{"email", "name", "created_at", "source"},
		{"ana@example.com", "Ana", "2025-01-01T00:00:00Z", "web"},
	}}
	c := newTestClient(t, f)
	ctx := context.Background()

	require.NoError(t, c.AppendLead(ctx, models.Lead{Name: "Ana", Email: "ANA@example.com"}, "telegram"))
	assert.Len(t, f.rows, 2)

	require.NoError(t, c.AppendLead(ctx, models.Lead{Name: "Bia", Email: "bia@example.com"}, "telegram"))
	require.Len(t, f.rows, 3)
	assert.Equal(t, "bia@example.com", f.rows[2][0])
	assert.Equal(t, "telegram", f.rows[2][3])
}

func TestListLeadsSkipsHeaderAndBlankRows(t *testing.T) {
	f := &fakeSheet{rows: [][]interface{}{
		{"email", "name", "created_at", "source"},
		{"", "sem email"},
		{"caio@example.com", "Caio"},
	}}
	c := newTestClient(t, f)

	leads, err := c.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, LeadRow{Email: "caio@example.com", Name: "Caio"}, leads[0])

	has, err := c.HasLead(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGet(t *testing.T) {
	row := []interface{}{"a", nil, 3}
	assert.Equal(t, "a", get(row, 0))
	assert.Equal(t, "", get(row, 1))
	assert.Equal(t, "3", get(row, 2))
	assert.Equal(t, "", get(row, 9))
}

package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sheetsapi "google.golang.org/api/sheets/v4"

	"sheetsync/internal/config"
	"sheetsync/internal/logger"
	"sheetsync/pkg/utils"
)

const worksheetsJSON = `{"sheets":[
	{"properties":{"title":"Archive","index":0}},
	{"properties":{"title":"Songs","index":1}}
]}`

const gridJSON = `{"sheets":[{"data":[{"rowData":[
	{"values":[{"formattedValue":"Song Name"},{"formattedValue":"Status"},{"formattedValue":"Vocals"},{"formattedValue":"Youtube"}]},
	{"values":[
		{"formattedValue":"Senbonzakura"},
		{"formattedValue":"Completed"},
		{"formattedValue":"Vocals.pdf","chipRuns":[{"chip":{"richLinkProperties":{"uri":"https://drive.google.com/file/d/1AbCdEfGhIjKlMnOpQrStUvWx/view","mimeType":"application/pdf"}}}]},
		{"formattedValue":"video","hyperlink":"https://youtu.be/shs0rAiwsGQ"}
	]},
	{},
	{"values":[{"formattedValue":"Melt"},{"formattedValue":"In Progress"}]}
]}]}]}`

type fakeSheetsAPI struct {
	t          *testing.T
	gridRanges []string
	keys       []string
	status     int
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "/v4/spreadsheets/sheet-123", r.URL.Path)
	assert.Contains(f.t, r.Header.Get("User-Agent"), utils.UserAgent)

	f.keys = append(f.keys, r.URL.Query().Get("key"))

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`))

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if r.URL.Query().Get("includeGridData") == "true" {
		f.gridRanges = append(f.gridRanges, r.URL.Query().Get("ranges"))
		_, _ = w.Write([]byte(gridJSON))

		return
	}

	_, _ = w.Write([]byte(worksheetsJSON))
}

func newTestClient(t *testing.T, api *fakeSheetsAPI, opts Options) *Client {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	opts.SheetID = "sheet-123"
	opts.HTTPClient = srv.Client()

	c, err := NewClient(t.Context(), opts, logger.Discard())
	require.NoError(t, err)

	return c
}

func TestNewClient_RequiresSheetID(t *testing.T) {
	_, err := NewClient(t.Context(), Options{}, logger.Discard())
	require.ErrorIs(t, err, ErrMissingSheetID)
}

func TestClient_Fetch(t *testing.T) {
	api := &fakeSheetsAPI{t: t}
	c := newTestClient(t, api, Options{APIKey: "k"})

	records, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "Senbonzakura", first.Cell("Song Name"))
	assert.Equal(t, "https://drive.google.com/file/d/1AbCdEfGhIjKlMnOpQrStUvWx/view", first.Link("Vocals"))
	assert.Equal(t, "https://youtu.be/shs0rAiwsGQ", first.Link("Youtube"))

	assert.Equal(t, 4, records[1].Row)
	assert.Equal(t, "", records[1].Cell("Vocals"))

	assert.Equal(t, []string{"'Archive'"}, api.gridRanges)
	assert.Equal(t, []string{"k", "k"}, api.keys)
}

func TestClient_ResolveWorksheet(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr error
	}{
		{name: "default first", opts: Options{}, want: "Archive"},
		{name: "by name", opts: Options{WorksheetName: "Songs"}, want: "Songs"},
		{name: "by index", opts: Options{WorksheetIndex: 2}, want: "Songs"},
		{name: "unknown name", opts: Options{WorksheetName: "Nope"}, wantErr: ErrWorksheetNotFound},
		{name: "index out of range", opts: Options{WorksheetIndex: 3}, wantErr: ErrWorksheetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeSheetsAPI{t: t}, tt.opts)

			got, err := c.ResolveWorksheet(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Fetch_QuotesTitle(t *testing.T) {
	api := &fakeSheetsAPI{t: t}
	c := newTestClient(t, api, Options{})

	_, err := c.FetchGrid(context.Background(), "Bob's Songs")
	require.NoError(t, err)
	assert.Equal(t, []string{"'Bob''s Songs'"}, api.gridRanges)
}

func TestClient_Fetch_StatusError(t *testing.T) {
	c := newTestClient(t, &fakeSheetsAPI{t: t, status: http.StatusForbidden}, Options{})

	_, err := c.Fetch(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedStatusCode)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "The caller does not have permission")
}

func TestNewHTTPClient(t *testing.T) {
	ctx := context.Background()

	t.Run("no credentials", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg := config.Default().Source
		cfg.CredentialsFile = filepath.Join(t.TempDir(), "missing.json")

		_, err := NewHTTPClient(ctx, cfg)
		require.ErrorIs(t, err, ErrNoCredentials)
	})

	t.Run("api key", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg := config.Default().Source
		cfg.CredentialsFile = ""
		cfg.APIKey = "key"

		client, err := NewHTTPClient(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg.GetTimeout(), client.Timeout)
	})

	t.Run("malformed service account", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sa.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

		cfg := config.Default().Source
		cfg.CredentialsFile = path

		_, err := NewHTTPClient(ctx, cfg)
		require.Error(t, err)
	})
}

func TestLoadServiceAccount_Order(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "service_account.json")
	configured := filepath.Join(dir, "configured.json")

	require.NoError(t, os.WriteFile(defaultPath, []byte(`{"from":"default"}`), 0600))
	require.NoError(t, os.WriteFile(configured, []byte(`{"from":"configured"}`), 0600))

	tests := []struct {
		name string
		cfg  config.SourceConfig
		want string
	}{
		{
			name: "configured file first",
			cfg:  config.SourceConfig{CredentialsFile: configured, CredentialsJSON: `{"from":"inline"}`},
			want: `{"from":"configured"}`,
		},
		{
			name: "inline beats default file",
			cfg:  config.SourceConfig{CredentialsJSON: `{"from":"inline"}`},
			want: `{"from":"inline"}`,
		},
		{
			name: "missing configured file falls through to inline",
			cfg:  config.SourceConfig{CredentialsFile: filepath.Join(dir, "missing.json"), CredentialsJSON: `{"from":"inline"}`},
			want: `{"from":"inline"}`,
		},
		{
			name: "missing configured file falls through to default",
			cfg:  config.SourceConfig{CredentialsFile: filepath.Join(dir, "missing.json")},
			want: `{"from":"default"}`,
		},
		{
			name: "default file alone",
			cfg:  config.SourceConfig{},
			want: `{"from":"default"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadServiceAccount(tt.cfg, defaultPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	got, err := loadServiceAccount(config.SourceConfig{}, filepath.Join(dir, "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestToGrid(t *testing.T) {
	rows := []*sheetsapi.RowData{
		{Values: []*sheetsapi.CellData{
			{FormattedValue: "plain"},
			{FormattedValue: "link", Hyperlink: "https://example.com/a"},
			{
				FormattedValue: "chip",
				Hyperlink:      "https://example.com/ignored",
				ChipRuns: []*sheetsapi.ChipRun{
					{Chip: &sheetsapi.Chip{}},
					{Chip: &sheetsapi.Chip{RichLinkProperties: &sheetsapi.RichLinkProperties{Uri: "https://example.com/chip"}}},
				},
			},
			nil,
		}},
		nil,
	}

	grid := toGrid(rows)
	require.Len(t, grid, 2)
	assert.Equal(t, []gridCell{
		{Text: "plain"},
		{Text: "link", Link: "https://example.com/a"},
		{Text: "chip", Link: "https://example.com/chip"},
		{},
	}, grid[0])
	assert.Empty(t, grid[1])
}

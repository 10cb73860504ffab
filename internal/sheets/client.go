// Package sheets reads catalogue rows from Google Sheets or a CSV export.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"sheetsync/internal/logger"
	"sheetsync/internal/models"
	"sheetsync/pkg/utils"
)

// DefaultBaseURL is the Google Sheets API endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com"

// Partial-response field masks.
const (
	worksheetFields = "sheets.properties(title,index)"
	gridFields      = "sheets.data.rowData.values(formattedValue,hyperlink,chipRuns)"
)

// Client errors.
var (
	ErrMissingSheetID       = errors.New("sheet ID is required")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrNoWorksheets         = errors.New("spreadsheet has no worksheets")
	ErrWorksheetNotFound    = errors.New("worksheet not found")
)

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	BaseURL    string
	SheetID    string
	// WorksheetName selects a worksheet by title.
	WorksheetName string
	// APIKey is sent as the key query parameter, for public sheets.
	APIKey string
	// WorksheetIndex selects a worksheet by 1-based position; 0 means the first.
	WorksheetIndex int
}

// Client fetches a worksheet through the Sheets v4 API.
type Client struct {
	service        *sheetsapi.Service
	logger         *logger.Logger
	sheetID        string
	worksheetName  string
	apiKey         string
	worksheetIndex int
}

// NewClient creates a new Sheets client. The HTTP client carries the
// credentials; with an API key it may be a plain client.
func NewClient(ctx context.Context, opts Options, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(opts.SheetID) == "" {
		return nil, ErrMissingSheetID
	}

	if log == nil {
		log = logger.Discard()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	service, err := sheetsapi.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(baseURL+"/"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	service.UserAgent = utils.UserAgent

	return &Client{
		service:        service,
		logger:         log,
		sheetID:        opts.SheetID,
		worksheetName:  opts.WorksheetName,
		apiKey:         opts.APIKey,
		worksheetIndex: opts.WorksheetIndex,
	}, nil
}

// Name describes the source for logs.
func (c *Client) Name() string {
	return "google-sheets:" + c.sheetID
}

// Fetch resolves the configured worksheet and returns its data rows.
func (c *Client) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	title, err := c.ResolveWorksheet(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := c.FetchGrid(ctx, title)
	if err != nil {
		return nil, err
	}

	records, err := recordsFromGrid(toGrid(rows))
	if err != nil {
		return nil, fmt.Errorf("worksheet %q: %w", title, err)
	}

	links := 0
	for _, rec := range records {
		links += len(rec.Links)
	}

	c.logger.Info("Fetched worksheet", "worksheet", title, "rows", len(records), "links", links)

	return records, nil
}

// ResolveWorksheet returns the title of the configured worksheet.
func (c *Client) ResolveWorksheet(ctx context.Context) (string, error) {
	doc, err := c.service.Spreadsheets.Get(c.sheetID).
		Fields(worksheetFields).
		Context(ctx).
		Do(c.callOptions()...)
	if err != nil {
		return "", fmt.Errorf("failed to list worksheets: %w", apiError(err))
	}

	titles := make([]string, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		if s != nil && s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}

	if len(titles) == 0 {
		return "", ErrNoWorksheets
	}

	switch {
	case c.worksheetName != "":
		for _, title := range titles {
			if title == c.worksheetName {
				c.logger.Info("Using worksheet by name", "worksheet", title)
				return title, nil
			}
		}

		return "", fmt.Errorf("%w: %q", ErrWorksheetNotFound, c.worksheetName)

	case c.worksheetIndex > 0:
		if c.worksheetIndex > len(titles) {
			return "", fmt.Errorf("%w: index %d of %d", ErrWorksheetNotFound, c.worksheetIndex, len(titles))
		}

		title := titles[c.worksheetIndex-1]
		c.logger.Info("Using worksheet by index", "index", c.worksheetIndex, "worksheet", title)

		return title, nil

	default:
		c.logger.Info("Using first worksheet", "worksheet", titles[0])

		return titles[0], nil
	}
}

// FetchGrid returns the rows of a worksheet with display values and links.
func (c *Client) FetchGrid(ctx context.Context, title string) ([]*sheetsapi.RowData, error) {
	doc, err := c.service.Spreadsheets.Get(c.sheetID).
		Ranges(quoteSheetTitle(title)).
		IncludeGridData(true).
		Fields(gridFields).
		Context(ctx).
		Do(c.callOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch worksheet %q: %w", title, apiError(err))
	}

	if len(doc.Sheets) == 0 || doc.Sheets[0] == nil || len(doc.Sheets[0].Data) == 0 || doc.Sheets[0].Data[0] == nil {
		return nil, nil
	}

	return doc.Sheets[0].Data[0].RowData, nil
}

func (c *Client) callOptions() []googleapi.CallOption {
	if c.apiKey == "" {
		return nil
	}

	return []googleapi.CallOption{googleapi.QueryParameter("key", c.apiKey)}
}

// apiError maps an API failure response onto ErrUnexpectedStatusCode.
func apiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, gerr.Code, gerr.Message)
	}

	return fmt.Errorf("request failed: %w", err)
}

// cellLink returns the URI of the first rich-link chip, else the cell hyperlink.
func cellLink(cell *sheetsapi.CellData) string {
	for _, run := range cell.ChipRuns {
		if run == nil || run.Chip == nil || run.Chip.RichLinkProperties == nil {
			continue
		}

		if uri := run.Chip.RichLinkProperties.Uri; uri != "" {
			return uri
		}
	}

	return cell.Hyperlink
}

func toGrid(rows []*sheetsapi.RowData) [][]gridCell {
	grid := make([][]gridCell, len(rows))

	for i, row := range rows {
		if row == nil {
			continue
		}

		cells := make([]gridCell, len(row.Values))
		for j, v := range row.Values {
			if v == nil {
				continue
			}

			cells[j] = gridCell{Text: v.FormattedValue, Link: cellLink(v)}
		}

		grid[i] = cells
	}

	return grid
}

// quoteSheetTitle formats a worksheet title as an A1 range covering the whole sheet.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

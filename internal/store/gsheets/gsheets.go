// Package gsheets is the Google Sheets backed store.Store used in production.
package gsheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"vila-timesheet/internal/logging"
	"vila-timesheet/internal/sheetref"
	"vila-timesheet/internal/store"
)

const (
	inputRaw         = "RAW"
	inputUserEntered = "USER_ENTERED"
	renderFormatted  = "FORMATTED_VALUE"
	renderFormula    = "FORMULA"
)

// Config selects the spreadsheet and how to authenticate against it.
type Config struct {
	SpreadsheetID string
	// CredentialsJSON is a service account key.
	CredentialsJSON []byte
	// HTTPClient and Endpoint bypass service account auth. Used against fakes.
	HTTPClient *http.Client
	Endpoint   string
}

// Validate checks the config before any network call.
func (c Config) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is required")
	}
	if c.HTTPClient == nil && len(c.CredentialsJSON) == 0 {
		return fmt.Errorf("service account credentials are required")
	}
	return nil
}

// Store talks to one spreadsheet through the Sheets v4 API.
type Store struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *slog.Logger
}

var _ store.Store = (*Store)(nil)

// New builds the API client. It does not contact the spreadsheet.
func New(ctx context.Context, config Config, logger *slog.Logger) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sheets config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, store.Fail("connect", "", err)
	}

	return &Store{
		service:       service,
		spreadsheetID: config.SpreadsheetID,
		logger:        logging.OrDiscard(logger),
	}, nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var opts []option.ClientOption
	if config.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	} else {
		jwtConfig, err := google.JWTConfigFromJSON(config.CredentialsJSON, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(ctx, jwtConfig.TokenSource(ctx))))
	}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

func (s *Store) Info(ctx context.Context) (store.Info, error) {
	ss, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return store.Info{}, store.Fail("get spreadsheet", "", err)
	}
	info := store.Info{ID: ss.SpreadsheetId, Backend: "sheets"}
	if ss.Properties != nil {
		info.Title = ss.Properties.Title
	}
	return info, nil
}

func (s *Store) ListWorksheets(ctx context.Context) ([]store.Worksheet, error) {
	ss, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, store.Fail("list worksheets", "", err)
	}
	out := make([]store.Worksheet, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties == nil {
			continue
		}
		out = append(out, toWorksheet(sh.Properties))
	}
	return out, nil
}

func toWorksheet(p *sheets.SheetProperties) store.Worksheet {
	ws := store.Worksheet{ID: p.SheetId, Title: p.Title}
	if p.GridProperties != nil {
		ws.Rows = int(p.GridProperties.RowCount)
		ws.Cols = int(p.GridProperties.ColumnCount)
	}
	return ws
}

func (s *Store) GetWorksheet(ctx context.Context, title string) (store.Worksheet, error) {
	list, err := s.ListWorksheets(ctx)
	if err != nil {
		return store.Worksheet{}, err
	}
	for _, ws := range list {
		if ws.Title == title {
			return ws, nil
		}
	}
	return store.Worksheet{}, store.ErrWorksheetNotFound
}

func (s *Store) CreateWorksheet(ctx context.Context, title string, rows, cols int) (store.Worksheet, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: title,
						GridProperties: &sheets.GridProperties{
							RowCount:    int64(rows),
							ColumnCount: int64(cols),
						},
					},
				},
			},
		},
	}
	resp, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return store.Worksheet{}, store.Fail("create worksheet", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return store.Worksheet{}, store.Fail("create worksheet", title, fmt.Errorf("empty reply"))
	}

	s.logger.Info("created worksheet", "sheet", title, "rows", rows, "cols", cols)
	return toWorksheet(resp.Replies[0].AddSheet.Properties), nil
}

func (s *Store) ReadRange(ctx context.Context, ws store.Worksheet, a1 string, opts store.ReadOptions) ([][]string, error) {
	target := sheetref.Qualified(ws.Title, a1)
	render := renderFormatted
	if opts.Formulas {
		render = renderFormula
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, target).
		ValueRenderOption(render).
		Context(ctx).
		Do()
	if err != nil {
		return nil, store.Fail("read", target, err)
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		grid[i] = make([]string, len(row))
		for j, v := range row {
			grid[i][j] = store.FormatValue(v)
		}
	}
	s.logger.Debug("read range", "range", target, "rows", len(grid))
	return store.Trim(grid), nil
}

// WriteCell writes one value RAW so strings such as dates are stored as typed.
func (s *Store) WriteCell(ctx context.Context, ws store.Worksheet, row, col int, value interface{}) error {
	target := sheetref.Qualified(ws.Title, sheetref.At(col, row).String())
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}

	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, target, vr).
		ValueInputOption(inputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return store.Fail("write", target, err)
	}
	return nil
}

func (s *Store) WriteRange(ctx context.Context, ws store.Worksheet, a1 string, values [][]string, opts store.WriteOptions) error {
	target := sheetref.Qualified(ws.Title, a1)
	input := inputRaw
	if opts.TreatAsFormula {
		input = inputUserEntered
	}

	rows := make([][]interface{}, len(values))
	for i, row := range values {
		rows[i] = make([]interface{}, len(row))
		for j, v := range row {
			rows[i][j] = v
		}
	}

	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, target, &sheets.ValueRange{Values: rows}).
		ValueInputOption(input).
		Context(ctx).
		Do()
	if err != nil {
		return store.Fail("write", target, err)
	}
	return nil
}

func (s *Store) ApplyFormatting(ctx context.Context, ws store.Worksheet, a1 string, style store.Style) error {
	rng, err := sheetref.ParseRange(a1)
	if err != nil {
		return store.Fail("format", a1, err)
	}

	format := &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: style.Bold}}
	fields := "userEnteredFormat.textFormat"
	if style.Background != "" {
		color, err := parseColor(style.Background)
		if err != nil {
			return store.Fail("format", a1, err)
		}
		format.BackgroundColor = color
		fields += ",userEnteredFormat.backgroundColor"
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range:  gridRange(ws.ID, rng),
					Cell:   &sheets.CellData{UserEnteredFormat: format},
					Fields: fields,
				},
			},
		},
	}
	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return store.Fail("format", sheetref.Qualified(ws.Title, a1), err)
	}
	return nil
}

func (s *Store) FreezePanes(ctx context.Context, ws store.Worksheet, rows, cols int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: ws.ID,
						GridProperties: &sheets.GridProperties{
							FrozenRowCount:    int64(rows),
							FrozenColumnCount: int64(cols),
							ForceSendFields:   []string{"FrozenRowCount", "FrozenColumnCount"},
						},
						ForceSendFields: []string{"SheetId"},
					},
					Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
				},
			},
		},
	}
	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return store.Fail("freeze", ws.Title, err)
	}
	return nil
}

// gridRange converts a 1-based inclusive range to the API's 0-based half-open form.
func gridRange(sheetID int64, rng sheetref.Range) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(rng.From.Row - 1),
		EndRowIndex:      int64(rng.To.Row),
		StartColumnIndex: int64(rng.From.Col - 1),
		EndColumnIndex:   int64(rng.To.Col),
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

func parseColor(hex string) (*sheets.Color, error) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return nil, fmt.Errorf("invalid color %q", hex)
	}
	return &sheets.Color{
		Red:   float64((v>>16)&0xff) / 255,
		Green: float64((v>>8)&0xff) / 255,
		Blue:  float64(v&0xff) / 255,
	}, nil
}

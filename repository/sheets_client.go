package repository

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheetsClient talks to the Google Sheets values API
type GoogleSheetsClient struct {
	client *sheets.Service
}

// NewGoogleSheetsClient creates a Sheets client authenticated with a Service Account.
// credentialsJSON takes precedence over credentialsPath when both are set.
func NewGoogleSheetsClient(ctx context.Context, credentialsPath, credentialsJSON string) (*GoogleSheetsClient, error) {
	var creds option.ClientOption
	if credentialsJSON != "" {
		creds = option.WithCredentialsJSON([]byte(credentialsJSON))
	} else {
		creds = option.WithCredentialsFile(credentialsPath)
	}

	srv, err := sheets.NewService(ctx, creds, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSheetsClient{client: srv}, nil
}

// Ensure GoogleSheetsClient implements SheetValuesClient
var _ SheetValuesClient = (*GoogleSheetsClient)(nil)

// GetValues reads a range. Numbers come back unformatted (float64).
func (c *GoogleSheetsClient) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := c.client.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}
	return resp.Values, nil
}

// UpdateValues writes values at the top-left of writeRange as raw text
func (c *GoogleSheetsClient) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	if _, err := c.client.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("failed to update values: %w", err)
	}
	return nil
}

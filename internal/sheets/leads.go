package sheets

import (
	"context"
	"fmt"
	"strings"

	sheetsv4 "google.golang.org/api/sheets/v4"

	"brk-portal/internal/models"
	"brk-portal/internal/util"
)

// SheetLeads columns: email, name, created_at, source.
const SheetLeads = "Leads"

type LeadRow struct {
	Email     string
	Name      string
	CreatedAt string
	Source    string
}

func (c *Client) readAll(ctx context.Context, sheet string) ([][]interface{}, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!A:Z").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []interface{}) error {
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{row}}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:Z", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (c *Client) ListLeads(ctx context.Context) ([]LeadRow, error) {
	values, err := c.readAll(ctx, SheetLeads)
	if err != nil {
		return nil, err
	}
	out := []LeadRow{}
	// header row at index 0
	for i := 1; i < len(values); i++ {
		row := values[i]
		email := strings.TrimSpace(get(row, 0))
		if email == "" {
			continue
		}
		out = append(out, LeadRow{
			Email:     email,
			Name:      get(row, 1),
			CreatedAt: get(row, 2),
			Source:    get(row, 3),
		})
	}
	return out, nil
}

func (c *Client) HasLead(ctx context.Context, email string) (bool, error) {
	leads, err := c.ListLeads(ctx)
	if err != nil {
		return false, err
	}
	for _, l := range leads {
		if strings.EqualFold(l.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// AppendLead adds the lead unless its email is already on the sheet.
func (c *Client) AppendLead(ctx context.Context, lead models.Lead, source string) error {
	has, err := c.HasLead(ctx, lead.Email)
	if err != nil {
		return fmt.Errorf("read %s: %w", SheetLeads, err)
	}
	if has {
		return nil
	}
	return c.appendRow(ctx, SheetLeads, []interface{}{
		lead.Email, lead.Name, util.NowISO(), source,
	})
}

func get(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return ""
	}
	return fmt.Sprint(row[idx])
}

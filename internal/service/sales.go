package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/xuri/excelize/v2"

	"github.com/storefront/merchant-admin/internal/backend"
	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/endpoint"
)

var addSoldItemFields = []string{"product_id", "quantity", "timestamp"}

const soldSheet = "Sold"

// DateRange is an inclusive day range. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether day is inside the range. Only the calendar date
// of day is compared.
func (r DateRange) Contains(day time.Time) bool {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To) {
		return false
	}

	return true
}

// ParseDateRange parses optional from/to query values.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var c coercer
	if from != "" {
		d, err := parseDay(from)
		if err != nil {
			c.fail("from", errNotDate)
		}
		r.From = d
	}
	if to != "" {
		d, err := parseDay(to)
		if err != nil {
			c.fail("to", errNotDate)
		}
		r.To = d
	}
	if err := c.err(); err != nil {
		return DateRange{}, err
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return DateRange{}, fieldError("to", "must not be before from")
	}

	return r, nil
}

type saleInput struct {
	ProductID *int    `json:"product_id"`
	Quantity  *int    `json:"quantity"`
	Timestamp *string `json:"timestamp"`
}

func (in *saleInput) fields() domain.Fields {
	out := domain.Fields{
		"product_id": *in.ProductID,
		"quantity":   *in.Quantity,
	}
	if in.Timestamp != nil {
		out["timestamp"] = *in.Timestamp
	}

	return out
}

type SalesService struct {
	proxy
}

func NewSalesService(client BackendClient, endpoints EndpointRegistry) *SalesService {
	return &SalesService{
		proxy: newProxy(client, endpoints),
	}
}

// List returns the sold items. With a non-zero range only items whose date
// falls inside it are kept; items with an unreadable date are kept as is.
func (s *SalesService) List(ctx context.Context, sess domain.Session, rng DateRange) (backend.Response, error) {
	token, err := s.authorize(sess, endpoint.ListSoldItems)
	if err != nil {
		return backend.Response{}, err
	}

	resp, err := s.forward(ctx, token, endpoint.ListSoldItems, nil)
	if err != nil {
		return backend.Response{}, fmt.Errorf("s.forward -> %w", err)
	}
	if rng.IsZero() {
		return resp, nil
	}

	filtered, err := filterByDate(resp.Body, rng)
	if err != nil {
		return backend.Response{}, err
	}
	resp.Body = filtered

	return resp, nil
}

func filterByDate(body json.RawMessage, rng DateRange) (json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	kept := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		var dated struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(item, &dated); err != nil {
			kept = append(kept, item)
			continue
		}
		day, err := parseDay(dated.Date)
		if err != nil || rng.Contains(day) {
			kept = append(kept, item)
		}
	}

	out, err := json.Marshal(kept)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal -> %w", err)
	}

	return out, nil
}

func (s *SalesService) Add(ctx context.Context, sess domain.Session, input map[string]any) (backend.Response, error) {
	token, err := s.authorize(sess, endpoint.AddSoldItem)
	if err != nil {
		return backend.Response{}, err
	}

	fields := whitelist(input, addSoldItemFields...)
	var c coercer
	in := saleInput{
		ProductID: c.int(fields, "product_id"),
		Quantity:  c.int(fields, "quantity"),
		Timestamp: c.date(fields, "timestamp"),
	}
	if err := c.err(); err != nil {
		return backend.Response{}, s.reject(endpoint.AddSoldItem, err)
	}
	err = validation.ValidateStruct(&in,
		validation.Field(&in.ProductID, validation.NotNil, validation.Min(1)),
		validation.Field(&in.Quantity, validation.NotNil, validation.Min(1)),
	)
	if err != nil {
		return backend.Response{}, s.reject(endpoint.AddSoldItem, asValidationError(err))
	}

	resp, err := s.forward(ctx, token, endpoint.AddSoldItem, in.fields())
	if err != nil {
		return backend.Response{}, fmt.Errorf("s.forward -> %w", err)
	}

	return resp, nil
}

// SoldItems lists and decodes sold items inside rng.
func (s *SalesService) SoldItems(ctx context.Context, sess domain.Session, rng DateRange) ([]domain.SoldItem, error) {
	resp, err := s.List(ctx, sess, rng)
	if err != nil {
		return nil, err
	}

	var items []domain.SoldItem
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return items, nil
}

// Export writes the sold items inside rng as an XLSX workbook.
func (s *SalesService) Export(ctx context.Context, sess domain.Session, rng DateRange, w io.Writer) error {
	items, err := s.SoldItems(ctx, sess, rng)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", soldSheet); err != nil {
		return fmt.Errorf("f.SetSheetName -> %w", err)
	}

	header := []interface{}{"Product Name", "Quantity", "Each Price", "Total", "Date"}
	if err := f.SetSheetRow(soldSheet, "A1", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	var total float64
	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		row := []interface{}{item.Name, item.Quantity, item.Price, item.Total(), item.Date}
		if err := f.SetSheetRow(soldSheet, cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
		total += item.Total()
	}

	cell, err := excelize.CoordinatesToCellName(3, len(items)+2)
	if err != nil {
		return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
	}
	footer := []interface{}{"Total", total}
	if err := f.SetSheetRow(soldSheet, cell, &footer); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("f.WriteTo -> %w", err)
	}

	return nil
}

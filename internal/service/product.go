package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gocarina/gocsv"

	"github.com/storefront/merchant-admin/internal/backend"
	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/endpoint"
)

// Outbound whitelists. store_id is never taken from input.
var (
	addProductFields    = []string{"name", "purchase_price", "max_sell_price", "quantity", "category", "date", "store_id"}
	updateProductFields = []string{"name", "purchase_price", "max_sell_price", "quantity", "category", "date"}
)

type productInput struct {
	Name          *string `json:"name"`
	PurchasePrice *int    `json:"purchase_price"`
	MaxSellPrice  *int    `json:"max_sell_price"`
	Quantity      *int    `json:"quantity"`
	Category      *string `json:"category"`
	Date          *string `json:"date"`
}

func shapeProduct(input map[string]any) (productInput, error) {
	fields := whitelist(input, updateProductFields...)

	var c coercer
	p := productInput{
		Name:          c.string(fields, "name"),
		PurchasePrice: c.int(fields, "purchase_price"),
		MaxSellPrice:  c.int(fields, "max_sell_price"),
		Quantity:      c.int(fields, "quantity"),
		Category:      c.category(fields, "category"),
		Date:          c.date(fields, "date"),
	}

	return p, c.err()
}

func (p *productInput) validate(create bool) error {
	categories := make([]interface{}, len(domain.ProductCategories))
	for i, c := range domain.ProductCategories {
		categories[i] = c
	}

	return asValidationError(validation.ValidateStruct(p,
		validation.Field(&p.Name, rules(create, validation.NilOrNotEmpty, validation.Length(1, 100))...),
		validation.Field(&p.PurchasePrice, rules(create, validation.Min(0))...),
		validation.Field(&p.MaxSellPrice, rules(create, validation.Min(0))...),
		validation.Field(&p.Quantity, rules(create, validation.Min(0))...),
		validation.Field(&p.Category, rules(create, validation.NilOrNotEmpty, validation.In(categories...))...),
		validation.Field(&p.Date, rules(create)...),
	))
}

func rules(required bool, more ...validation.Rule) []validation.Rule {
	out := make([]validation.Rule, 0, len(more)+1)
	if required {
		out = append(out, validation.NotNil)
	}

	return append(out, more...)
}

func (p *productInput) fields() domain.Fields {
	out := domain.Fields{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.PurchasePrice != nil {
		out["purchase_price"] = *p.PurchasePrice
	}
	if p.MaxSellPrice != nil {
		out["max_sell_price"] = *p.MaxSellPrice
	}
	if p.Quantity != nil {
		out["quantity"] = *p.Quantity
	}
	if p.Category != nil {
		out["category"] = *p.Category
	}
	if p.Date != nil {
		out["date"] = *p.Date
	}

	return out
}

type ProductService struct {
	proxy
	storeID int
}

func NewProductService(client BackendClient, endpoints EndpointRegistry, storeID int) *ProductService {
	return &ProductService{
		proxy:   newProxy(client, endpoints),
		storeID: storeID,
	}
}

func (s *ProductService) Add(ctx context.Context, sess domain.Session, input map[string]any) (backend.Response, error) {
	token, err := s.authorize(sess, endpoint.AddProduct)
	if err != nil {
		return backend.Response{}, err
	}

	p, err := shapeProduct(input)
	if err != nil {
		return backend.Response{}, s.reject(endpoint.AddProduct, err)
	}
	if err := p.validate(true); err != nil {
		return backend.Response{}, s.reject(endpoint.AddProduct, err)
	}

	payload := p.fields()
	payload["store_id"] = s.storeID

	resp, err := s.forward(ctx, token, endpoint.AddProduct, whitelist(payload, addProductFields...))
	if err != nil {
		return backend.Response{}, fmt.Errorf("s.forward -> %w", err)
	}

	return resp, nil
}

func (s *ProductService) List(ctx context.Context, sess domain.Session) (backend.Response, error) {
	token, err := s.authorize(sess, endpoint.ListProducts)
	if err != nil {
		return backend.Response{}, err
	}

	resp, err := s.forward(ctx, token, endpoint.ListProducts, nil)
	if err != nil {
		return backend.Response{}, fmt.Errorf("s.forward -> %w", err)
	}

	return resp, nil
}

// Update applies a partial update. input must carry the product "id"; the
// remaining whitelisted fields form the PATCH body.
func (s *ProductService) Update(ctx context.Context, sess domain.Session, input map[string]any) (backend.Response, error) {
	token, err := s.authorize(sess, endpoint.UpdateProduct)
	if err != nil {
		return backend.Response{}, err
	}

	id, ok := parseID(input["id"])
	if !ok {
		return backend.Response{}, s.reject(endpoint.UpdateProduct, fieldError("id", "is required"))
	}

	p, err := shapeProduct(input)
	if err != nil {
		return backend.Response{}, s.reject(endpoint.UpdateProduct, err)
	}
	if err := p.validate(false); err != nil {
		return backend.Response{}, s.reject(endpoint.UpdateProduct, err)
	}

	payload := p.fields()
	if len(payload) == 0 {
		return backend.Response{}, s.reject(endpoint.UpdateProduct, fieldError("fields", "at least one updatable field is required"))
	}

	resp, err := s.forward(ctx, token, endpoint.UpdateProduct, payload, id)
	if err != nil {
		return backend.Response{}, fmt.Errorf("s.forward -> %w", err)
	}

	return resp, nil
}

func (s *ProductService) Delete(ctx context.Context, sess domain.Session, id string) (backend.Response, error) {
	token, err := s.authorize(sess, endpoint.DeleteProduct)
	if err != nil {
		return backend.Response{}, err
	}

	id, ok := parseID(id)
	if !ok {
		return backend.Response{}, s.reject(endpoint.DeleteProduct, fieldError("id", "is required"))
	}

	resp, err := s.forward(ctx, token, endpoint.DeleteProduct, nil, id)
	if err != nil {
		return backend.Response{}, fmt.Errorf("s.forward -> %w", err)
	}

	return resp, nil
}

// Products lists and decodes the backend products.
func (s *ProductService) Products(ctx context.Context, sess domain.Session) ([]domain.Product, error) {
	resp, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(resp.Body, &products); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return products, nil
}

// Export writes the product list as CSV.
func (s *ProductService) Export(ctx context.Context, sess domain.Session, w io.Writer) error {
	products, err := s.Products(ctx, sess)
	if err != nil {
		return err
	}

	if err := gocsv.Marshal(&products, w); err != nil {
		return fmt.Errorf("gocsv.Marshal -> %w", err)
	}

	return nil
}

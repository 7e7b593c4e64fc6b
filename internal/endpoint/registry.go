package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/storefront/merchant-admin/internal/config"
)

type Operation string

const (
	Login         Operation = "login"
	AddProduct    Operation = "add_product"
	ListProducts  Operation = "list_products"
	UpdateProduct Operation = "update_product"
	DeleteProduct Operation = "delete_product"
	ListSoldItems Operation = "list_sold_items"
	AddSoldItem   Operation = "add_sold_item"
)

const idParam = "{id}"

var (
	ErrUnknownOperation = errors.New("unknown backend operation")
	ErrUnknownProfile   = errors.New("unknown backend profile")
	ErrMissingParam     = errors.New("missing path parameter")
)

type definition struct {
	method string
	path   string
	public bool
}

var defaults = map[Operation]definition{
	Login:         {method: http.MethodPost, path: "/auth/login_admin", public: true},
	AddProduct:    {method: http.MethodPost, path: "/products"},
	ListProducts:  {method: http.MethodGet, path: "/products"},
	UpdateProduct: {method: http.MethodPatch, path: "/products/" + idParam},
	DeleteProduct: {method: http.MethodDelete, path: "/products/" + idParam},
	ListSoldItems: {method: http.MethodGet, path: "/sold"},
	AddSoldItem:   {method: http.MethodPost, path: "/sold"},
}

// operations lists every operation known to the registry.
func operations() []Operation {
	ops := make([]Operation, 0, len(defaults))
	for op := range defaults {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	return ops
}

// Endpoint is a fully resolved backend call target.
type Endpoint struct {
	Operation Operation
	Method    string
	BaseURL   string
	Path      string
	Public    bool
}

func (e Endpoint) URL() string {
	return e.BaseURL + e.Path
}

type resolved struct {
	definition
	trailingSlash bool
}

type profile struct {
	baseURL   string
	endpoints map[Operation]resolved
}

// Registry maps operations to backend URLs for every configured deployment
// profile. It is immutable once built.
type Registry struct {
	active   string
	profiles map[string]profile
}

func NewRegistry(conf *config.BackendConfig) (*Registry, error) {
	if conf == nil || len(conf.Profiles) == 0 {
		return nil, errors.New("endpoint.NewRegistry: no backend profiles configured")
	}

	r := &Registry{
		active:   conf.Profile,
		profiles: make(map[string]profile, len(conf.Profiles)),
	}

	for name, pc := range conf.Profiles {
		p, err := buildProfile(pc)
		if err != nil {
			return nil, fmt.Errorf("endpoint.NewRegistry -> profile %q -> %w", name, err)
		}
		r.profiles[name] = p
	}

	if _, ok := r.profiles[r.active]; !ok {
		return nil, fmt.Errorf("endpoint.NewRegistry -> %w: %q", ErrUnknownProfile, r.active)
	}

	return r, nil
}

func buildProfile(pc config.ProfileConfig) (profile, error) {
	base := strings.TrimRight(strings.TrimSpace(pc.BaseURL), "/")
	if base == "" {
		return profile{}, errors.New("base_url is empty")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return profile{}, fmt.Errorf("invalid base_url: %w", err)
	}

	for name := range pc.Endpoints {
		if _, ok := defaults[Operation(name)]; !ok {
			return profile{}, fmt.Errorf("%w: %q, expected one of %v", ErrUnknownOperation, name, operations())
		}
	}

	p := profile{
		baseURL:   base,
		endpoints: make(map[Operation]resolved, len(defaults)),
	}
	for op, def := range defaults {
		res := resolved{definition: def, trailingSlash: pc.TrailingSlash}
		if override, ok := pc.Endpoints[string(op)]; ok {
			if override.Path != "" {
				res.path = override.Path
			}
			if override.TrailingSlash != nil {
				res.trailingSlash = *override.TrailingSlash
			}
			if override.Public != nil {
				res.public = *override.Public
			}
		}
		if !strings.HasPrefix(res.path, "/") {
			res.path = "/" + res.path
		}
		p.endpoints[op] = res
	}

	return p, nil
}

// Profile returns the name of the active deployment profile.
func (r *Registry) Profile() string {
	return r.active
}

// Resolve resolves op against the active profile. params fill the {id}
// placeholder of the path, in order.
func (r *Registry) Resolve(op Operation, params ...string) (Endpoint, error) {
	return r.ResolveIn(r.active, op, params...)
}

func (r *Registry) ResolveIn(profileName string, op Operation, params ...string) (Endpoint, error) {
	p, ok := r.profiles[profileName]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrUnknownProfile, profileName)
	}

	res, ok := p.endpoints[op]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	path := res.path
	for _, param := range params {
		if !strings.Contains(path, idParam) {
			break
		}
		if strings.TrimSpace(param) == "" {
			return Endpoint{}, fmt.Errorf("%w for %s", ErrMissingParam, op)
		}
		path = strings.Replace(path, idParam, url.PathEscape(param), 1)
	}
	if strings.Contains(path, idParam) {
		return Endpoint{}, fmt.Errorf("%w for %s", ErrMissingParam, op)
	}

	path = strings.TrimRight(path, "/")
	if res.trailingSlash || path == "" {
		path += "/"
	}

	return Endpoint{
		Operation: op,
		Method:    res.method,
		BaseURL:   p.baseURL,
		Path:      path,
		Public:    res.public,
	}, nil
}

// IsPublic reports whether op may be called without a session on the
// active profile. Unknown operations are never public.
func (r *Registry) IsPublic(op Operation) bool {
	res, ok := r.profiles[r.active].endpoints[op]

	return ok && res.public
}

// Package config loads the listctl configuration: API access, logging, paging
// defaults and the entities that can be listed.
//
// The file is YAML. Environment variables are expanded before parsing (a .env
// file in the working directory is loaded first when present), defaults come
// from `default` struct tags and validation from `validate` tags.
//
// Example:
//
//	api:
//	  base_url: https://shop.example.com/api
//	  token: ${SHOP_API_TOKEN}
//	entities:
//	  purchases:
//	    list_path: /purchases
//	    search_path: /purchases/search
//	    shape: enveloped
//	    void_field: status
//	    void_values: [cancelled]
//	    search_fields: [customer_name, vehicle_plate]
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/friendsofgo/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/nrfta/listview-go"
	"github.com/nrfta/listview-go/internal/logging"
)

// Config is the root configuration.
type Config struct {
	API       API                 `yaml:"api"`
	Log       logging.Config      `yaml:"log"`
	Paging    listview.PageConfig `yaml:"paging"`
	CacheSize int                 `yaml:"cache_size" default:"64" validate:"gte=0"`
	Entities  map[string]Entity   `yaml:"entities" validate:"required,min=1,dive"`
}

// API holds the REST backend settings.
type API struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
}

// Entity describes how one entity is listed and searched.
// Field sets are data, so new entities need no code.
type Entity struct {
	// ListPath is the plain paginated endpoint.
	ListPath string `yaml:"list_path" validate:"required"`

	// SearchPath is the server-side search endpoint. When empty, filtered
	// views fetch ListPath unpaginated and filter client-side.
	SearchPath string `yaml:"search_path"`

	// Shape is the response shape of ListPath: "bare" or "enveloped".
	Shape string `yaml:"shape" default:"bare" validate:"oneof=bare enveloped"`

	// SearchShape is the response shape of SearchPath. Defaults to Shape.
	SearchShape string `yaml:"search_shape" validate:"omitempty,oneof=bare enveloped"`

	// ItemsKey is the envelope field holding the rows.
	ItemsKey string `yaml:"items_key" default:"items"`

	// VoidField and VoidValues mark soft-deleted or voided rows, which are
	// excluded from every view. Without VoidValues any non-empty VoidField
	// value voids the row (e.g. a voided_at timestamp).
	VoidField  string   `yaml:"void_field"`
	VoidValues []string `yaml:"void_values"`

	// CreatedAtField orders rows newest first. Set to "-" to keep backend order.
	CreatedAtField string `yaml:"created_at_field" default:"created_at"`

	// SearchFields are matched by client-side search.
	SearchFields []string `yaml:"search_fields"`

	// UnsupportedFilters are retried without after a 400 from SearchPath.
	UnsupportedFilters []string `yaml:"unsupported_filters"`

	// Columns are printed by listctl. Defaults to every field of the first row.
	Columns []string `yaml:"columns"`
}

// ListShape returns the parsed shape of the list endpoint.
func (e Entity) ListShape() listview.Shape {
	shape, _ := listview.ParseShape(e.Shape)
	return shape
}

// SearchResponseShape returns the parsed shape of the search endpoint.
func (e Entity) SearchResponseShape() listview.Shape {
	if e.SearchShape == "" {
		return e.ListShape()
	}
	shape, _ := listview.ParseShape(e.SearchShape)
	return shape
}

// ClientSideSearch reports whether filtered views are served client-side.
func (e Entity) ClientSideSearch() bool {
	return e.SearchPath == ""
}

// Sorted reports whether rows are ordered by CreatedAtField.
func (e Entity) Sorted() bool {
	return e.CreatedAtField != "" && e.CreatedAtField != "-"
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration.
// Environment variables in data are expanded first.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := setDefaults(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Entity returns the named entity.
func (c *Config) Entity(name string) (Entity, error) {
	entity, ok := c.Entities[name]
	if !ok {
		return Entity{}, errors.Errorf("unknown entity %q", name)
	}
	return entity, nil
}

// EntityNames returns the configured entity names in sorted order.
func (c *Config) EntityNames() []string {
	names := lo.Keys(c.Entities)
	slices.Sort(names)
	return names
}

func setDefaults(cfg *Config) error {
	if err := defaults.Set(cfg); err != nil {
		return errors.Wrap(err, "set config defaults")
	}
	for name, entity := range cfg.Entities {
		if err := defaults.Set(&entity); err != nil {
			return errors.Wrapf(err, "set defaults for entity %s", name)
		}
		cfg.Entities[name] = entity
	}
	return nil
}

func validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errors.Wrap(err, "validate config")
	}

	failed := make([]string, 0, len(errs))
	for _, fe := range errs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}
		failed = append(failed, fmt.Sprintf("%s: %s", fe.Namespace(), tag))
	}
	return errors.Errorf("invalid config fields -> %s", strings.Join(failed, ", "))
}

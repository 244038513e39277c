// Package config loads the inventory configuration: ESI credentials, the
// tracked locations with their categories, and the pricing markets.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wetc/inventory"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration.
type Config struct {
	ESI        ESIConfig  `yaml:"esi"`
	Locations  []Location `yaml:"locations"`
	Categories []Category `yaml:"categories"`
	Markets    []Market   `yaml:"markets"`

	// Category name to ids lists, one per classification tier.
	TypeIDs     map[string][]int64 `yaml:"type_ids"`
	GroupIDs    map[string][]int64 `yaml:"group_ids"`
	CategoryIDs map[string][]int64 `yaml:"category_ids"`
}

// ESIConfig holds the SSO application and the corporation to read.
type ESIConfig struct {
	ClientID      string `yaml:"client_id"`
	SecretKey     string `yaml:"secret_key"`
	CallbackURL   string `yaml:"callback_url"`
	UserAgent     string `yaml:"user_agent"`
	RefreshToken  string `yaml:"refresh_token"`
	CorporationID int64  `yaml:"corporation_id"`
}

// Location is a tracked station or structure, with the corporation hangar
// divisions (1 to 7) that are taken into account.
type Location struct {
	Name    string `yaml:"name"`
	ID      int64  `yaml:"id"`
	Hangars []int  `yaml:"hangars"`
}

// Category is a named bucket of items, priced on a market.
type Category struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
	Market   string `yaml:"market"`
	Strategy string `yaml:"strategy"` // Buy, Sell or Split
	// Multiplier defaults to 1 when omitted.
	Multiplier *float64 `yaml:"multiplier"`
}

// Market is a pricing market.
type Market struct {
	Name     string `yaml:"name"`
	ID       int64  `yaml:"id"` // station or structure id
	RegionID int64  `yaml:"region_id"`
	Kind     string `yaml:"kind"` // Station or Structure
}

// Load reads a YAML configuration file, then applies environment overrides.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a YAML configuration, then applies environment overrides.
func Decode(r io.Reader) (*Config, error) {
	cfg := new(Config)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("INVCTL_ESI_CLIENT_ID"); v != "" {
		c.ESI.ClientID = v
	}
	if v := os.Getenv("INVCTL_ESI_SECRET_KEY"); v != "" {
		c.ESI.SecretKey = v
	}
	if v := os.Getenv("INVCTL_ESI_REFRESH_TOKEN"); v != "" {
		c.ESI.RefreshToken = v
	}
	if v := os.Getenv("INVCTL_ESI_CORPORATION_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.ESI.CorporationID = id
		}
	}
}

// Setup is the validated configuration, ready to classify and price items.
type Setup struct {
	Locations []*inventory.Location
	Markets   *inventory.Markets
}

// Build validates the configuration and builds the locations, with their
// categories attached, and the markets.
//
// A category is attached to the first location with a matching name.
func (c *Config) Build() (*Setup, error) {
	s := &Setup{Markets: inventory.NewMarkets()}

	for _, m := range c.Markets {
		kind, err := inventory.ParseMarketKind(m.Kind)
		if err != nil {
			return nil, fmt.Errorf("market %q: %w", m.Name, err)
		}
		err = s.Markets.Add(inventory.Market{Name: m.Name, LocationID: m.ID, RegionID: m.RegionID, Kind: kind})
		if err != nil {
			return nil, err
		}
	}

	for _, l := range c.Locations {
		flags := make([]string, 0, len(l.Hangars))
		for _, h := range l.Hangars {
			flag, ok := inventory.Hangars[h]
			if !ok {
				return nil, fmt.Errorf("location %q: invalid hangar %d, want 1 to 7", l.Name, h)
			}
			flags = append(flags, flag)
		}
		s.Locations = append(s.Locations, inventory.NewLocation(l.Name, l.ID, flags...))
	}

	byName := make(map[string]*inventory.Category)
	for _, cc := range c.Categories {
		if _, dup := byName[cc.Name]; dup {
			return nil, fmt.Errorf("category %q is defined twice", cc.Name)
		}
		strategy, err := inventory.ParseStrategy(cc.Strategy)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", cc.Name, err)
		}
		if !s.Markets.Has(cc.Market) {
			return nil, fmt.Errorf("category %q: unknown market %q", cc.Name, cc.Market)
		}
		multiplier := 1.0
		if cc.Multiplier != nil {
			multiplier = *cc.Multiplier
		}
		if multiplier < 0 {
			return nil, fmt.Errorf("category %q: negative multiplier %v", cc.Name, multiplier)
		}
		l := s.location(cc.Location)
		if l == nil {
			return nil, fmt.Errorf("category %q: unknown location %q", cc.Name, cc.Location)
		}
		cat := inventory.NewCategory(cc.Name, cc.Market, strategy, multiplier)
		l.AddCategory(cat)
		byName[cc.Name] = cat
	}

	ids := []struct {
		name string
		m    map[string][]int64
		add  func(*inventory.Category, ...int64)
	}{
		{"type_ids", c.TypeIDs, (*inventory.Category).AddTypeID},
		{"group_ids", c.GroupIDs, (*inventory.Category).AddGroupID},
		{"category_ids", c.CategoryIDs, (*inventory.Category).AddCategoryID},
	}
	for _, set := range ids {
		for name, list := range set.m {
			cat, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%s: unknown category %q", set.name, name)
			}
			set.add(cat, list...)
		}
	}
	return s, nil
}

func (s *Setup) location(name string) *inventory.Location {
	for _, l := range s.Locations {
		if l.Name == name {
			return l
		}
	}
	return nil
}

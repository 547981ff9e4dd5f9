package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/riskregister/pkg/domain/model/config"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

// SeedConfig is the TOML seed file loaded by the seed command and serve --seed
type SeedConfig struct {
	Departments []Reference `toml:"department"`
	Groups      []Reference `toml:"group"`
	Categories  []Category  `toml:"category"`
	Hazards     []Hazard    `toml:"hazard"`
}

// Reference is a department or group entry
type Reference struct {
	Name string `toml:"name"`
}

// Category represents a hazard category entry
type Category struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Category is valid
func (c *Category) Validate() error {
	if err := types.CategoryID(c.ID).Validate(); err != nil {
		return goerr.Wrap(ErrInvalidID, "invalid category ID", goerr.V(IDKey, c.ID))
	}
	if strings.TrimSpace(c.Name) == "" {
		return goerr.Wrap(ErrMissingName, "category name is required", goerr.V(IDKey, c.ID))
	}
	return nil
}

// Hazard represents a hazard entry. ID may be omitted and is then assigned
// on creation.
type Hazard struct {
	ID          string `toml:"id"`
	CategoryID  string `toml:"category_id"`
	Description string `toml:"description"`
	Health      bool   `toml:"health"`
	Safety      bool   `toml:"safety"`
	Security    bool   `toml:"security"`
	Environment bool   `toml:"environment"`
	Social      bool   `toml:"social"`
	Sources     string `toml:"sources"`
}

// Validate checks if the Hazard is valid
func (h *Hazard) Validate() error {
	categoryID := types.CategoryID(h.CategoryID)
	if err := categoryID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidID, "invalid hazard category ID", goerr.V(IDKey, h.CategoryID))
	}
	if h.ID != "" {
		if err := types.HazardID(h.ID).Validate(categoryID); err != nil {
			return goerr.Wrap(ErrInvalidID, "invalid hazard ID", goerr.V(IDKey, h.ID))
		}
	}
	if strings.TrimSpace(h.Description) == "" {
		return goerr.Wrap(ErrMissingRequired, "hazard description is required", goerr.V(IDKey, h.ID))
	}
	return nil
}

func validateNames(kind string, refs []Reference) error {
	seen := make(map[string]bool, len(refs))
	for i, ref := range refs {
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			return goerr.Wrap(ErrMissingName, kind+" name is required", goerr.V(IndexKey, i))
		}
		if seen[name] {
			return goerr.Wrap(ErrDuplicateName, "duplicate "+kind+" name", goerr.V(NameKey, name))
		}
		seen[name] = true
	}
	return nil
}

// Validate checks if the SeedConfig is valid
func (s *SeedConfig) Validate() error {
	if err := validateNames("department", s.Departments); err != nil {
		return err
	}
	if err := validateNames("group", s.Groups); err != nil {
		return err
	}

	categoryIDs := make(map[string]bool)
	for _, cat := range s.Categories {
		if err := cat.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category")
		}
		if categoryIDs[cat.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate category ID", goerr.V(IDKey, cat.ID))
		}
		categoryIDs[cat.ID] = true
	}

	hazardIDs := make(map[string]bool)
	for i, h := range s.Hazards {
		if err := h.Validate(); err != nil {
			return goerr.Wrap(err, "invalid hazard", goerr.V(IndexKey, i))
		}
		if h.ID == "" {
			continue
		}
		if hazardIDs[h.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate hazard ID", goerr.V(IDKey, h.ID))
		}
		hazardIDs[h.ID] = true
	}

	return nil
}

// LoadSeedConfiguration loads the seed data from a TOML file
func LoadSeedConfiguration(path string) (*SeedConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "seed file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V(ConfigPathKey, path))
	}

	var seed SeedConfig
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML seed file",
			goerr.V(ConfigPathKey, path),
			goerr.V("error", err.Error()))
	}

	if err := seed.Validate(); err != nil {
		return nil, goerr.Wrap(err, "seed validation failed", goerr.V(ConfigPathKey, path))
	}

	return &seed, nil
}

// ToDomainSeed converts SeedConfig to the domain seed
func (s *SeedConfig) ToDomainSeed() *domainConfig.Seed {
	seed := &domainConfig.Seed{
		Departments: make([]string, len(s.Departments)),
		Groups:      make([]string, len(s.Groups)),
		Categories:  make([]domainConfig.Category, len(s.Categories)),
		Hazards:     make([]domainConfig.Hazard, len(s.Hazards)),
	}

	for i, d := range s.Departments {
		seed.Departments[i] = strings.TrimSpace(d.Name)
	}
	for i, g := range s.Groups {
		seed.Groups[i] = strings.TrimSpace(g.Name)
	}
	for i, c := range s.Categories {
		seed.Categories[i] = domainConfig.Category{
			ID:   c.ID,
			Name: c.Name,
		}
	}
	for i, h := range s.Hazards {
		seed.Hazards[i] = domainConfig.Hazard{
			ID:          h.ID,
			CategoryID:  h.CategoryID,
			Description: h.Description,
			Health:      h.Health,
			Safety:      h.Safety,
			Security:    h.Security,
			Environment: h.Environment,
			Social:      h.Social,
			Sources:     h.Sources,
		}
	}

	return seed
}

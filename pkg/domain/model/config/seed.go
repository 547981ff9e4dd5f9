package config

// Category represents a hazard category to seed
type Category struct {
	ID   string
	Name string
}

// Hazard represents a catalog hazard to seed. An empty ID is assigned on creation.
type Hazard struct {
	ID          string
	CategoryID  string
	Description string
	Health      bool
	Safety      bool
	Security    bool
	Environment bool
	Social      bool
	Sources     string
}

// Seed holds the reference data loaded into an empty register
type Seed struct {
	Departments []string
	Groups      []string
	Categories  []Category
	Hazards     []Hazard
}

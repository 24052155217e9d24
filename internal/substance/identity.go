package substance

// Identity is the descriptive header shared by all database entities.
type Identity struct {
	Name        string `yaml:"name"`
	Filename    string `yaml:"-"`
	Version     string `yaml:"version,omitempty"`
	Description string `yaml:"description,omitempty"`
	Ident       int    `yaml:"ident,omitempty"`
}

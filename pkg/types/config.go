package types

import "time"

// Preferences holds the formatting options applied globally at generation
// time. Defaults match APA norms: Times New Roman 12pt body, double
// spacing, 2.54 cm margins, first-line indent.
type Preferences struct {
	// BodyFont is the font family for body text.
	BodyFont string `json:"body_font" yaml:"body_font"`

	// BodySize is the body font size in points.
	BodySize int `json:"body_size" yaml:"body_size"`

	// HeadingFont is the font family for headings.
	HeadingFont string `json:"heading_font" yaml:"heading_font"`

	// HeadingSize is the heading font size in points.
	HeadingSize int `json:"heading_size" yaml:"heading_size"`

	// LineSpacing is the line-spacing multiple: 1.0, 1.5, or 2.0.
	LineSpacing float64 `json:"line_spacing" yaml:"line_spacing"`

	// MarginCm is the page margin on all sides, in centimeters.
	MarginCm float64 `json:"margin_cm" yaml:"margin_cm"`

	// Justify aligns body paragraphs to both margins.
	Justify bool `json:"justify" yaml:"justify"`

	// Indent applies a half-inch first-line indent to body paragraphs.
	Indent bool `json:"indent" yaml:"indent"`
}

// DefaultPreferences returns APA-standard formatting preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		BodyFont:    "Times New Roman",
		BodySize:    12,
		HeadingFont: "Times New Roman",
		HeadingSize: 14,
		LineSpacing: 2.0,
		MarginCm:    2.54,
		Justify:     true,
		Indent:      true,
	}
}

// AutosavePolicy selects when snapshots are taken.
type AutosavePolicy string

const (
	// AutosaveInterval snapshots on a fixed schedule.
	AutosaveInterval AutosavePolicy = "interval"

	// AutosaveMutation snapshots after every recorded mutation.
	AutosaveMutation AutosavePolicy = "mutation"
)

// AutosaveConfig holds settings for the autosave manager.
type AutosaveConfig struct {
	// Enabled turns autosaving on (default true).
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Policy selects interval or mutation triggering (default interval).
	Policy AutosavePolicy `json:"policy" yaml:"policy" mapstructure:"policy"`

	// Interval is the snapshot period for the interval policy (default 5m).
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`

	// Path is the single-slot snapshot file (default autosave.json in the
	// project directory).
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ValidationConfig holds thresholds for pre-generation validation.
type ValidationConfig struct {
	// RequiredFields names project metadata fields that must be non-empty
	// (default title, students).
	RequiredFields []string `json:"required_fields" yaml:"required_fields" mapstructure:"required_fields"`

	// MinSectionLength is the minimum body length, in characters, for a
	// required section (default 50).
	MinSectionLength int `json:"min_section_length" yaml:"min_section_length" mapstructure:"min_section_length"`

	// MinReferences is the minimum citation count; below it generation
	// warns but proceeds (default 0).
	MinReferences int `json:"min_references" yaml:"min_references" mapstructure:"min_references"`
}

// HeaderMode selects how the header image is placed.
type HeaderMode string

const (
	// HeaderBanner places the image inline in the page header.
	HeaderBanner HeaderMode = "banner"

	// HeaderWatermark anchors the image behind the header text.
	HeaderWatermark HeaderMode = "watermark"
)

// GenerateConfig holds settings for document generation.
type GenerateConfig struct {
	// TitlePage includes the title page (default true).
	TitlePage bool `json:"title_page" yaml:"title_page" mapstructure:"title_page"`

	// TOCGuide includes the index page with instructions for Word's
	// automatic table of contents (default true).
	TOCGuide bool `json:"toc_guide" yaml:"toc_guide" mapstructure:"toc_guide"`

	// HeaderMode selects banner or watermark placement of the header image.
	HeaderMode HeaderMode `json:"header_mode" yaml:"header_mode" mapstructure:"header_mode"`
}

// StorageConfig locates the shared stores outside the project directory.
type StorageConfig struct {
	// TemplatesDir holds named template YAML files.
	TemplatesDir string `json:"templates_dir" yaml:"templates_dir" mapstructure:"templates_dir"`

	// LibraryPath is the SQLite reference library file.
	LibraryPath string `json:"library_path" yaml:"library_path" mapstructure:"library_path"`

	// ImagesDir is searched for default header.png and badge.png when the
	// project has no explicit attachment.
	ImagesDir string `json:"images_dir" yaml:"images_dir" mapstructure:"images_dir"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Autosave   AutosaveConfig   `json:"autosave" yaml:"autosave" mapstructure:"autosave"`
	Validation ValidationConfig `json:"validation" yaml:"validation" mapstructure:"validation"`
	Generate   GenerateConfig   `json:"generate" yaml:"generate" mapstructure:"generate"`
	Storage    StorageConfig    `json:"storage" yaml:"storage" mapstructure:"storage"`
}

// DefaultAppConfig returns the configuration used when no config file or
// flags override it.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Autosave: AutosaveConfig{
			Enabled:  true,
			Policy:   AutosaveInterval,
			Interval: 5 * time.Minute,
			Path:     "autosave.json",
		},
		Validation: ValidationConfig{
			RequiredFields:   []string{"title", "students"},
			MinSectionLength: 50,
			MinReferences:    0,
		},
		Generate: GenerateConfig{
			TitlePage:  true,
			TOCGuide:   true,
			HeaderMode: HeaderBanner,
		},
		Storage: StorageConfig{
			TemplatesDir: "templates",
			LibraryPath:  "library.db",
			ImagesDir:    "images",
		},
	}
}

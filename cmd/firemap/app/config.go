package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/firewatch/internal/geo"
	"github.com/roman-kulish/firewatch/internal/satellite"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"

	defaultCellDegrees = 0.02
)

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

// Region is a named map extent, usually loaded from the config file.
type Region struct {
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLon float64 `yaml:"min_lon"`
	MaxLon float64 `yaml:"max_lon"`
}

func (r Region) bounds() geo.BoundingBox {
	return geo.BoundingBox{
		LL: geo.Coord{Lat: r.MinLat, Lon: r.MinLon},
		UR: geo.Coord{Lat: r.MaxLat, Lon: r.MaxLon},
	}
}

func (r Region) validate() error {
	if r.MinLat >= r.MaxLat {
		return fmt.Errorf("min_lat %0.4f must be below max_lat %0.4f", r.MinLat, r.MaxLat)
	}
	if r.MinLon >= r.MaxLon {
		return fmt.Errorf("min_lon %0.4f must be below max_lon %0.4f", r.MinLon, r.MaxLon)
	}
	return nil
}

// ConfigFile is the optional yaml side of the configuration: named region
// presets plus render settings that are awkward as flags.
type ConfigFile struct {
	Regions     map[string]Region `yaml:"regions"`
	CellDegrees float64           `yaml:"cell_degrees"`
	FontFile    string            `yaml:"font_file"`
}

func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cf ConfigFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	for name, region := range cf.Regions {
		if err := region.validate(); err != nil {
			return nil, fmt.Errorf("region %q: %w", name, err)
		}
	}
	if cf.CellDegrees < 0 {
		return nil, fmt.Errorf("cell_degrees must not be negative, got %0.4f", cf.CellDegrees)
	}
	return &cf, nil
}

type Config struct {
	DBPath     string
	OutputFile string
	Format     ImageFormat

	Satellite satellite.Satellite
	Sector    satellite.Sector
	Start     time.Time
	End       time.Time
	Area      geo.BoundingBox

	CellDegrees   float64
	FontFile      string
	Verbose       bool
	NoAnnotations bool

	// Label for the info bar, either the preset name or "custom".
	RegionName string
}

func NewConfig() *Config {
	return &Config{
		Format:      ImagePNG,
		CellDegrees: defaultCellDegrees,
		RegionName:  "custom",
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var (
		imageFormat, configFile, regionName   string
		satName, sectorName, startStr, endStr string
		minLat, maxLat, minLon, maxLon        float64
	)
	flag.StringVar(&c.DBPath, "db", "", "Path to the cluster database file")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&configFile, "config", "", "Optional yaml config file with region presets")
	flag.StringVar(&regionName, "region", "", "Named region preset from the config file")
	flag.Float64Var(&minLat, "min-lat", -60, "Southern map edge in degrees")
	flag.Float64Var(&maxLat, "max-lat", 60, "Northern map edge in degrees")
	flag.Float64Var(&minLon, "min-lon", -180, "Western map edge in degrees")
	flag.Float64Var(&maxLon, "max-lon", -25, "Eastern map edge in degrees")
	flag.StringVar(&satName, "sat", "NONE", "Satellite filter [G16, G17, NONE]")
	flag.StringVar(&sectorName, "sector", "NONE", "Scan sector filter [FDCF, FDCC, FDCM1, FDCM2, NONE]")
	flag.StringVar(&startStr, "start", "", "Window start, RFC 3339 (e.g. 2021-07-24T00:00:00Z)")
	flag.StringVar(&endStr, "end", "", "Window end, RFC 3339. Defaults to now")
	flag.Float64Var(&c.CellDegrees, "cell", defaultCellDegrees, "Grid cell size in degrees")
	flag.StringVar(&c.FontFile, "font", "", "TrueType font for annotations. Annotations are skipped when unset")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable the info bar and scale annotations")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if startStr == "" {
		err = errors.New("window start is required")
	}
	if err != nil {
		flag.Usage()
		return nil, err
	}

	if c.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return nil, fmt.Errorf("parsing window start: %w", err)
	}
	c.End = time.Now().UTC()
	if endStr != "" {
		if c.End, err = time.Parse(time.RFC3339, endStr); err != nil {
			return nil, fmt.Errorf("parsing window end: %w", err)
		}
	}
	if !c.End.After(c.Start) {
		return nil, fmt.Errorf("window end %s must be after start %s", c.End, c.Start)
	}

	c.Satellite = satellite.SatelliteFromString(satName)
	c.Sector = satellite.SectorFromString(sectorName)

	area := Region{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
	if configFile != "" {
		cf, err := LoadConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		if cf.CellDegrees > 0 {
			c.CellDegrees = cf.CellDegrees
		}
		if cf.FontFile != "" && c.FontFile == "" {
			c.FontFile = cf.FontFile
		}
		if regionName != "" {
			preset, ok := cf.Regions[regionName]
			if !ok {
				return nil, fmt.Errorf("unknown region %q in %s", regionName, configFile)
			}
			area = preset
			c.RegionName = regionName
		}
	} else if regionName != "" {
		return nil, errors.New("region preset requires a config file")
	}

	if err := area.validate(); err != nil {
		return nil, err
	}
	if c.CellDegrees <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %0.4f", c.CellDegrees)
	}
	c.Area = area.bounds()

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}

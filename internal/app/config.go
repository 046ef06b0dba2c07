package app

import (
	"flag"
	"strconv"
)

// Config holds the previewer settings bound from command-line flags.
type Config struct {
	Style    string
	Seed     int64
	Height   int
	Width    int
	Scale    int
	HUDWidth int
	Mode     string
	Packages int
}

// NewConfig returns the default previewer configuration.
func NewConfig() Config {
	return Config{
		Style:    "meandering",
		Seed:     42,
		Height:   512,
		Width:    512,
		Scale:    1,
		HUDWidth: 220,
	}
}

// Bind registers the config's flags on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Style, "style", c.Style, "depositional style to preview")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "initial seed")
	fs.IntVar(&c.Height, "height", c.Height, "raster height in pixels")
	fs.IntVar(&c.Width, "width", c.Width, "raster width in pixels")
	fs.IntVar(&c.Scale, "scale", c.Scale, "integer display scale")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "info panel width in pixels (0 hides it)")
	fs.StringVar(&c.Mode, "mode", c.Mode, "generation mode (single or stacked)")
	fs.IntVar(&c.Packages, "packages", c.Packages, "package count for stacked mode")
}

// params expands the config into the generator's flat parameter map.
func (c Config) params() map[string]string {
	params := map[string]string{
		"style":  c.Style,
		"seed":   strconv.FormatInt(c.Seed, 10),
		"height": strconv.Itoa(c.Height),
		"width":  strconv.Itoa(c.Width),
	}
	if c.Mode != "" {
		params["mode"] = c.Mode
	}
	if c.Packages > 1 {
		params["package_count"] = strconv.Itoa(c.Packages)
	}
	return params
}

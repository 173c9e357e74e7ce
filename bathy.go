package pd0

import (
	"errors"
)

// BathyRaster contains the display and crop parameters for a bathymetry
// GeoTIFF covering a deployment site. The decoder itself never reads
// the raster; the registry simply keeps the per site configuration that
// downstream plotting and terrain relative navigation consume.
// Crop is [top, bottom, left, right] in pixel coordinates; nil means
// the full raster. Zero valued Slope_max / Depth_max / Depth_filter
// mean no limit.
type BathyRaster struct {
	Filepath      string
	Latlon_format bool
	Crop          []int
	Name          string
	Xlabel        string
	Ylabel        string
	Tick_format   string
	Num_ticks     int
	Slope_max     float64
	Depth_max     float64
	Depth_filter  float64
	Nodata        float64
	Meta          map[string]string
}

// BathyRegistry is the static registry of known deployment sites.
var BathyRegistry = map[string]BathyRaster{
	"Kolumbo": {
		Filepath:      "bathy/Kolumbo-10m.tif",
		Latlon_format: true,
		Crop:          []int{700, 1501, 700, 1300},
		Name:          "Kolumbo Volcano, Greece",
		Xlabel:        "Longitude [deg]",
		Ylabel:        "Latitude [deg]",
		Tick_format:   "%.2f",
		Num_ticks:     3,
		Slope_max:     50,
	},
	"Kolumbo_full": {
		Filepath:      "bathy/Kolumbo-10m.tif",
		Latlon_format: false,
		Name:          "Kolumbo Volcano, Greece",
		Xlabel:        "Longitude [deg]",
		Ylabel:        "Latitude [deg]",
		Tick_format:   "%.3f",
		Num_ticks:     3,
	},
	"BuzzardsBay": {
		Filepath:      "bathy/BuzzBay_10m.tif",
		Latlon_format: false,
		Crop:          []int{1500, 5740, 1500, 6200},
		Name:          "Buzzards Bay, MA",
		Xlabel:        "UTM Zone 19",
		Tick_format:   "%.2g",
		Num_ticks:     3,
		Slope_max:     8,
		Depth_max:     35,
		Meta: map[string]string{
			"utm_zone":          "19",
			"coordinate_system": "North American Datum of 1983 and the North American Vertical Datum of 1988",
			"link":              "https://www.sciencebase.gov/catalog/item/5a4649b8e4b0d05ee8c05486",
		},
	},
	"CostaRica_area1": {
		Filepath:      "bathy/Bathy_for_last_Sentinel_missions.tif",
		Latlon_format: false,
		Name:          "Continental Margin, Costa Rica",
		Xlabel:        "UTM Zone 16",
		Tick_format:   "%.4g",
		Num_ticks:     3,
		Meta: map[string]string{
			"utm_zone": "16N",
		},
	},
	"Hawaii_small": {
		Filepath:      "bathy/HI-small.tif",
		Latlon_format: true,
		Name:          "'Au'au Channel, Hawaii",
		Xlabel:        "Lon [deg]",
		Ylabel:        "Lat [deg]",
		Tick_format:   "%.4g",
		Num_ticks:     3,
	},
}

// LookupBathy returns the registry entry for the named deployment site.
func LookupBathy(name string) (BathyRaster, error) {
	raster, status := BathyRegistry[name]
	if !status {
		return BathyRaster{}, errors.Join(ErrUnknownBathy, errors.New(name))
	}

	return raster, nil
}

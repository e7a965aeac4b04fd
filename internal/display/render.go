package display

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

const (
	IconCold = "❄️"
	IconCool = "🌥️"
	IconMild = "⛅"
	IconWarm = "🌤️"
	IconHot  = "🔥"
)

type ColorClass int

const (
	ColorDefault ColorClass = iota
	ColorYellow
	ColorBlue
	ColorDim
	ColorCyan
)

func (c ColorClass) String() string {
	switch c {
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorDim:
		return "dim"
	case ColorCyan:
		return "cyan"
	default:
		return "default"
	}
}

// colorClasses maps the lowercase English descriptions OpenWeatherMap
// returns. Matching is exact and case-sensitive.
var colorClasses = map[string]ColorClass{
	"clear sky": ColorYellow,

	"few clouds":       ColorBlue,
	"scattered clouds": ColorBlue,
	"broken clouds":    ColorBlue,

	"overcast clouds": ColorDim,
	"mist":            ColorDim,
	"haze":            ColorDim,
	"smoke":           ColorDim,
	"sand":            ColorDim,
	"dust":            ColorDim,
	"fog":             ColorDim,
	"squalls":         ColorDim,

	"shower rain":  ColorCyan,
	"rain":         ColorCyan,
	"thunderstorm": ColorCyan,
	"snow":         ColorCyan,
}

var colorAttributes = map[ColorClass][]color.Attribute{
	ColorYellow: {color.FgYellow},
	ColorBlue:   {color.FgBlue},
	ColorDim:    {color.Faint},
	ColorCyan:   {color.FgCyan},
}

// SelectTemperatureIcon bands are left-inclusive: 0, 10, 20 and 30 belong
// to the band above them.
func SelectTemperatureIcon(tempC float64) string {
	switch {
	case tempC < 0:
		return IconCold
	case tempC < 10:
		return IconCool
	case tempC < 20:
		return IconMild
	case tempC < 30:
		return IconWarm
	default:
		return IconHot
	}
}

// SelectColorClass maps an exact description to its class, ColorDefault if unknown.
func SelectColorClass(description string) ColorClass {
	if class, ok := colorClasses[description]; ok {
		return class
	}
	return ColorDefault
}

// Render formats the headline and detail lines of a record, uncolored.
func Render(record models.WeatherRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weather in %s: %s %s\n",
		record.Location, record.Description, SelectTemperatureIcon(record.TemperatureC))
	fmt.Fprintf(&b, "    Temperature: %.1fC\n", record.TemperatureC)
	fmt.Fprintf(&b, "    Humidity: %.1f%%\n", record.HumidityPct)
	fmt.Fprintf(&b, "    Pressure: %.1f hPa\n", record.PressureHPa)
	fmt.Fprintf(&b, "    Wind Speed: %.1fm/s", record.WindSpeedMS)
	return b.String()
}

// Painter applies color classes. A disabled painter returns text unchanged.
type Painter struct {
	enabled bool
}

// NewPainter returns a painter that colors output only when enabled is true.
func NewPainter(enabled bool) Painter {
	return Painter{enabled: enabled}
}

func (p Painter) Paint(class ColorClass, s string) string {
	attrs, ok := colorAttributes[class]
	if !ok || !p.enabled {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Format renders the record and paints it by its description.
func (p Painter) Format(record models.WeatherRecord) string {
	return p.Paint(SelectColorClass(record.Description), Render(record))
}

package models

// WeatherQuery is one city lookup as typed by the user.
type WeatherQuery struct {
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
}

// Location returns the "city,cc" form OpenWeatherMap expects in its q parameter.
func (q WeatherQuery) Location() string {
	if q.CountryCode == "" {
		return q.City
	}
	return q.City + "," + q.CountryCode
}

type WeatherRecord struct {
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	PressureHPa  float64 `json:"pressure_hpa"`
	WindSpeedMS  float64 `json:"wind_speed_ms"`
	Location     string  `json:"location"`
}

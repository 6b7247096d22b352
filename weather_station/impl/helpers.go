package impl

import (
	"fmt"

	"github.com/evkuzin/weatherdash/weather_station"
)

// DisplayLines formats r for the character display, one quantity per line.
func DisplayLines(r weather_station.Reading) [weather_station.DisplayLines]string {
	return [weather_station.DisplayLines]string{
		fit(fmt.Sprintf("Temp: %.2fC", r.Temperature)),
		fit(fmt.Sprintf("Humid: %.2f%%", r.Humidity)),
	}
}

func fit(s string) string {
	if len(s) > weather_station.DisplayColumns {
		return s[:weather_station.DisplayColumns]
	}
	return s
}

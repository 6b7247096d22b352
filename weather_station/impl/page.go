package impl

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/evkuzin/weatherdash/weather_station"
)

// refreshSeconds is how often the browser reloads the dashboard.
const refreshSeconds = 2

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"decimal": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}).Parse(page))

const page = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta http-equiv="refresh" content="{{.Refresh}}">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Weather Station</title>
  <style>
  body {
    background-color: black;
    color: white;
    font-family: sans-serif;
    text-align: center;
  }
  p {
    font-size: 3em;
    margin: 0.5em;
  }
  </style>
</head>
<body>
  <h1>Weather Station</h1>
  <p>Temperature: <span id="temperature">{{decimal .Temperature}}</span>&deg;C</p>
  <p>Humidity: <span id="humidity">{{decimal .Humidity}}</span>%</p>
</body>
</html>
`

// RenderPage returns the dashboard document for r. The output depends on r
// only.
func RenderPage(r weather_station.Reading) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Refresh     int
		Temperature float64
		Humidity    float64
	}{refreshSeconds, r.Temperature, r.Humidity})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package weather

import "fmt"

func summarizeForecastPrompt(city string, forecastJSON string) string {
	return fmt.Sprintf(`
            You are a meteorologist reviewing real forecast data for %s retrieved from a weather API.
            Do NOT change, invent or remove any numeric value, date or description.
            For EACH item in the forecasts array, ADD a field called "summary":
            one sentence with a practical recommendation based on that day's data
            (temperature, rain, wind, clouds). Examples:
            - "Ideal day for outdoor activities with pleasant temperatures and clear skies."
            - "Bring an umbrella as rain is expected throughout the day."
            Return STRICTLY the same JSON object with the summary fields added:
            %s`, city, forecastJSON)
}

package itinerary

import "fmt"

func composeItineraryPrompt(combinedJSON string) string {
	return fmt.Sprintf(`
            Genera un itinerario turístico SOLO en español para la ciudad y fechas del siguiente JSON.
            El JSON contiene primero el pronóstico del clima y después los lugares recomendados.

            Responde en español usando este formato exacto:

            🌍 Itinerario para [CIUDAD del JSON]
            📅 Período: [Primera fecha - Última fecha]

            ✨ Basado en el clima y lugares disponibles:

            Día 1 (fecha):
            - Mañana: [Actividad + lugar turístico + clima esperado]
            - Tarde: [Actividad + lugar turístico + clima esperado]
            - Noche: [Actividad + lugar turístico + clima esperado]

            (Repite para cada fecha única en los pronósticos)

            🌡️ Clima esperado: [Resumen general]

            💡 Recomendaciones:
            - 3 consejos prácticos

            IMPORTANTE: Responde SOLO con el itinerario, sin repetir este prompt.

            %s`, combinedJSON)
}

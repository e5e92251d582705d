package recommend

import "smartroute/internal/types"

var mountainKeywords = []string{"montaña", "montana", "frio", "frío", "nieve", "mountain", "ski", "esqui"}
var beachKeywords = []string{"playa", "beach", "mar", "costa", "caribe", "sol"}

var mountainDestination = types.TravelRecommendation{
	Destination: "Bariloche, Argentina",
	Weather:     "❄️ Fresco, 5-15°C. Ideal para montaña y lagos.",
	Activities: []string{
		"🏔️ Circuito Chico y vistas del lago Nahuel Huapi",
		"🎿 Esquí en Cerro Catedral",
		"🍫 Tour de chocolaterías artesanales",
		"🚡 Teleférico al Cerro Otto",
	},
	Hotels: []string{
		"Llao Llao Hotel & Resort - Lujo con vistas al lago",
		"Design Suites Bariloche - Moderno y confortable",
		"Selina Bariloche - Para viajeros jóvenes",
	},
}

var beachDestination = types.TravelRecommendation{
	Destination: "Cartagena, Colombia",
	Weather:     "☀️ Cálido y soleado, 28-32°C",
	Activities: []string{
		"🏖️ Relajación en Playa Blanca",
		"🏰 Tour por el centro histórico amurallado",
		"🍽️ Gastronomía caribeña en Getsemaní",
		"🚤 Excursión a Islas del Rosario",
	},
	Hotels: []string{
		"Hotel Sofitel Legend Santa Clara - Histórico y lujoso",
		"Casa San Agustín - Boutique colonial",
		"Selina Cartagena - Moderno y social",
	},
}

var cityDestination = types.TravelRecommendation{
	Destination: "Buenos Aires, Argentina",
	Weather:     "🌤️ Templado, 18-25°C. Clima agradable todo el año.",
	Activities: []string{
		"💃 Show de tango en el barrio de San Telmo",
		"🏛️ Visita a La Boca y Caminito",
		"🥩 Cena en una parrilla tradicional",
		"🎭 Teatro Colón y Avenida 9 de Julio",
	},
	Hotels: []string{
		"Alvear Palace Hotel - Elegancia clásica",
		"Hotel Madero - Diseño moderno en Puerto Madero",
		"Esplendor by Wyndham - Boutique en Palermo",
	},
}

package catalog

import (
	"encoding/json"

	"wanderlust_backend/internal/model"
)

func raw(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// SeedQuestions is the built-in travel question bank, installed on first boot
// when the questions table is empty.
func SeedQuestions() []model.Question {
	return []model.Question{
		{
			QuestionID:  "europe-001",
			Type:        model.MultipleChoice,
			Difficulty:  model.Beginner,
			Category:    "destinations",
			Subcategory: "europe",
			Prompt:      "What is the capital city of France?",
			Options:     model.StringList{"London", "Berlin", "Paris", "Madrid"},
			Answer:      raw(2),
			Explanation: "Paris is the capital and largest city of France, known for landmarks like the Eiffel Tower and Louvre Museum.",
			Points:      10,
			Tags:        model.StringList{"geography", "capitals", "france"},
		},
		{
			QuestionID:  "europe-002",
			Type:        model.TrueFalse,
			Difficulty:  model.Intermediate,
			Category:    "destinations",
			Subcategory: "europe",
			Prompt:      "The Euro is the official currency of all European Union countries.",
			Answer:      raw(false),
			Explanation: "While the Euro is used by 19 EU countries, some EU members like Denmark, Sweden, and Poland still use their own currencies.",
			Points:      15,
			Tags:        model.StringList{"currency", "european-union", "economics"},
		},
		{
			QuestionID:  "europe-003",
			Type:        model.FillInBlank,
			Difficulty:  model.Advanced,
			Category:    "destinations",
			Subcategory: "europe",
			Prompt:      "The famous Neuschwanstein Castle is located in which German state?",
			Answer:      raw("Bavaria"),
			Explanation: "Neuschwanstein Castle is located in Bavaria, Germany, and was the inspiration for Disney's Sleeping Beauty Castle.",
			Points:      20,
			Tags:        model.StringList{"architecture", "germany", "castles", "bavaria"},
		},
		{
			QuestionID:  "asia-001",
			Type:        model.MultipleChoice,
			Difficulty:  model.Beginner,
			Category:    "destinations",
			Subcategory: "asia",
			Prompt:      "Which country is known as the \"Land of the Rising Sun\"?",
			Options:     model.StringList{"China", "Japan", "South Korea", "Thailand"},
			Answer:      raw(1),
			Explanation: "Japan is known as the \"Land of the Rising Sun\" due to its location east of the Asian mainland.",
			Points:      10,
			Tags:        model.StringList{"nicknames", "japan", "geography"},
		},
		{
			QuestionID:  "asia-002",
			Type:        model.MultipleChoice,
			Difficulty:  model.Intermediate,
			Category:    "destinations",
			Subcategory: "asia",
			Prompt:      "What is the traditional greeting in Thailand?",
			Options:     model.StringList{"Handshake", "Wai", "Bow", "Hug"},
			Answer:      raw(1),
			Explanation: "The Wai is the traditional Thai greeting, performed by pressing palms together and bowing slightly.",
			Points:      15,
			Tags:        model.StringList{"culture", "thailand", "etiquette", "greetings"},
		},
		{
			QuestionID:  "asia-003",
			Type:        model.Matching,
			Difficulty:  model.Advanced,
			Category:    "destinations",
			Subcategory: "asia",
			Prompt:      "Match each Asian capital to its country.",
			Answer: raw(map[string]string{
				"Japan":     "Tokyo",
				"Thailand":  "Bangkok",
				"Vietnam":   "Hanoi",
				"Indonesia": "Jakarta",
			}),
			Explanation: "Tokyo, Bangkok, Hanoi and Jakarta are the capitals of Japan, Thailand, Vietnam and Indonesia respectively.",
			Points:      20,
			Tags:        model.StringList{"geography", "capitals", "asia"},
		},
		{
			QuestionID:  "budget-001",
			Type:        model.MultipleChoice,
			Difficulty:  model.Beginner,
			Category:    "planning",
			Subcategory: "budget",
			Prompt:      "What percentage of your travel budget should typically be allocated for accommodation?",
			Options:     model.StringList{"20-30%", "30-40%", "40-50%", "50-60%"},
			Answer:      raw(1),
			Explanation: "Accommodation typically accounts for 30-40% of a travel budget, though this can vary based on destination and travel style.",
			Points:      10,
			Tags:        model.StringList{"budgeting", "accommodation", "planning"},
		},
		{
			QuestionID:  "budget-002",
			Type:        model.TrueFalse,
			Difficulty:  model.Intermediate,
			Category:    "planning",
			Subcategory: "budget",
			Prompt:      "Travel insurance is always worth the cost, regardless of your destination.",
			Answer:      raw(true),
			Explanation: "Travel insurance provides protection against unexpected events like trip cancellations, medical emergencies, and lost luggage.",
			Points:      15,
			Tags:        model.StringList{"insurance", "safety", "planning"},
		},
		{
			QuestionID:  "packing-001",
			Type:        model.FillInBlank,
			Difficulty:  model.Intermediate,
			Category:    "planning",
			Subcategory: "packing",
			Prompt:      "The packing technique of rolling clothes instead of folding them is primarily used to save what?",
			Answer:      raw("space"),
			Explanation: "Rolling clothes compresses them and uses luggage space more efficiently than flat folding.",
			Points:      15,
			Tags:        model.StringList{"packing", "luggage", "planning"},
		},
		{
			QuestionID:  "safety-001",
			Type:        model.MultipleChoice,
			Difficulty:  model.Beginner,
			Category:    "safety",
			Subcategory: "general-safety",
			Prompt:      "What is the most important document to keep safe while traveling?",
			Options:     model.StringList{"Credit card", "Passport", "Hotel key", "Phone"},
			Answer:      raw(1),
			Explanation: "Your passport is the most important document as it's required for international travel and can be difficult to replace.",
			Points:      10,
			Tags:        model.StringList{"documents", "passport", "safety"},
		},
		{
			QuestionID:  "safety-002",
			Type:        model.TrueFalse,
			Difficulty:  model.Intermediate,
			Category:    "safety",
			Subcategory: "health",
			Prompt:      "You should drink tap water in every country as long as locals do.",
			Answer:      raw(false),
			Explanation: "Visitors often lack immunity to local microbes; in many destinations bottled or purified water is the safer choice.",
			Points:      15,
			Tags:        model.StringList{"health", "water", "safety"},
		},
		{
			QuestionID:  "safety-003",
			Type:        model.MultipleChoice,
			Difficulty:  model.Advanced,
			Category:    "safety",
			Subcategory: "emergency",
			Prompt:      "Which number reaches emergency services in most of the European Union?",
			Options:     model.StringList{"911", "112", "999", "000"},
			Answer:      raw(1),
			Explanation: "112 is the single European emergency number, reachable free of charge across the EU.",
			Points:      20,
			Tags:        model.StringList{"emergency", "europe", "safety"},
		},
		{
			QuestionID:  "culture-001",
			Type:        model.MultipleChoice,
			Difficulty:  model.Beginner,
			Category:    "culture",
			Subcategory: "etiquette",
			Prompt:      "In Japan, what should you do with your shoes before entering a home?",
			Options:     model.StringList{"Keep them on", "Take them off", "Cover them", "Clean them"},
			Answer:      raw(1),
			Explanation: "Removing shoes before entering homes is an important Japanese custom showing respect and cleanliness.",
			Points:      10,
			Tags:        model.StringList{"japan", "etiquette", "customs"},
		},
		{
			QuestionID:  "culture-002",
			Type:        model.FillInBlank,
			Difficulty:  model.Intermediate,
			Category:    "culture",
			Subcategory: "language",
			Prompt:      "\"Gracias\" means thank you in which language?",
			Answer:      raw("Spanish"),
			Explanation: "Gracias is the Spanish word for thank you, useful across Spain and most of Latin America.",
			Points:      15,
			Tags:        model.StringList{"language", "spanish", "phrases"},
		},
		{
			QuestionID:  "culture-003",
			Type:        model.Matching,
			Difficulty:  model.Advanced,
			Category:    "culture",
			Subcategory: "cuisine",
			Prompt:      "Match each dish to its country of origin.",
			Answer: raw(map[string]string{
				"Paella":   "Spain",
				"Pho":      "Vietnam",
				"Poutine":  "Canada",
				"Moussaka": "Greece",
			}),
			Explanation: "Paella comes from Spain, pho from Vietnam, poutine from Canada and moussaka from Greece.",
			Points:      20,
			Tags:        model.StringList{"cuisine", "food", "culture"},
		},
		{
			QuestionID:  "adventure-001",
			Type:        model.MultipleChoice,
			Difficulty:  model.Beginner,
			Category:    "adventure",
			Subcategory: "hiking",
			Prompt:      "What is the most essential item to bring on a day hike?",
			Options:     model.StringList{"Camera", "Water", "Snacks", "Map"},
			Answer:      raw(1),
			Explanation: "Water is essential for hydration; dehydration is one of the most common problems hikers face.",
			Points:      10,
			Tags:        model.StringList{"hiking", "gear", "adventure"},
		},
		{
			QuestionID:  "adventure-002",
			Type:        model.ImageIdentification,
			Difficulty:  model.Intermediate,
			Category:    "adventure",
			Subcategory: "landmarks",
			Prompt:      "Which mountain is shown in this photograph?",
			Options:     model.StringList{"Mount Fuji", "Matterhorn", "Kilimanjaro", "Denali"},
			Answer:      raw(1),
			Explanation: "The Matterhorn's pyramid peak on the Swiss-Italian border is one of the most photographed mountains in the world.",
			Points:      15,
			Tags:        model.StringList{"mountains", "landmarks", "alps"},
			ImageKey:    "questions/adventure-002.jpg",
		},
		{
			QuestionID:  "adventure-003",
			Type:        model.TrueFalse,
			Difficulty:  model.Advanced,
			Category:    "adventure",
			Subcategory: "diving",
			Prompt:      "You should fly within 12 hours of completing a deep scuba dive.",
			Answer:      raw(false),
			Explanation: "Divers should wait at least 18-24 hours after repetitive or deep dives before flying to avoid decompression sickness.",
			Points:      20,
			Tags:        model.StringList{"diving", "safety", "adventure"},
		},
		{
			QuestionID:  "sustainability-001",
			Type:        model.MultipleChoice,
			Difficulty:  model.Beginner,
			Category:    "sustainability",
			Subcategory: "eco-travel",
			Prompt:      "Which of these reduces your carbon footprint the most on short trips?",
			Options:     model.StringList{"Flying", "Driving alone", "Taking the train", "Taking a cruise"},
			Answer:      raw(2),
			Explanation: "Rail travel emits far less carbon per passenger-kilometer than flying, driving alone, or cruising.",
			Points:      10,
			Tags:        model.StringList{"eco-travel", "transport", "sustainability"},
		},
		{
			QuestionID:  "sustainability-002",
			Type:        model.TrueFalse,
			Difficulty:  model.Intermediate,
			Category:    "sustainability",
			Subcategory: "wildlife",
			Prompt:      "Riding elephants is considered an ethical wildlife activity.",
			Answer:      raw(false),
			Explanation: "Elephant riding typically involves harmful training practices; ethical operators offer observation-only encounters.",
			Points:      15,
			Tags:        model.StringList{"wildlife", "ethics", "sustainability"},
		},
	}
}

package tourism

import (
	"fmt"
	"strings"
)

func selectCategoriesPrompt(interests []string, catalog []string, weatherJSON string) string {
	weatherPart := ""
	if weatherJSON != "" {
		weatherPart = fmt.Sprintf(`
            Weather context for the trip (use it to prefer indoor or outdoor categories):
            %s`, weatherJSON)
	}
	return fmt.Sprintf(`
            You are a tourism expert matching traveler profiles with experiences.
            The user's interests are: %s.
            The ONLY categories you may select are (copy names EXACTLY, do not invent or modify):
            %s
            %s
            Classify your selection into three tiers and justify each pick.
            Return the response STRICTLY as a JSON object with:
            {
              "traveler_profile": "one-sentence description of this traveler",
              "highly_recommended": [
                {"category": "exact catalog name", "relevance": "why it fits", "key_experiences": ["..."]}
              ],
              "recommended": [
                {"category": "exact catalog name", "relevance": "why it fits", "key_experiences": ["..."]}
              ],
              "optional": [
                {"category": "exact catalog name", "relevance": "why it fits", "key_experiences": ["..."]}
              ],
              "summary": "conclusion about the match"
            }`, strings.Join(interests, ", "), strings.Join(catalog, ", "), weatherPart)
}

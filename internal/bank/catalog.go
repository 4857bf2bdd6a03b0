package bank

import "mock-interview-service/internal/domain"

// DefaultCatalogID names the built-in behavioral communication catalog.
const DefaultCatalogID = "communication"

// DefaultCatalog returns the built-in behavioral question pool.
func DefaultCatalog() domain.Catalog {
	texts := []string{
		"Tell me about a time when you had to explain a complex idea to someone. How did you ensure they understood?",
		"Describe a situation where you had to give constructive feedback to a colleague. How did you approach it?",
		"How do you adapt your communication style when speaking with different stakeholders?",
		"Tell me about a time when you had to handle a difficult conversation. What was your approach?",
		"How do you ensure effective communication in a remote or virtual work environment?",
		"Describe a situation where you had to persuade someone to see things from your perspective.",
		"How do you handle communication breakdowns or misunderstandings in a professional setting?",
		"Tell me about a time when you had to communicate bad news to someone. How did you handle it?",
		"How do you ensure your written communication is clear and effective?",
		"Describe a situation where you had to communicate with someone who was resistant to your ideas.",
	}
	questions := make([]domain.Question, len(texts))
	for i, text := range texts {
		questions[i] = domain.Question{ID: i + 1, Text: text, MaxScore: domain.DefaultMaxScore}
	}
	return domain.Catalog{ID: DefaultCatalogID, Questions: questions}
}

package server

import (
	"net/http"

	"github.com/gokatarajesh/certquiz/internal/quiz"
)

type profileView struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Services       []string `json:"services"`
	Difficulty     string   `json:"difficulty"`
	PassingScore   string   `json:"passingScore"`
	TotalQuestions int      `json:"totalQuestions"`
}

// CatalogueHandler lists the quiz profiles a client can choose from.
func CatalogueHandler(rules quiz.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles := quiz.Profiles()
		out := make([]profileView, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, profileView{
				ID:             p.ID,
				Title:          p.Title,
				Description:    p.Description,
				Services:       p.Highlights,
				Difficulty:     p.DifficultyLabel,
				PassingScore:   p.PassingScore,
				TotalQuestions: rules.SessionLength,
			})
		}
		respondJSON(w, http.StatusOK, map[string]any{"quizTypes": out})
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/deck-overlay/internal/card"
	"github.com/codyseavey/deck-overlay/internal/locale"
	"github.com/codyseavey/deck-overlay/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewCardView(t *testing.T) {
	tests := []struct {
		name             string
		record           *card.Record
		expectedName     string
		expectedOverload int
		expectedDust     int
		expectedClass    string
		expectedResolved bool
	}{
		{
			name:             "Shallow record degrades to neutral defaults",
			record:           card.New("UNKNOWN_1"),
			expectedOverload: -1,
			expectedClass:    "Neutral",
		},
		{
			name: "Resolved legendary",
			record: card.FromRow(&models.CardRow{
				ID:          "NEW1_010",
				PlayerClass: "Shaman",
				Rarity:      models.RarityLegendary,
				Type:        "Minion",
				Cost:        8,
				Attack:      3,
				Health:      5,
				Race:        "Elemental",
				Localizations: []models.CardLocalization{
					{Locale: locale.EnUS, Name: "Al'Akir the Windlord", Text: "<b>Windfury, Charge, Divine Shield, Taunt</b>"},
				},
			}, card.Languages{Primary: locale.EnUS}),
			expectedName:     "Al'Akir the Windlord",
			expectedOverload: -1,
			expectedDust:     1600,
			expectedClass:    "Shaman",
			expectedResolved: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewCardView(tt.record)

			if view.Name != tt.expectedName {
				t.Errorf("Name = %q, want %q", view.Name, tt.expectedName)
			}
			if view.Overload != tt.expectedOverload {
				t.Errorf("Overload = %d, want %d", view.Overload, tt.expectedOverload)
			}
			if view.DustCost != tt.expectedDust {
				t.Errorf("DustCost = %d, want %d", view.DustCost, tt.expectedDust)
			}
			if view.PlayerClass != tt.expectedClass {
				t.Errorf("PlayerClass = %q, want %q", view.PlayerClass, tt.expectedClass)
			}
			if view.Resolved != tt.expectedResolved {
				t.Errorf("Resolved = %v, want %v", view.Resolved, tt.expectedResolved)
			}
			if len(view.AlternativeNames) != len(view.AlternativeTexts) {
				t.Errorf("alternative names/texts length mismatch: %d vs %d", len(view.AlternativeNames), len(view.AlternativeTexts))
			}
		})
	}
}

func TestSideParam(t *testing.T) {
	router := gin.New()
	router.GET("/overlay/:side", func(c *gin.Context) {
		if side, ok := sideParam(c); ok {
			c.String(http.StatusOK, side.String())
		}
	})

	tests := []struct {
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{"/overlay/player", http.StatusOK, "player"},
		{"/overlay/opponent", http.StatusOK, "opponent"},
		{"/overlay/observer", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedBody != "" && w.Body.String() != tt.expectedBody {
				t.Errorf("expected body %q, got %q", tt.expectedBody, w.Body.String())
			}
		})
	}
}

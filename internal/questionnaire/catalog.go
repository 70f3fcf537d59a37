package questionnaire

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/okvitka/mindhaven-backend/internal/domain"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
)

const (
	defaultScaleMin = 1
	defaultScaleMax = 5
)

// Catalog holds every questionnaire definition, loaded once at startup and
// read-only afterwards.
type Catalog struct {
	byID  map[string]*domain.Questionnaire
	order []string
	log   *logger.Logger
}

// Summary is the list-view projection of a questionnaire.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func LoadCatalog(path string, log *logger.Logger) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("questionnaire: read %s: %w", path, err)
	}

	var defs []*domain.Questionnaire
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("questionnaire: parse %s: %w", path, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("questionnaire: %s contains no definitions", path)
	}

	c := &Catalog{
		byID: make(map[string]*domain.Questionnaire, len(defs)),
		log:  log.With("component", "QuestionnaireCatalog"),
	}
	for _, def := range defs {
		applyDefaults(def)
		if err := validate(def); err != nil {
			return nil, err
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("questionnaire: duplicate id %q", def.ID)
		}
		c.byID[def.ID] = def
		c.order = append(c.order, def.ID)
	}
	c.log.Info("questionnaire catalog loaded", "count", len(defs))
	return c, nil
}

func applyDefaults(def *domain.Questionnaire) {
	if def.ScaleMin == 0 && def.ScaleMax == 0 {
		def.ScaleMin = defaultScaleMin
		def.ScaleMax = defaultScaleMax
	}
	if def.AnswerScaleType == "" {
		def.AnswerScaleType = "frequency"
	}
	for i := range def.Categories {
		cat := &def.Categories[i]
		if cat.FavorableAt == "" {
			cat.FavorableAt = domain.FavorableAtLow
		}
		for j := range cat.Questions {
			if cat.Questions[j].ScaleType == "" {
				cat.Questions[j].ScaleType = def.AnswerScaleType
			}
		}
	}
}

func validate(def *domain.Questionnaire) error {
	if def.ID == "" {
		return fmt.Errorf("questionnaire: definition without id")
	}
	if def.ScaleMin >= def.ScaleMax {
		return fmt.Errorf("questionnaire %s: invalid scale %d..%d", def.ID, def.ScaleMin, def.ScaleMax)
	}
	if len(def.Categories) == 0 {
		return fmt.Errorf("questionnaire %s: no categories", def.ID)
	}
	seenQ := map[string]bool{}
	for _, cat := range def.Categories {
		if cat.ID == "" {
			return fmt.Errorf("questionnaire %s: category without id", def.ID)
		}
		if cat.FavorableAt != domain.FavorableAtLow && cat.FavorableAt != domain.FavorableAtHigh {
			return fmt.Errorf("questionnaire %s: category %s: bad favorable_at %q", def.ID, cat.ID, cat.FavorableAt)
		}
		if len(cat.Questions) == 0 {
			return fmt.Errorf("questionnaire %s: category %s has no questions", def.ID, cat.ID)
		}
		for _, q := range cat.Questions {
			if q.ID == "" {
				return fmt.Errorf("questionnaire %s: category %s: question without id", def.ID, cat.ID)
			}
			if seenQ[q.ID] {
				return fmt.Errorf("questionnaire %s: duplicate question id %q", def.ID, q.ID)
			}
			seenQ[q.ID] = true
		}
	}
	return nil
}

func (c *Catalog) List() []Summary {
	out := make([]Summary, 0, len(c.order))
	for _, id := range c.order {
		def := c.byID[id]
		out = append(out, Summary{ID: def.ID, Title: def.Title, Description: def.Description})
	}
	return out
}

func (c *Catalog) ByID(id string) (*domain.Questionnaire, bool) {
	def, ok := c.byID[id]
	return def, ok
}

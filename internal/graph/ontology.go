package graph

import (
	"context"
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"gopkg.in/yaml.v3"

	"github.com/okvitka/mindhaven-backend/internal/platform/apierr"
)

// Ontology is the static graph seed: categories, emotional states, the
// resource catalog, and the typed edges between them. Loaded once at
// startup and merged into Neo4j; only feedback edges mutate afterwards.
type Ontology struct {
	Categories []OntologyCategory `yaml:"categories"`
	States     []OntologyState    `yaml:"states"`
	Types      []OntologyType     `yaml:"resource_types"`
	Themes     []OntologyTheme    `yaml:"themes"`
	Resources  []OntologyResource `yaml:"resources"`
	Related    []OntologyRelated  `yaml:"related"`
}

type OntologyCategory struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

type OntologyState struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Level       string `yaml:"level"`
	Severity    int    `yaml:"severity"`
	ScoreRange  string `yaml:"score_range"`
	Category    string `yaml:"category"`
}

type OntologyType struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type OntologyTheme struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type OntologyHelpsWith struct {
	State         string  `yaml:"state"`
	Priority      string  `yaml:"priority"`
	Effectiveness float64 `yaml:"effectiveness"`
}

type OntologyResource struct {
	ID              string              `yaml:"id"`
	Title           string              `yaml:"title"`
	Author          string              `yaml:"author"`
	Description     string              `yaml:"description"`
	URL             string              `yaml:"url"`
	Language        string              `yaml:"language"`
	Rating          float64             `yaml:"rating"`
	DurationMinutes int                 `yaml:"duration_minutes"`
	Type            string              `yaml:"type"`
	Themes          []string            `yaml:"themes"`
	HelpsWith       []OntologyHelpsWith `yaml:"helps_with"`
}

type OntologyRelated struct {
	From        string  `yaml:"from"`
	To          string  `yaml:"to"`
	Correlation float64 `yaml:"correlation"`
	Type        string  `yaml:"type"`
}

func LoadOntology(path string) (*Ontology, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ontology: read %s: %w", path, err)
	}
	var ont Ontology
	if err := yaml.Unmarshal(raw, &ont); err != nil {
		return nil, fmt.Errorf("ontology: parse %s: %w", path, err)
	}
	if err := ont.validate(); err != nil {
		return nil, err
	}
	return &ont, nil
}

func (o *Ontology) validate() error {
	states := make(map[string]bool, len(o.States))
	for _, st := range o.States {
		if st.ID == "" {
			return fmt.Errorf("ontology: state without id")
		}
		if err := checkLevel("state "+st.ID, st.Level); err != nil {
			return err
		}
		states[st.ID] = true
	}
	for _, res := range o.Resources {
		if res.ID == "" {
			return fmt.Errorf("ontology: resource without id")
		}
		for _, hw := range res.HelpsWith {
			if !states[hw.State] {
				return fmt.Errorf("ontology: resource %s helps_with unknown state %q", res.ID, hw.State)
			}
			if err := checkPriority("resource "+res.ID, hw.Priority); err != nil {
				return err
			}
		}
	}
	for _, rel := range o.Related {
		if !states[rel.From] || !states[rel.To] {
			return fmt.Errorf("ontology: related edge %s->%s references unknown state", rel.From, rel.To)
		}
	}
	return nil
}

// Seed merges the ontology into the graph. Safe to run on every boot:
// static attributes are overwritten, feedback-owned RECOMMENDS weights are
// left untouched.
func (s *Store) Seed(ctx context.Context, ont *Ontology) error {
	ctx, cancel := s.client.QueryContext(ctx)
	defer cancel()

	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	// Schema helpers are best-effort; restricted users may not be allowed
	// to create constraints.
	constraints := []string{
		`CREATE CONSTRAINT emotional_state_id IF NOT EXISTS FOR (s:EmotionalState) REQUIRE s.id IS UNIQUE`,
		`CREATE CONSTRAINT resource_id IF NOT EXISTS FOR (r:Resource) REQUIRE r.id IS UNIQUE`,
		`CREATE CONSTRAINT test_result_id IF NOT EXISTS FOR (t:TestResult) REQUIRE t.id IS UNIQUE`,
	}
	for _, stmt := range constraints {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			s.log.Warn("graph schema init failed (continuing)", "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}

	categories := make([]map[string]any, 0, len(ont.Categories))
	categoryWeight := make(map[string]float64, len(ont.Categories))
	for _, c := range ont.Categories {
		categories = append(categories, map[string]any{"id": c.ID, "name": c.Name, "weight": c.Weight})
		categoryWeight[c.ID] = c.Weight
	}
	states := make([]map[string]any, 0, len(ont.States))
	indicates := make([]map[string]any, 0, len(ont.States))
	for _, st := range ont.States {
		states = append(states, map[string]any{
			"id":          st.ID,
			"name":        st.Name,
			"description": st.Description,
			"level":       st.Level,
			"severity":    int64(st.Severity),
			"score_range": st.ScoreRange,
		})
		if st.Category != "" {
			weight := categoryWeight[st.Category]
			if weight == 0 {
				weight = 1.0
			}
			indicates = append(indicates, map[string]any{"category": st.Category, "state": st.ID, "weight": weight})
		}
	}
	rtypes := make([]map[string]any, 0, len(ont.Types))
	for _, t := range ont.Types {
		rtypes = append(rtypes, map[string]any{"id": t.ID, "name": t.Name})
	}
	themes := make([]map[string]any, 0, len(ont.Themes))
	for _, t := range ont.Themes {
		themes = append(themes, map[string]any{"id": t.ID, "name": t.Name})
	}
	resources := make([]map[string]any, 0, len(ont.Resources))
	belongs := make([]map[string]any, 0, len(ont.Resources))
	addresses := make([]map[string]any, 0)
	helps := make([]map[string]any, 0)
	for _, r := range ont.Resources {
		resources = append(resources, map[string]any{
			"id":               r.ID,
			"title":            r.Title,
			"author":           r.Author,
			"description":      r.Description,
			"url":              r.URL,
			"language":         r.Language,
			"rating":           r.Rating,
			"duration_minutes": int64(r.DurationMinutes),
		})
		if r.Type != "" {
			belongs = append(belongs, map[string]any{"resource": r.ID, "type": r.Type})
		}
		for _, th := range r.Themes {
			addresses = append(addresses, map[string]any{"resource": r.ID, "theme": th})
		}
		for _, hw := range r.HelpsWith {
			helps = append(helps, map[string]any{
				"resource":      r.ID,
				"state":         hw.State,
				"priority":      hw.Priority,
				"effectiveness": hw.Effectiveness,
			})
		}
	}
	related := make([]map[string]any, 0, len(ont.Related))
	for _, rel := range ont.Related {
		related = append(related, map[string]any{
			"from":        rel.From,
			"to":          rel.To,
			"correlation": rel.Correlation,
			"type":        rel.Type,
		})
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		batches := []struct {
			query string
			rows  []map[string]any
		}{
			{`UNWIND $rows AS row MERGE (c:TestCategory {id: row.id}) SET c += row`, categories},
			{`UNWIND $rows AS row MERGE (s:EmotionalState {id: row.id}) SET s += row`, states},
			{`UNWIND $rows AS row MERGE (t:ResourceType {id: row.id}) SET t += row`, rtypes},
			{`UNWIND $rows AS row MERGE (t:Theme {id: row.id}) SET t += row`, themes},
			{`UNWIND $rows AS row MERGE (r:Resource {id: row.id}) SET r += row`, resources},
			{`UNWIND $rows AS row
MATCH (c:TestCategory {id: row.category})
MATCH (s:EmotionalState {id: row.state})
MERGE (c)-[rel:INDICATES]->(s)
SET rel.weight = row.weight`, indicates},
			{`UNWIND $rows AS row
MATCH (r:Resource {id: row.resource})
MATCH (t:ResourceType {id: row.type})
MERGE (r)-[:BELONGS_TO]->(t)`, belongs},
			{`UNWIND $rows AS row
MATCH (r:Resource {id: row.resource})
MATCH (t:Theme {id: row.theme})
MERGE (r)-[:ADDRESSES]->(t)`, addresses},
			{`UNWIND $rows AS row
MATCH (r:Resource {id: row.resource})
MATCH (s:EmotionalState {id: row.state})
MERGE (r)-[rel:HELPS_WITH]->(s)
SET rel.priority = row.priority,
    rel.effectiveness = row.effectiveness`, helps},
			{`UNWIND $rows AS row
MATCH (a:EmotionalState {id: row.from})
MATCH (b:EmotionalState {id: row.to})
MERGE (a)-[rel:RELATED_TO]->(b)
SET rel.correlation = row.correlation,
    rel.type = row.type`, related},
		}
		for _, batch := range batches {
			if len(batch.rows) == 0 {
				continue
			}
			res, err := tx.Run(ctx, batch.query, map[string]any{"rows": batch.rows})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return apierr.Unavailable(err)
	}

	s.log.Info("ontology seeded",
		"categories", len(categories),
		"states", len(states),
		"resources", len(resources),
		"helps_with", len(helps),
		"related", len(related),
	)
	return nil
}

package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/okvitka/mindhaven-backend/internal/domain"
	"github.com/okvitka/mindhaven-backend/internal/platform/apierr"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
	"github.com/okvitka/mindhaven-backend/internal/platform/neo4jdb"
	"github.com/okvitka/mindhaven-backend/internal/recommend"
)

// Store issues all graph queries for the recommendation engine. Read
// queries tolerate concurrent feedback writes (slightly stale reads are
// fine); every query runs under the client's bounded timeout and driver
// failures surface as BACKEND_UNAVAILABLE.
type Store struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewStore(client *neo4jdb.Client, log *logger.Logger) *Store {
	return &Store{client: client, log: log.With("store", "GraphStore")}
}

func stateIDs(labels []domain.StateLabel) []string {
	ids := make([]string, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.StateID)
	}
	return ids
}

// HelpsWithRows returns every HELPS_WITH match for the detected states,
// one row per (resource, state) edge. Aggregation and ranking happen in
// the recommend package.
func (s *Store) HelpsWithRows(ctx context.Context, labels []domain.StateLabel) ([]recommend.CandidateRow, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	ctx, cancel := s.client.QueryContext(ctx)
	defer cancel()

	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (r:Resource)-[rel:HELPS_WITH]->(s:EmotionalState)
WHERE s.id IN $state_ids
OPTIONAL MATCH (r)-[:BELONGS_TO]->(rt:ResourceType)
OPTIONAL MATCH (r)-[:ADDRESSES]->(theme:Theme)
WITH r, rel, s, rt, collect(DISTINCT theme.name) AS themes
RETURN r.id AS id,
       r.title AS title,
       r.author AS author,
       r.description AS description,
       r.url AS url,
       r.language AS language,
       r.rating AS rating,
       r.duration_minutes AS duration_minutes,
       rt.name AS resource_type,
       themes,
       s.id AS state_id,
       s.name AS state_name,
       rel.priority AS priority,
       rel.effectiveness AS effectiveness
ORDER BY r.id, s.id
`, map[string]any{"state_ids": stateIDs(labels)})
		if err != nil {
			return nil, err
		}

		var out []recommend.CandidateRow
		for res.Next(ctx) {
			m := res.Record().AsMap()
			out = append(out, recommend.CandidateRow{
				Resource: domain.Resource{
					ID:              asString(m["id"]),
					Title:           asString(m["title"]),
					Author:          asString(m["author"]),
					Description:     asString(m["description"]),
					URL:             asString(m["url"]),
					Language:        asString(m["language"]),
					Rating:          asFloat(m["rating"]),
					DurationMinutes: asInt(m["duration_minutes"]),
				},
				ResourceType:  asString(m["resource_type"]),
				Themes:        asStrings(m["themes"]),
				StateID:       asString(m["state_id"]),
				StateName:     asString(m["state_name"]),
				EdgePriority:  asString(m["priority"]),
				Effectiveness: asFloat(m["effectiveness"]),
			})
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, apierr.Unavailable(err)
	}
	return rows.([]recommend.CandidateRow), nil
}

// RelatedRows traverses RELATED_TO edges from detected states to states
// outside the detected set.
func (s *Store) RelatedRows(ctx context.Context, labels []domain.StateLabel) ([]recommend.RelatedRow, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	ctx, cancel := s.client.QueryContext(ctx)
	defer cancel()

	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (s1:EmotionalState)-[rel:RELATED_TO]->(s2:EmotionalState)
WHERE s1.id IN $state_ids AND NOT s2.id IN $state_ids
RETURN s2.id AS id,
       s2.name AS name,
       s2.description AS description,
       s2.level AS level,
       s2.severity AS severity,
       rel.correlation AS correlation,
       rel.type AS type,
       s1.name AS source_name
`, map[string]any{"state_ids": stateIDs(labels)})
		if err != nil {
			return nil, err
		}

		var out []recommend.RelatedRow
		for res.Next(ctx) {
			m := res.Record().AsMap()
			out = append(out, recommend.RelatedRow{
				State: domain.EmotionalState{
					ID:          asString(m["id"]),
					Name:        asString(m["name"]),
					Description: asString(m["description"]),
					Level:       asString(m["level"]),
					Severity:    asInt(m["severity"]),
				},
				Correlation: asFloat(m["correlation"]),
				Type:        asString(m["type"]),
				SourceName:  asString(m["source_name"]),
			})
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, apierr.Unavailable(err)
	}
	return rows.([]recommend.RelatedRow), nil
}

// StateDetails resolves the detected state ids to their ontology nodes,
// including the indicating category name.
func (s *Store) StateDetails(ctx context.Context, labels []domain.StateLabel) ([]domain.StateDetail, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	ctx, cancel := s.client.QueryContext(ctx)
	defer cancel()

	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $state_ids AS state_id
MATCH (s:EmotionalState {id: state_id})
OPTIONAL MATCH (s)<-[:INDICATES]-(c:TestCategory)
RETURN s.id AS id,
       s.name AS name,
       s.description AS description,
       s.level AS level,
       s.severity AS severity,
       s.score_range AS score_range,
       c.name AS category
`, map[string]any{"state_ids": stateIDs(labels)})
		if err != nil {
			return nil, err
		}

		var out []domain.StateDetail
		for res.Next(ctx) {
			m := res.Record().AsMap()
			out = append(out, domain.StateDetail{
				ID:          asString(m["id"]),
				Name:        asString(m["name"]),
				Description: asString(m["description"]),
				Level:       asString(m["level"]),
				Severity:    asInt(m["severity"]),
				ScoreRange:  asString(m["score_range"]),
				Category:    asString(m["category"]),
			})
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, apierr.Unavailable(err)
	}
	return rows.([]domain.StateDetail), nil
}

// ResourcesByTheme lists resources addressing the given themes, best-rated
// first.
func (s *Store) ResourcesByTheme(ctx context.Context, themeIDs []string, limit int) ([]domain.Recommendation, error) {
	if len(themeIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	ctx, cancel := s.client.QueryContext(ctx)
	defer cancel()

	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (r:Resource)-[:ADDRESSES]->(t:Theme)
WHERE t.id IN $theme_ids
OPTIONAL MATCH (r)-[:BELONGS_TO]->(rt:ResourceType)
WITH r, rt, collect(DISTINCT t.name) AS themes
RETURN r.id AS id,
       r.title AS title,
       r.author AS author,
       r.description AS description,
       r.url AS url,
       r.language AS language,
       r.rating AS rating,
       rt.name AS resource_type,
       themes
ORDER BY r.rating DESC, r.id
LIMIT $limit
`, map[string]any{"theme_ids": themeIDs, "limit": limit})
		if err != nil {
			return nil, err
		}

		var out []domain.Recommendation
		for res.Next(ctx) {
			m := res.Record().AsMap()
			out = append(out, domain.Recommendation{
				Resource: domain.Resource{
					ID:          asString(m["id"]),
					Title:       asString(m["title"]),
					Author:      asString(m["author"]),
					Description: asString(m["description"]),
					URL:         asString(m["url"]),
					Language:    asString(m["language"]),
					Rating:      asFloat(m["rating"]),
				},
				ResourceType: asString(m["resource_type"]),
				Themes:       asStrings(m["themes"]),
			})
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, apierr.Unavailable(err)
	}
	return rows.([]domain.Recommendation), nil
}

// FullGraph exports every node and relationship for the client-side
// visualization.
func (s *Store) FullGraph(ctx context.Context) (*domain.GraphView, error) {
	ctx, cancel := s.client.QueryContext(ctx)
	defer cancel()

	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	view, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (n)
OPTIONAL MATCH (n)-[r]->(m)
RETURN n, r, m
`, nil)
		if err != nil {
			return nil, err
		}

		out := &domain.GraphView{Nodes: []domain.GraphNode{}, Edges: []domain.GraphEdge{}}
		seen := make(map[string]bool)
		addNode := func(node neo4j.Node) {
			if seen[node.ElementId] {
				return
			}
			seen[node.ElementId] = true
			out.Nodes = append(out.Nodes, domain.GraphNode{
				ID:         node.ElementId,
				Label:      displayLabel(node.Props),
				Type:       nodeType(node.Labels),
				Properties: node.Props,
			})
		}
		for res.Next(ctx) {
			values := res.Record().Values
			node, ok := values[0].(neo4j.Node)
			if !ok {
				continue
			}
			addNode(node)
			rel, ok := values[1].(neo4j.Relationship)
			if !ok {
				continue
			}
			end, ok := values[2].(neo4j.Node)
			if !ok {
				continue
			}
			if !allowedRelationships[rel.Type] {
				continue
			}
			addNode(end)
			out.Edges = append(out.Edges, domain.GraphEdge{
				ID:         rel.ElementId,
				From:       node.ElementId,
				To:         end.ElementId,
				Label:      rel.Type,
				Properties: rel.Props,
			})
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, apierr.Unavailable(err)
	}
	return view.(*domain.GraphView), nil
}

func displayLabel(props map[string]any) string {
	for _, key := range []string{"name", "title", "id"} {
		if v := asString(props[key]); v != "" {
			return v
		}
	}
	return "Unknown"
}

func nodeType(labels []string) string {
	for _, label := range labels {
		if allowedNodeLabels[label] {
			return label
		}
	}
	if len(labels) == 0 {
		return "Unknown"
	}
	return labels[0]
}

package graph

import (
	"context"
	"fmt"
)

// TagCandidateRow is one candidate from the shared-tag traversal. Score
// counts matching tag paths; Reasons is the distinct set of shared tag names.
type TagCandidateRow struct {
	Menu    string
	Score   int
	Reasons []string
}

// CoOrderRow is one candidate from the co-order traversal. Score counts
// (other-user, shared-menu) paths; History holds up to three of the
// requester's own ordered menus collected along those paths.
type CoOrderRow struct {
	Menu    string
	Score   int
	History []string
}

// ContextMatchRow reports, for one menu, which situational factors actually
// connect to it in the graph. Scoring happens in the core so both gating
// policies stay testable without a live graph.
type ContextMatchRow struct {
	Menu         string
	SeasonMatch  bool
	RainMatch    bool
	TimeMatch    bool
	PeopleMatch  bool
	AlcoholMatch bool
}

// PopularityRow is one menu with its inbound ORDERED edge count.
type PopularityRow struct {
	Menu  string
	Score int
}

const tagSimilarQuery = `
MATCH (u:User {user_id: $uid})-[:ORDERED]->(eaten:Menu)-[:HAS_TAG]->(t:Tag)<-[:HAS_TAG]-(rec:Menu)
WHERE NOT (u)-[:ORDERED]->(rec)
RETURN rec.name AS menu,
       collect(DISTINCT t.name) AS reasons,
       count(t) AS score
`

// TagSimilar finds menus sharing tags with menus the user already ordered,
// excluding everything the user has ordered. Ordering and the result limit
// are applied by the ranker, not here.
func (s *Store) TagSimilar(ctx context.Context, userID uint) ([]TagCandidateRow, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, tagSimilarQuery, map[string]any{"uid": int64(userID)})
	if err != nil {
		return nil, fmt.Errorf("graph: tag similarity traversal: %w", err)
	}

	var rows []TagCandidateRow
	for result.Next(ctx) {
		values := result.Record().AsMap()
		rows = append(rows, TagCandidateRow{
			Menu:    recordString(values, "menu"),
			Score:   recordInt(values, "score"),
			Reasons: recordStrings(values, "reasons"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("graph: tag similarity rows: %w", err)
	}
	return rows, nil
}

const coOrderedQuery = `
MATCH (me:User {username: $username})-[:ORDERED]->(my:Menu)
MATCH (other:User)-[:ORDERED]->(my)
WHERE other.username <> $username
MATCH (other)-[:ORDERED]->(rec:Menu)
WHERE NOT (me)-[:ORDERED]->(rec)
RETURN rec.name AS menu,
       count(*) AS score,
       collect(DISTINCT my.name)[0..3] AS history
`

// CoOrdered finds menus ordered by users who share at least one ordered menu
// with the requester, excluding menus the requester already ordered.
func (s *Store) CoOrdered(ctx context.Context, username string) ([]CoOrderRow, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, coOrderedQuery, map[string]any{"username": username})
	if err != nil {
		return nil, fmt.Errorf("graph: co-order traversal: %w", err)
	}

	var rows []CoOrderRow
	for result.Next(ctx) {
		values := result.Record().AsMap()
		rows = append(rows, CoOrderRow{
			Menu:    recordString(values, "menu"),
			Score:   recordInt(values, "score"),
			History: recordStrings(values, "history"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("graph: co-order rows: %w", err)
	}
	return rows, nil
}

// A property equality against a null parameter never matches, so absent
// fields simply produce false flags.
const contextMatchQuery = `
MATCH (m:Menu)
OPTIONAL MATCH (m)<-[:GOOD_MATCH]-(cs:Context {category: 'season', value: $season})
OPTIONAL MATCH (m)<-[:GOOD_MATCH]-(cr:Context {category: 'rain', value: $rain})
OPTIONAL MATCH (m)<-[:GOOD_MATCH]-(ct:Context {category: 'time', value: $time})
OPTIONAL MATCH (m)<-[:GOOD_MATCH]-(cp:Context {category: 'people', value: $people})
OPTIONAL MATCH (m)<-[:PAIRED_WITH]-(a:Menu {name: $alcohol})
RETURN m.name AS menu,
       cs IS NOT NULL AS season_match,
       cr IS NOT NULL AS rain_match,
       ct IS NOT NULL AS time_match,
       cp IS NOT NULL AS people_match,
       a IS NOT NULL AS alcohol_match
`

// ContextMatches reports, for every menu, which of the normalized request
// values connect to it through GOOD_MATCH (or PAIRED_WITH for alcohol).
func (s *Store) ContextMatches(ctx context.Context, season, rain, timeOfDay, people, alcohol string) ([]ContextMatchRow, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, contextMatchQuery, map[string]any{
		"season":  nullable(season),
		"rain":    nullable(rain),
		"time":    nullable(timeOfDay),
		"people":  nullable(people),
		"alcohol": nullable(alcohol),
	})
	if err != nil {
		return nil, fmt.Errorf("graph: context match traversal: %w", err)
	}

	var rows []ContextMatchRow
	for result.Next(ctx) {
		values := result.Record().AsMap()
		rows = append(rows, ContextMatchRow{
			Menu:         recordString(values, "menu"),
			SeasonMatch:  recordBool(values, "season_match"),
			RainMatch:    recordBool(values, "rain_match"),
			TimeMatch:    recordBool(values, "time_match"),
			PeopleMatch:  recordBool(values, "people_match"),
			AlcoholMatch: recordBool(values, "alcohol_match"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("graph: context match rows: %w", err)
	}
	return rows, nil
}

const popularityQuery = `
MATCH (m:Menu)<-[r:ORDERED]-()
RETURN m.name AS menu, count(r) AS score
`

// Popularity counts inbound ORDERED edges per menu. Used only by the
// contextual strategy's fallback.
func (s *Store) Popularity(ctx context.Context) ([]PopularityRow, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, popularityQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("graph: popularity traversal: %w", err)
	}

	var rows []PopularityRow
	for result.Next(ctx) {
		values := result.Record().AsMap()
		rows = append(rows, PopularityRow{
			Menu:  recordString(values, "menu"),
			Score: recordInt(values, "score"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("graph: popularity rows: %w", err)
	}
	return rows, nil
}

func nullable(val string) any {
	if val == "" {
		return nil
	}
	return val
}

package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ContextFitRow is one row of the offline situational-weight import: a menu,
// the context bucket it fits, and how well.
type ContextFitRow struct {
	Menu     string
	Category string
	Value    string
	Weight   float64
}

const importFitQuery = `
UNWIND $rows AS row
MERGE (m:Menu {name: row.menu})
MERGE (c:Context {category: row.category, value: row.value})
MERGE (m)-[r:FITS_IN]->(c)
SET r.weight = row.weight
`

const deriveGoodMatchQuery = `
UNWIND $rows AS row
MATCH (m:Menu {name: row.menu})
MATCH (c:Context {category: row.category, value: row.value})
MERGE (c)-[:GOOD_MATCH]->(m)
`

// ImportContextFits loads offline weighting data in one write transaction.
// Every row becomes a weighted FITS_IN edge; rows at or above goodMatchMin
// additionally get the GOOD_MATCH edge the live scoring path reads.
func (s *Store) ImportContextFits(ctx context.Context, rows []ContextFitRow, goodMatchMin float64) (int, error) {
	fitRows := make([]map[string]any, 0, len(rows))
	goodRows := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if row.Menu == "" || row.Category == "" || row.Value == "" {
			continue
		}
		rec := map[string]any{
			"menu":     row.Menu,
			"category": row.Category,
			"value":    row.Value,
			"weight":   row.Weight,
		}
		fitRows = append(fitRows, rec)
		if row.Weight >= goodMatchMin {
			goodRows = append(goodRows, rec)
		}
	}
	if len(fitRows) == 0 {
		return 0, nil
	}

	session := s.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, importFitQuery, map[string]any{"rows": fitRows})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		if len(goodRows) > 0 {
			res, err := tx.Run(ctx, deriveGoodMatchQuery, map[string]any{"rows": goodRows})
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
		return 0, fmt.Errorf("graph: import context fits: %w", err)
	}
	return len(fitRows), nil
}

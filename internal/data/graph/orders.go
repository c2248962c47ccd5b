package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const recordOrderQuery = `
MATCH (u:User {user_id: $uid})
MERGE (m:Menu {name: $menu_name})
MERGE (u)-[r:ORDERED]->(m)
ON CREATE SET r.count = 1, r.last_eaten = datetime()
ON MATCH SET r.count = r.count + 1, r.last_eaten = datetime()
`

// RecordOrder merges the ORDERED edge for the (user, menu) pair, creating
// the Menu node on first order. The edge count only ever goes up.
func (s *Store) RecordOrder(ctx context.Context, userID uint, menuName string) error {
	if menuName == "" {
		return fmt.Errorf("graph: menu name required")
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, recordOrderQuery, map[string]any{
			"uid":       int64(userID),
			"menu_name": menuName,
		})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("graph: record order: %w", err)
	}
	return nil
}

const createUserQuery = `
MERGE (u:User {username: $username})
ON CREATE SET u.user_id = $uid, u.age = $age, u.gender = $gender, u.created_at = datetime()
`

// CreateUser mirrors a new account into the graph. Signup is the only flow
// that creates User nodes.
func (s *Store) CreateUser(ctx context.Context, userID uint, username string, age int, gender string) error {
	if username == "" {
		return fmt.Errorf("graph: username required")
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, createUserQuery, map[string]any{
			"uid":      int64(userID),
			"username": username,
			"age":      int64(age),
			"gender":   gender,
		})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("graph: create user node: %w", err)
	}
	return nil
}

// db/db.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/permy/config"
	logger "github.com/dev-mohitbeniwal/permy/logging"
)

var Neo4jDriver neo4j.DriverWithContext

func InitNeo4j(cfg config.Neo4jConfiguration) error {
	var err error
	logger.Info("Connecting to Neo4j at URI", zap.String("uri", cfg.URI))
	Neo4jDriver, err = neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *neo4j.Config) {
			c.MaxConnectionLifetime = 30 * time.Minute
			c.MaxConnectionPoolSize = 50
			c.Log = neo4j.ConsoleLogger(neo4j.ERROR)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Neo4jDriver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	logger.Info("Successfully connected to Neo4j")
	return nil
}

func CloseNeo4j() {
	if Neo4jDriver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := Neo4jDriver.Close(ctx); err != nil {
			logger.Error("Error closing Neo4j connection", zap.Error(err))
		} else {
			logger.Info("Neo4j connection closed successfully")
		}
	}
}

// ExecuteRead runs a read-only query against the routing readers and returns
// every record.
func ExecuteRead(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	if Neo4jDriver == nil {
		return nil, fmt.Errorf("neo4j driver is not initialised")
	}
	result, err := neo4j.ExecuteQuery(ctx, Neo4jDriver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("failed to execute read query: %w", err)
	}
	return result.Records, nil
}

// ExecuteWrite runs a query against the writers.
func ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	if Neo4jDriver == nil {
		return nil, fmt.Errorf("neo4j driver is not initialised")
	}
	result, err := neo4j.ExecuteQuery(ctx, Neo4jDriver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithWritersRouting())
	if err != nil {
		return nil, fmt.Errorf("failed to execute write query: %w", err)
	}
	return result.Records, nil
}

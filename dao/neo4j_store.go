// dao/neo4j_store.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/permy/db"
	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/model"
	permy_neo4j "github.com/dev-mohitbeniwal/permy/model/neo4j"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

// QueryFunc runs a Cypher query and returns its records.
type QueryFunc func(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)

// Neo4jStore reads subjects and permission records from the graph:
// (:User {id})-[:HAS_PERMY]->(:Permy {id, name, <resource key>: json}).
type Neo4jStore struct {
	read  QueryFunc
	write QueryFunc
}

var _ Store = (*Neo4jStore)(nil)

// NewNeo4jStore defaults to db.ExecuteRead and db.ExecuteWrite for nil
// query functions.
func NewNeo4jStore(read, write QueryFunc) *Neo4jStore {
	if read == nil {
		read = db.ExecuteRead
	}
	if write == nil {
		write = db.ExecuteWrite
	}
	return &Neo4jStore{read: read, write: write}
}

func (s *Neo4jStore) FindSubject(ctx context.Context, id string) (*model.Subject, error) {
	query := `
        MATCH (u:` + permy_neo4j.LabelUser + ` {` + permy_neo4j.AttrID + `: $id})
        RETURN u.` + permy_neo4j.AttrID + ` AS id, u.` + permy_neo4j.AttrName + ` AS name, u.` + permy_neo4j.AttrEmail + ` AS email, u.` + permy_neo4j.AttrType + ` AS type
        `
	records, err := s.read(ctx, query, map[string]any{"id": id})
	if err != nil {
		logger.Error("Failed to find subject", zap.Error(err), zap.String("subjectID", id))
		return nil, fmt.Errorf("%w: %v", permy_errors.ErrDatabaseOperation, err)
	}
	if len(records) == 0 {
		return nil, permy_errors.ErrSubjectNotFound
	}

	record := records[0]
	subjectType := stringValue(record, "type")
	if subjectType == "" {
		subjectType = model.SubjectTypeUser
	}
	return &model.Subject{
		ID:    stringValue(record, "id"),
		Type:  subjectType,
		Name:  stringValue(record, "name"),
		Email: stringValue(record, "email"),
	}, nil
}

func (s *Neo4jStore) RecordsFor(ctx context.Context, subjectID, resourceKey string) ([]engine.EncodedRecord, error) {
	start := time.Now()
	query := `
        MATCH (u:` + permy_neo4j.LabelUser + ` {` + permy_neo4j.AttrID + `: $subjectId})-[:` + permy_neo4j.RelHasPermy + `]->(p:` + permy_neo4j.LabelPermy + `)
        RETURN p[$resourceKey] AS rule
        ORDER BY p.` + permy_neo4j.AttrID + `
        `
	records, err := s.read(ctx, query, map[string]any{
		"subjectId":   subjectID,
		"resourceKey": resourceKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", permy_errors.ErrDatabaseOperation, err)
	}

	out := make([]engine.EncodedRecord, 0, len(records))
	for _, record := range records {
		rule, _ := record.Get("rule")
		switch v := rule.(type) {
		case string:
			out = append(out, engine.EncodedRecord(v))
		case []byte:
			out = append(out, engine.EncodedRecord(v))
		default:
			out = append(out, nil)
		}
	}

	logger.Debug("Permission records fetched",
		zap.String("subjectID", subjectID),
		zap.String("resourceKey", resourceKey),
		zap.Int("records", len(out)),
		zap.Duration("duration", time.Since(start)))
	return out, nil
}

func stringValue(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

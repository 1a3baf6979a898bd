// dao/seed.go
package dao

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	permy_neo4j "github.com/dev-mohitbeniwal/permy/model/neo4j"
)

// Seeder imports fixtures into a persistent store. Existing rows are
// updated in place.
type Seeder interface {
	Seed(ctx context.Context, f Fixtures) error
}

var (
	_ Seeder = (*PgStore)(nil)
	_ Seeder = (*Neo4jStore)(nil)
)

// pgSchema is the layout read by PgStore.
var pgSchema = []string{
	`create table if not exists users (
		id text primary key,
		name text,
		email text
	)`,
	`create table if not exists permy (
		id text primary key,
		name text not null,
		"desc" text
	)`,
	`create table if not exists permy_user (
		permy_id text not null references permy(id) on delete cascade,
		user_id text not null references users(id) on delete cascade,
		primary key (permy_id, user_id)
	)`,
	`create table if not exists permy_rules (
		permy_id text not null references permy(id) on delete cascade,
		resource_key text not null,
		actions text not null,
		primary key (permy_id, resource_key)
	)`,
}

func (s *PgStore) Seed(ctx context.Context, f Fixtures) error {
	if s.db == nil {
		return permy_errors.ErrDatabaseOperation
	}
	if _, err := NewMemoryStore(f); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", permy_errors.ErrDatabaseOperation, err)
	}
	defer tx.Rollback()

	for _, stmt := range pgSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: create schema: %v", permy_errors.ErrDatabaseOperation, err)
		}
	}
	for _, subject := range f.Subjects {
		_, err := tx.ExecContext(ctx,
			`insert into users(id, name, email) values($1,$2,$3)
			 on conflict (id) do update set name = excluded.name, email = excluded.email`,
			subject.ID, subject.Name, subject.Email,
		)
		if err != nil {
			return fmt.Errorf("%w: seed subject %s: %v", permy_errors.ErrDatabaseOperation, subject.ID, err)
		}
	}
	for _, record := range f.Records {
		_, err := tx.ExecContext(ctx,
			`insert into permy(id, name, "desc") values($1,$2,$3)
			 on conflict (id) do update set name = excluded.name, "desc" = excluded."desc"`,
			record.ID, record.Name, record.Description,
		)
		if err != nil {
			return fmt.Errorf("%w: seed record %s: %v", permy_errors.ErrDatabaseOperation, record.ID, err)
		}
		for _, key := range sortedKeys(record.Rules) {
			_, err := tx.ExecContext(ctx,
				`insert into permy_rules(permy_id, resource_key, actions) values($1,$2,$3)
				 on conflict (permy_id, resource_key) do update set actions = excluded.actions`,
				record.ID, key, record.Rules[key],
			)
			if err != nil {
				return fmt.Errorf("%w: seed rule %s/%s: %v", permy_errors.ErrDatabaseOperation, record.ID, key, err)
			}
		}
	}
	for _, a := range f.Assignments {
		_, err := tx.ExecContext(ctx,
			`insert into permy_user(permy_id, user_id) values($1,$2) on conflict do nothing`,
			a.PermyID, a.SubjectID,
		)
		if err != nil {
			return fmt.Errorf("%w: assign %s to %s: %v", permy_errors.ErrDatabaseOperation, a.PermyID, a.SubjectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", permy_errors.ErrDatabaseOperation, err)
	}
	logger.Info("Postgres store seeded",
		zap.Int("subjects", len(f.Subjects)),
		zap.Int("records", len(f.Records)),
		zap.Int("assignments", len(f.Assignments)))
	return nil
}

func (s *Neo4jStore) Seed(ctx context.Context, f Fixtures) error {
	if _, err := NewMemoryStore(f); err != nil {
		return err
	}

	for _, subject := range f.Subjects {
		query := `
        MERGE (u:` + permy_neo4j.LabelUser + ` {` + permy_neo4j.AttrID + `: $id})
        SET u.` + permy_neo4j.AttrName + ` = $name, u.` + permy_neo4j.AttrEmail + ` = $email, u.` + permy_neo4j.AttrType + ` = $type
        `
		_, err := s.write(ctx, query, map[string]any{
			"id":    subject.ID,
			"name":  subject.Name,
			"email": subject.Email,
			"type":  subject.Type,
		})
		if err != nil {
			return fmt.Errorf("%w: seed subject %s: %v", permy_errors.ErrDatabaseOperation, subject.ID, err)
		}
	}
	for _, record := range f.Records {
		rules := make(map[string]any, len(record.Rules))
		for key, value := range record.Rules {
			rules[key] = value
		}
		query := `
        MERGE (p:` + permy_neo4j.LabelPermy + ` {` + permy_neo4j.AttrID + `: $id})
        SET p.` + permy_neo4j.AttrName + ` = $name, p.` + permy_neo4j.AttrDescription + ` = $desc
        SET p += $rules
        `
		_, err := s.write(ctx, query, map[string]any{
			"id":    record.ID,
			"name":  record.Name,
			"desc":  record.Description,
			"rules": rules,
		})
		if err != nil {
			return fmt.Errorf("%w: seed record %s: %v", permy_errors.ErrDatabaseOperation, record.ID, err)
		}
	}
	for _, a := range f.Assignments {
		query := `
        MATCH (u:` + permy_neo4j.LabelUser + ` {` + permy_neo4j.AttrID + `: $subjectId})
        MATCH (p:` + permy_neo4j.LabelPermy + ` {` + permy_neo4j.AttrID + `: $permyId})
        MERGE (u)-[:` + permy_neo4j.RelHasPermy + `]->(p)
        `
		_, err := s.write(ctx, query, map[string]any{
			"subjectId": a.SubjectID,
			"permyId":   a.PermyID,
		})
		if err != nil {
			return fmt.Errorf("%w: assign %s to %s: %v", permy_errors.ErrDatabaseOperation, a.PermyID, a.SubjectID, err)
		}
	}

	logger.Info("Neo4j store seeded",
		zap.Int("subjects", len(f.Subjects)),
		zap.Int("records", len(f.Records)),
		zap.Int("assignments", len(f.Assignments)))
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

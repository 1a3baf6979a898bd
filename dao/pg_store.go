// dao/pg_store.go
package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

// PgStore reads subjects and permission records from Postgres.
//
//	users(id, name, email)
//	permy(id, name, "desc")
//	permy_user(permy_id, user_id)
//	permy_rules(permy_id, resource_key, actions)
type PgStore struct {
	db *sql.DB
}

var _ Store = (*PgStore)(nil)

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) FindSubject(ctx context.Context, id string) (*model.Subject, error) {
	if s.db == nil {
		return nil, permy_errors.ErrDatabaseOperation
	}

	subject := model.Subject{Type: model.SubjectTypeUser}
	var name, email sql.NullString
	row := s.db.QueryRowContext(ctx, `
		select id, name, email
		from users
		where id = $1
	`, id)
	if err := row.Scan(&subject.ID, &name, &email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, permy_errors.ErrSubjectNotFound
		}
		logger.Error("Failed to find subject", zap.Error(err), zap.String("subjectID", id))
		return nil, fmt.Errorf("%w: %v", permy_errors.ErrDatabaseOperation, err)
	}
	subject.Name = name.String
	subject.Email = email.String
	return &subject, nil
}

// RecordsFor returns one record per permission record assigned to the
// subject. Records without a rule for resourceKey come back nil.
func (s *PgStore) RecordsFor(ctx context.Context, subjectID, resourceKey string) ([]engine.EncodedRecord, error) {
	if s.db == nil {
		return nil, permy_errors.ErrDatabaseOperation
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, `
		select r.actions
		from permy_user pu
		join permy p on p.id = pu.permy_id
		left join permy_rules r on r.permy_id = p.id and r.resource_key = $2
		where pu.user_id = $1
		order by p.id
	`, subjectID, resourceKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", permy_errors.ErrDatabaseOperation, err)
	}
	defer rows.Close()

	var records []engine.EncodedRecord
	for rows.Next() {
		var actions []byte
		if err := rows.Scan(&actions); err != nil {
			return nil, fmt.Errorf("%w: %v", permy_errors.ErrDatabaseOperation, err)
		}
		records = append(records, engine.EncodedRecord(actions))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", permy_errors.ErrDatabaseOperation, err)
	}

	logger.Debug("Permission records fetched",
		zap.String("subjectID", subjectID),
		zap.String("resourceKey", resourceKey),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)))
	return records, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/magicailabs/magicai/store"
)

func (d *DB) ListAgents(ctx context.Context, find *store.FindAgent) ([]*store.Agent, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.CategoryID != nil {
		where, args = append(where, "category_id = "+placeholder(len(args)+1)), append(args, *find.CategoryID)
	}
	if find.IsActive != nil {
		where, args = append(where, "is_active = "+placeholder(len(args)+1)), append(args, *find.IsActive)
	}

	query := `
		SELECT id, uid, category_id, name_es, name_en, description_es, description_en,
			system_prompt, ai_provider, model_name, tools_config, is_active, created_ts
		FROM agent
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agents: %w", err)
	}
	return list, nil
}

func scanAgent(rows *sql.Rows) (*store.Agent, error) {
	agent := &store.Agent{}
	var toolsRaw []byte
	if err := rows.Scan(
		&agent.ID, &agent.UID, &agent.CategoryID, &agent.NameES, &agent.NameEN,
		&agent.DescriptionES, &agent.DescriptionEN, &agent.SystemPrompt,
		&agent.Provider, &agent.ModelName, &toolsRaw, &agent.IsActive, &agent.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to scan agent: %w", err)
	}

	// Decode the capability set once here so callers never have to
	// string-match tool names per request.
	tools, err := store.DecodeToolSet(toolsRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tools config for agent %d: %w", agent.ID, err)
	}
	agent.Tools = tools
	return agent, nil
}

func (d *DB) UpsertAgentEmbedding(ctx context.Context, agentID int32, embedding []float32) error {
	stmt := `UPDATE agent SET embedding = ` + placeholder(1) + ` WHERE id = ` + placeholder(2)
	result, err := d.db.ExecContext(ctx, stmt, pgvector.NewVector(embedding), agentID)
	if err != nil {
		return fmt.Errorf("failed to update agent embedding: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("agent not found")
	}
	return nil
}

func (d *DB) SearchAgentsByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*store.Agent, error) {
	query := `
		SELECT id, uid, category_id, name_es, name_en, description_es, description_en,
			system_prompt, ai_provider, model_name, tools_config, is_active, created_ts
		FROM agent
		WHERE is_active AND embedding IS NOT NULL
		ORDER BY embedding <=> ` + placeholder(1) + `
		LIMIT ` + placeholder(2)

	rows, err := d.db.QueryContext(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search agents: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Agent, 0, limit)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agents: %w", err)
	}
	return list, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"coachreports/internal/database"
	"coachreports/internal/models"
)

// ContentRepository handles database operations for channel content trees
type ContentRepository struct {
	db database.DBTX
}

// NewContentRepository creates a new content repository
func NewContentRepository(db database.DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

const nodeColumns = "id, content_id, channel_id, parent_id, kind, title, sort_order"

// CreateNode inserts a content node
func (r *ContentRepository) CreateNode(ctx context.Context, node models.ContentNode) error {
	query := "INSERT INTO content_nodes (" + nodeColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		node.ID, node.ContentID, node.ChannelID, node.ParentID, string(node.Kind), node.Title, node.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to create content node: %w", err)
	}
	return nil
}

// ListChannels returns the root topic of every channel, ordered by title
func (r *ContentRepository) ListChannels(ctx context.Context) ([]models.ContentNode, error) {
	query := "SELECT " + nodeColumns + " FROM content_nodes WHERE parent_id IS NULL ORDER BY title ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	return scanNodes(rows)
}

// ListChannelNodes returns every node of a channel ordered by sort_order then title
func (r *ContentRepository) ListChannelNodes(ctx context.Context, channelID string) ([]models.ContentNode, error) {
	query := "SELECT " + nodeColumns + " FROM content_nodes WHERE channel_id = ? ORDER BY sort_order ASC, title ASC"
	rows, err := r.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel nodes: %w", err)
	}
	return scanNodes(rows)
}

// ListAllNodes returns the nodes of every channel, for backups
func (r *ContentRepository) ListAllNodes(ctx context.Context) ([]models.ContentNode, error) {
	query := "SELECT " + nodeColumns + " FROM content_nodes ORDER BY channel_id ASC, sort_order ASC, title ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query content nodes: %w", err)
	}
	return scanNodes(rows)
}

func scanNodes(rows *sql.Rows) ([]models.ContentNode, error) {
	defer rows.Close()

	var nodes []models.ContentNode
	for rows.Next() {
		var n models.ContentNode
		var parentID sql.NullString
		var kind string
		if err := rows.Scan(&n.ID, &n.ContentID, &n.ChannelID, &parentID, &kind, &n.Title, &n.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan content node: %w", err)
		}
		n.Kind = models.ContentKind(kind)
		if parentID.Valid {
			n.ParentID = &parentID.String
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, name, type, content, original_note, refined_note, company_name, project_name,
	status, client_message, created_at, last_updated_at, updated_by, previous_content`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.Type,
		&doc.Content,
		&doc.OriginalNote,
		&doc.RefinedNote,
		&doc.CompanyName,
		&doc.ProjectName,
		&doc.Status,
		&doc.ClientMessage,
		&doc.CreatedAt,
		&doc.LastUpdatedAt,
		&doc.UpdatedBy,
		&doc.PreviousContent,
	)
}

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, type, content, original_note, refined_note, company_name, project_name,
			status, client_message, created_at, last_updated_at, updated_by, previous_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.tables.Documents)

	q := executor(ctx, r.pool)
	_, err := q.Exec(ctx, query,
		doc.ID,
		doc.Name,
		doc.Type,
		doc.Content,
		doc.OriginalNote,
		doc.RefinedNote,
		doc.CompanyName,
		doc.ProjectName,
		doc.Status,
		doc.ClientMessage,
		doc.CreatedAt,
		doc.LastUpdatedAt,
		doc.UpdatedBy,
		doc.PreviousContent,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document %s already exists", doc.ID),
				ResourceType: "document",
				ResourceID:   doc.ID,
			}
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, documentColumns, r.tables.Documents)

	var doc models.Document
	q := executor(ctx, r.pool)
	if err := scanDocument(q.QueryRow(ctx, query, id), &doc); err != nil {
		if isMissing(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// List returns all documents in creation order
func (r *PostgresDocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at ASC, seq ASC`, documentColumns, r.tables.Documents)

	q := executor(ctx, r.pool)
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// Update persists the mutable fields of a document.
// previous_content is written with COALESCE so a stored snapshot is never replaced,
// even when two first edits race.
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			name = $2,
			type = $3,
			content = $4,
			original_note = $5,
			refined_note = $6,
			company_name = $7,
			project_name = $8,
			status = $9,
			client_message = $10,
			last_updated_at = $11,
			updated_by = $12,
			previous_content = COALESCE(previous_content, $13)
		WHERE id = $1
		RETURNING created_at, previous_content
	`, r.tables.Documents)

	q := executor(ctx, r.pool)
	err := q.QueryRow(ctx, query,
		doc.ID,
		doc.Name,
		doc.Type,
		doc.Content,
		doc.OriginalNote,
		doc.RefinedNote,
		doc.CompanyName,
		doc.ProjectName,
		doc.Status,
		doc.ClientMessage,
		doc.LastUpdatedAt,
		doc.UpdatedBy,
		doc.PreviousContent,
	).Scan(&doc.CreatedAt, &doc.PreviousContent)

	if err != nil {
		if isMissing(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update document: %w", err)
	}

	return nil
}

// Delete removes a document
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	q := executor(ctx, r.pool)
	result, err := q.Exec(ctx, query, id)
	if err != nil {
		if isInvalidText(err) {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Package dynamodb implements the persistent Paper store on a single
// DynamoDB table. Papers are written once on first resolution and looked
// up by id; there is no update path.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/domain/paper"
	apperrors "papergraph/pkg/errors"
)

// PaperStore implements ports.PaperStore using DynamoDB.
type PaperStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewPaperStore creates a PaperStore.
func NewPaperStore(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.PaperStore {
	return &PaperStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// paperItem represents the DynamoDB item structure for a paper document.
type paperItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	PaperID    string   `dynamodbav:"PaperID"`
	Title      string   `dynamodbav:"Title"`
	Authors    []string `dynamodbav:"Authors"`
	Abstract   string   `dynamodbav:"Abstract"`
	Link       string   `dynamodbav:"Link"`
	Categories []string `dynamodbav:"Categories"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
}

func paperKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PAPER#%s", id)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

// Get retrieves a paper document by id. A missing item is not an error.
func (s *PaperStore) Get(ctx context.Context, id string) (*paper.Paper, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       paperKey(id),
	})
	if err != nil {
		s.logger.Error("Failed to read paper from DynamoDB",
			zap.String("paperID", id),
			zap.Error(err),
		)
		return nil, false, apperrors.NewDatabaseError("get paper", err)
	}

	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var item paperItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, false, apperrors.NewDatabaseError("unmarshal paper", err)
	}

	return &paper.Paper{
		ID:         item.PaperID,
		Title:      item.Title,
		Authors:    item.Authors,
		Abstract:   item.Abstract,
		Link:       item.Link,
		Categories: item.Categories,
	}, true, nil
}

// Save persists a paper document.
func (s *PaperStore) Save(ctx context.Context, p *paper.Paper) error {
	item := paperItem{
		PK:         fmt.Sprintf("PAPER#%s", p.ID),
		SK:         "METADATA",
		EntityType: "PAPER",
		PaperID:    p.ID,
		Title:      p.Title,
		Authors:    p.Authors,
		Abstract:   p.Abstract,
		Link:       p.Link,
		Categories: p.Categories,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewDatabaseError("marshal paper", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("Failed to save paper to DynamoDB",
			zap.String("paperID", p.ID),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("save paper", err)
	}

	return nil
}

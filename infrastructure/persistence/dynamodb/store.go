package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"gardend/application/ports"
	pkgerrors "gardend/pkg/errors"
	"gardend/pkg/utils"
)

// Store is a DocumentStore backed by a single DynamoDB table. Collections are
// partition keys; documents are sort keys. DynamoDB has no client push, so
// subscriptions are served by a change-feed poller that re-queries the
// collection and notifies on any difference, preserving the same snapshot
// contract the in-memory store pushes.
type Store struct {
	client       *dynamodb.Client
	tableName    string
	pollInterval time.Duration
	breaker      *gobreaker.CircuitBreaker
	logger       *zap.Logger
}

// item is the single-table layout of one document.
type item struct {
	PK         string                 `dynamodbav:"PK"`
	SK         string                 `dynamodbav:"SK"`
	Collection string                 `dynamodbav:"Collection"`
	DocumentID string                 `dynamodbav:"DocumentID"`
	Fields     map[string]interface{} `dynamodbav:"Fields"`
	UpdatedAt  string                 `dynamodbav:"UpdatedAt"`
}

// NewStore creates a DynamoDB-backed document store.
func NewStore(client *dynamodb.Client, tableName string, pollInterval time.Duration, logger *zap.Logger) *Store {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "dynamodb-store",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Store circuit breaker state changed",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Store{
		client:       client,
		tableName:    tableName,
		pollInterval: pollInterval,
		breaker:      breaker,
		logger:       logger,
	}
}

func collectionKey(collection string) string {
	return "COLLECTION#" + collection
}

func documentKey(id string) string {
	return "DOC#" + id
}

// Subscribe serves push semantics over a poll loop: an immediate replay of
// the current state, then a fresh snapshot whenever the collection contents
// change.
func (s *Store) Subscribe(ctx context.Context, collection string, orderBy ports.OrderBy, handler ports.SnapshotHandler) (ports.Unsubscribe, error) {
	docs, err := s.QueryOnce(ctx, collection, orderBy)
	if err != nil {
		return nil, err
	}
	handler(ports.Snapshot{Collection: collection, Documents: docs})

	pollCtx, cancel := context.WithCancel(ctx)
	last := snapshotDigest(docs)

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				docs, err := s.QueryOnce(pollCtx, collection, orderBy)
				if err != nil {
					if pollCtx.Err() != nil {
						return
					}
					s.logger.Warn("Change feed poll failed",
						zap.String("collection", collection), zap.Error(err))
					continue
				}
				digest := snapshotDigest(docs)
				if digest == last {
					continue
				}
				last = digest
				handler(ports.Snapshot{Collection: collection, Documents: docs})
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

// Create stores a new document under a generated id.
func (s *Store) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// Set writes a document at a known id, creating or replacing it.
func (s *Store) Set(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	av, err := attributevalue.MarshalMap(item{
		PK:         collectionKey(collection),
		SK:         documentKey(id),
		Collection: collection,
		DocumentID: id,
		Fields:     fields,
		UpdatedAt:  utils.FormatInstant(time.Now()),
	})
	if err != nil {
		return pkgerrors.NewInternalError("marshal document").WithCause(err)
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.tableName),
			Item:      av,
		})
	})
	return s.wrapError("put "+collection, err)
}

// Update merges partial fields into an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	update := expression.Set(
		expression.Name("UpdatedAt"),
		expression.Value(utils.FormatInstant(time.Now())),
	)
	for name, value := range fields {
		update = update.Set(expression.Name("Fields."+name), expression.Value(value))
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		WithUpdate(update).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("build update expression").WithCause(err)
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: collectionKey(collection)},
				"SK": &types.AttributeValueMemberS{Value: documentKey(id)},
			},
			ConditionExpression:       expr.Condition(),
			UpdateExpression:          expr.Update(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
	})

	var condFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condFailed) {
		return pkgerrors.NewNotFoundError("document " + collection + "/" + id)
	}
	return s.wrapError("update "+collection, err)
}

// Delete removes a document. Deleting an absent document is a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: collectionKey(collection)},
				"SK": &types.AttributeValueMemberS{Value: documentKey(id)},
			},
		})
	})
	return s.wrapError("delete "+collection, err)
}

// QueryOnce returns the current ordered contents of a collection.
func (s *Store) QueryOnce(ctx context.Context, collection string, orderBy ports.OrderBy) ([]ports.Document, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(collectionKey(collection)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("build query expression").WithCause(err)
	}

	var docs []ports.Document
	var lastKey map[string]types.AttributeValue

	for {
		out, err := s.breaker.Execute(func() (interface{}, error) {
			return s.client.Query(ctx, &dynamodb.QueryInput{
				TableName:                 aws.String(s.tableName),
				KeyConditionExpression:    expr.KeyCondition(),
				ExpressionAttributeNames:  expr.Names(),
				ExpressionAttributeValues: expr.Values(),
				ExclusiveStartKey:         lastKey,
			})
		})
		if err != nil {
			return nil, s.wrapError("query "+collection, err)
		}

		result := out.(*dynamodb.QueryOutput)
		for _, raw := range result.Items {
			var it item
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				s.logger.Warn("Skipping unreadable item",
					zap.String("collection", collection), zap.Error(err))
				continue
			}
			docs = append(docs, ports.Document{ID: it.DocumentID, Fields: it.Fields})
		}

		lastKey = result.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}

	// The table's sort key is the document id; the view ordering key is a
	// document field, so ordering happens here.
	ports.SortDocuments(docs, orderBy)
	return docs, nil
}

// wrapError maps store failures into the application error taxonomy.
func (s *Store) wrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.NewUnavailableError("document store")
	}
	return pkgerrors.NewDatabaseError(operation, err)
}

// snapshotDigest summarizes a snapshot for change detection. JSON encoding
// keeps the digest deterministic: object keys are sorted and the documents
// arrive pre-ordered.
func snapshotDigest(docs []ports.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		encoded, err := json.Marshal(doc.Fields)
		if err != nil {
			encoded = []byte(fmt.Sprintf("%d", len(doc.Fields)))
		}
		b.WriteString(doc.ID)
		b.WriteByte('@')
		b.Write(encoded)
		b.WriteByte(';')
	}
	return b.String()
}

// Package store reads and writes notification documents in DynamoDB.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no document exists under the requested id.
var ErrNotFound = errors.New("document not found")

// DynamoAPI is the subset of *dynamodb.Client used by the store.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Tables names the DynamoDB tables backing each collection.
type Tables struct {
	Users         string
	Notifications string
}

type DynamoStore struct {
	client DynamoAPI
	tables Tables
	now    func() time.Time
	newID  func() string
}

func NewDynamoStore(client DynamoAPI, tables Tables) *DynamoStore {
	return &DynamoStore{
		client: client,
		tables: tables,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		model.KeyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

// GetUser fetches users/{id}.
func (s *DynamoStore) GetUser(ctx context.Context, id string) (model.User, error) {
	var user model.User
	if err := s.get(ctx, s.tables.Users, id, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// GetNotification fetches notifications/{id}.
func (s *DynamoStore) GetNotification(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	if err := s.get(ctx, s.tables.Notifications, id, &n); err != nil {
		return model.Notification{}, err
	}
	return n, nil
}

func (s *DynamoStore) get(ctx context.Context, table, id string, out any) error {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       keyOf(id),
	})
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", table, id, err)
	}
	if result.Item == nil {
		return fmt.Errorf("%s/%s: %w", table, id, ErrNotFound)
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return fmt.Errorf("%w: decode %s/%s: %v", model.ErrInvalidDocument, table, id, err)
	}
	return nil
}

// AppendNotification writes n under a fresh id and stamps createdAt with the
// write time. The id of the new document is returned.
func (s *DynamoStore) AppendNotification(ctx context.Context, n model.Notification) (string, error) {
	n.ID = s.newID()
	n.CreatedAt = model.Timestamp{Time: s.now().UTC()}

	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return "", fmt.Errorf("encode notification: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tables.Notifications),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(" + model.KeyAttribute + ")"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", s.tables.Notifications, n.ID, err)
	}
	return n.ID, nil
}

// SubscribedUserIDs scans the users table for documents carrying a non-empty
// device token.
func (s *DynamoStore) SubscribedUserIDs(ctx context.Context) ([]string, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:            aws.String(s.tables.Users),
		ProjectionExpression: aws.String(model.KeyAttribute),
		FilterExpression:     aws.String("attribute_exists(fcmToken) AND fcmToken <> :empty"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberS{Value: ""},
		},
	})

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.tables.Users, err)
		}
		for _, item := range page.Items {
			var u model.User
			if err := attributevalue.UnmarshalMap(item, &u); err != nil || u.ID == "" {
				continue
			}
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}
